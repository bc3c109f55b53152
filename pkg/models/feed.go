package models

// ConstantFeed is the community-sourced internal-level feed. Sheets whose
// type is not a real chart variant (e.g. world's end) are skipped by the
// reconciler.
type ConstantFeed struct {
	Songs []ConstantSong `json:"songs"`
}

type ConstantSong struct {
	Title  string          `json:"title"`
	Sheets []ConstantSheet `json:"sheets"`
}

// InternalLevel arrives as a decimal string ("13.7") or null; the
// reconciler parses it and treats an unparseable value as a fatal feed
// error.
type ConstantSheet struct {
	Type          string  `json:"type"`
	Difficulty    string  `json:"difficulty"`
	InternalLevel *string `json:"internalLevel"`
}
