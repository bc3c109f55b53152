package models

// Sheet (chart variant) identifiers. CHUNITHM only has standard charts;
// maimai distinguishes standard and deluxe charts for the same song.
const (
	SheetStd = "std"
	SheetDX  = "dx"
)

// Difficulty identifiers shared by both games where they overlap.
const (
	DiffBasic    = "basic"
	DiffAdvanced = "advanced"
	DiffExpert   = "expert"
	DiffMaster   = "master"
	DiffUltima   = "ultima"   // CHUNITHM only
	DiffReMaster = "remaster" // maimai only
)

// ChartLevel is one stored (song, sheet, difficulty, game version) row.
// Level is the official displayed difficulty text (possibly "+"-suffixed)
// and is set once at insert. Constant is the community-verified internal
// level; it starts null and is only changed by the constant reconciliation
// job under its overwrite rules.
type ChartLevel struct {
	Game       string   `json:"game"`
	SongKey    string   `json:"song_key"`
	Sheet      string   `json:"sheet"`
	Difficulty string   `json:"difficulty"`
	Version    string   `json:"version"`
	Level      string   `json:"level"`
	Constant   *float64 `json:"constant,omitempty"`
}

// FetchedChart is one (song, sheet, difficulty, level text) combination
// extracted from a freshly fetched catalog, before any version is attached.
type FetchedChart struct {
	SongKey    string
	Sheet      string
	Difficulty string
	Level      string
}
