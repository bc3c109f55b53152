package models

// Game identifiers used across tables and API routes.
const (
	GameChuni = "chunithm"
	GameMai   = "maimai"
)

// ChuniSong is one CHUNITHM catalog row. The official numeric ID is the key.
type ChuniSong struct {
	ID       int    `json:"id"`
	Category string `json:"category"`
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	Image    string `json:"image,omitempty"`
}

// MaiSong is one maimai catalog row. maimai has no numeric ID, so the title
// is the de-facto primary key; category and image break ties between songs
// that share a title (e.g. the two charts literally named "Link").
type MaiSong struct {
	Title    string `json:"title"`
	Category string `json:"category"`
	Artist   string `json:"artist"`
	Image    string `json:"image,omitempty"`
	Version  string `json:"version,omitempty"`
}

// SongRef is the minimal (key, title) view of a catalog row used when
// matching an external feed by title.
type SongRef struct {
	Key   string `json:"key"`
	Title string `json:"title"`
}
