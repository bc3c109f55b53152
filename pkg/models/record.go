package models

import "time"

// PlayRecord is a player's best score on one chart.
type PlayRecord struct {
	PlayerID   string    `json:"player_id"`
	Game       string    `json:"game"`
	SongKey    string    `json:"song_key"`
	Sheet      string    `json:"sheet"`
	Difficulty string    `json:"difficulty"`
	Score      int       `json:"score"`
	ComboMark  string    `json:"combo_mark,omitempty"`
	UpdatedAt  time.Time `json:"updated_at"`
}
