package live

import "time"

const EventRecordUpdate = "record.update"

// RecordEvent is broadcast whenever a stored best score changes.
type RecordEvent struct {
	Type       string    `json:"type"`
	PlayerID   string    `json:"player_id"`
	Game       string    `json:"game"`
	SongKey    string    `json:"song_key"`
	Sheet      string    `json:"sheet"`
	Difficulty string    `json:"difficulty"`
	Score      int       `json:"score"`
	At         time.Time `json:"at"`
}
