package reconcile

import (
	"fmt"
	"strings"

	"otogehub/pkg/models"
)

// LevelWarning records a conflict between a stored level text and a freshly
// fetched one. Warnings are surfaced as log/alert lines, never stored.
type LevelWarning struct {
	Game       string
	SongKey    string
	Sheet      string
	Difficulty string
	Version    string
	Existing   string
	Fresh      string
}

func (w LevelWarning) String() string {
	return fmt.Sprintf("level mismatch for %s/%s [%s %s] %s: existing %q, fetched %q",
		w.Game, w.SongKey, w.Sheet, w.Difficulty, w.Version, w.Existing, w.Fresh)
}

type LevelResult struct {
	Payload  []models.ChartLevel
	Warnings []LevelWarning
	Skipped  int
}

type chartKey struct {
	songKey    string
	sheet      string
	difficulty string
	version    string
}

// ReconcileLevels decides which fetched (song, sheet, difficulty) levels need
// inserting for a game version. A stored level is authoritative: a conflicting
// fetch only produces a warning, never an overwrite. Difficulties with an
// empty level text (the chart simply does not exist) are skipped silently.
func ReconcileLevels(game string, fresh []models.FetchedChart, existing []models.ChartLevel, version string) LevelResult {
	idx := make(map[chartKey]models.ChartLevel, len(existing))
	for _, row := range existing {
		if row.Game != game {
			continue
		}
		idx[chartKey{row.SongKey, row.Sheet, row.Difficulty, row.Version}] = row
	}

	var res LevelResult
	for _, f := range fresh {
		if strings.TrimSpace(f.Level) == "" {
			continue
		}

		row, ok := idx[chartKey{f.SongKey, f.Sheet, f.Difficulty, version}]
		if !ok {
			res.Payload = append(res.Payload, models.ChartLevel{
				Game:       game,
				SongKey:    f.SongKey,
				Sheet:      f.Sheet,
				Difficulty: f.Difficulty,
				Version:    version,
				Level:      f.Level,
			})
			continue
		}

		if row.Level != f.Level {
			res.Warnings = append(res.Warnings, LevelWarning{
				Game:       game,
				SongKey:    f.SongKey,
				Sheet:      f.Sheet,
				Difficulty: f.Difficulty,
				Version:    version,
				Existing:   row.Level,
				Fresh:      f.Level,
			})
		}
		res.Skipped++
	}
	return res
}
