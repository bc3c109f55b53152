package reconcile

import (
	"fmt"
	"math"
	"strconv"

	"otogehub/pkg/models"
)

// ConstantUpdate is one verified internal-level value to write back.
type ConstantUpdate struct {
	Game       string
	SongKey    string
	Sheet      string
	Difficulty string
	Version    string
	Constant   float64
}

// ConstantOptions is resolved by the job at the process boundary. Overwrite
// must be an explicit opt-in: replacing an already-verified constant with a
// value from a noisy external feed is otherwise refused.
type ConstantOptions struct {
	Overwrite     bool
	AllowedSheets []string // feed sheet types that map to real chart variants
}

type ConstantResult struct {
	Payload    []ConstantUpdate
	NullsCount int
	NullsTitle []string
	Warnings   []string
}

// ReconcileConstants matches a community internal-level feed against the
// stored catalog by title and computes constant updates for one game version.
//
// Per fed song: no title match is a silent skip (the song may have left the
// live game); an ambiguous title warns and skips (operator intervention
// needed); sheets outside AllowedSheets (e.g. world's end) are skipped.
// A fed value fills a null stored constant without a warning; a conflicting
// non-null stored constant always warns and is only replaced under Overwrite.
// A null fed value never nulls out a stored constant, overwrite or not.
//
// An unparseable internal level aborts the whole batch: that is a schema
// violation, not a per-record conflict.
func ReconcileConstants(game, version string, songs []models.SongRef, existing []models.ChartLevel, feed models.ConstantFeed, opts ConstantOptions) (ConstantResult, error) {
	byTitle := make(map[string][]models.SongRef, len(songs))
	for _, s := range songs {
		byTitle[s.Title] = append(byTitle[s.Title], s)
	}

	idx := make(map[chartKey]models.ChartLevel, len(existing))
	for _, row := range existing {
		if row.Game != game {
			continue
		}
		idx[chartKey{row.SongKey, row.Sheet, row.Difficulty, row.Version}] = row
	}

	allowed := make(map[string]bool, len(opts.AllowedSheets))
	for _, s := range opts.AllowedSheets {
		allowed[s] = true
	}
	if len(allowed) == 0 {
		allowed[models.SheetStd] = true
	}

	var res ConstantResult
	for _, fs := range feed.Songs {
		matches := byTitle[fs.Title]
		if len(matches) == 0 {
			// song may have been removed from the live game
			continue
		}
		if len(matches) > 1 {
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("duplicate title %q matches %d songs, skipping", fs.Title, len(matches)))
			continue
		}
		song := matches[0]

		for _, sheet := range fs.Sheets {
			if !allowed[sheet.Type] {
				continue
			}

			row, ok := idx[chartKey{song.Key, sheet.Type, sheet.Difficulty, version}]
			if !ok {
				// level might not exist yet for this version
				continue
			}

			if sheet.InternalLevel == nil {
				if row.Constant == nil {
					res.NullsCount++
					res.NullsTitle = append(res.NullsTitle, fs.Title)
				} else {
					res.Warnings = append(res.Warnings,
						fmt.Sprintf("constant value mismatch for %q [%s %s]: existing %.1f, fed null",
							fs.Title, sheet.Type, sheet.Difficulty, *row.Constant))
				}
				continue
			}

			fed, err := strconv.ParseFloat(*sheet.InternalLevel, 64)
			if err != nil {
				return ConstantResult{}, fmt.Errorf("internal level %q for %q [%s %s]: %w",
					*sheet.InternalLevel, fs.Title, sheet.Type, sheet.Difficulty, err)
			}

			if row.Constant == nil {
				res.Payload = append(res.Payload, ConstantUpdate{
					Game:       game,
					SongKey:    song.Key,
					Sheet:      sheet.Type,
					Difficulty: sheet.Difficulty,
					Version:    version,
					Constant:   fed,
				})
				continue
			}

			if math.Abs(fed-*row.Constant) < 1e-9 {
				continue
			}

			res.Warnings = append(res.Warnings,
				fmt.Sprintf("constant value mismatch for %q [%s %s]: existing %.1f, fed %.1f",
					fs.Title, sheet.Type, sheet.Difficulty, *row.Constant, fed))
			if opts.Overwrite {
				res.Payload = append(res.Payload, ConstantUpdate{
					Game:       game,
					SongKey:    song.Key,
					Sheet:      sheet.Type,
					Difficulty: sheet.Difficulty,
					Version:    version,
					Constant:   fed,
				})
			}
		}
	}
	return res, nil
}
