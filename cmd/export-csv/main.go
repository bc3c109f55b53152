package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"otogehub/pkg/database"
)

func main() {
	_ = godotenv.Load()

	var (
		songsOut   = flag.String("songs", "data/songs.csv", "output CSV path for songs")
		chartsOut  = flag.String("charts", "data/chart_levels.csv", "output CSV path for chart levels")
		recordsOut = flag.String("records", "data/play_records.csv", "output CSV path for play records")
	)
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db := database.MustOpen(database.DefaultConfig())
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	if err := exportSongs(ctx, db, *songsOut); err != nil {
		log.Fatalf("export songs failed: %v", err)
	}
	if err := exportChartLevels(ctx, db, *chartsOut); err != nil {
		log.Fatalf("export chart levels failed: %v", err)
	}
	if err := exportPlayRecords(ctx, db, *recordsOut); err != nil {
		log.Fatalf("export play records failed: %v", err)
	}

	log.Printf("exported songs to %s, chart levels to %s, play records to %s",
		*songsOut, *chartsOut, *recordsOut)
}

func newCSV(outPath string, header []string) (*os.File, *csv.Writer, error) {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return nil, nil, err
	}
	f, err := os.Create(outPath)
	if err != nil {
		return nil, nil, err
	}
	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		_ = f.Close()
		return nil, nil, err
	}
	return f, w, nil
}

// Both catalogs flatten into one file; the key column carries the chuni
// numeric id or the mai title.
func exportSongs(ctx context.Context, db *sql.DB, outPath string) error {
	f, w, err := newCSV(outPath, []string{"game", "key", "title", "category", "artist", "image", "version"})
	if err != nil {
		return err
	}
	defer f.Close()

	rows, err := db.QueryContext(ctx, `
        SELECT 'chunithm', CAST(id AS TEXT), title, category, artist, image, ''
        FROM chuni_songs
        UNION ALL
        SELECT 'maimai', title, title, category, artist, image, version
        FROM mai_songs
        ORDER BY 1, 2
    `)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var game, key, title, category, artist, image, version string
		if err := rows.Scan(&game, &key, &title, &category, &artist, &image, &version); err != nil {
			return err
		}
		if err := w.Write([]string{game, key, title, category, artist, image, version}); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	w.Flush()
	return w.Error()
}

func exportChartLevels(ctx context.Context, db *sql.DB, outPath string) error {
	f, w, err := newCSV(outPath, []string{"game", "song_key", "sheet", "difficulty", "version", "level", "constant"})
	if err != nil {
		return err
	}
	defer f.Close()

	rows, err := db.QueryContext(ctx, `
        SELECT game, song_key, sheet, difficulty, version, level, constant
        FROM chart_levels
        ORDER BY game, song_key, sheet, difficulty
    `)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			game, songKey, sheet, difficulty, version, level string
			constant                                         sql.NullFloat64
		)
		if err := rows.Scan(&game, &songKey, &sheet, &difficulty, &version, &level, &constant); err != nil {
			return err
		}

		c := ""
		if constant.Valid {
			c = strconv.FormatFloat(constant.Float64, 'f', 1, 64)
		}

		if err := w.Write([]string{game, songKey, sheet, difficulty, version, level, c}); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	w.Flush()
	return w.Error()
}

func exportPlayRecords(ctx context.Context, db *sql.DB, outPath string) error {
	f, w, err := newCSV(outPath, []string{"player_id", "game", "song_key", "sheet", "difficulty", "score", "combo_mark", "updated_at"})
	if err != nil {
		return err
	}
	defer f.Close()

	rows, err := db.QueryContext(ctx, `
        SELECT player_id, game, song_key, sheet, difficulty, score, combo_mark, updated_at
        FROM play_records
        ORDER BY updated_at DESC
    `)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			playerID, game, songKey, sheet, difficulty, comboMark string
			score                                                 int64
			updatedAt                                             sql.NullTime
		)
		if err := rows.Scan(&playerID, &game, &songKey, &sheet, &difficulty, &score, &comboMark, &updatedAt); err != nil {
			return err
		}

		updated := ""
		if updatedAt.Valid {
			updated = updatedAt.Time.Format(time.RFC3339)
		}

		if err := w.Write([]string{
			playerID, game, songKey, sheet, difficulty,
			strconv.FormatInt(score, 10), comboMark, updated,
		}); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	w.Flush()
	return w.Error()
}
