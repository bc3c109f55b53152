// import-csv restores play records from an export-csv dump, e.g. when
// migrating a database between machines.
package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"otogehub/pkg/database"
)

func main() {
	recordsIn := flag.String("records", "data/play_records.csv", "input CSV path for play records")
	flag.Parse()

	_ = godotenv.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db := database.MustOpen(database.DefaultConfig())
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	n, err := importPlayRecords(ctx, db, *recordsIn)
	if err != nil {
		log.Fatalf("import play records failed: %v", err)
	}

	log.Printf("imported %d play records from %s", n, *recordsIn)
}

func importPlayRecords(ctx context.Context, db *sql.DB, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := readHeader(r)
	if err != nil {
		return 0, err
	}

	// imported rows win regardless of score: the dump is the source of truth
	stmt, err := db.PrepareContext(ctx, `
		INSERT INTO play_records (player_id, game, song_key, sheet, difficulty, score, combo_mark, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(player_id, game, song_key, sheet, difficulty) DO UPDATE SET
			score = excluded.score,
			combo_mark = excluded.combo_mark,
			updated_at = excluded.updated_at
	`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	count := 0
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return count, err
		}
		if len(row) == 0 {
			continue
		}

		playerID := valueAt(header, row, "player_id")
		game := valueAt(header, row, "game")
		songKey := valueAt(header, row, "song_key")
		if playerID == "" || game == "" || songKey == "" {
			continue
		}

		score, err := strconv.Atoi(valueAt(header, row, "score"))
		if err != nil {
			return count, fmt.Errorf("parse score for %s/%s: %w", playerID, songKey, err)
		}

		updatedAt, err := parseTime(valueAt(header, row, "updated_at"))
		if err != nil {
			return count, fmt.Errorf("parse updated_at for %s/%s: %w", playerID, songKey, err)
		}

		if _, err := stmt.ExecContext(
			ctx,
			playerID,
			game,
			songKey,
			valueAt(header, row, "sheet"),
			valueAt(header, row, "difficulty"),
			score,
			valueAt(header, row, "combo_mark"),
			updatedAt,
		); err != nil {
			return count, err
		}
		count++
	}

	return count, nil
}

func readHeader(r *csv.Reader) (map[string]int, error) {
	row, err := r.Read()
	if err != nil {
		return nil, err
	}
	header := make(map[string]int, len(row))
	for idx, name := range row {
		header[strings.TrimSpace(strings.ToLower(name))] = idx
	}
	return header, nil
}

func valueAt(header map[string]int, row []string, key string) string {
	idx, ok := header[key]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func parseTime(raw string) (sql.NullTime, error) {
	if raw == "" {
		return sql.NullTime{}, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return sql.NullTime{}, err
	}
	return sql.NullTime{Time: t, Valid: true}, nil
}
