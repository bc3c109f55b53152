package record

import (
	"context"
	"database/sql"
	"fmt"

	"otogehub/pkg/models"
)

type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

// Upsert stores rec as the player's best for the chart. An existing row is
// replaced only when the new score is at least as high, so a worse play can
// never clobber a stored best. Returns whether the row changed.
func (r *Repo) Upsert(ctx context.Context, rec models.PlayRecord) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO play_records (player_id, game, song_key, sheet, difficulty, score, combo_mark, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (player_id, game, song_key, sheet, difficulty) DO UPDATE SET
			score = excluded.score,
			combo_mark = excluded.combo_mark,
			updated_at = CURRENT_TIMESTAMP
		WHERE excluded.score >= play_records.score
	`, rec.PlayerID, rec.Game, rec.SongKey, rec.Sheet, rec.Difficulty, rec.Score, rec.ComboMark)
	if err != nil {
		return false, fmt.Errorf("upsert record: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("upsert record rows: %w", err)
	}
	return affected > 0, nil
}

func (r *Repo) ListByPlayer(ctx context.Context, playerID, game string) ([]models.PlayRecord, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT player_id, game, song_key, sheet, difficulty, score, combo_mark, updated_at
		FROM play_records
		WHERE player_id = ? AND game = ?
		ORDER BY score DESC, song_key ASC
	`, playerID, game)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	var out []models.PlayRecord
	for rows.Next() {
		var rec models.PlayRecord
		if err := rows.Scan(&rec.PlayerID, &rec.Game, &rec.SongKey, &rec.Sheet, &rec.Difficulty,
			&rec.Score, &rec.ComboMark, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

func (r *Repo) Get(ctx context.Context, playerID, game, songKey, sheet, difficulty string) (*models.PlayRecord, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT player_id, game, song_key, sheet, difficulty, score, combo_mark, updated_at
		FROM play_records
		WHERE player_id = ? AND game = ? AND song_key = ? AND sheet = ? AND difficulty = ?
	`, playerID, game, songKey, sheet, difficulty)

	var rec models.PlayRecord
	if err := row.Scan(&rec.PlayerID, &rec.Game, &rec.SongKey, &rec.Sheet, &rec.Difficulty,
		&rec.Score, &rec.ComboMark, &rec.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get record: %w", err)
	}
	return &rec, nil
}
