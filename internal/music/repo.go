package music

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"otogehub/internal/reconcile"
	"otogehub/pkg/models"
)

type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

func (r *Repo) ListChuniSongs(ctx context.Context) ([]models.ChuniSong, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, category, title, artist, image
		FROM chuni_songs
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list chuni songs: %w", err)
	}
	defer rows.Close()

	var out []models.ChuniSong
	for rows.Next() {
		var s models.ChuniSong
		if err := rows.Scan(&s.ID, &s.Category, &s.Title, &s.Artist, &s.Image); err != nil {
			return nil, fmt.Errorf("scan chuni song: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

func (r *Repo) ListMaiSongs(ctx context.Context) ([]models.MaiSong, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT title, category, artist, image, version
		FROM mai_songs
		ORDER BY title ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list mai songs: %w", err)
	}
	defer rows.Close()

	var out []models.MaiSong
	for rows.Next() {
		var s models.MaiSong
		if err := rows.Scan(&s.Title, &s.Category, &s.Artist, &s.Image, &s.Version); err != nil {
			return nil, fmt.Errorf("scan mai song: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

func (r *Repo) InsertChuniSongs(ctx context.Context, songs []models.ChuniSong) error {
	if len(songs) == 0 {
		return nil
	}
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chuni_songs (id, category, title, artist, image)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare stmt: %w", err)
	}
	defer stmt.Close()

	for _, s := range songs {
		if _, err := stmt.ExecContext(ctx, s.ID, s.Category, s.Title, s.Artist, s.Image); err != nil {
			return fmt.Errorf("insert chuni song %d: %w", s.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (r *Repo) InsertMaiSongs(ctx context.Context, songs []models.MaiSong) error {
	if len(songs) == 0 {
		return nil
	}
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO mai_songs (title, category, artist, image, version)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare stmt: %w", err)
	}
	defer stmt.Close()

	for _, s := range songs {
		if _, err := stmt.ExecContext(ctx, s.Title, s.Category, s.Artist, s.Image, s.Version); err != nil {
			return fmt.Errorf("insert mai song %q: %w", s.Title, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// ApplyChuniPatches writes sparse catalog updates: only the fields the
// differ flagged as changed are touched.
func (r *Repo) ApplyChuniPatches(ctx context.Context, patches []reconcile.Patch[int]) error {
	for _, p := range patches {
		set, args := patchSetClause(p.Category, p.Artist, p.Image)
		if set == "" {
			continue
		}
		args = append(args, p.Key)
		if _, err := r.DB.ExecContext(ctx, "UPDATE chuni_songs SET "+set+" WHERE id = ?", args...); err != nil {
			return fmt.Errorf("patch chuni song %d: %w", p.Key, err)
		}
	}
	return nil
}

func (r *Repo) ApplyMaiPatches(ctx context.Context, patches []reconcile.Patch[string]) error {
	for _, p := range patches {
		set, args := patchSetClause(p.Category, p.Artist, p.Image)
		if set == "" {
			continue
		}
		args = append(args, p.Key)
		if _, err := r.DB.ExecContext(ctx, "UPDATE mai_songs SET "+set+" WHERE title = ?", args...); err != nil {
			return fmt.Errorf("patch mai song %q: %w", p.Key, err)
		}
	}
	return nil
}

func patchSetClause(category, artist, image *string) (string, []any) {
	var set []string
	var args []any
	if category != nil {
		set = append(set, "category = ?")
		args = append(args, *category)
	}
	if artist != nil {
		set = append(set, "artist = ?")
		args = append(args, *artist)
	}
	if image != nil {
		set = append(set, "image = ?")
		args = append(args, *image)
	}
	return strings.Join(set, ", "), args
}

// SongRefs returns the (key, title) pairs the constant reconciler matches
// against.
func (r *Repo) SongRefs(ctx context.Context, game string) ([]models.SongRef, error) {
	var query string
	switch game {
	case models.GameChuni:
		query = `SELECT CAST(id AS TEXT), title FROM chuni_songs`
	case models.GameMai:
		query = `SELECT title, title FROM mai_songs`
	default:
		return nil, fmt.Errorf("song refs: unknown game %q", game)
	}

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("song refs: %w", err)
	}
	defer rows.Close()

	var out []models.SongRef
	for rows.Next() {
		var ref models.SongRef
		if err := rows.Scan(&ref.Key, &ref.Title); err != nil {
			return nil, fmt.Errorf("scan song ref: %w", err)
		}
		out = append(out, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

func (r *Repo) ListLevels(ctx context.Context, game, version string) ([]models.ChartLevel, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT game, song_key, sheet, difficulty, version, level, constant
		FROM chart_levels
		WHERE game = ? AND version = ?
	`, game, version)
	if err != nil {
		return nil, fmt.Errorf("list levels: %w", err)
	}
	defer rows.Close()
	return scanLevels(rows)
}

func (r *Repo) LevelsForSong(ctx context.Context, game, songKey string) ([]models.ChartLevel, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT game, song_key, sheet, difficulty, version, level, constant
		FROM chart_levels
		WHERE game = ? AND song_key = ?
	`, game, songKey)
	if err != nil {
		return nil, fmt.Errorf("levels for song: %w", err)
	}
	defer rows.Close()
	return scanLevels(rows)
}

func scanLevels(rows *sql.Rows) ([]models.ChartLevel, error) {
	var out []models.ChartLevel
	for rows.Next() {
		var (
			l        models.ChartLevel
			constant sql.NullFloat64
		)
		if err := rows.Scan(&l.Game, &l.SongKey, &l.Sheet, &l.Difficulty, &l.Version, &l.Level, &constant); err != nil {
			return nil, fmt.Errorf("scan level: %w", err)
		}
		if constant.Valid {
			c := constant.Float64
			l.Constant = &c
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

func (r *Repo) InsertLevels(ctx context.Context, levels []models.ChartLevel) error {
	if len(levels) == 0 {
		return nil
	}
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chart_levels (game, song_key, sheet, difficulty, version, level, constant)
		VALUES (?, ?, ?, ?, ?, ?, NULL)
	`)
	if err != nil {
		return fmt.Errorf("prepare stmt: %w", err)
	}
	defer stmt.Close()

	for _, l := range levels {
		if _, err := stmt.ExecContext(ctx, l.Game, l.SongKey, l.Sheet, l.Difficulty, l.Version, l.Level); err != nil {
			return fmt.Errorf("insert level %s/%s %s %s: %w", l.Game, l.SongKey, l.Sheet, l.Difficulty, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (r *Repo) ApplyConstantUpdates(ctx context.Context, updates []reconcile.ConstantUpdate) error {
	if len(updates) == 0 {
		return nil
	}
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		UPDATE chart_levels SET constant = ?
		WHERE game = ? AND song_key = ? AND sheet = ? AND difficulty = ? AND version = ?
	`)
	if err != nil {
		return fmt.Errorf("prepare stmt: %w", err)
	}
	defer stmt.Close()

	for _, u := range updates {
		if _, err := stmt.ExecContext(ctx, u.Constant, u.Game, u.SongKey, u.Sheet, u.Difficulty, u.Version); err != nil {
			return fmt.Errorf("update constant %s/%s %s %s: %w", u.Game, u.SongKey, u.Sheet, u.Difficulty, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
