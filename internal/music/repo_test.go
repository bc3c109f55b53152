package music

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"otogehub/internal/reconcile"
	"otogehub/pkg/database"
	"otogehub/pkg/models"
)

func testRepo(t *testing.T) *Repo {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, database.MigrateFrom(db, "../../docs/schema.sql"))
	return NewRepo(db)
}

func TestChuniSongRoundtrip(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	songs := []models.ChuniSong{
		{ID: 100, Category: "POPS & ANIME", Title: "Song A", Artist: "Artist A", Image: "a.jpg"},
		{ID: 200, Category: "ORIGINAL", Title: "Song B", Artist: "Artist B", Image: "b.jpg"},
	}
	require.NoError(t, repo.InsertChuniSongs(ctx, songs))

	got, err := repo.ListChuniSongs(ctx)
	require.NoError(t, err)
	assert.Equal(t, songs, got)
}

func TestApplyChuniPatchesTouchesOnlyChangedFields(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.InsertChuniSongs(ctx, []models.ChuniSong{
		{ID: 100, Category: "POPS & ANIME", Title: "Song A", Artist: "Artist A", Image: "a.jpg"},
	}))

	artist := "Renamed"
	require.NoError(t, repo.ApplyChuniPatches(ctx, []reconcile.Patch[int]{
		{Key: 100, Artist: &artist},
	}))

	got, err := repo.ListChuniSongs(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Renamed", got[0].Artist)
	assert.Equal(t, "POPS & ANIME", got[0].Category)
	assert.Equal(t, "a.jpg", got[0].Image)
}

func TestSongRefsUseCanonicalKeys(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.InsertChuniSongs(ctx, []models.ChuniSong{
		{ID: 100, Category: "x", Title: "Song A", Artist: "a"},
	}))
	require.NoError(t, repo.InsertMaiSongs(ctx, []models.MaiSong{
		{Title: "Link", Category: "niconico", Artist: "x"},
	}))

	chuni, err := repo.SongRefs(ctx, models.GameChuni)
	require.NoError(t, err)
	assert.Equal(t, []models.SongRef{{Key: "100", Title: "Song A"}}, chuni)

	mai, err := repo.SongRefs(ctx, models.GameMai)
	require.NoError(t, err)
	assert.Equal(t, []models.SongRef{{Key: "Link", Title: "Link"}}, mai)

	_, err = repo.SongRefs(ctx, "osu")
	assert.Error(t, err)
}

func TestLevelInsertAndConstantUpdate(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	levels := []models.ChartLevel{
		{Game: models.GameChuni, SongKey: "100", Sheet: models.SheetStd, Difficulty: models.DiffMaster, Version: "verse", Level: "13+"},
		{Game: models.GameChuni, SongKey: "100", Sheet: models.SheetStd, Difficulty: models.DiffExpert, Version: "verse", Level: "12"},
	}
	require.NoError(t, repo.InsertLevels(ctx, levels))

	stored, err := repo.ListLevels(ctx, models.GameChuni, "verse")
	require.NoError(t, err)
	require.Len(t, stored, 2)
	for _, l := range stored {
		assert.Nil(t, l.Constant, "constant starts null")
	}

	require.NoError(t, repo.ApplyConstantUpdates(ctx, []reconcile.ConstantUpdate{
		{Game: models.GameChuni, SongKey: "100", Sheet: models.SheetStd, Difficulty: models.DiffMaster, Version: "verse", Constant: 13.7},
	}))

	stored, err = repo.ListLevels(ctx, models.GameChuni, "verse")
	require.NoError(t, err)
	byDiff := map[string]models.ChartLevel{}
	for _, l := range stored {
		byDiff[l.Difficulty] = l
	}
	require.NotNil(t, byDiff[models.DiffMaster].Constant)
	assert.InDelta(t, 13.7, *byDiff[models.DiffMaster].Constant, 1e-9)
	assert.Nil(t, byDiff[models.DiffExpert].Constant)
}

func TestDuplicateLevelInsertFails(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	row := models.ChartLevel{
		Game: models.GameChuni, SongKey: "100", Sheet: models.SheetStd,
		Difficulty: models.DiffMaster, Version: "verse", Level: "13+",
	}
	require.NoError(t, repo.InsertLevels(ctx, []models.ChartLevel{row}))

	// (song, sheet, difficulty, version) is unique
	err := repo.InsertLevels(ctx, []models.ChartLevel{row})
	assert.Error(t, err)
}
