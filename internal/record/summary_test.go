package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"otogehub/pkg/models"
)

func floatPtr(f float64) *float64 { return &f }

func chuniLevel(songKey, diff, level string, constant *float64) models.ChartLevel {
	return models.ChartLevel{
		Game: models.GameChuni, SongKey: songKey, Sheet: models.SheetStd,
		Difficulty: diff, Version: "verse", Level: level, Constant: constant,
	}
}

func chuniRecord(songKey, diff string, score int) models.PlayRecord {
	return models.PlayRecord{
		PlayerID: "p1", Game: models.GameChuni, SongKey: songKey,
		Sheet: models.SheetStd, Difficulty: diff, Score: score,
	}
}

func TestBuildSummaryChuniAveragesBestPlays(t *testing.T) {
	levels := []models.ChartLevel{
		chuniLevel("1", models.DiffMaster, "15", floatPtr(15.0)),
		chuniLevel("2", models.DiffMaster, "14", floatPtr(14.0)),
	}
	recs := []models.PlayRecord{
		chuniRecord("1", models.DiffMaster, 1009000), // 15.0 -> 17.15
		chuniRecord("2", models.DiffMaster, 1007500), // 14.0 -> 16.00
	}

	sum, err := BuildSummary(models.GameChuni, recs, levels)
	require.NoError(t, err)

	require.Len(t, sum.Plays, 2)
	assert.Equal(t, 2, sum.BestCount)
	assert.Equal(t, 0, sum.Unrated)

	// descending by rating
	assert.InDelta(t, 17.15, sum.Plays[0].Rating, 1e-9)
	assert.InDelta(t, 16.00, sum.Plays[1].Rating, 1e-9)
	assert.Equal(t, "SSS+", sum.Plays[0].Rank)

	// (17.15 + 16.00) / 2 = 16.575, floored to 2 decimals
	assert.InDelta(t, 16.57, sum.Rating, 1e-9)
}

func TestBuildSummaryFallsBackToLevelText(t *testing.T) {
	levels := []models.ChartLevel{
		chuniLevel("1", models.DiffMaster, "13+", nil), // parses to 13.5
	}
	recs := []models.PlayRecord{
		chuniRecord("1", models.DiffMaster, 1000000), // 13.5 + 1.0
	}

	sum, err := BuildSummary(models.GameChuni, recs, levels)
	require.NoError(t, err)

	require.Len(t, sum.Plays, 1)
	assert.False(t, sum.Plays[0].Verified)
	assert.InDelta(t, 13.5, sum.Plays[0].Constant, 1e-9)
	assert.InDelta(t, 14.5, sum.Plays[0].Rating, 1e-9)
}

func TestBuildSummaryMaiSumsBestPlays(t *testing.T) {
	levels := []models.ChartLevel{
		{Game: models.GameMai, SongKey: "Link", Sheet: models.SheetDX,
			Difficulty: models.DiffMaster, Version: "prism", Level: "13", Constant: floatPtr(13.0)},
		{Game: models.GameMai, SongKey: "Oshama Scramble!", Sheet: models.SheetStd,
			Difficulty: models.DiffExpert, Version: "prism", Level: "12", Constant: floatPtr(12.0)},
	}
	recs := []models.PlayRecord{
		{PlayerID: "p1", Game: models.GameMai, SongKey: "Link",
			Sheet: models.SheetDX, Difficulty: models.DiffMaster, Score: 1005000}, // 282
		{PlayerID: "p1", Game: models.GameMai, SongKey: "Oshama Scramble!",
			Sheet: models.SheetStd, Difficulty: models.DiffExpert, Score: 990000}, // 247
	}

	sum, err := BuildSummary(models.GameMai, recs, levels)
	require.NoError(t, err)

	require.Len(t, sum.Plays, 2)
	assert.InDelta(t, 282, sum.Plays[0].Rating, 1e-9)
	assert.InDelta(t, 247, sum.Plays[1].Rating, 1e-9)
	assert.InDelta(t, 529, sum.Rating, 1e-9, "maimai rating is a sum, not an average")
}

func TestBuildSummaryCountsUnratedRecords(t *testing.T) {
	levels := []models.ChartLevel{
		chuniLevel("1", models.DiffMaster, "15", floatPtr(15.0)),
		chuniLevel("2", models.DiffMaster, "??", nil), // unparseable, no constant
	}
	recs := []models.PlayRecord{
		chuniRecord("1", models.DiffMaster, 1000000),
		chuniRecord("2", models.DiffMaster, 1000000),
		chuniRecord("999", models.DiffMaster, 1000000), // no chart row at all
	}

	sum, err := BuildSummary(models.GameChuni, recs, levels)
	require.NoError(t, err)

	assert.Len(t, sum.Plays, 1)
	assert.Equal(t, 2, sum.Unrated)
}

func TestBuildSummaryCapsBestCount(t *testing.T) {
	var (
		levels []models.ChartLevel
		recs   []models.PlayRecord
	)
	for i := 0; i < 40; i++ {
		key := string(rune('A' + i))
		levels = append(levels, chuniLevel(key, models.DiffMaster, "14", floatPtr(14.0)))
		recs = append(recs, chuniRecord(key, models.DiffMaster, 1005000))
	}

	sum, err := BuildSummary(models.GameChuni, recs, levels)
	require.NoError(t, err)

	assert.Len(t, sum.Plays, 40)
	assert.Equal(t, chuniBestCount, sum.BestCount)
	// every play rates 15.5, so the best-30 average is exactly that
	assert.InDelta(t, 15.5, sum.Rating, 1e-9)
}

func TestBuildSummaryRejectsUnknownGame(t *testing.T) {
	_, err := BuildSummary("osu", nil, nil)
	assert.Error(t, err)
}
