package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"otogehub/pkg/models"
)

func freshCharts() []models.FetchedChart {
	return []models.FetchedChart{
		{SongKey: "100", Sheet: models.SheetStd, Difficulty: models.DiffExpert, Level: "12"},
		{SongKey: "100", Sheet: models.SheetStd, Difficulty: models.DiffMaster, Level: "13+"},
		{SongKey: "100", Sheet: models.SheetStd, Difficulty: models.DiffUltima, Level: ""}, // no ultima chart
		{SongKey: "200", Sheet: models.SheetStd, Difficulty: models.DiffMaster, Level: "14"},
	}
}

func TestReconcileLevelsInsertsAllWhenEmpty(t *testing.T) {
	got := ReconcileLevels(models.GameChuni, freshCharts(), nil, "verse")

	require.Len(t, got.Payload, 3, "empty level must be skipped silently")
	assert.Empty(t, got.Warnings)
	assert.Equal(t, 0, got.Skipped)

	for _, row := range got.Payload {
		assert.Equal(t, models.GameChuni, row.Game)
		assert.Equal(t, "verse", row.Version)
		assert.Nil(t, row.Constant)
	}
}

func TestReconcileLevelsIdempotent(t *testing.T) {
	first := ReconcileLevels(models.GameChuni, freshCharts(), nil, "verse")

	second := ReconcileLevels(models.GameChuni, freshCharts(), first.Payload, "verse")
	assert.Empty(t, second.Payload)
	assert.Empty(t, second.Warnings)
	assert.Equal(t, 3, second.Skipped)
}

func TestReconcileLevelsWarnsOnConflictWithoutOverwrite(t *testing.T) {
	existing := []models.ChartLevel{
		{Game: models.GameChuni, SongKey: "100", Sheet: models.SheetStd, Difficulty: models.DiffMaster, Version: "verse", Level: "13"},
	}

	got := ReconcileLevels(models.GameChuni, freshCharts(), existing, "verse")

	// the conflicting master chart is skipped, the others are new
	require.Len(t, got.Payload, 2)
	for _, row := range got.Payload {
		assert.False(t, row.SongKey == "100" && row.Difficulty == models.DiffMaster,
			"conflicting chart must not be re-inserted")
	}
	assert.Equal(t, 1, got.Skipped)

	require.Len(t, got.Warnings, 1)
	w := got.Warnings[0]
	assert.Equal(t, "13", w.Existing)
	assert.Equal(t, "13+", w.Fresh)
	assert.Contains(t, w.String(), "level mismatch")
}

func TestReconcileLevelsIgnoresOtherVersionsAndGames(t *testing.T) {
	existing := []models.ChartLevel{
		// same chart, older version: current version still gets an insert
		{Game: models.GameChuni, SongKey: "100", Sheet: models.SheetStd, Difficulty: models.DiffExpert, Version: "luminous", Level: "12"},
		// same key shape but wrong game
		{Game: models.GameMai, SongKey: "100", Sheet: models.SheetStd, Difficulty: models.DiffMaster, Version: "verse", Level: "13"},
	}

	got := ReconcileLevels(models.GameChuni, freshCharts(), existing, "verse")
	assert.Len(t, got.Payload, 3)
	assert.Empty(t, got.Warnings)
}
