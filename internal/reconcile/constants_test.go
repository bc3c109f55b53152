package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"otogehub/pkg/models"
)

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }

func constFixture() ([]models.SongRef, []models.ChartLevel) {
	songs := []models.SongRef{
		{Key: "100", Title: "Song A"},
		{Key: "200", Title: "Song B"},
	}
	levels := []models.ChartLevel{
		{Game: models.GameChuni, SongKey: "100", Sheet: models.SheetStd, Difficulty: models.DiffMaster, Version: "verse", Level: "13+"},
		{Game: models.GameChuni, SongKey: "200", Sheet: models.SheetStd, Difficulty: models.DiffMaster, Version: "verse", Level: "14", Constant: floatPtr(14.2)},
	}
	return songs, levels
}

func feedOf(songs ...models.ConstantSong) models.ConstantFeed {
	return models.ConstantFeed{Songs: songs}
}

func TestReconcileConstantsFillFromNullNeverWarns(t *testing.T) {
	songs, levels := constFixture()
	feed := feedOf(models.ConstantSong{
		Title: "Song A",
		Sheets: []models.ConstantSheet{
			{Type: models.SheetStd, Difficulty: models.DiffMaster, InternalLevel: strPtr("13.7")},
		},
	})

	got, err := ReconcileConstants(models.GameChuni, "verse", songs, levels, feed, ConstantOptions{})
	require.NoError(t, err)

	require.Len(t, got.Payload, 1)
	assert.Equal(t, "100", got.Payload[0].SongKey)
	assert.InDelta(t, 13.7, got.Payload[0].Constant, 1e-9)
	assert.Empty(t, got.Warnings)
	assert.Zero(t, got.NullsCount)
}

func TestReconcileConstantsMismatchWithoutOverwrite(t *testing.T) {
	songs, levels := constFixture()
	feed := feedOf(models.ConstantSong{
		Title: "Song B",
		Sheets: []models.ConstantSheet{
			{Type: models.SheetStd, Difficulty: models.DiffMaster, InternalLevel: strPtr("14.4")},
		},
	})

	got, err := ReconcileConstants(models.GameChuni, "verse", songs, levels, feed, ConstantOptions{})
	require.NoError(t, err)

	assert.Empty(t, got.Payload, "verified constant must not be replaced without opt-in")
	require.Len(t, got.Warnings, 1)
	assert.Contains(t, got.Warnings[0], "constant value mismatch")
}

func TestReconcileConstantsMismatchWithOverwrite(t *testing.T) {
	songs, levels := constFixture()
	feed := feedOf(models.ConstantSong{
		Title: "Song B",
		Sheets: []models.ConstantSheet{
			{Type: models.SheetStd, Difficulty: models.DiffMaster, InternalLevel: strPtr("14.4")},
		},
	})

	got, err := ReconcileConstants(models.GameChuni, "verse", songs, levels, feed, ConstantOptions{Overwrite: true})
	require.NoError(t, err)

	require.Len(t, got.Payload, 1)
	assert.InDelta(t, 14.4, got.Payload[0].Constant, 1e-9)
	// the overwrite is still surfaced
	require.Len(t, got.Warnings, 1)
	assert.Contains(t, got.Warnings[0], "constant value mismatch")
}

func TestReconcileConstantsEqualValueIsNoop(t *testing.T) {
	songs, levels := constFixture()
	feed := feedOf(models.ConstantSong{
		Title: "Song B",
		Sheets: []models.ConstantSheet{
			{Type: models.SheetStd, Difficulty: models.DiffMaster, InternalLevel: strPtr("14.2")},
		},
	})

	got, err := ReconcileConstants(models.GameChuni, "verse", songs, levels, feed, ConstantOptions{})
	require.NoError(t, err)
	assert.Empty(t, got.Payload)
	assert.Empty(t, got.Warnings)
}

func TestReconcileConstantsBothNullCounted(t *testing.T) {
	songs, levels := constFixture()
	feed := feedOf(models.ConstantSong{
		Title: "Song A",
		Sheets: []models.ConstantSheet{
			{Type: models.SheetStd, Difficulty: models.DiffMaster, InternalLevel: nil},
		},
	})

	got, err := ReconcileConstants(models.GameChuni, "verse", songs, levels, feed, ConstantOptions{})
	require.NoError(t, err)

	assert.Empty(t, got.Payload)
	assert.Empty(t, got.Warnings)
	assert.Equal(t, 1, got.NullsCount)
	assert.Equal(t, []string{"Song A"}, got.NullsTitle)
}

func TestReconcileConstantsNullFedNeverDowngrades(t *testing.T) {
	songs, levels := constFixture()
	feed := feedOf(models.ConstantSong{
		Title: "Song B",
		Sheets: []models.ConstantSheet{
			{Type: models.SheetStd, Difficulty: models.DiffMaster, InternalLevel: nil},
		},
	})

	// even with overwrite set, a verified constant is never nulled out
	got, err := ReconcileConstants(models.GameChuni, "verse", songs, levels, feed, ConstantOptions{Overwrite: true})
	require.NoError(t, err)

	assert.Empty(t, got.Payload)
	require.Len(t, got.Warnings, 1)
	assert.Contains(t, got.Warnings[0], "fed null")
}

func TestReconcileConstantsDuplicateTitleWarnsAndSkips(t *testing.T) {
	songs := []models.SongRef{
		{Key: "link-nico", Title: "Link"},
		{Key: "link-orig", Title: "Link"},
	}
	levels := []models.ChartLevel{
		{Game: models.GameChuni, SongKey: "link-nico", Sheet: models.SheetStd, Difficulty: models.DiffMaster, Version: "verse", Level: "12"},
	}
	feed := feedOf(models.ConstantSong{
		Title: "Link",
		Sheets: []models.ConstantSheet{
			{Type: models.SheetStd, Difficulty: models.DiffMaster, InternalLevel: strPtr("12.3")},
		},
	})

	got, err := ReconcileConstants(models.GameChuni, "verse", songs, levels, feed, ConstantOptions{})
	require.NoError(t, err)

	assert.Empty(t, got.Payload)
	require.Len(t, got.Warnings, 1)
	assert.Contains(t, got.Warnings[0], "duplicate title")
}

func TestReconcileConstantsUnknownTitleSilentlySkipped(t *testing.T) {
	songs, levels := constFixture()
	feed := feedOf(models.ConstantSong{
		Title: "Deleted Song",
		Sheets: []models.ConstantSheet{
			{Type: models.SheetStd, Difficulty: models.DiffMaster, InternalLevel: strPtr("11.0")},
		},
	})

	got, err := ReconcileConstants(models.GameChuni, "verse", songs, levels, feed, ConstantOptions{})
	require.NoError(t, err)
	assert.Empty(t, got.Payload)
	assert.Empty(t, got.Warnings)
}

func TestReconcileConstantsSkipsNonChartSheetsAndMissingLevels(t *testing.T) {
	songs, levels := constFixture()
	feed := feedOf(models.ConstantSong{
		Title: "Song A",
		Sheets: []models.ConstantSheet{
			// world's end sheets are not real chart variants
			{Type: "we", Difficulty: "worlds_end", InternalLevel: strPtr("1.0")},
			// no expert row stored yet for this version
			{Type: models.SheetStd, Difficulty: models.DiffExpert, InternalLevel: strPtr("12.1")},
		},
	})

	got, err := ReconcileConstants(models.GameChuni, "verse", songs, levels, feed, ConstantOptions{})
	require.NoError(t, err)
	assert.Empty(t, got.Payload)
	assert.Empty(t, got.Warnings)
}

func TestReconcileConstantsMalformedValueFailsFast(t *testing.T) {
	songs, levels := constFixture()
	feed := feedOf(models.ConstantSong{
		Title: "Song A",
		Sheets: []models.ConstantSheet{
			{Type: models.SheetStd, Difficulty: models.DiffMaster, InternalLevel: strPtr("13..7")},
		},
	})

	_, err := ReconcileConstants(models.GameChuni, "verse", songs, levels, feed, ConstantOptions{})
	assert.Error(t, err)
}
