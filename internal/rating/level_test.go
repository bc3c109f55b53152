package rating

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		offset float64
		want   float64
	}{
		{"plain integer", "12", ChuniPlusOffset, 12},
		{"chuni plus", "13+", ChuniPlusOffset, 13.5},
		{"mai plus", "13+", MaiPlusOffset, 13.6},
		{"whitespace tolerated", " 10 ", ChuniPlusOffset, 10},
		{"single digit plus", "7+", MaiPlusOffset, 7.6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLevel(tt.text, tt.offset)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestParseLevelErrors(t *testing.T) {
	for _, text := range []string{"", "  ", "abc", "13++", "+"} {
		_, err := ParseLevel(text, ChuniPlusOffset)
		assert.Error(t, err, "input %q", text)
	}
}
