package rating

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRankIndexClamps(t *testing.T) {
	assert.Equal(t, 0, ChuniRanks.Index(-100))
	assert.Equal(t, 0, ChuniRanks.Index(0))
	assert.Equal(t, len(ChuniRanks.Names)-1, ChuniRanks.Index(1010000))
}

func TestChuniRankNames(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{0, "D"},
		{499999, "D"},
		{500000, "C"},
		{900000, "A"},
		{925000, "AA"},
		{975000, "S"},
		{1005000, "SS+"},
		{1007500, "SSS"},
		{1009000, "SSS+"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ChuniRanks.Name(tt.score), "score %d", tt.score)
	}
}

func TestMaiRankNames(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{0, "D"},
		{749999, "BB"},
		{800000, "A"},
		{970000, "S"},
		{999999, "SS+"},
		{1000000, "SSS"},
		{1005000, "SSS+"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MaiRanks.Name(tt.score), "score %d", tt.score)
	}
}
