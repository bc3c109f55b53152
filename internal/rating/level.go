package rating

import (
	"fmt"
	"strconv"
	"strings"
)

// The two games read the "+" suffix differently: a CHUNITHM "13+" sits at
// 13.5 while a maimai "13+" sits at 13.6. Not a shared constant.
const (
	ChuniPlusOffset = 0.5
	MaiPlusOffset   = 0.6
)

// ParseLevel converts a displayed level text like "12" or "13+" into a
// numeric baseline. Only used as a fallback when no verified constant is
// stored for the chart.
func ParseLevel(text string, plusOffset float64) (float64, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return 0, fmt.Errorf("empty level text")
	}

	plus := strings.HasSuffix(s, "+")
	if plus {
		s = strings.TrimSuffix(s, "+")
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("parse level %q: %w", text, err)
	}

	v := float64(n)
	if plus {
		v += plusOffset
	}
	return v, nil
}
