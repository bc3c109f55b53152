package rating

import (
	"math"
	"strings"
)

// ComboMark is the clear mark attached to a maimai play record.
type ComboMark int

const (
	ComboNone ComboMark = iota
	ComboFC
	ComboFCPlus
	ComboAP
	ComboAPPlus
)

func (m ComboMark) String() string {
	switch m {
	case ComboFC:
		return "fc"
	case ComboFCPlus:
		return "fc+"
	case ComboAP:
		return "ap"
	case ComboAPPlus:
		return "ap+"
	}
	return ""
}

func ParseComboMark(s string) ComboMark {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fc":
		return ComboFC
	case "fc+", "fcp":
		return ComboFCPlus
	case "ap":
		return ComboAP
	case "ap+", "app":
		return ComboAPPlus
	}
	return ComboNone
}

// maimai achievements are percentages scaled x10,000, so 100.5000% is
// 1,005,000. The multiplier is a step function on the raw score.
type multiplierStep struct {
	Score  int
	Factor float64
}

var maiMultipliers = []multiplierStep{
	{1000000, 21.6},
	{995000, 21.1},
	{990000, 20.8},
	{980000, 20.3},
	{970000, 20.0},
	{960000, 19.2},
	{950000, 18.4},
	{940000, 16.8},
	{920000, 16.0},
	{900000, 15.2},
	{850000, 14.4},
	{800000, 13.6},
	{750000, 12.0},
	{700000, 11.2},
	{600000, 9.6},
	{500000, 8.0},
	{400000, 6.4},
	{300000, 4.8},
	{200000, 3.2},
	{100000, 1.6},
	{0, 0},
}

func maiMultiplier(score int) float64 {
	for _, s := range maiMultipliers {
		if score >= s.Score {
			return s.Factor
		}
	}
	return 0
}

// Mai converts a maimai achievement score and chart level into an integer
// play rating: floor(min(score, 1005000)/1e6 * multiplier(score) * level).
// This is a fundamentally different scale from the CHUNITHM formula and must
// not share its 2-decimal rounding.
//
// The combo mark is part of the record but does not currently modulate the
// multiplier; the parameter is kept for interface compatibility.
func Mai(score int, level float64, mark ComboMark) int {
	_ = mark

	if score <= 0 || level <= 0 {
		return 0
	}

	capped := score
	if capped > 1005000 {
		capped = 1005000
	}

	v := float64(capped) / 1000000.0 * maiMultiplier(score) * level
	if v <= 0 {
		return 0
	}
	return int(math.Floor(v + 1e-6))
}
