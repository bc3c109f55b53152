package record

import (
	"fmt"
	"math"
	"sort"

	"otogehub/internal/rating"
	"otogehub/pkg/models"
)

// How many of a player's top plays feed the headline rating.
const (
	chuniBestCount = 30
	maiBestCount   = 35
)

// RatedPlay is a stored best score joined with its chart level and the
// per-play rating derived from it.
type RatedPlay struct {
	models.PlayRecord
	Level    string  `json:"level"`
	Constant float64 `json:"constant"`
	Verified bool    `json:"verified"` // constant came from the feed, not parsed from the level text
	Rank     string  `json:"rank"`
	Rating   float64 `json:"rating"` // integer-valued for maimai
}

type Summary struct {
	Game      string      `json:"game"`
	Rating    float64     `json:"rating"`
	BestCount int         `json:"best_count"`
	Plays     []RatedPlay `json:"plays"`
	Unrated   int         `json:"unrated"` // records with no matching chart row
}

type levelKey struct {
	songKey    string
	sheet      string
	difficulty string
}

// BuildSummary rates every stored record against the given chart levels and
// folds the top plays into the player's headline rating: CHUNITHM averages
// the best 30, maimai sums the best 35. Records whose chart is missing from
// the level table are counted in Unrated and excluded.
func BuildSummary(game string, recs []models.PlayRecord, levels []models.ChartLevel) (Summary, error) {
	if game != models.GameChuni && game != models.GameMai {
		return Summary{}, fmt.Errorf("build summary: unknown game %q", game)
	}

	byChart := make(map[levelKey]models.ChartLevel, len(levels))
	for _, l := range levels {
		byChart[levelKey{l.SongKey, l.Sheet, l.Difficulty}] = l
	}

	sum := Summary{Game: game}
	for _, rec := range recs {
		chart, ok := byChart[levelKey{rec.SongKey, rec.Sheet, rec.Difficulty}]
		if !ok {
			sum.Unrated++
			continue
		}

		play, err := ratePlay(game, rec, chart)
		if err != nil {
			sum.Unrated++
			continue
		}
		sum.Plays = append(sum.Plays, play)
	}

	sort.SliceStable(sum.Plays, func(i, j int) bool {
		if sum.Plays[i].Rating != sum.Plays[j].Rating {
			return sum.Plays[i].Rating > sum.Plays[j].Rating
		}
		return sum.Plays[i].Score > sum.Plays[j].Score
	})

	switch game {
	case models.GameChuni:
		n := len(sum.Plays)
		if n > chuniBestCount {
			n = chuniBestCount
		}
		sum.BestCount = n
		if n > 0 {
			var total float64
			for _, p := range sum.Plays[:n] {
				total += p.Rating
			}
			avg := total / float64(n)
			sum.Rating = math.Floor(avg*100+1e-6) / 100
		}
	case models.GameMai:
		n := len(sum.Plays)
		if n > maiBestCount {
			n = maiBestCount
		}
		sum.BestCount = n
		for _, p := range sum.Plays[:n] {
			sum.Rating += p.Rating
		}
	}

	return sum, nil
}

// ratePlay computes the per-play rating, preferring the verified constant and
// falling back to the displayed level text.
func ratePlay(game string, rec models.PlayRecord, chart models.ChartLevel) (RatedPlay, error) {
	play := RatedPlay{
		PlayRecord: rec,
		Level:      chart.Level,
	}

	if chart.Constant != nil {
		play.Constant = *chart.Constant
		play.Verified = true
	} else {
		offset := rating.ChuniPlusOffset
		if game == models.GameMai {
			offset = rating.MaiPlusOffset
		}
		v, err := rating.ParseLevel(chart.Level, offset)
		if err != nil {
			return RatedPlay{}, err
		}
		play.Constant = v
	}

	switch game {
	case models.GameChuni:
		play.Rank = rating.ChuniRanks.Name(rec.Score)
		play.Rating = rating.Chuni(rec.Score, play.Constant, rating.ChuniAnchorsCurrent)
	case models.GameMai:
		play.Rank = rating.MaiRanks.Name(rec.Score)
		play.Rating = float64(rating.Mai(rec.Score, play.Constant, rating.ParseComboMark(rec.ComboMark)))
	}
	return play, nil
}
