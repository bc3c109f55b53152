package fetcher

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"otogehub/pkg/models"
)

// chuniRaw mirrors one entry of the official CHUNITHM music.json. The
// numeric ID arrives as a string; it is coerced to int here so the differ
// downstream can rely on strict key equality.
type chuniRaw struct {
	ID       string `json:"id"`
	CatName  string `json:"catname"`
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	Image    string `json:"image"`
	LevBas   string `json:"lev_bas"`
	LevAdv   string `json:"lev_adv"`
	LevExp   string `json:"lev_exp"`
	LevMas   string `json:"lev_mas"`
	LevUlt   string `json:"lev_ult"`
	LevWe    string `json:"lev_we"`
	WeKanji  string `json:"we_kanji"`
}

// ChuniCatalog is one parsed catalog fetch: the song rows plus every
// per-difficulty level string, ready for diffing and level reconciliation.
type ChuniCatalog struct {
	Songs  []models.ChuniSong
	Charts []models.FetchedChart
}

func (c *Client) FetchChuniCatalog(ctx context.Context, url string) (ChuniCatalog, error) {
	var raw []chuniRaw
	if err := c.getJSON(ctx, "chunithm", url, &raw); err != nil {
		return ChuniCatalog{}, err
	}
	return convertChuni(raw)
}

func convertChuni(raw []chuniRaw) (ChuniCatalog, error) {
	var out ChuniCatalog
	for _, r := range raw {
		// world's end entries are a separate universe, not catalog songs
		if r.WeKanji != "" || r.LevWe != "" {
			continue
		}
		if strings.TrimSpace(r.Title) == "" {
			continue
		}

		id, err := strconv.Atoi(strings.TrimSpace(r.ID))
		if err != nil {
			return ChuniCatalog{}, fmt.Errorf("chunithm: song id %q (%s): %w", r.ID, r.Title, err)
		}

		out.Songs = append(out.Songs, models.ChuniSong{
			ID:       id,
			Category: r.CatName,
			Title:    r.Title,
			Artist:   r.Artist,
			Image:    r.Image,
		})

		key := strconv.Itoa(id)
		levels := []struct {
			difficulty string
			level      string
		}{
			{models.DiffBasic, r.LevBas},
			{models.DiffAdvanced, r.LevAdv},
			{models.DiffExpert, r.LevExp},
			{models.DiffMaster, r.LevMas},
			{models.DiffUltima, r.LevUlt},
		}
		for _, l := range levels {
			out.Charts = append(out.Charts, models.FetchedChart{
				SongKey:    key,
				Sheet:      models.SheetStd,
				Difficulty: l.difficulty,
				Level:      l.level,
			})
		}
	}
	return out, nil
}
