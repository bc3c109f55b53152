package fetcher

import (
	"context"
	"strings"

	"otogehub/pkg/models"
)

// maiRaw mirrors one entry of the official maimai_songs.json. There is no
// numeric ID; the title is the identity key. Standard and deluxe charts
// carry separate level string sets.
type maiRaw struct {
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	CatCode  string `json:"catcode"`
	ImageURL string `json:"image_url"`
	Version  string `json:"version"`

	LevBas   string `json:"lev_bas"`
	LevAdv   string `json:"lev_adv"`
	LevExp   string `json:"lev_exp"`
	LevMas   string `json:"lev_mas"`
	LevRemas string `json:"lev_remas"`

	DXLevBas   string `json:"dx_lev_bas"`
	DXLevAdv   string `json:"dx_lev_adv"`
	DXLevExp   string `json:"dx_lev_exp"`
	DXLevMas   string `json:"dx_lev_mas"`
	DXLevRemas string `json:"dx_lev_remas"`
}

type MaiCatalog struct {
	Songs  []models.MaiSong
	Charts []models.FetchedChart
}

func (c *Client) FetchMaiCatalog(ctx context.Context, url string) (MaiCatalog, error) {
	var raw []maiRaw
	if err := c.getJSON(ctx, "maimai", url, &raw); err != nil {
		return MaiCatalog{}, err
	}
	return convertMai(raw), nil
}

func convertMai(raw []maiRaw) MaiCatalog {
	var out MaiCatalog
	for _, r := range raw {
		title := strings.TrimSpace(r.Title)
		if title == "" {
			continue
		}
		// utage party charts live outside the normal catalog
		if r.CatCode == "宴会場" {
			continue
		}

		out.Songs = append(out.Songs, models.MaiSong{
			Title:    title,
			Category: r.CatCode,
			Artist:   r.Artist,
			Image:    r.ImageURL,
			Version:  r.Version,
		})

		sheets := []struct {
			sheet  string
			levels [5]string
		}{
			{models.SheetStd, [5]string{r.LevBas, r.LevAdv, r.LevExp, r.LevMas, r.LevRemas}},
			{models.SheetDX, [5]string{r.DXLevBas, r.DXLevAdv, r.DXLevExp, r.DXLevMas, r.DXLevRemas}},
		}
		difficulties := [5]string{
			models.DiffBasic, models.DiffAdvanced, models.DiffExpert, models.DiffMaster, models.DiffReMaster,
		}

		for _, s := range sheets {
			for i, lvl := range s.levels {
				out.Charts = append(out.Charts, models.FetchedChart{
					SongKey:    title,
					Sheet:      s.sheet,
					Difficulty: difficulties[i],
					Level:      lvl,
				})
			}
		}
	}
	return out
}
