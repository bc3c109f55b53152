// export-mirror writes the stored catalogs back out in the official wire
// format, producing the fixtures mirror-server serves. Round-tripping
// through fetch-catalog against the mirror must be a no-op.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"otogehub/internal/music"
	"otogehub/pkg/database"
	"otogehub/pkg/models"
	"otogehub/pkg/utils"
)

type chuniWire struct {
	ID      string `json:"id"`
	CatName string `json:"catname"`
	Title   string `json:"title"`
	Artist  string `json:"artist"`
	Image   string `json:"image"`
	LevBas  string `json:"lev_bas"`
	LevAdv  string `json:"lev_adv"`
	LevExp  string `json:"lev_exp"`
	LevMas  string `json:"lev_mas"`
	LevUlt  string `json:"lev_ult"`
	LevWe   string `json:"lev_we"`
	WeKanji string `json:"we_kanji"`
}

type maiWire struct {
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

func main() {
	_ = godotenv.Load()

	var (
		chuniOut = flag.String("chuni", "data/chuni_music.json", "output path for the CHUNITHM fixture")
		maiOut   = flag.String("mai", "data/maimai_songs.json", "output path for the maimai fixture")
	)
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db := database.MustOpen(database.DefaultConfig())
	defer db.Close()
	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	cfg := utils.LoadJobConfig()
	repo := music.NewRepo(db)

	if err := exportChuni(ctx, repo, cfg.ChuniVersion, *chuniOut); err != nil {
		log.Fatalf("export chunithm fixture failed: %v", err)
	}
	if err := exportMai(ctx, repo, cfg.MaiVersion, *maiOut); err != nil {
		log.Fatalf("export maimai fixture failed: %v", err)
	}
}

func exportChuni(ctx context.Context, repo *music.Repo, version, outPath string) error {
	songs, err := repo.ListChuniSongs(ctx)
	if err != nil {
		return err
	}
	levels, err := repo.ListLevels(ctx, models.GameChuni, version)
	if err != nil {
		return err
	}

	byChart := levelIndex(levels)
	out := make([]chuniWire, 0, len(songs))
	for _, s := range songs {
		key := strconv.Itoa(s.ID)
		out = append(out, chuniWire{
			ID:      key,
			CatName: s.Category,
			Title:   s.Title,
			Artist:  s.Artist,
			Image:   s.Image,
			LevBas:  byChart[key+"/std/"+models.DiffBasic],
			LevAdv:  byChart[key+"/std/"+models.DiffAdvanced],
			LevExp:  byChart[key+"/std/"+models.DiffExpert],
			LevMas:  byChart[key+"/std/"+models.DiffMaster],
			LevUlt:  byChart[key+"/std/"+models.DiffUltima],
		})
	}

	log.Printf("[chunithm] wrote %d songs to %s", len(out), outPath)
	return writeJSON(outPath, out)
}

func exportMai(ctx context.Context, repo *music.Repo, version, outPath string) error {
	songs, err := repo.ListMaiSongs(ctx)
	if err != nil {
		return err
	}
	levels, err := repo.ListLevels(ctx, models.GameMai, version)
	if err != nil {
		return err
	}

	byChart := levelIndex(levels)
	out := make([]maiWire, 0, len(songs))
	for _, s := range songs {
		out = append(out, maiWire{
			Title:      s.Title,
			Artist:     s.Artist,
			CatCode:    s.Category,
			ImageURL:   s.Image,
			Version:    s.Version,
			LevBas:     byChart[s.Title+"/std/"+models.DiffBasic],
			LevAdv:     byChart[s.Title+"/std/"+models.DiffAdvanced],
			LevExp:     byChart[s.Title+"/std/"+models.DiffExpert],
			LevMas:     byChart[s.Title+"/std/"+models.DiffMaster],
			LevRemas:   byChart[s.Title+"/std/"+models.DiffReMaster],
			DXLevBas:   byChart[s.Title+"/dx/"+models.DiffBasic],
			DXLevAdv:   byChart[s.Title+"/dx/"+models.DiffAdvanced],
			DXLevExp:   byChart[s.Title+"/dx/"+models.DiffExpert],
			DXLevMas:   byChart[s.Title+"/dx/"+models.DiffMaster],
			DXLevRemas: byChart[s.Title+"/dx/"+models.DiffReMaster],
		})
	}

	log.Printf("[maimai] wrote %d songs to %s", len(out), outPath)
	return writeJSON(outPath, out)
}

func levelIndex(levels []models.ChartLevel) map[string]string {
	idx := make(map[string]string, len(levels))
	for _, l := range levels {
		idx[l.SongKey+"/"+l.Sheet+"/"+l.Difficulty] = l.Level
	}
	return idx
}

func writeJSON(outPath string, v any) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(outPath, b, 0o644)
}
