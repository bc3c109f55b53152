// fetch-catalog pulls the official song catalogs, merges them into the
// database, and reconciles per-chart level texts for the current game
// version. Stored data is authoritative: conflicts warn, they never
// overwrite.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/joho/godotenv"

	"otogehub/internal/fetcher"
	"otogehub/internal/music"
	"otogehub/internal/notify"
	"otogehub/internal/reconcile"
	"otogehub/pkg/database"
	"otogehub/pkg/models"
	"otogehub/pkg/utils"
)

func main() {
	_ = godotenv.Load()

	game := flag.String("game", "all", "which catalog to fetch: chunithm, maimai or all")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db := database.MustOpen(database.DefaultConfig())
	defer db.Close()
	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	cfg := utils.LoadJobConfig()
	repo := music.NewRepo(db)
	client := fetcher.New()
	webhook := notify.NewWebhook(cfg.WebhookURL, nil)

	switch *game {
	case models.GameChuni:
		fetchChuni(ctx, client, repo, webhook, cfg)
	case models.GameMai:
		fetchMai(ctx, client, repo, webhook, cfg)
	case "all":
		fetchChuni(ctx, client, repo, webhook, cfg)
		fetchMai(ctx, client, repo, webhook, cfg)
	default:
		log.Fatalf("unknown game %q", *game)
	}
}

func fetchChuni(ctx context.Context, client *fetcher.Client, repo *music.Repo, webhook *notify.Webhook, cfg utils.JobConfig) {
	catalog, err := client.FetchChuniCatalog(ctx, cfg.ChuniCatalogURL)
	if err != nil {
		log.Fatalf("[chunithm] fetch failed: %v", err)
	}
	log.Printf("[chunithm] fetched %d songs, %d charts", len(catalog.Songs), len(catalog.Charts))

	existing, err := repo.ListChuniSongs(ctx)
	if err != nil {
		log.Fatalf("[chunithm] list songs failed: %v", err)
	}

	differ := reconcile.Differ[models.ChuniSong, models.ChuniSong, int]{
		ExistingKey: func(s models.ChuniSong) int { return s.ID },
		FreshKey:    func(s models.ChuniSong) int { return s.ID },
		ExistingFields: func(s models.ChuniSong) reconcile.Fields {
			return reconcile.Fields{Category: s.Category, Artist: s.Artist, Image: s.Image}
		},
		FreshFields: func(s models.ChuniSong) reconcile.Fields {
			return reconcile.Fields{Category: s.Category, Artist: s.Artist, Image: s.Image}
		},
	}
	diff := differ.Diff(existing, catalog.Songs)

	if err := repo.InsertChuniSongs(ctx, diff.New); err != nil {
		log.Fatalf("[chunithm] insert songs failed: %v", err)
	}
	if err := repo.ApplyChuniPatches(ctx, diff.Updated); err != nil {
		log.Fatalf("[chunithm] apply patches failed: %v", err)
	}
	// removed songs stay in the catalog; they may still hold play records
	for _, r := range diff.Removed {
		log.Printf("[chunithm] song %d %q no longer in the official catalog", r.ID, r.Title)
	}
	log.Printf("[chunithm] songs: %d new, %d updated, %d removed upstream",
		len(diff.New), len(diff.Updated), len(diff.Removed))

	reconcileLevels(ctx, repo, webhook, models.GameChuni, cfg.ChuniVersion, catalog.Charts)
}

func fetchMai(ctx context.Context, client *fetcher.Client, repo *music.Repo, webhook *notify.Webhook, cfg utils.JobConfig) {
	catalog, err := client.FetchMaiCatalog(ctx, cfg.MaiCatalogURL)
	if err != nil {
		log.Fatalf("[maimai] fetch failed: %v", err)
	}
	log.Printf("[maimai] fetched %d songs, %d charts", len(catalog.Songs), len(catalog.Charts))

	existing, err := repo.ListMaiSongs(ctx)
	if err != nil {
		log.Fatalf("[maimai] list songs failed: %v", err)
	}

	differ := reconcile.Differ[models.MaiSong, models.MaiSong, string]{
		ExistingKey: func(s models.MaiSong) string { return s.Title },
		FreshKey:    func(s models.MaiSong) string { return s.Title },
		ExistingFields: func(s models.MaiSong) reconcile.Fields {
			return reconcile.Fields{Category: s.Category, Artist: s.Artist, Image: s.Image}
		},
		FreshFields: func(s models.MaiSong) reconcile.Fields {
			return reconcile.Fields{Category: s.Category, Artist: s.Artist, Image: s.Image}
		},
	}
	diff := differ.Diff(existing, catalog.Songs)

	if err := repo.InsertMaiSongs(ctx, diff.New); err != nil {
		log.Fatalf("[maimai] insert songs failed: %v", err)
	}
	if err := repo.ApplyMaiPatches(ctx, diff.Updated); err != nil {
		log.Fatalf("[maimai] apply patches failed: %v", err)
	}
	for _, r := range diff.Removed {
		log.Printf("[maimai] song %q no longer in the official catalog", r.Title)
	}
	log.Printf("[maimai] songs: %d new, %d updated, %d removed upstream",
		len(diff.New), len(diff.Updated), len(diff.Removed))

	reconcileLevels(ctx, repo, webhook, models.GameMai, cfg.MaiVersion, catalog.Charts)
}

func reconcileLevels(ctx context.Context, repo *music.Repo, webhook *notify.Webhook, game, version string, charts []models.FetchedChart) {
	existing, err := repo.ListLevels(ctx, game, version)
	if err != nil {
		log.Fatalf("[%s] list levels failed: %v", game, err)
	}

	res := reconcile.ReconcileLevels(game, charts, existing, version)
	if err := repo.InsertLevels(ctx, res.Payload); err != nil {
		log.Fatalf("[%s] insert levels failed: %v", game, err)
	}

	warnings := make([]string, 0, len(res.Warnings))
	for _, w := range res.Warnings {
		log.Printf("[%s] %s", game, w)
		warnings = append(warnings, w.String())
	}
	webhook.Send(ctx, notify.Alert{
		Job:      "fetch-catalog",
		Game:     game,
		Version:  version,
		Warnings: warnings,
	})

	log.Printf("[%s] levels %s: %d inserted, %d already stored, %d conflicts",
		game, version, len(res.Payload), res.Skipped, len(res.Warnings))
}
