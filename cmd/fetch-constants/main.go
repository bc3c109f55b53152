// fetch-constants pulls a community internal-level feed and fills verified
// chart constants for one game version. Overwriting an already-stored
// constant requires OTOGEHUB_OVERWRITE_CONSTANTS; by default conflicts only
// warn.
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

	var (
		game   = flag.String("game", models.GameChuni, "game the feed describes: chunithm or maimai")
		sheets = flag.String("sheets", "", "sheet type allowlist override, e.g. dx (default std)")
	)
	flag.Parse()

	if *game != models.GameChuni && *game != models.GameMai {
		log.Fatalf("unknown game %q", *game)
	}

	cfg := utils.LoadJobConfig()
	if cfg.ConstantFeedURL == "" {
		log.Fatal("OTOGEHUB_CONSTANT_FEED_URL is not set")
	}
	version := cfg.ChuniVersion
	if *game == models.GameMai {
		version = cfg.MaiVersion
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db := database.MustOpen(database.DefaultConfig())
	defer db.Close()
	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	repo := music.NewRepo(db)
	client := fetcher.New()

	feed, err := client.FetchConstantFeed(ctx, cfg.ConstantFeedURL)
	if err != nil {
		log.Fatalf("fetch constant feed failed: %v", err)
	}
	log.Printf("[%s] feed carries %d songs", *game, len(feed.Songs))

	songs, err := repo.SongRefs(ctx, *game)
	if err != nil {
		log.Fatalf("song refs failed: %v", err)
	}
	existing, err := repo.ListLevels(ctx, *game, version)
	if err != nil {
		log.Fatalf("list levels failed: %v", err)
	}

	opts := reconcile.ConstantOptions{Overwrite: cfg.OverwriteConstants}
	if *sheets != "" {
		opts.AllowedSheets = []string{*sheets}
	}

	res, err := reconcile.ReconcileConstants(*game, version, songs, existing, feed, opts)
	if err != nil {
		log.Fatalf("reconcile constants failed: %v", err)
	}

	if err := repo.ApplyConstantUpdates(ctx, res.Payload); err != nil {
		log.Fatalf("apply constant updates failed: %v", err)
	}

	for _, w := range res.Warnings {
		log.Printf("[%s] %s", *game, w)
	}
	if res.NullsCount > 0 {
		log.Printf("[%s] %d charts still have no constant in the feed (e.g. %v)",
			*game, res.NullsCount, head(res.NullsTitle, 5))
	}

	notify.NewWebhook(cfg.WebhookURL, nil).Send(ctx, notify.Alert{
		Job:      "fetch-constants",
		Game:     *game,
		Version:  version,
		Warnings: res.Warnings,
	})

	log.Printf("[%s] constants %s: %d applied, %d warnings, overwrite=%v",
		*game, version, len(res.Payload), len(res.Warnings), cfg.OverwriteConstants)
}

func head(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
