package utils

import (
	"os"
	"strconv"
	"time"
)

type AuthConfig struct {
	JWTSecret   string
	JWTIssuer   string
	JWTDuration time.Duration
}

func LoadAuthConfig() AuthConfig {
	secret := os.Getenv("OTOGEHUB_JWT_SECRET")
	if secret == "" {
		// dev default (change for demo / production)
		secret = "dev-secret-change-me"
	}

	issuer := os.Getenv("OTOGEHUB_JWT_ISSUER")
	if issuer == "" {
		issuer = "otogehub"
	}

	hours := 24
	if ttl := os.Getenv("OTOGEHUB_JWT_TTL_HOURS"); ttl != "" {
		if n, err := strconv.Atoi(ttl); err == nil && n > 0 {
			hours = n
		}
	}

	return AuthConfig{
		JWTSecret:   secret,
		JWTIssuer:   issuer,
		JWTDuration: time.Duration(hours) * time.Hour,
	}
}

// JobConfig drives the fetch-catalog and fetch-constants jobs. The overwrite
// toggle is resolved here, at the process boundary, and passed into the
// reconciler as a plain parameter.
type JobConfig struct {
	ChuniVersion string
	MaiVersion   string

	ChuniCatalogURL string
	MaiCatalogURL   string
	ConstantFeedURL string

	OverwriteConstants bool
	WebhookURL         string
}

func LoadJobConfig() JobConfig {
	return JobConfig{
		ChuniVersion:       envOr("OTOGEHUB_CHUNI_VERSION", "verse"),
		MaiVersion:         envOr("OTOGEHUB_MAI_VERSION", "prism"),
		ChuniCatalogURL:    envOr("OTOGEHUB_CHUNI_CATALOG_URL", "https://chunithm.sega.jp/storage/json/music.json"),
		MaiCatalogURL:      envOr("OTOGEHUB_MAI_CATALOG_URL", "https://maimai.sega.jp/data/maimai_songs.json"),
		ConstantFeedURL:    os.Getenv("OTOGEHUB_CONSTANT_FEED_URL"),
		OverwriteConstants: envBool("OTOGEHUB_OVERWRITE_CONSTANTS"),
		WebhookURL:         os.Getenv("OTOGEHUB_WEBHOOK_URL"),
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envBool(key string) bool {
	switch os.Getenv(key) {
	case "1", "true", "TRUE", "yes":
		return true
	}
	return false
}
