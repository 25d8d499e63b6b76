// Package config loads process configuration once at startup. Business
// logic never reads the environment; everything it needs arrives through
// constructors.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr         string
	DatabaseURL  string
	BotToken     string
	JWTSecret    string
	TokenTTL     time.Duration
	AllowOrigins []string
	SeedDemoData bool
}

// Load reads .env (if present) and the environment. BOT_TOKEN is required:
// without it no identity payload can ever verify.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Addr:         ":" + getenv("PORT", "8080"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		BotToken:     os.Getenv("BOT_TOKEN"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		TokenTTL:     24 * time.Hour,
		AllowOrigins: splitOrigins(getenv("ALLOW_ORIGINS", "*")),
		SeedDemoData: os.Getenv("SEED_DEMO_DATA") == "true",
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = fmt.Sprintf(
			"postgres://%s:%s@%s:%s/%s",
			getenv("DB_USER", "postgres"),
			getenv("DB_PASSWORD", "postgres"),
			getenv("DB_HOST", "localhost"),
			getenv("DB_PORT", "5432"),
			getenv("DB_NAME", "questbay"),
		)
	}

	if cfg.BotToken == "" {
		return Config{}, fmt.Errorf("BOT_TOKEN not set")
	}
	if cfg.JWTSecret == "" {
		// Session tokens are optional sugar on top of the Telegram payload,
		// but an empty HMAC key is never acceptable.
		cfg.JWTSecret = cfg.BotToken
	}

	if ttl := os.Getenv("TOKEN_TTL"); ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil {
			return Config{}, fmt.Errorf("invalid TOKEN_TTL: %w", err)
		}
		cfg.TokenTTL = d
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitOrigins(s string) []string {
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
