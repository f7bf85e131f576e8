package config

import (
	"fmt"
	"os"
	"time"
)

type Config struct {
	DatabaseURL   string
	HTTPAddr      string
	LogLevel      string
	Env           string // dev|prod
	SentryDSN     string
	Location      *time.Location
	SessionTTL    time.Duration
	AdminUser     string
	AdminPassword string
	BackupURL     string
}

func Load() (*Config, error) {
	tz := getenv("TZ", "Asia/Bangkok")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		loc = time.Local
	}

	ttl, err := parseTTL(getenv("SESSION_TTL", "12h"))
	if err != nil {
		return nil, fmt.Errorf("SESSION_TTL: %w", err)
	}

	cfg := &Config{
		DatabaseURL:   mustEnv("DATABASE_URL"),
		HTTPAddr:      getenv("HTTP_ADDR", ":8080"),
		LogLevel:      getenv("LOG_LEVEL", "info"),
		Env:           getenv("ENV", "dev"),
		SentryDSN:     os.Getenv("SENTRY_DSN"),
		Location:      loc,
		SessionTTL:    ttl,
		AdminUser:     getenv("ADMIN_USER", "admin"),
		AdminPassword: mustEnv("ADMIN_PASSWORD"),
		BackupURL:     getenv("BACKUP_URL", "http://pgbackup:8081"),
	}
	return cfg, nil
}

func mustEnv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		panic("required env " + k + " is empty")
	}
	return v
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func parseTTL(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("must be positive, got %s", d)
	}
	return d, nil
}
