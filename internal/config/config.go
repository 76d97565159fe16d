package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config keeps runtime settings for the service.
type Config struct {
	HTTPAddr     string
	DatabaseURL  string
	JWTSecret    string
	ScanInterval time.Duration
	SyncDebounce time.Duration
}

// Load reads configuration from environment variables with sane defaults.
func Load() (Config, error) {
	cfg := Config{
		HTTPAddr:     strings.TrimSpace(os.Getenv("HTTP_ADDR")),
		DatabaseURL:  strings.TrimSpace(os.Getenv("DATABASE_URL")),
		JWTSecret:    strings.TrimSpace(os.Getenv("JWT_SECRET")),
		ScanInterval: parseMinutes(strings.TrimSpace(os.Getenv("SCAN_INTERVAL_MINUTES"))),
		SyncDebounce: parseMillis(strings.TrimSpace(os.Getenv("SYNC_DEBOUNCE_MS"))),
	}

	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":3000"
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "taskquest.db"
	}

	if cfg.ScanInterval == 0 {
		cfg.ScanInterval = 15 * time.Minute
	}

	if cfg.SyncDebounce == 0 {
		cfg.SyncDebounce = time.Second
	}

	if cfg.JWTSecret == "" {
		return cfg, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func parseMinutes(raw string) time.Duration {
	if raw == "" {
		return 0
	}
	minutes, err := strconv.Atoi(raw)
	if err != nil || minutes <= 0 {
		return 0
	}
	return time.Duration(minutes) * time.Minute
}

func parseMillis(raw string) time.Duration {
	if raw == "" {
		return 0
	}
	ms, err := strconv.Atoi(raw)
	if err != nil || ms <= 0 {
		return 0
	}
	return time.Duration(ms) * time.Millisecond
}
