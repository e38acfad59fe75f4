package config

import (
	"fmt"
	"os"
)

type Config struct {
	HTTPAddr    string
	LogLevel    string
	MetricsAddr string

	// Optional: empty NATSURL disables event publishing, empty DatabaseURL
	// selects the in-memory store.
	NATSURL     string
	DatabaseURL string
}

func Load() (*Config, error) {
	cfg := &Config{
		HTTPAddr:    os.Getenv("HTTP_ADDR"),
		LogLevel:    os.Getenv("LOG_LEVEL"),
		MetricsAddr: os.Getenv("METRICS_ADDR"),
		NATSURL:     os.Getenv("NATS_URL"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
	}

	// Validation
	var missing []string
	if cfg.HTTPAddr == "" {
		missing = append(missing, "HTTP_ADDR")
	}
	if cfg.LogLevel == "" {
		missing = append(missing, "LOG_LEVEL")
	}
	if cfg.MetricsAddr == "" {
		missing = append(missing, "METRICS_ADDR")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required env vars: %v", missing)
	}

	return cfg, nil
}
