package config

import (
	"os"
	"strings"
)

// Config carries everything the binaries read from the environment.
type Config struct {
	DatabaseURL    string
	HTTPPort       string
	StoreDriver    string // "postgres" or "memory"
	KafkaBrokers   []string
	KafkaTopic     string
	AllowedOrigins string
}

// Load reads the environment with defaults suitable for local development.
func Load() *Config {
	return &Config{
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		HTTPPort:       getEnv("HTTP_PORT", "8080"),
		StoreDriver:    getEnv("STORE_DRIVER", "postgres"),
		KafkaBrokers:   splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:     getEnv("KAFKA_TOPIC", "orderdesk.audit"),
		AllowedOrigins: os.Getenv("ALLOWED_ORIGINS"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
