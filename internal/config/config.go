// Package config reads runtime settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/tordrt/askdb/internal/ddl"
)

// Config holds the settings shared by the CLI and the HTTP server
type Config struct {
	OpenAIAPIKey string
	Model        string
	ParseMode    ddl.Mode
	Addr         string
	LogLevel     string
	CacheEntries int64
}

// Load reads the environment, after loading .env files when present.
// Variables already set in the environment win over .env values.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	mode, err := ddl.ParseMode(os.Getenv("ASKDB_PARSE_MODE"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		OpenAIAPIKey: os.Getenv("OPENAI_API_KEY"),
		Model:        getEnv("ASKDB_MODEL", "gpt-4o"),
		ParseMode:    mode,
		Addr:         getEnv("ASKDB_ADDR", ":8080"),
		LogLevel:     getEnv("ASKDB_LOG_LEVEL", "info"),
		CacheEntries: 1024,
	}

	if v := os.Getenv("ASKDB_CACHE_ENTRIES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid ASKDB_CACHE_ENTRIES: %s (must be a positive integer)", v)
		}
		cfg.CacheEntries = n
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
