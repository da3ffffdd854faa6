// Package config holds application configuration: environment settings plus
// the injectable valuation policy (YAML defaults, HJSON analyst overrides).
package config

import (
	"fmt"
	"os"

	"equity_analyst/pkg/core/valuation"

	"gopkg.in/yaml.v2"
)

// Config is the environment-level application configuration. API settings
// live here; valuation policy lives in valuation.Defaults.
type Config struct {
	SECUserAgent string
	OutputDir    string
	CacheDir     string
	DatabaseURL  string
}

// Load reads configuration from environment variables with defaults.
// The caller is expected to have loaded .env already (godotenv in cmd).
func Load() *Config {
	return &Config{
		SECUserAgent: getEnv("SEC_USER_AGENT", ""),
		OutputDir:    getEnv("OUTPUT_DIR", "runs"),
		CacheDir:     getEnv("CACHE_DIR", ""),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// LoadDefaults reads the valuation policy from a YAML file, falling back to
// the standard policy when path is empty. Every heuristic constant of the
// model is overridable here so the policy stays auditable in one place.
func LoadDefaults(path string) (valuation.Defaults, error) {
	defaults := valuation.StandardDefaults()
	if path == "" {
		return defaults, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return defaults, fmt.Errorf("failed to read defaults file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &defaults); err != nil {
		return defaults, fmt.Errorf("failed to parse defaults file %s: %w", path, err)
	}
	return defaults, nil
}
