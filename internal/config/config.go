// Package config contains everything related to configuration
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	APIBaseURL     string
	RequestTimeout time.Duration
	DatabasePath   string
	StatePath      string
	CacheMaxAge    time.Duration
	CoverageAlert  float64
}

// Default values
const (
	defaultRequestTimeout = 30 * time.Second
	defaultCacheMaxAge    = 30 * 24 * time.Hour

	// A non-positive threshold disables the low-coverage notification.
	defaultCoverageAlert = 0
)

// Load reads configuration from .env files and environment variables.
func Load() (*Config, error) {
	// Try loading .env from multiple locations
	envPaths := getEnvPaths()
	for _, path := range envPaths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			break
		}
	}

	cfg := &Config{
		APIBaseURL:     getEnvString("APICOV_API_URL", ""),
		RequestTimeout: getEnvDuration("APICOV_TIMEOUT", defaultRequestTimeout),
		DatabasePath:   getEnvString("APICOV_DB_PATH", getDefaultDatabasePath()),
		StatePath:      getEnvString("APICOV_STATE_PATH", getDefaultStatePath()),
		CacheMaxAge:    getEnvDuration("APICOV_CACHE_MAX_AGE", defaultCacheMaxAge),
		CoverageAlert:  getEnvFloat("APICOV_COVERAGE_ALERT", defaultCoverageAlert),
	}

	if cfg.APIBaseURL == "" {
		return nil, fmt.Errorf("APICOV_API_URL is required (set via env or .env)")
	}

	// Ensure database directory exists
	if err := ensureDir(filepath.Dir(cfg.DatabasePath)); err != nil {
		return nil, err
	}

	// Ensure view-state directory exists
	if err := ensureDir(filepath.Dir(cfg.StatePath)); err != nil {
		return nil, err
	}

	return cfg, nil
}

// getEnvPaths returns a list of paths to check for .env files.
func getEnvPaths() []string {
	var paths []string

	// Current directory
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".env"))
	}

	// Home directory locations
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", "apicov", ".env"),
			filepath.Join(home, ".apicov", ".env"),
		)
	}

	// Parent directories (useful for development)
	if cwd, err := os.Getwd(); err == nil {
		parent := filepath.Dir(cwd)
		paths = append(paths, filepath.Join(parent, ".env"))
		grandparent := filepath.Dir(parent)
		paths = append(paths, filepath.Join(grandparent, ".env"))
	}

	return paths
}

// getDefaultDatabasePath returns the default path for the SQLite snapshot cache.
func getDefaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "apicov.db"
	}
	return filepath.Join(home, ".config", "apicov", "apicov.db")
}

// getDefaultStatePath returns the default path for the shareable view-state file.
func getDefaultStatePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "view.query"
	}
	return filepath.Join(home, ".config", "apicov", "view.query")
}

// getEnvString retrieves a string environment variable or returns the default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvDuration retrieves a duration environment variable or returns the default.
// Accepts values like "30s", "1m", "500ms".
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		// Try parsing as seconds if no unit specified
		if secs, err := strconv.Atoi(value); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}

// getEnvFloat retrieves a float environment variable or returns the default.
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// ensureDir creates a directory and all parent directories if they don't exist.
func ensureDir(path string) error {
	if path == "" || path == "." {
		return nil
	}
	return os.MkdirAll(path, 0o750)
}
