// Package config provides application configuration loaded from the
// environment.
package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	// CorpusPath points at a corpus JSON file; empty uses the embedded one.
	CorpusPath string
	// CloudURL is the base URL of a cloud-save server; empty disables sync.
	CloudURL string
	// Locale is reported by the host integration ("en", "ru").
	Locale string
	// Seed makes question order reproducible when non-zero.
	Seed uint64
	// FetchLatency simulates archive lookup time before each question.
	FetchLatency time.Duration
	LogLevel     slog.Level
	// LogFile receives game logs; empty means <data dir>/litguess.log.
	LogFile string
	// ServeAddr is the listen address of the cloud-save server.
	ServeAddr string
}

// Load reads configuration from LITGUESS_* environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		CorpusPath:   getEnv("LITGUESS_CORPUS", ""),
		CloudURL:     getEnv("LITGUESS_CLOUD_URL", ""),
		Locale:       strings.ToLower(getEnv("LITGUESS_LOCALE", "en")),
		Seed:         getEnvUint("LITGUESS_SEED", 0),
		FetchLatency: getEnvDuration("LITGUESS_FETCH_LATENCY", 400*time.Millisecond),
		LogFile:      getEnv("LITGUESS_LOG_FILE", ""),
		ServeAddr:    getEnv("LITGUESS_ADDR", ":8080"),
	}

	level, err := parseLevel(getEnv("LITGUESS_LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	cfg.LogLevel = level

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks field values.
func (c *Config) Validate() error {
	if c.CloudURL != "" {
		u, err := url.Parse(c.CloudURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("LITGUESS_CLOUD_URL must be an http(s) URL, got %q", c.CloudURL)
		}
	}
	if c.Locale == "" {
		return fmt.Errorf("LITGUESS_LOCALE cannot be empty")
	}
	if c.FetchLatency < 0 {
		return fmt.Errorf("LITGUESS_FETCH_LATENCY must be >= 0")
	}
	if c.ServeAddr == "" {
		return fmt.Errorf("LITGUESS_ADDR cannot be empty")
	}
	return nil
}

// CloudEnabled reports whether progress should sync to a server.
func (c *Config) CloudEnabled() bool {
	return c.CloudURL != ""
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("LITGUESS_LOG_LEVEL: %w", err)
	}
	return l, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvUint(key string, fallback uint64) uint64 {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.ParseUint(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return d
}
