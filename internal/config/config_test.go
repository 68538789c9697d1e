package config

import (
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"LITGUESS_DB", "LITGUESS_CORPUS", "LITGUESS_CLOUD_URL", "LITGUESS_LOCALE",
		"LITGUESS_SEED", "LITGUESS_FETCH_LATENCY", "LITGUESS_LOG_LEVEL", "LITGUESS_LOG_FILE", "LITGUESS_ADDR"} {
		t.Setenv(k, "")
	}
	// t.Setenv with "" still counts as set; these keys must fall back.
	t.Setenv("LITGUESS_LOCALE", "en")
	t.Setenv("LITGUESS_LOG_LEVEL", "info")
	t.Setenv("LITGUESS_ADDR", ":8080")
	t.Setenv("LITGUESS_FETCH_LATENCY", "bogus")
	t.Setenv("LITGUESS_SEED", "bogus")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.FetchLatency != 400*time.Millisecond {
		t.Errorf("FetchLatency = %v, want 400ms", cfg.FetchLatency)
	}
	if cfg.Seed != 0 {
		t.Errorf("Seed = %d, want 0", cfg.Seed)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v, want INFO", cfg.LogLevel)
	}
	if cfg.CloudEnabled() {
		t.Error("cloud should be disabled without a URL")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("LITGUESS_CLOUD_URL", "https://saves.example.com")
	t.Setenv("LITGUESS_LOCALE", "RU")
	t.Setenv("LITGUESS_SEED", "42")
	t.Setenv("LITGUESS_FETCH_LATENCY", "0s")
	t.Setenv("LITGUESS_LOG_LEVEL", "debug")
	t.Setenv("LITGUESS_ADDR", ":9000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.CloudEnabled() {
		t.Error("cloud should be enabled")
	}
	if cfg.Locale != "ru" {
		t.Errorf("Locale = %q, want ru", cfg.Locale)
	}
	if cfg.Seed != 42 {
		t.Errorf("Seed = %d, want 42", cfg.Seed)
	}
	if cfg.FetchLatency != 0 {
		t.Errorf("FetchLatency = %v, want 0", cfg.FetchLatency)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("LogLevel = %v, want DEBUG", cfg.LogLevel)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		key, value, wantErr string
	}{
		{"LITGUESS_CLOUD_URL", "ftp://nope", "LITGUESS_CLOUD_URL"},
		{"LITGUESS_LOG_LEVEL", "loud", "LITGUESS_LOG_LEVEL"},
		{"LITGUESS_FETCH_LATENCY", "-1s", "LITGUESS_FETCH_LATENCY"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want mention of %s", err, tt.wantErr)
			}
		})
	}
}
