package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "ANALYSIS_SERVICE_URL", "ANALYSIS_HTTP_TIMEOUT", "UI_NOTIFICATION_TTL", "UI_SAMPLE_DELAY",
		"UI_SAMPLES_FILE", "HISTORY_ENABLED", "HISTORY_DB_PATH", "HISTORY_PAGE_SIZE",
		"LIVE_EVENTS_PER_SECOND", "LIVE_EVENTS_BURST", "CORS_ALLOWED_ORIGINS",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Fatalf("expected :8080, got %s", cfg.Server.Addr)
	}
	if len(cfg.Server.AllowedOrigins) != 1 || cfg.Server.AllowedOrigins[0] != "*" {
		t.Fatalf("unexpected origins %v", cfg.Server.AllowedOrigins)
	}
	if cfg.Analysis.BaseURL != "http://127.0.0.1:5000" || cfg.Analysis.Timeout != 0 {
		t.Fatalf("unexpected analysis config %#v", cfg.Analysis)
	}
	if cfg.UI.NotificationTTL != 3*time.Second || cfg.UI.SampleDelay != 500*time.Millisecond {
		t.Fatalf("unexpected ui config %#v", cfg.UI)
	}
	if !cfg.History.Enabled || cfg.History.DBPath != "moodlens.db" || cfg.History.PageSize != 50 {
		t.Fatalf("unexpected history config %#v", cfg.History)
	}
	if cfg.Live.EventsPerSecond != 10 || cfg.Live.Burst != 20 {
		t.Fatalf("unexpected live config %#v", cfg.Live)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "127.0.0.1:9000")
	t.Setenv("ANALYSIS_HTTP_TIMEOUT", "15s")
	t.Setenv("UI_SAMPLE_DELAY", "1s")
	t.Setenv("HISTORY_DB_PATH", ":memory:")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Fatalf("unexpected addr %s", cfg.Server.Addr)
	}
	if cfg.Analysis.Timeout != 15*time.Second || cfg.UI.SampleDelay != time.Second {
		t.Fatalf("unexpected durations %v %v", cfg.Analysis.Timeout, cfg.UI.SampleDelay)
	}
	if cfg.History.DBPath != ":memory:" {
		t.Fatalf("unexpected db path %s", cfg.History.DBPath)
	}
	if len(cfg.Server.AllowedOrigins) != 2 || cfg.Server.AllowedOrigins[1] != "https://b.example" {
		t.Fatalf("unexpected origins %v", cfg.Server.AllowedOrigins)
	}
}

func TestLoadInvalid(t *testing.T) {
	cases := map[string]string{
		"PORT":                   "80 80",
		"ANALYSIS_HTTP_TIMEOUT":  "soon",
		"UI_NOTIFICATION_TTL":    "0s",
		"HISTORY_PAGE_SIZE":      "0",
		"HISTORY_ENABLED":        "maybe",
		"LIVE_EVENTS_PER_SECOND": "-1",
		"LIVE_EVENTS_BURST":      "x",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%q", key, value)
			}
		})
	}
}
