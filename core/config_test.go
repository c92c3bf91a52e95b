package core

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadConfig_NotFound(t *testing.T) {
	t.Parallel()

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), ConfigFileName))
	if err != nil {
		t.Fatalf("expected no error for missing %s, got: %v", ConfigFileName, err)
	}
	if cfg == nil {
		t.Fatal("expected non-nil config")
	}
	if cfg.Dashboard.TopUsers != 10 || cfg.Dashboard.RecentEvents != 4 {
		t.Errorf("dashboard defaults = %+v", cfg.Dashboard)
	}
	if cfg.Brief.MaxTokens != 800 {
		t.Errorf("Brief.MaxTokens = %d, want 800", cfg.Brief.MaxTokens)
	}
	if cfg.Brief.Model != "gpt-4o" || cfg.Brief.APIKeyEnv != "OPENAI_API_KEY" {
		t.Errorf("brief defaults = %+v", cfg.Brief)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "text" {
		t.Errorf("log defaults = %+v", cfg.Log)
	}
	if cfg.Development {
		t.Error("development should default to false")
	}
}

func TestLoadConfig_Valid(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	content := `snapshot: data/snapshot.json
development: true
dashboard:
  top_users: 5
  recent_window: 48h
  high_risk_threshold: 80
watch:
  debounce: 2s
  reloads_per_minute: 6
brief:
  model: gpt-4o-mini
  base_url: http://localhost:11434/v1
  timeout: 30s
serve:
  allowed_paths: [data, /srv/snapshots]
log:
  level: debug
  format: json
`
	path := filepath.Join(dir, ConfigFileName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Snapshot != "data/snapshot.json" || !cfg.Development {
		t.Errorf("top level = %q %v", cfg.Snapshot, cfg.Development)
	}
	if len(cfg.Serve.AllowedPaths) != 2 || cfg.Serve.AllowedPaths[1] != "/srv/snapshots" {
		t.Errorf("serve.allowed_paths = %v", cfg.Serve.AllowedPaths)
	}

	opts := cfg.AssemblerOptions()
	if opts.TopUsers != 5 || opts.RecentWindow != 48*time.Hour || opts.HighRiskThreshold != 80 {
		t.Errorf("AssemblerOptions() = %+v", opts)
	}
	// Unset keys keep their defaults.
	if opts.RecentEvents != 4 || opts.RecentLogs != 20 {
		t.Errorf("defaults lost: %+v", opts)
	}

	if got := cfg.WatchDebounce(); got != 2*time.Second {
		t.Errorf("WatchDebounce() = %v, want 2s", got)
	}
	if cfg.Watch.ReloadsPerMinute != 6 {
		t.Errorf("ReloadsPerMinute = %d, want 6", cfg.Watch.ReloadsPerMinute)
	}
	if got := cfg.BriefTimeout(); got != 30*time.Second {
		t.Errorf("BriefTimeout() = %v, want 30s", got)
	}
	if cfg.Brief.BaseURL != "http://localhost:11434/v1" || cfg.Brief.Model != "gpt-4o-mini" {
		t.Errorf("brief = %+v", cfg.Brief)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"bad yaml", "dashboard: [", "parsing"},
		{"bad duration", "watch:\n  debounce: soon\n", "watch.debounce"},
		{"bad level", "log:\n  level: loud\n", "log.level"},
		{"bad format", "log:\n  format: xml\n", "log.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), ConfigFileName)
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			_, err := LoadConfig(path)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("LoadConfig() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLogLevel(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseLogLevel(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
	if _, err := ParseLogLevel("trace"); err == nil {
		t.Error("ParseLogLevel(trace) expected error")
	}
}
