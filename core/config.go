package core

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/nox-hq/riskboard/core/viewmodel"
)

// ConfigFileName is the project configuration file looked up in the working
// directory.
const ConfigFileName = ".riskboard.yaml"

// Config holds project-level configuration loaded from .riskboard.yaml.
type Config struct {
	// Snapshot is the default snapshot file for every command.
	Snapshot string `yaml:"snapshot"`
	// Development makes rendering before the first load panic instead of
	// degrading to an empty page.
	Development bool              `yaml:"development"`
	Dashboard   DashboardSettings `yaml:"dashboard"`
	Watch       WatchSettings     `yaml:"watch"`
	Brief       BriefSettings     `yaml:"brief"`
	Serve       ServeSettings     `yaml:"serve"`
	Log         LogSettings       `yaml:"log"`
}

// DashboardSettings sizes the assembled pages.
type DashboardSettings struct {
	TopUsers          int    `yaml:"top_users"`
	RecentEvents      int    `yaml:"recent_events"`
	RecentWindow      string `yaml:"recent_window"` // e.g. "168h"
	HighRiskThreshold int    `yaml:"high_risk_threshold"`
	TopLocations      int    `yaml:"top_locations"`
	RecentLogs        int    `yaml:"recent_logs"`
}

// WatchSettings controls snapshot reloading in watch mode.
type WatchSettings struct {
	Debounce         string `yaml:"debounce"`
	ReloadsPerMinute int    `yaml:"reloads_per_minute"`
}

// BriefSettings controls defaults for the brief command.
type BriefSettings struct {
	APIKeyEnv string `yaml:"api_key_env"` // env var name to read API key from (default: OPENAI_API_KEY)
	Model     string `yaml:"model"`       // LLM model name (default: gpt-4o)
	BaseURL   string `yaml:"base_url"`    // custom OpenAI-compatible API base URL
	Timeout   string `yaml:"timeout"`     // per-request timeout (e.g., "2m", "30s")
	MaxTokens int    `yaml:"max_tokens"`  // completion token cap per briefing (default: 800)
}

// ServeSettings controls the MCP server.
type ServeSettings struct {
	// AllowedPaths restricts load_snapshot to files under these roots.
	// Empty allows any path.
	AllowedPaths []string `yaml:"allowed_paths"`
}

// LogSettings controls the process logger.
type LogSettings struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	d := viewmodel.DefaultOptions()
	if c.Dashboard.TopUsers <= 0 {
		c.Dashboard.TopUsers = d.TopUsers
	}
	if c.Dashboard.RecentEvents <= 0 {
		c.Dashboard.RecentEvents = d.RecentEvents
	}
	if c.Dashboard.RecentWindow == "" {
		c.Dashboard.RecentWindow = d.RecentWindow.String()
	}
	if c.Dashboard.HighRiskThreshold <= 0 {
		c.Dashboard.HighRiskThreshold = d.HighRiskThreshold
	}
	if c.Dashboard.TopLocations <= 0 {
		c.Dashboard.TopLocations = d.TopLocations
	}
	if c.Dashboard.RecentLogs <= 0 {
		c.Dashboard.RecentLogs = d.RecentLogs
	}
	if c.Watch.Debounce == "" {
		c.Watch.Debounce = "500ms"
	}
	if c.Watch.ReloadsPerMinute <= 0 {
		c.Watch.ReloadsPerMinute = 30
	}
	if c.Brief.APIKeyEnv == "" {
		c.Brief.APIKeyEnv = "OPENAI_API_KEY"
	}
	if c.Brief.Model == "" {
		c.Brief.Model = "gpt-4o"
	}
	if c.Brief.Timeout == "" {
		c.Brief.Timeout = "2m"
	}
	if c.Brief.MaxTokens <= 0 {
		c.Brief.MaxTokens = 800
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate reports malformed durations, levels and formats.
func (c *Config) Validate() error {
	var errs []error
	for _, d := range []struct{ name, value string }{
		{"dashboard.recent_window", c.Dashboard.RecentWindow},
		{"watch.debounce", c.Watch.Debounce},
		{"brief.timeout", c.Brief.Timeout},
	} {
		if _, err := time.ParseDuration(d.value); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", d.name, err))
		}
	}
	if _, err := ParseLogLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format: unknown format %q (want text or json)", c.Log.Format))
	}
	return errors.Join(errs...)
}

// LoadConfig reads the configuration file at path and applies defaults.
// If the file does not exist, the default configuration is returned with no
// error.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", path, err)
	}
	return &cfg, nil
}

// AssemblerOptions converts the dashboard settings to assembler options.
func (c *Config) AssemblerOptions() viewmodel.Options {
	window, _ := time.ParseDuration(c.Dashboard.RecentWindow)
	return viewmodel.Options{
		TopUsers:          c.Dashboard.TopUsers,
		RecentEvents:      c.Dashboard.RecentEvents,
		RecentWindow:      window,
		HighRiskThreshold: c.Dashboard.HighRiskThreshold,
		TopLocations:      c.Dashboard.TopLocations,
		RecentLogs:        c.Dashboard.RecentLogs,
	}
}

// WatchDebounce returns the parsed watch debounce interval.
func (c *Config) WatchDebounce() time.Duration {
	d, err := time.ParseDuration(c.Watch.Debounce)
	if err != nil || d <= 0 {
		return 500 * time.Millisecond
	}
	return d
}

// BriefTimeout returns the parsed per-request briefing timeout.
func (c *Config) BriefTimeout() time.Duration {
	return c.Brief.RequestTimeout()
}

// RequestTimeout returns the parsed per-request timeout, or two minutes when
// unset or malformed.
func (b BriefSettings) RequestTimeout() time.Duration {
	d, err := time.ParseDuration(b.Timeout)
	if err != nil || d <= 0 {
		return 2 * time.Minute
	}
	return d
}

// ParseLogLevel maps a level name to a slog level.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level %q", s)
}
