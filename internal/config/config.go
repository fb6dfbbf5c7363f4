// Package config provides configuration types, defaults and validation for niftyregw.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/zjrosen/niftyregw/internal/log"
	"github.com/zjrosen/niftyregw/internal/tracing"
)

// DefaultReleaseURL is the NiftyReg v2.0.0 release archive; %s is the platform name.
const DefaultReleaseURL = "https://github.com/KCL-BMEIS/niftyreg/releases/download/v2.0.0/NiftyReg-%s-v2.0.0.zip"

// Config holds all configuration options for niftyregw.
type Config struct {
	// LogLevel is the minimum level written to the console.
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
	Color    bool   `mapstructure:"color" yaml:"color"`

	// InstallDir receives installed binaries and is searched after PATH.
	InstallDir string `mapstructure:"install_dir" yaml:"install_dir"`

	Locator LocatorConfig  `mapstructure:"locator" yaml:"locator"`
	History HistoryConfig  `mapstructure:"history" yaml:"history"`
	Install InstallConfig  `mapstructure:"install" yaml:"install"`
	Tracing tracing.Config `mapstructure:"tracing" yaml:"tracing"`
}

// LocatorConfig controls binary resolution.
type LocatorConfig struct {
	// CacheTTL is how long a resolved path is reused. Zero disables caching.
	CacheTTL time.Duration `mapstructure:"cache_ttl" yaml:"cache_ttl"`
}

// HistoryConfig controls the run history database.
type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Path    string `mapstructure:"path" yaml:"path"`
}

// InstallConfig controls `niftyregw install`.
type InstallConfig struct {
	ReleaseURL string        `mapstructure:"release_url" yaml:"release_url"`
	Timeout    time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

func homePath(elem ...string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(append([]string{home}, elem...)...)
}

// DefaultConfigPath returns ~/.config/niftyregw/config.yaml, or "" without a home dir.
func DefaultConfigPath() string {
	return homePath(".config", "niftyregw", "config.yaml")
}

// DefaultInstallDir returns ~/.local/bin.
func DefaultInstallDir() string {
	return homePath(".local", "bin")
}

// DefaultHistoryPath returns ~/.local/state/niftyregw/history.db.
func DefaultHistoryPath() string {
	return homePath(".local", "state", "niftyregw", "history.db")
}

// DefaultTracesFilePath returns ~/.local/state/niftyregw/traces.jsonl.
func DefaultTracesFilePath() string {
	return homePath(".local", "state", "niftyregw", "traces.jsonl")
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	tr := tracing.DefaultConfig()
	tr.FilePath = DefaultTracesFilePath()
	return Config{
		LogLevel:   "debug",
		Color:      true,
		InstallDir: DefaultInstallDir(),
		Locator: LocatorConfig{
			CacheTTL: 10 * time.Minute,
		},
		History: HistoryConfig{
			Enabled: true,
			Path:    DefaultHistoryPath(),
		},
		Install: InstallConfig{
			ReleaseURL: DefaultReleaseURL,
			Timeout:    5 * time.Minute,
		},
		Tracing: tr,
	}
}

// Level returns the parsed log level. Call Validate first.
func (c Config) Level() log.Level {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.LevelDebug
	}
	return level
}

// Validate checks the configuration for errors.
func Validate(c Config) error {
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	if c.Locator.CacheTTL < 0 {
		return fmt.Errorf("locator.cache_ttl must not be negative, got %s", c.Locator.CacheTTL)
	}
	if c.History.Enabled && c.History.Path == "" {
		return fmt.Errorf("history.path is required when history is enabled")
	}
	if n := strings.Count(c.Install.ReleaseURL, "%s"); n != 1 {
		return fmt.Errorf("install.release_url must contain exactly one %%s placeholder, got %d", n)
	}
	if c.Install.Timeout < 0 {
		return fmt.Errorf("install.timeout must not be negative, got %s", c.Install.Timeout)
	}
	return ValidateTracing(c.Tracing)
}

// ValidateTracing checks tracing configuration for errors.
func ValidateTracing(tr tracing.Config) error {
	if tr.SampleRate <= 0.0 || tr.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be in (0, 1], got %v", tr.SampleRate)
	}
	if !tracing.ValidExporter(tr.Exporter) {
		return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", tr.Exporter)
	}
	if tr.Enabled {
		if tr.Exporter == tracing.ExporterFile && tr.FilePath == "" {
			return fmt.Errorf("tracing.file_path is required when exporter is \"file\"")
		}
		if tr.Exporter == tracing.ExporterOTLP && tr.OTLPEndpoint == "" {
			return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
		}
	}
	return nil
}
