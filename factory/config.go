package factory

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/opd-ai/scoremix/interfaces"
	"github.com/pelletier/go-toml/v2"
	"github.com/sirupsen/logrus"
)

// Config is the full engine configuration as loaded from defaults, an
// optional TOML file and SCOREMIX_* environment variables.
type Config struct {
	Acquisition interfaces.AcquisitionConfig `toml:"acquisition"`
	Composition interfaces.CompositionConfig `toml:"composition"`
	Fallbacks   []FallbackEntry              `toml:"fallback"`
}

// FallbackEntry registers a file-backed fallback bed for a sub-mood.
type FallbackEntry struct {
	// Mood is a sub-mood label, e.g. "peaceful".
	Mood string `toml:"mood"`
	// Path is the audio file to use.
	Path string `toml:"path"`
	// Blake2b is the expected hex BLAKE2b-256 digest of the file.
	Blake2b string `toml:"blake2b"`
}

// Validate checks both config sections and the fallback entries.
func (c *Config) Validate() error {
	if err := c.Acquisition.Validate(); err != nil {
		return fmt.Errorf("acquisition: %w", err)
	}
	if err := c.Composition.Validate(); err != nil {
		return fmt.Errorf("composition: %w", err)
	}
	for i, fb := range c.Fallbacks {
		if fb.Mood == "" || fb.Path == "" {
			return fmt.Errorf("fallback[%d]: mood and path are required", i)
		}
	}
	return nil
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.Fallbacks = append([]FallbackEntry(nil), c.Fallbacks...)
	return &out
}

// DefaultConfig returns the built-in defaults without environment overrides.
func DefaultConfig() *Config {
	return createDefaultConfig()
}

// LoadConfig builds a configuration from defaults, the TOML file at path
// (skipped when path is empty or the file does not exist) and the
// environment, in that order, then validates it.
func LoadConfig(path string) (*Config, error) {
	cfg := createDefaultConfig()

	if path != "" {
		loaded, err := decodeConfigFile(path, cfg)
		if err != nil {
			return nil, err
		}
		logrus.WithFields(logrus.Fields{
			"function": "LoadConfig",
			"path":     path,
			"found":    loaded,
		}).Debug("Configuration file processed")
	}

	applyEnvironmentOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "LoadConfig",
			"path":     path,
			"error":    err.Error(),
		}).Error("Configuration validation failed")
		return nil, err
	}

	logConfigurationInfo(cfg)
	return cfg, nil
}

func decodeConfigFile(path string, cfg *Config) (bool, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	decoder := toml.NewDecoder(file)
	if err := decoder.Decode(cfg); err != nil {
		return false, fmt.Errorf("parse config: %w", err)
	}
	return true, nil
}

// createDefaultConfig initializes the default configuration.
//
// Default Value Rationale:
//   - RetryBudget: 2 - Two retries after the first attempt ride out a brief provider hiccup
//   - AttemptTimeout: 15000ms - A preview download of a few MB over a slow link
//   - BaseBackoff/MaxBackoff: 500ms/8000ms - Doubling from half a second; a longer provider hint stops retrying
//   - MaxTrackBytes: 64MiB - Several minutes of uncompressed stereo preview
//   - Workers: 4 - Acquisition is I/O bound; four keeps a provider's rate limiter calm
//   - SampleRate/Channels: 48000Hz stereo - Matches the video-mux collaborator's audio track
func createDefaultConfig() *Config {
	return &Config{
		Acquisition: interfaces.AcquisitionConfig{
			UseSimulation:  false,
			AttemptTimeout: 15000,
			RetryBudget:    2,
			BaseBackoff:    500,
			MaxBackoff:     8000,
			MaxTrackBytes:  64 << 20,
		},
		Composition: interfaces.CompositionConfig{
			Workers:    4,
			SampleRate: 48000,
			Channels:   2,
		},
	}
}

// logConfigurationInfo logs the final configuration settings.
func logConfigurationInfo(cfg *Config) {
	logrus.WithFields(logrus.Fields{
		"function":        "LoadConfig",
		"use_simulation":  cfg.Acquisition.UseSimulation,
		"attempt_timeout": cfg.Acquisition.AttemptTimeout,
		"retry_budget":    cfg.Acquisition.RetryBudget,
		"base_backoff":    cfg.Acquisition.BaseBackoff,
		"max_backoff":     cfg.Acquisition.MaxBackoff,
		"workers":         cfg.Composition.Workers,
		"sample_rate":     cfg.Composition.SampleRate,
		"channels":        cfg.Composition.Channels,
		"fallbacks":       len(cfg.Fallbacks),
	}).Info("Loaded engine configuration")
}
