package interfaces

import (
	"errors"
	"fmt"
)

// Configuration validation errors.
var (
	ErrInvalidTimeout      = errors.New("invalid attempt timeout")
	ErrInvalidRetryBudget  = errors.New("invalid retry budget")
	ErrInvalidBackoff      = errors.New("invalid backoff")
	ErrInvalidTrackLimit   = errors.New("invalid track size limit")
	ErrInvalidWorkers      = errors.New("invalid worker count")
	ErrInvalidOutputFormat = errors.New("invalid output format")
)

// AcquisitionConfig controls track acquisition.
type AcquisitionConfig struct {
	// UseSimulation selects the scripted provider instead of HTTP.
	UseSimulation bool `toml:"use_simulation"`

	// AttemptTimeout bounds each fetch attempt, in milliseconds.
	AttemptTimeout int `toml:"attempt_timeout_ms"`

	// RetryBudget is the number of retries after the first attempt.
	RetryBudget int `toml:"retry_budget"`

	// BaseBackoff is the first retry delay in milliseconds; it doubles per retry.
	BaseBackoff int `toml:"base_backoff_ms"`

	// MaxBackoff caps the exponential schedule. A provider retry-after hint
	// longer than this ends the retries rather than being shortened.
	MaxBackoff int `toml:"max_backoff_ms"`

	// MaxTrackBytes caps remote payload and local file size.
	MaxTrackBytes int64 `toml:"max_track_bytes"`

	// ScratchDir holds temporary downloads. Empty means the OS temp dir.
	ScratchDir string `toml:"scratch_dir"`

	// FFmpegPath enables decoding of containers other than WAV and Ogg/Opus.
	FFmpegPath string `toml:"ffmpeg_path"`

	// UserAgent is sent with HTTP fetches.
	UserAgent string `toml:"user_agent"`
}

// Validate checks the configuration for impossible values.
func (c *AcquisitionConfig) Validate() error {
	if c.AttemptTimeout <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidTimeout, c.AttemptTimeout)
	}
	if c.RetryBudget < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidRetryBudget, c.RetryBudget)
	}
	if c.BaseBackoff < 0 || c.MaxBackoff < c.BaseBackoff {
		return fmt.Errorf("%w: base=%d max=%d", ErrInvalidBackoff, c.BaseBackoff, c.MaxBackoff)
	}
	if c.MaxTrackBytes <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidTrackLimit, c.MaxTrackBytes)
	}
	return nil
}

// CompositionConfig controls rendering and mixing.
type CompositionConfig struct {
	// Workers bounds concurrent per-segment acquisition and rendering.
	Workers int `toml:"workers"`

	// SampleRate of every rendered buffer and the final mix.
	SampleRate uint32 `toml:"sample_rate"`

	// Channels of every rendered buffer and the final mix.
	Channels int `toml:"channels"`
}

// Validate checks the configuration for impossible values.
func (c *CompositionConfig) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidWorkers, c.Workers)
	}
	if c.SampleRate < 8000 || c.SampleRate > 192000 {
		return fmt.Errorf("%w: sample rate %d", ErrInvalidOutputFormat, c.SampleRate)
	}
	if c.Channels < 1 || c.Channels > 2 {
		return fmt.Errorf("%w: channels %d", ErrInvalidOutputFormat, c.Channels)
	}
	return nil
}
