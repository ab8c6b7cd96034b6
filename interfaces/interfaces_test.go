package interfaces

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validAcquisition() AcquisitionConfig {
	return AcquisitionConfig{
		AttemptTimeout: 15000,
		RetryBudget:    2,
		BaseBackoff:    500,
		MaxBackoff:     8000,
		MaxTrackBytes:  1 << 20,
	}
}

func TestAcquisitionConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*AcquisitionConfig)
		wantErr error
	}{
		{"valid", func(*AcquisitionConfig) {}, nil},
		{"zero_retries_allowed", func(c *AcquisitionConfig) { c.RetryBudget = 0 }, nil},
		{"zero_timeout", func(c *AcquisitionConfig) { c.AttemptTimeout = 0 }, ErrInvalidTimeout},
		{"negative_retries", func(c *AcquisitionConfig) { c.RetryBudget = -1 }, ErrInvalidRetryBudget},
		{"max_below_base", func(c *AcquisitionConfig) { c.MaxBackoff = 100 }, ErrInvalidBackoff},
		{"negative_base", func(c *AcquisitionConfig) { c.BaseBackoff = -5 }, ErrInvalidBackoff},
		{"no_size_limit", func(c *AcquisitionConfig) { c.MaxTrackBytes = 0 }, ErrInvalidTrackLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validAcquisition()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCompositionConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  CompositionConfig
		wantErr error
	}{
		{"valid", CompositionConfig{Workers: 4, SampleRate: 48000, Channels: 2}, nil},
		{"no_workers", CompositionConfig{Workers: 0, SampleRate: 48000, Channels: 2}, ErrInvalidWorkers},
		{"low_rate", CompositionConfig{Workers: 1, SampleRate: 4000, Channels: 2}, ErrInvalidOutputFormat},
		{"surround", CompositionConfig{Workers: 1, SampleRate: 48000, Channels: 6}, ErrInvalidOutputFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestFetchError(t *testing.T) {
	cause := errors.New("503 service unavailable")
	err := fmt.Errorf("fetch track: %w", &FetchError{Kind: FetchRateLimited, RetryAfter: 3 * time.Second, Err: cause})

	assert.True(t, IsTransientFetch(err))
	assert.Equal(t, 3*time.Second, RetryAfterHint(err))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "rate_limited (retry after 3s)")

	assert.False(t, IsTransientFetch(&FetchError{Kind: FetchNoPreview}))
	assert.False(t, IsTransientFetch(&FetchError{Kind: FetchNotFound}))
	assert.True(t, IsTransientFetch(errors.New("connection reset")))
	assert.False(t, IsTransientFetch(context.Canceled))
	assert.False(t, IsTransientFetch(nil))
	assert.Equal(t, time.Duration(0), RetryAfterHint(cause))
}
