package audio

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewResampler(t *testing.T) {
	tests := []struct {
		name      string
		config    ResamplerConfig
		expectErr bool
	}{
		{
			name:   "valid_config",
			config: ResamplerConfig{InputRate: 44100, OutputRate: 48000, Channels: 2},
		},
		{
			name:      "zero_input_rate",
			config:    ResamplerConfig{InputRate: 0, OutputRate: 48000, Channels: 1},
			expectErr: true,
		},
		{
			name:      "zero_output_rate",
			config:    ResamplerConfig{InputRate: 44100, OutputRate: 0, Channels: 1},
			expectErr: true,
		},
		{
			name:      "invalid_channels_zero",
			config:    ResamplerConfig{InputRate: 44100, OutputRate: 48000, Channels: 0},
			expectErr: true,
		},
		{
			name:      "invalid_channels_too_many",
			config:    ResamplerConfig{InputRate: 44100, OutputRate: 48000, Channels: 9},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewResampler(tt.config)
			if tt.expectErr {
				assert.ErrorIs(t, err, ErrInvalidFormat)
				assert.Nil(t, r)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, r)
		})
	}
}

func TestResampleSameRate(t *testing.T) {
	r, err := NewResampler(ResamplerConfig{InputRate: 48000, OutputRate: 48000, Channels: 1})
	require.NoError(t, err)

	in := []float32{0.1, 0.2, 0.3}
	out, err := r.Resample(in)
	require.NoError(t, err)
	assert.Equal(t, in, out)

	out[0] = 9
	assert.Equal(t, float32(0.1), in[0], "output must be a copy")
}

func TestResampleLength(t *testing.T) {
	tests := []struct {
		name   string
		in     uint32
		out    uint32
		frames int
		expect int
	}{
		{"upsample_double", 24000, 48000, 480, 960},
		{"downsample_half", 48000, 24000, 480, 240},
		{"pitch_up_ratio", 57600, 48000, 4800, 4000},
		{"pitch_down_ratio", 38400, 48000, 4800, 6000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewResampler(ResamplerConfig{InputRate: tt.in, OutputRate: tt.out, Channels: 2})
			require.NoError(t, err)

			out, err := r.Resample(make([]float32, tt.frames*2))
			require.NoError(t, err)
			assert.Equal(t, tt.expect*2, len(out))
		})
	}
}

func TestResamplePreservesSine(t *testing.T) {
	const freq = 440.0
	in := make([]float32, 16000)
	for i := range in {
		in[i] = float32(math.Sin(2 * math.Pi * freq * float64(i) / 16000))
	}

	r, err := NewResampler(ResamplerConfig{InputRate: 16000, OutputRate: 48000, Channels: 1})
	require.NoError(t, err)
	out, err := r.Resample(in)
	require.NoError(t, err)

	for _, i := range []int{300, 4711, 20000} {
		want := math.Sin(2 * math.Pi * freq * float64(i) / 48000)
		assert.InDelta(t, want, out[i], 0.02)
	}
}

func TestResampleInvalidInput(t *testing.T) {
	r, err := NewResampler(ResamplerConfig{InputRate: 44100, OutputRate: 48000, Channels: 2})
	require.NoError(t, err)

	_, err = r.Resample(nil)
	assert.ErrorIs(t, err, ErrEmptyBuffer)

	_, err = r.Resample([]float32{1, 2, 3})
	assert.ErrorIs(t, err, ErrInvalidFormat)
}
