package audio

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
)

// SilenceFloorDB is the level LinearToDB reports for digital silence.
const SilenceFloorDB = -120.0

// DBToLinear converts decibels to a linear amplitude factor.
func DBToLinear(db float64) float64 {
	return math.Pow(10, db/20)
}

// LinearToDB converts a linear amplitude factor to decibels.
func LinearToDB(factor float64) float64 {
	if factor <= 0 {
		return SilenceFloorDB
	}
	return math.Max(20*math.Log10(factor), SilenceFloorDB)
}

// FromInt16 converts signed 16-bit PCM to float32 samples.
func FromInt16(pcm []int16) []float32 {
	out := make([]float32, len(pcm))
	for i, s := range pcm {
		out[i] = float32(s) / 32768
	}
	return out
}

// ToInt16 converts float32 samples to signed 16-bit PCM with clipping. It
// returns the number of samples that had to be clipped.
func ToInt16(samples []float32) ([]int16, int) {
	out := make([]int16, len(samples))
	clipped := 0
	for i, s := range samples {
		v := math.Round(float64(s) * 32768)
		switch {
		case v > math.MaxInt16:
			out[i] = math.MaxInt16
			clipped++
		case v < math.MinInt16:
			out[i] = math.MinInt16
			clipped++
		default:
			out[i] = int16(v)
		}
	}
	return out, clipped
}

// fromInts converts integer PCM of the given bit depth to float32.
func fromInts(data []int, bitDepth int) []float32 {
	scale := float32(int64(1) << uint(bitDepth-1))
	out := make([]float32, len(data))
	for i, s := range data {
		out[i] = float32(s) / scale
	}
	return out
}

// ConvertTo returns the buffer in the requested channel count and sample rate.
// Mono is duplicated across all output channels; multichannel input folded to
// fewer channels is averaged.
func (b *Buffer) ConvertTo(channels int, sampleRate uint32) (*Buffer, error) {
	if err := validateFormat(channels, sampleRate); err != nil {
		return nil, err
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	if b.Channels == channels && b.SampleRate == sampleRate {
		return b.Clone(), nil
	}

	logrus.WithFields(logrus.Fields{
		"function":         "Buffer.ConvertTo",
		"from_channels":    b.Channels,
		"to_channels":      channels,
		"from_sample_rate": b.SampleRate,
		"to_sample_rate":   sampleRate,
	}).Debug("Converting audio buffer format")

	mixed := remapChannels(b.Samples, b.Channels, channels)
	if b.SampleRate == sampleRate || len(mixed) == 0 {
		return &Buffer{Samples: mixed, Channels: channels, SampleRate: sampleRate}, nil
	}

	r, err := NewResampler(ResamplerConfig{
		InputRate:  b.SampleRate,
		OutputRate: sampleRate,
		Channels:   channels,
	})
	if err != nil {
		return nil, fmt.Errorf("create resampler: %w", err)
	}
	resampled, err := r.Resample(mixed)
	if err != nil {
		return nil, fmt.Errorf("resample %d→%d Hz: %w", b.SampleRate, sampleRate, err)
	}
	return &Buffer{Samples: resampled, Channels: channels, SampleRate: sampleRate}, nil
}

func remapChannels(samples []float32, from, to int) []float32 {
	if from == to {
		out := make([]float32, len(samples))
		copy(out, samples)
		return out
	}

	frames := len(samples) / from
	out := make([]float32, frames*to)
	for f := 0; f < frames; f++ {
		in := samples[f*from : (f+1)*from]
		dst := out[f*to : (f+1)*to]
		switch {
		case from == 1:
			for c := range dst {
				dst[c] = in[0]
			}
		case to == 1:
			var sum float32
			for _, s := range in {
				sum += s
			}
			dst[0] = sum / float32(from)
		default:
			// Map by index; surplus source channels are dropped.
			for c := range dst {
				dst[c] = in[minInt(c, from-1)]
			}
		}
	}
	return out
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
