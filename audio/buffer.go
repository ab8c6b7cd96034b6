package audio

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Supported format bounds.
const (
	// MinSampleRate keeps millisecond rounding exact: one frame is never longer than 1ms.
	MinSampleRate = 1000
	// MaxSampleRate is the highest accepted sample rate in Hz.
	MaxSampleRate = 384000
	// MaxChannels is the highest accepted channel count.
	MaxChannels = 8
)

// Buffer is an interleaved PCM buffer.
//
// Samples are float32 in the nominal range [-1, 1]. Values outside that range
// are legal while mixing and are only clipped on export.
type Buffer struct {
	Samples    []float32
	Channels   int
	SampleRate uint32
}

// NewBuffer wraps samples in a Buffer after validating the format and that the
// sample count is a whole number of frames.
func NewBuffer(samples []float32, channels int, sampleRate uint32) (*Buffer, error) {
	if err := validateFormat(channels, sampleRate); err != nil {
		return nil, err
	}
	if len(samples)%channels != 0 {
		return nil, fmt.Errorf("%w: %d samples not aligned to %d channels", ErrInvalidFormat, len(samples), channels)
	}
	return &Buffer{Samples: samples, Channels: channels, SampleRate: sampleRate}, nil
}

// NewSilence returns a zeroed buffer of the given duration.
func NewSilence(durationMs, channels int, sampleRate uint32) *Buffer {
	b := &Buffer{Channels: channels, SampleRate: sampleRate}
	frames := b.FramesForMillis(durationMs)
	b.Samples = make([]float32, frames*channels)
	return b
}

func validateFormat(channels int, sampleRate uint32) error {
	if channels < 1 || channels > MaxChannels {
		return fmt.Errorf("%w: channel count %d (must be 1-%d)", ErrInvalidFormat, channels, MaxChannels)
	}
	if sampleRate < MinSampleRate || sampleRate > MaxSampleRate {
		return fmt.Errorf("%w: sample rate %d (must be %d-%d)", ErrInvalidFormat, sampleRate, MinSampleRate, MaxSampleRate)
	}
	return nil
}

// Validate reports whether the buffer's format and layout are consistent.
func (b *Buffer) Validate() error {
	if b == nil {
		return ErrEmptyBuffer
	}
	if err := validateFormat(b.Channels, b.SampleRate); err != nil {
		return err
	}
	if len(b.Samples)%b.Channels != 0 {
		return fmt.Errorf("%w: %d samples not aligned to %d channels", ErrInvalidFormat, len(b.Samples), b.Channels)
	}
	return nil
}

// Frames returns the number of sample frames.
func (b *Buffer) Frames() int {
	if b.Channels == 0 {
		return 0
	}
	return len(b.Samples) / b.Channels
}

// FramesForMillis converts a duration to a frame count at the buffer's rate,
// rounding to the nearest frame. Negative durations map to zero.
func (b *Buffer) FramesForMillis(ms int) int {
	if ms <= 0 {
		return 0
	}
	return int((int64(ms)*int64(b.SampleRate) + 500) / 1000)
}

// DurationMillis returns the buffer length rounded to the nearest millisecond.
func (b *Buffer) DurationMillis() int {
	if b.SampleRate == 0 {
		return 0
	}
	rate := int64(b.SampleRate)
	return int((int64(b.Frames())*1000 + rate/2) / rate)
}

// SameFormat reports whether both buffers share channel count and sample rate.
func (b *Buffer) SameFormat(other *Buffer) bool {
	return b.Channels == other.Channels && b.SampleRate == other.SampleRate
}

// Clone returns a deep copy.
func (b *Buffer) Clone() *Buffer {
	samples := make([]float32, len(b.Samples))
	copy(samples, b.Samples)
	return &Buffer{Samples: samples, Channels: b.Channels, SampleRate: b.SampleRate}
}

func (b *Buffer) withFrames(frames []float32) *Buffer {
	return &Buffer{Samples: frames, Channels: b.Channels, SampleRate: b.SampleRate}
}

// Slice returns the sub-buffer between startMs and endMs. Bounds are clamped
// to the buffer; an inverted range yields an empty buffer.
func (b *Buffer) Slice(startMs, endMs int) *Buffer {
	total := b.Frames()
	start := clampInt(b.FramesForMillis(startMs), 0, total)
	end := clampInt(b.FramesForMillis(endMs), 0, total)
	if end < start {
		end = start
	}

	out := make([]float32, (end-start)*b.Channels)
	copy(out, b.Samples[start*b.Channels:end*b.Channels])

	logrus.WithFields(logrus.Fields{
		"function":     "Buffer.Slice",
		"start_ms":     startMs,
		"end_ms":       endMs,
		"start_frame":  start,
		"end_frame":    end,
		"total_frames": total,
	}).Debug("Sliced audio buffer")

	return b.withFrames(out)
}

// LoopTo repeats the buffer until it is at least minDurationMs long. The
// result may overshoot; follow with TrimTo for an exact length. An empty
// buffer cannot be looped and is returned as a copy.
func (b *Buffer) LoopTo(minDurationMs int) *Buffer {
	target := b.FramesForMillis(minDurationMs)
	frames := b.Frames()
	if frames == 0 || frames >= target {
		return b.Clone()
	}

	out := make([]float32, 0, target*b.Channels)
	for len(out) < target*b.Channels {
		out = append(out, b.Samples...)
	}

	logrus.WithFields(logrus.Fields{
		"function":      "Buffer.LoopTo",
		"source_frames": frames,
		"target_frames": target,
		"result_frames": len(out) / b.Channels,
	}).Debug("Looped audio buffer")

	return b.withFrames(out)
}

// TrimTo truncates the buffer to durationMs. A shorter buffer is returned
// unchanged.
func (b *Buffer) TrimTo(durationMs int) *Buffer {
	target := b.FramesForMillis(durationMs)
	if b.Frames() <= target {
		return b.Clone()
	}
	out := make([]float32, target*b.Channels)
	copy(out, b.Samples)
	return b.withFrames(out)
}

// Overlay mixes other into a copy of b starting at startOffsetMs, attenuated
// by gainDb. The result is extended with silence when other runs past the end
// of b. Both buffers must share a format.
func (b *Buffer) Overlay(other *Buffer, startOffsetMs int, gainDb float64) (*Buffer, error) {
	if !b.SameFormat(other) {
		return nil, fmt.Errorf("%w: overlay %dch/%dHz onto %dch/%dHz",
			ErrFormatMismatch, other.Channels, other.SampleRate, b.Channels, b.SampleRate)
	}

	offset := b.FramesForMillis(startOffsetMs) * b.Channels
	length := len(b.Samples)
	if end := offset + len(other.Samples); end > length {
		length = end
	}

	out := make([]float32, length)
	copy(out, b.Samples)

	g := float32(DBToLinear(gainDb))
	for i, s := range other.Samples {
		out[offset+i] += s * g
	}

	logrus.WithFields(logrus.Fields{
		"function":      "Buffer.Overlay",
		"offset_ms":     startOffsetMs,
		"gain_db":       gainDb,
		"other_frames":  other.Frames(),
		"result_frames": length / b.Channels,
	}).Debug("Overlaid audio buffer")

	return b.withFrames(out), nil
}

// Gain scales amplitude by 10^(db/20).
func (b *Buffer) Gain(db float64) *Buffer {
	return b.Scale(DBToLinear(db))
}

// Scale multiplies every sample by a linear factor.
func (b *Buffer) Scale(factor float64) *Buffer {
	out := make([]float32, len(b.Samples))
	f := float32(factor)
	for i, s := range b.Samples {
		out[i] = s * f
	}
	return b.withFrames(out)
}

// Concat appends other to a copy of b. Both buffers must share a format.
func (b *Buffer) Concat(other *Buffer) (*Buffer, error) {
	if !b.SameFormat(other) {
		return nil, fmt.Errorf("%w: concat %dch/%dHz after %dch/%dHz",
			ErrFormatMismatch, other.Channels, other.SampleRate, b.Channels, b.SampleRate)
	}
	out := make([]float32, 0, len(b.Samples)+len(other.Samples))
	out = append(out, b.Samples...)
	out = append(out, other.Samples...)
	return b.withFrames(out), nil
}

// Reverse inverts frame order, keeping each frame's channel layout intact.
func (b *Buffer) Reverse() *Buffer {
	frames := b.Frames()
	out := make([]float32, len(b.Samples))
	for f := 0; f < frames; f++ {
		src := (frames - 1 - f) * b.Channels
		copy(out[f*b.Channels:(f+1)*b.Channels], b.Samples[src:src+b.Channels])
	}
	return b.withFrames(out)
}

// Peak returns the largest absolute sample value.
func (b *Buffer) Peak() float32 {
	var peak float32
	for _, s := range b.Samples {
		if s < 0 {
			s = -s
		}
		if s > peak {
			peak = s
		}
	}
	return peak
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
