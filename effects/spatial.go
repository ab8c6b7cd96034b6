package effects

import (
	"fmt"

	"github.com/opd-ai/scoremix/audio"
)

// Echo parameters.
const (
	EchoCount      = 3
	EchoStepMs     = 250
	EchoStepDB     = 6.0
	EchoDecayScale = 0.6
)

// Reverb parameters.
const (
	ReverbTaps       = 9
	ReverbFirstTapMs = 50
	ReverbTapStepMs  = 50
	ReverbTapDecayDB = 3.0
	ReverbWetDB      = -9.0
	DefaultDamping   = 0.5
)

// tap is one delayed copy of the dry signal.
type tap struct {
	delayMs int
	gainDB  float64
}

// EchoStage overlays EchoCount delayed copies, the i-th delayed by
// i*EchoStepMs and attenuated by EchoStepDB*i*EchoDecayScale. Buffer length
// is preserved; echo tails past the end are cut.
type EchoStage struct {
	taps []tap
}

// NewEchoStage creates the echo stage.
func NewEchoStage() *EchoStage {
	taps := make([]tap, EchoCount)
	for i := 1; i <= EchoCount; i++ {
		taps[i-1] = tap{delayMs: i * EchoStepMs, gainDB: -EchoStepDB * float64(i) * EchoDecayScale}
	}
	return &EchoStage{taps: taps}
}

// Process applies the echoes.
func (e *EchoStage) Process(buf *audio.Buffer, _ int) (*audio.Buffer, error) {
	if buf.Frames() == 0 {
		return nil, fmt.Errorf("%w: echo: %v", ErrStageFailed, audio.ErrEmptyBuffer)
	}
	out := buf.Clone()
	for _, t := range e.taps {
		addDelayed(out.Samples, buf.Samples, buf.FramesForMillis(t.delayMs)*buf.Channels, float32(audio.DBToLinear(t.gainDB)))
	}
	return out, nil
}

// GetName returns the stage name.
func (e *EchoStage) GetName() string { return "Echo" }

// ReverbStage approximates room reflections with ReverbTaps short delays
// between 50ms and 450ms, each quieter than the last. The summed reflections
// pass through a one-pole low-pass whose strength follows damping in [0, 1)
// before being mixed under the dry signal.
type ReverbStage struct {
	taps    []tap
	damping float64
}

// NewReverbStage creates a reverb with the given damping, clamped to [0, 0.95].
func NewReverbStage(damping float64) *ReverbStage {
	if damping < 0 {
		damping = 0
	}
	if damping > 0.95 {
		damping = 0.95
	}
	taps := make([]tap, ReverbTaps)
	for i := range taps {
		taps[i] = tap{
			delayMs: ReverbFirstTapMs + i*ReverbTapStepMs,
			gainDB:  ReverbWetDB - ReverbTapDecayDB*float64(i),
		}
	}
	return &ReverbStage{taps: taps, damping: damping}
}

// Process applies the reverb.
func (r *ReverbStage) Process(buf *audio.Buffer, _ int) (*audio.Buffer, error) {
	if buf.Frames() == 0 {
		return nil, fmt.Errorf("%w: reverb: %v", ErrStageFailed, audio.ErrEmptyBuffer)
	}

	wet := make([]float32, len(buf.Samples))
	for _, t := range r.taps {
		addDelayed(wet, buf.Samples, buf.FramesForMillis(t.delayMs)*buf.Channels, float32(audio.DBToLinear(t.gainDB)))
	}
	lowPass(wet, buf.Channels, float32(r.damping))

	out := buf.Clone()
	for i, s := range wet {
		out.Samples[i] += s
	}
	return out, nil
}

// GetName returns the stage name.
func (r *ReverbStage) GetName() string {
	return fmt.Sprintf("Reverb(damping=%.2f)", r.damping)
}

// addDelayed mixes src, shifted by offset samples and scaled by gain, into dst.
func addDelayed(dst, src []float32, offset int, gain float32) {
	for i := offset; i < len(dst); i++ {
		dst[i] += src[i-offset] * gain
	}
}

// lowPass runs y[n] = (1-a)*x[n] + a*y[n-1] per channel, in place.
func lowPass(samples []float32, channels int, a float32) {
	if a == 0 {
		return
	}
	prev := make([]float32, channels)
	for i, x := range samples {
		c := i % channels
		y := (1-a)*x + a*prev[c]
		samples[i] = y
		prev[c] = y
	}
}
