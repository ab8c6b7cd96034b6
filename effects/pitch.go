package effects

import (
	"fmt"
	"math"

	"github.com/opd-ai/scoremix/audio"
)

// Pitch factors for the two pitch-shift effects.
const (
	PitchUpFactor   = 1.2
	PitchDownFactor = 0.8
)

// PitchShiftStage raises or lowers pitch by treating the samples as if they
// were recorded at rate*factor and resampling back to the original rate.
// Duration scales by 1/factor.
type PitchShiftStage struct {
	factor float64
}

// NewPitchShiftStage creates a pitch stage. factor must be positive.
func NewPitchShiftStage(factor float64) (*PitchShiftStage, error) {
	if factor <= 0 || math.IsNaN(factor) || math.IsInf(factor, 0) {
		return nil, fmt.Errorf("invalid pitch factor: %f", factor)
	}
	return &PitchShiftStage{factor: factor}, nil
}

// Process resamples the buffer.
func (p *PitchShiftStage) Process(buf *audio.Buffer, _ int) (*audio.Buffer, error) {
	virtualRate := uint32(math.Round(float64(buf.SampleRate) * p.factor))
	r, err := audio.NewResampler(audio.ResamplerConfig{
		InputRate:  virtualRate,
		OutputRate: buf.SampleRate,
		Channels:   buf.Channels,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: pitch shift: %v", ErrStageFailed, err)
	}
	samples, err := r.Resample(buf.Samples)
	if err != nil {
		return nil, fmt.Errorf("%w: pitch shift: %v", ErrStageFailed, err)
	}
	return &audio.Buffer{Samples: samples, Channels: buf.Channels, SampleRate: buf.SampleRate}, nil
}

// GetName returns the stage name.
func (p *PitchShiftStage) GetName() string {
	return fmt.Sprintf("PitchShift(%.2f)", p.factor)
}
