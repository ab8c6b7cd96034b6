package effects

import (
	"fmt"

	"github.com/opd-ai/scoremix/audio"
)

// Volume ramp endpoints in dB.
const (
	RampFloorDB   = -20.0
	RampCeilingDB = 0.0
)

// VolumeRampStage sweeps gain linearly in dB across the target duration,
// converting to linear amplitude per frame. Frames past the target hold the
// final gain.
type VolumeRampStage struct {
	fromDB float64
	toDB   float64
}

// NewVolumeRampStage creates a ramp from fromDB to toDB.
func NewVolumeRampStage(fromDB, toDB float64) *VolumeRampStage {
	return &VolumeRampStage{fromDB: fromDB, toDB: toDB}
}

// Process applies the ramp.
func (v *VolumeRampStage) Process(buf *audio.Buffer, targetMs int) (*audio.Buffer, error) {
	frames := buf.Frames()
	if frames == 0 {
		return nil, fmt.Errorf("%w: volume ramp: %v", ErrStageFailed, audio.ErrEmptyBuffer)
	}
	span := buf.FramesForMillis(targetMs)
	if span <= 0 {
		span = frames
	}

	out := buf.Clone()
	for f := 0; f < frames; f++ {
		pos := 1.0
		if span > 1 && f < span-1 {
			pos = float64(f) / float64(span-1)
		}
		g := float32(audio.DBToLinear(v.fromDB + (v.toDB-v.fromDB)*pos))
		for c := 0; c < buf.Channels; c++ {
			out.Samples[f*buf.Channels+c] *= g
		}
	}
	return out, nil
}

// GetName returns the stage name.
func (v *VolumeRampStage) GetName() string {
	return fmt.Sprintf("VolumeRamp(%.0fdB→%.0fdB)", v.fromDB, v.toDB)
}
