package effects

import (
	"fmt"

	"github.com/opd-ai/scoremix/audio"
)

// MaxFadeMs caps fade length; shorter segments fade over a third of their length.
const MaxFadeMs = 3000

// FadeLengthMs returns the fade duration used for a segment of targetMs.
func FadeLengthMs(targetMs int) int {
	if l := targetMs / 3; l < MaxFadeMs {
		return l
	}
	return MaxFadeMs
}

// FadeStage applies a linear amplitude fade at the start or end of the buffer.
type FadeStage struct {
	out bool
}

// NewFadeInStage fades from silence at the buffer start.
func NewFadeInStage() *FadeStage { return &FadeStage{} }

// NewFadeOutStage fades to silence at the buffer end.
func NewFadeOutStage() *FadeStage { return &FadeStage{out: true} }

// Process applies the fade.
func (s *FadeStage) Process(buf *audio.Buffer, targetMs int) (*audio.Buffer, error) {
	frames := buf.Frames()
	if frames == 0 {
		return nil, fmt.Errorf("%w: fade: %v", ErrStageFailed, audio.ErrEmptyBuffer)
	}
	length := buf.FramesForMillis(FadeLengthMs(targetMs))
	if length > frames {
		length = frames
	}

	out := buf.Clone()
	for i := 0; i < length; i++ {
		g := float32(i) / float32(length)
		f := i
		if s.out {
			f = frames - 1 - i
		}
		for c := 0; c < buf.Channels; c++ {
			out.Samples[f*buf.Channels+c] *= g
		}
	}
	return out, nil
}

// GetName returns the stage name.
func (s *FadeStage) GetName() string {
	if s.out {
		return "FadeOut"
	}
	return "FadeIn"
}
