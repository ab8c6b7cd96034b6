package effects

import (
	"fmt"

	"github.com/opd-ai/scoremix/audio"
)

// Stage is one step of the pipeline.
//
// Process returns a new buffer or an error; it must not modify its input so
// that a failed stage can be skipped by passing the input along unchanged.
type Stage interface {
	// Process applies the stage. targetMs is the segment's intended duration.
	Process(buf *audio.Buffer, targetMs int) (*audio.Buffer, error)

	// GetName returns a human-readable name for logging.
	GetName() string
}

// ReverseStage inverts sample order.
type ReverseStage struct{}

// Process reverses the buffer.
func (ReverseStage) Process(buf *audio.Buffer, _ int) (*audio.Buffer, error) {
	if buf.Frames() == 0 {
		return nil, fmt.Errorf("%w: reverse: %v", ErrStageFailed, audio.ErrEmptyBuffer)
	}
	return buf.Reverse(), nil
}

// GetName returns the stage name.
func (ReverseStage) GetName() string { return "Reverse" }

// FitStage loops or trims the buffer to exactly the target duration. It runs
// after pitch shifting, which changes length.
type FitStage struct{}

// Process fits the buffer to targetMs.
func (FitStage) Process(buf *audio.Buffer, targetMs int) (*audio.Buffer, error) {
	if targetMs <= 0 {
		return buf, nil
	}
	if buf.Frames() == 0 {
		return nil, fmt.Errorf("%w: fit: %v", ErrStageFailed, audio.ErrEmptyBuffer)
	}
	return buf.LoopTo(targetMs).TrimTo(targetMs), nil
}

// GetName returns the stage name.
func (FitStage) GetName() string { return "Fit" }
