package effects

import (
	"fmt"
	"math"

	"github.com/opd-ai/scoremix/audio"
)

// Final conditioning parameters.
const (
	NormalizeHeadroomDB = 1.0
	CompressThresholdDB = -20.0
	CompressRatio       = 2.0
	CompressAttackMs    = 5.0
	CompressReleaseMs   = 50.0
)

// NormalizeStage scales the buffer so its peak sits NormalizeHeadroomDB below
// full scale. Silent buffers pass through.
type NormalizeStage struct {
	headroomDB float64
}

// NewNormalizeStage creates a peak normalizer.
func NewNormalizeStage(headroomDB float64) *NormalizeStage {
	return &NormalizeStage{headroomDB: headroomDB}
}

// Process normalizes the buffer.
func (n *NormalizeStage) Process(buf *audio.Buffer, _ int) (*audio.Buffer, error) {
	peak := buf.Peak()
	if peak == 0 {
		return buf, nil
	}
	target := audio.DBToLinear(-n.headroomDB)
	return buf.Scale(target / float64(peak)), nil
}

// GetName returns the stage name.
func (n *NormalizeStage) GetName() string {
	return fmt.Sprintf("Normalize(-%.1fdB)", n.headroomDB)
}

// CompressorStage is a feed-forward peak compressor. A per-frame envelope
// follows the loudest channel with separate attack and release, and gain is
// reduced by (1 - 1/ratio) of the envelope's excess over the threshold.
type CompressorStage struct {
	thresholdDB float64
	ratio       float64
	attackMs    float64
	releaseMs   float64
}

// NewCompressorStage creates a compressor. ratio must be at least 1.
func NewCompressorStage(thresholdDB, ratio float64) (*CompressorStage, error) {
	if ratio < 1 {
		return nil, fmt.Errorf("compression ratio must be >= 1: %f", ratio)
	}
	return &CompressorStage{
		thresholdDB: thresholdDB,
		ratio:       ratio,
		attackMs:    CompressAttackMs,
		releaseMs:   CompressReleaseMs,
	}, nil
}

func smoothingCoefficient(ms float64, rate uint32) float64 {
	return math.Exp(-1 / (ms / 1000 * float64(rate)))
}

// Process compresses the buffer.
func (c *CompressorStage) Process(buf *audio.Buffer, _ int) (*audio.Buffer, error) {
	frames := buf.Frames()
	if frames == 0 {
		return nil, fmt.Errorf("%w: compressor: %v", ErrStageFailed, audio.ErrEmptyBuffer)
	}

	attack := smoothingCoefficient(c.attackMs, buf.SampleRate)
	release := smoothingCoefficient(c.releaseMs, buf.SampleRate)
	slope := 1 - 1/c.ratio

	out := buf.Clone()
	env := 0.0
	for f := 0; f < frames; f++ {
		frame := out.Samples[f*buf.Channels : (f+1)*buf.Channels]

		level := 0.0
		for _, s := range frame {
			level = math.Max(level, math.Abs(float64(s)))
		}
		coeff := release
		if level > env {
			coeff = attack
		}
		env = coeff*env + (1-coeff)*level

		over := audio.LinearToDB(env) - c.thresholdDB
		if over <= 0 {
			continue
		}
		g := float32(audio.DBToLinear(-over * slope))
		for i := range frame {
			frame[i] *= g
		}
	}
	return out, nil
}

// GetName returns the stage name.
func (c *CompressorStage) GetName() string {
	return fmt.Sprintf("Compressor(%.0fdB, %.1f:1)", c.thresholdDB, c.ratio)
}
