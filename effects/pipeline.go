package effects

import (
	"fmt"

	"github.com/opd-ai/scoremix/audio"
	"github.com/sirupsen/logrus"
)

// Pipeline runs the stages selected by a Set in fixed order.
// A Pipeline holds no per-call state and is safe for concurrent use.
type Pipeline struct {
	set    Set
	stages []Stage
}

// NewPipeline builds the stage list for set. A set carrying bits outside the
// vocabulary is rejected.
func NewPipeline(set Set) (*Pipeline, error) {
	if !set.valid() {
		logrus.WithFields(logrus.Fields{
			"function": "NewPipeline",
			"set":      uint16(set),
		}).Error("Effect set contains unknown kinds")
		return nil, fmt.Errorf("%w: set %#x", ErrUnknownEffect, uint16(set))
	}

	p := &Pipeline{set: set}
	if set.Empty() {
		return p, nil
	}

	// Every selected kind gets its own stage, including opposing pairs.
	if set.Has(PitchShiftUp) {
		p.addPitch(PitchUpFactor)
	}
	if set.Has(PitchShiftDown) {
		p.addPitch(PitchDownFactor)
	}
	if set.Has(PitchShiftUp) || set.Has(PitchShiftDown) {
		p.stages = append(p.stages, FitStage{})
	}
	if set.Has(Reverse) {
		p.stages = append(p.stages, ReverseStage{})
	}
	if set.Has(VolumeRampUp) {
		p.stages = append(p.stages, NewVolumeRampStage(RampFloorDB, RampCeilingDB))
	}
	if set.Has(VolumeRampDown) {
		p.stages = append(p.stages, NewVolumeRampStage(RampCeilingDB, RampFloorDB))
	}
	if set.Has(Echo) {
		p.stages = append(p.stages, NewEchoStage())
	}
	if set.Has(Reverb) {
		p.stages = append(p.stages, NewReverbStage(DefaultDamping))
	}
	if set.Has(FadeIn) {
		p.stages = append(p.stages, NewFadeInStage())
	}
	if set.Has(FadeOut) {
		p.stages = append(p.stages, NewFadeOutStage())
	}

	p.stages = append(p.stages, NewNormalizeStage(NormalizeHeadroomDB))
	if c, err := NewCompressorStage(CompressThresholdDB, CompressRatio); err == nil {
		p.stages = append(p.stages, c)
	}

	logrus.WithFields(logrus.Fields{
		"function": "NewPipeline",
		"effects":  set.String(),
		"stages":   p.Plan(),
	}).Debug("Effect pipeline created")

	return p, nil
}

func (p *Pipeline) addPitch(factor float64) {
	if s, err := NewPitchShiftStage(factor); err == nil {
		p.stages = append(p.stages, s)
	}
}

// Set returns the effects this pipeline was built from.
func (p *Pipeline) Set() Set { return p.set }

// Plan returns the stage names in execution order.
func (p *Pipeline) Plan() []string {
	names := make([]string, len(p.stages))
	for i, s := range p.stages {
		names[i] = s.GetName()
	}
	return names
}

// Apply runs every stage over buf. Stages that fail are skipped. The input
// buffer is never modified.
func (p *Pipeline) Apply(buf *audio.Buffer, targetMs int) *audio.Buffer {
	current := buf
	for _, stage := range p.stages {
		next, err := stage.Process(current, targetMs)
		if err != nil || next == nil {
			logrus.WithFields(logrus.Fields{
				"function":  "Pipeline.Apply",
				"stage":     stage.GetName(),
				"frames":    current.Frames(),
				"target_ms": targetMs,
				"error":     fmt.Sprint(err),
			}).Warn("Effect stage failed, passing input through")
			continue
		}
		current = next
	}
	if current == buf {
		return buf.Clone()
	}
	return current
}
