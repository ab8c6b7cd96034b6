// Package effects applies a fixed-order chain of audio transforms to a
// segment buffer.
//
// Callers select effects as a Set; the order effects were chosen in has no
// influence. The pipeline always runs, for the effects present:
//
//  1. pitch shift (up or down), then a length fit to the target duration
//  2. reverse
//  3. volume ramp (up or down)
//  4. echo, then reverb
//  5. fade in, then fade out
//  6. peak normalization and compression, whenever at least one effect ran
//
// Stages are best effort. A stage that fails is logged and skipped, and the
// buffer it received flows on to the next stage.
//
//	set, err := effects.ParseSet([]string{"Fade In", "Echo"})
//	pipeline, err := effects.NewPipeline(set)
//	out := pipeline.Apply(buf, 5000)
package effects
