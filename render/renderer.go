package render

import (
	"fmt"
	"math"
	"sync"

	"github.com/opd-ai/scoremix/audio"
	"github.com/opd-ai/scoremix/effects"
	"github.com/opd-ai/scoremix/limits"
	"github.com/opd-ai/scoremix/timeline"
	"github.com/sirupsen/logrus"
)

// Renderer extracts, times and processes one segment's audio. Pipelines are
// cached per effect set. Safe for concurrent use.
type Renderer struct {
	mu        sync.Mutex
	pipelines map[effects.Set]*effects.Pipeline
}

// NewRenderer creates a renderer.
func NewRenderer() *Renderer {
	return &Renderer{pipelines: make(map[effects.Set]*effects.Pipeline)}
}

func (r *Renderer) pipeline(set effects.Set) (*effects.Pipeline, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.pipelines[set]; ok {
		return p, nil
	}
	p, err := effects.NewPipeline(set)
	if err != nil {
		return nil, err
	}
	r.pipelines[set] = p
	return p, nil
}

// Render produces segment index from source. The result is exactly
// round((VideoEnd-VideoStart)*1000) ms long whatever the source length; an
// unusable music range is replaced by [0, target] rather than failing.
func (r *Renderer) Render(index int, seg timeline.SegmentAssignment, source *audio.Buffer) (*timeline.RenderedSegment, error) {
	track := seg.Track.String()
	if err := seg.Validate(); err != nil {
		return nil, NewRenderError(index, track, err)
	}
	if err := limits.ValidateSegmentDuration(seg.Duration()); err != nil {
		return nil, NewRenderError(index, track, err)
	}
	if err := source.Validate(); err != nil {
		return nil, NewRenderError(index, track, err)
	}
	if source.Frames() == 0 {
		return nil, NewRenderError(index, track, fmt.Errorf("%w: source has no frames", audio.ErrEmptyBuffer))
	}

	p, err := r.pipeline(seg.Effects)
	if err != nil {
		return nil, NewRenderError(index, track, err)
	}

	target := seg.TargetMillis()
	start, end := musicRange(seg, target, source.DurationMillis())
	if start >= end {
		logrus.WithFields(logrus.Fields{
			"function":  "Renderer.Render",
			"index":     index,
			"start_ms":  start,
			"end_ms":    end,
			"target_ms": target,
		}).Warn("Invalid music range, using start of track")
		start, end = 0, target
	}

	buf := source.Slice(start, end).LoopTo(target).TrimTo(target)
	buf = p.Apply(buf, target)

	if want := buf.FramesForMillis(target); buf.Frames() != want {
		logrus.WithFields(logrus.Fields{
			"function": "Renderer.Render",
			"index":    index,
			"frames":   buf.Frames(),
			"want":     want,
		}).Warn("Effects changed segment length, refitting")
		buf = buf.LoopTo(target).TrimTo(target)
	}

	logrus.WithFields(logrus.Fields{
		"function":    "Renderer.Render",
		"index":       index,
		"track":       track,
		"video_start": seg.VideoStart,
		"music_start": start,
		"music_end":   end,
		"duration_ms": target,
		"effects":     seg.Effects.String(),
	}).Debug("Rendered segment")

	return &timeline.RenderedSegment{
		Index:      index,
		Buffer:     buf,
		VideoStart: seg.VideoStart,
		DurationMs: target,
		Track:      seg.Track,
	}, nil
}

// musicRange returns the requested source range in ms clamped to
// [0, sourceMs]. Without an explicit range it is [0, target].
func musicRange(seg timeline.SegmentAssignment, target, sourceMs int) (int, int) {
	if seg.Music == nil {
		return 0, minInt(target, sourceMs)
	}
	s, e := seg.Music.Start, seg.Music.End
	if math.IsNaN(s) || math.IsNaN(e) {
		return 0, 0
	}
	limit := float64(sourceMs) / 1000
	s = math.Min(math.Max(s, 0), limit)
	e = math.Min(math.Max(e, 0), limit)
	return timeline.SecondsToMillis(s), timeline.SecondsToMillis(e)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
