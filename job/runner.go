package job

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/opd-ai/scoremix/acquire"
	"github.com/opd-ai/scoremix/audio"
	"github.com/opd-ai/scoremix/compose"
	"github.com/opd-ai/scoremix/interfaces"
	"github.com/opd-ai/scoremix/limits"
	"github.com/opd-ai/scoremix/render"
	"github.com/opd-ai/scoremix/timeline"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// TrackSource resolves descriptors to buffers in the output format.
// *acquire.Acquirer implements it.
type TrackSource interface {
	Acquire(ctx context.Context, desc timeline.TrackDescriptor, scratch *acquire.ScratchRegistry) (*audio.Buffer, error)
}

// Request is the input of one composition job.
type Request struct {
	Segments []timeline.SegmentAssignment
	// VideoDuration is the picture length in seconds. Zero means the end of
	// the last segment.
	VideoDuration float64
	// Original is the video's own audio track, or nil.
	Original *audio.Buffer
}

// Runner executes composition jobs. It holds no per-job state and may run
// several jobs concurrently.
type Runner struct {
	source     TrackSource
	renderer   *render.Renderer
	compositor *compose.Compositor
	workers    int
	scratchDir string
}

// NewRunner creates a runner producing audio in cfg's output format.
func NewRunner(source TrackSource, cfg *interfaces.CompositionConfig, scratchDir string) (*Runner, error) {
	if source == nil {
		return nil, fmt.Errorf("track source is required")
	}
	if cfg == nil {
		return nil, fmt.Errorf("composition config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	compositor, err := compose.NewCompositor(cfg.Channels, cfg.SampleRate)
	if err != nil {
		return nil, err
	}
	return &Runner{
		source:     source,
		renderer:   render.NewRenderer(),
		compositor: compositor,
		workers:    cfg.Workers,
		scratchDir: scratchDir,
	}, nil
}

// outcome is written by exactly one worker, so the slice needs no lock.
type outcome struct {
	rendered *timeline.RenderedSegment
	err      error
}

// Run acquires and renders every segment on a bounded worker pool, then mixes
// the successes. Individual failures are recorded in the result; the job
// fails only when no segment renders (ErrNoSegmentsRendered) or ctx ends
// before some segment could finish, in which case the partial result is
// returned with ctx.Err(). Scratch files
// are released on every path.
func (r *Runner) Run(ctx context.Context, req Request) (*Result, error) {
	if len(req.Segments) == 0 {
		return nil, ErrNoSegments
	}

	videoSec := req.VideoDuration
	if videoSec <= 0 {
		videoSec = timeline.Span(req.Segments)
	}
	if err := limits.ValidateVideoDuration(videoSec); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	result := &Result{ID: id, VideoMs: timeline.SecondsToMillis(videoSec)}

	scratch := acquire.NewScratchRegistry(r.scratchDir, id)
	defer r.releaseScratch(id, scratch)

	logrus.WithFields(logrus.Fields{
		"function": "Runner.Run",
		"job_id":   id,
		"segments": len(req.Segments),
		"video_ms": result.VideoMs,
		"workers":  r.workers,
		"original": req.Original != nil,
	}).Info("Starting composition job")

	r.collectWarnings(result, req.Segments, videoSec)

	outcomes := make([]outcome, len(req.Segments))
	var g errgroup.Group
	g.SetLimit(r.workers)
	for i := range req.Segments {
		i := i
		g.Go(func() error {
			outcomes[i] = r.runSegment(ctx, i, req.Segments[i], scratch)
			return nil
		})
	}
	_ = g.Wait()

	for i, o := range outcomes {
		if o.err != nil {
			result.Failures = append(result.Failures, Failure{Index: i, Track: req.Segments[i].Track.String(), Reason: o.err})
			continue
		}
		result.Rendered = append(result.Rendered, o.rendered)
	}

	// Cancellation that arrives after every segment finished costs nothing.
	if err := ctx.Err(); err != nil && result.cancelled() {
		logrus.WithFields(logrus.Fields{
			"function": "Runner.Run",
			"job_id":   id,
			"rendered": len(result.Rendered),
			"failed":   len(result.Failures),
		}).Warn("Composition job cancelled")
		return result, err
	}

	if len(result.Rendered) == 0 {
		logrus.WithFields(logrus.Fields{
			"function": "Runner.Run",
			"job_id":   id,
			"failed":   len(result.Failures),
		}).Error("No segments rendered")
		return result, fmt.Errorf("%w: all %d segments failed", ErrNoSegmentsRendered, len(result.Failures))
	}

	mix, err := r.compositor.Compose(result.Rendered, req.Original, result.VideoMs)
	if err != nil {
		return result, fmt.Errorf("compose: %w", err)
	}
	result.Mix = mix

	logrus.WithFields(logrus.Fields{
		"function": "Runner.Run",
		"job_id":   id,
		"rendered": len(result.Rendered),
		"failed":   len(result.Failures),
		"warnings": len(result.Warnings),
		"mix_ms":   mix.DurationMillis(),
	}).Info("Composition job finished")

	return result, nil
}

// runSegment acquires and renders one segment. Cancellation is checked
// before any work starts.
func (r *Runner) runSegment(ctx context.Context, index int, seg timeline.SegmentAssignment, scratch *acquire.ScratchRegistry) outcome {
	track := seg.Track.String()
	if err := ctx.Err(); err != nil {
		return outcome{err: render.NewRenderError(index, track, err)}
	}

	buf, err := r.source.Acquire(ctx, seg.Track, scratch)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "Runner.runSegment",
			"index":    index,
			"track":    track,
			"error":    err.Error(),
		}).Error("Segment acquisition failed")
		return outcome{err: render.NewRenderError(index, track, err)}
	}

	rendered, err := r.renderer.Render(index, seg, buf)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "Runner.runSegment",
			"index":    index,
			"track":    track,
			"error":    err.Error(),
		}).Error("Segment render failed")
		return outcome{err: err}
	}
	return outcome{rendered: rendered}
}

// collectWarnings flags overlapping segments and segments running past the
// end of the video. Neither is rejected.
func (r *Runner) collectWarnings(result *Result, segments []timeline.SegmentAssignment, videoSec float64) {
	result.Overlaps = timeline.FindOverlaps(segments)
	for _, o := range result.Overlaps {
		result.Warnings = append(result.Warnings, o.String())
		logrus.WithFields(logrus.Fields{
			"function": "Runner.collectWarnings",
			"job_id":   result.ID,
			"first":    o.First,
			"second":   o.Second,
			"start":    o.Start,
			"end":      o.End,
		}).Warn("Segments overlap; both will play")
	}
	for i, seg := range segments {
		if seg.VideoEnd > videoSec {
			msg := fmt.Sprintf("segment %d ends at %.3fs, past video end %.3fs", i, seg.VideoEnd, videoSec)
			result.Warnings = append(result.Warnings, msg)
			logrus.WithFields(logrus.Fields{
				"function":  "Runner.collectWarnings",
				"job_id":    result.ID,
				"index":     i,
				"video_end": seg.VideoEnd,
			}).Warn("Segment runs past video end")
		}
	}
}

func (r *Runner) releaseScratch(id string, scratch *acquire.ScratchRegistry) {
	if err := scratch.ReleaseAll(); err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "Runner.releaseScratch",
			"job_id":   id,
			"error":    err.Error(),
		}).Warn("Failed to release scratch files")
	}
}
