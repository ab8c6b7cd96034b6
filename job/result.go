package job

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/opd-ai/scoremix/audio"
	"github.com/opd-ai/scoremix/timeline"
)

// Segment statuses used in reports.
const (
	StatusRendered  = "rendered"
	StatusFailed    = "failed"
	StatusCancelled = "cancelled"
)

// Failure records why one segment produced no audio.
type Failure struct {
	Index  int
	Track  string
	Reason error
}

// Cancelled reports whether the segment was abandoned because the job's
// context ended.
func (f Failure) Cancelled() bool {
	return errors.Is(f.Reason, context.Canceled) || errors.Is(f.Reason, context.DeadlineExceeded)
}

// Result aggregates one job run.
type Result struct {
	ID       string
	Rendered []*timeline.RenderedSegment
	Failures []Failure
	Overlaps []timeline.Overlap
	Warnings []string
	// Mix is the final soundtrack, nil unless at least one segment rendered
	// and the job was not cancelled.
	Mix     *audio.Buffer
	VideoMs int
}

// SegmentReport is one display line of the per-segment report.
type SegmentReport struct {
	Index      int
	Track      string
	Status     string
	DurationMs int
	Reason     string
}

func (r SegmentReport) String() string {
	if r.Status == StatusRendered {
		return fmt.Sprintf("#%d %s: %s (%dms)", r.Index, r.Track, r.Status, r.DurationMs)
	}
	return fmt.Sprintf("#%d %s: %s: %s", r.Index, r.Track, r.Status, r.Reason)
}

// Report lists every segment in index order.
func (r *Result) Report() []SegmentReport {
	out := make([]SegmentReport, 0, len(r.Rendered)+len(r.Failures))
	for _, seg := range r.Rendered {
		out = append(out, SegmentReport{
			Index:      seg.Index,
			Track:      seg.Track.String(),
			Status:     StatusRendered,
			DurationMs: seg.DurationMs,
		})
	}
	for _, f := range r.Failures {
		status := StatusFailed
		if f.Cancelled() {
			status = StatusCancelled
		}
		out = append(out, SegmentReport{
			Index:  f.Index,
			Track:  f.Track,
			Status: status,
			Reason: f.Reason.Error(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

func (r *Result) cancelled() bool {
	for _, f := range r.Failures {
		if f.Cancelled() {
			return true
		}
	}
	return false
}

// Succeeded reports whether a final mix was produced.
func (r *Result) Succeeded() bool {
	return r.Mix != nil
}
