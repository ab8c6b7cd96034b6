package timeline

import (
	"fmt"
	"math"
	"sort"

	"github.com/opd-ai/scoremix/audio"
	"github.com/opd-ai/scoremix/effects"
)

// MusicRange is a sub-range of the source track in seconds.
type MusicRange struct {
	Start float64
	End   float64
}

// SegmentAssignment places one track on the video timeline.
type SegmentAssignment struct {
	VideoStart float64
	VideoEnd   float64
	// Music is the part of the source to use. Nil means [0, segment duration].
	Music   *MusicRange
	Effects effects.Set
	Track   TrackDescriptor
}

// Validate checks the video range.
func (s SegmentAssignment) Validate() error {
	if math.IsNaN(s.VideoStart) || math.IsNaN(s.VideoEnd) || math.IsInf(s.VideoStart, 0) || math.IsInf(s.VideoEnd, 0) {
		return fmt.Errorf("%w: non-finite bounds", ErrInvalidRange)
	}
	if s.VideoStart < 0 {
		return fmt.Errorf("%w: start %.3fs is negative", ErrInvalidRange, s.VideoStart)
	}
	if s.VideoEnd <= s.VideoStart {
		return fmt.Errorf("%w: end %.3fs not after start %.3fs", ErrInvalidRange, s.VideoEnd, s.VideoStart)
	}
	return nil
}

// Duration returns the segment length in seconds.
func (s SegmentAssignment) Duration() float64 {
	return s.VideoEnd - s.VideoStart
}

// TargetMillis returns round((VideoEnd - VideoStart) * 1000).
func (s SegmentAssignment) TargetMillis() int {
	return SecondsToMillis(s.Duration())
}

// StartMillis returns the placement offset on the timeline.
func (s SegmentAssignment) StartMillis() int {
	return SecondsToMillis(s.VideoStart)
}

// SecondsToMillis rounds seconds to whole milliseconds.
func SecondsToMillis(sec float64) int {
	return int(math.Round(sec * 1000))
}

// RenderedSegment is a finished per-segment buffer ready for placement.
type RenderedSegment struct {
	Index      int
	Buffer     *audio.Buffer
	VideoStart float64
	DurationMs int
	Track      TrackDescriptor
}

// StartMillis returns the placement offset on the timeline.
func (r RenderedSegment) StartMillis() int {
	return SecondsToMillis(r.VideoStart)
}

// Overlap records two segments sharing part of the timeline.
type Overlap struct {
	First  int
	Second int
	Start  float64
	End    float64
}

// String describes the overlap for reports.
func (o Overlap) String() string {
	return fmt.Sprintf("segments %d and %d overlap from %.3fs to %.3fs", o.First, o.Second, o.Start, o.End)
}

// FindOverlaps returns every pair of segments whose video ranges intersect.
// Touching ranges such as [0,5) and [5,10) do not overlap. Pairs are ordered
// by First, then Second.
func FindOverlaps(segments []SegmentAssignment) []Overlap {
	order := make([]int, len(segments))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return segments[order[a]].VideoStart < segments[order[b]].VideoStart
	})

	var out []Overlap
	for a := 0; a < len(order); a++ {
		first := segments[order[a]]
		for b := a + 1; b < len(order); b++ {
			second := segments[order[b]]
			if second.VideoStart >= first.VideoEnd {
				break
			}
			i, j := order[a], order[b]
			if i > j {
				i, j = j, i
			}
			out = append(out, Overlap{
				First:  i,
				Second: j,
				Start:  second.VideoStart,
				End:    math.Min(first.VideoEnd, second.VideoEnd),
			})
		}
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].First != out[b].First {
			return out[a].First < out[b].First
		}
		return out[a].Second < out[b].Second
	})
	return out
}

// Span returns the latest VideoEnd, or 0 for no segments.
func Span(segments []SegmentAssignment) float64 {
	var end float64
	for _, s := range segments {
		end = math.Max(end, s.VideoEnd)
	}
	return end
}
