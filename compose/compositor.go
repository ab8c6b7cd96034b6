package compose

import (
	"errors"
	"fmt"
	"sort"

	"github.com/opd-ai/scoremix/audio"
	"github.com/opd-ai/scoremix/timeline"
	"github.com/sirupsen/logrus"
)

// Fixed ducking levels applied when the video's own audio is mixed in.
const (
	MusicLevel    = 0.8
	OriginalLevel = 0.3
)

// ErrNothingToCompose is returned when no segments are supplied.
var ErrNothingToCompose = errors.New("no rendered segments to compose")

// Compositor mixes rendered segments onto one timeline.
type Compositor struct {
	channels   int
	sampleRate uint32
}

// NewCompositor creates a compositor producing buffers in the given format.
func NewCompositor(channels int, sampleRate uint32) (*Compositor, error) {
	if _, err := audio.NewBuffer(nil, channels, sampleRate); err != nil {
		return nil, err
	}
	return &Compositor{channels: channels, sampleRate: sampleRate}, nil
}

// Compose starts from videoMs of silence and adds every segment at its
// VideoStart with unity gain. Overlapping segments sum. Segments running past
// videoMs extend the mix; cutting to the picture length is left to the muxer.
//
// When original is non-nil it is converted to the output format, trimmed to
// the mix length and laid under the music at OriginalLevel while the music is
// scaled to MusicLevel.
func (c *Compositor) Compose(segments []*timeline.RenderedSegment, original *audio.Buffer, videoMs int) (*audio.Buffer, error) {
	if len(segments) == 0 {
		return nil, ErrNothingToCompose
	}

	ordered := make([]*timeline.RenderedSegment, len(segments))
	copy(ordered, segments)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i] == nil || ordered[j] == nil {
			return false
		}
		return ordered[i].Index < ordered[j].Index
	})

	mix := audio.NewSilence(videoMs, c.channels, c.sampleRate)
	for _, seg := range ordered {
		if seg == nil || seg.Buffer == nil {
			return nil, fmt.Errorf("place segment: %w", audio.ErrEmptyBuffer)
		}
		var err error
		mix, err = mix.Overlay(seg.Buffer, seg.StartMillis(), 0)
		if err != nil {
			return nil, fmt.Errorf("place segment %d: %w", seg.Index, err)
		}
	}

	if original != nil {
		ducked, err := c.duck(mix, original)
		if err != nil {
			return nil, err
		}
		mix = ducked
	}

	logrus.WithFields(logrus.Fields{
		"function": "Compositor.Compose",
		"segments": len(ordered),
		"video_ms": videoMs,
		"mix_ms":   mix.DurationMillis(),
		"original": original != nil,
		"peak":     mix.Peak(),
	}).Info("Composed soundtrack")

	return mix, nil
}

func (c *Compositor) duck(music, original *audio.Buffer) (*audio.Buffer, error) {
	orig, err := original.ConvertTo(c.channels, c.sampleRate)
	if err != nil {
		return nil, fmt.Errorf("convert original audio: %w", err)
	}
	if orig.Frames() > music.Frames() {
		orig = &audio.Buffer{
			Samples:    orig.Samples[:len(music.Samples)],
			Channels:   orig.Channels,
			SampleRate: orig.SampleRate,
		}
	}
	return music.Scale(MusicLevel).Overlay(orig.Scale(OriginalLevel), 0, 0)
}
