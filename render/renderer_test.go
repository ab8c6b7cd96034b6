package render

import (
	"errors"
	"testing"

	"github.com/opd-ai/scoremix/audio"
	"github.com/opd-ai/scoremix/effects"
	"github.com/opd-ai/scoremix/timeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rate = 8000

// ramp returns a mono source whose sample i equals i/1e6, so output samples
// identify the source frame they came from.
func ramp(t *testing.T, ms int) *audio.Buffer {
	t.Helper()
	b := audio.NewSilence(ms, 1, rate)
	for i := range b.Samples {
		b.Samples[i] = float32(i) / 1e6
	}
	return b
}

func frameAt(ms int) int { return ms * rate / 1000 }

func segment(start, end float64, music *timeline.MusicRange, set effects.Set) timeline.SegmentAssignment {
	track, _ := timeline.NewLocalTrack("/music/song.wav", "Song", "Band")
	return timeline.SegmentAssignment{VideoStart: start, VideoEnd: end, Music: music, Effects: set, Track: track}
}

func TestRenderExactDuration(t *testing.T) {
	r := NewRenderer()
	tests := []struct {
		name     string
		start    float64
		end      float64
		sourceMs int
		wantMs   int
	}{
		{"longer source trimmed", 2, 5, 10000, 3000},
		{"shorter source looped", 0, 5, 3000, 5000},
		{"equal length", 0, 2, 2000, 2000},
		{"tiny source", 0, 1.5, 7, 1500},
		{"odd length", 0, 1.001, 400, 1001},
		{"fractional bounds", 3.5, 7.25, 1000, 3750},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := r.Render(0, segment(tt.start, tt.end, nil, 0), ramp(t, tt.sourceMs))
			require.NoError(t, err)
			assert.Equal(t, tt.wantMs, out.DurationMs)
			assert.Equal(t, tt.wantMs, out.Buffer.DurationMillis())
			assert.Equal(t, frameAt(tt.wantMs), out.Buffer.Frames())
			assert.Equal(t, tt.start, out.VideoStart)
		})
	}
}

func TestRenderLoopsFromStart(t *testing.T) {
	src := ramp(t, 3000)
	out, err := NewRenderer().Render(0, segment(0, 5, nil, 0), src)
	require.NoError(t, err)

	assert.Equal(t, src.Samples[0], out.Buffer.Samples[0])
	assert.Equal(t, src.Samples[0], out.Buffer.Samples[frameAt(3000)])
	assert.Equal(t, src.Samples[frameAt(1000)], out.Buffer.Samples[frameAt(4000)])
}

func TestRenderMusicRange(t *testing.T) {
	src := ramp(t, 10000)
	out, err := NewRenderer().Render(0, segment(0, 3, &timeline.MusicRange{Start: 1, End: 2}, 0), src)
	require.NoError(t, err)

	assert.Equal(t, 3000, out.Buffer.DurationMillis())
	assert.Equal(t, src.Samples[frameAt(1000)], out.Buffer.Samples[0])
	assert.Equal(t, src.Samples[frameAt(1000)], out.Buffer.Samples[frameAt(1000)])
	assert.Equal(t, src.Samples[frameAt(1500)], out.Buffer.Samples[frameAt(2500)])
}

func TestRenderInvalidMusicRangeRecovers(t *testing.T) {
	src := ramp(t, 10000)
	out, err := NewRenderer().Render(0, segment(0, 4, &timeline.MusicRange{Start: 2, End: 1}, 0), src)
	require.NoError(t, err)

	assert.Equal(t, 4000, out.Buffer.DurationMillis())
	assert.Equal(t, src.Samples[:frameAt(4000)], out.Buffer.Samples)
}

func TestRenderMusicRangeClamped(t *testing.T) {
	src := ramp(t, 10000)

	t.Run("end past source", func(t *testing.T) {
		out, err := NewRenderer().Render(0, segment(0, 4, &timeline.MusicRange{Start: 8, End: 20}, 0), src)
		require.NoError(t, err)
		assert.Equal(t, src.Samples[frameAt(8000)], out.Buffer.Samples[0])
		assert.Equal(t, src.Samples[frameAt(8000)], out.Buffer.Samples[frameAt(2000)])
	})

	t.Run("start past source", func(t *testing.T) {
		out, err := NewRenderer().Render(0, segment(0, 4, &timeline.MusicRange{Start: 12, End: 15}, 0), src)
		require.NoError(t, err)
		assert.Equal(t, src.Samples[:frameAt(4000)], out.Buffer.Samples)
	})

	t.Run("negative start", func(t *testing.T) {
		out, err := NewRenderer().Render(0, segment(0, 1, &timeline.MusicRange{Start: -3, End: 1}, 0), src)
		require.NoError(t, err)
		assert.Equal(t, src.Samples[:frameAt(1000)], out.Buffer.Samples)
	})
}

func TestRenderWithEffectsKeepsDuration(t *testing.T) {
	set, err := effects.NewSet(effects.AllKinds()...)
	require.NoError(t, err)

	for _, seconds := range []float64{0.5, 2.5, 7} {
		out, err := NewRenderer().Render(1, segment(0, seconds, nil, set), ramp(t, 1200))
		require.NoError(t, err)
		assert.Equal(t, timeline.SecondsToMillis(seconds), out.Buffer.DurationMillis())
		assert.Equal(t, 1, out.Index)
	}
}

func TestRenderErrors(t *testing.T) {
	r := NewRenderer()

	_, err := r.Render(3, segment(5, 5, nil, 0), ramp(t, 1000))
	assert.ErrorIs(t, err, timeline.ErrInvalidRange)
	var re *RenderError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, 3, re.Index)

	_, err = r.Render(0, segment(0, 1, nil, 0), audio.NewSilence(0, 1, rate))
	assert.ErrorIs(t, err, audio.ErrEmptyBuffer)

	_, err = r.Render(0, segment(0, 1, nil, 0), nil)
	assert.ErrorIs(t, err, audio.ErrEmptyBuffer)

	_, err = r.Render(0, segment(0, 1, nil, effects.Set(1<<15)), ramp(t, 1000))
	assert.ErrorIs(t, err, effects.ErrUnknownEffect)
}
