package scoremix

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/opd-ai/scoremix/audio"
	"github.com/opd-ai/scoremix/effects"
	"github.com/opd-ai/scoremix/factory"
	"github.com/opd-ai/scoremix/job"
	simtest "github.com/opd-ai/scoremix/testing"
	"github.com/opd-ai/scoremix/timeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOptions(t *testing.T) (*Options, *simtest.SimulatedProvider) {
	t.Helper()
	cfg := factory.DefaultConfig()
	cfg.Acquisition.UseSimulation = true
	cfg.Acquisition.ScratchDir = t.TempDir()
	cfg.Acquisition.BaseBackoff = 1
	cfg.Acquisition.MaxBackoff = 2
	cfg.Composition.SampleRate = 16000
	cfg.Composition.Channels = 1

	provider := simtest.NewSimulatedProvider()
	return &Options{Config: cfg, Provider: provider}, provider
}

func writeTone(t *testing.T, ms int) string {
	t.Helper()
	buf := audio.NewSilence(ms, 2, 44100)
	for i := range buf.Samples {
		buf.Samples[i] = 0.25
	}
	path := filepath.Join(t.TempDir(), "tone.wav")
	require.NoError(t, audio.WriteWAVFile(path, buf))
	return path
}

func TestEngineComposeEndToEnd(t *testing.T) {
	opts, provider := testOptions(t)
	provider.Script("track://gone", simtest.NoPreview())

	engine, err := New(opts)
	require.NoError(t, err)
	defer engine.Close()

	localTrack, err := timeline.NewLocalTrack(writeTone(t, 3000), "Tone", "Test")
	require.NoError(t, err)
	remoteTrack, err := timeline.NewRemoteTrack("track://gone", "Gone", "Nobody", timeline.Uplifting)
	require.NoError(t, err)
	fx, err := effects.ParseSet([]string{"Fade In", "echo"})
	require.NoError(t, err)

	result, err := engine.Compose(context.Background(), job.Request{
		Segments: []timeline.SegmentAssignment{
			{VideoStart: 0, VideoEnd: 5, Effects: fx, Track: localTrack},
			{VideoStart: 5, VideoEnd: 8, Music: &timeline.MusicRange{Start: 2, End: 1}, Track: remoteTrack},
		},
		VideoDuration: 8,
	})
	require.NoError(t, err)
	assert.Len(t, result.Rendered, 2)
	assert.Empty(t, result.Failures)
	require.NotNil(t, result.Mix)
	assert.Equal(t, 8000, result.Mix.DurationMillis())
	assert.Equal(t, uint32(16000), result.Mix.SampleRate)

	out := filepath.Join(t.TempDir(), "soundtrack.wav")
	require.NoError(t, WriteSoundtrack(out, result))
	decoded, err := audio.NewDecoder(nil).DecodeFile(context.Background(), out)
	require.NoError(t, err)
	assert.Equal(t, 8000, decoded.DurationMillis())

	entries, err := os.ReadDir(opts.Config.Acquisition.ScratchDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestEngineClose(t *testing.T) {
	opts, _ := testOptions(t)
	engine, err := New(opts)
	require.NoError(t, err)

	require.NoError(t, engine.Close())
	require.NoError(t, engine.Close())

	_, err = engine.Compose(context.Background(), job.Request{})
	assert.ErrorIs(t, err, ErrClosed)
}

func TestEngineRejectsBadFallbackEntry(t *testing.T) {
	opts, _ := testOptions(t)
	opts.Config.Fallbacks = []factory.FallbackEntry{{Mood: "grumpy", Path: "x.wav", Blake2b: "00"}}
	_, err := New(opts)
	assert.ErrorIs(t, err, timeline.ErrUnknownSubMood)
}

func TestEngineDoesNotMutateOptions(t *testing.T) {
	opts, _ := testOptions(t)
	engine, err := New(opts)
	require.NoError(t, err)
	defer engine.Close()

	cfg := engine.Config()
	cfg.Composition.Workers = 99
	assert.Equal(t, opts.Config.Composition.Workers, engine.Config().Composition.Workers)
	assert.True(t, engine.Provider().IsSimulation())
}

func TestWriteSoundtrackWithoutMix(t *testing.T) {
	err := WriteSoundtrack(filepath.Join(t.TempDir(), "x.wav"), &job.Result{})
	assert.ErrorIs(t, err, job.ErrNoSegmentsRendered)
}
