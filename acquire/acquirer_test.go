package acquire

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/opd-ai/scoremix/audio"
	"github.com/opd-ai/scoremix/interfaces"
	simtest "github.com/opd-ai/scoremix/testing"
	"github.com/opd-ai/scoremix/timeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockSleeper records requested delays without waiting.
type mockSleeper struct {
	mu     sync.Mutex
	delays []time.Duration
	onCall func()
}

func (m *mockSleeper) Sleep(ctx context.Context, d time.Duration) error {
	m.mu.Lock()
	m.delays = append(m.delays, d)
	hook := m.onCall
	m.mu.Unlock()
	if hook != nil {
		hook()
	}
	return ctx.Err()
}

func (m *mockSleeper) Delays() []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]time.Duration(nil), m.delays...)
}

func toneWAV(t *testing.T, ms int) []byte {
	t.Helper()
	buf := audio.NewSilence(ms, 1, 8000)
	for i := range buf.Samples {
		buf.Samples[i] = float32(0.5 * math.Sin(2*math.Pi*440*float64(i)/8000))
	}
	data, err := audio.EncodeWAVBytes(buf)
	require.NoError(t, err)
	return data
}

type fixture struct {
	acq      *Acquirer
	provider *simtest.SimulatedProvider
	sleeper  *mockSleeper
	scratch  *ScratchRegistry
	dir      string
}

func newFixture(t *testing.T, mutate func(*interfaces.AcquisitionConfig)) *fixture {
	t.Helper()
	dir := t.TempDir()
	acqCfg := &interfaces.AcquisitionConfig{
		AttemptTimeout: 2000,
		RetryBudget:    2,
		BaseBackoff:    500,
		MaxBackoff:     8000,
		MaxTrackBytes:  1 << 20,
		ScratchDir:     dir,
	}
	if mutate != nil {
		mutate(acqCfg)
	}
	compCfg := &interfaces.CompositionConfig{Workers: 1, SampleRate: 16000, Channels: 2}

	provider := simtest.NewSimulatedProvider()
	acq, err := NewAcquirer(acqCfg, compCfg, provider, nil, nil)
	require.NoError(t, err)

	sleeper := &mockSleeper{}
	acq.SetSleeper(sleeper)

	return &fixture{
		acq:      acq,
		provider: provider,
		sleeper:  sleeper,
		scratch:  NewScratchRegistry(dir, "test"),
		dir:      dir,
	}
}

func (f *fixture) assertNoScratch(t *testing.T) {
	t.Helper()
	assert.Empty(t, f.scratch.Pending())
	entries, err := os.ReadDir(f.dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "scratch files left behind")
}

func remote(t *testing.T, uri string, fallback timeline.SubMood) timeline.TrackDescriptor {
	t.Helper()
	d, err := timeline.NewRemoteTrack(uri, "Song", "Band", fallback)
	require.NoError(t, err)
	return d
}

func TestAcquireLocalConvertsFormat(t *testing.T) {
	f := newFixture(t, nil)
	path := filepath.Join(t.TempDir(), "song.wav")
	require.NoError(t, os.WriteFile(path, toneWAV(t, 500), 0o600))

	desc, err := timeline.NewLocalTrack(path, "Song", "Band")
	require.NoError(t, err)

	buf, err := f.acq.Acquire(context.Background(), desc, f.scratch)
	require.NoError(t, err)
	assert.Equal(t, 2, buf.Channels)
	assert.Equal(t, uint32(16000), buf.SampleRate)
	assert.Equal(t, 500, buf.DurationMillis())
}

func TestAcquireLocalFailuresAreUnreadable(t *testing.T) {
	f := newFixture(t, nil)
	dir := t.TempDir()
	garbage := filepath.Join(dir, "garbage.wav")
	require.NoError(t, os.WriteFile(garbage, []byte("definitely not audio"), 0o600))

	for name, path := range map[string]string{
		"missing":   filepath.Join(dir, "nope.wav"),
		"garbage":   garbage,
		"directory": dir,
	} {
		t.Run(name, func(t *testing.T) {
			desc, err := timeline.NewLocalTrack(path, "", "")
			require.NoError(t, err)
			_, err = f.acq.Acquire(context.Background(), desc, f.scratch)
			assert.ErrorIs(t, err, ErrUnreadable)
			assert.NotErrorIs(t, err, ErrUnavailable)

			var ae *AcquisitionError
			require.True(t, errors.As(err, &ae))
			assert.Equal(t, Unreadable, ae.Kind)
		})
	}
}

func TestAcquireRemoteFirstAttempt(t *testing.T) {
	f := newFixture(t, nil)
	f.provider.AddTrack("track://1", toneWAV(t, 300))

	buf, err := f.acq.Acquire(context.Background(), remote(t, "track://1", timeline.NoSubMood), f.scratch)
	require.NoError(t, err)
	assert.Equal(t, 300, buf.DurationMillis())
	assert.Equal(t, 1, f.provider.FetchCount("track://1"))
	assert.Empty(t, f.sleeper.Delays())
	f.assertNoScratch(t)
}

func TestAcquireRemoteRetriesWithBackoff(t *testing.T) {
	f := newFixture(t, nil)
	f.provider.Script("track://flaky",
		simtest.TransportFailure(),
		simtest.TransportFailure(),
		simtest.Payload(toneWAV(t, 200)),
	)

	_, err := f.acq.Acquire(context.Background(), remote(t, "track://flaky", timeline.NoSubMood), f.scratch)
	require.NoError(t, err)
	assert.Equal(t, 3, f.provider.FetchCount("track://flaky"))
	assert.Equal(t, []time.Duration{500 * time.Millisecond, time.Second}, f.sleeper.Delays())
	f.assertNoScratch(t)
}

func TestAcquireRemoteHonorsRetryAfter(t *testing.T) {
	f := newFixture(t, nil)
	f.provider.Script("track://throttled",
		simtest.RateLimited(3*time.Second),
		simtest.RateLimited(7*time.Second),
		simtest.Payload(toneWAV(t, 200)),
	)

	_, err := f.acq.Acquire(context.Background(), remote(t, "track://throttled", timeline.NoSubMood), f.scratch)
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{3 * time.Second, 7 * time.Second}, f.sleeper.Delays())
}

func TestAcquireRemoteRetryAfterBeyondMaxBackoff(t *testing.T) {
	tests := []struct {
		name     string
		fallback timeline.SubMood
	}{
		{"no fallback", timeline.NoSubMood},
		{"with fallback", timeline.Peaceful},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nil)
			f.provider.Script("track://busy",
				simtest.RateLimited(time.Minute),
				simtest.Payload(toneWAV(t, 200)),
			)

			buf, err := f.acq.Acquire(context.Background(), remote(t, "track://busy", tt.fallback), f.scratch)
			assert.Equal(t, 1, f.provider.FetchCount("track://busy"))
			assert.Empty(t, f.sleeper.Delays(), "must not retry before the provider allows it")
			if tt.fallback == timeline.NoSubMood {
				assert.ErrorIs(t, err, ErrUnavailable)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, BedDurationMs, buf.DurationMillis())
		})
	}
}

func TestAcquireRemoteExhaustedIsUnavailable(t *testing.T) {
	f := newFixture(t, nil)
	f.provider.Script("track://down", simtest.TransportFailure())

	_, err := f.acq.Acquire(context.Background(), remote(t, "track://down", timeline.NoSubMood), f.scratch)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, 3, f.provider.FetchCount("track://down"))
	assert.Len(t, f.sleeper.Delays(), 2)
	f.assertNoScratch(t)
}

func TestAcquireRemoteFallsBack(t *testing.T) {
	tests := []struct {
		name    string
		script  []simtest.Response
		fetches int
	}{
		{"retries exhausted", []simtest.Response{simtest.TransportFailure()}, 3},
		{"no preview", []simtest.Response{simtest.NoPreview()}, 1},
		{"undecodable payload", []simtest.Response{simtest.Payload([]byte("<html>moved</html>"))}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nil)
			f.provider.Script("track://x", tt.script...)

			buf, err := f.acq.Acquire(context.Background(), remote(t, "track://x", timeline.Peaceful), f.scratch)
			require.NoError(t, err)
			assert.Equal(t, BedDurationMs, buf.DurationMillis())
			assert.Equal(t, 2, buf.Channels)
			assert.Equal(t, tt.fetches, f.provider.FetchCount("track://x"))
			f.assertNoScratch(t)
		})
	}
}

func TestAcquireRemoteOversizedPayload(t *testing.T) {
	f := newFixture(t, func(c *interfaces.AcquisitionConfig) { c.MaxTrackBytes = 64 })
	f.provider.AddTrack("track://big", toneWAV(t, 100))

	_, err := f.acq.Acquire(context.Background(), remote(t, "track://big", timeline.NoSubMood), f.scratch)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, 1, f.provider.FetchCount("track://big"))
	f.assertNoScratch(t)
}

func TestAcquireRemoteAttemptTimeout(t *testing.T) {
	f := newFixture(t, func(c *interfaces.AcquisitionConfig) {
		c.AttemptTimeout = 20
		c.RetryBudget = 1
	})
	f.provider.Script("track://slow", simtest.Hang(time.Hour))

	start := time.Now()
	_, err := f.acq.Acquire(context.Background(), remote(t, "track://slow", timeline.NoSubMood), f.scratch)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, 2, f.provider.FetchCount("track://slow"))
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestAcquireRemoteCancelledDuringBackoff(t *testing.T) {
	f := newFixture(t, nil)
	f.provider.Script("track://down", simtest.TransportFailure())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	f.sleeper.onCall = cancel

	_, err := f.acq.Acquire(ctx, remote(t, "track://down", timeline.Peaceful), f.scratch)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, 1, f.provider.FetchCount("track://down"), "no further attempts after cancellation")
}

func TestAcquireFallbackKind(t *testing.T) {
	f := newFixture(t, nil)
	desc, err := timeline.NewFallbackTrack(timeline.Melancholic)
	require.NoError(t, err)

	buf, err := f.acq.Acquire(context.Background(), desc, f.scratch)
	require.NoError(t, err)
	assert.Equal(t, BedDurationMs, buf.DurationMillis())
	assert.Greater(t, buf.Peak(), float32(0))
}

func TestAcquireNilScratchCleansUp(t *testing.T) {
	f := newFixture(t, nil)
	f.provider.AddTrack("track://1", toneWAV(t, 100))

	_, err := f.acq.Acquire(context.Background(), remote(t, "track://1", timeline.NoSubMood), nil)
	require.NoError(t, err)
	f.assertNoScratch(t)
}

func TestNewAcquirerValidation(t *testing.T) {
	good := &interfaces.AcquisitionConfig{AttemptTimeout: 1, MaxBackoff: 1, BaseBackoff: 1, MaxTrackBytes: 1}
	comp := &interfaces.CompositionConfig{Workers: 1, SampleRate: 48000, Channels: 2}
	provider := simtest.NewSimulatedProvider()

	_, err := NewAcquirer(nil, comp, provider, nil, nil)
	assert.Error(t, err)
	_, err = NewAcquirer(good, comp, nil, nil, nil)
	assert.Error(t, err)
	_, err = NewAcquirer(&interfaces.AcquisitionConfig{}, comp, provider, nil, nil)
	assert.ErrorIs(t, err, interfaces.ErrInvalidTimeout)
	_, err = NewAcquirer(good, &interfaces.CompositionConfig{Workers: 1, SampleRate: 48000, Channels: 5}, provider, nil, nil)
	assert.ErrorIs(t, err, interfaces.ErrInvalidOutputFormat)
}

func TestBackoffSchedule(t *testing.T) {
	f := newFixture(t, nil)
	tests := []struct {
		attempt int
		hint    time.Duration
		want    time.Duration
		ok      bool
	}{
		{0, 0, 500 * time.Millisecond, true},
		{1, 0, time.Second, true},
		{2, 0, 2 * time.Second, true},
		{10, 0, 8 * time.Second, true},
		{0, 4 * time.Second, 4 * time.Second, true},
		{3, time.Second, 4 * time.Second, true},
		{0, 8 * time.Second, 8 * time.Second, true},
		{1, time.Minute, time.Minute, false},
	}
	for _, tt := range tests {
		got, ok := f.acq.backoff(tt.attempt, tt.hint)
		assert.Equal(t, tt.ok, ok, "attempt=%d hint=%s", tt.attempt, tt.hint)
		assert.Equal(t, tt.want, got, "attempt=%d hint=%s", tt.attempt, tt.hint)
		assert.GreaterOrEqual(t, got, tt.hint, "never shorter than the hint")
	}
}
