package acquire

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/opd-ai/scoremix/audio"
	"github.com/opd-ai/scoremix/interfaces"
	"github.com/opd-ai/scoremix/limits"
	"github.com/opd-ai/scoremix/timeline"
	"github.com/sirupsen/logrus"
)

// Acquirer resolves track descriptors to buffers in the engine's output
// format. One Acquirer is built per process and shared by all workers.
type Acquirer struct {
	config     interfaces.AcquisitionConfig
	channels   int
	sampleRate uint32
	provider   interfaces.ITrackProvider
	decoder    *audio.Decoder
	fallbacks  *FallbackTable

	mu      sync.RWMutex
	sleeper Sleeper
}

// NewAcquirer validates both configs and builds an acquirer. A nil fallbacks
// table gets the built-in beds.
func NewAcquirer(acq *interfaces.AcquisitionConfig, comp *interfaces.CompositionConfig,
	provider interfaces.ITrackProvider, decoder *audio.Decoder, fallbacks *FallbackTable,
) (*Acquirer, error) {
	if acq == nil || comp == nil {
		return nil, fmt.Errorf("acquisition and composition config are required")
	}
	if err := acq.Validate(); err != nil {
		return nil, err
	}
	if err := comp.Validate(); err != nil {
		return nil, err
	}
	if provider == nil {
		return nil, fmt.Errorf("track provider is required")
	}
	if decoder == nil {
		decoder = audio.NewDecoder(nil)
	}
	if fallbacks == nil {
		fallbacks = NewFallbackTable()
	}

	logrus.WithFields(logrus.Fields{
		"function":        "NewAcquirer",
		"provider":        provider.Name(),
		"retry_budget":    acq.RetryBudget,
		"attempt_timeout": acq.AttemptTimeout,
		"sample_rate":     comp.SampleRate,
		"channels":        comp.Channels,
	}).Info("Created track acquirer")

	return &Acquirer{
		config:     *acq,
		channels:   comp.Channels,
		sampleRate: comp.SampleRate,
		provider:   provider,
		decoder:    decoder,
		fallbacks:  fallbacks,
		sleeper:    DefaultSleeper{},
	}, nil
}

// SetSleeper replaces the backoff sleeper (primarily for testing).
func (a *Acquirer) SetSleeper(s Sleeper) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sleeper = s
}

func (a *Acquirer) getSleeper() Sleeper {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.sleeper
}

// Fallbacks returns the acquirer's fallback table.
func (a *Acquirer) Fallbacks() *FallbackTable {
	return a.fallbacks
}

// Acquire resolves desc to a buffer in the configured output format. Scratch
// files created for a remote download are registered with scratch and removed
// before Acquire returns; a nil scratch uses a call-local registry.
func (a *Acquirer) Acquire(ctx context.Context, desc timeline.TrackDescriptor, scratch *ScratchRegistry) (*audio.Buffer, error) {
	if scratch == nil {
		scratch = NewScratchRegistry(a.config.ScratchDir, "call")
		defer scratch.ReleaseAll()
	}

	logrus.WithFields(logrus.Fields{
		"function": "Acquirer.Acquire",
		"track":    desc.String(),
		"kind":     desc.Kind().String(),
	}).Debug("Acquiring track")

	var (
		buf *audio.Buffer
		err error
	)
	switch desc.Kind() {
	case timeline.LocalFile:
		buf, err = a.acquireLocal(ctx, desc)
	case timeline.RemoteFetchable:
		buf, err = a.acquireRemote(ctx, desc, scratch)
	case timeline.CachedFallback:
		buf, err = a.acquireFallback(ctx, desc.String(), desc.Fallback())
	default:
		err = unreadable(desc.String(), fmt.Errorf("%w: %s", timeline.ErrUnknownSourceKind, desc.Kind()))
	}
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "Acquirer.Acquire",
			"track":    desc.String(),
			"error":    err.Error(),
		}).Warn("Track acquisition failed")
		return nil, err
	}

	out, err := buf.ConvertTo(a.channels, a.sampleRate)
	if err != nil {
		return nil, unreadable(desc.String(), err)
	}
	return out, nil
}

func (a *Acquirer) acquireLocal(ctx context.Context, desc timeline.TrackDescriptor) (*audio.Buffer, error) {
	path := desc.Location()
	info, err := os.Stat(path)
	if err != nil {
		return nil, unreadable(desc.String(), err)
	}
	if info.IsDir() {
		return nil, unreadable(desc.String(), fmt.Errorf("%s is a directory", path))
	}
	if err := limits.ValidateLocalTrack(info.Size()); err != nil {
		return nil, unreadable(desc.String(), err)
	}

	buf, err := a.decoder.DecodeFile(ctx, path)
	if err != nil {
		return nil, unreadable(desc.String(), err)
	}
	return buf, nil
}

func (a *Acquirer) acquireFallback(ctx context.Context, track string, mood timeline.SubMood) (*audio.Buffer, error) {
	buf, err := a.fallbacks.Resolve(ctx, mood, a.decoder)
	if err != nil {
		return nil, unavailable(track, err)
	}
	return buf, nil
}

// acquireRemote fetches with retries and falls back to the descriptor's
// sub-mood bed when the provider cannot deliver usable audio.
func (a *Acquirer) acquireRemote(ctx context.Context, desc timeline.TrackDescriptor, scratch *ScratchRegistry) (*audio.Buffer, error) {
	buf, err := a.attemptFetchWithRetries(ctx, desc, scratch)
	if err == nil {
		return buf, nil
	}
	if ctx.Err() != nil || desc.Fallback() == timeline.NoSubMood {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"function": "Acquirer.acquireRemote",
		"track":    desc.String(),
		"fallback": desc.Fallback().String(),
		"cause":    err.Error(),
	}).Warn("Remote track unavailable, using fallback")

	return a.acquireFallback(ctx, desc.String(), desc.Fallback())
}

// attemptFetchWithRetries runs up to RetryBudget+1 fetch attempts. Only
// transient provider failures are retried.
func (a *Acquirer) attemptFetchWithRetries(ctx context.Context, desc timeline.TrackDescriptor, scratch *ScratchRegistry) (*audio.Buffer, error) {
	var lastErr error
	for attempt := 0; attempt <= a.config.RetryBudget; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, unavailable(desc.String(), err)
		}

		path, err := a.attemptFetch(ctx, desc.Location(), scratch)
		if err == nil {
			return a.decodeSpooled(ctx, desc, path, scratch)
		}
		lastErr = err

		if ctx.Err() != nil {
			return nil, unavailable(desc.String(), ctx.Err())
		}
		if !interfaces.IsTransientFetch(err) || attempt == a.config.RetryBudget {
			break
		}

		delay, ok := a.backoff(attempt, interfaces.RetryAfterHint(err))
		if !ok {
			logrus.WithFields(logrus.Fields{
				"function":    "Acquirer.attemptFetchWithRetries",
				"track":       desc.String(),
				"retry_after": delay.String(),
				"max_backoff": a.config.MaxBackoff,
			}).Warn("Provider retry-after exceeds max backoff, giving up")
			break
		}
		a.logRetry(desc, attempt, delay, err)
		if err := a.getSleeper().Sleep(ctx, delay); err != nil {
			return nil, unavailable(desc.String(), err)
		}
	}
	return nil, a.handleFailure(desc, lastErr)
}

// attemptFetch performs one bounded fetch and spools the payload to a scratch
// file, returning its path.
func (a *Acquirer) attemptFetch(ctx context.Context, locator string, scratch *ScratchRegistry) (string, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, time.Duration(a.config.AttemptTimeout)*time.Millisecond)
	defer cancel()

	rc, err := a.provider.Fetch(attemptCtx, locator)
	if err != nil {
		if ctx.Err() == nil && errors.Is(err, context.DeadlineExceeded) {
			return "", &interfaces.FetchError{Kind: interfaces.FetchTransport, Err: fmt.Errorf("attempt timed out after %dms", a.config.AttemptTimeout)}
		}
		return "", err
	}
	defer rc.Close()

	f, err := scratch.Create()
	if err != nil {
		return "", err
	}
	path := f.Name()

	limit := limits.ClampTrackLimit(a.config.MaxTrackBytes)
	n, copyErr := io.Copy(f, io.LimitReader(rc, limit+1))
	closeErr := f.Close()

	switch {
	case copyErr != nil:
		scratch.Remove(path)
		if ctx.Err() == nil && attemptCtx.Err() != nil {
			return "", &interfaces.FetchError{Kind: interfaces.FetchTransport, Err: fmt.Errorf("download timed out: %v", copyErr)}
		}
		return "", &interfaces.FetchError{Kind: interfaces.FetchTransport, Err: copyErr}
	case closeErr != nil:
		scratch.Remove(path)
		return "", closeErr
	}
	if err := limits.ValidateTrackSize(n, limit); err != nil {
		scratch.Remove(path)
		return "", &interfaces.FetchError{Kind: interfaces.FetchNoPreview, Err: err}
	}

	logrus.WithFields(logrus.Fields{
		"function": "Acquirer.attemptFetch",
		"locator":  locator,
		"bytes":    n,
	}).Debug("Spooled remote payload")

	return path, nil
}

// decodeSpooled decodes and removes a spooled download.
func (a *Acquirer) decodeSpooled(ctx context.Context, desc timeline.TrackDescriptor, path string, scratch *ScratchRegistry) (*audio.Buffer, error) {
	defer scratch.Remove(path)

	buf, err := a.decoder.DecodeFile(ctx, path)
	if err != nil {
		return nil, unreadable(desc.String(), err)
	}
	return buf, nil
}

// backoff returns BaseBackoff * 2^attempt capped at MaxBackoff, raised to the
// provider's retry-after hint. ok is false when the hint exceeds MaxBackoff:
// the wait is never shortened below the hint, so the caller gives up instead.
func (a *Acquirer) backoff(attempt int, hint time.Duration) (delay time.Duration, ok bool) {
	base := time.Duration(a.config.BaseBackoff) * time.Millisecond
	ceiling := time.Duration(a.config.MaxBackoff) * time.Millisecond
	if hint > ceiling {
		return hint, false
	}

	delay = base
	for i := 0; i < attempt && delay < ceiling; i++ {
		delay *= 2
	}
	if delay > ceiling {
		delay = ceiling
	}
	if hint > delay {
		delay = hint
	}
	return delay, true
}

// logRetry logs a retry attempt.
func (a *Acquirer) logRetry(desc timeline.TrackDescriptor, attempt int, delay time.Duration, err error) {
	logrus.WithFields(logrus.Fields{
		"function":     "Acquirer.attemptFetchWithRetries",
		"track":        desc.String(),
		"attempt":      attempt + 1,
		"retry_budget": a.config.RetryBudget,
		"delay":        delay.String(),
		"error":        err.Error(),
	}).Warn("Fetch failed, retrying")
}

// handleFailure maps the last fetch error to an acquisition error.
func (a *Acquirer) handleFailure(desc timeline.TrackDescriptor, err error) error {
	logrus.WithFields(logrus.Fields{
		"function":     "Acquirer.handleFailure",
		"track":        desc.String(),
		"retry_budget": a.config.RetryBudget,
		"error":        err.Error(),
	}).Error("Remote fetch failed")
	return unavailable(desc.String(), err)
}
