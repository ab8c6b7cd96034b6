package interfaces

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

// ITrackProvider fetches remote track bytes.
type ITrackProvider interface {
	// Fetch opens the audio payload at locator. The caller closes the reader.
	Fetch(ctx context.Context, locator string) (io.ReadCloser, error)

	// Name identifies the provider in logs.
	Name() string

	// IsSimulation returns true for scripted test providers.
	IsSimulation() bool
}

// FetchErrorKind classifies provider failures.
type FetchErrorKind int

const (
	// FetchTransport is a network or server-side failure; retrying may help.
	FetchTransport FetchErrorKind = iota
	// FetchRateLimited means the provider throttled the request.
	FetchRateLimited
	// FetchNoPreview means the track exists but has no usable audio.
	FetchNoPreview
	// FetchNotFound means the locator does not resolve.
	FetchNotFound
)

// String returns the kind name.
func (k FetchErrorKind) String() string {
	switch k {
	case FetchTransport:
		return "transport"
	case FetchRateLimited:
		return "rate_limited"
	case FetchNoPreview:
		return "no_preview"
	case FetchNotFound:
		return "not_found"
	default:
		return fmt.Sprintf("FetchErrorKind(%d)", int(k))
	}
}

// FetchError is the typed failure returned by ITrackProvider.Fetch.
type FetchError struct {
	Kind FetchErrorKind
	// RetryAfter is the provider's requested wait, zero if none was given.
	RetryAfter time.Duration
	Err        error
}

func (e *FetchError) Error() string {
	msg := "fetch failed: " + e.Kind.String()
	if e.RetryAfter > 0 {
		msg += fmt.Sprintf(" (retry after %s)", e.RetryAfter)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FetchError) Unwrap() error { return e.Err }

// IsTransient reports whether the same request may succeed later.
func (e *FetchError) IsTransient() bool {
	return e.Kind == FetchTransport || e.Kind == FetchRateLimited
}

// IsTransientFetch reports whether err is a transient *FetchError. Errors
// that are not a FetchError are treated as transport failures.
func IsTransientFetch(err error) bool {
	if err == nil {
		return false
	}
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.IsTransient()
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

// RetryAfterHint extracts a provider-supplied wait from err, if any.
func RetryAfterHint(err error) time.Duration {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.RetryAfter
	}
	return 0
}
