package acquire

import (
	"errors"
	"fmt"
)

// Sentinel errors matched by errors.Is against any *AcquisitionError of the
// corresponding kind.
var (
	ErrUnreadable  = errors.New("track unreadable")
	ErrUnavailable = errors.New("track unavailable")
)

// ErrNoFallback is returned by FallbackTable.Resolve for an unknown sub-mood.
var ErrNoFallback = errors.New("no fallback entry")

// ErrDigestMismatch means a fallback payload failed verification.
var ErrDigestMismatch = errors.New("fallback digest mismatch")

// ErrorKind classifies acquisition failures.
type ErrorKind int

const (
	// Unreadable means the bytes were obtained but could not be decoded, or a
	// local file could not be opened.
	Unreadable ErrorKind = iota
	// Unavailable means no usable bytes could be obtained.
	Unavailable
)

func (k ErrorKind) String() string {
	if k == Unreadable {
		return "unreadable"
	}
	return "unavailable"
}

func (k ErrorKind) sentinel() error {
	if k == Unreadable {
		return ErrUnreadable
	}
	return ErrUnavailable
}

// AcquisitionError reports why a track could not be turned into a buffer.
type AcquisitionError struct {
	Kind  ErrorKind
	Track string
	Err   error
}

func (e *AcquisitionError) Error() string {
	return fmt.Sprintf("acquire %s: %s: %v", e.Track, e.Kind, e.Err)
}

func (e *AcquisitionError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrUnavailable) match by kind.
func (e *AcquisitionError) Is(target error) bool {
	return target == e.Kind.sentinel()
}

func unreadable(track string, err error) error {
	return &AcquisitionError{Kind: Unreadable, Track: track, Err: err}
}

func unavailable(track string, err error) error {
	return &AcquisitionError{Kind: Unavailable, Track: track, Err: err}
}
