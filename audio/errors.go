package audio

import "errors"

// Buffer errors.
var (
	// ErrEmptyBuffer indicates an operation that needs at least one frame got none.
	ErrEmptyBuffer = errors.New("empty audio buffer")

	// ErrFormatMismatch indicates two buffers disagree on channel count or sample rate.
	ErrFormatMismatch = errors.New("audio format mismatch")

	// ErrInvalidFormat indicates a channel count or sample rate outside the supported range.
	ErrInvalidFormat = errors.New("invalid audio format")
)

// Codec errors.
var (
	// ErrUnsupportedFormat indicates the payload is not a container this package can decode.
	ErrUnsupportedFormat = errors.New("unsupported audio container")

	// ErrDecodeFailed indicates the payload was recognized but could not be decoded.
	ErrDecodeFailed = errors.New("audio decode failed")
)
