package limits

import (
	"errors"
	"fmt"
)

const (
	// MaxRemoteTrackBytes is the default cap on a downloaded track payload (64MiB).
	// A ten-minute 48kHz stereo WAV is about 110MiB, but provider previews are
	// compressed and far smaller.
	MaxRemoteTrackBytes = 64 << 20

	// MaxLocalTrackBytes is the cap on a local file read into memory (512MiB).
	MaxLocalTrackBytes = 512 << 20

	// MaxProcessingBuffer is the absolute maximum for any configured limit (1GiB).
	// This prevents memory exhaustion from a misconfigured ceiling.
	MaxProcessingBuffer = 1 << 30

	// MaxSegmentSeconds is the longest single segment the engine renders (1 hour).
	MaxSegmentSeconds = 3600

	// MaxVideoSeconds is the longest timeline the compositor allocates (4 hours).
	MaxVideoSeconds = 4 * 3600
)

var (
	// ErrTrackEmpty indicates an empty payload or file.
	ErrTrackEmpty = errors.New("empty track")

	// ErrTrackTooLarge indicates a payload exceeds its size limit.
	ErrTrackTooLarge = errors.New("track too large")

	// ErrSegmentTooLong indicates a segment or timeline exceeds its duration limit.
	ErrSegmentTooLong = errors.New("segment too long")
)

// ValidateTrackSize validates a payload size against maxSize.
// Returns an error with context including the actual and maximum sizes.
func ValidateTrackSize(size, maxSize int64) error {
	if size <= 0 {
		return ErrTrackEmpty
	}
	if size > maxSize {
		return fmt.Errorf("%w: size %d exceeds limit %d", ErrTrackTooLarge, size, maxSize)
	}
	return nil
}

// ValidateRemoteTrack validates a downloaded payload against MaxRemoteTrackBytes.
func ValidateRemoteTrack(data []byte) error {
	return ValidateTrackSize(int64(len(data)), MaxRemoteTrackBytes)
}

// ValidateLocalTrack validates a local file size against MaxLocalTrackBytes.
func ValidateLocalTrack(size int64) error {
	return ValidateTrackSize(size, MaxLocalTrackBytes)
}

// ClampTrackLimit bounds a configured limit to (0, MaxProcessingBuffer].
func ClampTrackLimit(limit int64) int64 {
	if limit <= 0 || limit > MaxProcessingBuffer {
		return MaxProcessingBuffer
	}
	return limit
}

// ValidateSegmentDuration checks a segment length in seconds.
func ValidateSegmentDuration(seconds float64) error {
	if seconds > MaxSegmentSeconds {
		return fmt.Errorf("%w: %.1fs exceeds limit %ds", ErrSegmentTooLong, seconds, MaxSegmentSeconds)
	}
	return nil
}

// ValidateVideoDuration checks a timeline length in seconds.
func ValidateVideoDuration(seconds float64) error {
	if seconds > MaxVideoSeconds {
		return fmt.Errorf("%w: timeline %.1fs exceeds limit %ds", ErrSegmentTooLong, seconds, MaxVideoSeconds)
	}
	return nil
}
