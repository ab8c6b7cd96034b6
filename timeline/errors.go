package timeline

import "errors"

var (
	// ErrInvalidRange indicates a segment whose end is not after its start.
	ErrInvalidRange = errors.New("invalid segment range")

	// ErrInvalidDescriptor indicates a track descriptor missing its location.
	ErrInvalidDescriptor = errors.New("invalid track descriptor")

	// ErrUnknownSubMood indicates a sub-mood outside the fallback vocabulary.
	ErrUnknownSubMood = errors.New("unknown sub-mood")

	// ErrUnknownSourceKind indicates a source kind outside the supported set.
	ErrUnknownSourceKind = errors.New("unknown source kind")
)
