package effects

import "errors"

var (
	// ErrUnknownEffect indicates an effect name or kind outside the supported vocabulary.
	ErrUnknownEffect = errors.New("unknown effect")

	// ErrStageFailed indicates a pipeline stage could not process its input.
	ErrStageFailed = errors.New("effect stage failed")
)
