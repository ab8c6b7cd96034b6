package job

import "errors"

var (
	// ErrNoSegments is returned for a request without segments.
	ErrNoSegments = errors.New("no segments in request")
	// ErrNoSegmentsRendered means every segment failed; the result carries no mix.
	ErrNoSegmentsRendered = errors.New("no segments rendered")
)
