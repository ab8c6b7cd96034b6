package render

import "fmt"

// RenderError reports a segment that could not be rendered. It wraps either
// an acquisition error or a decode/construction failure.
type RenderError struct {
	Index int
	Track string
	Err   error
}

// NewRenderError wraps err for segment index.
func NewRenderError(index int, track string, err error) *RenderError {
	return &RenderError{Index: index, Track: track, Err: err}
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("segment %d (%s): %v", e.Index, e.Track, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }
