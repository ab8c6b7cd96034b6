// Package render turns one segment assignment and its decoded source track
// into a RenderedSegment of exact duration.
//
// Rendering clamps the requested music range to the source, slices it, loops
// it up to the segment length, trims it to exactly that length and runs the
// segment's effect pipeline. Malformed music ranges are recovered from; only
// an invalid video range, an empty source or an unknown effect produce a
// RenderError.
package render
