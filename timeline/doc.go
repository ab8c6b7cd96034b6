// Package timeline holds the data model shared by the acquisition, render and
// composition steps: track descriptors, segment assignments, rendered
// segments and the closed sub-mood vocabulary used for fallback lookup.
//
// Times on the video timeline are float64 seconds. Helpers convert them to
// the integer milliseconds the audio package works in, rounding to the
// nearest millisecond.
package timeline
