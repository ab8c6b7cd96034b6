// Package compose places rendered segments on the video timeline and mixes
// them into the final soundtrack.
//
// The mix is a single-threaded reduction run after every segment has either
// rendered or failed. Segments are additive: overlapping placements both play.
// If the video's original audio is supplied it is ducked to 30% under music
// scaled to 80%; the levels are fixed.
package compose
