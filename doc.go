// Package scoremix composes a soundtrack for a video from per-segment music
// assignments.
//
// Each segment of the video timeline is assigned a track (a local file, a
// provider track or a built-in mood bed), an optional sub-range of that track
// and a set of effects. The engine acquires every track, cuts and loops it to
// the segment's exact length, applies the effects in a fixed order and mixes
// all segments, optionally over the video's own audio, into one buffer ready
// for the video mux step.
//
// # Getting Started
//
//	engine, err := scoremix.New(scoremix.NewOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer engine.Close()
//
//	track, _ := timeline.NewLocalTrack("intro.wav", "Intro", "Someone")
//	fx, _ := effects.ParseSet([]string{"Fade In", "Echo"})
//
//	result, err := engine.Compose(ctx, job.Request{
//	    Segments: []timeline.SegmentAssignment{
//	        {VideoStart: 0, VideoEnd: 5, Effects: fx, Track: track},
//	    },
//	    VideoDuration: 5,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, line := range result.Report() {
//	    fmt.Println(line)
//	}
//	err = scoremix.WriteSoundtrack("soundtrack.wav", result)
//
// # Failure Policy
//
// A segment whose track cannot be acquired or decoded is skipped and listed
// in the result; the job fails only when no segment renders. Effect stages
// that fail internally are skipped. Scratch files created while downloading
// are removed before the job returns.
//
// # Package Layout
//
//   - audio: PCM buffer, codecs, resampling
//   - effects: effect vocabulary and pipeline
//   - timeline: descriptors, segments, sub-moods
//   - acquire: track acquisition, retries, fallback table
//   - render, compose, job: per-segment rendering, mixing, orchestration
//   - factory, interfaces, real, testing: configuration and providers
//   - limits: size and duration ceilings
package scoremix
