// Package job orchestrates a composition job: per-segment acquisition and
// rendering on a bounded worker pool, followed by a single mixing step.
//
// Segments are independent. A failing segment is recorded with its index and
// reason and the job continues; the job as a whole fails with
// ErrNoSegmentsRendered only when nothing renders. Workers check the context
// before starting a segment, and in-flight fetches abort with it. Overlapping
// segments are allowed and reported as warnings.
//
//	runner, err := job.NewRunner(acquirer, &cfg.Composition, cfg.Acquisition.ScratchDir)
//	if err != nil {
//	    return err
//	}
//	result, err := runner.Run(ctx, job.Request{Segments: segments, VideoDuration: 42.5})
//	for _, line := range result.Report() {
//	    fmt.Println(line)
//	}
package job
