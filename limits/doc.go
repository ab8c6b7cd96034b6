// Package limits provides centralized size and duration ceilings for track
// payloads and segment ranges. Every component that accepts untrusted audio or
// timing input validates against these limits before allocating buffers.
//
// # Limit Hierarchy
//
//   - MaxRemoteTrackBytes (64MiB): default cap on a downloaded provider payload.
//     Downloads are streamed through a limited reader, so an oversized payload
//     is rejected without being held in memory.
//
//   - MaxLocalTrackBytes (512MiB): cap on a local file, checked with os.Stat
//     before the file is opened for decoding.
//
//   - MaxProcessingBuffer (1GiB): the absolute ceiling any configured limit is
//     clamped to.
//
//   - MaxSegmentSeconds and MaxVideoSeconds: bounds on segment and timeline
//     length, which determine the size of rendered and mixed buffers.
//
// # Validation Functions
//
//	if err := limits.ValidateTrackSize(n, cfg.MaxTrackBytes); err != nil {
//	    if errors.Is(err, limits.ErrTrackTooLarge) {
//	        // reject without decoding
//	    }
//	}
package limits
