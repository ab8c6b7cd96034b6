// Package audio provides the in-memory PCM buffer and codec layer used by the
// segment composition engine.
//
// A Buffer holds interleaved float32 samples in the nominal range [-1, 1]
// together with its channel count and sample rate. All timing arguments are
// integer milliseconds; conversions to frame counts round to the nearest frame,
// so a buffer trimmed to D milliseconds reports a duration of exactly D for any
// sample rate of at least 1kHz.
//
// # Architecture Overview
//
//	Decode:  bytes/file → sniff (RIFF | OggS | other) → WAV | Ogg/Opus | ffmpeg → Buffer
//	Shape:   Buffer → Slice → LoopTo → TrimTo → (effects) → Overlay onto timeline
//	Export:  Buffer → EncodeWAV → 16-bit PCM WAV for the video mux step
//
// # Core Components
//
// ## Buffer
//
// Value-style transforms. Every operation returns a new Buffer and leaves the
// receiver untouched, so a buffer can be handed between goroutines without
// locking as long as ownership is passed rather than shared:
//
//	src, err := audio.NewDecoder(nil).DecodeFile(ctx, "track.wav")
//	part := src.Slice(2000, 9000).LoopTo(12000).TrimTo(12000)
//	mixed, err := bed.Overlay(part, 5000, -6)
//
// ## Resampler
//
// Linear-interpolation sample rate conversion, used both to bring decoded
// tracks to the job's output format and by the pitch-shift effect:
//
//	r, err := audio.NewResampler(audio.ResamplerConfig{
//	    InputRate:  44100,
//	    OutputRate: 48000,
//	    Channels:   2,
//	})
//	out, err := r.Resample(samples)
//
// ## Codecs
//
// Decode sniffs the payload. WAV goes through github.com/go-audio/wav, Ogg/Opus
// through the pion Ogg page reader and github.com/pion/opus. Anything else needs
// an FFmpegDecoder; without one, ErrUnsupportedFormat is returned.
//
// # Error Handling
//
// Sentinel errors in errors.go classify failures for errors.Is. Decode failures
// always wrap ErrDecodeFailed or ErrUnsupportedFormat so callers can map them to
// an unreadable-source condition.
package audio
