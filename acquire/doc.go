// Package acquire turns track descriptors into decoded audio buffers.
//
// Three strategies are supported, selected by the descriptor's SourceKind:
//
//   - LocalFile: the file is size-checked and decoded in place. Any failure is
//     reported as ErrUnreadable.
//   - RemoteFetchable: the provider is called with a per-attempt timeout. The
//     payload is spooled to a scratch file, decoded, and the file is removed
//     before Acquire returns. Transient failures (transport errors, rate
//     limiting) are retried up to the configured budget with exponential
//     backoff. A Retry-After hint is always waited out in full; a hint longer
//     than MaxBackoff ends the retries instead. When the
//     provider cannot deliver usable audio and the descriptor names a fallback
//     sub-mood, that entry is used instead; otherwise ErrUnavailable.
//   - CachedFallback: the FallbackTable entry for the sub-mood is verified
//     against its BLAKE2b-256 digest and decoded. Failure is ErrUnavailable.
//
// Every successful buffer is converted to the configured output format so that
// rendered segments mix without further conversion.
//
// Cancelling the context aborts in-flight fetches and backoff sleeps; the
// returned error wraps ctx.Err().
package acquire
