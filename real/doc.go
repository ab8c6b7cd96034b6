// Package real provides the production HTTP track provider.
//
// HTTPProvider implements interfaces.ITrackProvider over net/http. It maps
// provider responses onto the typed failures the acquirer's retry policy
// understands:
//
//	┌──────────────────────┬───────────────────────────────┐
//	│ Response             │ FetchError kind               │
//	├──────────────────────┼───────────────────────────────┤
//	│ 2xx with a body      │ (success)                     │
//	│ 2xx, empty body      │ FetchNoPreview                │
//	│ 204 No Content       │ FetchNoPreview                │
//	│ 404, 410             │ FetchNotFound                 │
//	│ 429, 503 + header    │ FetchRateLimited (RetryAfter) │
//	│ other 5xx, I/O error │ FetchTransport                │
//	│ other 4xx            │ FetchNotFound                 │
//	└──────────────────────┴───────────────────────────────┘
//
// The Retry-After header is honored in both its delay-seconds and HTTP-date
// forms. The provider performs a single attempt per call; retries, backoff and
// per-attempt deadlines belong to the caller, which passes them in through the
// context.
//
//	provider := real.NewHTTPProvider(cfg)
//	rc, err := provider.Fetch(ctx, "https://cdn.example/preview/123.ogg")
//	if err != nil {
//	    return err
//	}
//	defer rc.Close()
package real
