// Package interfaces defines the contracts between the composition engine and
// its collaborators, together with the configuration structs shared by the
// factory and the components it builds.
//
// # Core Interfaces
//
// [ITrackProvider] is the remote track source. It streams raw audio bytes for
// a locator, or fails with a [*FetchError] that says whether the failure is
// worth retrying and, for rate limiting, how long the provider asked callers
// to wait:
//
//	rc, err := provider.Fetch(ctx, "https://provider.example/preview/123")
//	var fe *interfaces.FetchError
//	if errors.As(err, &fe) && fe.IsTransient() {
//	    // back off for fe.RetryAfter (if set) and try again
//	}
//
// Two implementations exist: the HTTP provider in package real and the
// scripted simulation in package testing. The factory chooses between them
// from [AcquisitionConfig.UseSimulation].
//
// # Configuration
//
// [AcquisitionConfig] and [CompositionConfig] hold timing, retry, resource and
// output-format settings. Durations are integer milliseconds. Both carry toml
// tags so a configuration file can populate them directly:
//
//	cfg := interfaces.AcquisitionConfig{
//	    AttemptTimeout: 15000,
//	    RetryBudget:    2,
//	    BaseBackoff:    500,
//	    MaxBackoff:     8000,
//	    MaxTrackBytes:  64 << 20,
//	}
//	if err := cfg.Validate(); err != nil {
//	    log.Fatalf("invalid config: %v", err)
//	}
//
// # Thread Safety
//
// Implementations of ITrackProvider must be safe for concurrent use; the
// composition job fetches tracks for several segments at once.
package interfaces
