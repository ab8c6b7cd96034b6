// Package testing provides a scripted track provider for deterministic tests
// and dry runs of the composition engine.
//
// # Overview
//
// SimulatedProvider implements interfaces.ITrackProvider entirely in memory.
// Each locator carries a script of responses consumed in order, so a test can
// describe "rate limited twice, then succeed" or "always unavailable" without
// a network. Every call is recorded in a fetch log for verification.
//
// # Simulation vs Real Implementation
//
//   - Simulation (this package): payloads come from the script. Used for unit
//     tests and the CLI's --simulate mode.
//
//   - Real (real package): payloads are fetched over HTTP.
//
// Both implement interfaces.ITrackProvider, and the factory package selects
// one from AcquisitionConfig.UseSimulation.
//
// # Usage
//
//	sim := testing.NewSimulatedProvider()
//	sim.Script("remote://track/1",
//	    testing.RateLimited(2*time.Second),
//	    testing.Payload(wavBytes),
//	)
//	rc, err := sim.Fetch(ctx, "remote://track/1") // rate limited
//	rc, err = sim.Fetch(ctx, "remote://track/1")  // wavBytes
//
// Unknown locators fail with a FetchNotFound error.
//
// # Naming
//
// The package is named testing to mirror its role; import it under an alias
// in test files that also need the standard library package.
package testing
