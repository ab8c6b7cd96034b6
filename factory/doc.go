// Package factory assembles engine configuration and creates track providers.
//
// # Configuration
//
// Configuration is built in three layers, each overriding the last:
//
//  1. Built-in defaults (retry budget 2, 15s attempt timeout, 500ms..8s
//     backoff, 4 workers, 48kHz stereo output, 64MiB remote payload cap).
//  2. An optional TOML file:
//
//     [acquisition]
//     retry_budget = 2
//     attempt_timeout_ms = 15000
//     ffmpeg_path = "/usr/bin/ffmpeg"
//
//     [composition]
//     workers = 4
//     sample_rate = 48000
//     channels = 2
//
//     [[fallback]]
//     mood = "peaceful"
//     path = "/srv/beds/peaceful.wav"
//     blake2b = "9f86d081..."
//
//  3. Environment variables:
//     - SCOREMIX_USE_SIMULATION: "true" or "false"
//     - SCOREMIX_ATTEMPT_TIMEOUT: milliseconds per fetch attempt
//     - SCOREMIX_RETRY_BUDGET: retries after the first attempt
//     - SCOREMIX_BASE_BACKOFF, SCOREMIX_MAX_BACKOFF: milliseconds
//     - SCOREMIX_WORKERS: concurrent segment workers
//     - SCOREMIX_SAMPLE_RATE: output sample rate in Hz
//     - SCOREMIX_FFMPEG_PATH, SCOREMIX_SCRATCH_DIR: paths
//
// Out-of-range or unparseable environment values are logged and ignored.
//
// # Providers
//
//	cfg, err := factory.LoadConfig("scoremix.toml")
//	if err != nil {
//	    return err
//	}
//	provider, err := factory.NewProviderFactory(cfg).CreateProvider()
package factory
