package factory

import (
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
)

// Validation constants for environment override bounds checking.
const (
	// MinAttemptTimeout is the minimum per-attempt timeout in milliseconds.
	MinAttemptTimeout = 100
	// MaxAttemptTimeout is the maximum per-attempt timeout in milliseconds (10 minutes).
	MaxAttemptTimeout = 600000
	// MinRetryBudget is the minimum number of retries.
	MinRetryBudget = 0
	// MaxRetryBudget is the maximum number of retries.
	MaxRetryBudget = 10
	// MinBackoff is the minimum backoff in milliseconds.
	MinBackoff = 0
	// MaxBackoffLimit is the largest accepted backoff setting in milliseconds.
	MaxBackoffLimit = 120000
	// MinWorkers is the minimum worker pool size.
	MinWorkers = 1
	// MaxWorkers is the maximum worker pool size.
	MaxWorkers = 64
	// MinOutputSampleRate is the lowest accepted output sample rate.
	MinOutputSampleRate = 8000
	// MaxOutputSampleRate is the highest accepted output sample rate.
	MaxOutputSampleRate = 192000
)

// Environment variable names.
const (
	EnvUseSimulation  = "SCOREMIX_USE_SIMULATION"
	EnvAttemptTimeout = "SCOREMIX_ATTEMPT_TIMEOUT"
	EnvRetryBudget    = "SCOREMIX_RETRY_BUDGET"
	EnvBaseBackoff    = "SCOREMIX_BASE_BACKOFF"
	EnvMaxBackoff     = "SCOREMIX_MAX_BACKOFF"
	EnvWorkers        = "SCOREMIX_WORKERS"
	EnvSampleRate     = "SCOREMIX_SAMPLE_RATE"
	EnvFFmpegPath     = "SCOREMIX_FFMPEG_PATH"
	EnvScratchDir     = "SCOREMIX_SCRATCH_DIR"
)

// applyEnvironmentOverrides updates configuration from SCOREMIX_* variables.
// Invalid values are logged and ignored.
func applyEnvironmentOverrides(cfg *Config) {
	acq := &cfg.Acquisition
	comp := &cfg.Composition

	parseSimulationSetting(cfg)
	parseIntSetting(EnvAttemptTimeout, &acq.AttemptTimeout, MinAttemptTimeout, MaxAttemptTimeout)
	parseIntSetting(EnvRetryBudget, &acq.RetryBudget, MinRetryBudget, MaxRetryBudget)
	parseIntSetting(EnvBaseBackoff, &acq.BaseBackoff, MinBackoff, MaxBackoffLimit)
	parseIntSetting(EnvMaxBackoff, &acq.MaxBackoff, MinBackoff, MaxBackoffLimit)
	parseIntSetting(EnvWorkers, &comp.Workers, MinWorkers, MaxWorkers)
	parseSampleRateSetting(cfg)

	if v := os.Getenv(EnvFFmpegPath); v != "" {
		acq.FFmpegPath = v
	}
	if v := os.Getenv(EnvScratchDir); v != "" {
		acq.ScratchDir = v
	}
}

// parseSimulationSetting updates UseSimulation from SCOREMIX_USE_SIMULATION.
func parseSimulationSetting(cfg *Config) {
	useSimStr := os.Getenv(EnvUseSimulation)
	if useSimStr == "" {
		return
	}
	useSim, err := strconv.ParseBool(useSimStr)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function":    "parseSimulationSetting",
			"env_var":     EnvUseSimulation,
			"value":       useSimStr,
			"error":       err.Error(),
			"using_value": cfg.Acquisition.UseSimulation,
		}).Warn("Failed to parse environment variable, using default")
		return
	}
	cfg.Acquisition.UseSimulation = useSim
}

// parseIntSetting overwrites *target with the named variable when it parses
// and lies within [min, max].
func parseIntSetting(name string, target *int, min, max int) {
	raw := os.Getenv(name)
	if raw == "" {
		return
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function":    "parseIntSetting",
			"env_var":     name,
			"value":       raw,
			"error":       err.Error(),
			"using_value": *target,
		}).Warn("Failed to parse environment variable, using default")
		return
	}
	if value < min || value > max {
		logrus.WithFields(logrus.Fields{
			"function":    "parseIntSetting",
			"env_var":     name,
			"value":       value,
			"min":         min,
			"max":         max,
			"using_value": *target,
		}).Warn("Environment variable out of bounds, using default")
		return
	}
	*target = value
}

// parseSampleRateSetting updates the output sample rate from SCOREMIX_SAMPLE_RATE.
func parseSampleRateSetting(cfg *Config) {
	rate := int(cfg.Composition.SampleRate)
	parseIntSetting(EnvSampleRate, &rate, MinOutputSampleRate, MaxOutputSampleRate)
	cfg.Composition.SampleRate = uint32(rate)
}
