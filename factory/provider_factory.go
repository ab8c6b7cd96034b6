package factory

import (
	"fmt"
	"sync"

	"github.com/opd-ai/scoremix/interfaces"
	"github.com/opd-ai/scoremix/real"
	"github.com/opd-ai/scoremix/testing"
	"github.com/sirupsen/logrus"
)

// ProviderFactory creates track providers based on configuration.
// It is safe for concurrent use.
type ProviderFactory struct {
	mu            sync.RWMutex
	defaultConfig *interfaces.AcquisitionConfig
}

// NewProviderFactory creates a factory around the acquisition section of cfg.
// A nil cfg uses defaults with environment overrides applied.
func NewProviderFactory(cfg *Config) *ProviderFactory {
	if cfg == nil {
		cfg = createDefaultConfig()
		applyEnvironmentOverrides(cfg)
	}
	acq := cfg.Acquisition
	return &ProviderFactory{defaultConfig: &acq}
}

// CreateProvider returns the provider selected by the factory's configuration.
func (f *ProviderFactory) CreateProvider() (interfaces.ITrackProvider, error) {
	f.mu.RLock()
	config := f.defaultConfig
	f.mu.RUnlock()
	return f.CreateProviderWithConfig(config)
}

// CreateProviderWithConfig returns a simulated provider when UseSimulation is
// set and an HTTP provider otherwise.
func (f *ProviderFactory) CreateProviderWithConfig(config *interfaces.AcquisitionConfig) (interfaces.ITrackProvider, error) {
	if config == nil {
		return nil, fmt.Errorf("acquisition config is required")
	}

	if config.UseSimulation {
		logrus.WithFields(logrus.Fields{
			"function": "ProviderFactory.CreateProviderWithConfig",
			"type":     "simulation",
		}).Info("Creating simulated track provider")
		return testing.NewSimulatedProvider(), nil
	}

	logrus.WithFields(logrus.Fields{
		"function":        "ProviderFactory.CreateProviderWithConfig",
		"type":            "http",
		"attempt_timeout": config.AttemptTimeout,
	}).Info("Creating HTTP track provider")
	return real.NewHTTPProvider(config), nil
}

// SwitchToSimulation makes later CreateProvider calls return the simulated provider.
func (f *ProviderFactory) SwitchToSimulation() {
	f.setSimulation(true)
}

// SwitchToReal makes later CreateProvider calls return the HTTP provider.
func (f *ProviderFactory) SwitchToReal() {
	f.setSimulation(false)
}

func (f *ProviderFactory) setSimulation(on bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"function": "ProviderFactory.setSimulation",
		"previous": f.defaultConfig.UseSimulation,
		"current":  on,
	}).Info("Switching provider mode")

	cfg := *f.defaultConfig
	cfg.UseSimulation = on
	f.defaultConfig = &cfg
}

// IsUsingSimulation returns true if the factory is configured for simulation.
func (f *ProviderFactory) IsUsingSimulation() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.defaultConfig.UseSimulation
}

// GetCurrentConfig returns a copy of the current configuration.
func (f *ProviderFactory) GetCurrentConfig() *interfaces.AcquisitionConfig {
	f.mu.RLock()
	defer f.mu.RUnlock()
	cfg := *f.defaultConfig
	return &cfg
}
