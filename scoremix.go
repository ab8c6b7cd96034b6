package scoremix

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/opd-ai/scoremix/acquire"
	"github.com/opd-ai/scoremix/audio"
	"github.com/opd-ai/scoremix/factory"
	"github.com/opd-ai/scoremix/interfaces"
	"github.com/opd-ai/scoremix/job"
	"github.com/opd-ai/scoremix/timeline"
	"github.com/sirupsen/logrus"
)

// ErrClosed is returned by Compose after Close.
var ErrClosed = errors.New("engine closed")

// Options configures an Engine.
type Options struct {
	// Config is the engine configuration. Nil means factory defaults with
	// environment overrides.
	Config *factory.Config
	// Provider overrides the provider the factory would select.
	Provider interfaces.ITrackProvider
}

// NewOptions returns options holding the default configuration.
func NewOptions() *Options {
	return &Options{Config: factory.DefaultConfig()}
}

// Engine owns the process-scoped acquirer and runs composition jobs with it.
type Engine struct {
	config   *factory.Config
	provider interfaces.ITrackProvider
	acquirer *acquire.Acquirer
	runner   *job.Runner

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// New builds an engine: provider, decoder, fallback table and acquirer are
// constructed once and shared by every Compose call.
func New(options *Options) (*Engine, error) {
	if options == nil {
		options = &Options{}
	}
	cfg := options.Config
	if cfg == nil {
		var err error
		if cfg, err = factory.LoadConfig(""); err != nil {
			return nil, err
		}
	} else {
		cfg = cfg.Clone()
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	provider := options.Provider
	if provider == nil {
		var err error
		provider, err = factory.NewProviderFactory(cfg).CreateProvider()
		if err != nil {
			return nil, err
		}
	}

	decoder, err := newDecoder(cfg)
	if err != nil {
		return nil, err
	}

	fallbacks, err := newFallbackTable(cfg.Fallbacks)
	if err != nil {
		return nil, err
	}

	acquirer, err := acquire.NewAcquirer(&cfg.Acquisition, &cfg.Composition, provider, decoder, fallbacks)
	if err != nil {
		return nil, fmt.Errorf("create acquirer: %w", err)
	}

	runner, err := job.NewRunner(acquirer, &cfg.Composition, cfg.Acquisition.ScratchDir)
	if err != nil {
		return nil, fmt.Errorf("create runner: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"function":    "New",
		"provider":    provider.Name(),
		"simulation":  provider.IsSimulation(),
		"ffmpeg":      cfg.Acquisition.FFmpegPath != "",
		"fallbacks":   len(cfg.Fallbacks),
		"workers":     cfg.Composition.Workers,
		"sample_rate": cfg.Composition.SampleRate,
	}).Info("Created composition engine")

	return &Engine{
		config:   cfg,
		provider: provider,
		acquirer: acquirer,
		runner:   runner,
	}, nil
}

func newDecoder(cfg *factory.Config) (*audio.Decoder, error) {
	if cfg.Acquisition.FFmpegPath == "" {
		return audio.NewDecoder(nil), nil
	}
	ff, err := audio.NewFFmpegDecoder(cfg.Acquisition.FFmpegPath, cfg.Composition.Channels, cfg.Composition.SampleRate)
	if err != nil {
		return nil, fmt.Errorf("configure ffmpeg: %w", err)
	}
	return audio.NewDecoder(ff), nil
}

func newFallbackTable(entries []factory.FallbackEntry) (*acquire.FallbackTable, error) {
	table := acquire.NewFallbackTable()
	for _, e := range entries {
		mood, err := timeline.ParseSubMood(e.Mood)
		if err != nil {
			return nil, fmt.Errorf("fallback entry: %w", err)
		}
		if err := table.Register(mood, e.Path, e.Blake2b); err != nil {
			return nil, err
		}
	}
	return table, nil
}

// Compose runs one composition job.
func (e *Engine) Compose(ctx context.Context, req job.Request) (*job.Result, error) {
	e.mu.RLock()
	if e.closed {
		e.mu.RUnlock()
		return nil, ErrClosed
	}
	e.wg.Add(1)
	e.mu.RUnlock()
	defer e.wg.Done()

	return e.runner.Run(ctx, req)
}

// Close rejects new jobs and waits for running ones to finish.
func (e *Engine) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	e.mu.Unlock()

	e.wg.Wait()

	logrus.WithFields(logrus.Fields{
		"function": "Engine.Close",
	}).Info("Composition engine closed")
	return nil
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() *factory.Config {
	return e.config.Clone()
}

// Provider returns the track provider in use.
func (e *Engine) Provider() interfaces.ITrackProvider {
	return e.provider
}

// Fallbacks returns the fallback table.
func (e *Engine) Fallbacks() *acquire.FallbackTable {
	return e.acquirer.Fallbacks()
}

// WriteSoundtrack exports a successful result's mix as 16-bit PCM WAV.
func WriteSoundtrack(path string, result *job.Result) error {
	if result == nil || result.Mix == nil {
		return job.ErrNoSegmentsRendered
	}
	return audio.WriteWAVFile(path, result.Mix)
}
