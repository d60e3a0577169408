package main

import (
	"io"
	"math/rand/v2"
	"time"

	"github.com/sirupsen/logrus"

	"ChaosImg/internal/config"
	"ChaosImg/internal/logging"
	"ChaosImg/internal/store"
	"ChaosImg/pkg/analyzer"
	"ChaosImg/pkg/analyzer/image/quality"
	"ChaosImg/pkg/cipher"
	"ChaosImg/pkg/models"
)

// app carries what every command needs.
type app struct {
	cfg       *config.Config
	log       *logrus.Logger
	schemes   *cipher.Registry
	analyzers *analyzer.Registry
	history   *store.Store
	closers   []io.Closer
}

func newApp(configPath string, verbose bool) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}

	logger, closer, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, err
	}

	a := newAppWith(cfg, logger)
	a.closers = append(a.closers, closer)

	if cfg.History.Enabled {
		s, err := store.Open(cfg.History.Path)
		if err != nil {
			// History is a convenience; the cipher still works without it
			logger.WithError(err).WithField("path", cfg.History.Path).Warn("history disabled")
		} else {
			a.history = s
			a.closers = append(a.closers, s)
		}
	}

	logger.WithFields(logrus.Fields{
		"scheme":  cfg.Cipher.Scheme,
		"output":  cfg.Output.Dir,
		"history": a.history != nil,
	}).Debug("configuration loaded")

	return a, nil
}

// newAppWith builds an app without history around an existing config and logger.
func newAppWith(cfg *config.Config, logger *logrus.Logger) *app {
	analyzers := analyzer.NewRegistry()
	registerAnalyzers(analyzers)

	return &app{
		cfg:       cfg,
		log:       logger,
		schemes:   cipher.DefaultRegistry(cfg.Pipeline()),
		analyzers: analyzers,
	}
}

func registerAnalyzers(registry *analyzer.Registry) {
	registry.Register(quality.NewQualityAnalyzer())
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i].Close()
	}
}

// analysisOptions builds options for one file. A configured seed makes the
// correlation sampling reproducible.
func (a *app) analysisOptions(filename string, samples int, seed uint64, verbose bool) analyzer.AnalysisOptions {
	if samples <= 0 {
		samples = a.cfg.Analysis.Samples
	}
	if seed == 0 {
		seed = a.cfg.Analysis.Seed
	}

	opts := analyzer.AnalysisOptions{
		Verbose:     verbose,
		Filename:    filename,
		SampleCount: samples,
	}
	if seed != 0 {
		opts.Rand = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
	return opts
}

func (a *app) recordOperation(res *models.OperationResult) {
	if a.history == nil {
		return
	}
	if _, err := a.history.InsertOperation(store.OperationFromResult(res, time.Now())); err != nil {
		a.log.WithError(err).Warn("failed to record operation")
	}
}

func (a *app) recordAnalysis(res *models.AnalysisResult) {
	if a.history == nil {
		return
	}
	if _, err := a.history.InsertAnalysis(store.AnalysisFromResult(res)); err != nil {
		a.log.WithError(err).Warn("failed to record analysis")
	}
}
