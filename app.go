package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Aman-s12345/routelens/internal/analyzer"
	"github.com/Aman-s12345/routelens/internal/config"
	"github.com/Aman-s12345/routelens/internal/logging"
	"github.com/Aman-s12345/routelens/internal/metrics"
	"github.com/Aman-s12345/routelens/internal/scan"
)

type rootFlags struct {
	config      string
	framework   string
	path        string
	dir         string
	concurrency int
	logLevel    string
	logFormat   string
	addr        string
}

// app is the wired set of components shared by every command.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	metrics *metrics.Metrics
	indexer *analyzer.Indexer
}

func setup(flags *rootFlags) (*app, error) {
	cfg, err := config.Load(flags.config)
	if err != nil {
		return nil, err
	}
	if err := cfg.Finalize(); err != nil {
		return nil, err
	}
	if err := cfg.Apply(config.Overrides{
		Framework:   flags.framework,
		Path:        flags.path,
		Concurrency: flags.concurrency,
		LogLevel:    flags.logLevel,
		LogFormat:   flags.logFormat,
		Addr:        flags.addr,
	}); err != nil {
		return nil, err
	}

	logger := logging.New(&cfg.Logging)
	m := metrics.New()

	sel, err := scan.New(cfg.Path, logger)
	if err != nil {
		return nil, err
	}
	a, err := analyzer.New(sel, analyzer.Options{
		Concurrency: cfg.Concurrency,
		MemoSize:    cfg.MemoSize,
		Logger:      logger,
		Metrics:     m,
	})
	if err != nil {
		return nil, err
	}
	if _, err := scan.CleanDir(flags.dir); err != nil {
		return nil, err
	}

	return &app{
		cfg:     cfg,
		logger:  logger,
		metrics: m,
		indexer: analyzer.NewIndexer(a, cfg.FrameworkName(), flags.dir),
	}, nil
}

// refresh populates the index and logs a summary of the run.
func (a *app) refresh(ctx context.Context) error {
	analysis, err := a.indexer.Refresh(ctx)
	if err != nil {
		return fmt.Errorf("extract %s routes: %w", a.indexer.Framework(), err)
	}
	a.logger.Info("routes extracted",
		"framework", analysis.Framework.String(),
		"files", analysis.Scanned,
		"failed", analysis.Failed,
		"routes", len(analysis.Routes()),
	)
	return nil
}
