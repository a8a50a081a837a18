package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"scenariokeeper/internal/backup"
	"scenariokeeper/internal/blob"
	"scenariokeeper/internal/config"
	"scenariokeeper/internal/document"
	"scenariokeeper/internal/logging"
	"scenariokeeper/internal/metrics"
	"scenariokeeper/internal/mirror"
	"scenariokeeper/internal/session"
)

// app carries the long-lived dependencies of one CLI invocation.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	recorder metrics.Recorder
	registry *prometheus.Registry
	store    *document.Store
	backups  *backup.Manager
	mirror   mirror.Mirror
}

func newApp(ctx context.Context, configFile string) (*app, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.LoggingConfig())
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, logger: logger, recorder: metrics.Nop{}}
	switch cfg.Metrics.Driver {
	case "prometheus":
		a.registry = prometheus.NewRegistry()
		a.recorder = metrics.NewPrometheus(a.registry)
	case "expvar":
		a.recorder = metrics.NewExpvar("scenariokeeper")
	}
	a.store = document.NewStore(document.WithLogger(logger), document.WithMetrics(a.recorder))

	bs, err := blob.Open(ctx, cfg.BlobConfig())
	if err != nil {
		return nil, fmt.Errorf("open backup store: %w", err)
	}
	a.backups = backup.NewManager(bs, backup.WithLogger(logger), backup.WithMetrics(a.recorder))

	m, err := mirror.Open(ctx, cfg.MirrorConfig())
	if err != nil {
		return nil, fmt.Errorf("open mirror: %w", err)
	}
	a.mirror = mirror.Instrument(m, a.recorder, logger)
	return a, nil
}

// openSession loads setID. A malformed document is reported but still yields
// a session; callers that write must check the error.
func (a *app) openSession(ctx context.Context, setID string) (*session.Session, error) {
	path, err := a.cfg.Path(setID)
	if err != nil {
		return nil, err
	}
	return session.Open(ctx, session.Options{
		SetID:   setID,
		Path:    path,
		Store:   a.store,
		Backups: a.backups,
		Mirror:  a.mirror,
		Logger:  a.logger,
	})
}

func (a *app) close() error {
	var errs []error
	if a.registry != nil && a.cfg.Metrics.Textfile != "" {
		if err := prometheus.WriteToTextfile(a.cfg.Metrics.Textfile, a.registry); err != nil {
			errs = append(errs, fmt.Errorf("write metrics: %w", err))
		}
	}
	if a.mirror != nil {
		errs = append(errs, a.mirror.Close())
	}
	_ = a.logger.Sync()
	return errors.Join(errs...)
}
