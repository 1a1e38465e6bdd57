package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"realtyref/internal/auth"
	"realtyref/internal/backend"
	"realtyref/internal/catalog"
	"realtyref/internal/expert"
	"realtyref/internal/listing"
	"realtyref/internal/platform/config"
	"realtyref/internal/platform/logger"
	platformredis "realtyref/internal/platform/redis"
	"realtyref/internal/profile"
	"realtyref/internal/registration"
	"realtyref/internal/roster"
	"realtyref/internal/session"
	"realtyref/internal/session/store"
)

// app holds the services one CLI invocation works with.
type app struct {
	cfg     config.Client
	log     *slog.Logger
	session *session.Session
	client  *backend.Client

	metrics     *prometheus.Registry
	listMetrics *roster.Metrics

	auth     *auth.Service
	catalog  *catalog.Service
	profile  *profile.Service
	register *registration.Service
	roster   *roster.Repository
	listing  *listing.Service
	expert   *expert.Service

	closers []func() error
}

func newApp(ctx context.Context, cfg config.Client) (*app, error) {
	a := &app{cfg: cfg, log: logger.New(cfg.Logging), metrics: prometheus.NewRegistry()}
	a.listMetrics = roster.NewMetrics(a.metrics)

	kv, err := a.openState(ctx)
	if err != nil {
		return nil, err
	}
	a.session, err = session.Open(ctx, kv, session.WithLogger(a.log))
	if err != nil {
		a.close()
		return nil, fmt.Errorf("open session: %w", err)
	}

	a.client, err = backend.New(cfg.BaseURL,
		backend.WithTimeout(cfg.Timeout),
		backend.WithTokenSource(a.session),
		backend.WithLogger(a.log),
		backend.WithMetrics(backend.NewMetrics(a.metrics)),
	)
	if err != nil {
		a.close()
		return nil, err
	}

	a.auth = auth.New(a.client, a.session, auth.WithLogger(a.log))
	a.catalog = catalog.New(a.client, catalog.WithLogger(a.log))
	a.profile = profile.New(a.client, a.session, profile.WithLogger(a.log))
	a.register = registration.New(a.client, a.catalog,
		registration.WithActors(a.profile),
		registration.WithLogger(a.log),
	)
	a.roster = roster.NewRepository(a.client, roster.WithLogger(a.log))
	a.listing = listing.New(a.client, a.profile, listing.WithLogger(a.log))
	a.expert = expert.New(a.client, a.catalog, expert.WithLogger(a.log))
	return a, nil
}

// openState opens the device-local store the session lives in.
func (a *app) openState(ctx context.Context) (session.Store, error) {
	switch a.cfg.State.Backend {
	case "memory":
		return store.NewInMemory(), nil
	case "redis":
		rc, err := platformredis.New(ctx, a.cfg.State.Redis)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, rc.Close)
		return store.NewRedis(rc.Client), nil
	default:
		st, err := store.OpenSQLite(ctx, a.cfg.State.Path)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, st.Close)
		return st, nil
	}
}

func (a *app) close() {
	if a.cfg.MetricsFile != "" {
		if err := prometheus.WriteToTextfile(a.cfg.MetricsFile, a.metrics); err != nil {
			a.log.Warn("write metrics failed", "path", a.cfg.MetricsFile, "error", err)
		}
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.log.Warn("close failed", "error", err)
		}
	}
	a.closers = nil
}
