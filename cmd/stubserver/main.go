package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"realtyref/internal/platform/config"
	"realtyref/internal/platform/httpserver"
	"realtyref/internal/platform/logger"
	"realtyref/internal/platform/metrics"
	"realtyref/internal/stub"
	"realtyref/internal/stub/handler"
)

const tokenIssuer = "realty-stub"

// main wires the contract stub: record store, token service, router and the
// server lifecycle. Contract behaviour lives in internal/stub.
func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cfg, err := config.ServerFromEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log := logger.New(cfg.Logging)

	if err := run(cfg, log); err != nil {
		log.Error("stub server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Server, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	seed, err := stub.LoadSeed(cfg.SeedFile)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	tokens := stub.NewTokenService(cfg.JWTSigningKey, tokenIssuer, cfg.TokenTTL)
	svc := stub.NewService(store, tokens, seed, stub.WithLogger(log), stub.WithMetrics(m))
	if err := svc.Bootstrap(ctx); err != nil {
		return fmt.Errorf("bootstrap staff accounts: %w", err)
	}

	router := handler.NewRouter(handler.New(svc, log), tokens, log, m, reg)
	srv := httpserver.New(cfg.Addr, router)
	return httpserver.Run(ctx, srv, log, nil)
}

// openStore keeps records in Postgres when DATABASE_URL is set, in memory
// otherwise.
func openStore(ctx context.Context, cfg config.Server, log *slog.Logger) (stub.RecordStore, func(), error) {
	if cfg.DatabaseURL == "" {
		log.Info("using in-memory record store")
		return stub.NewInMemoryStore(), func() {}, nil
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("ping postgres: %w", err)
	}
	store := stub.NewPostgresStore(db)
	if err := store.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	log.Info("using postgres record store")
	return store, func() { _ = db.Close() }, nil
}
