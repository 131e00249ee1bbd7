// Command geocatalog runs the catalog HTTP server: it applies pending
// migrations, wires the stores and the upload pipeline, and serves the API
// until interrupted.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/openatlas/geocatalog/internal/api"
	"github.com/openatlas/geocatalog/internal/config"
	"github.com/openatlas/geocatalog/internal/db"
	"github.com/openatlas/geocatalog/internal/db/migrations"
	"github.com/openatlas/geocatalog/internal/dbpool"
	"github.com/openatlas/geocatalog/internal/ingest"
	"github.com/openatlas/geocatalog/internal/store"
)

// version is overridden at build time via -ldflags.
var version = "dev"

const shutdownGrace = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Missing .env is fine; production sets real environment variables.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.LogLevel, err)
	}
	log.SetLevel(level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := dbpool.NewPool(ctx, cfg.DatabaseURL.Value())
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer pool.Close()

	if err := db.RunMigrations(ctx, pool, log, migrations.FS); err != nil {
		return err
	}

	base := store.Base{Pool: pool, Log: log}
	ingestStore := store.NewIngestStore(base)

	router := api.NewRouter(&api.RouterDeps{
		Log:            log,
		Pool:           pool,
		Datasets:       store.NewDatasetStore(base),
		Sources:        store.NewDataSourceStore(base),
		Geo:            store.NewGeoStore(base),
		Measurements:   store.NewMeasurementStore(base),
		Pipeline:       ingest.New(ingestStore, log),
		CORSOrigins:    cfg.CORSOrigins,
		EditorAPIKey:   cfg.EditorAPIKey.Value(),
		MaxUploadBytes: cfg.MaxUploadBytes,
		Version:        version,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.WithFields(logrus.Fields{"addr": cfg.Addr(), "version": version}).Info("server listening")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()

		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
