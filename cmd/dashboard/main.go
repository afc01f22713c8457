package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/vhi-dashboard/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/vhi-dashboard/internal/adapter/kafka"
	"github.com/couchcryptid/vhi-dashboard/internal/adapter/noaa"
	"github.com/couchcryptid/vhi-dashboard/internal/adapter/sqlite"
	"github.com/couchcryptid/vhi-dashboard/internal/adapter/workspace"
	"github.com/couchcryptid/vhi-dashboard/internal/config"
	"github.com/couchcryptid/vhi-dashboard/internal/ingest"
	"github.com/couchcryptid/vhi-dashboard/internal/observability"
	"github.com/couchcryptid/vhi-dashboard/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	if err := run(cfg, logger); err != nil {
		logger.Error("dashboard exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	metrics := observability.NewMetrics()

	fetcher := noaa.NewClient(noaa.Options{
		BaseURL:   cfg.NOAABaseURL,
		Country:   cfg.NOAACountry,
		YearStart: cfg.NOAAYearStart,
		YearEnd:   cfg.NOAAYearEnd,
		Timeout:   cfg.NOAATimeout,
	}, logger)
	ws := workspace.New(cfg.DataDir, nil)

	// Optional sinks (feature-flagged via KAFKA_ENABLED / SQLITE_EXPORT_PATH).
	var sinks []ingest.Sink
	if cfg.KafkaEnabled {
		publisher := kafkaadapter.NewPublisher(cfg, logger)
		defer func() {
			if err := publisher.Close(); err != nil {
				logger.Error("kafka publisher close error", "error", err)
			}
		}()
		sinks = append(sinks, publisher)
		logger.Info("kafka sink enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}
	if cfg.SQLiteExportPath != "" {
		db, err := sqlite.Open(cfg.SQLiteExportPath)
		if err != nil {
			return err
		}
		exporter := sqlite.NewExporter(db, logger)
		defer func() {
			if err := exporter.Close(); err != nil {
				logger.Error("sqlite exporter close error", "error", err)
			}
		}()
		sinks = append(sinks, exporter)
		logger.Info("sqlite sink enabled", "path", cfg.SQLiteExportPath)
	}

	ing := ingest.New(fetcher, ws, logger, metrics, ingest.Policy{
		MaxAttempts: cfg.FetchMaxAttempts,
		Backoff:     cfg.FetchBackoff,
		MaxBackoff:  cfg.FetchMaxBackoff,
		Strict:      cfg.IngestStrict,
	}, sinks...)
	st := store.New(cfg.QueryCacheSize, logger, metrics)
	srv := httpadapter.NewDashboardServer(cfg.HTTPAddr, st, metrics, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server; /readyz reports 503 until the first dataset is in.
	serverErr := serveInBackground(srv, stop, logger)

	ds, _, err := ing.Run(ctx)
	switch {
	case err == nil:
		st.Replace(ds)
	case ctx.Err() != nil:
		// Interrupted during startup; fall through to shutdown.
	default:
		shutdown(cfg, srv, nil, logger)
		return err
	}

	var sched *ingest.Scheduler
	if cfg.RefreshSchedule != "" && ctx.Err() == nil {
		sched, err = ingest.NewScheduler(ctx, cfg.RefreshSchedule, ing, st.Replace, logger)
		if err != nil {
			shutdown(cfg, srv, nil, logger)
			return err
		}
		sched.Start()
	}

	<-ctx.Done()
	shutdown(cfg, srv, sched, logger)
	return serverErr()
}

type listener interface {
	Start() error
}

// serveInBackground starts srv and cancels the run through stop when it fails
// to serve. The returned func reports that failure, or nil.
func serveInBackground(srv listener, stop context.CancelFunc, logger *slog.Logger) func() error {
	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			errCh <- err
			stop()
		}
	}()
	return func() error {
		select {
		case err := <-errCh:
			return err
		default:
			return nil
		}
	}
}

func shutdown(cfg *config.Config, srv *httpadapter.Server, sched *ingest.Scheduler, logger *slog.Logger) {
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if sched != nil {
		sched.Stop(shutdownCtx)
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
