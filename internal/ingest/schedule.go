package ingest

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/couchcryptid/vhi-dashboard/internal/domain"
)

// Scheduler reruns the ingest on a cron schedule and hands each new dataset
// to a callback. Overlapping runs are skipped.
type Scheduler struct {
	cron      *cron.Cron
	ingester  *Ingester
	onDataset func(*domain.Dataset)
	logger    *slog.Logger
}

// NewScheduler parses a standard cron spec or descriptor and registers a refresh
// job. The job uses ctx for every run it starts.
func NewScheduler(ctx context.Context, spec string, ing *Ingester, onDataset func(*domain.Dataset), logger *slog.Logger) (*Scheduler, error) {
	cl := cronLogger{logger: logger}
	c := cron.New(
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)

	s := &Scheduler{cron: c, ingester: ing, onDataset: onDataset, logger: logger}
	if _, err := c.AddFunc(spec, func() { s.refresh(ctx) }); err != nil {
		return nil, err
	}
	return s, nil
}

// refresh runs one ingest and hands the result to the callback. On failure
// the callback is not called, so the previous dataset stays in service.
func (s *Scheduler) refresh(ctx context.Context) bool {
	ds, _, err := s.ingester.Run(ctx)
	if err != nil {
		s.logger.Warn("scheduled refresh failed", "error", err)
		return false
	}
	s.onDataset(ds)
	return true
}

// Start begins running scheduled refreshes in the background.
func (s *Scheduler) Start() {
	s.logger.Info("refresh scheduler started", "entries", len(s.cron.Entries()))
	s.cron.Start()
}

// Stop prevents new runs and waits for a running one to finish or for ctx to
// expire, whichever comes first.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
