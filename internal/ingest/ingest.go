package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/couchcryptid/vhi-dashboard/internal/domain"
	"github.com/couchcryptid/vhi-dashboard/internal/observability"
)

// ErrNoData is returned when a tolerant run loaded no province at all.
var ErrNoData = errors.New("no province data could be loaded")

// Fetcher downloads the raw export for one provider province.
type Fetcher interface {
	Fetch(ctx context.Context, provinceID int) ([]byte, error)
}

// Workspace stores raw exports between download and assembly.
type Workspace interface {
	Reset() error
	Save(provinceID int, body []byte) (string, error)
	Paths() ([]string, error)
}

// Sink receives every successfully built dataset.
type Sink interface {
	Name() string
	Publish(ctx context.Context, ds *domain.Dataset) error
}

// Policy controls retries and failure tolerance.
type Policy struct {
	MaxAttempts int
	Backoff     time.Duration
	MaxBackoff  time.Duration
	// Strict aborts the run on the first failed province instead of
	// skipping it.
	Strict bool
}

// Report summarizes one run.
type Report struct {
	Fetched      int
	FetchFailed  map[int]error
	Skipped      map[string]error
	Observations int
	Duration     time.Duration
}

// Ingester orchestrates reset, fetch, and assembly of the dataset.
type Ingester struct {
	fetcher   Fetcher
	workspace Workspace
	sinks     []Sink
	logger    *slog.Logger
	metrics   *observability.Metrics
	policy    Policy
	provinces []int
	mu        sync.Mutex
}

// New creates an Ingester covering every provider province.
func New(f Fetcher, w Workspace, logger *slog.Logger, metrics *observability.Metrics, policy Policy, sinks ...Sink) *Ingester {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	return &Ingester{
		fetcher:   f,
		workspace: w,
		sinks:     sinks,
		logger:    logger,
		metrics:   metrics,
		policy:    policy,
		provinces: domain.ProvinceIDs(),
	}
}

// Run clears the workspace, downloads every province sequentially, and
// assembles the dataset. In strict mode any failure aborts the run; otherwise
// failed provinces and malformed files are logged and skipped.
func (i *Ingester) Run(ctx context.Context) (*domain.Dataset, Report, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	start := time.Now()
	report := Report{
		FetchFailed: make(map[int]error),
		Skipped:     make(map[string]error),
	}
	i.logger.Info("ingest started", "provinces", len(i.provinces), "strict", i.policy.Strict)
	i.metrics.IngestRunning.Set(1)
	defer i.metrics.IngestRunning.Set(0)

	ds, err := i.run(ctx, &report)
	report.Duration = time.Since(start)
	if err != nil {
		i.metrics.IngestFailures.Inc()
		i.logger.Error("ingest failed", "error", err, "duration", report.Duration)
		return nil, report, err
	}

	report.Observations = ds.Len()
	i.metrics.IngestDuration.Observe(report.Duration.Seconds())
	i.logger.Info("ingest complete",
		"observations", ds.Len(),
		"regions", len(ds.Regions()),
		"fetch_failed", len(report.FetchFailed),
		"files_skipped", len(report.Skipped),
		"duration", report.Duration,
	)

	i.publish(ctx, ds)
	return ds, report, nil
}

func (i *Ingester) run(ctx context.Context, report *Report) (*domain.Dataset, error) {
	if err := i.workspace.Reset(); err != nil {
		return nil, err
	}

	for _, id := range i.provinces {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		body, attempts, err := i.fetchWithRetry(ctx, id)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			i.metrics.FetchErrors.Inc()
			netErr := &domain.NetworkError{ProvinceID: id, Attempts: attempts, Err: err}
			if i.policy.Strict {
				return nil, netErr
			}
			i.logger.Warn("fetch failed, skipping province", "province_id", id, "attempts", attempts, "error", err)
			report.FetchFailed[id] = netErr
			continue
		}

		if _, err := i.workspace.Save(id, body); err != nil {
			return nil, err
		}
		i.metrics.ProvincesFetched.Inc()
		report.Fetched++
	}

	paths, err := i.workspace.Paths()
	if err != nil {
		return nil, err
	}
	return i.assemble(paths, report)
}

// fetchWithRetry tries a province up to MaxAttempts times with exponential
// backoff between attempts. It returns the number of attempts made.
func (i *Ingester) fetchWithRetry(ctx context.Context, provinceID int) ([]byte, int, error) {
	backoff := i.policy.Backoff
	var lastErr error
	for attempt := 1; attempt <= i.policy.MaxAttempts; attempt++ {
		if attempt > 1 {
			i.metrics.FetchRetries.Inc()
			i.logger.Debug("retrying fetch", "province_id", provinceID, "attempt", attempt, "backoff", backoff)
			if !sleepWithContext(ctx, backoff) {
				return nil, attempt - 1, ctx.Err()
			}
			backoff = nextBackoff(backoff, i.policy.MaxBackoff)
		}

		body, err := i.fetcher.Fetch(ctx, provinceID)
		if err == nil {
			return body, attempt, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return nil, attempt, ctx.Err()
		}
	}
	return nil, i.policy.MaxAttempts, fmt.Errorf("giving up: %w", lastErr)
}

// publish hands the dataset to every sink. Sink failures never fail the run.
func (i *Ingester) publish(ctx context.Context, ds *domain.Dataset) {
	for _, s := range i.sinks {
		if err := s.Publish(ctx, ds); err != nil {
			i.metrics.SinkErrors.WithLabelValues(s.Name()).Inc()
			i.logger.Error("dataset sink failed", "sink", s.Name(), "error", err)
			continue
		}
		i.logger.Info("dataset published", "sink", s.Name(), "observations", ds.Len())
	}
}

func nextBackoff(current, maxBackoff time.Duration) time.Duration {
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
