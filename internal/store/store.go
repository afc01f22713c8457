// Package store serves queries against the current in-memory dataset.
package store

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/vhi-dashboard/internal/domain"
	"github.com/couchcryptid/vhi-dashboard/internal/observability"
)

// ErrNotReady is returned by queries before the first dataset is loaded.
var ErrNotReady = errors.New("dataset not loaded")

// snapshot pairs a dataset with the cache of results computed from it, so a
// swap never serves results of the previous dataset.
type snapshot struct {
	ds    *domain.Dataset
	cache *lruCache[string, []domain.Row]
}

// Store holds the dataset currently being served. Replace swaps it
// atomically; queries in flight keep the snapshot they started with.
// Returned row slices are shared between callers and must not be modified.
type Store struct {
	current   atomic.Pointer[snapshot]
	cacheSize int
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// New creates an empty store caching up to cacheSize query results.
func New(cacheSize int, logger *slog.Logger, metrics *observability.Metrics) *Store {
	return &Store{cacheSize: cacheSize, logger: logger, metrics: metrics}
}

// Replace makes ds the dataset served to new queries.
func (s *Store) Replace(ds *domain.Dataset) {
	s.current.Store(&snapshot{ds: ds, cache: newLRUCache[string, []domain.Row](s.cacheSize)})
	s.metrics.DatasetObservations.Set(float64(ds.Len()))
	s.metrics.DatasetRegions.Set(float64(len(ds.Regions())))
	s.logger.Info("dataset replaced", "observations", ds.Len(), "built_at", ds.BuiltAt())
}

// Dataset returns the dataset currently served, or nil before the first load.
func (s *Store) Dataset() *domain.Dataset {
	snap := s.current.Load()
	if snap == nil {
		return nil
	}
	return snap.ds
}

// CheckReadiness reports whether a dataset has been loaded.
func (s *Store) CheckReadiness(_ context.Context) error {
	if s.current.Load() == nil {
		return ErrNotReady
	}
	return nil
}

// Table answers a table query.
func (s *Store) Table(q domain.TableQuery) ([]domain.Row, error) {
	return s.query("table", q.CacheKey(), func(ds *domain.Dataset) []domain.Row {
		return ds.Table(q)
	})
}

// Plot answers a plot query.
func (s *Store) Plot(q domain.PlotQuery) ([]domain.Row, error) {
	return s.query("plot", q.CacheKey(), func(ds *domain.Dataset) []domain.Row {
		return ds.Plot(q)
	})
}

func (s *Store) query(kind, key string, run func(*domain.Dataset) []domain.Row) ([]domain.Row, error) {
	snap := s.current.Load()
	if snap == nil {
		s.metrics.Queries.WithLabelValues(kind, "unavailable").Inc()
		return nil, ErrNotReady
	}

	start := time.Now()
	defer func() {
		s.metrics.QueryDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	}()
	s.metrics.Queries.WithLabelValues(kind, "ok").Inc()

	if rows, ok := snap.cache.get(key); ok {
		s.metrics.QueryCache.WithLabelValues("hit").Inc()
		return rows, nil
	}
	s.metrics.QueryCache.WithLabelValues("miss").Inc()

	rows := run(snap.ds)
	snap.cache.put(key, rows)
	return rows, nil
}
