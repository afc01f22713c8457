package store_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/vhi-dashboard/internal/domain"
	"github.com/couchcryptid/vhi-dashboard/internal/observability"
	"github.com/couchcryptid/vhi-dashboard/internal/store"
)

func sampleDataset(vhi float64) *domain.Dataset {
	return domain.NewDataset([]domain.WeeklyObservation{
		{RegionID: 9, Year: 2020, Week: 1, VCI: 40, TCI: 30, VHI: vhi},
		{RegionID: 9, Year: 2021, Week: 1, VCI: 41, TCI: 31, VHI: vhi + 1},
	})
}

func allYears(region int) domain.TableQuery {
	return domain.TableQuery{
		Region:    region,
		Years:     domain.Range{Start: 2020, End: 2021},
		Weeks:     domain.Range{Start: 1, End: 52},
		Indicator: domain.VHI,
	}
}

func TestStore_NotReady(t *testing.T) {
	metrics := observability.NewMetricsForTesting()
	s := store.New(8, slog.Default(), metrics)

	assert.ErrorIs(t, s.CheckReadiness(context.Background()), store.ErrNotReady)
	assert.Nil(t, s.Dataset())

	_, err := s.Table(allYears(9))
	assert.ErrorIs(t, err, store.ErrNotReady)
	_, err = s.Plot(domain.PlotQuery{Region: 9, Indicator: domain.VHI})
	assert.ErrorIs(t, err, store.ErrNotReady)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.Queries.WithLabelValues("table", "unavailable")), 0)
}

func TestStore_TableCachesResults(t *testing.T) {
	metrics := observability.NewMetricsForTesting()
	s := store.New(8, slog.Default(), metrics)
	s.Replace(sampleDataset(38))

	require.NoError(t, s.CheckReadiness(context.Background()))

	first, err := s.Table(allYears(9))
	require.NoError(t, err)
	second, err := s.Table(allYears(9))
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, first, 2)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.QueryCache.WithLabelValues("miss")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.QueryCache.WithLabelValues("hit")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(metrics.Queries.WithLabelValues("table", "ok")), 0)
}

func TestStore_ReplaceDropsCachedResults(t *testing.T) {
	metrics := observability.NewMetricsForTesting()
	s := store.New(8, slog.Default(), metrics)
	s.Replace(sampleDataset(38))

	before, err := s.Table(allYears(9))
	require.NoError(t, err)
	assert.InDelta(t, 38, before[0].Value, 0)

	s.Replace(sampleDataset(50))

	after, err := s.Table(allYears(9))
	require.NoError(t, err)
	assert.InDelta(t, 50, after[0].Value, 0)
	assert.InDelta(t, 2, testutil.ToFloat64(metrics.DatasetObservations), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.DatasetRegions), 0)
}

func TestStore_PlotAndTableKeysDoNotCollide(t *testing.T) {
	s := store.New(8, slog.Default(), observability.NewMetricsForTesting())
	s.Replace(sampleDataset(38))

	table, err := s.Table(domain.TableQuery{
		Region:    9,
		Years:     domain.Range{Start: 2020, End: 2020},
		Weeks:     domain.Range{Start: 1, End: 52},
		Indicator: domain.TCI,
	})
	require.NoError(t, err)
	plot, err := s.Plot(domain.PlotQuery{Region: 9, Years: domain.Range{Start: 2020, End: 2021}, Indicator: domain.TCI})
	require.NoError(t, err)

	assert.Len(t, table, 1)
	assert.Len(t, plot, 2)
}

func TestStore_ZeroCacheSizeDisablesCache(t *testing.T) {
	metrics := observability.NewMetricsForTesting()
	s := store.New(0, slog.Default(), metrics)
	s.Replace(sampleDataset(38))

	for range 2 {
		rows, err := s.Table(allYears(9))
		require.NoError(t, err)
		assert.Len(t, rows, 2)
	}
	assert.InDelta(t, 2, testutil.ToFloat64(metrics.QueryCache.WithLabelValues("miss")), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(metrics.QueryCache.WithLabelValues("hit")), 0)
}
