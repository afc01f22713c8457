package sqlite

import (
	"context"
	"database/sql"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/vhi-dashboard/internal/domain"
)

func setupExporter(t *testing.T) (*Exporter, *sql.DB) {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "export", "vhi.db"))
	require.NoError(t, err)
	e := NewExporter(db, slog.Default())
	t.Cleanup(func() { _ = e.Close() })
	return e, db
}

func countRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}

func TestExporter_Publish(t *testing.T) {
	e, db := setupExporter(t)
	ds := domain.NewDataset([]domain.WeeklyObservation{
		{RegionID: 9, Year: 2020, Week: 1, VCI: 44.84, TCI: 31.37, VHI: 38.1},
		{RegionID: 9, Year: 2020, Week: 2, VCI: 45.31, TCI: 31.28, VHI: 38.29},
	})

	require.NoError(t, e.Publish(context.Background(), ds))

	assert.Equal(t, 2, countRows(t, db, "observations"))
	assert.Equal(t, domain.RegionCount, countRows(t, db, "regions"))
	assert.Equal(t, 1, countRows(t, db, "exports"))

	var vhi float64
	require.NoError(t, db.QueryRow(
		"SELECT vhi FROM observations WHERE region_id = ? AND year = ? AND week = ?", 9, 2020, 2,
	).Scan(&vhi))
	assert.InDelta(t, 38.29, vhi, 1e-9)
}

func TestExporter_Publish_ReplacesPreviousDataset(t *testing.T) {
	e, db := setupExporter(t)

	first := domain.NewDataset([]domain.WeeklyObservation{
		{RegionID: 1, Year: 2019, Week: 1, VHI: 30},
		{RegionID: 1, Year: 2019, Week: 2, VHI: 31},
	})
	second := domain.NewDataset([]domain.WeeklyObservation{
		{RegionID: 2, Year: 2020, Week: 1, VHI: 50},
	})

	require.NoError(t, e.Publish(context.Background(), first))
	require.NoError(t, e.Publish(context.Background(), second))

	assert.Equal(t, 1, countRows(t, db, "observations"))
	assert.Equal(t, 2, countRows(t, db, "exports"))

	var region int
	require.NoError(t, db.QueryRow("SELECT region_id FROM observations").Scan(&region))
	assert.Equal(t, 2, region)
}

func TestExporter_Publish_CancelledContext(t *testing.T) {
	e, db := setupExporter(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := e.Publish(ctx, domain.NewDataset([]domain.WeeklyObservation{{RegionID: 1, Year: 2020, Week: 1}}))
	require.Error(t, err)
	assert.Equal(t, 0, countRows(t, db, "observations"))
}
