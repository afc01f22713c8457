// Package sqlite exports each ingested dataset into a SQLite file for
// offline analysis.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/couchcryptid/vhi-dashboard/internal/domain"
)

//go:embed sql/schema.sql
var schemaSQL string

//go:embed sql/insert-observation.sql
var insertObservationSQL string

//go:embed sql/insert-region.sql
var insertRegionSQL string

// Open opens (creating if needed) the SQLite file at path and applies the
// schema.
func Open(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL", path))
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return db, nil
}

// Exporter replaces the exported table with each new dataset.
// It implements ingest.Sink.
type Exporter struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewExporter wraps an open database.
func NewExporter(db *sql.DB, logger *slog.Logger) *Exporter {
	return &Exporter{db: db, logger: logger}
}

// Name identifies the sink in logs and metrics.
func (e *Exporter) Name() string { return "sqlite" }

// Publish swaps the stored observations for those of ds in one transaction.
func (e *Exporter) Publish(ctx context.Context, ds *domain.Dataset) (err error) {
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin export: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, "DELETE FROM observations"); err != nil {
		return fmt.Errorf("clear observations: %w", err)
	}

	regionStmt, err := tx.PrepareContext(ctx, insertRegionSQL)
	if err != nil {
		return fmt.Errorf("prepare region insert: %w", err)
	}
	defer regionStmt.Close()
	for _, r := range domain.Regions() {
		if _, err = regionStmt.ExecContext(ctx, r.ID, r.Name); err != nil {
			return fmt.Errorf("insert region %d: %w", r.ID, err)
		}
	}

	obsStmt, err := tx.PrepareContext(ctx, insertObservationSQL)
	if err != nil {
		return fmt.Errorf("prepare observation insert: %w", err)
	}
	defer obsStmt.Close()
	for _, o := range ds.Observations() {
		if _, err = obsStmt.ExecContext(ctx, o.RegionID, o.Year, o.Week, o.VCI, o.TCI, o.VHI); err != nil {
			return fmt.Errorf("insert observation %s: %w", o.Key(), err)
		}
	}

	if _, err = tx.ExecContext(ctx,
		"INSERT INTO exports (built_at, row_count) VALUES (?, ?)",
		ds.BuiltAt().UTC().Format(time.RFC3339), ds.Len(),
	); err != nil {
		return fmt.Errorf("record export: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit export: %w", err)
	}
	e.logger.Debug("dataset exported", "rows", ds.Len())
	return nil
}

// Close closes the underlying database.
func (e *Exporter) Close() error {
	if e.db == nil {
		return nil
	}
	return e.db.Close()
}
