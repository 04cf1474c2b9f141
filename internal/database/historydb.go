package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/nflstats/internal/model"
)

// FileName is the name of the history database file.
const FileName = "history.db"

// HistoryDB stores scrape runs and the files they exported.
type HistoryDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates the history database in dbDir.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("history database not found at %s: %w", dbPath, ErrNotFound)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// mode=rw refuses to create a missing file, mode=rwc allows it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Path returns the database file path.
func (hdb *HistoryDB) Path() string {
	return hdb.dbPath
}

// Close closes the database connection.
func (hdb *HistoryDB) Close() error {
	return hdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (hdb *HistoryDB) createTables() error {
	schema := `
	-- One row per (season, level) pipeline execution
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		season INTEGER NOT NULL,
		level TEXT NOT NULL,
		week INTEGER NOT NULL DEFAULT 0,
		started_at TEXT NOT NULL,
		finished_at TEXT NOT NULL,
		categories INTEGER NOT NULL DEFAULT 0,
		pages INTEGER NOT NULL DEFAULT 0,
		exports INTEGER NOT NULL DEFAULT 0,
		rows_written INTEGER NOT NULL DEFAULT 0,
		failures INTEGER NOT NULL DEFAULT 0,
		cancelled INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_runs_season ON runs(season);

	-- One row per exported category file
	CREATE TABLE IF NOT EXISTS exports (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL REFERENCES runs(id),
		season INTEGER NOT NULL,
		level TEXT NOT NULL,
		week INTEGER NOT NULL DEFAULT 0,
		unit TEXT NOT NULL,
		category TEXT NOT NULL,
		path TEXT NOT NULL,
		pages INTEGER NOT NULL,
		rows_written INTEGER NOT NULL,
		columns INTEGER NOT NULL,
		hash TEXT NOT NULL,
		written_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_exports_season ON exports(season, level);
	CREATE INDEX IF NOT EXISTS idx_exports_category ON exports(season, level, unit, category);
	`

	_, err := hdb.db.ExecContext(context.Background(), schema)
	return err
}

// RunRecord is a stored pipeline execution.
type RunRecord struct {
	ID         int64       `json:"id"`
	Season     int         `json:"season"`
	Level      model.Level `json:"level"`
	Week       int         `json:"week,omitempty"`
	StartedAt  time.Time   `json:"startedAt"`
	FinishedAt time.Time   `json:"finishedAt"`
	Categories int         `json:"categories"`
	Pages      int         `json:"pages"`
	Exports    int         `json:"exports"`
	Rows       int         `json:"rows"`
	Failures   int         `json:"failures"`
	Cancelled  bool        `json:"cancelled,omitempty"`
}

// SaveRun stores a finished job and all of its exports in one transaction.
// It returns the new run ID.
func (hdb *HistoryDB) SaveRun(ctx context.Context, job *model.Job) (runID int64, err error) {
	tx, err := hdb.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	cfg := job.Config
	result, err := tx.ExecContext(ctx, `
	INSERT INTO runs (season, level, week, started_at, finished_at, categories, pages, exports, rows_written, failures, cancelled)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		cfg.Season,
		cfg.Level.String(),
		cfg.Week(),
		formatTimestamp(job.StartedAt),
		formatTimestamp(job.FinishedAt),
		job.Links.CategoryCount(),
		job.Links.PageCount(),
		len(job.Exports),
		job.RowCount(),
		len(job.Failures),
		job.Cancelled,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	runID, err = result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read run id: %w", err)
	}

	for _, e := range job.Exports {
		if _, err = tx.ExecContext(ctx, `
		INSERT INTO exports (run_id, season, level, week, unit, category, path, pages, rows_written, columns, hash, written_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			runID,
			e.Season,
			e.Level.String(),
			e.Week,
			e.Unit,
			e.Category,
			e.Path,
			e.Pages,
			e.Rows,
			e.Columns,
			e.Hash,
			formatTimestamp(e.WrittenAt),
		); err != nil {
			return 0, fmt.Errorf("failed to insert export %s/%s: %w", e.Unit, e.Category, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}
	return runID, nil
}

// ExportFilter narrows ListExports. Zero fields match everything.
type ExportFilter struct {
	Season int
	Level  model.Level
	Limit  int
}

// ListExports returns recorded exports, newest first.
func (hdb *HistoryDB) ListExports(ctx context.Context, filter ExportFilter) ([]model.Export, error) {
	query := `
	SELECT season, level, week, unit, category, path, pages, rows_written, columns, hash, written_at
	FROM exports
	WHERE 1=1
	`
	args := make([]interface{}, 0)

	if filter.Season != 0 {
		query += " AND season = ?"
		args = append(args, filter.Season)
	}
	if filter.Level != "" {
		query += " AND level = ?"
		args = append(args, filter.Level.String())
	}

	query += " ORDER BY written_at DESC, id DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := hdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query exports: %w", err)
	}
	defer rows.Close()

	var results []model.Export
	for rows.Next() {
		var e model.Export
		var level, writtenAt string

		if err := rows.Scan(
			&e.Season,
			&level,
			&e.Week,
			&e.Unit,
			&e.Category,
			&e.Path,
			&e.Pages,
			&e.Rows,
			&e.Columns,
			&e.Hash,
			&writtenAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan export: %w", err)
		}
		e.Level = model.Level(level)
		e.WrittenAt = parseTimestamp(writtenAt)
		results = append(results, e)
	}

	return results, rows.Err()
}

// LatestHash returns the content hash of the most recent export of a
// category, or "" when the category was never exported.
func (hdb *HistoryDB) LatestHash(ctx context.Context, season int, level model.Level, unit, category string) (string, error) {
	query := `
	SELECT hash FROM exports
	WHERE season = ? AND level = ? AND unit = ? AND category = ?
	ORDER BY written_at DESC, id DESC
	LIMIT 1
	`

	var hash string
	err := hdb.db.QueryRowContext(ctx, query, season, level.String(), unit, category).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get latest hash: %w", err)
	}
	return hash, nil
}

// ListRuns returns recorded runs, newest first. A limit of 0 returns all.
func (hdb *HistoryDB) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	query := `
	SELECT id, season, level, week, started_at, finished_at, categories, pages, exports, rows_written, failures, cancelled
	FROM runs
	ORDER BY started_at DESC, id DESC
	`
	args := make([]interface{}, 0)
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := hdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var results []RunRecord
	for rows.Next() {
		var r RunRecord
		var level, startedAt, finishedAt string

		if err := rows.Scan(
			&r.ID,
			&r.Season,
			&level,
			&r.Week,
			&startedAt,
			&finishedAt,
			&r.Categories,
			&r.Pages,
			&r.Exports,
			&r.Rows,
			&r.Failures,
			&r.Cancelled,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		r.Level = model.Level(level)
		r.StartedAt = parseTimestamp(startedAt)
		r.FinishedAt = parseTimestamp(finishedAt)
		results = append(results, r)
	}

	return results, rows.Err()
}

// timestampLayout has a fixed width so that text ordering of stored
// timestamps matches time ordering.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// timestampFormats contains the timestamp formats that may be stored.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
