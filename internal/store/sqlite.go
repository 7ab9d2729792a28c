package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/KATT/sanitize-csvs/pkg/sanitize"
)

// Compile-time interface checks
var (
	_ sanitize.Store       = (*SQLiteStore)(nil)
	_ sanitize.RunRecorder = (*SQLiteStore)(nil)
)

// SQLiteStore loads sanitized records into a SQLite database file.
// Safe for concurrent use: the pool is capped at one connection, so
// statements from concurrent pipelines serialize at the driver.
type SQLiteStore struct {
	db     *sql.DB
	path   string
	logger sanitize.Logger
}

// Open resets and opens the store at path. An existing database file is
// deleted first, together with its -journal, -wal and -shm siblings, so
// every run starts from an empty store. Parent directories are created
// as needed.
//
// Panics if logger is nil. Returned errors wrap sanitize.ErrStoreOpen.
func Open(path string, logger sanitize.Logger) (*SQLiteStore, error) {
	if logger == nil {
		panic("logger cannot be nil")
	}

	if err := removeExisting(path); err != nil {
		return nil, fmt.Errorf("%w: %v", sanitize.ErrStoreOpen, err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("%w: %v", sanitize.ErrStoreOpen, err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", sanitize.ErrStoreOpen, err)
	}

	// One connection for the whole run: inserts from concurrent
	// pipelines must execute as uninterleaved statements.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", sanitize.ErrStoreOpen, err)
	}

	logger.Verbose("Store opened at %s", path)

	return &SQLiteStore{
		db:     db,
		path:   path,
		logger: logger,
	}, nil
}

// removeExisting deletes a previous database file and the journal
// siblings SQLite may have left beside it.
func removeExisting(path string) error {
	for _, p := range []string{path, path + "-journal", path + "-wal", path + "-shm"} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove %s: %w", p, err)
		}
	}
	return nil
}

// Path returns the filesystem location of the database file.
func (s *SQLiteStore) Path() string {
	return s.path
}

// Close releases the underlying connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateTable creates a table with the given TEXT columns if it does not
// already exist. Column names are taken verbatim from the source header;
// quoting makes spaces, punctuation and embedded quotes safe. A header
// with duplicate column names fails here and fails the file's pipeline.
func (s *SQLiteStore) CreateTable(ctx context.Context, table string, columns []string) error {
	if len(columns) == 0 {
		return fmt.Errorf("failed to create table %s: no columns", table)
	}

	cols := make([]string, len(columns))
	for i, c := range columns {
		cols[i] = quoteIdent(c) + " TEXT"
	}

	query := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", quoteIdent(table), strings.Join(cols, ", "))
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create table %s: %w", table, err)
	}

	s.logger.Verbose("Created table %s with %d columns", table, len(columns))
	return nil
}

// InsertRows appends the records to the table as one parameterized
// multi-row INSERT. A single statement is atomic in SQLite, so a failed
// batch inserts nothing.
//
// Every record must have exactly len(columns) fields; the pipeline
// enforces this before batching, so a mismatch here is a programming
// error rather than bad input.
func (s *SQLiteStore) InsertRows(ctx context.Context, table string, columns []string, rows []sanitize.Record) error {
	if len(rows) == 0 {
		return nil
	}

	for _, row := range rows {
		if len(row) != len(columns) {
			return fmt.Errorf("record has %d fields, table %s has %d columns", len(row), table, len(columns))
		}
	}

	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(quoteIdent(table))
	b.WriteString(" (")
	for i, c := range columns {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(quoteIdent(c))
	}
	b.WriteString(") VALUES ")

	placeholder := "(?" + strings.Repeat(", ?", len(columns)-1) + ")"
	args := make([]interface{}, 0, len(rows)*len(columns))
	for i, row := range rows {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(placeholder)
		for _, v := range row {
			args = append(args, v)
		}
	}

	if _, err := s.db.ExecContext(ctx, b.String(), args...); err != nil {
		return fmt.Errorf("failed to insert %d rows into %s: %w", len(rows), table, err)
	}

	return nil
}

// quoteIdent quotes an identifier for SQLite, doubling embedded quote
// characters. Table and column names come verbatim from file names and
// source headers and may contain anything.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
