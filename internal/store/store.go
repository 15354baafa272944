package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 0 - Initial schema (pre-migration)
// 1 - Added index on deliveries.flow_token for request audits
const currentSchemaVersion = 1

// readPoolSize bounds concurrent read transactions. In WAL mode they run
// alongside the single writer.
const readPoolSize = 4

// Store provides durable storage for matches, the delivery ledger and
// career statistics. Uses SQLite with WAL mode for concurrent read access.
type Store struct {
	db  *sql.DB // single writer connection
	rdb *sql.DB // query-only pool; the writer itself for in-memory databases
	now func() time.Time
}

// Open creates or opens a SQLite database at the given path.
// Applies required pragmas and migrations automatically.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode (balance durability/performance)
//   - 5-second busy timeout for lock contention
//   - Foreign key enforcement
//
// This function is idempotent - safe to call multiple times.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections.
	// Every unit of work runs in a transaction on this one writer; reads use
	// the query-only pool opened below.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	rdb, err := openReader(path, db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open read pool: %w", err)
	}

	return &Store{db: db, rdb: rdb, now: time.Now}, nil
}

// openReader opens the query-only pool used by View. An in-memory database
// exists only on the writer connection, so it is shared.
func openReader(path string, writer *sql.DB) (*sql.DB, error) {
	if path == ":memory:" || strings.HasPrefix(path, "file:") {
		return writer, nil
	}
	rdb, err := sql.Open("sqlite3", "file:"+path+"?_query_only=true&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}
	if err := rdb.Ping(); err != nil {
		rdb.Close()
		return nil, err
	}
	rdb.SetMaxOpenConns(readPoolSize)
	rdb.SetMaxIdleConns(readPoolSize)
	return rdb, nil
}

// Close closes the read pool and the writer connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	var errs []error
	if s.rdb != nil && s.rdb != s.db {
		errs = append(errs, s.rdb.Close())
	}
	errs = append(errs, s.db.Close())
	return errors.Join(errs...)
}

// SetClock replaces the wall clock used for bookkeeping timestamps
// (aggregated_at, player_stats.updated_at). Tests use it for stable output.
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// WithTx runs fn inside one transaction. If fn returns an error, or panics,
// everything it wrote is rolled back. All reads inside fn must go through
// tx: the store holds a single writer connection.
func (s *Store) WithTx(ctx context.Context, fn func(tx *Tx) error) error {
	return s.run(ctx, s.db, fn)
}

// View runs fn in a read transaction on the query-only pool. It sees the
// last committed state and does not wait for an open WithTx unit. Writes
// inside fn fail.
func (s *Store) View(ctx context.Context, fn func(tx *Tx) error) error {
	return s.run(ctx, s.rdb, fn)
}

func (s *Store) run(ctx context.Context, db *sql.DB, fn func(tx *Tx) error) (err error) {
	sqlTx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			sqlTx.Rollback()
			panic(p)
		}
		if err != nil {
			sqlTx.Rollback()
		}
	}()

	if err = fn(&Tx{tx: sqlTx, now: s.now}); err != nil {
		return err
	}
	if err = sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Tx is an open unit of work.
type Tx struct {
	tx  *sql.Tx
	now func() time.Time
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// applySchema creates tables if they don't exist and runs migrations.
// This function is idempotent.
func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	if err := runMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// runMigrations applies incremental schema migrations based on user_version.
func runMigrations(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}

	if version < 1 {
		if err := migrateToV1(db); err != nil {
			return err
		}
	}

	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}

	return nil
}

// migrateToV1 adds the flow token index so every delivery written by one
// request can be found without a table scan.
func migrateToV1(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_deliveries_flow_token
		ON deliveries(flow_token)
	`)
	if err != nil {
		return fmt.Errorf("migrate to v1: %w", err)
	}
	return nil
}

// verifyPragma checks that a pragma is set to the expected value.
// Used for testing.
func (s *Store) verifyPragma(name, expected string) error {
	var value string
	query := fmt.Sprintf("PRAGMA %s", name)
	if err := s.db.QueryRow(query).Scan(&value); err != nil {
		return fmt.Errorf("failed to query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}
