// Package database provides database connection and initialization functionality.
package database

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

//go:embed league_schema.sql
var leagueSchema string

// DB wraps the database connection with production-grade configuration
type DB struct {
	conn *sql.DB
	path string
	name string // Database name for logging
}

// Config holds database configuration
type Config struct {
	Path string
	Name string // Friendly name for logging (e.g., "league")
}

// New creates a new database connection with production-grade configuration
func New(cfg Config) (*DB, error) {
	// Handle file: URIs (used for in-memory databases) - skip filepath operations
	if !strings.HasPrefix(cfg.Path, "file:") {
		// Ensure directory exists - resolve to absolute path to avoid relative path issues
		absPath, err := filepath.Abs(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve database path to absolute: %w", err)
		}
		dir := filepath.Dir(absPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		cfg.Path = absPath
	}

	if cfg.Name == "" {
		cfg.Name = "league"
	}

	conn, err := sql.Open("sqlite", buildConnectionString(cfg.Path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", cfg.Name, err)
	}

	configureConnectionPool(conn)

	// Test connection with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := conn.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database %s: %w", cfg.Name, err)
	}

	return &DB{
		conn: conn,
		path: cfg.Path,
		name: cfg.Name,
	}, nil
}

// buildConnectionString creates the SQLite connection string with PRAGMAs
func buildConnectionString(path string) string {
	connStr := path + "?_pragma=journal_mode(WAL)"
	connStr += "&_pragma=synchronous(NORMAL)"      // Fsync at checkpoints
	connStr += "&_pragma=auto_vacuum(INCREMENTAL)" // Gradual space reclamation
	connStr += "&_pragma=temp_store(MEMORY)"       // Temp tables in RAM
	connStr += "&_pragma=foreign_keys(1)"          // Enable foreign key constraints
	connStr += "&_pragma=wal_autocheckpoint(1000)" // Checkpoint every 1000 pages
	connStr += "&_pragma=cache_size(-64000)"       // 64MB cache (negative = KB)
	return connStr
}

// configureConnectionPool sets up the connection pool for long-term operation
func configureConnectionPool(conn *sql.DB) {
	conn.SetMaxOpenConns(25)
	conn.SetMaxIdleConns(5)
	conn.SetConnMaxLifetime(24 * time.Hour)
	conn.SetConnMaxIdleTime(30 * time.Minute)
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// Conn returns the underlying sql.DB connection
// Used by repositories to execute queries
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Name returns the database name for logging
func (db *DB) Name() string {
	return db.name
}

// Path returns the database file path
func (db *DB) Path() string {
	return db.path
}

// Migrate applies the embedded league schema. The schema uses CREATE
// TABLE IF NOT EXISTS throughout, so reapplying it is safe.
func (db *DB) Migrate() error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin migration transaction: %w", err)
	}

	if _, err := tx.Exec(leagueSchema); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to apply league schema: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit league schema: %w", err)
	}

	return nil
}

// Begin starts a new transaction
func (db *DB) Begin() (*sql.Tx, error) {
	return db.conn.Begin()
}

// BeginTx starts a new transaction with options
func (db *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
	return db.conn.BeginTx(ctx, opts)
}

// WithTransaction executes a function within a database transaction.
// It handles begin, commit, rollback, panic recovery, and error wrapping automatically.
// If the function returns an error or panics, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func WithTransaction(db *sql.DB, fn func(*sql.Tx) error) (err error) {
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	// Defer rollback with panic recovery
	// Use named return variable to capture panic value
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			err = fmt.Errorf("panic in transaction: %v", p)
		} else if err != nil {
			rollbackErr := tx.Rollback()
			if rollbackErr != nil {
				err = fmt.Errorf("transaction failed: %w (rollback also failed: %v)", err, rollbackErr)
			} else {
				err = fmt.Errorf("transaction failed: %w", err)
			}
		} else {
			if commitErr := tx.Commit(); commitErr != nil {
				err = fmt.Errorf("failed to commit transaction: %w", commitErr)
			}
		}
	}()

	err = fn(tx)
	return err
}

// Exec executes a query without returning rows
func (db *DB) Exec(query string, args ...interface{}) (sql.Result, error) {
	return db.conn.Exec(query, args...)
}

// ExecContext executes a query with context
func (db *DB) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return db.conn.ExecContext(ctx, query, args...)
}

// Query executes a query that returns rows
func (db *DB) Query(query string, args ...interface{}) (*sql.Rows, error) {
	return db.conn.Query(query, args...)
}

// QueryContext executes a query with context
func (db *DB) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return db.conn.QueryContext(ctx, query, args...)
}

// QueryRow executes a query that returns at most one row
func (db *DB) QueryRow(query string, args ...interface{}) *sql.Row {
	return db.conn.QueryRow(query, args...)
}

// QueryRowContext executes a query with context
func (db *DB) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return db.conn.QueryRowContext(ctx, query, args...)
}

// HealthCheck performs a comprehensive health check on the database
func (db *DB) HealthCheck(ctx context.Context) error {
	if err := db.conn.PingContext(ctx); err != nil {
		return fmt.Errorf("ping failed for %s: %w", db.name, err)
	}

	// Integrity check (comprehensive but expensive)
	var integrityResult string
	err := db.conn.QueryRowContext(ctx, "PRAGMA integrity_check").Scan(&integrityResult)
	if err != nil {
		return fmt.Errorf("integrity check query failed for %s: %w", db.name, err)
	}

	if integrityResult != "ok" {
		return fmt.Errorf("integrity check failed for %s: %s", db.name, integrityResult)
	}

	return nil
}

// QuickCheck performs a quick health check (just ping, no integrity check)
func (db *DB) QuickCheck(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// WALCheckpoint forces a WAL checkpoint to prevent bloat
func (db *DB) WALCheckpoint(mode string) error {
	// Modes: PASSIVE, FULL, RESTART, TRUNCATE
	// TRUNCATE is recommended for maintenance (resets WAL file to minimal size)
	if mode == "" {
		mode = "TRUNCATE"
	}

	query := fmt.Sprintf("PRAGMA wal_checkpoint(%s)", mode)
	if _, err := db.conn.Exec(query); err != nil {
		return fmt.Errorf("WAL checkpoint failed for %s: %w", db.name, err)
	}

	return nil
}

// Vacuum runs VACUUM to reclaim space and reduce fragmentation
func (db *DB) Vacuum() error {
	// Note: VACUUM can be expensive on large databases
	// Should only be run during maintenance windows
	if _, err := db.conn.Exec("VACUUM"); err != nil {
		return fmt.Errorf("vacuum failed for %s: %w", db.name, err)
	}

	return nil
}

// BackupTo writes a consistent snapshot of the database to destPath
// using VACUUM INTO. The destination must not already exist.
func (db *DB) BackupTo(destPath string) error {
	if _, err := db.conn.Exec("VACUUM INTO ?", destPath); err != nil {
		return fmt.Errorf("vacuum into failed for %s: %w", db.name, err)
	}

	return nil
}

// Stats returns database statistics
type Stats struct {
	SizeBytes     int64 // Database file size
	WALSizeBytes  int64 // WAL file size
	PageCount     int64 // Total pages
	PageSize      int64 // Page size in bytes
	FreelistCount int64 // Number of free pages
}

// GetStats retrieves database statistics
func (db *DB) GetStats() (*Stats, error) {
	stats := &Stats{}

	if fileInfo, err := os.Stat(db.path); err == nil {
		stats.SizeBytes = fileInfo.Size()
	}

	walPath := db.path + "-wal"
	if fileInfo, err := os.Stat(walPath); err == nil {
		stats.WALSizeBytes = fileInfo.Size()
	}

	if err := db.conn.QueryRow("PRAGMA page_count").Scan(&stats.PageCount); err != nil {
		return nil, fmt.Errorf("failed to get page count: %w", err)
	}

	if err := db.conn.QueryRow("PRAGMA page_size").Scan(&stats.PageSize); err != nil {
		return nil, fmt.Errorf("failed to get page size: %w", err)
	}

	if err := db.conn.QueryRow("PRAGMA freelist_count").Scan(&stats.FreelistCount); err != nil {
		return nil, fmt.Errorf("failed to get freelist count: %w", err)
	}

	return stats, nil
}
