// Package store owns the relational database handle: opening it for the
// configured driver, applying the schema and closing it exactly once.
//
// Two drivers are supported. "sqlite" uses modernc.org/sqlite (pure Go, no
// cgo) and is the default for local and single-host use. "pgx" uses the
// jackc/pgx database/sql adapter for PostgreSQL deployments.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/JonMunkholm/racedata/internal/config"
)

// Store wraps a *sql.DB with its dialect. It is created by Open and closed
// by the process entry point.
type Store struct {
	db        *sql.DB
	dialect   Dialect
	closeOnce sync.Once
	closeErr  error
}

// Open connects to the configured database and verifies the connection.
// It does not migrate; call Migrate for that.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*Store, error) {
	dialect, err := DialectFor(cfg.Driver)
	if err != nil {
		return nil, err
	}

	dsn := cfg.URL
	if cfg.IsSQLite() {
		dsn, err = sqliteDSN(cfg)
		if err != nil {
			return nil, err
		}
	}

	db, err := sql.Open(cfg.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if cfg.IsSQLite() {
		// A single connection serializes writers and keeps :memory: databases
		// alive for the life of the store.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
	} else {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
		db.SetMaxIdleConns(cfg.MaxIdleConns)
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	return &Store{db: db, dialect: dialect}, nil
}

// sqliteDSN builds a modernc DSN with pragmas from a file path. Paths that
// are already "file:" URIs only get the pragmas appended.
func sqliteDSN(cfg config.DatabaseConfig) (string, error) {
	path := cfg.URL
	if path != ":memory:" && !strings.HasPrefix(path, "file:") {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return "", fmt.Errorf("create database directory: %w", err)
			}
		}
	}
	if !strings.HasPrefix(path, "file:") {
		path = "file:" + path
	}

	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%s_pragma=busy_timeout(%d)&_pragma=foreign_keys(1)",
		path, sep, cfg.BusyTimeout.Milliseconds()), nil
}

// DB returns the underlying handle.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Dialect returns the SQL dialect of the connected database.
func (s *Store) Dialect() Dialect {
	return s.dialect
}

// Close closes the database. It is safe to call more than once.
func (s *Store) Close() error {
	s.closeOnce.Do(func() {
		if s.db != nil {
			s.closeErr = s.db.Close()
		}
	})
	return s.closeErr
}
