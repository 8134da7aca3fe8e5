package core

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/text/encoding"

	"github.com/JonMunkholm/racedata/internal/config"
	"github.com/JonMunkholm/racedata/internal/store"
)

// ErrNotFound is returned when a looked-up record does not exist.
var ErrNotFound = errors.New("record not found")

// Service runs imports and queries against one store.
type Service struct {
	db          *sql.DB
	dialect     store.Dialect
	encoding    encoding.Encoding
	maxFileSize int64
	timeout     time.Duration
	limiter     *ImportLimiter
	importDir   string
}

// NewService creates a service over an open store.
func NewService(st *store.Store, cfg config.ImportConfig) (*Service, error) {
	if st == nil {
		return nil, errors.New("store is required")
	}
	enc, err := LookupEncoding(cfg.Encoding)
	if err != nil {
		return nil, err
	}
	s := &Service{
		db:          st.DB(),
		dialect:     st.Dialect(),
		encoding:    enc,
		maxFileSize: cfg.MaxFileSize,
		timeout:     cfg.Timeout,
		limiter:     NewImportLimiter(cfg.MaxConcurrent, cfg.LockWait),
		importDir:   cfg.Dir,
	}
	if s.maxFileSize <= 0 {
		s.maxFileSize = 100 * 1024 * 1024
	}
	if s.timeout <= 0 {
		s.timeout = 10 * time.Minute
	}
	return s, nil
}

// Limiter returns the limiter guarding imports.
func (s *Service) Limiter() *ImportLimiter {
	return s.limiter
}

// ListTables returns info for all registered import tables in import order.
func (s *Service) ListTables() []TableInfo {
	defs := All()
	result := make([]TableInfo, len(defs))
	for i, def := range defs {
		result[i] = def.Info
	}
	return result
}

// ImportFile imports one CSV file into the table registered under tableKey.
func (s *Service) ImportFile(ctx context.Context, tableKey, path string) (*ImportResult, error) {
	f, err := s.openImportFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return s.ImportReader(ctx, tableKey, filepath.Base(path), f)
}

// openImportFile opens path after checking it is a regular file within the
// size limit.
func (s *Service) openImportFile(path string) (*os.File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("import %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("import %s: is a directory", path)
	}
	if info.Size() > s.maxFileSize {
		return nil, fmt.Errorf("import %s: file too large (%d bytes, limit %d)", path, info.Size(), s.maxFileSize)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("import %s: %w", path, err)
	}
	return f, nil
}

// ImportDir imports every <table_key>.csv present in dir, parents before
// children. An empty dir means the configured import directory. Each file
// is its own transaction; the first failing file stops the run and the
// results of the files before it are returned with the error.
func (s *Service) ImportDir(ctx context.Context, dir string) ([]*ImportResult, error) {
	if dir == "" {
		dir = s.importDir
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory: %w", err)
	}
	present := make(map[string]bool, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			present[e.Name()] = true
		}
	}

	var results []*ImportResult
	for _, def := range All() {
		name := def.Info.Key + ".csv"
		if !present[name] {
			continue
		}
		if err := ctx.Err(); err != nil {
			return results, err
		}
		res, err := s.ImportFile(ctx, def.Info.Key, filepath.Join(dir, name))
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

// Reset deletes every row of a table and returns the number deleted.
func (s *Service) Reset(ctx context.Context, tableKey string) (int64, error) {
	def, ok := Get(tableKey)
	if !ok {
		return 0, fmt.Errorf("unknown table: %s", tableKey)
	}
	res, err := s.db.ExecContext(ctx, "DELETE FROM "+def.Info.Key)
	if err != nil {
		return 0, fmt.Errorf("reset %s: %w", tableKey, err)
	}
	return res.RowsAffected()
}

// TableRowCount returns the number of rows stored in a table.
func (s *Service) TableRowCount(ctx context.Context, tableKey string) (int64, error) {
	def, ok := Get(tableKey)
	if !ok {
		return 0, fmt.Errorf("unknown table: %s", tableKey)
	}
	var n int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+def.Info.Key).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", tableKey, err)
	}
	return n, nil
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
