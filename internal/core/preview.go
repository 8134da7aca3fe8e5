package core

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/JonMunkholm/racedata/internal/logging"
)

// DuplicateKey is a conflict key that appears on more than one line of a
// file. Later lines overwrite earlier ones.
type DuplicateKey struct {
	Key         string
	LineNumbers []int
}

// PreviewResult is what an import would do, computed without keeping any
// change.
type PreviewResult struct {
	ImportResult
	Duplicates []DuplicateKey
}

// PreviewReader runs the import of r inside a transaction that is always
// rolled back. Counts are exact because every statement really executes.
func (s *Service) PreviewReader(ctx context.Context, tableKey, name string, r io.Reader) (*PreviewResult, error) {
	def, ok := Get(tableKey)
	if !ok {
		return nil, fmt.Errorf("unknown table: %s", tableKey)
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, fmt.Errorf("preview %s: %w", name, err)
	}
	defer s.limiter.Release()

	start := time.Now()
	res := &PreviewResult{ImportResult: ImportResult{TableKey: tableKey, FileName: name}}
	lines := make(map[string][]int)

	limited := &io.LimitedReader{R: r, N: s.maxFileSize + 1}
	decoded, counter := WrapForStreaming(limited, s.encoding)

	err := s.processLines(ctx, def, decoded, counter, &res.ImportResult, lineOpts{
		start:  start,
		dryRun: true,
		onRow: func(line int, row Row) {
			k := rowKey(def.Info.ConflictKey, row)
			lines[k] = append(lines[k], line)
		},
	})
	if err != nil {
		return nil, err
	}

	for k, ln := range lines {
		if len(ln) > 1 {
			res.Duplicates = append(res.Duplicates, DuplicateKey{Key: k, LineNumbers: ln})
		}
	}
	sort.Slice(res.Duplicates, func(i, j int) bool {
		return res.Duplicates[i].LineNumbers[0] < res.Duplicates[j].LineNumbers[0]
	})

	res.BytesRead = counter.BytesRead
	res.Duration = time.Since(start)
	logging.WithFields(ctx, "table", tableKey, "file", name).Debug("preview completed",
		"inserted", res.Inserted, "updated", res.Updated, "duplicates", len(res.Duplicates))
	return res, nil
}

// PreviewFile is PreviewReader over a file on disk.
func (s *Service) PreviewFile(ctx context.Context, tableKey, path string) (*PreviewResult, error) {
	f, err := s.openImportFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return s.PreviewReader(ctx, tableKey, filepath.Base(path), f)
}

// rowKey joins the conflict key values of a row with "|".
func rowKey(key []string, row Row) string {
	parts := make([]string, len(key))
	for i, k := range key {
		parts[i] = fmt.Sprint(row[k])
	}
	return strings.Join(parts, "|")
}

