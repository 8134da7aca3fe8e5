package core

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/racedata/internal/logging"
)

// ContextCheckInterval is how often, in lines, the import checks for
// cancellation.
var ContextCheckInterval = 100

// ImportReader imports CSV data read from r into the table registered under
// tableKey. name is used in results and logs.
//
// The first line is a header and is always skipped. Blank lines are
// ignored. Lines that fail conversion are skipped and reported in the
// result; every other line is upserted in file order inside one
// transaction. Any database error rolls the whole file back. Every run,
// completed or failed, is recorded in the import history.
func (s *Service) ImportReader(ctx context.Context, tableKey, name string, r io.Reader) (*ImportResult, error) {
	def, ok := Get(tableKey)
	if !ok {
		return nil, fmt.Errorf("unknown table: %s", tableKey)
	}

	runID := uuid.NewString()
	ctx = logging.WithRunID(ctx, runID)
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	log := logging.WithFields(ctx, "table", tableKey, "file", name)

	if err := s.limiter.Acquire(ctx); err != nil {
		log.Warn("import slot unavailable", "error", err)
		return nil, fmt.Errorf("import %s: %w", name, err)
	}
	defer s.limiter.Release()

	start := time.Now()
	log.Info("import started")

	result := &ImportResult{
		RunID:    runID,
		TableKey: tableKey,
		FileName: name,
	}

	limited := &io.LimitedReader{R: r, N: s.maxFileSize + 1}
	decoded, counter := WrapForStreaming(limited, s.encoding)

	if err := s.processLines(ctx, def, decoded, counter, result, lineOpts{start: start}); err != nil {
		log.Error("import failed", "error", err)
		s.recordFailedRun(ctx, result, start, err)
		return nil, err
	}

	result.BytesRead = counter.BytesRead
	result.Duration = time.Since(start)

	log.Info("import completed",
		"total", result.TotalRows,
		"inserted", result.Inserted,
		"updated", result.Updated,
		"unchanged", result.Unchanged,
		"skipped", result.Skipped,
		"duration_ms", result.Duration.Milliseconds(),
	)
	return result, nil
}

// lineOpts adjusts processLines for previews.
type lineOpts struct {
	start time.Time

	// dryRun rolls back instead of committing and records no history.
	dryRun bool

	// onRow is called for every converted row.
	onRow func(line int, row Row)
}

// processLines runs the per-file transaction. The completed run is recorded
// in the same transaction.
func (s *Service) processLines(ctx context.Context, def TableDefinition, r io.Reader, counter *CountingReader, result *ImportResult, opts lineOpts) error {
	stmt := buildUpsert(s.dialect, def.Info)
	lines := newLineReader(r)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("import %s: begin transaction: %w", result.FileName, err)
	}
	defer tx.Rollback()

	headerSeen := false
	for {
		line, lineNum, err := lines.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("import %s: read line %d: %w", result.FileName, lineNum+1, err)
		}

		if lineNum%ContextCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("import %s: %w", result.FileName, err)
			}
		}

		if !headerSeen {
			headerSeen = true
			continue
		}
		if isBlank(line) {
			continue
		}
		result.TotalRows++

		fields := SplitLine(line)
		row, err := convertRow(def, fields)
		if err != nil {
			result.Skipped++
			result.SkippedRows = append(result.SkippedRows, SkippedRow{
				FileName:   result.FileName,
				LineNumber: lineNum,
				Reason:     err.Error(),
				Data:       fields,
			})
			logging.FromContext(ctx).Debug("row skipped",
				"table", def.Info.Key, "file", result.FileName, "line", lineNum, "reason", err.Error())
			continue
		}
		if opts.onRow != nil {
			opts.onRow(lineNum, row)
		}

		outcome, err := stmt.exec(ctx, tx, row)
		if err != nil {
			logging.FromContext(ctx).Error("row write failed",
				"table", def.Info.Key, "file", result.FileName, "line", lineNum, "error", err)
			return fmt.Errorf("import %s line %d: %w", result.FileName, lineNum, err)
		}
		result.count(outcome)
	}

	if counter.BytesRead > s.maxFileSize {
		return fmt.Errorf("import %s: file too large (limit %d bytes)", result.FileName, s.maxFileSize)
	}
	if opts.dryRun {
		return nil
	}
	if err := s.recordRun(ctx, tx, runFromResult(result, RunCompleted, opts.start, nil), result.SkippedRows); err != nil {
		return fmt.Errorf("import %s: %w", result.FileName, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("import %s: commit: %w", result.FileName, err)
	}
	return nil
}

func isBlank(line string) bool {
	for _, r := range line {
		if r != ' ' && r != '\t' && r != ',' {
			return false
		}
	}
	return true
}
