package core

// audit.go records every import run in the import_run table so a failed or
// partial import can be traced after the fact. A completed run is written in
// the import's own transaction; a failed run is written after the rollback.

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/JonMunkholm/racedata/internal/logging"
)

// RunStatus is the final state of an import run.
type RunStatus string

const (
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
)

// ImportRun is one row of the import history.
type ImportRun struct {
	RunID     string
	TableKey  string
	FileName  string
	Status    RunStatus
	TotalRows int
	Inserted  int
	Updated   int
	Unchanged int
	Skipped   int
	Error     string
	StartedAt time.Time
	Duration  time.Duration
}

// maxAuditedSkips caps the skipped rows kept per run.
const maxAuditedSkips = 100

func runFromResult(res *ImportResult, status RunStatus, started time.Time, runErr error) ImportRun {
	run := ImportRun{
		RunID:     res.RunID,
		TableKey:  res.TableKey,
		FileName:  res.FileName,
		Status:    status,
		TotalRows: res.TotalRows,
		Inserted:  res.Inserted,
		Updated:   res.Updated,
		Unchanged: res.Unchanged,
		Skipped:   res.Skipped,
		StartedAt: started,
		Duration:  time.Since(started),
	}
	if runErr != nil {
		run.Error = runErr.Error()
	}
	return run
}

// recordRun inserts the history row for a run.
func (s *Service) recordRun(ctx context.Context, db DBTX, run ImportRun, skipped []SkippedRow) error {
	var skippedJSON any
	if len(skipped) > 0 {
		if len(skipped) > maxAuditedSkips {
			skipped = skipped[:maxAuditedSkips]
		}
		b, err := json.Marshal(skipped)
		if err == nil {
			skippedJSON = string(b)
		}
	}
	var errText any
	if run.Error != "" {
		errText = run.Error
	}

	_, err := db.ExecContext(ctx, s.dialect.Rebind(`INSERT INTO import_run
		(run_id, table_key, file_name, status, total_rows, inserted, updated, unchanged, skipped,
		 skipped_rows, error, started_at, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		run.RunID, run.TableKey, run.FileName, string(run.Status),
		int64(run.TotalRows), int64(run.Inserted), int64(run.Updated), int64(run.Unchanged), int64(run.Skipped),
		skippedJSON, errText, run.StartedAt.UTC(), run.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("record import run: %w", err)
	}
	return nil
}

// recordFailedRun stores a failed run outside the rolled-back transaction.
// Failures to record are logged, not returned.
func (s *Service) recordFailedRun(ctx context.Context, res *ImportResult, started time.Time, runErr error) {
	ctx = context.WithoutCancel(ctx)
	run := runFromResult(res, RunFailed, started, runErr)
	if err := s.recordRun(ctx, s.db, run, res.SkippedRows); err != nil {
		logging.FromContext(ctx).Warn("import run not recorded", "error", err)
	}
}

// ImportHistory returns the most recent import runs, newest first.
func (s *Service) ImportHistory(ctx context.Context, limit int) ([]ImportRun, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, s.dialect.Rebind(`SELECT
		run_id, table_key, file_name, status, total_rows, inserted, updated, unchanged, skipped,
		COALESCE(error, ''), started_at, duration_ms
		FROM import_run ORDER BY started_at DESC, run_id LIMIT ?`), limit)
	if err != nil {
		return nil, fmt.Errorf("import history: %w", err)
	}
	defer rows.Close()

	var runs []ImportRun
	for rows.Next() {
		var (
			r      ImportRun
			status string
			ms     int64
		)
		if err := rows.Scan(&r.RunID, &r.TableKey, &r.FileName, &status,
			&r.TotalRows, &r.Inserted, &r.Updated, &r.Unchanged, &r.Skipped,
			&r.Error, &r.StartedAt, &ms); err != nil {
			return nil, fmt.Errorf("import history: scan: %w", err)
		}
		r.Status = RunStatus(status)
		r.Duration = time.Duration(ms) * time.Millisecond
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("import history: %w", err)
	}
	return runs, nil
}

// SkippedRowsOf returns the skipped rows stored for a run.
func (s *Service) SkippedRowsOf(ctx context.Context, runID string) ([]SkippedRow, error) {
	var raw *string
	err := s.db.QueryRowContext(ctx, s.dialect.Rebind(
		"SELECT skipped_rows FROM import_run WHERE run_id = ?"), runID).Scan(&raw)
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("import run %s: %w", runID, ErrNotFound)
		}
		return nil, fmt.Errorf("import run %s: %w", runID, err)
	}
	if raw == nil {
		return nil, nil
	}
	var skipped []SkippedRow
	if err := json.Unmarshal([]byte(*raw), &skipped); err != nil {
		return nil, fmt.Errorf("import run %s: decode skipped rows: %w", runID, err)
	}
	return skipped, nil
}
