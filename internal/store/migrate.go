package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/JonMunkholm/racedata/internal/logging"
)

// table describes one schema table. Key is the primary key and also the
// conflict target importers upsert on.
type table struct {
	name    string
	columns []string // column definitions, timestamps excluded
	key     []string
	indexes []string // CREATE INDEX bodies: "name ON table(cols)"
}

// Tables lists the primary key of every schema table, keyed by table name.
func Tables() map[string][]string {
	out := make(map[string][]string, len(schema))
	for _, t := range schema {
		out[t.name] = append([]string(nil), t.key...)
	}
	return out
}

// schema is ordered; later tables may refer to earlier ones by id.
var schema = []table{
	{
		name: "place",
		columns: []string{
			"id TEXT NOT NULL",
			"race_type TEXT NOT NULL",
			"date_time {ts} NOT NULL",
			"location_name TEXT NOT NULL",
		},
		key:     []string{"id"},
		indexes: []string{"idx_place_type_date ON place(race_type, date_time)"},
	},
	{
		name: "held_day",
		columns: []string{
			"id TEXT NOT NULL",
			"race_type TEXT NOT NULL",
			"held_times INTEGER NOT NULL",
			"held_day_times INTEGER NOT NULL",
		},
		key: []string{"id"},
	},
	{
		name: "place_grade",
		columns: []string{
			"id TEXT NOT NULL",
			"race_type TEXT NOT NULL",
			"grade TEXT NOT NULL",
		},
		key: []string{"id"},
	},
	{
		name: "race",
		columns: []string{
			"id TEXT NOT NULL",
			"race_type TEXT NOT NULL",
			"name TEXT NOT NULL",
			"date_time {ts} NOT NULL",
			"location_name TEXT NOT NULL",
			"grade TEXT NOT NULL",
			"race_number INTEGER NOT NULL",
			"stage TEXT",
			"surface_type TEXT",
			"distance INTEGER",
		},
		key: []string{"id"},
		indexes: []string{
			"idx_race_type_date ON race(race_type, date_time)",
			"idx_race_location ON race(location_name)",
		},
	},
	{
		name: "player",
		columns: []string{
			"race_type TEXT NOT NULL",
			"player_number INTEGER NOT NULL",
			"name TEXT NOT NULL",
			"priority INTEGER NOT NULL DEFAULT 0",
		},
		key: []string{"race_type", "player_number"},
	},
	{
		name: "race_player",
		columns: []string{
			"id TEXT NOT NULL",
			"race_type TEXT NOT NULL",
			"race_id TEXT NOT NULL",
			"position_number INTEGER NOT NULL",
			"player_number INTEGER NOT NULL",
		},
		key:     []string{"id"},
		indexes: []string{"idx_race_player_race ON race_player(race_id)"},
	},
	{
		name: "import_run",
		columns: []string{
			"run_id TEXT NOT NULL",
			"table_key TEXT NOT NULL",
			"file_name TEXT NOT NULL",
			"status TEXT NOT NULL",
			"total_rows INTEGER NOT NULL DEFAULT 0",
			"inserted INTEGER NOT NULL DEFAULT 0",
			"updated INTEGER NOT NULL DEFAULT 0",
			"unchanged INTEGER NOT NULL DEFAULT 0",
			"skipped INTEGER NOT NULL DEFAULT 0",
			"skipped_rows TEXT",
			"error TEXT",
			"started_at {ts} NOT NULL",
			"duration_ms INTEGER NOT NULL DEFAULT 0",
		},
		key:     []string{"run_id"},
		indexes: []string{"idx_import_run_started ON import_run(started_at)"},
	},
}

// Statements returns the ordered migration statements for a dialect.
func Statements(d Dialect) []string {
	var stmts []string
	for _, t := range schema {
		stmts = append(stmts, createTable(d, t))
		for _, idx := range t.indexes {
			stmts = append(stmts, "CREATE INDEX IF NOT EXISTS "+idx)
		}
		stmts = append(stmts, d.TouchTrigger(t.name, t.key)...)
	}
	return stmts
}

func createTable(d Dialect, t table) string {
	ts := d.TimestampType()
	var b strings.Builder
	b.WriteString("CREATE TABLE IF NOT EXISTS " + t.name + " (\n")
	for _, col := range t.columns {
		b.WriteString("\t" + strings.Replace(col, "{ts}", ts, 1) + ",\n")
	}
	fmt.Fprintf(&b, "\tcreated_at %s NOT NULL DEFAULT CURRENT_TIMESTAMP,\n", ts)
	fmt.Fprintf(&b, "\tupdated_at %s NOT NULL DEFAULT CURRENT_TIMESTAMP,\n", ts)
	b.WriteString("\tPRIMARY KEY (" + strings.Join(t.key, ", ") + ")\n)")
	return b.String()
}

// Migrate applies every schema statement inside one transaction. Each
// statement is idempotent, so running Migrate on an up-to-date database
// changes nothing.
func (s *Store) Migrate(ctx context.Context) error {
	log := logging.WithFields(ctx, "dialect", s.dialect.Name())
	start := time.Now()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("migrate: begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmts := Statements(s.dialect)
	for i, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			log.Error("migration statement failed", "index", i, "error", err)
			return fmt.Errorf("migrate: statement %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		log.Error("migration commit failed", "error", err)
		return fmt.Errorf("migrate: commit: %w", err)
	}

	log.Info("migrations applied",
		"statements", len(stmts),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}
