package store

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/racedata/internal/config"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), config.DatabaseConfig{
		Driver:      "sqlite",
		URL:         filepath.Join(t.TempDir(), "nested", "racedata.db"),
		BusyTimeout: time.Second,
	})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), config.DatabaseConfig{Driver: "mysql", URL: "x"})
	assert.Error(t, err)
}

func TestClose_Idempotent(t *testing.T) {
	s := openTemp(t)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
}

func TestMigrate_Idempotent(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	require.NoError(t, s.Migrate(ctx))
	require.NoError(t, s.Migrate(ctx))

	rows, err := s.DB().QueryContext(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'table' ORDER BY name`)
	require.NoError(t, err)
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		require.NoError(t, rows.Scan(&n))
		names = append(names, n)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, []string{"held_day", "import_run", "place", "place_grade", "player", "race", "race_player"}, names)
}

func TestMigrate_TouchTrigger(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	require.NoError(t, s.Migrate(ctx))

	db := s.DB()
	_, err := db.ExecContext(ctx,
		`INSERT INTO player (race_type, player_number, name, priority, updated_at)
		 VALUES ('KEIRIN', 1, 'a', 0, '2000-01-01 00:00:00')`)
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, `UPDATE player SET priority = 3 WHERE race_type = 'KEIRIN' AND player_number = 1`)
	require.NoError(t, err)

	var updated time.Time
	require.NoError(t, db.QueryRowContext(ctx,
		`SELECT updated_at FROM player WHERE race_type = 'KEIRIN' AND player_number = 1`).Scan(&updated))
	assert.True(t, updated.Year() > 2000, "updated_at = %v", updated)
}

func TestStatements_Postgres(t *testing.T) {
	stmts := Statements(postgresDialect{})
	joined := strings.Join(stmts, "\n")
	assert.Contains(t, joined, "date_time TIMESTAMPTZ NOT NULL")
	assert.Contains(t, joined, "CREATE OR REPLACE TRIGGER race_touch_updated_at")
	assert.Contains(t, joined, "PRIMARY KEY (race_type, player_number)")
	assert.NotContains(t, joined, "{ts}")
}

func TestRebind(t *testing.T) {
	pg := postgresDialect{}
	assert.Equal(t,
		"INSERT INTO t (a, b) VALUES ($1, $2) ON CONFLICT (a) DO UPDATE SET b = excluded.b WHERE t.b <> '?'",
		pg.Rebind("INSERT INTO t (a, b) VALUES (?, ?) ON CONFLICT (a) DO UPDATE SET b = excluded.b WHERE t.b <> '?'"))

	q := "SELECT 1 WHERE a = ?"
	assert.Equal(t, q, sqliteDialect{}.Rebind(q))
}

func TestDistinct(t *testing.T) {
	assert.Equal(t, "t.a IS NOT excluded.a", sqliteDialect{}.Distinct("t.a", "excluded.a"))
	assert.Equal(t, "t.a IS DISTINCT FROM excluded.a", postgresDialect{}.Distinct("t.a", "excluded.a"))
}

func TestTables(t *testing.T) {
	keys := Tables()
	assert.Equal(t, []string{"id"}, keys["race"])
	assert.Equal(t, []string{"race_type", "player_number"}, keys["player"])

	keys["race"][0] = "mutated"
	assert.Equal(t, []string{"id"}, Tables()["race"])
}
