package core

import (
	"testing"

	"github.com/JonMunkholm/racedata/internal/store"
)

func mustDialect(t *testing.T, driver string) store.Dialect {
	t.Helper()
	d, err := store.DialectFor(driver)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestBuildUpsert_SQLite(t *testing.T) {
	info := TableInfo{
		Key:         "place",
		ConflictKey: []string{"id"},
		Columns:     []string{"id", "date_time", "location_name"},
	}
	u := buildUpsert(mustDialect(t, "sqlite"), info)

	wantInsert := "INSERT INTO place (id, date_time, location_name) VALUES (?, ?, ?) " +
		"ON CONFLICT (id) DO UPDATE SET date_time = excluded.date_time, location_name = excluded.location_name " +
		"WHERE place.date_time IS NOT excluded.date_time OR place.location_name IS NOT excluded.location_name"
	if u.insert != wantInsert {
		t.Errorf("insert =\n%s\nwant\n%s", u.insert, wantInsert)
	}
	if want := "SELECT 1 FROM place WHERE id = ?"; u.exists != want {
		t.Errorf("exists = %q, want %q", u.exists, want)
	}
}

func TestBuildUpsert_PostgresCompositeKey(t *testing.T) {
	info := TableInfo{
		Key:         "player",
		ConflictKey: []string{"race_type", "player_number"},
		Columns:     []string{"race_type", "player_number", "name"},
	}
	u := buildUpsert(mustDialect(t, "pgx"), info)

	wantInsert := "INSERT INTO player (race_type, player_number, name) VALUES ($1, $2, $3) " +
		"ON CONFLICT (race_type, player_number) DO UPDATE SET name = excluded.name " +
		"WHERE player.name IS DISTINCT FROM excluded.name"
	if u.insert != wantInsert {
		t.Errorf("insert =\n%s\nwant\n%s", u.insert, wantInsert)
	}
	if want := "SELECT 1 FROM player WHERE race_type = $1 AND player_number = $2"; u.exists != want {
		t.Errorf("exists = %q, want %q", u.exists, want)
	}
}

func TestBuildUpsert_KeyOnlyTable(t *testing.T) {
	info := TableInfo{Key: "k", ConflictKey: []string{"id"}, Columns: []string{"id"}}
	u := buildUpsert(mustDialect(t, "sqlite"), info)
	if want := "INSERT INTO k (id) VALUES (?) ON CONFLICT (id) DO NOTHING"; u.insert != want {
		t.Errorf("insert = %q, want %q", u.insert, want)
	}
}

func TestOutcomeString(t *testing.T) {
	for o, want := range map[Outcome]string{Inserted: "inserted", Updated: "updated", Unchanged: "unchanged"} {
		if got := o.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", o, got, want)
		}
	}
}
