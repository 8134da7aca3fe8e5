package tables

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/racedata/internal/config"
	"github.com/JonMunkholm/racedata/internal/core"
	"github.com/JonMunkholm/racedata/internal/raceid"
	"github.com/JonMunkholm/racedata/internal/racetype"
	"github.com/JonMunkholm/racedata/internal/record"
	"github.com/JonMunkholm/racedata/internal/store"
)

func newService(t *testing.T) *core.Service {
	t.Helper()
	ctx := context.Background()
	st, err := store.Open(ctx, config.DatabaseConfig{
		Driver:      "sqlite",
		URL:         filepath.Join(t.TempDir(), "racedata.db"),
		BusyTimeout: time.Second,
	})
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.Migrate(ctx))

	svc, err := core.NewService(st, config.ImportConfig{
		Encoding:      core.EncodingUTF8,
		MaxFileSize:   1 << 20,
		Timeout:       time.Minute,
		MaxConcurrent: 1,
		LockWait:      time.Second,
	})
	require.NoError(t, err)
	return svc
}

func importCSV(t *testing.T, svc *core.Service, table, data string) *core.ImportResult {
	t.Helper()
	res, err := svc.ImportReader(context.Background(), table, table+".csv", strings.NewReader(data))
	require.NoError(t, err)
	return res
}

func TestConflictKeysMatchSchema(t *testing.T) {
	schema := store.Tables()
	defs := core.All()
	require.Len(t, defs, 6)
	for _, def := range defs {
		key, ok := schema[def.Info.Key]
		require.True(t, ok, "table %s missing from schema", def.Info.Key)
		assert.Equal(t, key, def.Info.ConflictKey, def.Info.Key)
	}
}

func TestImportOrder(t *testing.T) {
	var keys []string
	for _, def := range core.All() {
		keys = append(keys, def.Info.Key)
	}
	want := []string{"place", "held_day", "place_grade", "race", "player", "race_player"}
	if diff := cmp.Diff(want, keys); diff != "" {
		t.Errorf("import order mismatch (-want +got):\n%s", diff)
	}
}

func TestPlace_ExampleRow(t *testing.T) {
	svc := newService(t)
	data := "id,date_time,location_name,race_type\n" +
		"jra-20250407-tokyo-1,2025-04-07T00:00:00+09:00,東京,JRA\n"

	res := importCSV(t, svc, "place", data)
	assert.Equal(t, 1, res.Inserted)
	assert.Equal(t, 0, res.Updated)

	res = importCSV(t, svc, "place", data)
	assert.Equal(t, 0, res.Inserted)
	assert.Equal(t, 0, res.Updated)

	places, err := svc.ListPlaces(context.Background(), core.PlaceFilter{RaceType: racetype.JRA})
	require.NoError(t, err)
	require.Len(t, places, 1)
	assert.Equal(t, "jra-20250407-tokyo-1", places[0].ID)
	assert.True(t, places[0].DateTime.Equal(time.Date(2025, 4, 7, 0, 0, 0, 0, raceid.JST)))
}

func TestPlace_UnparseableDateIsSkipped(t *testing.T) {
	svc := newService(t)
	data := "id,date_time,location_name,race_type\n" +
		"p1,not-a-date,東京,JRA\n" +
		"p2,2025-04-07,東京競馬場,jra\n"

	res := importCSV(t, svc, "place", data)
	assert.Equal(t, 1, res.Inserted)
	assert.Equal(t, 0, res.Updated)
	assert.Equal(t, 1, res.Skipped)

	places, err := svc.ListPlaces(context.Background(), core.PlaceFilter{})
	require.NoError(t, err)
	require.Len(t, places, 1)
	assert.Equal(t, "東京", places[0].Location)
	assert.Equal(t, racetype.JRA, places[0].RaceType)
}

func TestRace_NameNormalizedOnImport(t *testing.T) {
	svc := newService(t)
	data := "id,race_type,name,date_time,location_name,grade,race_number,stage,surface_type,distance\n" +
		"jra202506010511,JRA,第92回 東京優駿,2025-06-01T15:40:00+09:00,東京,G1,11,,芝,2400\n" +
		"nar202506044411,NAR,第71回 東京ダービー(SⅠ),2025-06-04T20:10:00+09:00,大井,重賞,11,,ダ,2000\n" +
		"keirin202512302711,KEIRIN,KEIRINグランプリ,2025-12-30T16:30:00+09:00,平塚,GP,11,決勝,,\n"

	res := importCSV(t, svc, "race", data)
	require.Equal(t, 3, res.Inserted, "skipped: %+v", res.SkippedRows)

	ctx := context.Background()
	derby, err := svc.GetRace(ctx, "jra202506010511")
	require.NoError(t, err)
	assert.Equal(t, "日本ダービー", derby.Name)
	assert.Equal(t, "GⅠ", derby.Grade)
	assert.Equal(t, 2400, derby.Distance)

	tokyo, err := svc.GetRace(ctx, "nar202506044411")
	require.NoError(t, err)
	assert.Equal(t, "東京ダービー", tokyo.Name)
	assert.Equal(t, "ダート", tokyo.SurfaceType)

	gp, err := svc.GetRace(ctx, "keirin202512302711")
	require.NoError(t, err)
	assert.Equal(t, "KEIRINグランプリ", gp.Name)
	assert.Equal(t, "決勝", gp.Stage)
	assert.Empty(t, gp.SurfaceType)
	assert.Zero(t, gp.Distance)

	_, err = svc.GetRace(ctx, "jra209901010101")
	assert.ErrorIs(t, err, core.ErrNotFound)

	// Normalized names are stable, so a second import changes nothing.
	res = importCSV(t, svc, "race", data)
	assert.Equal(t, 3, res.Unchanged)
}

func TestListRaces_Filters(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	base := record.Race{
		RaceType:    racetype.JRA,
		Name:        "未勝利",
		DateTime:    time.Date(2025, 6, 1, 10, 0, 0, 0, raceid.JST),
		Location:    "東京",
		Grade:       "未勝利",
		Number:      1,
		SurfaceType: "芝",
		Distance:    1600,
	}
	r1, err := record.NewRace(base)
	require.NoError(t, err)
	r2, err := r1.With(record.WithNumber(11), record.WithName("東京優駿"), record.WithGrade("GⅠ"),
		record.WithDateTime(time.Date(2025, 6, 1, 15, 40, 0, 0, raceid.JST)), record.WithDistance(2400))
	require.NoError(t, err)
	r3, err := r1.With(record.WithLocation("京都"), record.WithDateTime(time.Date(2025, 6, 2, 10, 0, 0, 0, raceid.JST)))
	require.NoError(t, err)

	for _, r := range []record.Race{r1, r2, r3} {
		outcome, err := svc.SaveRace(ctx, r)
		require.NoError(t, err)
		assert.Equal(t, core.Inserted, outcome)
	}

	outcome, err := svc.SaveRace(ctx, r1)
	require.NoError(t, err)
	assert.Equal(t, core.Unchanged, outcome)

	races, err := svc.ListRaces(ctx, core.RaceFilter{RaceType: racetype.JRA, Location: "東京"})
	require.NoError(t, err)
	require.Len(t, races, 2)
	assert.Equal(t, r1.ID, races[0].ID)
	assert.Equal(t, "日本ダービー", races[1].Name)

	races, err = svc.ListRaces(ctx, core.RaceFilter{Grade: "GⅠ"})
	require.NoError(t, err)
	require.Len(t, races, 1)
	assert.Equal(t, r2.ID, races[0].ID)

	races, err = svc.ListRaces(ctx, core.RaceFilter{
		From: time.Date(2025, 6, 2, 0, 0, 0, 0, raceid.JST),
	})
	require.NoError(t, err)
	require.Len(t, races, 1)
	assert.Equal(t, "京都", races[0].Location)

	got, err := svc.GetRace(ctx, r2.ID)
	require.NoError(t, err)
	assert.True(t, r2.DateTime.Equal(got.DateTime))
	got.DateTime = r2.DateTime
	if diff := cmp.Diff(r2, got); diff != "" {
		t.Errorf("race round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestSave_AllRecordKinds(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	day := time.Date(2025, 12, 30, 0, 0, 0, 0, raceid.JST)

	place, err := record.NewPlace(racetype.Keirin, day, "平塚")
	require.NoError(t, err)
	grade, err := record.NewPlaceGrade(racetype.Keirin, place.ID, "GP")
	require.NoError(t, err)
	player, err := record.NewPlayer(racetype.Keirin, 14396, "脇本雄太", 6)
	require.NoError(t, err)
	race, err := record.NewRace(record.Race{
		RaceType: racetype.Keirin, Name: "KEIRINグランプリ", DateTime: day.Add(16 * time.Hour),
		Location: "平塚", Grade: "GP", Number: 11, Stage: "決勝",
	})
	require.NoError(t, err)
	rp, err := record.NewRacePlayer(racetype.Keirin, race.ID, 1, player.PlayerNumber)
	require.NoError(t, err)

	jraPlace, err := record.NewPlace(racetype.JRA, day, "中山")
	require.NoError(t, err)
	held, err := record.NewHeldDay(jraPlace.ID, 5, 9)
	require.NoError(t, err)

	saves := []func() (core.Outcome, error){
		func() (core.Outcome, error) { return svc.SavePlace(ctx, place) },
		func() (core.Outcome, error) { return svc.SavePlaceGrade(ctx, grade) },
		func() (core.Outcome, error) { return svc.SavePlayer(ctx, player) },
		func() (core.Outcome, error) { return svc.SaveRace(ctx, race) },
		func() (core.Outcome, error) { return svc.SaveRacePlayer(ctx, rp) },
		func() (core.Outcome, error) { return svc.SavePlace(ctx, jraPlace) },
		func() (core.Outcome, error) { return svc.SaveHeldDay(ctx, held) },
	}
	for i, save := range saves {
		outcome, err := save()
		require.NoError(t, err, "save %d", i)
		assert.Equal(t, core.Inserted, outcome, "save %d", i)
	}

	player.Priority = 5
	outcome, err := svc.SavePlayer(ctx, player)
	require.NoError(t, err)
	assert.Equal(t, core.Updated, outcome)

	players, err := svc.ListPlayers(ctx, racetype.Keirin)
	require.NoError(t, err)
	require.Len(t, players, 1)
	assert.Equal(t, 5, players[0].Priority)

	for _, key := range []string{"place", "place_grade", "player", "race", "race_player", "held_day"} {
		n, err := svc.TableRowCount(ctx, key)
		require.NoError(t, err)
		assert.Positive(t, n, key)
	}
}

func TestPlayer_PriorityOutOfRangeIsSkipped(t *testing.T) {
	svc := newService(t)
	res := importCSV(t, svc, "player", "race_type,player_number,name,priority\n"+
		"keirin,1,a,7\n"+
		"KEIRIN,2,b,3\n")
	assert.Equal(t, 1, res.Inserted)
	require.Equal(t, 1, res.Skipped)
	assert.Contains(t, res.SkippedRows[0].Reason, "priority")
}

func TestImportDir_AllTables(t *testing.T) {
	svc := newService(t)
	dir := t.TempDir()
	files := map[string]string{
		"place.csv":       "h\njra2025060105,2025-06-01,東京,JRA\n",
		"held_day.csv":    "h\njra2025060105,JRA,3,2\n",
		"place_grade.csv": "h\nkeirin2025123035,KEIRIN,GP\n",
		"race.csv":        "h\njra202506010501,JRA,未勝利,2025-06-01T10:00:00+09:00,東京,未勝利,1,,芝,1600\n",
		"player.csv":      "h\nKEIRIN,14396,脇本雄太,6\n",
		"race_player.csv": "h\nkeirin20251230351101,KEIRIN,keirin202512303511,1,14396\n",
	}
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}

	results, err := svc.ImportDir(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, results, 6)
	for _, res := range results {
		assert.Equal(t, 1, res.Inserted, res.TableKey)
		assert.Zero(t, res.Skipped, "%s: %+v", res.TableKey, res.SkippedRows)
	}

	runs, err := svc.ImportHistory(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, runs, 6)
}

func TestNormalizers(t *testing.T) {
	tests := []struct {
		fn   func(string) string
		in   string
		want string
	}{
		{NormalizeRaceType, " jra ", "JRA"},
		{NormalizeRaceType, "World", "OVERSEAS"},
		{NormalizeRaceType, "dogs", "dogs"},
		{NormalizeLocation, "東京競馬場", "東京"},
		{NormalizeLocation, "平塚競輪場", "平塚"},
		{NormalizeLocation, "競馬場", "競馬場"},
		{NormalizeLocation, "大井", "大井"},
		{NormalizeGrade, "G1", "GⅠ"},
		{NormalizeGrade, "Ｇ１", "GⅠ"},
		{NormalizeGrade, "GIII", "GⅢ"},
		{NormalizeGrade, "Jpn2", "JpnⅡ"},
		{NormalizeGrade, "J.G1", "J.GⅠ"},
		{NormalizeGrade, "F1", "FⅠ"},
		{NormalizeGrade, "L", "Listed"},
		{NormalizeGrade, "GⅠ", "GⅠ"},
		{NormalizeGrade, "未勝利", "未勝利"},
		{NormalizeSurface, "ダ", "ダート"},
		{NormalizeSurface, "Turf", "芝"},
		{NormalizeSurface, "芝", "芝"},
		{NormalizeSurface, "ﾀﾞｰﾄ", "ダート"},
		{NormalizeLocation, "戸田ﾎﾞｰﾄﾚｰｽ場", "戸田"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.fn(tt.in), "input %q", tt.in)
	}
}
