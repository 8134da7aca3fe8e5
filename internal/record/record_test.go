package record

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/racedata/internal/raceid"
	"github.com/JonMunkholm/racedata/internal/racetype"
)

var derbyDay = time.Date(2025, 6, 1, 15, 40, 0, 0, raceid.JST)

func derby() Race {
	return Race{
		RaceType:    racetype.JRA,
		Name:        "東京優駿",
		DateTime:    derbyDay,
		Location:    "東京",
		Grade:       "GⅠ",
		Number:      11,
		SurfaceType: "芝",
		Distance:    2400,
	}
}

func TestNewPlace(t *testing.T) {
	p, err := NewPlace(racetype.JRA, derbyDay, "東京")
	require.NoError(t, err)
	assert.Equal(t, "jra2025060105", p.ID)

	_, err = NewPlace(racetype.JRA, derbyDay, "大井")
	var ferr *FieldError
	require.True(t, errors.As(err, &ferr))
	assert.Equal(t, "location", ferr.Field)
	assert.True(t, errors.Is(err, racetype.ErrUnknownLocation))

	_, err = NewPlace(racetype.RaceType("DOGS"), derbyDay, "東京")
	assert.True(t, errors.Is(err, racetype.ErrUnknownRaceType))
}

func TestNewHeldDay(t *testing.T) {
	h, err := NewHeldDay("jra2025060105", 2, 12)
	require.NoError(t, err)
	assert.Equal(t, racetype.JRA, h.RaceType)

	_, err = NewHeldDay("jra2025060105", 0, 1)
	assert.Error(t, err)

	_, err = NewHeldDay("nar2025060144", 1, 1)
	assert.True(t, errors.Is(err, raceid.ErrPrefixMismatch))
}

func TestNewPlaceGrade(t *testing.T) {
	_, err := NewPlaceGrade(racetype.Keirin, "keirin2025010227", "GP")
	require.NoError(t, err)

	_, err = NewPlaceGrade(racetype.Keirin, "keirin2025010227", "SG")
	assert.Error(t, err, "SG is a boatrace/autorace grade")

	_, err = NewPlaceGrade(racetype.JRA, "jra2025060105", "GⅠ")
	assert.Error(t, err)
}

func TestNewRace(t *testing.T) {
	r, err := NewRace(derby())
	require.NoError(t, err)

	want := derby()
	want.ID = "jra202506010511"
	want.Name = "日本ダービー"
	if diff := cmp.Diff(want, r); diff != "" {
		t.Errorf("NewRace() mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "jra2025060105", r.PlaceID())
}

func TestNewRace_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*Race)
		field string
	}{
		{"empty name", func(r *Race) { r.Name = "  " }, "name"},
		{"zero date", func(r *Race) { r.DateTime = time.Time{} }, "date_time"},
		{"unknown grade", func(r *Race) { r.Grade = "SG" }, "grade"},
		{"missing surface", func(r *Race) { r.SurfaceType = "" }, "surface_type"},
		{"missing distance", func(r *Race) { r.Distance = 0 }, "distance"},
		{"unknown location", func(r *Race) { r.Location = "ロンドン" }, "location"},
		{"race number 13", func(r *Race) { r.Number = 13 }, "number"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := derby()
			tt.edit(&r)
			_, err := NewRace(r)
			var ferr *FieldError
			require.True(t, errors.As(err, &ferr), "got %v", err)
			assert.Equal(t, tt.field, ferr.Field)
		})
	}
}

func TestNewRace_MechanicalDropsHorseFields(t *testing.T) {
	r, err := NewRace(Race{
		RaceType:    racetype.Keirin,
		Name:        "KEIRINグランプリ",
		DateTime:    time.Date(2025, 12, 30, 16, 30, 0, 0, raceid.JST),
		Location:    "平塚",
		Grade:       "GP",
		Number:      11,
		Stage:       "S級グランプリ",
		SurfaceType: "芝",
		Distance:    2025,
	})
	require.NoError(t, err)
	assert.Empty(t, r.SurfaceType)
	assert.Zero(t, r.Distance)
	assert.Equal(t, "KEIRINグランプリ", r.Name)
}

func TestRace_With(t *testing.T) {
	orig, err := NewRace(derby())
	require.NoError(t, err)

	next, err := orig.With(WithNumber(10), WithName("むらさき賞"), WithGrade("3勝クラス"))
	require.NoError(t, err)
	assert.Equal(t, "jra202506010510", next.ID)
	assert.Equal(t, "むらさき賞", next.Name)

	// receiver unchanged
	assert.Equal(t, "jra202506010511", orig.ID)
	assert.Equal(t, "日本ダービー", orig.Name)

	_, err = orig.With(WithNumber(0))
	assert.True(t, errors.Is(err, raceid.ErrOutOfRange))
}

func TestNewPlayer(t *testing.T) {
	p, err := NewPlayer(racetype.Keirin, 15000, " 脇本雄太 ", 6)
	require.NoError(t, err)
	assert.Equal(t, "脇本雄太", p.Name)

	for _, prio := range []int{-1, 7} {
		_, err := NewPlayer(racetype.Keirin, 15000, "脇本雄太", prio)
		assert.Error(t, err, "priority %d", prio)
	}
	_, err = NewPlayer(racetype.JRA, 1, "x", 0)
	assert.Error(t, err)
}

func TestNewRacePlayer(t *testing.T) {
	rp, err := NewRacePlayer(racetype.Boatrace, "boatrace202512231212", 1, 4444)
	require.NoError(t, err)
	assert.Equal(t, "boatrace20251223121201", rp.ID)

	_, err = NewRacePlayer(racetype.Boatrace, "boatrace202512231212", 7, 4444)
	assert.True(t, errors.Is(err, raceid.ErrOutOfRange))

	_, err = NewRacePlayer(racetype.Boatrace, "boatrace2025122312", 1, 4444)
	assert.True(t, errors.Is(err, raceid.ErrPatternMismatch))
}
