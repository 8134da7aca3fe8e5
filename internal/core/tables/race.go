package tables

import (
	"time"

	"github.com/JonMunkholm/racedata/internal/core"
	"github.com/JonMunkholm/racedata/internal/racename"
	"github.com/JonMunkholm/racedata/internal/racetype"
)

func init() {
	registerRace()
	registerRacePlayer()
}

func registerRace() {
	core.Register(core.TableDefinition{
		Info: core.TableInfo{
			Key:         "race",
			Label:       "Races",
			Order:       4,
			ConflictKey: []string{"id"},
		},
		FieldSpecs: []core.FieldSpec{
			{Name: "id", Type: core.FieldText, Required: true},
			raceTypeField(),
			{Name: "name", Type: core.FieldText, Required: true},
			{Name: "date_time", Type: core.FieldDateTime, Required: true},
			{Name: "location_name", Type: core.FieldText, Required: true, Normalizer: NormalizeLocation},
			{Name: "grade", Type: core.FieldText, Required: true, Normalizer: NormalizeGrade},
			{Name: "race_number", Type: core.FieldInt, Required: true},
			{Name: "stage", Type: core.FieldText},
			{Name: "surface_type", Type: core.FieldText, Normalizer: NormalizeSurface},
			{Name: "distance", Type: core.FieldInt},
		},
		Transform: normalizeRaceName,
	})
}

// normalizeRaceName rewrites the name column into its canonical form for
// the race type, the same way record.NewRace does.
func normalizeRaceName(row core.Row) error {
	in := racename.Input{
		Name: row["name"].(string),
		Date: row["date_time"].(time.Time),
	}
	in.Place, _ = row["location_name"].(string)
	in.Grade, _ = row["grade"].(string)
	in.SurfaceType, _ = row["surface_type"].(string)
	if d, ok := row["distance"].(int64); ok {
		in.Distance = int(d)
	}

	row["name"] = racename.Normalize(racetype.RaceType(row["race_type"].(string)), in)
	return nil
}

func registerRacePlayer() {
	core.Register(core.TableDefinition{
		Info: core.TableInfo{
			Key:         "race_player",
			Label:       "Race Players",
			Order:       6,
			ConflictKey: []string{"id"},
		},
		FieldSpecs: []core.FieldSpec{
			{Name: "id", Type: core.FieldText, Required: true},
			raceTypeField(),
			{Name: "race_id", Type: core.FieldText, Required: true},
			{Name: "position_number", Type: core.FieldInt, Required: true},
			{Name: "player_number", Type: core.FieldInt, Required: true},
		},
	})
}
