package tables

import (
	"github.com/JonMunkholm/racedata/internal/core"
)

func init() {
	registerPlace()
	registerHeldDay()
	registerPlaceGrade()
}

func raceTypeField() core.FieldSpec {
	return core.FieldSpec{
		Name:       "race_type",
		Type:       core.FieldEnum,
		Required:   true,
		EnumValues: raceTypeNames(),
		Normalizer: NormalizeRaceType,
	}
}

func registerPlace() {
	core.Register(core.TableDefinition{
		Info: core.TableInfo{
			Key:         "place",
			Label:       "Places",
			Order:       1,
			ConflictKey: []string{"id"},
		},
		FieldSpecs: []core.FieldSpec{
			{Name: "id", Type: core.FieldText, Required: true},
			{Name: "date_time", Type: core.FieldDateTime, Required: true},
			{Name: "location_name", Type: core.FieldText, Required: true, Normalizer: NormalizeLocation},
			raceTypeField(),
		},
	})
}

func registerHeldDay() {
	core.Register(core.TableDefinition{
		Info: core.TableInfo{
			Key:         "held_day",
			Label:       "Held Days",
			Order:       2,
			ConflictKey: []string{"id"},
		},
		FieldSpecs: []core.FieldSpec{
			{Name: "id", Type: core.FieldText, Required: true},
			raceTypeField(),
			{Name: "held_times", Type: core.FieldInt, Required: true},
			{Name: "held_day_times", Type: core.FieldInt, Required: true},
		},
	})
}

func registerPlaceGrade() {
	core.Register(core.TableDefinition{
		Info: core.TableInfo{
			Key:         "place_grade",
			Label:       "Place Grades",
			Order:       3,
			ConflictKey: []string{"id"},
		},
		FieldSpecs: []core.FieldSpec{
			{Name: "id", Type: core.FieldText, Required: true},
			raceTypeField(),
			{Name: "grade", Type: core.FieldText, Required: true, Normalizer: NormalizeGrade},
		},
	})
}
