package tables

import (
	"fmt"

	"github.com/JonMunkholm/racedata/internal/core"
	"github.com/JonMunkholm/racedata/internal/record"
)

func init() {
	core.Register(core.TableDefinition{
		Info: core.TableInfo{
			Key:         "player",
			Label:       "Players",
			Order:       5,
			ConflictKey: []string{"race_type", "player_number"},
		},
		FieldSpecs: []core.FieldSpec{
			raceTypeField(),
			{Name: "player_number", Type: core.FieldInt, Required: true},
			{Name: "name", Type: core.FieldText, Required: true},
			{Name: "priority", Type: core.FieldInt, Required: true},
		},
		Transform: checkPriority,
	})
}

func checkPriority(row core.Row) error {
	p := row["priority"].(int64)
	if p < record.MinPriority || p > record.MaxPriority {
		return fmt.Errorf("priority %d must be between %d and %d", p, record.MinPriority, record.MaxPriority)
	}
	return nil
}
