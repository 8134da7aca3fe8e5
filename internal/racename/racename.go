// Package racename shortens official race titles to the canonical display
// names used in schedules and calendar entries.
//
// Normalization is a best-effort display transform: it never fails, and a
// name that no rule applies to is returned unchanged.
package racename

import (
	"time"

	"github.com/JonMunkholm/racedata/internal/racetype"
)

// Input carries the race attributes the rules look at. Only Name is used by
// the overseas rules and Name plus Place by the NAR rules.
type Input struct {
	Name        string
	Place       string
	Grade       string
	Date        time.Time
	SurfaceType string
	Distance    int
}

// Normalize applies the rules for the race type. Race types without rules
// return the name as is.
func Normalize(rt racetype.RaceType, in Input) string {
	switch rt {
	case racetype.JRA:
		return NormalizeJRA(in)
	case racetype.NAR:
		return NormalizeNAR(in.Name, in.Place)
	case racetype.Overseas:
		return NormalizeOverseas(in.Name)
	default:
		return in.Name
	}
}
