// Package record holds the validated value types stored and served by
// racedata. Values are built through New* constructors, which derive
// identifiers and reject invalid fields; a constructed value is never
// modified in place.
package record

import (
	"time"

	"github.com/JonMunkholm/racedata/internal/raceid"
	"github.com/JonMunkholm/racedata/internal/racetype"
)

// Place is a venue on a race day.
type Place struct {
	ID       string
	RaceType racetype.RaceType
	DateTime time.Time
	Location string
}

// NewPlace builds a place and derives its identifier.
func NewPlace(rt racetype.RaceType, dateTime time.Time, location string) (Place, error) {
	if err := checkRaceType("place", rt); err != nil {
		return Place{}, err
	}
	if dateTime.IsZero() {
		return Place{}, fieldErr("place", "date_time", dateTime, "is required")
	}
	id, err := raceid.GeneratePlaceID(rt, dateTime, location)
	if err != nil {
		return Place{}, wrapFieldErr("place", "location", location, err)
	}
	return Place{ID: id, RaceType: rt, DateTime: dateTime, Location: location}, nil
}

// HeldDay records the meet counters of a JRA venue day.
type HeldDay struct {
	PlaceID      string
	RaceType     racetype.RaceType
	HeldTimes    int
	HeldDayTimes int
}

// NewHeldDay validates the place id and both counters. Held days exist only
// for JRA.
func NewHeldDay(placeID string, heldTimes, heldDayTimes int) (HeldDay, error) {
	if _, err := raceid.ValidatePlaceID(racetype.JRA, placeID); err != nil {
		return HeldDay{}, wrapFieldErr("held_day", "place_id", placeID, err)
	}
	if heldTimes < 1 {
		return HeldDay{}, fieldErr("held_day", "held_times", heldTimes, "must be at least 1")
	}
	if heldDayTimes < 1 {
		return HeldDay{}, fieldErr("held_day", "held_day_times", heldDayTimes, "must be at least 1")
	}
	return HeldDay{PlaceID: placeID, RaceType: racetype.JRA, HeldTimes: heldTimes, HeldDayTimes: heldDayTimes}, nil
}

// PlaceGrade is the grade of a keirin, autorace or boatrace meet day.
type PlaceGrade struct {
	PlaceID  string
	RaceType racetype.RaceType
	Grade    string
}

func NewPlaceGrade(rt racetype.RaceType, placeID, grade string) (PlaceGrade, error) {
	if err := checkRaceType("place_grade", rt); err != nil {
		return PlaceGrade{}, err
	}
	if !rt.IsMechanical() {
		return PlaceGrade{}, fieldErr("place_grade", "race_type", rt, "place grades exist only for keirin, autorace and boatrace")
	}
	if _, err := raceid.ValidatePlaceID(rt, placeID); err != nil {
		return PlaceGrade{}, wrapFieldErr("place_grade", "place_id", placeID, err)
	}
	if !racetype.ValidGrade(rt, grade) {
		return PlaceGrade{}, fieldErr("place_grade", "grade", grade, "not a "+rt.String()+" grade")
	}
	return PlaceGrade{PlaceID: placeID, RaceType: rt, Grade: grade}, nil
}

func checkRaceType(record string, rt racetype.RaceType) error {
	if !rt.Valid() {
		return wrapFieldErr(record, "race_type", rt, racetype.ErrUnknownRaceType)
	}
	return nil
}
