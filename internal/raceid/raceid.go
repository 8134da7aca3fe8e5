// Package raceid builds and validates the composite string identifiers used as
// storage keys and calendar event ids:
//
//	{race type tag}{YYYYMMDD}{venue code}[{race number}[{position number}]]
//
// The tag is the lowercase race type, the date is the race day in Japan
// Standard Time, the venue code is two digits and the race and position
// numbers are zero padded to two digits.
package raceid

import (
	"fmt"
	"time"

	"github.com/JonMunkholm/racedata/internal/racetype"
)

// JST is the zone race days are reckoned in.
var JST = time.FixedZone("JST", 9*60*60)

const dateLayout = "20060102"

// Digits following the tag for each identifier kind.
const (
	placeDigits  = 8 + 2
	raceDigits   = placeDigits + 2
	playerDigits = raceDigits + 2
)

// GeneratePlaceID returns the place identifier for a venue on a race day.
func GeneratePlaceID(rt racetype.RaceType, dateTime time.Time, location string) (string, error) {
	code, err := racetype.LocationCode(rt, location)
	if err != nil {
		return "", fmt.Errorf("generate place id: %w", err)
	}
	return rt.Tag() + dateTime.In(JST).Format(dateLayout) + code, nil
}

// GenerateRaceID returns the race identifier: the place id followed by the
// two-digit race number.
func GenerateRaceID(rt racetype.RaceType, dateTime time.Time, location string, number int) (string, error) {
	placeID, err := GeneratePlaceID(rt, dateTime, location)
	if err != nil {
		return "", err
	}
	if !inRange(number, racetype.MinRaceNumber, racetype.MaxRaceNumber) {
		return "", &ValidationError{
			IDKind: "race",
			ID:     placeID,
			Issues: []Issue{raceNumberIssue(number)},
		}
	}
	return placeID + pad2(number), nil
}

// GenerateRacePlayerID returns the race player identifier: the race id
// followed by the two-digit starting position.
func GenerateRacePlayerID(rt racetype.RaceType, dateTime time.Time, location string, number, position int) (string, error) {
	raceID, err := GenerateRaceID(rt, dateTime, location, number)
	if err != nil {
		return "", err
	}
	if !inRange(position, 1, racetype.MaxPositionNumber(rt)) {
		return "", &ValidationError{
			IDKind: "race player",
			ID:     raceID,
			Issues: []Issue{positionIssue(rt, position)},
		}
	}
	return raceID + pad2(position), nil
}

func pad2(n int) string {
	return fmt.Sprintf("%02d", n)
}

func inRange(n, lo, hi int) bool {
	return n >= lo && n <= hi
}

func raceNumberIssue(n int) Issue {
	return Issue{
		Kind:    OutOfRange,
		Message: fmt.Sprintf("race number %d must be between %d and %d", n, racetype.MinRaceNumber, racetype.MaxRaceNumber),
	}
}

func positionIssue(rt racetype.RaceType, n int) Issue {
	return Issue{
		Kind:    OutOfRange,
		Message: fmt.Sprintf("position number %d must be between 1 and %d for %s", n, racetype.MaxPositionNumber(rt), rt),
	}
}
