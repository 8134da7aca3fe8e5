package raceid

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/JonMunkholm/racedata/internal/racetype"
)

var digitPatterns = map[int]*regexp.Regexp{
	placeDigits:  regexp.MustCompile(`^\d{10}$`),
	raceDigits:   regexp.MustCompile(`^\d{12}$`),
	playerDigits: regexp.MustCompile(`^\d{14}$`),
}

// ValidatePlaceID checks a place identifier and returns it unchanged.
func ValidatePlaceID(rt racetype.RaceType, id string) (string, error) {
	if err := validate(rt, id, "place", placeDigits); err != nil {
		return "", err
	}
	return id, nil
}

// ValidateRaceID checks a race identifier and returns it unchanged.
func ValidateRaceID(rt racetype.RaceType, id string) (string, error) {
	if err := validate(rt, id, "race", raceDigits); err != nil {
		return "", err
	}
	return id, nil
}

// ValidateRacePlayerID checks a race player identifier and returns it unchanged.
func ValidateRacePlayerID(rt racetype.RaceType, id string) (string, error) {
	if err := validate(rt, id, "race player", playerDigits); err != nil {
		return "", err
	}
	return id, nil
}

// validate runs every rule in order: prefix, digit pattern, calendar date,
// venue code, race number range, position range. Later rules that need the
// digit fields only run when the digits are well formed.
func validate(rt racetype.RaceType, id, idKind string, digits int) error {
	if !rt.Valid() {
		return fmt.Errorf("validate %s id: %w: %q", idKind, racetype.ErrUnknownRaceType, string(rt))
	}

	var issues []Issue
	tag := rt.Tag()

	if len(id) < len(tag) || !strings.EqualFold(id[:len(tag)], tag) {
		issues = append(issues, Issue{
			Kind:    PrefixMismatch,
			Message: fmt.Sprintf("must start with %q", tag),
		})
	}

	var rest string
	if len(id) >= len(tag) {
		rest = id[len(tag):]
	}
	if !digitPatterns[digits].MatchString(rest) {
		issues = append(issues, Issue{
			Kind:    PatternMismatch,
			Message: fmt.Sprintf("must be %q followed by %d digits", tag, digits),
		})
		return &ValidationError{IDKind: idKind, ID: id, Issues: issues}
	}

	if _, err := time.ParseInLocation(dateLayout, rest[:8], JST); err != nil {
		issues = append(issues, Issue{
			Kind:    PatternMismatch,
			Message: fmt.Sprintf("date %s is not a calendar date", rest[:8]),
		})
	}
	if _, ok := racetype.LocationName(rt, rest[8:10]); !ok {
		issues = append(issues, Issue{
			Kind:    PatternMismatch,
			Message: fmt.Sprintf("venue code %s is not a %s venue", rest[8:10], rt),
		})
	}
	if digits >= raceDigits {
		n, _ := strconv.Atoi(rest[10:12])
		if !inRange(n, racetype.MinRaceNumber, racetype.MaxRaceNumber) {
			issues = append(issues, raceNumberIssue(n))
		}
	}
	if digits >= playerDigits {
		n, _ := strconv.Atoi(rest[12:14])
		if !inRange(n, 1, racetype.MaxPositionNumber(rt)) {
			issues = append(issues, positionIssue(rt, n))
		}
	}

	if len(issues) > 0 {
		return &ValidationError{IDKind: idKind, ID: id, Issues: issues}
	}
	return nil
}

// Parts is a decomposed identifier.
type Parts struct {
	RaceType     racetype.RaceType
	Date         time.Time // race day at 00:00 JST
	LocationCode string
	Location     string
	Number       int // 0 for place ids
	Position     int // 0 for place and race ids
}

// ParsePlaceID validates and decomposes a place identifier.
func ParsePlaceID(rt racetype.RaceType, id string) (Parts, error) {
	if _, err := ValidatePlaceID(rt, id); err != nil {
		return Parts{}, err
	}
	return split(rt, id, placeDigits), nil
}

// ParseRaceID validates and decomposes a race identifier.
func ParseRaceID(rt racetype.RaceType, id string) (Parts, error) {
	if _, err := ValidateRaceID(rt, id); err != nil {
		return Parts{}, err
	}
	return split(rt, id, raceDigits), nil
}

// ParseRacePlayerID validates and decomposes a race player identifier.
func ParseRacePlayerID(rt racetype.RaceType, id string) (Parts, error) {
	if _, err := ValidateRacePlayerID(rt, id); err != nil {
		return Parts{}, err
	}
	return split(rt, id, playerDigits), nil
}

// PlaceIDOf returns the place identifier embedded in a race or race player id.
func PlaceIDOf(rt racetype.RaceType, id string) (string, error) {
	tag := rt.Tag()
	if len(id) < len(tag)+placeDigits {
		return "", &ValidationError{
			IDKind: "race",
			ID:     id,
			Issues: []Issue{{Kind: PatternMismatch, Message: "too short to contain a place id"}},
		}
	}
	return ValidatePlaceID(rt, id[:len(tag)+placeDigits])
}

func split(rt racetype.RaceType, id string, digits int) Parts {
	rest := id[len(rt.Tag()):]
	date, _ := time.ParseInLocation(dateLayout, rest[:8], JST)
	p := Parts{
		RaceType:     rt,
		Date:         date,
		LocationCode: rest[8:10],
	}
	p.Location, _ = racetype.LocationName(rt, p.LocationCode)
	if digits >= raceDigits {
		p.Number, _ = strconv.Atoi(rest[10:12])
	}
	if digits >= playerDigits {
		p.Position, _ = strconv.Atoi(rest[12:14])
	}
	return p
}
