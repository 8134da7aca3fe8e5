package record

import (
	"strings"
	"time"

	"github.com/JonMunkholm/racedata/internal/raceid"
	"github.com/JonMunkholm/racedata/internal/racename"
	"github.com/JonMunkholm/racedata/internal/racetype"
)

// Race is a single race on a place's card.
type Race struct {
	ID          string
	RaceType    racetype.RaceType
	Name        string
	DateTime    time.Time
	Location    string
	Grade       string
	Number      int
	Stage       string // keirin/autorace/boatrace round, e.g. 予選
	SurfaceType string // horse racing only
	Distance    int    // metres, horse racing only
}

// NewRace validates r, normalizes its name and derives its identifier. Any
// ID already set on r is replaced.
func NewRace(r Race) (Race, error) {
	if err := checkRaceType("race", r.RaceType); err != nil {
		return Race{}, err
	}
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return Race{}, fieldErr("race", "name", r.Name, "is required")
	}
	if r.DateTime.IsZero() {
		return Race{}, fieldErr("race", "date_time", r.DateTime, "is required")
	}
	if !racetype.ValidGrade(r.RaceType, r.Grade) {
		return Race{}, fieldErr("race", "grade", r.Grade, "not a "+r.RaceType.String()+" grade")
	}
	if r.RaceType.IsHorseRacing() {
		if !racetype.ValidSurfaceType(r.SurfaceType) {
			return Race{}, fieldErr("race", "surface_type", r.SurfaceType, "must be one of "+strings.Join(racetype.SurfaceTypes, ", "))
		}
		if r.Distance <= 0 {
			return Race{}, fieldErr("race", "distance", r.Distance, "must be positive")
		}
	} else {
		r.SurfaceType = ""
		r.Distance = 0
	}

	id, err := raceid.GenerateRaceID(r.RaceType, r.DateTime, r.Location, r.Number)
	if err != nil {
		if _, locErr := racetype.LocationCode(r.RaceType, r.Location); locErr != nil {
			return Race{}, wrapFieldErr("race", "location", r.Location, err)
		}
		return Race{}, wrapFieldErr("race", "number", r.Number, err)
	}
	r.ID = id

	r.Name = racename.Normalize(r.RaceType, racename.Input{
		Name:        r.Name,
		Place:       r.Location,
		Grade:       r.Grade,
		Date:        r.DateTime,
		SurfaceType: r.SurfaceType,
		Distance:    r.Distance,
	})
	return r, nil
}

// RaceOption overrides one field of a race copy.
type RaceOption func(*Race)

func WithName(name string) RaceOption     { return func(r *Race) { r.Name = name } }
func WithDateTime(t time.Time) RaceOption { return func(r *Race) { r.DateTime = t } }
func WithLocation(loc string) RaceOption  { return func(r *Race) { r.Location = loc } }
func WithGrade(grade string) RaceOption   { return func(r *Race) { r.Grade = grade } }
func WithNumber(n int) RaceOption         { return func(r *Race) { r.Number = n } }
func WithStage(stage string) RaceOption   { return func(r *Race) { r.Stage = stage } }
func WithSurfaceType(s string) RaceOption { return func(r *Race) { r.SurfaceType = s } }
func WithDistance(metres int) RaceOption  { return func(r *Race) { r.Distance = metres } }

// With returns a copy of r with the options applied and revalidated. The
// identifier is derived again, so changing the date, venue or number yields
// a different race id. r itself is left untouched.
func (r Race) With(opts ...RaceOption) (Race, error) {
	next := r
	for _, opt := range opts {
		opt(&next)
	}
	return NewRace(next)
}

// PlaceID returns the identifier of the place the race belongs to.
func (r Race) PlaceID() string {
	id, err := raceid.PlaceIDOf(r.RaceType, r.ID)
	if err != nil {
		return ""
	}
	return id
}
