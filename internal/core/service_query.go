package core

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/JonMunkholm/racedata/internal/raceid"
	"github.com/JonMunkholm/racedata/internal/racetype"
	"github.com/JonMunkholm/racedata/internal/record"
)

// PlaceFilter narrows ListPlaces. Zero fields are ignored.
type PlaceFilter struct {
	RaceType racetype.RaceType
	From     time.Time // inclusive
	To       time.Time // exclusive
	Location string
}

// RaceFilter narrows ListRaces. Zero fields are ignored.
type RaceFilter struct {
	RaceType racetype.RaceType
	From     time.Time // inclusive
	To       time.Time // exclusive
	Location string
	Grade    string
}

// where accumulates AND-ed conditions with "?" placeholders.
type where struct {
	conds []string
	args  []any
}

func (w *where) add(cond string, arg any) {
	w.conds = append(w.conds, cond)
	w.args = append(w.args, arg)
}

func (w *where) addRange(col string, from, to time.Time) {
	if !from.IsZero() {
		w.add(col+" >= ?", from.UTC())
	}
	if !to.IsZero() {
		w.add(col+" < ?", to.UTC())
	}
}

func (w *where) String() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// ListPlaces returns stored places ordered by date and id.
func (s *Service) ListPlaces(ctx context.Context, f PlaceFilter) ([]record.Place, error) {
	var w where
	if f.RaceType != "" {
		w.add("race_type = ?", string(f.RaceType))
	}
	w.addRange("date_time", f.From, f.To)
	if f.Location != "" {
		w.add("location_name = ?", f.Location)
	}

	query := s.dialect.Rebind("SELECT id, race_type, date_time, location_name FROM place" +
		w.String() + " ORDER BY date_time, id")

	rows, err := s.db.QueryContext(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list places: %w", err)
	}
	defer rows.Close()

	var places []record.Place
	for rows.Next() {
		var (
			p  record.Place
			rt string
		)
		if err := rows.Scan(&p.ID, &rt, &p.DateTime, &p.Location); err != nil {
			return nil, fmt.Errorf("list places: scan: %w", err)
		}
		p.RaceType = racetype.RaceType(rt)
		p.DateTime = p.DateTime.In(raceid.JST)
		places = append(places, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list places: %w", err)
	}
	return places, nil
}

const raceColumns = "id, race_type, name, date_time, location_name, grade, race_number, stage, surface_type, distance"

// ListRaces returns stored races ordered by start time and id.
func (s *Service) ListRaces(ctx context.Context, f RaceFilter) ([]record.Race, error) {
	var w where
	if f.RaceType != "" {
		w.add("race_type = ?", string(f.RaceType))
	}
	w.addRange("date_time", f.From, f.To)
	if f.Location != "" {
		w.add("location_name = ?", f.Location)
	}
	if f.Grade != "" {
		w.add("grade = ?", f.Grade)
	}

	query := s.dialect.Rebind("SELECT " + raceColumns + " FROM race" + w.String() + " ORDER BY date_time, id")

	rows, err := s.db.QueryContext(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list races: %w", err)
	}
	defer rows.Close()

	var races []record.Race
	for rows.Next() {
		r, err := scanRace(rows)
		if err != nil {
			return nil, fmt.Errorf("list races: scan: %w", err)
		}
		races = append(races, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list races: %w", err)
	}
	return races, nil
}

// GetRace returns one race by id, or ErrNotFound.
func (s *Service) GetRace(ctx context.Context, id string) (record.Race, error) {
	query := s.dialect.Rebind("SELECT " + raceColumns + " FROM race WHERE id = ?")
	r, err := scanRace(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return record.Race{}, fmt.Errorf("race %s: %w", id, ErrNotFound)
		}
		return record.Race{}, fmt.Errorf("get race %s: %w", id, err)
	}
	return r, nil
}

// ListPlayers returns the registered players of a race type, highest
// priority first.
func (s *Service) ListPlayers(ctx context.Context, rt racetype.RaceType) ([]record.Player, error) {
	query := s.dialect.Rebind("SELECT race_type, player_number, name, priority FROM player " +
		"WHERE race_type = ? ORDER BY priority DESC, player_number")

	rows, err := s.db.QueryContext(ctx, query, string(rt))
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	defer rows.Close()

	var players []record.Player
	for rows.Next() {
		var (
			p  record.Player
			rt string
		)
		if err := rows.Scan(&rt, &p.PlayerNumber, &p.Name, &p.Priority); err != nil {
			return nil, fmt.Errorf("list players: scan: %w", err)
		}
		p.RaceType = racetype.RaceType(rt)
		players = append(players, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	return players, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRace(sc rowScanner) (record.Race, error) {
	var (
		r        record.Race
		rt       string
		stage    sql.NullString
		surface  sql.NullString
		distance sql.NullInt64
	)
	err := sc.Scan(&r.ID, &rt, &r.Name, &r.DateTime, &r.Location, &r.Grade, &r.Number,
		&stage, &surface, &distance)
	if err != nil {
		return record.Race{}, err
	}
	r.RaceType = racetype.RaceType(rt)
	r.DateTime = r.DateTime.In(raceid.JST)
	r.Stage = stage.String
	r.SurfaceType = surface.String
	r.Distance = int(distance.Int64)
	return r, nil
}
