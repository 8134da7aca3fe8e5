package core

import (
	"context"
	"fmt"

	"github.com/JonMunkholm/racedata/internal/logging"
	"github.com/JonMunkholm/racedata/internal/record"
)

// SavePlace upserts a constructed place.
func (s *Service) SavePlace(ctx context.Context, p record.Place) (Outcome, error) {
	return s.save(ctx, "place", Row{
		"id":            p.ID,
		"date_time":     p.DateTime.UTC(),
		"location_name": p.Location,
		"race_type":     string(p.RaceType),
	})
}

// SaveHeldDay upserts the meet counters of a JRA place.
func (s *Service) SaveHeldDay(ctx context.Context, h record.HeldDay) (Outcome, error) {
	return s.save(ctx, "held_day", Row{
		"id":             h.PlaceID,
		"race_type":      string(h.RaceType),
		"held_times":     int64(h.HeldTimes),
		"held_day_times": int64(h.HeldDayTimes),
	})
}

// SavePlaceGrade upserts the grade of a mechanical-racing place.
func (s *Service) SavePlaceGrade(ctx context.Context, g record.PlaceGrade) (Outcome, error) {
	return s.save(ctx, "place_grade", Row{
		"id":        g.PlaceID,
		"race_type": string(g.RaceType),
		"grade":     g.Grade,
	})
}

// SaveRace upserts a constructed race. Empty stage and surface and a zero
// distance are stored as NULL.
func (s *Service) SaveRace(ctx context.Context, r record.Race) (Outcome, error) {
	return s.save(ctx, "race", Row{
		"id":            r.ID,
		"race_type":     string(r.RaceType),
		"name":          r.Name,
		"date_time":     r.DateTime.UTC(),
		"location_name": r.Location,
		"grade":         r.Grade,
		"race_number":   int64(r.Number),
		"stage":         nullString(r.Stage),
		"surface_type":  nullString(r.SurfaceType),
		"distance":      nullInt(r.Distance),
	})
}

// SavePlayer upserts a registered player.
func (s *Service) SavePlayer(ctx context.Context, p record.Player) (Outcome, error) {
	return s.save(ctx, "player", Row{
		"race_type":     string(p.RaceType),
		"player_number": int64(p.PlayerNumber),
		"name":          p.Name,
		"priority":      int64(p.Priority),
	})
}

// SaveRacePlayer upserts a starting position.
func (s *Service) SaveRacePlayer(ctx context.Context, rp record.RacePlayer) (Outcome, error) {
	return s.save(ctx, "race_player", Row{
		"id":              rp.ID,
		"race_type":       string(rp.RaceType),
		"race_id":         rp.RaceID,
		"position_number": int64(rp.PositionNumber),
		"player_number":   int64(rp.PlayerNumber),
	})
}

// save writes one row through the same upsert an import of the table uses.
func (s *Service) save(ctx context.Context, tableKey string, row Row) (Outcome, error) {
	def, ok := Get(tableKey)
	if !ok {
		return Unchanged, fmt.Errorf("unknown table: %s", tableKey)
	}
	stmt := buildUpsert(s.dialect, def.Info)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Unchanged, fmt.Errorf("save %s: begin transaction: %w", tableKey, err)
	}
	defer tx.Rollback()

	outcome, err := stmt.exec(ctx, tx, row)
	if err != nil {
		return Unchanged, fmt.Errorf("save %s: %w", tableKey, err)
	}
	if err := tx.Commit(); err != nil {
		return Unchanged, fmt.Errorf("save %s: commit: %w", tableKey, err)
	}

	logging.WithFields(ctx, "table", tableKey, "outcome", outcome.String()).Debug("record saved")
	return outcome, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullInt(n int) any {
	if n == 0 {
		return nil
	}
	return int64(n)
}
