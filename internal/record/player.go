package record

import (
	"strings"

	"github.com/JonMunkholm/racedata/internal/raceid"
	"github.com/JonMunkholm/racedata/internal/racetype"
)

// Priority bounds for players. Higher priorities are shown first in
// schedules.
const (
	MinPriority = 0
	MaxPriority = 6
)

// Player is a registered keirin rider, autorace racer or boat racer.
type Player struct {
	RaceType     racetype.RaceType
	PlayerNumber int
	Name         string
	Priority     int
}

func NewPlayer(rt racetype.RaceType, playerNumber int, name string, priority int) (Player, error) {
	if err := checkRaceType("player", rt); err != nil {
		return Player{}, err
	}
	if !rt.IsMechanical() {
		return Player{}, fieldErr("player", "race_type", rt, "players exist only for keirin, autorace and boatrace")
	}
	if playerNumber <= 0 {
		return Player{}, fieldErr("player", "player_number", playerNumber, "must be positive")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return Player{}, fieldErr("player", "name", name, "is required")
	}
	if priority < MinPriority || priority > MaxPriority {
		return Player{}, fieldErr("player", "priority", priority, "must be between 0 and 6")
	}
	return Player{RaceType: rt, PlayerNumber: playerNumber, Name: name, Priority: priority}, nil
}

// RacePlayer places a player at a starting position in a race.
type RacePlayer struct {
	ID             string
	RaceType       racetype.RaceType
	RaceID         string
	PositionNumber int
	PlayerNumber   int
}

// NewRacePlayer validates the race id and derives the race player id from it.
func NewRacePlayer(rt racetype.RaceType, raceID string, positionNumber, playerNumber int) (RacePlayer, error) {
	if err := checkRaceType("race_player", rt); err != nil {
		return RacePlayer{}, err
	}
	parts, err := raceid.ParseRaceID(rt, raceID)
	if err != nil {
		return RacePlayer{}, wrapFieldErr("race_player", "race_id", raceID, err)
	}
	if playerNumber <= 0 {
		return RacePlayer{}, fieldErr("race_player", "player_number", playerNumber, "must be positive")
	}
	id, err := raceid.GenerateRacePlayerID(rt, parts.Date, parts.Location, parts.Number, positionNumber)
	if err != nil {
		return RacePlayer{}, wrapFieldErr("race_player", "position_number", positionNumber, err)
	}
	return RacePlayer{
		ID:             id,
		RaceType:       rt,
		RaceID:         raceID,
		PositionNumber: positionNumber,
		PlayerNumber:   playerNumber,
	}, nil
}
