package player

import "fmt"

// Position represents football position categories used by the draft rules.
type Position string

const (
	PositionGoalkeeper Position = "GK"
	PositionDefender   Position = "DEF"
	PositionMidfielder Position = "MID"
	PositionForward    Position = "FWD"
)

var AllPositions = map[Position]struct{}{
	PositionGoalkeeper: {},
	PositionDefender:   {},
	PositionMidfielder: {},
	PositionForward:    {},
}

// OrderedPositions lists positions in the display order used across the app.
var OrderedPositions = []Position{
	PositionGoalkeeper,
	PositionDefender,
	PositionMidfielder,
	PositionForward,
}

// Player is a draftable athlete in the shared pool. Owner counts are derived
// from the roster store at read time and are never stored here.
type Player struct {
	ID       string
	Name     string
	Position Position
	Team     string
}

func (p Player) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("player id is required")
	}
	if p.Name == "" {
		return fmt.Errorf("player name is required")
	}
	if _, ok := AllPositions[p.Position]; !ok {
		return fmt.Errorf("invalid player position: %s", p.Position)
	}
	if p.Team == "" {
		return fmt.Errorf("player team is required")
	}

	return nil
}
