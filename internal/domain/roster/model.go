package roster

import (
	"errors"
	"time"

	"github.com/draft-league/draftroom/internal/domain/player"
)

var (
	// Validation rejections. Deterministic for unchanged state, never retried.
	ErrPlayerFull       = errors.New("player already has the maximum number of owners")
	ErrAlreadyOwned     = errors.New("player is already in the roster")
	ErrQuotaExceeded    = errors.New("positional quota exceeded")
	ErrNotOwned         = errors.New("player is not in the roster")
	ErrPositionMismatch = errors.New("replacement must play the same position")

	// ErrConflict signals that a concurrent commit invalidated the snapshot a
	// mutation was validated against. Transient: retry with fresh reads.
	ErrConflict = errors.New("roster state changed concurrently")
)

// Entry records one user owning one player. Created by a claim, removed and
// recreated as an atomic pair by a swap, never otherwise mutated.
type Entry struct {
	UserID     string
	PlayerID   string
	AcquiredAt time.Time
}

// Limits holds the squad and ownership caps enforced by the roster store.
type Limits struct {
	MaxOwnersPerPlayer int
	MaxSquadSize       int
	MaxByPosition      map[player.Position]int
}

func DefaultLimits() Limits {
	return Limits{
		MaxOwnersPerPlayer: 2,
		MaxSquadSize:       15,
		MaxByPosition: map[player.Position]int{
			player.PositionGoalkeeper: 2,
			player.PositionDefender:   5,
			player.PositionMidfielder: 5,
			player.PositionForward:    3,
		},
	}
}

// PositionCap returns the per-position quota. Unknown positions get a zero
// cap so a bad catalog row cannot widen a quota.
func (l Limits) PositionCap(pos player.Position) int {
	cap, ok := l.MaxByPosition[pos]
	if !ok {
		return 0
	}
	return cap
}
