package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/draft-league/draftroom/internal/domain/player"
	"github.com/draft-league/draftroom/internal/domain/roster"
)

type rosterRow struct {
	entry    roster.Entry
	position player.Position
}

// RosterStore keeps roster entries under a single mutex. Apply re-validates
// every invariant under that mutex before mutating, so a transaction built
// from a stale snapshot fails as roster.ErrConflict instead of corrupting
// ownership counts.
type RosterStore struct {
	mu     sync.RWMutex
	limits roster.Limits
	byUser map[string]map[string]rosterRow // userID -> playerID -> row
	owners map[string]int                  // playerID -> owner count
}

func NewRosterStore(limits roster.Limits) *RosterStore {
	return &RosterStore{
		limits: limits,
		byUser: make(map[string]map[string]rosterRow),
		owners: make(map[string]int),
	}
}

func (s *RosterStore) OwnedBy(_ context.Context, userID string) ([]roster.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := s.byUser[userID]
	out := make([]roster.Entry, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.entry)
	}

	return out, nil
}

func (s *RosterStore) OwnerCount(_ context.Context, playerID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.owners[playerID], nil
}

func (s *RosterStore) OwnerCounts(_ context.Context, playerIDs []string) (map[string]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]int, len(playerIDs))
	for _, id := range playerIDs {
		out[id] = s.owners[id]
	}

	return out, nil
}

func (s *RosterStore) Apply(_ context.Context, tx roster.Tx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.check(tx); err != nil {
		return err
	}

	for _, d := range tx.Deletes {
		delete(s.byUser[d.UserID], d.PlayerID)
		if s.owners[d.PlayerID] <= 1 {
			delete(s.owners, d.PlayerID)
		} else {
			s.owners[d.PlayerID]--
		}
	}
	for _, ins := range tx.Inserts {
		rows := s.byUser[ins.Entry.UserID]
		if rows == nil {
			rows = make(map[string]rosterRow)
			s.byUser[ins.Entry.UserID] = rows
		}
		rows[ins.Entry.PlayerID] = rosterRow{entry: ins.Entry, position: ins.Position}
		s.owners[ins.Entry.PlayerID]++
	}

	return nil
}

// check verifies the whole transaction against current state. Deletes are
// applied before inserts, so counts are evaluated net of the deletes.
func (s *RosterStore) check(tx roster.Tx) error {
	deleted := make(map[string]map[string]bool, len(tx.Deletes))
	for _, d := range tx.Deletes {
		if _, ok := s.byUser[d.UserID][d.PlayerID]; !ok {
			return fmt.Errorf("%w: entry %s/%s no longer exists", roster.ErrConflict, d.UserID, d.PlayerID)
		}
		if deleted[d.UserID] == nil {
			deleted[d.UserID] = make(map[string]bool)
		}
		deleted[d.UserID][d.PlayerID] = true
	}

	for _, ins := range tx.Inserts {
		userID := ins.Entry.UserID
		playerID := ins.Entry.PlayerID

		if _, ok := s.byUser[userID][playerID]; ok && !deleted[userID][playerID] {
			return fmt.Errorf("%w: entry %s/%s already exists", roster.ErrConflict, userID, playerID)
		}

		owners := s.owners[playerID]
		if deleted[userID][playerID] {
			owners--
		}
		if owners >= s.limits.MaxOwnersPerPlayer {
			return fmt.Errorf("%w: player %s has %d owners", roster.ErrConflict, playerID, owners)
		}

		total := 0
		positional := 0
		for id, row := range s.byUser[userID] {
			if deleted[userID][id] {
				continue
			}
			total++
			if row.position == ins.Position {
				positional++
			}
		}
		if total >= s.limits.MaxSquadSize {
			return fmt.Errorf("%w: squad of %s is full", roster.ErrConflict, userID)
		}
		if positional >= s.limits.PositionCap(ins.Position) {
			return fmt.Errorf("%w: %s quota of %s is full", roster.ErrConflict, ins.Position, userID)
		}
	}

	return nil
}
