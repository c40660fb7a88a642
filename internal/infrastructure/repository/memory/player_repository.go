package memory

import (
	"context"
	"sync"

	"github.com/draft-league/draftroom/internal/domain/player"
)

type PlayerRepository struct {
	mu      sync.RWMutex
	ordered []player.Player
	index   map[string]player.Player
}

func NewPlayerRepository(players []player.Player) *PlayerRepository {
	ordered := make([]player.Player, 0, len(players))
	index := make(map[string]player.Player, len(players))

	for _, p := range players {
		ordered = append(ordered, p)
		index[p.ID] = p
	}

	return &PlayerRepository{
		ordered: ordered,
		index:   index,
	}
}

func (r *PlayerRepository) GetByID(_ context.Context, playerID string) (player.Player, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.index[playerID]
	return p, ok, nil
}

func (r *PlayerRepository) List(_ context.Context, filter player.Filter) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]player.Player, 0, len(r.ordered))
	for _, p := range r.ordered {
		if filter.Team != "" && p.Team != filter.Team {
			continue
		}
		if filter.Position != "" && p.Position != filter.Position {
			continue
		}
		out = append(out, p)
	}

	return out, nil
}
