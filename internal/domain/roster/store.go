package roster

import (
	"context"

	"github.com/draft-league/draftroom/internal/domain/player"
)

// Insert adds an entry to a user's roster. Position rides along so the store
// can re-validate the positional quota at commit time without a catalog read.
type Insert struct {
	Entry    Entry
	Position player.Position
}

// Delete removes one (user, player) entry.
type Delete struct {
	UserID   string
	PlayerID string
}

// Tx is an atomic batch of roster mutations. Deletes execute before inserts,
// so a swap is expressed as one delete plus one insert in the same Tx.
type Tx struct {
	Deletes []Delete
	Inserts []Insert
}

// Store is the authoritative mapping of users to owned players. Apply
// re-validates every invariant (owner cap, squad and positional quotas,
// uniqueness, existence of deleted entries) against the committed state and
// fails the whole batch with ErrConflict if any recheck fails: callers
// validated against a snapshot, so a recheck failure means the snapshot went
// stale and the operation must be retried from fresh reads.
type Store interface {
	OwnedBy(ctx context.Context, userID string) ([]Entry, error)
	OwnerCount(ctx context.Context, playerID string) (int, error)
	OwnerCounts(ctx context.Context, playerIDs []string) (map[string]int, error)
	Apply(ctx context.Context, tx Tx) error
}
