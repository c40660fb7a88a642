package player

import "context"

// Filter narrows catalog listings. Empty fields match everything.
type Filter struct {
	Team     string
	Position Position
}

// Repository describes player catalog persistence needs from use cases.
// The catalog is a read-only projection refreshed from an external source of
// truth; referenced players are never deleted out from under rosters.
type Repository interface {
	GetByID(ctx context.Context, playerID string) (Player, bool, error)
	List(ctx context.Context, filter Filter) ([]Player, error)
}
