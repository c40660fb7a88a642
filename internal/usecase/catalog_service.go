package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/draft-league/draftroom/internal/domain/player"
	"github.com/draft-league/draftroom/internal/domain/roster"
	"github.com/draft-league/draftroom/internal/platform/cache"
	"github.com/draft-league/draftroom/internal/platform/logging"
)

const catalogCachePrefix = "catalog:"

// CatalogPlayer is a catalog player annotated with live ownership data for
// the requesting user.
type CatalogPlayer struct {
	Player     player.Player
	OwnerCount int
	OwnedByMe  bool
}

// CatalogService serves read-only player listings. Listings carry owner
// counts so clients can grey out full players; counts may be a few seconds
// stale because results are cached.
type CatalogService struct {
	players player.Repository
	rosters roster.Store
	cache   *cache.Store
	logger  *logging.Logger
}

func NewCatalogService(players player.Repository, rosters roster.Store, c *cache.Store, logger *logging.Logger) *CatalogService {
	if logger == nil {
		logger = logging.Default()
	}

	return &CatalogService{
		players: players,
		rosters: rosters,
		cache:   c,
		logger:  logger,
	}
}

type catalogListing struct {
	players []player.Player
	counts  map[string]int
}

// List returns catalog players matching filter, annotated for userID.
// The player list and owner counts are cached per filter; the per-user
// ownership flag is computed on every call from the caller's roster.
func (s *CatalogService) List(ctx context.Context, userID string, filter player.Filter) ([]CatalogPlayer, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CatalogService.List")
	defer span.End()

	filter.Team = strings.TrimSpace(filter.Team)
	if filter.Position != "" {
		if _, ok := player.AllPositions[filter.Position]; !ok {
			return nil, fmt.Errorf("%w: unknown position %q", ErrInvalidInput, filter.Position)
		}
	}

	listing, err := s.loadListing(ctx, filter)
	if err != nil {
		return nil, err
	}

	mine := map[string]bool{}
	if userID = strings.TrimSpace(userID); userID != "" {
		owned, err := s.rosters.OwnedBy(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("list roster: %w", err)
		}
		for _, e := range owned {
			mine[e.PlayerID] = true
		}
	}

	out := make([]CatalogPlayer, 0, len(listing.players))
	for _, p := range listing.players {
		out = append(out, CatalogPlayer{
			Player:     p,
			OwnerCount: listing.counts[p.ID],
			OwnedByMe:  mine[p.ID],
		})
	}

	return out, nil
}

// GetByID returns a single catalog player with its current owner count.
func (s *CatalogService) GetByID(ctx context.Context, playerID string) (CatalogPlayer, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CatalogService.GetByID")
	defer span.End()

	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return CatalogPlayer{}, fmt.Errorf("%w: player_id is required", ErrInvalidInput)
	}

	p, ok, err := s.players.GetByID(ctx, playerID)
	if err != nil {
		return CatalogPlayer{}, fmt.Errorf("get player: %w", err)
	}
	if !ok {
		return CatalogPlayer{}, fmt.Errorf("%w: player %s", ErrNotFound, playerID)
	}

	count, err := s.rosters.OwnerCount(ctx, playerID)
	if err != nil {
		return CatalogPlayer{}, fmt.Errorf("count owners: %w", err)
	}

	return CatalogPlayer{Player: p, OwnerCount: count}, nil
}

func (s *CatalogService) loadListing(ctx context.Context, filter player.Filter) (catalogListing, error) {
	load := func(ctx context.Context) (catalogListing, error) {
		players, err := s.players.List(ctx, filter)
		if err != nil {
			return catalogListing{}, fmt.Errorf("list players: %w", err)
		}

		sort.Slice(players, func(i, j int) bool { return players[i].Name < players[j].Name })

		ids := make([]string, 0, len(players))
		for _, p := range players {
			ids = append(ids, p.ID)
		}
		counts, err := s.rosters.OwnerCounts(ctx, ids)
		if err != nil {
			return catalogListing{}, fmt.Errorf("count owners: %w", err)
		}

		return catalogListing{players: players, counts: counts}, nil
	}

	if s.cache == nil {
		return load(ctx)
	}

	key := catalogCacheKey(filter)
	value, err := s.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		return load(ctx)
	})
	if err != nil {
		return catalogListing{}, err
	}

	listing, ok := value.(catalogListing)
	if !ok {
		s.logger.WarnContext(ctx, "catalog cache held unexpected type", "key", key)
		return load(ctx)
	}

	return listing, nil
}

func catalogCacheKey(filter player.Filter) string {
	return catalogCachePrefix + filter.Team + ":" + string(filter.Position)
}
