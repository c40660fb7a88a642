package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/draft-league/draftroom/internal/domain/feed"
	"github.com/draft-league/draftroom/internal/domain/player"
	"github.com/draft-league/draftroom/internal/domain/roster"
	"github.com/draft-league/draftroom/internal/domain/user"
	"github.com/draft-league/draftroom/internal/platform/cache"
	idgen "github.com/draft-league/draftroom/internal/platform/id"
	"github.com/draft-league/draftroom/internal/platform/logging"
)

// maxDraftAttempts bounds optimistic-conflict retries. Two owners per player
// means at most two competing commits can invalidate a claim's snapshot, so
// three attempts always reach a terminal verdict for cross-user contention.
const maxDraftAttempts = 3

// EventSink receives committed roster events for asynchronous delivery.
// Implementations must not block.
type EventSink interface {
	Enqueue(event feed.Event)
}

// RosterPlayer is an owned catalog player together with when it was claimed.
type RosterPlayer struct {
	Player     player.Player
	AcquiredAt time.Time
}

// DraftService validates and applies claim/swap operations against the
// catalog and the roster store. All mutation goes through roster.Store.Apply,
// which re-validates invariants at commit time; a stale snapshot shows up as
// roster.ErrConflict and the operation is retried from fresh reads.
type DraftService struct {
	players  player.Repository
	rosters  roster.Store
	events   feed.EventRepository
	posts    feed.PostRepository
	profiles user.ProfileRepository
	limits   roster.Limits
	idGen    idgen.Generator
	sink     EventSink
	catalog  *cache.Store
	logger   *logging.Logger
	now      func() time.Time
}

func NewDraftService(
	players player.Repository,
	rosters roster.Store,
	events feed.EventRepository,
	posts feed.PostRepository,
	profiles user.ProfileRepository,
	limits roster.Limits,
	idGen idgen.Generator,
	sink EventSink,
	catalog *cache.Store,
	logger *logging.Logger,
) *DraftService {
	if logger == nil {
		logger = logging.Default()
	}

	return &DraftService{
		players:  players,
		rosters:  rosters,
		events:   events,
		posts:    posts,
		profiles: profiles,
		limits:   limits,
		idGen:    idGen,
		sink:     sink,
		catalog:  catalog,
		logger:   logger,
		now:      time.Now,
	}
}

// Claim acquires playerID for userID as a first-time pick.
func (s *DraftService) Claim(ctx context.Context, userID, playerID string) (roster.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DraftService.Claim")
	defer span.End()

	userID = strings.TrimSpace(userID)
	playerID = strings.TrimSpace(playerID)
	if userID == "" || playerID == "" {
		return roster.Entry{}, fmt.Errorf("%w: user_id and player_id are required", ErrInvalidInput)
	}

	profile, err := s.requireProfile(ctx, userID)
	if err != nil {
		return roster.Entry{}, err
	}

	for attempt := 1; attempt <= maxDraftAttempts; attempt++ {
		entry, p, err := s.tryClaim(ctx, userID, playerID)
		if errors.Is(err, roster.ErrConflict) {
			s.logger.DebugContext(ctx, "claim conflicted, retrying",
				"user_id", userID,
				"player_id", playerID,
				"attempt", attempt,
			)
			continue
		}
		if err != nil {
			return roster.Entry{}, err
		}

		s.invalidateCatalog(ctx)
		s.recordActivity(ctx, feed.KindSelectionAdded, profile, p,
			fmt.Sprintf("%s selected %s", profile.Username, p.Name))

		s.logger.InfoContext(ctx, "player claimed",
			"user_id", userID,
			"player_id", playerID,
			"position", string(p.Position),
		)
		return entry, nil
	}

	return roster.Entry{}, fmt.Errorf("%w: claim of player %s", ErrBusy, playerID)
}

func (s *DraftService) tryClaim(ctx context.Context, userID, playerID string) (roster.Entry, player.Player, error) {
	p, ok, err := s.players.GetByID(ctx, playerID)
	if err != nil {
		return roster.Entry{}, player.Player{}, fmt.Errorf("get player: %w", err)
	}
	if !ok {
		return roster.Entry{}, player.Player{}, fmt.Errorf("%w: player %s", ErrNotFound, playerID)
	}

	count, err := s.rosters.OwnerCount(ctx, playerID)
	if err != nil {
		return roster.Entry{}, player.Player{}, fmt.Errorf("count owners: %w", err)
	}
	if count >= s.limits.MaxOwnersPerPlayer {
		return roster.Entry{}, player.Player{}, fmt.Errorf("%w: player %s", roster.ErrPlayerFull, playerID)
	}

	owned, err := s.rosters.OwnedBy(ctx, userID)
	if err != nil {
		return roster.Entry{}, player.Player{}, fmt.Errorf("list roster: %w", err)
	}
	for _, e := range owned {
		if e.PlayerID == playerID {
			return roster.Entry{}, player.Player{}, fmt.Errorf("%w: player %s", roster.ErrAlreadyOwned, playerID)
		}
	}

	if err := s.checkQuota(ctx, owned, p.Position); err != nil {
		return roster.Entry{}, player.Player{}, err
	}

	entry := roster.Entry{
		UserID:     userID,
		PlayerID:   playerID,
		AcquiredAt: s.now().UTC(),
	}
	if err := s.rosters.Apply(ctx, roster.Tx{
		Inserts: []roster.Insert{{Entry: entry, Position: p.Position}},
	}); err != nil {
		return roster.Entry{}, player.Player{}, err
	}

	return entry, p, nil
}

// Swap atomically replaces oldPlayerID with newPlayerID of the same position.
func (s *DraftService) Swap(ctx context.Context, userID, oldPlayerID, newPlayerID string) (roster.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DraftService.Swap")
	defer span.End()

	userID = strings.TrimSpace(userID)
	oldPlayerID = strings.TrimSpace(oldPlayerID)
	newPlayerID = strings.TrimSpace(newPlayerID)
	if userID == "" || oldPlayerID == "" || newPlayerID == "" {
		return roster.Entry{}, fmt.Errorf("%w: user_id, old_player_id and new_player_id are required", ErrInvalidInput)
	}
	if oldPlayerID == newPlayerID {
		return roster.Entry{}, fmt.Errorf("%w: replacement must differ from the outgoing player", ErrInvalidInput)
	}

	profile, err := s.requireProfile(ctx, userID)
	if err != nil {
		return roster.Entry{}, err
	}

	for attempt := 1; attempt <= maxDraftAttempts; attempt++ {
		entry, oldP, newP, err := s.trySwap(ctx, userID, oldPlayerID, newPlayerID)
		if errors.Is(err, roster.ErrConflict) {
			s.logger.DebugContext(ctx, "swap conflicted, retrying",
				"user_id", userID,
				"old_player_id", oldPlayerID,
				"new_player_id", newPlayerID,
				"attempt", attempt,
			)
			continue
		}
		if err != nil {
			return roster.Entry{}, err
		}

		s.invalidateCatalog(ctx)
		s.recordActivity(ctx, feed.KindSwap, profile, newP,
			fmt.Sprintf("%s swapped %s for %s", profile.Username, oldP.Name, newP.Name))

		s.logger.InfoContext(ctx, "players swapped",
			"user_id", userID,
			"old_player_id", oldPlayerID,
			"new_player_id", newPlayerID,
			"position", string(newP.Position),
		)
		return entry, nil
	}

	return roster.Entry{}, fmt.Errorf("%w: swap of player %s for %s", ErrBusy, oldPlayerID, newPlayerID)
}

func (s *DraftService) trySwap(ctx context.Context, userID, oldPlayerID, newPlayerID string) (roster.Entry, player.Player, player.Player, error) {
	owned, err := s.rosters.OwnedBy(ctx, userID)
	if err != nil {
		return roster.Entry{}, player.Player{}, player.Player{}, fmt.Errorf("list roster: %w", err)
	}

	ownsOld := false
	ownsNew := false
	for _, e := range owned {
		switch e.PlayerID {
		case oldPlayerID:
			ownsOld = true
		case newPlayerID:
			ownsNew = true
		}
	}
	if !ownsOld {
		return roster.Entry{}, player.Player{}, player.Player{}, fmt.Errorf("%w: player %s", roster.ErrNotOwned, oldPlayerID)
	}

	oldP, ok, err := s.players.GetByID(ctx, oldPlayerID)
	if err != nil {
		return roster.Entry{}, player.Player{}, player.Player{}, fmt.Errorf("get outgoing player: %w", err)
	}
	if !ok {
		return roster.Entry{}, player.Player{}, player.Player{}, fmt.Errorf("%w: player %s", ErrNotFound, oldPlayerID)
	}
	newP, ok, err := s.players.GetByID(ctx, newPlayerID)
	if err != nil {
		return roster.Entry{}, player.Player{}, player.Player{}, fmt.Errorf("get replacement player: %w", err)
	}
	if !ok {
		return roster.Entry{}, player.Player{}, player.Player{}, fmt.Errorf("%w: player %s", ErrNotFound, newPlayerID)
	}
	if newP.Position != oldP.Position {
		return roster.Entry{}, player.Player{}, player.Player{}, fmt.Errorf("%w: %s plays %s, %s plays %s",
			roster.ErrPositionMismatch, oldP.Name, oldP.Position, newP.Name, newP.Position)
	}
	if ownsNew {
		return roster.Entry{}, player.Player{}, player.Player{}, fmt.Errorf("%w: player %s", roster.ErrAlreadyOwned, newPlayerID)
	}

	count, err := s.rosters.OwnerCount(ctx, newPlayerID)
	if err != nil {
		return roster.Entry{}, player.Player{}, player.Player{}, fmt.Errorf("count owners: %w", err)
	}
	if count >= s.limits.MaxOwnersPerPlayer {
		return roster.Entry{}, player.Player{}, player.Player{}, fmt.Errorf("%w: player %s", roster.ErrPlayerFull, newPlayerID)
	}

	entry := roster.Entry{
		UserID:     userID,
		PlayerID:   newPlayerID,
		AcquiredAt: s.now().UTC(),
	}
	if err := s.rosters.Apply(ctx, roster.Tx{
		Deletes: []roster.Delete{{UserID: userID, PlayerID: oldPlayerID}},
		Inserts: []roster.Insert{{Entry: entry, Position: newP.Position}},
	}); err != nil {
		return roster.Entry{}, player.Player{}, player.Player{}, err
	}

	return entry, oldP, newP, nil
}

// RosterOf returns the caller's owned players joined with catalog data,
// ordered GK, DEF, MID, FWD and alphabetically inside each position.
func (s *DraftService) RosterOf(ctx context.Context, userID string) ([]RosterPlayer, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DraftService.RosterOf")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user_id is required", ErrInvalidInput)
	}

	owned, err := s.rosters.OwnedBy(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list roster: %w", err)
	}

	byPosition := make(map[player.Position][]RosterPlayer, len(player.AllPositions))
	for _, e := range owned {
		p, ok, err := s.players.GetByID(ctx, e.PlayerID)
		if err != nil {
			return nil, fmt.Errorf("get player %s: %w", e.PlayerID, err)
		}
		if !ok {
			// Catalog is append-only for referenced players; a miss means the
			// projection is behind. Skip rather than fail the whole roster.
			s.logger.WarnContext(ctx, "roster references unknown player", "player_id", e.PlayerID)
			continue
		}
		byPosition[p.Position] = append(byPosition[p.Position], RosterPlayer{Player: p, AcquiredAt: e.AcquiredAt})
	}

	out := make([]RosterPlayer, 0, len(owned))
	for _, pos := range player.OrderedPositions {
		group := byPosition[pos]
		sortRosterPlayers(group)
		out = append(out, group...)
	}

	return out, nil
}

func (s *DraftService) checkQuota(ctx context.Context, owned []roster.Entry, pos player.Position) error {
	if len(owned) >= s.limits.MaxSquadSize {
		return fmt.Errorf("%w: squad is full (%d/%d)", roster.ErrQuotaExceeded, len(owned), s.limits.MaxSquadSize)
	}

	positionCount := 0
	for _, e := range owned {
		p, ok, err := s.players.GetByID(ctx, e.PlayerID)
		if err != nil {
			return fmt.Errorf("get player %s: %w", e.PlayerID, err)
		}
		if ok && p.Position == pos {
			positionCount++
		}
	}
	if positionCount >= s.limits.PositionCap(pos) {
		return fmt.Errorf("%w: %s (%d/%d)", roster.ErrQuotaExceeded, pos, positionCount, s.limits.PositionCap(pos))
	}

	return nil
}

func (s *DraftService) requireProfile(ctx context.Context, userID string) (user.Profile, error) {
	profile, ok, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		return user.Profile{}, fmt.Errorf("get profile: %w", err)
	}
	if !ok {
		return user.Profile{}, fmt.Errorf("%w: claim a username before drafting", ErrInvalidInput)
	}

	return profile, nil
}

// recordActivity writes the feed event for a committed transition and hands
// it to the async sink. All of it is best-effort: the roster commit already
// happened and must not be rolled back or reported as failed.
func (s *DraftService) recordActivity(ctx context.Context, kind feed.Kind, profile user.Profile, p player.Player, message string) {
	eventID, err := s.idGen.NewID()
	if err != nil {
		s.logger.WarnContext(ctx, "generate event id failed", "error", err)
		return
	}

	event := feed.Event{
		ID:        eventID,
		Kind:      kind,
		ActorID:   profile.ID,
		PlayerID:  p.ID,
		Message:   message,
		CreatedAt: s.now().UTC(),
	}

	if err := s.events.Insert(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "feed event insert failed, falling back to post",
			"kind", string(kind),
			"error", err,
		)
		s.fallbackPost(ctx, kind, profile.ID, message)
		return
	}

	if s.sink != nil {
		s.sink.Enqueue(event)
	}
}

func (s *DraftService) fallbackPost(ctx context.Context, kind feed.Kind, userID, message string) {
	postID, err := s.idGen.NewID()
	if err != nil {
		s.logger.WarnContext(ctx, "generate fallback post id failed", "error", err)
		return
	}

	label := "selection"
	if kind == feed.KindSwap {
		label = "transfer"
	}

	now := s.now().UTC()
	post := feed.Post{
		ID:        postID,
		UserID:    userID,
		Content:   label + ": " + message,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.posts.Insert(ctx, post); err != nil {
		s.logger.WarnContext(ctx, "fallback post insert failed", "error", err)
	}
}

func (s *DraftService) invalidateCatalog(ctx context.Context) {
	if s.catalog == nil {
		return
	}
	s.catalog.DeletePrefix(ctx, catalogCachePrefix)
}

func sortRosterPlayers(items []RosterPlayer) {
	sort.Slice(items, func(i, j int) bool {
		return items[i].Player.Name < items[j].Player.Name
	})
}
