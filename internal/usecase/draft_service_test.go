package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/draft-league/draftroom/internal/domain/feed"
	"github.com/draft-league/draftroom/internal/domain/roster"
	"github.com/draft-league/draftroom/internal/domain/user"
	"github.com/draft-league/draftroom/internal/infrastructure/repository/memory"
	"github.com/draft-league/draftroom/internal/platform/logging"
)

type seqIDGenerator struct {
	mu   sync.Mutex
	next int
}

func (g *seqIDGenerator) NewID() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	return fmt.Sprintf("id-%03d", g.next), nil
}

type capturingSink struct {
	mu     sync.Mutex
	events []feed.Event
}

func (s *capturingSink) Enqueue(event feed.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

type draftFixture struct {
	service  *DraftService
	rosters  *memory.RosterStore
	events   *memory.EventRepository
	posts    *memory.PostRepository
	profiles *memory.ProfileRepository
	sink     *capturingSink
}

func newDraftFixture(t *testing.T, users ...string) *draftFixture {
	t.Helper()

	limits := roster.DefaultLimits()
	playerRepo := memory.NewPlayerRepository(memory.SeedPlayers())
	rosterStore := memory.NewRosterStore(limits)
	eventRepo := memory.NewEventRepository()
	postRepo := memory.NewPostRepository()
	profileRepo := memory.NewProfileRepository()
	sink := &capturingSink{}

	for _, userID := range users {
		err := profileRepo.Create(t.Context(), user.Profile{
			ID:        userID,
			Username:  "name-" + userID,
			CreatedAt: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		})
		if err != nil {
			t.Fatalf("seed profile %s: %v", userID, err)
		}
	}

	service := NewDraftService(
		playerRepo,
		rosterStore,
		eventRepo,
		postRepo,
		profileRepo,
		limits,
		&seqIDGenerator{},
		sink,
		nil,
		logging.NewNop(),
	)

	return &draftFixture{
		service:  service,
		rosters:  rosterStore,
		events:   eventRepo,
		posts:    postRepo,
		profiles: profileRepo,
		sink:     sink,
	}
}

func TestDraftService_Claim(t *testing.T) {
	fx := newDraftFixture(t, "user-1")

	now := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	fx.service.now = func() time.Time { return now }

	entry, err := fx.service.Claim(t.Context(), "user-1", "fwd-01")
	if err != nil {
		t.Fatalf("claim failed: %v", err)
	}
	if entry.PlayerID != "fwd-01" || entry.UserID != "user-1" {
		t.Fatalf("unexpected entry %+v", entry)
	}
	if !entry.AcquiredAt.Equal(now) {
		t.Fatalf("expected acquired_at %v, got %v", now, entry.AcquiredAt)
	}

	count, err := fx.rosters.OwnerCount(t.Context(), "fwd-01")
	if err != nil {
		t.Fatalf("owner count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 owner, got %d", count)
	}

	events, err := fx.events.ListRecent(t.Context(), 10)
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 feed event, got %d", len(events))
	}
	if events[0].Kind != feed.KindSelectionAdded {
		t.Fatalf("expected kind %s, got %s", feed.KindSelectionAdded, events[0].Kind)
	}
	if len(fx.sink.events) != 1 {
		t.Fatalf("expected 1 sink event, got %d", len(fx.sink.events))
	}
}

func TestDraftService_Claim_UnknownPlayer(t *testing.T) {
	fx := newDraftFixture(t, "user-1")

	_, err := fx.service.Claim(t.Context(), "user-1", "fwd-99")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDraftService_Claim_WithoutUsername(t *testing.T) {
	fx := newDraftFixture(t)

	_, err := fx.service.Claim(t.Context(), "user-unregistered", "fwd-01")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestDraftService_Claim_PlayerFull(t *testing.T) {
	fx := newDraftFixture(t, "user-1", "user-2", "user-3")

	for _, userID := range []string{"user-1", "user-2"} {
		if _, err := fx.service.Claim(t.Context(), userID, "fwd-01"); err != nil {
			t.Fatalf("claim by %s failed: %v", userID, err)
		}
	}

	_, err := fx.service.Claim(t.Context(), "user-3", "fwd-01")
	if !errors.Is(err, roster.ErrPlayerFull) {
		t.Fatalf("expected ErrPlayerFull, got %v", err)
	}
}

func TestDraftService_Claim_AlreadyOwned(t *testing.T) {
	fx := newDraftFixture(t, "user-1")

	if _, err := fx.service.Claim(t.Context(), "user-1", "fwd-01"); err != nil {
		t.Fatalf("first claim failed: %v", err)
	}

	_, err := fx.service.Claim(t.Context(), "user-1", "fwd-01")
	if !errors.Is(err, roster.ErrAlreadyOwned) {
		t.Fatalf("expected ErrAlreadyOwned, got %v", err)
	}
}

func TestDraftService_Claim_PositionQuota(t *testing.T) {
	fx := newDraftFixture(t, "user-1")

	for _, playerID := range []string{"fwd-01", "fwd-02", "fwd-03"} {
		if _, err := fx.service.Claim(t.Context(), "user-1", playerID); err != nil {
			t.Fatalf("claim %s failed: %v", playerID, err)
		}
	}

	_, err := fx.service.Claim(t.Context(), "user-1", "fwd-04")
	if !errors.Is(err, roster.ErrQuotaExceeded) {
		t.Fatalf("expected ErrQuotaExceeded, got %v", err)
	}
}

func TestDraftService_Swap(t *testing.T) {
	fx := newDraftFixture(t, "user-1")

	if _, err := fx.service.Claim(t.Context(), "user-1", "fwd-01"); err != nil {
		t.Fatalf("claim failed: %v", err)
	}

	entry, err := fx.service.Swap(t.Context(), "user-1", "fwd-01", "fwd-02")
	if err != nil {
		t.Fatalf("swap failed: %v", err)
	}
	if entry.PlayerID != "fwd-02" {
		t.Fatalf("expected fwd-02, got %s", entry.PlayerID)
	}

	owned, err := fx.rosters.OwnedBy(t.Context(), "user-1")
	if err != nil {
		t.Fatalf("owned by: %v", err)
	}
	if len(owned) != 1 || owned[0].PlayerID != "fwd-02" {
		t.Fatalf("expected roster [fwd-02], got %+v", owned)
	}

	oldCount, _ := fx.rosters.OwnerCount(t.Context(), "fwd-01")
	if oldCount != 0 {
		t.Fatalf("expected fwd-01 released, owner count %d", oldCount)
	}

	events, err := fx.events.ListRecent(t.Context(), 10)
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 feed events, got %d", len(events))
	}
}

func TestDraftService_Swap_NotOwned(t *testing.T) {
	fx := newDraftFixture(t, "user-1")

	_, err := fx.service.Swap(t.Context(), "user-1", "fwd-01", "fwd-02")
	if !errors.Is(err, roster.ErrNotOwned) {
		t.Fatalf("expected ErrNotOwned, got %v", err)
	}
}

func TestDraftService_Swap_PositionMismatch(t *testing.T) {
	fx := newDraftFixture(t, "user-1")

	if _, err := fx.service.Claim(t.Context(), "user-1", "fwd-01"); err != nil {
		t.Fatalf("claim failed: %v", err)
	}

	_, err := fx.service.Swap(t.Context(), "user-1", "fwd-01", "mid-01")
	if !errors.Is(err, roster.ErrPositionMismatch) {
		t.Fatalf("expected ErrPositionMismatch, got %v", err)
	}
}

func TestDraftService_Swap_ReplacementAlreadyOwned(t *testing.T) {
	fx := newDraftFixture(t, "user-1")

	for _, playerID := range []string{"fwd-01", "fwd-02"} {
		if _, err := fx.service.Claim(t.Context(), "user-1", playerID); err != nil {
			t.Fatalf("claim %s failed: %v", playerID, err)
		}
	}

	_, err := fx.service.Swap(t.Context(), "user-1", "fwd-01", "fwd-02")
	if !errors.Is(err, roster.ErrAlreadyOwned) {
		t.Fatalf("expected ErrAlreadyOwned, got %v", err)
	}
}

func TestDraftService_Swap_SamePlayer(t *testing.T) {
	fx := newDraftFixture(t, "user-1")

	if _, err := fx.service.Claim(t.Context(), "user-1", "fwd-01"); err != nil {
		t.Fatalf("claim failed: %v", err)
	}

	_, err := fx.service.Swap(t.Context(), "user-1", "fwd-01", "fwd-01")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestDraftService_Swap_KeepsQuotaAtCap(t *testing.T) {
	fx := newDraftFixture(t, "user-1")

	// Fill the FWD quota, then swap one forward for another. The swap must
	// succeed because the delete frees a slot inside the same transaction.
	for _, playerID := range []string{"fwd-01", "fwd-02", "fwd-03"} {
		if _, err := fx.service.Claim(t.Context(), "user-1", playerID); err != nil {
			t.Fatalf("claim %s failed: %v", playerID, err)
		}
	}

	if _, err := fx.service.Swap(t.Context(), "user-1", "fwd-01", "fwd-04"); err != nil {
		t.Fatalf("swap at quota cap failed: %v", err)
	}
}

func TestDraftService_ConcurrentClaims(t *testing.T) {
	userIDs := make([]string, 8)
	for i := range userIDs {
		userIDs[i] = fmt.Sprintf("user-%d", i+1)
	}
	fx := newDraftFixture(t, userIDs...)

	var wg sync.WaitGroup
	results := make([]error, len(userIDs))
	for i, userID := range userIDs {
		wg.Add(1)
		go func(i int, userID string) {
			defer wg.Done()
			_, results[i] = fx.service.Claim(context.Background(), userID, "gk-01")
		}(i, userID)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, roster.ErrPlayerFull):
		default:
			t.Fatalf("unexpected claim result: %v", err)
		}
	}
	if succeeded != 2 {
		t.Fatalf("expected exactly 2 successful claims, got %d", succeeded)
	}

	count, err := fx.rosters.OwnerCount(t.Context(), "gk-01")
	if err != nil {
		t.Fatalf("owner count: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 owners after contention, got %d", count)
	}
}

func TestDraftService_RosterOf_Ordering(t *testing.T) {
	fx := newDraftFixture(t, "user-1")

	for _, playerID := range []string{"fwd-02", "gk-01", "mid-03", "def-02"} {
		if _, err := fx.service.Claim(t.Context(), "user-1", playerID); err != nil {
			t.Fatalf("claim %s failed: %v", playerID, err)
		}
	}

	players, err := fx.service.RosterOf(t.Context(), "user-1")
	if err != nil {
		t.Fatalf("roster of: %v", err)
	}

	got := make([]string, 0, len(players))
	for _, rp := range players {
		got = append(got, rp.Player.ID)
	}
	want := []string{"gk-01", "def-02", "mid-03", "fwd-02"}
	if len(got) != len(want) {
		t.Fatalf("expected %d players, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, got)
		}
	}
}

type failingEventRepo struct{}

func (failingEventRepo) Insert(context.Context, feed.Event) error {
	return errors.New("event store unavailable")
}

func (failingEventRepo) ListRecent(context.Context, int) ([]feed.Event, error) {
	return nil, nil
}

func TestDraftService_Claim_EventFallbackPost(t *testing.T) {
	fx := newDraftFixture(t, "user-1")
	fx.service.events = failingEventRepo{}

	if _, err := fx.service.Claim(t.Context(), "user-1", "fwd-01"); err != nil {
		t.Fatalf("claim failed: %v", err)
	}

	posts, err := fx.posts.ListRecent(t.Context(), 10)
	if err != nil {
		t.Fatalf("list posts: %v", err)
	}
	if len(posts) != 1 {
		t.Fatalf("expected 1 fallback post, got %d", len(posts))
	}
	if posts[0].Content != "selection: name-user-1 selected Erling Haaland" {
		t.Fatalf("unexpected fallback content %q", posts[0].Content)
	}
	if len(fx.sink.events) != 0 {
		t.Fatalf("expected no sink events after fallback, got %d", len(fx.sink.events))
	}
}
