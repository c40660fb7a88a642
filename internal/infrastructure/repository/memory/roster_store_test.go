package memory

import (
	"errors"
	"testing"
	"time"

	"github.com/draft-league/draftroom/internal/domain/player"
	"github.com/draft-league/draftroom/internal/domain/roster"
)

func insertOf(userID, playerID string, pos player.Position) roster.Insert {
	return roster.Insert{
		Entry: roster.Entry{
			UserID:     userID,
			PlayerID:   playerID,
			AcquiredAt: time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC),
		},
		Position: pos,
	}
}

func TestRosterStore_ApplyInsert(t *testing.T) {
	store := NewRosterStore(roster.DefaultLimits())

	err := store.Apply(t.Context(), roster.Tx{
		Inserts: []roster.Insert{insertOf("user-1", "fwd-01", player.PositionForward)},
	})
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}

	count, err := store.OwnerCount(t.Context(), "fwd-01")
	if err != nil {
		t.Fatalf("owner count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 owner, got %d", count)
	}

	owned, err := store.OwnedBy(t.Context(), "user-1")
	if err != nil {
		t.Fatalf("owned by: %v", err)
	}
	if len(owned) != 1 || owned[0].PlayerID != "fwd-01" {
		t.Fatalf("unexpected roster %+v", owned)
	}
}

func TestRosterStore_ApplyRejectsDuplicateEntry(t *testing.T) {
	store := NewRosterStore(roster.DefaultLimits())

	ins := insertOf("user-1", "fwd-01", player.PositionForward)
	if err := store.Apply(t.Context(), roster.Tx{Inserts: []roster.Insert{ins}}); err != nil {
		t.Fatalf("first apply failed: %v", err)
	}

	err := store.Apply(t.Context(), roster.Tx{Inserts: []roster.Insert{ins}})
	if !errors.Is(err, roster.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestRosterStore_ApplyRejectsOverfullPlayer(t *testing.T) {
	store := NewRosterStore(roster.DefaultLimits())

	for _, userID := range []string{"user-1", "user-2"} {
		err := store.Apply(t.Context(), roster.Tx{
			Inserts: []roster.Insert{insertOf(userID, "fwd-01", player.PositionForward)},
		})
		if err != nil {
			t.Fatalf("apply for %s failed: %v", userID, err)
		}
	}

	err := store.Apply(t.Context(), roster.Tx{
		Inserts: []roster.Insert{insertOf("user-3", "fwd-01", player.PositionForward)},
	})
	if !errors.Is(err, roster.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	count, _ := store.OwnerCount(t.Context(), "fwd-01")
	if count != 2 {
		t.Fatalf("expected owner count 2, got %d", count)
	}
}

func TestRosterStore_ApplyRejectsPositionQuota(t *testing.T) {
	limits := roster.Limits{
		MaxOwnersPerPlayer: 2,
		MaxSquadSize:       15,
		MaxByPosition:      map[player.Position]int{player.PositionForward: 1},
	}
	store := NewRosterStore(limits)

	err := store.Apply(t.Context(), roster.Tx{
		Inserts: []roster.Insert{insertOf("user-1", "fwd-01", player.PositionForward)},
	})
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}

	err = store.Apply(t.Context(), roster.Tx{
		Inserts: []roster.Insert{insertOf("user-1", "fwd-02", player.PositionForward)},
	})
	if !errors.Is(err, roster.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestRosterStore_ApplyRejectsMissingDelete(t *testing.T) {
	store := NewRosterStore(roster.DefaultLimits())

	err := store.Apply(t.Context(), roster.Tx{
		Deletes: []roster.Delete{{UserID: "user-1", PlayerID: "fwd-01"}},
	})
	if !errors.Is(err, roster.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestRosterStore_ApplySwapAtQuotaCap(t *testing.T) {
	limits := roster.Limits{
		MaxOwnersPerPlayer: 2,
		MaxSquadSize:       15,
		MaxByPosition:      map[player.Position]int{player.PositionForward: 1},
	}
	store := NewRosterStore(limits)

	err := store.Apply(t.Context(), roster.Tx{
		Inserts: []roster.Insert{insertOf("user-1", "fwd-01", player.PositionForward)},
	})
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}

	// The delete frees the quota slot the insert needs.
	err = store.Apply(t.Context(), roster.Tx{
		Deletes: []roster.Delete{{UserID: "user-1", PlayerID: "fwd-01"}},
		Inserts: []roster.Insert{insertOf("user-1", "fwd-02", player.PositionForward)},
	})
	if err != nil {
		t.Fatalf("swap at quota cap failed: %v", err)
	}

	owned, err := store.OwnedBy(t.Context(), "user-1")
	if err != nil {
		t.Fatalf("owned by: %v", err)
	}
	if len(owned) != 1 || owned[0].PlayerID != "fwd-02" {
		t.Fatalf("unexpected roster %+v", owned)
	}

	count, _ := store.OwnerCount(t.Context(), "fwd-01")
	if count != 0 {
		t.Fatalf("expected fwd-01 released, got count %d", count)
	}
}

func TestRosterStore_OwnerCounts(t *testing.T) {
	store := NewRosterStore(roster.DefaultLimits())

	if err := store.Apply(t.Context(), roster.Tx{
		Inserts: []roster.Insert{insertOf("user-1", "fwd-01", player.PositionForward)},
	}); err != nil {
		t.Fatalf("apply failed: %v", err)
	}

	counts, err := store.OwnerCounts(t.Context(), []string{"fwd-01", "fwd-02"})
	if err != nil {
		t.Fatalf("owner counts: %v", err)
	}
	if counts["fwd-01"] != 1 || counts["fwd-02"] != 0 {
		t.Fatalf("unexpected counts %+v", counts)
	}
}
