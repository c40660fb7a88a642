package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/draft-league/draftroom/internal/domain/user"
	"github.com/draft-league/draftroom/internal/infrastructure/repository/memory"
	"github.com/draft-league/draftroom/internal/platform/logging"
)

func newProfileService(t *testing.T) (*ProfileService, *memory.ProfileRepository) {
	t.Helper()

	repo := memory.NewProfileRepository()
	return NewProfileService(repo, logging.NewNop()), repo
}

func TestProfileService_ClaimUsername(t *testing.T) {
	service, repo := newProfileService(t)

	now := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return now }

	profile, err := service.ClaimUsername(t.Context(), "user-1", "  alice  ")
	if err != nil {
		t.Fatalf("claim username failed: %v", err)
	}
	if profile.Username != "alice" {
		t.Fatalf("expected trimmed username, got %q", profile.Username)
	}
	if !profile.CreatedAt.Equal(now) {
		t.Fatalf("expected created_at %v, got %v", now, profile.CreatedAt)
	}

	stored, ok, err := repo.GetByID(t.Context(), "user-1")
	if err != nil || !ok {
		t.Fatalf("expected profile persisted, ok=%v err=%v", ok, err)
	}
	if stored.Username != "alice" {
		t.Fatalf("unexpected stored username %q", stored.Username)
	}
}

func TestProfileService_ClaimUsername_Immutable(t *testing.T) {
	service, _ := newProfileService(t)

	if _, err := service.ClaimUsername(t.Context(), "user-1", "alice"); err != nil {
		t.Fatalf("first claim failed: %v", err)
	}

	_, err := service.ClaimUsername(t.Context(), "user-1", "alice2")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput on second claim, got %v", err)
	}
}

func TestProfileService_ClaimUsername_TakenCaseInsensitive(t *testing.T) {
	service, _ := newProfileService(t)

	if _, err := service.ClaimUsername(t.Context(), "user-1", "Alice"); err != nil {
		t.Fatalf("first claim failed: %v", err)
	}

	_, err := service.ClaimUsername(t.Context(), "user-2", "alice")
	if !errors.Is(err, user.ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestProfileService_ClaimUsername_Invalid(t *testing.T) {
	service, _ := newProfileService(t)

	for _, username := range []string{"", "ab", "this-username-is-way-too-long-to-accept", "has spaces"} {
		if _, err := service.ClaimUsername(t.Context(), "user-1", username); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput for %q, got %v", username, err)
		}
	}
}

func TestProfileService_Get(t *testing.T) {
	service, _ := newProfileService(t)

	if _, err := service.Get(t.Context(), "user-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound before claim, got %v", err)
	}

	if _, err := service.ClaimUsername(t.Context(), "user-1", "alice"); err != nil {
		t.Fatalf("claim username failed: %v", err)
	}

	profile, err := service.Get(t.Context(), "user-1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if profile.Username != "alice" {
		t.Fatalf("unexpected username %q", profile.Username)
	}
}

func TestProfileService_UsernameOf(t *testing.T) {
	service, _ := newProfileService(t)

	name, err := service.UsernameOf(t.Context(), "user-missing")
	if err != nil {
		t.Fatalf("username of failed: %v", err)
	}
	if name != "Unknown" {
		t.Fatalf("expected Unknown for missing profile, got %q", name)
	}
}
