package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/draft-league/draftroom/internal/domain/user"
	"github.com/draft-league/draftroom/internal/platform/logging"
)

// ProfileService manages display profiles. A profile exists once the user
// claims a username; usernames are unique and immutable after that.
type ProfileService struct {
	profiles user.ProfileRepository
	logger   *logging.Logger
	now      func() time.Time
}

func NewProfileService(profiles user.ProfileRepository, logger *logging.Logger) *ProfileService {
	if logger == nil {
		logger = logging.Default()
	}

	return &ProfileService{
		profiles: profiles,
		logger:   logger,
		now:      time.Now,
	}
}

// Get returns the caller's profile, or ErrNotFound when no username has been
// claimed yet.
func (s *ProfileService) Get(ctx context.Context, userID string) (user.Profile, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ProfileService.Get")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return user.Profile{}, fmt.Errorf("%w: user_id is required", ErrInvalidInput)
	}

	profile, ok, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		return user.Profile{}, fmt.Errorf("get profile: %w", err)
	}
	if !ok {
		return user.Profile{}, fmt.Errorf("%w: profile for user %s", ErrNotFound, userID)
	}

	return profile, nil
}

// ClaimUsername registers username for userID. The claim is one-shot:
// a user who already holds a username cannot change it.
func (s *ProfileService) ClaimUsername(ctx context.Context, userID, username string) (user.Profile, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ProfileService.ClaimUsername")
	defer span.End()

	userID = strings.TrimSpace(userID)
	username = strings.TrimSpace(username)
	if userID == "" {
		return user.Profile{}, fmt.Errorf("%w: user_id is required", ErrInvalidInput)
	}
	if err := user.ValidateUsername(username); err != nil {
		return user.Profile{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if existing, ok, err := s.profiles.GetByID(ctx, userID); err != nil {
		return user.Profile{}, fmt.Errorf("get profile: %w", err)
	} else if ok {
		return user.Profile{}, fmt.Errorf("%w: username already claimed as %s", ErrInvalidInput, existing.Username)
	}

	profile := user.Profile{
		ID:        userID,
		Username:  username,
		CreatedAt: s.now().UTC(),
	}
	if err := s.profiles.Create(ctx, profile); err != nil {
		if errors.Is(err, user.ErrUsernameTaken) {
			return user.Profile{}, err
		}
		return user.Profile{}, fmt.Errorf("create profile: %w", err)
	}

	s.logger.InfoContext(ctx, "username claimed", "user_id", userID, "username", username)
	return profile, nil
}

// UsernameOf resolves userID to its display name, or "Unknown" when the user
// has no profile.
func (s *ProfileService) UsernameOf(ctx context.Context, userID string) (string, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ProfileService.UsernameOf")
	defer span.End()

	profile, ok, err := s.profiles.GetByID(ctx, strings.TrimSpace(userID))
	if err != nil {
		return "", fmt.Errorf("get profile: %w", err)
	}
	if !ok {
		return unknownAuthorName, nil
	}

	return profile.Username, nil
}
