package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/draft-league/draftroom/internal/domain/user"
)

type ProfileRepository struct {
	mu         sync.RWMutex
	byID       map[string]user.Profile
	byUsername map[string]string // lowercased username -> userID
}

func NewProfileRepository() *ProfileRepository {
	return &ProfileRepository{
		byID:       make(map[string]user.Profile),
		byUsername: make(map[string]string),
	}
}

func (r *ProfileRepository) GetByID(_ context.Context, userID string) (user.Profile, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	profile, ok := r.byID[userID]
	return profile, ok, nil
}

func (r *ProfileRepository) GetByUsername(_ context.Context, username string) (user.Profile, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byUsername[strings.ToLower(username)]
	if !ok {
		return user.Profile{}, false, nil
	}

	return r.byID[id], true, nil
}

func (r *ProfileRepository) GetByIDs(_ context.Context, userIDs []string) (map[string]user.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]user.Profile, len(userIDs))
	for _, id := range userIDs {
		if profile, ok := r.byID[id]; ok {
			out[id] = profile
		}
	}

	return out, nil
}

func (r *ProfileRepository) Create(_ context.Context, profile user.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(profile.Username)
	if _, ok := r.byUsername[key]; ok {
		return fmt.Errorf("%w: %s", user.ErrUsernameTaken, profile.Username)
	}
	if _, ok := r.byID[profile.ID]; ok {
		return fmt.Errorf("profile %s already exists", profile.ID)
	}

	r.byID[profile.ID] = profile
	r.byUsername[key] = profile.ID

	return nil
}
