package user

import "context"

// ProfileRepository persists user profiles. Create must fail with
// ErrUsernameTaken when the username is held by another user.
type ProfileRepository interface {
	GetByID(ctx context.Context, userID string) (Profile, bool, error)
	GetByUsername(ctx context.Context, username string) (Profile, bool, error)
	GetByIDs(ctx context.Context, userIDs []string) (map[string]Profile, error)
	Create(ctx context.Context, profile Profile) error
}
