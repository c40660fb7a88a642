package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/draft-league/draftroom/internal/domain/user"
)

type ProfileRepository struct {
	db *sqlx.DB
}

func NewProfileRepository(db *sqlx.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

type profileRow struct {
	UserID    string    `db:"user_id"`
	Username  string    `db:"username"`
	CreatedAt time.Time `db:"created_at"`
}

func (row profileRow) toDomain() user.Profile {
	return user.Profile{
		ID:        row.UserID,
		Username:  row.Username,
		CreatedAt: row.CreatedAt,
	}
}

func (r *ProfileRepository) GetByID(ctx context.Context, userID string) (user.Profile, bool, error) {
	const query = `
SELECT user_id, username, created_at
FROM profiles
WHERE user_id = $1`

	var row profileRow
	if err := r.db.GetContext(ctx, &row, query, userID); err != nil {
		if isNotFound(err) {
			return user.Profile{}, false, nil
		}
		return user.Profile{}, false, fmt.Errorf("get profile: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *ProfileRepository) GetByUsername(ctx context.Context, username string) (user.Profile, bool, error) {
	const query = `
SELECT user_id, username, created_at
FROM profiles
WHERE LOWER(username) = LOWER($1)`

	var row profileRow
	if err := r.db.GetContext(ctx, &row, query, username); err != nil {
		if isNotFound(err) {
			return user.Profile{}, false, nil
		}
		return user.Profile{}, false, fmt.Errorf("get profile by username: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *ProfileRepository) GetByIDs(ctx context.Context, userIDs []string) (map[string]user.Profile, error) {
	out := make(map[string]user.Profile, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}

	const query = `
SELECT user_id, username, created_at
FROM profiles
WHERE user_id = ANY($1)`

	var rows []profileRow
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(userIDs)); err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}

	for _, row := range rows {
		out[row.UserID] = row.toDomain()
	}

	return out, nil
}

func (r *ProfileRepository) Create(ctx context.Context, profile user.Profile) error {
	const query = `
INSERT INTO profiles (user_id, username, created_at)
VALUES (:user_id, :username, :created_at)`

	insertSQL, args, err := sqlx.Named(query, map[string]any{
		"user_id":    profile.ID,
		"username":   profile.Username,
		"created_at": profile.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("bind insert profile query: %w", err)
	}
	insertSQL = r.db.Rebind(insertSQL)

	if _, err := r.db.ExecContext(ctx, insertSQL, args...); err != nil {
		if isRetryableConflict(err) {
			return fmt.Errorf("%w: %s", user.ErrUsernameTaken, profile.Username)
		}
		return fmt.Errorf("insert profile: %w", err)
	}

	return nil
}
