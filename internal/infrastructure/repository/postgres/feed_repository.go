package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/draft-league/draftroom/internal/domain/feed"
)

type EventRepository struct {
	db *sqlx.DB
}

func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

type eventRow struct {
	PublicID  string    `db:"public_id"`
	Kind      string    `db:"kind"`
	ActorID   string    `db:"actor_id"`
	PlayerID  string    `db:"player_public_id"`
	Message   string    `db:"message"`
	CreatedAt time.Time `db:"created_at"`
}

func (r *EventRepository) Insert(ctx context.Context, event feed.Event) error {
	const query = `
INSERT INTO feed_events (public_id, kind, actor_id, player_public_id, message, created_at)
VALUES (:public_id, :kind, :actor_id, :player_public_id, :message, :created_at)`

	insertSQL, args, err := sqlx.Named(query, map[string]any{
		"public_id":        event.ID,
		"kind":             string(event.Kind),
		"actor_id":         event.ActorID,
		"player_public_id": event.PlayerID,
		"message":          event.Message,
		"created_at":       event.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("bind insert feed event query: %w", err)
	}
	insertSQL = r.db.Rebind(insertSQL)

	if _, err := r.db.ExecContext(ctx, insertSQL, args...); err != nil {
		return fmt.Errorf("insert feed event: %w", err)
	}

	return nil
}

func (r *EventRepository) ListRecent(ctx context.Context, limit int) ([]feed.Event, error) {
	const query = `
SELECT public_id, kind, actor_id, player_public_id, message, created_at
FROM feed_events
ORDER BY created_at DESC, public_id DESC
LIMIT $1`

	var rows []eventRow
	if err := r.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("list feed events: %w", err)
	}

	out := make([]feed.Event, 0, len(rows))
	for _, row := range rows {
		out = append(out, feed.Event{
			ID:        row.PublicID,
			Kind:      feed.Kind(row.Kind),
			ActorID:   row.ActorID,
			PlayerID:  row.PlayerID,
			Message:   row.Message,
			CreatedAt: row.CreatedAt,
		})
	}

	return out, nil
}

type PostRepository struct {
	db *sqlx.DB
}

func NewPostRepository(db *sqlx.DB) *PostRepository {
	return &PostRepository{db: db}
}

type postRow struct {
	PublicID  string    `db:"public_id"`
	UserID    string    `db:"user_id"`
	Content   string    `db:"content"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (row postRow) toDomain() feed.Post {
	return feed.Post{
		ID:        row.PublicID,
		UserID:    row.UserID,
		Content:   row.Content,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

func (r *PostRepository) Insert(ctx context.Context, post feed.Post) error {
	const query = `
INSERT INTO posts (public_id, user_id, content, created_at, updated_at)
VALUES (:public_id, :user_id, :content, :created_at, :updated_at)`

	insertSQL, args, err := sqlx.Named(query, map[string]any{
		"public_id":  post.ID,
		"user_id":    post.UserID,
		"content":    post.Content,
		"created_at": post.CreatedAt,
		"updated_at": post.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("bind insert post query: %w", err)
	}
	insertSQL = r.db.Rebind(insertSQL)

	if _, err := r.db.ExecContext(ctx, insertSQL, args...); err != nil {
		return fmt.Errorf("insert post: %w", err)
	}

	return nil
}

func (r *PostRepository) GetByID(ctx context.Context, postID string) (feed.Post, bool, error) {
	const query = `
SELECT public_id, user_id, content, created_at, updated_at
FROM posts
WHERE public_id = $1
  AND deleted_at IS NULL`

	var row postRow
	if err := r.db.GetContext(ctx, &row, query, postID); err != nil {
		if isNotFound(err) {
			return feed.Post{}, false, nil
		}
		return feed.Post{}, false, fmt.Errorf("get post: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *PostRepository) Update(ctx context.Context, post feed.Post) error {
	const query = `
UPDATE posts
SET content = :content,
    updated_at = :updated_at
WHERE public_id = :public_id
  AND deleted_at IS NULL`

	updateSQL, args, err := sqlx.Named(query, map[string]any{
		"public_id":  post.ID,
		"content":    post.Content,
		"updated_at": post.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("bind update post query: %w", err)
	}
	updateSQL = r.db.Rebind(updateSQL)

	res, err := r.db.ExecContext(ctx, updateSQL, args...)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update post rowcount: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update post: no row for %s", post.ID)
	}

	return nil
}

func (r *PostRepository) ListRecent(ctx context.Context, limit int) ([]feed.Post, error) {
	const query = `
SELECT public_id, user_id, content, created_at, updated_at
FROM posts
WHERE deleted_at IS NULL
ORDER BY created_at DESC, public_id DESC
LIMIT $1`

	var rows []postRow
	if err := r.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	out := make([]feed.Post, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}
