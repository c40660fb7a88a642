package feed

import "context"

// EventRepository persists roster activity events.
type EventRepository interface {
	Insert(ctx context.Context, event Event) error
	ListRecent(ctx context.Context, limit int) ([]Event, error)
}

// PostRepository persists user posts.
type PostRepository interface {
	Insert(ctx context.Context, post Post) error
	GetByID(ctx context.Context, postID string) (Post, bool, error)
	Update(ctx context.Context, post Post) error
	ListRecent(ctx context.Context, limit int) ([]Post, error)
}
