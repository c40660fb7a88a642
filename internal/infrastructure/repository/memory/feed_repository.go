package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/draft-league/draftroom/internal/domain/feed"
)

type EventRepository struct {
	mu     sync.RWMutex
	events []feed.Event
}

func NewEventRepository() *EventRepository {
	return &EventRepository{}
}

func (r *EventRepository) Insert(_ context.Context, event feed.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, event)
	return nil
}

func (r *EventRepository) ListRecent(_ context.Context, limit int) ([]feed.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]feed.Event, len(r.events))
	copy(out, r.events)
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}

	return out, nil
}

type PostRepository struct {
	mu    sync.RWMutex
	posts map[string]feed.Post
}

func NewPostRepository() *PostRepository {
	return &PostRepository{posts: make(map[string]feed.Post)}
}

func (r *PostRepository) Insert(_ context.Context, post feed.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.posts[post.ID] = post
	return nil
}

func (r *PostRepository) GetByID(_ context.Context, postID string) (feed.Post, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	post, ok := r.posts[postID]
	return post, ok, nil
}

func (r *PostRepository) Update(_ context.Context, post feed.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.posts[post.ID] = post
	return nil
}

func (r *PostRepository) ListRecent(_ context.Context, limit int) ([]feed.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]feed.Post, 0, len(r.posts))
	for _, post := range r.posts {
		out = append(out, post)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}

	return out, nil
}
