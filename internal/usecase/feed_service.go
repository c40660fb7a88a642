package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sourcegraph/conc/pool"

	"github.com/draft-league/draftroom/internal/domain/feed"
	"github.com/draft-league/draftroom/internal/domain/user"
	idgen "github.com/draft-league/draftroom/internal/platform/id"
	"github.com/draft-league/draftroom/internal/platform/logging"
)

const (
	feedPageSize      = 100
	maxPostLength     = 500
	unknownAuthorName = "Unknown"
	systemAuthorName  = "System"
)

// FeedItem is a post or a roster event flattened into a single timeline
// shape. Exactly one of Post or Event semantics applies, keyed by Type.
type FeedItem struct {
	ID        string
	Type      string // "post" or "event"
	Author    string
	Content   string
	Kind      feed.Kind // empty for posts
	CreatedAt time.Time
	UpdatedAt time.Time // zero for events
	Editable  bool
}

// FeedService merges user posts and roster events into one timeline and
// handles post authoring.
type FeedService struct {
	posts    feed.PostRepository
	events   feed.EventRepository
	profiles user.ProfileRepository
	idGen    idgen.Generator
	logger   *logging.Logger
	now      func() time.Time
}

func NewFeedService(
	posts feed.PostRepository,
	events feed.EventRepository,
	profiles user.ProfileRepository,
	idGen idgen.Generator,
	logger *logging.Logger,
) *FeedService {
	if logger == nil {
		logger = logging.Default()
	}

	return &FeedService{
		posts:    posts,
		events:   events,
		profiles: profiles,
		idGen:    idGen,
		logger:   logger,
		now:      time.Now,
	}
}

// Timeline returns the newest posts and roster events merged into a single
// descending timeline. Each source contributes at most feedPageSize items.
// viewerID marks the viewer's own posts as editable; it may be empty.
func (s *FeedService) Timeline(ctx context.Context, viewerID string) ([]FeedItem, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FeedService.Timeline")
	defer span.End()

	var (
		posts  []feed.Post
		events []feed.Event
	)

	g := pool.New().WithContext(ctx).WithCancelOnError()
	g.Go(func(ctx context.Context) error {
		var err error
		posts, err = s.posts.ListRecent(ctx, feedPageSize)
		if err != nil {
			return fmt.Errorf("list posts: %w", err)
		}
		return nil
	})
	g.Go(func(ctx context.Context) error {
		var err error
		events, err = s.events.ListRecent(ctx, feedPageSize)
		if err != nil {
			return fmt.Errorf("list events: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	names, err := s.authorNames(ctx, posts, events)
	if err != nil {
		return nil, err
	}

	items := make([]FeedItem, 0, len(posts)+len(events))
	for _, p := range posts {
		items = append(items, FeedItem{
			ID:        p.ID,
			Type:      "post",
			Author:    names[p.UserID],
			Content:   p.Content,
			CreatedAt: p.CreatedAt,
			UpdatedAt: p.UpdatedAt,
			Editable:  viewerID != "" && p.UserID == viewerID,
		})
	}
	for _, e := range events {
		author := systemAuthorName
		if e.ActorID != "" {
			author = names[e.ActorID]
		}
		items = append(items, FeedItem{
			ID:        e.ID,
			Type:      "event",
			Author:    author,
			Content:   e.Message,
			Kind:      e.Kind,
			CreatedAt: e.CreatedAt,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}
		return items[i].ID > items[j].ID
	})

	return items, nil
}

// CreatePost publishes a free-form post from userID.
func (s *FeedService) CreatePost(ctx context.Context, userID, content string) (feed.Post, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FeedService.CreatePost")
	defer span.End()

	userID = strings.TrimSpace(userID)
	content = strings.TrimSpace(content)
	if userID == "" {
		return feed.Post{}, fmt.Errorf("%w: user_id is required", ErrInvalidInput)
	}
	if err := validatePostContent(content); err != nil {
		return feed.Post{}, err
	}

	id, err := s.idGen.NewID()
	if err != nil {
		return feed.Post{}, fmt.Errorf("generate post id: %w", err)
	}

	now := s.now().UTC()
	post := feed.Post{
		ID:        id,
		UserID:    userID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.posts.Insert(ctx, post); err != nil {
		return feed.Post{}, fmt.Errorf("insert post: %w", err)
	}

	s.logger.InfoContext(ctx, "post created", "post_id", id, "user_id", userID)
	return post, nil
}

// UpdatePost replaces the content of one of the caller's posts.
func (s *FeedService) UpdatePost(ctx context.Context, userID, postID, content string) (feed.Post, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FeedService.UpdatePost")
	defer span.End()

	userID = strings.TrimSpace(userID)
	postID = strings.TrimSpace(postID)
	content = strings.TrimSpace(content)
	if userID == "" || postID == "" {
		return feed.Post{}, fmt.Errorf("%w: user_id and post_id are required", ErrInvalidInput)
	}
	if err := validatePostContent(content); err != nil {
		return feed.Post{}, err
	}

	post, ok, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return feed.Post{}, fmt.Errorf("get post: %w", err)
	}
	if !ok {
		return feed.Post{}, fmt.Errorf("%w: post %s", ErrNotFound, postID)
	}
	if post.UserID != userID {
		// Hide other users' post IDs rather than confirm they exist.
		return feed.Post{}, fmt.Errorf("%w: post %s", ErrNotFound, postID)
	}

	post.Content = content
	post.UpdatedAt = s.now().UTC()
	if err := s.posts.Update(ctx, post); err != nil {
		return feed.Post{}, fmt.Errorf("update post: %w", err)
	}

	return post, nil
}

func (s *FeedService) authorNames(ctx context.Context, posts []feed.Post, events []feed.Event) (map[string]string, error) {
	idSet := map[string]struct{}{}
	for _, p := range posts {
		idSet[p.UserID] = struct{}{}
	}
	for _, e := range events {
		if e.ActorID != "" {
			idSet[e.ActorID] = struct{}{}
		}
	}

	ids := make([]string, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}

	profiles, err := s.profiles.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load author profiles: %w", err)
	}

	names := make(map[string]string, len(ids))
	for _, id := range ids {
		if p, ok := profiles[id]; ok {
			names[id] = p.Username
		} else {
			names[id] = unknownAuthorName
		}
	}

	return names, nil
}

func validatePostContent(content string) error {
	if content == "" {
		return fmt.Errorf("%w: content is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(content) > maxPostLength {
		return fmt.Errorf("%w: content exceeds %d characters", ErrInvalidInput, maxPostLength)
	}
	return nil
}
