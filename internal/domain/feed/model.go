package feed

import (
	"fmt"
	"strings"
	"time"
)

// Kind classifies roster activity events.
type Kind string

const (
	KindSelectionAdded   Kind = "selection_added"
	KindSwap             Kind = "swap"
	KindSelectionRemoved Kind = "selection_removed"
)

var allKinds = map[Kind]struct{}{
	KindSelectionAdded:   {},
	KindSwap:             {},
	KindSelectionRemoved: {},
}

// Event is a committed roster transition recorded for the activity feed.
// Events are written after the roster commit and are best-effort: losing one
// never rolls back the claim or swap it describes.
type Event struct {
	ID        string
	Kind      Kind
	ActorID   string
	PlayerID  string
	Message   string
	CreatedAt time.Time
}

func (e Event) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("event id is required")
	}
	if _, ok := allKinds[e.Kind]; !ok {
		return fmt.Errorf("invalid event kind: %s", e.Kind)
	}
	if strings.TrimSpace(e.Message) == "" {
		return fmt.Errorf("event message is required")
	}

	return nil
}

// Post is a free-form user message on the shared feed.
type Post struct {
	ID        string
	UserID    string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (p Post) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("post id is required")
	}
	if p.UserID == "" {
		return fmt.Errorf("post user id is required")
	}
	if strings.TrimSpace(p.Content) == "" {
		return fmt.Errorf("post content is required")
	}

	return nil
}
