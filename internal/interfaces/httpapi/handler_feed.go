package httpapi

import (
	"fmt"
	"net/http"

	sonic "github.com/bytedance/sonic"

	"github.com/draft-league/draftroom/internal/domain/feed"
	"github.com/draft-league/draftroom/internal/usecase"
)

type createPostRequest struct {
	Content string `json:"content" validate:"required,max=500"`
}

type updatePostRequest struct {
	Content string `json:"content" validate:"required,max=500"`
}

type feedItemDTO struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Author    string `json:"author"`
	Content   string `json:"content"`
	Kind      string `json:"kind,omitempty"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at,omitempty"`
	Editable  bool   `json:"editable"`
}

type postDTO struct {
	ID        string `json:"id"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// GetFeed is public: an anonymous viewer sees the same timeline with no
// editable items.
func (h *Handler) GetFeed(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetFeed")
	defer span.End()

	viewerID := ""
	if principal, ok := principalFromContext(ctx); ok {
		viewerID = principal.UserID
	}

	items, err := h.feedService.Timeline(ctx, viewerID)
	if err != nil {
		h.logger.WarnContext(ctx, "get feed failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]feedItemDTO, 0, len(items))
	for _, item := range items {
		out = append(out, feedItemDTO{
			ID:        item.ID,
			Type:      item.Type,
			Author:    item.Author,
			Content:   item.Content,
			Kind:      string(item.Kind),
			CreatedAt: formatTime(item.CreatedAt),
			UpdatedAt: formatTime(item.UpdatedAt),
			Editable:  item.Editable,
		})
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{"items": out})
}

func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreatePost")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req createPostRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	post, err := h.feedService.CreatePost(ctx, principal.UserID, req.Content)
	if err != nil {
		h.logger.WarnContext(ctx, "create post failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, postToDTO(post))
}

func (h *Handler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdatePost")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req updatePostRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	post, err := h.feedService.UpdatePost(ctx, principal.UserID, r.PathValue("postID"), req.Content)
	if err != nil {
		h.logger.WarnContext(ctx, "update post failed", "user_id", principal.UserID, "post_id", r.PathValue("postID"), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, postToDTO(post))
}

func postToDTO(post feed.Post) postDTO {
	return postDTO{
		ID:        post.ID,
		Content:   post.Content,
		CreatedAt: formatTime(post.CreatedAt),
		UpdatedAt: formatTime(post.UpdatedAt),
	}
}
