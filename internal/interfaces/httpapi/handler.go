package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/draft-league/draftroom/internal/platform/logging"
	"github.com/draft-league/draftroom/internal/usecase"
)

type Handler struct {
	draftService   *usecase.DraftService
	catalogService *usecase.CatalogService
	feedService    *usecase.FeedService
	profileService *usecase.ProfileService
	logger         *logging.Logger
	validator      *validator.Validate
}

func NewHandler(
	draftService *usecase.DraftService,
	catalogService *usecase.CatalogService,
	feedService *usecase.FeedService,
	profileService *usecase.ProfileService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		draftService:   draftService,
		catalogService: catalogService,
		feedService:    feedService,
		profileService: profileService,
		logger:         logger,
		validator:      validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
