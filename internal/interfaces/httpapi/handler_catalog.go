package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/draft-league/draftroom/internal/domain/player"
	"github.com/draft-league/draftroom/internal/usecase"
)

type catalogPlayerDTO struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Position   string `json:"position"`
	Team       string `json:"team"`
	OwnerCount int    `json:"owner_count"`
	OwnedByMe  bool   `json:"owned_by_me"`
}

func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPlayers")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	filter := player.Filter{
		Team:     strings.TrimSpace(r.URL.Query().Get("team")),
		Position: player.Position(strings.TrimSpace(r.URL.Query().Get("position"))),
	}

	players, err := h.catalogService.List(ctx, principal.UserID, filter)
	if err != nil {
		h.logger.WarnContext(ctx, "list players failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]catalogPlayerDTO, 0, len(players))
	for _, p := range players {
		out = append(out, catalogPlayerToDTO(p))
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{"players": out})
}

func (h *Handler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayer")
	defer span.End()

	if _, ok := principalFromContext(ctx); !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	p, err := h.catalogService.GetByID(ctx, r.PathValue("playerID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, catalogPlayerToDTO(p))
}

func catalogPlayerToDTO(p usecase.CatalogPlayer) catalogPlayerDTO {
	return catalogPlayerDTO{
		ID:         p.Player.ID,
		Name:       p.Player.Name,
		Position:   string(p.Player.Position),
		Team:       p.Player.Team,
		OwnerCount: p.OwnerCount,
		OwnedByMe:  p.OwnedByMe,
	}
}
