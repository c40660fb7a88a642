package httpapi

import (
	"fmt"
	"net/http"

	sonic "github.com/bytedance/sonic"

	"github.com/draft-league/draftroom/internal/usecase"
)

type claimPlayerRequest struct {
	PlayerID string `json:"player_id" validate:"required"`
}

type swapPlayersRequest struct {
	OldPlayerID string `json:"old_player_id" validate:"required"`
	NewPlayerID string `json:"new_player_id" validate:"required"`
}

type rosterEntryDTO struct {
	PlayerID   string `json:"player_id"`
	AcquiredAt string `json:"acquired_at"`
}

type rosterPlayerDTO struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Position   string `json:"position"`
	Team       string `json:"team"`
	AcquiredAt string `json:"acquired_at"`
}

func (h *Handler) ClaimPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ClaimPlayer")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req claimPlayerRequest
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

	entry, err := h.draftService.Claim(ctx, principal.UserID, req.PlayerID)
	if err != nil {
		h.logger.WarnContext(ctx, "claim player failed", "user_id", principal.UserID, "player_id", req.PlayerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, rosterEntryDTO{
		PlayerID:   entry.PlayerID,
		AcquiredAt: formatTime(entry.AcquiredAt),
	})
}

func (h *Handler) SwapPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SwapPlayers")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req swapPlayersRequest
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

	entry, err := h.draftService.Swap(ctx, principal.UserID, req.OldPlayerID, req.NewPlayerID)
	if err != nil {
		h.logger.WarnContext(ctx, "swap players failed",
			"user_id", principal.UserID,
			"old_player_id", req.OldPlayerID,
			"new_player_id", req.NewPlayerID,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, rosterEntryDTO{
		PlayerID:   entry.PlayerID,
		AcquiredAt: formatTime(entry.AcquiredAt),
	})
}

func (h *Handler) GetMyRoster(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMyRoster")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	players, err := h.draftService.RosterOf(ctx, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "get roster failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]rosterPlayerDTO, 0, len(players))
	for _, rp := range players {
		out = append(out, rosterPlayerDTO{
			ID:         rp.Player.ID,
			Name:       rp.Player.Name,
			Position:   string(rp.Player.Position),
			Team:       rp.Player.Team,
			AcquiredAt: formatTime(rp.AcquiredAt),
		})
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{"players": out})
}
