package httpapi

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/housie/internal/domain/game"
	idgen "github.com/riskibarqy/housie/internal/platform/id"
	"github.com/riskibarqy/housie/internal/usecase"
)

func (h *Handler) ListGames(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListGames")
	defer span.End()

	games, err := h.gameService.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list games failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]gameDTO, 0, len(games))
	for _, g := range games {
		items = append(items, gameToDTO(ctx, g))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) CreateGame(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateGame")
	defer span.End()

	var req createGameRequest
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

	item, err := h.gameService.Create(ctx, req.Name)
	if err != nil {
		h.logger.WarnContext(ctx, "create game failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, gameToDTO(ctx, item))
}

func (h *Handler) GetGame(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetGame")
	defer span.End()

	gameID := strings.TrimSpace(r.PathValue("gameID"))
	item, err := h.gameService.Get(ctx, gameID)
	if err != nil {
		h.logger.WarnContext(ctx, "get game failed", "game_id", gameID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, gameToDTO(ctx, item))
}

func (h *Handler) DeleteGame(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteGame")
	defer span.End()

	gameID := strings.TrimSpace(r.PathValue("gameID"))
	result, err := h.gameService.Delete(ctx, gameID)
	if err != nil {
		h.logger.WarnContext(ctx, "delete game failed", "game_id", gameID, "error", err)
		writeError(ctx, w, err)
		return
	}
	h.drawCooldown.Reset(gameID)

	writeSuccess(ctx, w, http.StatusOK, deleteGameDTO{
		RestoreToken: result.RestoreToken,
		ExpiresAt:    formatTime(result.ExpiresAt),
	})
}

func (h *Handler) DeleteAllGames(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteAllGames")
	defer span.End()

	if err := h.gameService.DeleteAll(ctx); err != nil {
		h.logger.ErrorContext(ctx, "delete all games failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) RestoreGame(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RestoreGame")
	defer span.End()

	var req restoreGameRequest
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

	if !idgen.Valid(req.RestoreToken) {
		writeError(ctx, w, fmt.Errorf("%w: malformed restore token", usecase.ErrInvalidInput))
		return
	}

	item, err := h.gameService.Restore(ctx, req.RestoreToken)
	if err != nil {
		h.logger.WarnContext(ctx, "restore game failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, gameToDTO(ctx, item))
}

// DrawNumbers draws one or more numbers. A batch that empties the pool still
// returns what was drawn with exhausted set.
func (h *Handler) DrawNumbers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DrawNumbers")
	defer span.End()

	gameID := strings.TrimSpace(r.PathValue("gameID"))

	var req drawRequest
	if err := decodeOptionalJSON(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	if wait, err := h.drawCooldown.Allow(gameID); err != nil {
		w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
		writeError(ctx, w, fmt.Errorf("%w: game=%s retry in %s", err, gameID, wait.Round(time.Millisecond)))
		return
	}

	result, err := h.gameService.Draw(ctx, gameID, req.Count)
	if err != nil && !(errors.Is(err, game.ErrGameComplete) && len(result.Numbers) > 0) {
		h.logger.WarnContext(ctx, "draw failed", "game_id", gameID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, drawResultToDTO(ctx, result))
}
