package httpapi

import (
	"fmt"
	"net/http"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/housie/internal/usecase"
)

func (h *Handler) GetNarration(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetNarration")
	defer span.End()

	muted, err := h.preferenceService.NarrationMuted(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "get narration preference failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, narrationDTO{Muted: muted})
}

func (h *Handler) SetNarration(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetNarration")
	defer span.End()

	var req narrationRequest
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

	item, err := h.preferenceService.SetNarrationMuted(ctx, *req.Muted)
	if err != nil {
		h.logger.ErrorContext(ctx, "set narration preference failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, narrationToDTO(ctx, item))
}

func (h *Handler) ToggleNarration(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ToggleNarration")
	defer span.End()

	item, err := h.preferenceService.ToggleNarration(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "toggle narration failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, narrationToDTO(ctx, item))
}
