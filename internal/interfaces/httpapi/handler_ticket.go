package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/housie/internal/domain/ticket"
	"github.com/riskibarqy/housie/internal/usecase"
)

// GenerateTicket returns one ticket as JSON, or as a text grid with ?format=text.
func (h *Handler) GenerateTicket(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GenerateTicket")
	defer span.End()

	format := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))
	if format != "" && format != "json" && format != "text" {
		writeError(ctx, w, fmt.Errorf("%w: unsupported format %q", usecase.ErrInvalidInput, format))
		return
	}

	item, err := h.ticketService.Generate(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "generate ticket failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	if format == "text" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(ticket.Render(item)))
		return
	}

	writeSuccess(ctx, w, http.StatusOK, ticketToDTO(ctx, item))
}

func (h *Handler) GenerateTicketBatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GenerateTicketBatch")
	defer span.End()

	var req ticketBatchRequest
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

	items, err := h.ticketService.GenerateBatch(ctx, req.Count)
	if err != nil {
		h.logger.WarnContext(ctx, "generate ticket batch failed", "count", req.Count, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]ticketDTO, 0, len(items))
	for _, item := range items {
		out = append(out, ticketToDTO(ctx, item))
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}
