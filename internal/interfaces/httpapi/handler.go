package httpapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/riskibarqy/housie/internal/domain/announce"
	"github.com/riskibarqy/housie/internal/platform/logging"
	"github.com/riskibarqy/housie/internal/platform/resilience"
	"github.com/riskibarqy/housie/internal/usecase"
)

// FeedSource hands out live draw subscriptions for a game.
type FeedSource interface {
	Subscribe(gameID string) (<-chan announce.Draw, func())
}

type HandlerConfig struct {
	// DrawCooldown rejects a repeated draw for the same game inside the window. Zero disables it.
	DrawCooldown       time.Duration
	FeedWriteTimeout   time.Duration
	CORSAllowedOrigins []string
}

type Handler struct {
	gameService       *usecase.GameService
	ticketService     *usecase.TicketService
	preferenceService *usecase.PreferenceService
	feed              FeedSource
	drawCooldown      *resilience.Cooldown
	feedWriteTimeout  time.Duration
	allowedOrigins    []string
	logger            *logging.Logger
	validator         *validator.Validate
}

func NewHandler(
	gameService *usecase.GameService,
	ticketService *usecase.TicketService,
	preferenceService *usecase.PreferenceService,
	feed FeedSource,
	cfg HandlerConfig,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.FeedWriteTimeout <= 0 {
		cfg.FeedWriteTimeout = 10 * time.Second
	}

	return &Handler{
		gameService:       gameService,
		ticketService:     ticketService,
		preferenceService: preferenceService,
		feed:              feed,
		drawCooldown:      resilience.NewCooldown(cfg.DrawCooldown),
		feedWriteTimeout:  cfg.FeedWriteTimeout,
		allowedOrigins:    append([]string(nil), cfg.CORSAllowedOrigins...),
		logger:            logger,
		validator:         validator.New(),
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

const maxBodyBytes = 1 << 20

var strictJSON = sonic.Config{DisallowUnknownFields: true}.Froze()

// decodeOptionalJSON leaves dst untouched when the body is empty.
func decodeOptionalJSON(r *http.Request, dst any) error {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("%w: read body: %v", usecase.ErrInvalidInput, err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := strictJSON.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}
