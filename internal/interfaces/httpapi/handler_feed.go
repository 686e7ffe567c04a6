package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/gorilla/websocket"

	"github.com/riskibarqy/housie/internal/usecase"
)

const (
	feedPongWait     = 60 * time.Second
	feedPingPeriod   = (feedPongWait * 9) / 10
	feedMaxReadBytes = 512
)

// GameFeed upgrades to a websocket and streams every draw of the game as a
// JSON text message until either side goes away.
func (h *Handler) GameFeed(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GameFeed")
	defer span.End()

	gameID := strings.TrimSpace(r.PathValue("gameID"))
	if h.feed == nil {
		writeError(ctx, w, fmt.Errorf("%w: live feed is not configured", usecase.ErrDependencyUnavailable))
		return
	}
	if _, err := h.gameService.Get(ctx, gameID); err != nil {
		writeError(ctx, w, err)
		return
	}

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return allowedOrigin(h.allowedOrigins, r.Header.Get("Origin"))
		},
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WarnContext(ctx, "feed upgrade failed", "game_id", gameID, "error", err)
		return
	}
	defer conn.Close()

	draws, cancel := h.feed.Subscribe(gameID)
	defer cancel()

	h.logger.InfoContext(ctx, "feed subscriber connected", "game_id", gameID, "remote_addr", r.RemoteAddr)

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadLimit(feedMaxReadBytes)
		_ = conn.SetReadDeadline(time.Now().Add(feedPongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(feedPongWait))
		})
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(feedPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			h.logger.InfoContext(ctx, "feed subscriber disconnected", "game_id", gameID)
			return
		case draw, ok := <-draws:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "feed closed"),
					time.Now().Add(h.feedWriteTimeout))
				return
			}
			payload, err := sonic.Marshal(draw)
			if err != nil {
				h.logger.ErrorContext(ctx, "encode feed draw failed", "game_id", gameID, "error", err)
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(h.feedWriteTimeout))
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				h.logger.WarnContext(ctx, "feed write failed", "game_id", gameID, "error", err)
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(h.feedWriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
