package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/housie/internal/domain/announce"
	"github.com/riskibarqy/housie/internal/infrastructure/broadcast"
	"github.com/riskibarqy/housie/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/housie/internal/platform/id"
	"github.com/riskibarqy/housie/internal/platform/logging"
	"github.com/riskibarqy/housie/internal/platform/random"
	"github.com/riskibarqy/housie/internal/usecase"
)

type testEnv struct {
	router http.Handler
	hub    *broadcast.Hub
	games  *usecase.GameService
}

func newTestEnv(t *testing.T, cfg HandlerConfig) testEnv {
	t.Helper()

	logger := logging.NewNop()
	src := random.NewSeeded(7)
	hub := broadcast.NewHub(8, logger)
	t.Cleanup(hub.Close)

	preferences := usecase.NewPreferenceService(memory.NewPreferenceRepository(), logger)
	games := usecase.NewGameService(
		memory.NewGameRepository(nil),
		preferences,
		hub,
		src,
		id.NewUUIDGenerator(),
		usecase.GameServiceConfig{RestoreWindow: time.Minute, Voices: []string{"en-IN"}},
		logger,
	)
	tickets := usecase.NewTicketService(src, usecase.TicketServiceConfig{BatchMax: 10, Workers: 2}, logger)

	handler := NewHandler(games, tickets, preferences, hub, cfg, logger)
	return testEnv{
		router: NewRouter(handler, logger, []string{"*"}),
		hub:    hub,
		games:  games,
	}
}

func (e testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body.Data
}

func decodeList(t *testing.T, rec *httptest.ResponseRecorder) []any {
	t.Helper()

	var body struct {
		Data []any `json:"data"`
	}
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body.Data
}

func createGame(t *testing.T, env testEnv, name string) string {
	t.Helper()

	rec := env.do(t, http.MethodPost, "/v1/games", `{"name":"`+name+`"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	gameID, _ := decodeData(t, rec)["id"].(string)
	require.NotEmpty(t, gameID)
	return gameID
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t, HandlerConfig{})

	rec := env.do(t, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", decodeData(t, rec)["status"])
}

func TestGameLifecycle(t *testing.T) {
	env := newTestEnv(t, HandlerConfig{})

	gameID := createGame(t, env, "Friday night")

	rec := env.do(t, http.MethodGet, "/v1/games/"+gameID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeData(t, rec)
	require.Equal(t, "Friday night", data["name"])
	require.EqualValues(t, 90, data["remaining_count"])
	require.Nil(t, data["last_drawn"])
	require.Equal(t, false, data["complete"])

	rec = env.do(t, http.MethodPost, "/v1/games/"+gameID+"/draws", `{"count":3}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	data = decodeData(t, rec)
	require.Len(t, data["numbers"], 3)
	require.Len(t, data["announcements"], 3)
	require.Equal(t, false, data["exhausted"])
	drawnGame := data["game"].(map[string]any)
	require.EqualValues(t, 3, drawnGame["drawn_count"])
	require.EqualValues(t, 87, drawnGame["remaining_count"])

	rec = env.do(t, http.MethodGet, "/v1/games", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decodeList(t, rec), 1)

	rec = env.do(t, http.MethodDelete, "/v1/games/"+gameID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	token, _ := decodeData(t, rec)["restore_token"].(string)
	require.NotEmpty(t, token)

	rec = env.do(t, http.MethodGet, "/v1/games/"+gameID, "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodPost, "/v1/games/restore", `{"restore_token":"`+token+`"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	restored := decodeData(t, rec)
	require.NotEqual(t, gameID, restored["id"])
	require.EqualValues(t, 3, restored["drawn_count"])

	rec = env.do(t, http.MethodPost, "/v1/games/restore", `{"restore_token":"`+token+`"}`)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodPost, "/v1/games/restore", `{"restore_token":"not-a-token"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodDelete, "/v1/games", "")
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = env.do(t, http.MethodGet, "/v1/games", "")
	require.Empty(t, decodeList(t, rec))
}

func TestCreateGame_RejectsBadPayloads(t *testing.T) {
	env := newTestEnv(t, HandlerConfig{})

	tests := []struct {
		name string
		body string
	}{
		{name: "missing name", body: `{}`},
		{name: "unknown field", body: `{"name":"a","extra":1}`},
		{name: "not json", body: `name=a`},
		{name: "too long", body: `{"name":"` + strings.Repeat("x", 101) + `"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/v1/games", tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}
}

func TestGetGame_UnknownIsNotFound(t *testing.T) {
	env := newTestEnv(t, HandlerConfig{})

	rec := env.do(t, http.MethodGet, "/v1/games/does-not-exist", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDrawNumbers_EmptyBodyDrawsOne(t *testing.T) {
	env := newTestEnv(t, HandlerConfig{})
	gameID := createGame(t, env, "quick")

	rec := env.do(t, http.MethodPost, "/v1/games/"+gameID+"/draws", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Len(t, decodeData(t, rec)["numbers"], 1)

	rec = env.do(t, http.MethodPost, "/v1/games/"+gameID+"/draws", `{"count":91}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDrawNumbers_CooldownRejectsRepeat(t *testing.T) {
	env := newTestEnv(t, HandlerConfig{DrawCooldown: time.Hour})
	gameID := createGame(t, env, "throttled")

	rec := env.do(t, http.MethodPost, "/v1/games/"+gameID+"/draws", `{"count":1}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPost, "/v1/games/"+gameID+"/draws", `{"count":1}`)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.NotEmpty(t, rec.Header().Get("Retry-After"))

	game, err := env.games.Get(context.Background(), gameID)
	require.NoError(t, err)
	require.Len(t, game.Drawn, 1, "rejected trigger must not reach the engine")
}

func TestDrawNumbers_Exhaustion(t *testing.T) {
	env := newTestEnv(t, HandlerConfig{})
	gameID := createGame(t, env, "full house")

	rec := env.do(t, http.MethodPost, "/v1/games/"+gameID+"/draws", `{"count":88}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPost, "/v1/games/"+gameID+"/draws", `{"count":5}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	data := decodeData(t, rec)
	require.Len(t, data["numbers"], 2)
	require.Equal(t, true, data["exhausted"])
	require.Equal(t, true, data["game"].(map[string]any)["complete"])

	rec = env.do(t, http.MethodPost, "/v1/games/"+gameID+"/draws", `{"count":1}`)
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestNarrationPreference(t *testing.T) {
	env := newTestEnv(t, HandlerConfig{})

	rec := env.do(t, http.MethodGet, "/v1/preferences/narration", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, false, decodeData(t, rec)["muted"])

	rec = env.do(t, http.MethodPut, "/v1/preferences/narration", `{"muted":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, true, decodeData(t, rec)["muted"])

	gameID := createGame(t, env, "quiet")
	rec = env.do(t, http.MethodPost, "/v1/games/"+gameID+"/draws", `{"count":2}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, decodeData(t, rec)["announcements"])

	rec = env.do(t, http.MethodPost, "/v1/preferences/narration/toggle", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, false, decodeData(t, rec)["muted"])

	rec = env.do(t, http.MethodPut, "/v1/preferences/narration", `{}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerateTicket(t *testing.T) {
	env := newTestEnv(t, HandlerConfig{})

	rec := env.do(t, http.MethodGet, "/v1/tickets", "")
	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeData(t, rec)
	require.Len(t, data["numbers"], 15)
	require.Len(t, data["rows"], 3)

	rec = env.do(t, http.MethodGet, "/v1/tickets?format=text", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/plain"))
	require.Contains(t, rec.Body.String(), "+----+")

	rec = env.do(t, http.MethodGet, "/v1/tickets?format=png", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerateTicketBatch(t *testing.T) {
	env := newTestEnv(t, HandlerConfig{})

	rec := env.do(t, http.MethodPost, "/v1/tickets/batch", `{"count":4}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Len(t, decodeList(t, rec), 4)

	rec = env.do(t, http.MethodPost, "/v1/tickets/batch", `{"count":0}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/v1/tickets/batch", `{"count":11}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGameFeed_StreamsDraws(t *testing.T) {
	env := newTestEnv(t, HandlerConfig{FeedWriteTimeout: time.Second})
	gameID := createGame(t, env, "live")

	srv := httptest.NewServer(env.router)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/games/" + gameID + "/feed"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()
	defer resp.Body.Close()

	require.Eventually(t, func() bool { return env.hub.Subscribers(gameID) == 1 }, time.Second, 10*time.Millisecond)

	result, err := env.games.Draw(context.Background(), gameID, 2)
	require.NoError(t, err)

	for i, want := range result.Numbers {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		_, payload, err := conn.ReadMessage()
		require.NoError(t, err)

		var draw announce.Draw
		require.NoError(t, sonic.Unmarshal(payload, &draw))
		require.Equal(t, gameID, draw.GameID)
		require.Equal(t, want, draw.Number)
		require.Equal(t, i+1, draw.Sequence)
		require.NotNil(t, draw.Announcement)
	}
}

func TestGameFeed_UnknownGame(t *testing.T) {
	env := newTestEnv(t, HandlerConfig{})

	rec := env.do(t, http.MethodGet, "/v1/games/missing/feed", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}
