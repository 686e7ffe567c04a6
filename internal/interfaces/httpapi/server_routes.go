package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerGameRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/games", handler.ListGames)
	mux.HandleFunc("POST /v1/games", handler.CreateGame)
	mux.HandleFunc("DELETE /v1/games", handler.DeleteAllGames)
	mux.HandleFunc("POST /v1/games/restore", handler.RestoreGame)
	mux.HandleFunc("GET /v1/games/{gameID}", handler.GetGame)
	mux.HandleFunc("DELETE /v1/games/{gameID}", handler.DeleteGame)
	mux.HandleFunc("POST /v1/games/{gameID}/draws", handler.DrawNumbers)
	// Long-lived websocket; excluded from request tracing.
	mux.HandleFunc("GET /v1/games/{gameID}/feed", handler.GameFeed)
}

func registerTicketRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/tickets", handler.GenerateTicket)
	mux.HandleFunc("POST /v1/tickets/batch", handler.GenerateTicketBatch)
}

func registerPreferenceRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/preferences/narration", handler.GetNarration)
	mux.HandleFunc("PUT /v1/preferences/narration", handler.SetNarration)
	mux.HandleFunc("POST /v1/preferences/narration/toggle", handler.ToggleNarration)
}
