package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts the API. Chat endpoints carry their own strict
// limiter, separate from the laxer one on the rest of the API.
func RegisterRoutes(mux *chi.Mux, h *Handlers, chatLimit, apiLimit func(http.Handler) http.Handler) {
	mux.Group(func(r chi.Router) {
		r.Use(apiLimit)
		r.Get("/healthz", h.Health)
		r.Get("/version", h.Version)
		r.Get("/api/assistant/status", h.AssistantStatus)
	})

	mux.Group(func(r chi.Router) {
		r.Use(chatLimit)
		r.Post("/api/chat", h.Chat)
		r.Post("/api/chat/stream", h.ChatStream)
	})
}
