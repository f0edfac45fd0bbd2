package rpc

import (
	"github.com/go-chi/chi/v5"
	"github.com/ytdlp-gui/ytdlp-gui/server/config"
	"github.com/ytdlp-gui/ytdlp-gui/server/internal/session"
	middlewares "github.com/ytdlp-gui/ytdlp-gui/server/middleware"
)

// Dependency injection container.
func Container(m *session.Machine) *Service {
	return &Service{
		machine: m,
	}
}

// The hub must already be subscribed to session updates.
func ApplyRouter(s *Service, h *Hub) func(chi.Router) {
	return func(r chi.Router) {
		if config.Instance().Authentication.RequireAuth {
			r.Use(middlewares.Authenticated)
		}
		r.Get("/ws", s.WebSocket(h))
	}
}
