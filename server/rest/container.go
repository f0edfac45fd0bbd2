package rest

import (
	"github.com/go-chi/chi/v5"
	middlewares "github.com/ytdlp-gui/ytdlp-gui/server/middleware"
)

func ApplyRouter(args *ContainerArgs) func(chi.Router) {
	return routes(ProvideHandler(ProvideService(args)))
}

func routes(h *Handler) func(chi.Router) {
	return func(r chi.Router) {
		r.Use(middlewares.ApplyAuthenticationByConfig)
		r.Post("/download", h.Exec)
		r.Post("/stop", h.Stop)
		r.Get("/status", h.Status)
		r.Get("/options", h.GetOptions)
		r.Put("/options", h.SetOptions)
		r.Get("/window", h.GetWindow)
		r.Put("/window", h.SetWindow)
		r.Get("/history", h.History)
		r.Get("/version", h.Version)
		r.Post("/update", h.Update)
	}
}
