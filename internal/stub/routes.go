package stub

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Post("/api/auth/login", h.login)
		r.Get("/api/health", h.health)
	})

	// settings boundary, bearer token required
	router.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.Get("/api/settings/{resource}", h.getSettings)
		r.Patch("/api/settings/{resource}", h.patchSettings)
		r.Post("/api/settings/{resource}/actions/{action}", h.executeAction)
	})

	return router
}
