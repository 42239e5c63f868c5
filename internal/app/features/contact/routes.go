// internal/app/features/contact/routes.go
package contact

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes mounts the public form (at /api/contact). submit is usually a
// rate limiter.
func Routes(h *Handler, submit func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	if submit != nil {
		r.Use(submit)
	}
	r.Post("/", h.HandleSubmit)
	return r
}

// InboxRoutes mounts the back-office inbox (at /api/contacts).
func InboxRoutes(h *Handler, admin func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	if admin != nil {
		r.Use(admin)
	}
	r.Get("/", h.ServeList)
	r.Get("/stats", h.ServeStats)
	r.Get("/{id}", h.ServeGet)
	r.Put("/{id}/status", h.HandleStatus)
	r.Delete("/{id}", h.HandleDelete)
	return r
}
