// internal/app/features/familyevents/routes.go
package familyevents

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes mounts the calendar. Reads are public; writes go through admin.
func Routes(h *Handler, admin func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServeList)
	r.Get("/{id}", h.ServeGet)

	r.Group(func(pr chi.Router) {
		if admin != nil {
			pr.Use(admin)
		}
		pr.Post("/", h.HandleCreate)
		pr.Put("/{id}", h.HandleUpdate)
		pr.Delete("/{id}", h.HandleDelete)
	})

	return r
}
