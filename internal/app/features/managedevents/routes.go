// internal/app/features/managedevents/routes.go
package managedevents

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes mounts the calendar. The option table, the public feeds, the list
// and single reads are open; writes go through admin.
func Routes(h *Handler, admin func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServeList)
	r.Get("/options", h.ServeOptions)
	r.Get("/public/list", h.ServePublicList)
	r.Get("/public/family-constellation", h.ServeFamilyConstellation)
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
