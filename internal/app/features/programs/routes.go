// internal/app/features/programs/routes.go
package programs

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes mounts one catalog. The public views are open; the admin list and
// lookups go through reads (nil when the back office is unprotected) and
// every mutation goes through admin.
func Routes(h *Handler, c Catalog, reads, admin func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/public", h.ServePublicList(c))
	r.Get("/public/{id}", h.ServePublicGet(c))

	r.Group(func(pr chi.Router) {
		if reads != nil {
			pr.Use(reads)
		}
		pr.Get("/", h.ServeList(c))
		pr.Get("/{id}", h.ServeGet(c))
	})

	r.Group(func(pr chi.Router) {
		if admin != nil {
			pr.Use(admin)
		}
		pr.Post("/", h.HandleCreate(c))
		pr.Put("/{id}", h.HandleUpdate(c))
		pr.Delete("/{id}", h.HandleDelete(c))
	})

	return r
}
