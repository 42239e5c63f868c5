// internal/app/features/registrations/routes.go
package registrations

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes mounts one program's endpoints (typically at d.Path from
// bootstrap). Submission is public and goes through submit (a rate
// limiter, or nil); reads, exports and deletes go through admin.
func Routes(h *Handler, d Definition, submit, admin func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		if submit != nil {
			pr.Use(submit)
		}
		pr.Post(d.CreatePath, h.HandleCreate(d))
	})

	r.Group(func(pr chi.Router) {
		if admin != nil {
			pr.Use(admin)
		}
		pr.Get("/", h.ServeList(d))
		pr.Get(d.ExportPath, h.ServeExport(d))
		pr.Get("/{id}", h.ServeGet(d))
		pr.Delete("/{id}", h.HandleDelete(d))
	})

	return r
}
