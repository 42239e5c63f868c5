// internal/app/features/admin/routes.go
package admin

import (
	"net/http"

	"github.com/dalemusser/ekaahub/internal/app/system/auth"
	"github.com/dalemusser/ekaahub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes mounts /api/admin. requireAdmin authenticates the bearer token;
// registration additionally needs the superadmin role.
func Routes(h *Handler, requireAdmin func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/login", h.HandleLogin)

	r.Group(func(pr chi.Router) {
		pr.Use(requireAdmin)
		pr.Get("/me", h.ServeMe)
		pr.Put("/updatedetails", h.HandleUpdateDetails)
		pr.Put("/updatepassword", h.HandleUpdatePassword)
		pr.With(auth.RequireRole(models.RoleSuperAdmin)).Post("/register", h.HandleRegister)
	})

	return r
}
