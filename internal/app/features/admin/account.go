// internal/app/features/admin/account.go
package admin

import (
	"context"
	"errors"
	"net/http"
	"strings"

	adminstore "github.com/dalemusser/ekaahub/internal/app/store/admins"
	"github.com/dalemusser/ekaahub/internal/app/system/apiresp"
	"github.com/dalemusser/ekaahub/internal/app/system/auth"
	"github.com/dalemusser/ekaahub/internal/app/system/inputval"
	"github.com/dalemusser/ekaahub/internal/app/system/normalize"
	"github.com/dalemusser/ekaahub/internal/app/system/timeouts"
	"github.com/dalemusser/ekaahub/internal/domain/models"
	"go.uber.org/zap"
)

var registerRules = inputval.Rules{
	{Field: "name", Tag: "required,ci_min=2,ci_max=100", Msg: "Please add a name"},
	{Field: "email", Tag: "required,email", Msg: "Please add a valid email"},
	{Field: "password", Tag: "required,min=6", Msg: "Password must be at least 6 characters"},
	{Field: "role", Tag: "oneof=admin superadmin", Msg: "Role must be admin or superadmin"},
}

// HandleRegister creates another admin and returns a token for it.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := decode(w, r, &body); err != nil {
		apiresp.BadRequest(w, "Invalid request body")
		return
	}
	role := strings.ToLower(strings.TrimSpace(body.Role))
	if role == "" {
		role = models.RoleAdmin
	}
	if errs := inputval.Default().Check(map[string]any{
		"name":     body.Name,
		"email":    normalize.Email(body.Email),
		"password": body.Password,
		"role":     role,
	}, registerRules); len(errs) > 0 {
		apiresp.ValidationFailed(w, errs)
		return
	}

	hash, err := auth.HashPassword(body.Password)
	if err != nil {
		apiresp.ServerError(w, "Failed to register admin", err, h.ShowErrors)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	a, err := h.Store.Create(ctx, models.Admin{
		Name:         strings.TrimSpace(body.Name),
		Email:        body.Email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	})
	if errors.Is(err, adminstore.ErrDuplicateEmail) {
		apiresp.Duplicate(w, "An admin with this email already exists")
		return
	}
	if err != nil {
		h.Log.Error("register admin failed", zap.Error(err))
		apiresp.ServerError(w, "Failed to register admin", err, h.ShowErrors)
		return
	}
	if by, ok := auth.CurrentAdmin(r); ok {
		h.Log.Info("admin registered", zap.String("admin_id", a.ID.Hex()), zap.String("by", by.ID.Hex()))
	}
	h.writeToken(w, http.StatusCreated, a)
}

func (h *Handler) ServeMe(w http.ResponseWriter, r *http.Request) {
	a, _ := auth.CurrentAdmin(r)
	apiresp.OK(w, "", a)
}

// HandleUpdateDetails changes the caller's name and email. Blank values
// keep the current ones.
func (h *Handler) HandleUpdateDetails(w http.ResponseWriter, r *http.Request) {
	me, _ := auth.CurrentAdmin(r)
	var body struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := decode(w, r, &body); err != nil {
		apiresp.BadRequest(w, "Invalid request body")
		return
	}
	if email := normalize.Email(body.Email); email != "" && !inputval.IsValidEmail(email) {
		apiresp.ValidationFailed(w, []apiresp.FieldError{{Field: "email", Msg: "Please add a valid email"}})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	a, err := h.Store.UpdateDetails(ctx, me.ID, body.Name, body.Email)
	switch {
	case errors.Is(err, adminstore.ErrDuplicateEmail):
		apiresp.Duplicate(w, "An admin with this email already exists")
		return
	case errors.Is(err, adminstore.ErrNotFound):
		apiresp.NotFound(w, "Admin not found")
		return
	case err != nil:
		h.Log.Error("update admin details failed", zap.Error(err))
		apiresp.ServerError(w, "Failed to update details", err, h.ShowErrors)
		return
	}
	apiresp.OK(w, "Details updated", a)
}

// HandleUpdatePassword requires the current password.
func (h *Handler) HandleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	me, _ := auth.CurrentAdmin(r)
	var body struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := decode(w, r, &body); err != nil {
		apiresp.BadRequest(w, "Invalid request body")
		return
	}
	if !auth.CheckPassword(me.PasswordHash, body.CurrentPassword) {
		apiresp.Unauthorized(w, "Password is incorrect")
		return
	}
	hash, err := auth.HashPassword(body.NewPassword)
	if err != nil {
		apiresp.ValidationFailed(w, []apiresp.FieldError{{Field: "newPassword", Msg: "Password must be at least 6 characters"}})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Store.UpdatePassword(ctx, me.ID, hash); err != nil {
		h.Log.Error("update admin password failed", zap.Error(err))
		apiresp.ServerError(w, "Failed to update password", err, h.ShowErrors)
		return
	}
	h.Log.Info("admin password changed", zap.String("admin_id", me.ID.Hex()))
	apiresp.OK(w, "Password updated", map[string]any{})
}
