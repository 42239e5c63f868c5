// internal/app/features/admin/login.go
package admin

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	adminstore "github.com/dalemusser/ekaahub/internal/app/store/admins"
	"github.com/dalemusser/ekaahub/internal/app/system/apiresp"
	"github.com/dalemusser/ekaahub/internal/app/system/auth"
	"github.com/dalemusser/ekaahub/internal/app/system/timeouts"
	"github.com/dalemusser/ekaahub/internal/domain/models"
	"go.uber.org/zap"
)

type tokenResponse struct {
	Success   bool      `json:"success"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(v)
}

// HandleLogin exchanges email and password for a bearer token.
//
// Unknown email and wrong password share one message. A deactivated account
// is rejected before the password is checked.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decode(w, r, &body); err != nil {
		apiresp.BadRequest(w, "Invalid request body")
		return
	}
	if strings.TrimSpace(body.Email) == "" || body.Password == "" {
		apiresp.BadRequest(w, "Please provide an email and password")
		return
	}
	if h.Limiter != nil {
		if ok, reason := h.Limiter.Check(r, body.Email); !ok {
			apiresp.Fail(w, http.StatusTooManyRequests, reason)
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	a, err := h.Store.GetByEmail(ctx, body.Email)
	if errors.Is(err, adminstore.ErrNotFound) {
		apiresp.Unauthorized(w, "Invalid credentials")
		return
	}
	if err != nil {
		h.Log.Error("admin lookup failed", zap.Error(err))
		apiresp.ServerError(w, "Login failed", err, h.ShowErrors)
		return
	}
	if !a.IsActive {
		apiresp.Unauthorized(w, "Account is deactivated")
		return
	}
	if !auth.CheckPassword(a.PasswordHash, body.Password) {
		h.Log.Info("admin login rejected", zap.String("email", a.Email))
		apiresp.Unauthorized(w, "Invalid credentials")
		return
	}

	if err := h.Store.TouchLastLogin(ctx, a.ID, h.Now()); err != nil {
		h.Log.Warn("record last login failed", zap.String("admin_id", a.ID.Hex()), zap.Error(err))
	}
	if h.Limiter != nil {
		h.Limiter.ResetEmail(body.Email)
	}
	h.Log.Info("admin logged in", zap.String("admin_id", a.ID.Hex()), zap.String("role", a.Role))
	h.writeToken(w, http.StatusOK, a)
}

func (h *Handler) writeToken(w http.ResponseWriter, status int, a models.Admin) {
	raw, exp, err := h.Tokens.Issue(a.ID, a.Role)
	if err != nil {
		h.Log.Error("issue token failed", zap.Error(err))
		apiresp.ServerError(w, "Failed to issue token", err, h.ShowErrors)
		return
	}
	apiresp.JSON(w, status, tokenResponse{Success: true, Token: raw, ExpiresAt: exp})
}
