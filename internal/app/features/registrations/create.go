// internal/app/features/registrations/create.go
package registrations

import (
	"context"
	"errors"
	"net/http"

	registrationstore "github.com/dalemusser/ekaahub/internal/app/store/registrations"
	"github.com/dalemusser/ekaahub/internal/app/system/apiresp"
	"github.com/dalemusser/ekaahub/internal/app/system/inputval"
	"github.com/dalemusser/ekaahub/internal/app/system/metrics"
	"github.com/dalemusser/ekaahub/internal/app/system/ratelimit"
	"github.com/dalemusser/ekaahub/internal/app/system/timeouts"
	"github.com/dalemusser/ekaahub/internal/app/system/uploads"
	"github.com/dalemusser/ekaahub/internal/domain/models"
	"go.uber.org/zap"
)

type emailStatus struct {
	AdminQueued bool `json:"adminQueued"`
	UserQueued  bool `json:"userQueued"`
}

type createResponse struct {
	Success     bool        `json:"success"`
	Message     string      `json:"message"`
	Data        any         `json:"data"`
	EmailStatus emailStatus `json:"emailStatus"`
}

// HandleCreate returns the create endpoint for d.
//
// The body is decoded, images are stored, the rule table is checked, the
// registration is persisted and both notification emails are queued. Any
// failure after images were stored removes them again in the background.
func (h *Handler) HandleCreate(d Definition) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, err := parseBody(w, r)
		if err != nil {
			apiresp.BadRequest(w, "Invalid request body")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
		defer cancel()

		values := d.normalize(b.values)

		var stored []string
		if d.Multipart {
			paths, fieldErrs, err := h.saveImages(ctx, d, b)
			stored = paths
			if len(fieldErrs) > 0 {
				h.deleteUploadsLater(stored)
				apiresp.ValidationFailed(w, fieldErrs)
				return
			}
			if err != nil {
				h.deleteUploadsLater(stored)
				if uploads.IsClientError(err) {
					apiresp.BadRequest(w, "File upload error: "+err.Error())
					return
				}
				h.Log.Error("store registration upload failed", zap.String("program", d.Key), zap.Error(err))
				apiresp.ServerError(w, "Failed to store uploaded files", err, h.ShowErrors)
				return
			}
		}

		if errs := inputval.Default().Check(values, d.Rules); len(errs) > 0 {
			h.deleteUploadsLater(stored)
			apiresp.ValidationFailed(w, errs)
			return
		}

		reg := d.build(values)
		for i, img := range d.Images {
			if i < len(stored) && stored[i] != "" {
				fields[img.Target].set(&reg, stored[i])
			}
		}
		if d.RecordMeta {
			reg.Meta = &models.RegistrationMeta{IP: ratelimit.ClientIP(r), UserAgent: r.UserAgent()}
		}

		if d.Session {
			if err := h.applySession(ctx, &reg); err != nil {
				if errors.Is(err, errSessionUnavailable) {
					apiresp.ValidationFailed(w, []apiresp.FieldError{{Field: "sessionId", Msg: "Session not found or not open for registration"}})
					return
				}
				h.Log.Error("resolve session failed", zap.String("session_id", reg.SessionID), zap.Error(err))
				apiresp.ServerError(w, "Registration failed", err, h.ShowErrors)
				return
			}
		}

		store := h.store(d)
		if d.UniqueEmailPhone {
			existing, found, err := store.FindByEmailPhone(ctx, reg.Email, reg.Phone)
			if err != nil {
				h.Log.Error("duplicate check failed", zap.String("program", d.Key), zap.Error(err))
				apiresp.ServerError(w, "Registration failed", err, h.ShowErrors)
				return
			}
			if found {
				apiresp.JSON(w, http.StatusBadRequest, apiresp.Body{
					Success: false,
					Message: "A registration with the same email and phone already exists.",
					Data:    map[string]string{"id": existing.ID.Hex()},
				})
				return
			}
		}

		saved, err := store.Create(ctx, reg)
		if err != nil {
			h.deleteUploadsLater(stored)
			if errors.Is(err, registrationstore.ErrDuplicate) {
				apiresp.Duplicate(w, "Registration already exists")
				return
			}
			h.Log.Error("create registration failed", zap.String("program", d.Key), zap.Error(err))
			apiresp.ServerError(w, "Registration failed", err, h.ShowErrors)
			return
		}
		metrics.Registrations.WithLabelValues(d.Key).Inc()

		apiresp.JSON(w, http.StatusCreated, createResponse{
			Success:     true,
			Message:     d.Name + " submitted successfully!",
			Data:        saved,
			EmailStatus: h.notify(d, saved),
		})
	}
}

// saveImages stores each of d's images present in b, returning the stored
// paths in d.Images order (empty where absent). Missing required images
// are reported as field errors before anything is written.
func (h *Handler) saveImages(ctx context.Context, d Definition, b body) ([]string, []apiresp.FieldError, error) {
	var missing []apiresp.FieldError
	for _, img := range d.Images {
		if img.Required && b.files[img.FormField] == nil {
			missing = append(missing, apiresp.FieldError{Field: img.FormField, Msg: img.Msg})
		}
	}
	if len(missing) > 0 {
		return nil, missing, nil
	}

	paths := make([]string, len(d.Images))
	for i, img := range d.Images {
		fh := b.files[img.FormField]
		if fh == nil {
			continue
		}
		saved, err := h.Uploader.SaveImage(ctx, d.UploadDir, img.Prefix, fh)
		if err != nil {
			return paths, nil, err
		}
		paths[i] = saved.Path
	}
	return paths, nil, nil
}

// notify composes and queues both emails. Composition problems are logged;
// the registration itself already succeeded.
func (h *Handler) notify(d Definition, reg models.Registration) emailStatus {
	var st emailStatus
	if h.Mailer == nil || h.Composer == nil {
		return st
	}
	admin, user, err := h.Composer.Registration(d.Family, d.Title, reg)
	if err != nil {
		h.Log.Error("compose registration emails failed", zap.String("program", d.Key), zap.Error(err))
		return st
	}
	st.AdminQueued = h.Mailer.Queue(h.Tasks, admin)
	st.UserQueued = h.Mailer.Queue(h.Tasks, user)
	return st
}
