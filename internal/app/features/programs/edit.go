// internal/app/features/programs/edit.go
package programs

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/ekaahub/internal/app/features/programs/programform"
	programstore "github.com/dalemusser/ekaahub/internal/app/store/programs"
	"github.com/dalemusser/ekaahub/internal/app/system/apiresp"
	"github.com/dalemusser/ekaahub/internal/app/system/timeouts"
	"github.com/dalemusser/ekaahub/internal/app/system/uploads"
	"github.com/dalemusser/ekaahub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// saveThumbnail stores the uploaded thumbnail, if any, and returns its path.
// It writes the error response itself and reports false on failure.
func (h *Handler) saveThumbnail(ctx context.Context, w http.ResponseWriter, c Catalog, p programform.Payload) (string, bool) {
	if p.Thumbnail == nil {
		return "", true
	}
	if h.Uploader == nil {
		apiresp.BadRequest(w, "File uploads are not enabled")
		return "", false
	}
	saved, err := h.Uploader.SaveImage(ctx, c.Key, "thumbnail", p.Thumbnail)
	if err != nil {
		if uploads.IsClientError(err) {
			apiresp.BadRequest(w, "File upload error: "+err.Error())
			return "", false
		}
		h.Log.Error("store thumbnail failed", zap.String("catalog", c.Key), zap.Error(err))
		apiresp.ServerError(w, "Failed to store uploaded file", err, h.ShowErrors)
		return "", false
	}
	return saved.Path, true
}

// HandleCreate creates a program from a JSON or multipart body.
func (h *Handler) HandleCreate(c Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, err := programform.Decode(w, r)
		if err != nil {
			apiresp.BadRequest(w, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
		defer cancel()

		thumb, ok := h.saveThumbnail(ctx, w, c, payload)
		if !ok {
			return
		}

		var prog models.Program
		if errs := payload.Fields.Apply(&prog); len(errs) > 0 {
			h.deleteLater(thumb)
			apiresp.ValidationFailed(w, errs)
			return
		}
		prog.Thumbnail = thumb

		created, err := h.store(c).Create(ctx, prog)
		if err != nil {
			h.deleteLater(thumb)
			if errors.Is(err, programstore.ErrDuplicate) {
				apiresp.Duplicate(w, err.Error())
				return
			}
			h.Log.Error("create program failed", zap.String("catalog", c.Key), zap.Error(err))
			apiresp.ServerError(w, "Failed to create program", err, h.ShowErrors)
			return
		}

		h.Log.Info("program created",
			zap.String("catalog", c.Key),
			zap.String("id", created.ID.Hex()),
			zap.Stringer("transport", payload.Transport))
		apiresp.Created(w, c.Name+" created successfully", created)
	}
}

// HandleUpdate applies the submitted fields over the stored program. The
// thumbnail changes only when a new file was uploaded; the old file is
// removed after the update succeeds.
func (h *Handler) HandleUpdate(c Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
		if err != nil {
			apiresp.BadID(w, "program")
			return
		}
		payload, err := programform.Decode(w, r)
		if err != nil {
			apiresp.BadRequest(w, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
		defer cancel()

		thumb, ok := h.saveThumbnail(ctx, w, c, payload)
		if !ok {
			return
		}

		current, err := h.store(c).GetByID(ctx, id)
		if err != nil {
			h.deleteLater(thumb)
			if errors.Is(err, programstore.ErrNotFound) {
				apiresp.NotFound(w, "Program not found")
				return
			}
			h.Log.Error("load program failed", zap.String("catalog", c.Key), zap.Error(err))
			apiresp.ServerError(w, "Failed to update program", err, h.ShowErrors)
			return
		}

		next := current
		if errs := payload.Fields.Apply(&next); len(errs) > 0 {
			h.deleteLater(thumb)
			apiresp.ValidationFailed(w, errs)
			return
		}
		if thumb != "" {
			next.Thumbnail = thumb
		}

		updated, err := h.store(c).Update(ctx, next)
		if err != nil {
			h.deleteLater(thumb)
			switch {
			case errors.Is(err, programstore.ErrNotFound):
				apiresp.NotFound(w, "Program not found")
			case errors.Is(err, programstore.ErrDuplicate):
				apiresp.Duplicate(w, err.Error())
			default:
				h.Log.Error("update program failed", zap.String("catalog", c.Key), zap.Error(err))
				apiresp.ServerError(w, "Failed to update program", err, h.ShowErrors)
			}
			return
		}
		if thumb != "" && current.Thumbnail != "" && current.Thumbnail != thumb {
			h.deleteLater(current.Thumbnail)
		}
		apiresp.OK(w, c.Name+" updated successfully", updated)
	}
}

// HandleDelete removes the program and then its thumbnail.
func (h *Handler) HandleDelete(c Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
		if err != nil {
			apiresp.BadID(w, "program")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
		defer cancel()

		prog, err := h.store(c).Delete(ctx, id)
		if errors.Is(err, programstore.ErrNotFound) {
			apiresp.NotFound(w, "Program not found")
			return
		}
		if err != nil {
			h.Log.Error("delete program failed", zap.String("catalog", c.Key), zap.Error(err))
			apiresp.ServerError(w, "Failed to delete program", err, h.ShowErrors)
			return
		}
		h.deleteLater(prog.Thumbnail)
		apiresp.OK(w, "Program deleted successfully", map[string]string{"id": prog.ID.Hex()})
	}
}
