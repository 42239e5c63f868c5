// internal/app/features/contact/inbox.go
package contact

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	contactstore "github.com/dalemusser/ekaahub/internal/app/store/contacts"
	"github.com/dalemusser/ekaahub/internal/app/system/apiresp"
	"github.com/dalemusser/ekaahub/internal/app/system/normalize"
	"github.com/dalemusser/ekaahub/internal/app/system/paging"
	"github.com/dalemusser/ekaahub/internal/app/system/search"
	"github.com/dalemusser/ekaahub/internal/app/system/timeouts"
	"github.com/dalemusser/ekaahub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var sortable = []string{"createdAt", "firstName", "lastName", "email", "status"}

func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	p := paging.Parse(r)
	sort := paging.ParseSort(r, sortable, paging.NewestFirst)
	filter := search.All(
		search.Eq("status", normalize.ContactStatus(query.Get(r, "status"))),
		search.Contains(query.Get(r, "search"), "firstName", "lastName", "email", "country"),
	)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	cts, total, err := h.Store.List(ctx, filter, p, sort)
	if err != nil {
		h.Log.Error("list contacts failed", zap.Error(err))
		apiresp.ServerError(w, "Failed to fetch contacts", err, h.ShowErrors)
		return
	}
	apiresp.Page(w, "", cts, paging.Compute(p, total))
}

func (h *Handler) ServeStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	st, err := h.Store.Stats(ctx, h.Now())
	if err != nil {
		h.Log.Error("contact stats failed", zap.Error(err))
		apiresp.ServerError(w, "Failed to fetch contact statistics", err, h.ShowErrors)
		return
	}
	apiresp.OK(w, "", st)
}

func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apiresp.BadID(w, "contact")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	ct, err := h.Store.GetByID(ctx, id)
	if errors.Is(err, contactstore.ErrNotFound) {
		apiresp.NotFound(w, "Contact not found")
		return
	}
	if err != nil {
		h.Log.Error("get contact failed", zap.Error(err))
		apiresp.ServerError(w, "Failed to fetch contact", err, h.ShowErrors)
		return
	}
	apiresp.OK(w, "", ct)
}

// HandleStatus moves a contact through the workflow.
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apiresp.BadID(w, "contact")
		return
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&body); err != nil {
		apiresp.BadRequest(w, "Invalid request body")
		return
	}
	status := normalize.ContactStatus(body.Status)
	if !models.IsValidContactStatus(status) {
		apiresp.BadRequest(w, "Invalid status. Must be one of: "+strings.Join(models.ContactStatuses, ", "))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	ct, err := h.Store.UpdateStatus(ctx, id, status)
	if errors.Is(err, contactstore.ErrNotFound) {
		apiresp.NotFound(w, "Contact not found")
		return
	}
	if err != nil {
		h.Log.Error("update contact status failed", zap.Error(err))
		apiresp.ServerError(w, "Failed to update contact status", err, h.ShowErrors)
		return
	}
	apiresp.OK(w, "Contact status updated successfully", ct)
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apiresp.BadID(w, "contact")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Store.Delete(ctx, id); err != nil {
		if errors.Is(err, contactstore.ErrNotFound) {
			apiresp.NotFound(w, "Contact not found")
			return
		}
		h.Log.Error("delete contact failed", zap.Error(err))
		apiresp.ServerError(w, "Failed to delete contact", err, h.ShowErrors)
		return
	}
	apiresp.OK(w, "Contact deleted successfully", map[string]string{"id": id.Hex()})
}
