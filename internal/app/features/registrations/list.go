// internal/app/features/registrations/list.go
package registrations

import (
	"context"
	"errors"
	"net/http"

	registrationstore "github.com/dalemusser/ekaahub/internal/app/store/registrations"
	"github.com/dalemusser/ekaahub/internal/app/system/apiresp"
	"github.com/dalemusser/ekaahub/internal/app/system/paging"
	"github.com/dalemusser/ekaahub/internal/app/system/search"
	"github.com/dalemusser/ekaahub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// filter builds the list/export filter from ?search, ?status and the
// startDate/endDate range on createdAt.
func (d Definition) filter(r *http.Request) (bson.M, search.Range, error) {
	rg, err := search.ParseRange(r)
	if err != nil {
		return nil, rg, err
	}
	return search.All(
		search.Contains(query.Get(r, "search"), d.Search...),
		search.Eq("status", query.Get(r, "status")),
		rg.Filter("createdAt"),
	), rg, nil
}

// ServeList returns the list endpoint for d.
func (h *Handler) ServeList(d Definition) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, _, err := d.filter(r)
		if err != nil {
			apiresp.BadRequest(w, err.Error())
			return
		}
		p := paging.Parse(r)
		sort := paging.ParseSort(r, d.Sort, paging.NewestFirst)

		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
		defer cancel()

		items, total, err := h.store(d).List(ctx, filter, p, sort)
		if err != nil {
			h.Log.Error("list registrations failed", zap.String("program", d.Key), zap.Error(err))
			apiresp.ServerError(w, "Failed to fetch registrations", err, h.ShowErrors)
			return
		}
		apiresp.Page(w, d.Name+"s fetched successfully.", items, paging.Compute(p, total))
	}
}

// ServeGet returns the single-registration endpoint for d.
func (h *Handler) ServeGet(d Definition) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
		if err != nil {
			apiresp.BadID(w, "registration")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
		defer cancel()

		reg, err := h.store(d).GetByID(ctx, id)
		if errors.Is(err, registrationstore.ErrNotFound) {
			apiresp.NotFound(w, d.Name+" not found")
			return
		}
		if err != nil {
			h.Log.Error("get registration failed", zap.String("program", d.Key), zap.Error(err))
			apiresp.ServerError(w, "Failed to fetch registration", err, h.ShowErrors)
			return
		}
		apiresp.OK(w, "", reg)
	}
}

// HandleDelete returns the delete endpoint for d. Stored images are removed
// in the background once the document is gone.
func (h *Handler) HandleDelete(d Definition) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
		if err != nil {
			apiresp.BadID(w, "registration")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
		defer cancel()

		reg, err := h.store(d).Delete(ctx, id)
		if errors.Is(err, registrationstore.ErrNotFound) {
			apiresp.NotFound(w, d.Name+" not found")
			return
		}
		if err != nil {
			h.Log.Error("delete registration failed", zap.String("program", d.Key), zap.Error(err))
			apiresp.ServerError(w, "Failed to delete registration", err, h.ShowErrors)
			return
		}
		h.deleteUploadsLater([]string{reg.ProfileImage, reg.IDPhotoFront, reg.IDPhotoBack})

		apiresp.OK(w, d.Name+" deleted successfully", map[string]string{
			"id":    reg.ID.Hex(),
			"name":  reg.DisplayName(),
			"email": reg.Email,
		})
	}
}
