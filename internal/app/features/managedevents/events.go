// internal/app/features/managedevents/events.go
package managedevents

import (
	"context"
	"errors"
	"net/http"

	managedeventstore "github.com/dalemusser/ekaahub/internal/app/store/managedevents"
	"github.com/dalemusser/ekaahub/internal/app/system/apiresp"
	"github.com/dalemusser/ekaahub/internal/app/system/paging"
	"github.com/dalemusser/ekaahub/internal/app/system/search"
	"github.com/dalemusser/ekaahub/internal/app/system/timeouts"
	"github.com/dalemusser/ekaahub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var sortable = []string{"createdAt", "startDate", "event", "status"}

func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	p := paging.Parse(r)
	sort := paging.ParseSort(r, sortable, paging.NewestFirst)
	filter := search.All(
		search.Eq("status", query.Get(r, "status")),
		search.Eq("event", query.Get(r, "event")),
		search.Contains(query.Get(r, "search"), "event", "level"),
	)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	evs, total, err := h.Store.List(ctx, filter, p, sort)
	if err != nil {
		h.Log.Error("list managed events failed", zap.Error(err))
		apiresp.ServerError(w, "Failed to fetch events", err, h.ShowErrors)
		return
	}
	apiresp.Page(w, "", evs, paging.Compute(p, total))
}

func (h *Handler) ServeOptions(w http.ResponseWriter, r *http.Request) {
	apiresp.OK(w, "", models.EventOptions)
}

// ServePublicList is every Open event starting today or later.
func (h *Handler) ServePublicList(w http.ResponseWriter, r *http.Request) {
	h.serveUpcoming(w, r, "")
}

func (h *Handler) ServeFamilyConstellation(w http.ResponseWriter, r *http.Request) {
	h.serveUpcoming(w, r, models.FamilyConstellation)
}

func (h *Handler) serveUpcoming(w http.ResponseWriter, r *http.Request, event string) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	evs, err := h.Store.Upcoming(ctx, search.StartOfDay(h.Now()), event)
	if err != nil {
		h.Log.Error("list upcoming events failed", zap.String("event", event), zap.Error(err))
		apiresp.ServerError(w, "Failed to fetch events", err, h.ShowErrors)
		return
	}
	apiresp.OK(w, "", evs)
}

func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apiresp.BadID(w, "event")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	ev, err := h.Store.GetByID(ctx, id)
	if errors.Is(err, managedeventstore.ErrNotFound) {
		apiresp.NotFound(w, "Event not found")
		return
	}
	if err != nil {
		h.Log.Error("get managed event failed", zap.Error(err))
		apiresp.ServerError(w, "Failed to fetch event", err, h.ShowErrors)
		return
	}
	apiresp.OK(w, "", ev)
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	f, err := decodeForm(w, r)
	if err != nil {
		apiresp.BadRequest(w, "Invalid request body")
		return
	}
	if f.StartDate == nil || f.EndDate == nil {
		apiresp.BadRequest(w, "Invalid dates")
		return
	}

	var ev models.ManagedEvent
	if problem := f.apply(&ev); problem != "" {
		apiresp.BadRequest(w, problem)
		return
	}
	if problem := checkOption(ev.Event, ev.Level); problem != "" {
		apiresp.BadRequest(w, problem)
		return
	}
	if ev.EndDate.Before(ev.StartDate) {
		apiresp.BadRequest(w, "endDate must be on or after startDate")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	created, err := h.Store.Create(ctx, ev)
	if err != nil {
		h.Log.Error("create managed event failed", zap.Error(err))
		apiresp.ServerError(w, "Failed to create event", err, h.ShowErrors)
		return
	}
	apiresp.Created(w, "Event created successfully", created)
}

// HandleUpdate merges the sent fields onto the stored event and checks the
// event/level pair and date order on the result.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apiresp.BadID(w, "event")
		return
	}
	f, err := decodeForm(w, r)
	if err != nil {
		apiresp.BadRequest(w, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	ev, err := h.Store.GetByID(ctx, id)
	if errors.Is(err, managedeventstore.ErrNotFound) {
		apiresp.NotFound(w, "Event not found")
		return
	}
	if err != nil {
		h.Log.Error("load managed event failed", zap.Error(err))
		apiresp.ServerError(w, "Failed to update event", err, h.ShowErrors)
		return
	}

	if problem := f.apply(&ev); problem != "" {
		apiresp.BadRequest(w, problem)
		return
	}
	if f.Event != nil || f.Level != nil {
		if problem := checkOption(ev.Event, ev.Level); problem != "" {
			apiresp.BadRequest(w, problem)
			return
		}
	}
	if ev.EndDate.Before(ev.StartDate) {
		apiresp.BadRequest(w, "endDate must be on or after startDate")
		return
	}

	updated, err := h.Store.Update(ctx, ev)
	if errors.Is(err, managedeventstore.ErrNotFound) {
		apiresp.NotFound(w, "Event not found")
		return
	}
	if err != nil {
		h.Log.Error("update managed event failed", zap.Error(err))
		apiresp.ServerError(w, "Failed to update event", err, h.ShowErrors)
		return
	}
	apiresp.OK(w, "Event updated successfully", updated)
}

// HandleDelete soft-deletes; the document stays for reporting.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apiresp.BadID(w, "event")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Store.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, managedeventstore.ErrNotFound) {
			apiresp.NotFound(w, "Event not found")
			return
		}
		h.Log.Error("delete managed event failed", zap.Error(err))
		apiresp.ServerError(w, "Failed to delete event", err, h.ShowErrors)
		return
	}
	apiresp.OK(w, "Event deleted", nil)
}
