// internal/app/features/familyevents/events.go
package familyevents

import (
	"context"
	"errors"
	"net/http"

	familyeventstore "github.com/dalemusser/ekaahub/internal/app/store/familyevents"
	"github.com/dalemusser/ekaahub/internal/app/system/apiresp"
	"github.com/dalemusser/ekaahub/internal/app/system/search"
	"github.com/dalemusser/ekaahub/internal/app/system/timeouts"
	"github.com/dalemusser/ekaahub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ServeList returns every event, soonest first, optionally searched.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	filter := search.All(search.Contains(query.Get(r, "search"),
		"location", "organisedby", "status", "date", "facilitator"))

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	events, err := h.Store.List(ctx, filter)
	if err != nil {
		h.Log.Error("list family events failed", zap.Error(err))
		apiresp.ServerError(w, "Failed to fetch events", err, h.ShowErrors)
		return
	}
	for i := range events {
		events[i] = withLegacyDate(events[i])
	}
	apiresp.OK(w, "", events)
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
	if errors.Is(err, familyeventstore.ErrNotFound) {
		apiresp.NotFound(w, "Event not found")
		return
	}
	if err != nil {
		h.Log.Error("get family event failed", zap.Error(err))
		apiresp.ServerError(w, "Failed to fetch event", err, h.ShowErrors)
		return
	}
	apiresp.OK(w, "", withLegacyDate(ev))
}

// HandleCreate requires an end strictly after the start.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	f, err := decodeForm(w, r)
	if err != nil {
		apiresp.BadRequest(w, "Invalid request body")
		return
	}
	start, end, problem := f.dates()
	if problem != "" {
		apiresp.BadRequest(w, problem)
		return
	}

	var ev models.FamilyEvent
	f.apply(&ev)
	if start != nil {
		ev.StartDate = *start
	}
	if end != nil {
		ev.EndDate = *end
	}
	if errs := validate(ev); len(errs) > 0 {
		apiresp.ValidationFailed(w, errs)
		return
	}
	if !ev.EndDate.After(ev.StartDate) {
		apiresp.BadRequest(w, "End date must be after start date")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	created, err := h.Store.Create(ctx, ev)
	if err != nil {
		h.Log.Error("create family event failed", zap.Error(err))
		apiresp.ServerError(w, "Failed to create event", err, h.ShowErrors)
		return
	}
	apiresp.Created(w, "Event created successfully", created)
}

// HandleUpdate is a partial update. The date checks depend on which dates
// were sent: both sent allows end == start; a lone start must precede the
// stored end; a lone end must follow the stored start.
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
	start, end, problem := f.dates()
	if problem != "" {
		apiresp.BadRequest(w, problem)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	ev, err := h.Store.GetByID(ctx, id)
	if errors.Is(err, familyeventstore.ErrNotFound) {
		apiresp.NotFound(w, "Event not found")
		return
	}
	if err != nil {
		h.Log.Error("load family event failed", zap.Error(err))
		apiresp.ServerError(w, "Failed to update event", err, h.ShowErrors)
		return
	}

	switch {
	case start != nil && end != nil:
		if end.Before(*start) {
			apiresp.BadRequest(w, "End date must be on or after start date")
			return
		}
	case start != nil:
		if !start.Before(ev.EndDate) {
			apiresp.BadRequest(w, "New start date must be before existing end date")
			return
		}
	case end != nil:
		if !end.After(ev.StartDate) {
			apiresp.BadRequest(w, "End date must be after start date")
			return
		}
	}

	f.apply(&ev)
	if start != nil {
		ev.StartDate = *start
	}
	if end != nil {
		ev.EndDate = *end
	}
	if errs := validate(ev); len(errs) > 0 {
		apiresp.ValidationFailed(w, errs)
		return
	}

	updated, err := h.Store.Update(ctx, ev)
	if errors.Is(err, familyeventstore.ErrNotFound) {
		apiresp.NotFound(w, "Event not found")
		return
	}
	if err != nil {
		h.Log.Error("update family event failed", zap.Error(err))
		apiresp.ServerError(w, "Failed to update event", err, h.ShowErrors)
		return
	}
	apiresp.OK(w, "Event updated successfully", updated)
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apiresp.BadID(w, "event")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Store.Delete(ctx, id); err != nil {
		if errors.Is(err, familyeventstore.ErrNotFound) {
			apiresp.NotFound(w, "Event not found")
			return
		}
		h.Log.Error("delete family event failed", zap.Error(err))
		apiresp.ServerError(w, "Failed to delete event", err, h.ShowErrors)
		return
	}
	apiresp.OK(w, "Event removed", nil)
}
