// internal/app/features/programs/list.go
package programs

import (
	"context"
	"errors"
	"net/http"
	"time"

	programstore "github.com/dalemusser/ekaahub/internal/app/store/programs"
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

var sortable = []string{"createdAt", "title", "status"}

// ServeList is the admin list: paginated, searching title, subtitle and
// status.
func (h *Handler) ServeList(c Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := paging.Parse(r)
		sort := paging.ParseSort(r, sortable, paging.NewestFirst)
		filter := search.All(search.Contains(query.Get(r, "search"), "title", "subtitle", "status"))

		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
		defer cancel()

		progs, total, err := h.store(c).List(ctx, filter, p, sort)
		if err != nil {
			h.Log.Error("list programs failed", zap.String("catalog", c.Key), zap.Error(err))
			apiresp.ServerError(w, "Failed to fetch programs", err, h.ShowErrors)
			return
		}
		apiresp.Page(w, "", progs, paging.Compute(p, total))
	}
}

// ServeGet returns one program regardless of status.
func (h *Handler) ServeGet(c Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
		if err != nil {
			apiresp.BadID(w, "program")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
		defer cancel()

		prog, err := h.store(c).GetByID(ctx, id)
		if errors.Is(err, programstore.ErrNotFound) {
			apiresp.NotFound(w, "Program not found")
			return
		}
		if err != nil {
			h.Log.Error("get program failed", zap.String("catalog", c.Key), zap.Error(err))
			apiresp.ServerError(w, "Failed to fetch program", err, h.ShowErrors)
			return
		}
		apiresp.OK(w, "", prog)
	}
}

// ServePublicList lists Open programs with past events removed.
func (h *Handler) ServePublicList(c Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
		defer cancel()

		progs, err := h.store(c).ListOpen(ctx)
		if err != nil {
			h.Log.Error("list open programs failed", zap.String("catalog", c.Key), zap.Error(err))
			apiresp.ServerError(w, "Failed to fetch programs", err, h.ShowErrors)
			return
		}
		now := h.Now()
		for i := range progs {
			progs[i].UpcomingEvents = currentEvents(progs[i].UpcomingEvents, now)
		}
		apiresp.OK(w, "", progs)
	}
}

// ServePublicGet returns an Open program with past events removed. Closed
// programs are reported as missing.
func (h *Handler) ServePublicGet(c Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
		if err != nil {
			apiresp.BadID(w, "program")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
		defer cancel()

		prog, err := h.store(c).GetOpen(ctx, id)
		if errors.Is(err, programstore.ErrNotFound) {
			apiresp.NotFound(w, "Program not found")
			return
		}
		if err != nil {
			h.Log.Error("get open program failed", zap.String("catalog", c.Key), zap.Error(err))
			apiresp.ServerError(w, "Failed to fetch program", err, h.ShowErrors)
			return
		}
		prog.UpcomingEvents = currentEvents(prog.UpcomingEvents, h.Now())
		apiresp.OK(w, "", prog)
	}
}

// currentEvents drops events that ended before now.
func currentEvents(evs []models.ProgramEvent, now time.Time) []models.ProgramEvent {
	out := make([]models.ProgramEvent, 0, len(evs))
	for _, e := range evs {
		if e.EndDate.Before(now) {
			continue
		}
		out = append(out, e)
	}
	return out
}
