// internal/app/features/openevents/handler.go
package openevents

import (
	"context"
	"net/http"
	"time"

	familyeventstore "github.com/dalemusser/ekaahub/internal/app/store/familyevents"
	programstore "github.com/dalemusser/ekaahub/internal/app/store/programs"
	"github.com/dalemusser/ekaahub/internal/app/system/apiresp"
	"github.com/dalemusser/ekaahub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the merged public feed of open events.
type Handler struct {
	Family       *familyeventstore.Store
	Hypnotherapy *programstore.Store
	Decode       *programstore.Store
	Log          *zap.Logger
	Now          func() time.Time

	ShowErrors bool
}

// NewHandler reads programs from the given catalog collections.
func NewHandler(db *mongo.Database, hypnotherapyColl, decodeColl string, showErrors bool, logger *zap.Logger) *Handler {
	return &Handler{
		Family:       familyeventstore.New(db),
		Hypnotherapy: programstore.New(db, hypnotherapyColl),
		Decode:       programstore.New(db, decodeColl),
		Log:          logger,
		Now:          time.Now,
		ShowErrors:   showErrors,
	}
}

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/open", h.ServeOpen)
	return r
}

// ServeOpen loads the Open sources and returns the aggregated feed.
func (h *Handler) ServeOpen(w http.ResponseWriter, r *http.Request) {
	now := h.Now()
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	family, err := h.Family.ListOpenEndingAfter(ctx, today)
	if err != nil {
		h.fail(w, "family events", err)
		return
	}
	hypno, err := h.Hypnotherapy.ListOpen(ctx)
	if err != nil {
		h.fail(w, "hypnotherapy programs", err)
		return
	}
	decode, err := h.Decode.ListOpen(ctx)
	if err != nil {
		h.fail(w, "decode programs", err)
		return
	}

	items := Aggregate(now, family,
		ProgramSet{Type: TypeHypnotherapy, Programs: hypno},
		ProgramSet{Type: TypeDecode, Programs: decode},
	)
	apiresp.OK(w, "", items)
}

func (h *Handler) fail(w http.ResponseWriter, source string, err error) {
	h.Log.Error("load open events failed", zap.String("source", source), zap.Error(err))
	apiresp.ServerError(w, "Server error", err, h.ShowErrors)
}
