// internal/app/features/registrations/handler.go
package registrations

import (
	"context"
	"errors"

	familyeventstore "github.com/dalemusser/ekaahub/internal/app/store/familyevents"
	managedeventstore "github.com/dalemusser/ekaahub/internal/app/store/managedevents"
	registrationstore "github.com/dalemusser/ekaahub/internal/app/store/registrations"
	"github.com/dalemusser/ekaahub/internal/app/system/mailer"
	"github.com/dalemusser/ekaahub/internal/app/system/routing"
	"github.com/dalemusser/ekaahub/internal/app/system/tasks"
	"github.com/dalemusser/ekaahub/internal/app/system/uploads"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves every registration program. Each program is mounted
// separately with Routes and gets its own store.
type Handler struct {
	Stores   map[string]*registrationstore.Store
	Managed  *managedeventstore.Store
	Family   *familyeventstore.Store
	Uploader *uploads.Uploader
	Tasks    *tasks.Pool
	Mailer   *mailer.Mailer
	Composer *mailer.Composer
	Routing  *routing.Table
	Log      *zap.Logger

	// ShowErrors includes error detail in 500 responses (dev only).
	ShowErrors bool
}

// NewHandler builds a handler with one store per program in Programs.
func NewHandler(db *mongo.Database, up *uploads.Uploader, pool *tasks.Pool, m *mailer.Mailer,
	comp *mailer.Composer, showErrors bool, logger *zap.Logger) *Handler {
	stores := make(map[string]*registrationstore.Store)
	for _, d := range Programs() {
		stores[d.Key] = registrationstore.New(db, d.Collection)
	}
	rt := comp.Routing
	if rt == nil {
		rt = routing.Default()
	}
	return &Handler{
		Stores:     stores,
		Managed:    managedeventstore.New(db),
		Family:     familyeventstore.New(db),
		Uploader:   up,
		Tasks:      pool,
		Mailer:     m,
		Composer:   comp,
		Routing:    rt,
		Log:        logger,
		ShowErrors: showErrors,
	}
}

func (h *Handler) store(d Definition) *registrationstore.Store {
	return h.Stores[d.Key]
}

// deleteUploadsLater removes stored files in the background. Failures are
// logged by the pool.
func (h *Handler) deleteUploadsLater(paths []string) {
	if len(paths) == 0 || h.Uploader == nil || h.Tasks == nil {
		return
	}
	up := h.Uploader
	h.Tasks.Submit("uploads.delete", func(ctx context.Context) error {
		var errs []error
		for _, p := range paths {
			if err := up.Delete(ctx, p); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})
}
