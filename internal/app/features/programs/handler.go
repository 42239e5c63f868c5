// internal/app/features/programs/handler.go
package programs

import (
	"context"
	"time"

	programstore "github.com/dalemusser/ekaahub/internal/app/store/programs"
	"github.com/dalemusser/ekaahub/internal/app/system/indexes"
	"github.com/dalemusser/ekaahub/internal/app/system/tasks"
	"github.com/dalemusser/ekaahub/internal/app/system/uploads"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Catalog is one program collection and where it is mounted.
type Catalog struct {
	Key        string // upload directory and log tag
	Path       string
	Collection string
	Name       string
}

// Catalogs lists the program catalogs in mount order.
func Catalogs() []Catalog {
	cols := indexes.ProgramCollections
	return []Catalog{
		{Key: "hypnotherapy", Path: "/api/hypnotherapy", Collection: cols[0], Name: "Hypnotherapy program"},
		{Key: "decode", Path: "/api/decode", Collection: cols[1], Name: "Decode program"},
		{Key: "tasso", Path: "/api/tasso", Collection: cols[2], Name: "TASSO program"},
	}
}

// Handler serves every catalog. Each is mounted separately with Routes.
type Handler struct {
	Stores   map[string]*programstore.Store
	Uploader *uploads.Uploader
	Tasks    *tasks.Pool
	Log      *zap.Logger
	Now      func() time.Time

	ShowErrors bool
}

func NewHandler(db *mongo.Database, up *uploads.Uploader, pool *tasks.Pool, showErrors bool, logger *zap.Logger) *Handler {
	stores := make(map[string]*programstore.Store)
	for _, c := range Catalogs() {
		stores[c.Key] = programstore.New(db, c.Collection)
	}
	return &Handler{
		Stores:     stores,
		Uploader:   up,
		Tasks:      pool,
		Log:        logger,
		Now:        time.Now,
		ShowErrors: showErrors,
	}
}

func (h *Handler) store(c Catalog) *programstore.Store { return h.Stores[c.Key] }

// deleteLater removes a stored thumbnail in the background.
func (h *Handler) deleteLater(path string) {
	if path == "" || h.Uploader == nil || h.Tasks == nil {
		return
	}
	up := h.Uploader
	h.Tasks.Submit("uploads.delete", func(ctx context.Context) error {
		return up.Delete(ctx, path)
	})
}
