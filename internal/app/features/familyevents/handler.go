// internal/app/features/familyevents/handler.go
package familyevents

import (
	familyeventstore "github.com/dalemusser/ekaahub/internal/app/store/familyevents"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the Family Constellation event calendar.
type Handler struct {
	Store *familyeventstore.Store
	Log   *zap.Logger

	ShowErrors bool
}

func NewHandler(db *mongo.Database, showErrors bool, logger *zap.Logger) *Handler {
	return &Handler{
		Store:      familyeventstore.New(db),
		Log:        logger,
		ShowErrors: showErrors,
	}
}
