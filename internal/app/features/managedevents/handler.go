// internal/app/features/managedevents/handler.go
package managedevents

import (
	"time"

	managedeventstore "github.com/dalemusser/ekaahub/internal/app/store/managedevents"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the back-office session calendar.
type Handler struct {
	Store *managedeventstore.Store
	Log   *zap.Logger
	Now   func() time.Time

	ShowErrors bool
}

func NewHandler(db *mongo.Database, showErrors bool, logger *zap.Logger) *Handler {
	return &Handler{
		Store:      managedeventstore.New(db),
		Log:        logger,
		Now:        time.Now,
		ShowErrors: showErrors,
	}
}
