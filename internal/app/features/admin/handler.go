// internal/app/features/admin/handler.go
package admin

import (
	"time"

	adminstore "github.com/dalemusser/ekaahub/internal/app/store/admins"
	"github.com/dalemusser/ekaahub/internal/app/system/auth"
	"github.com/dalemusser/ekaahub/internal/app/system/ratelimit"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves admin login and self-service account endpoints.
type Handler struct {
	Store   *adminstore.Store
	Tokens  *auth.Tokens
	Limiter *ratelimit.LoginLimiter
	Log     *zap.Logger
	Now     func() time.Time

	ShowErrors bool
}

func NewHandler(db *mongo.Database, tokens *auth.Tokens, limiter *ratelimit.LoginLimiter,
	showErrors bool, logger *zap.Logger) *Handler {
	return &Handler{
		Store:      adminstore.New(db),
		Tokens:     tokens,
		Limiter:    limiter,
		Log:        logger,
		Now:        time.Now,
		ShowErrors: showErrors,
	}
}
