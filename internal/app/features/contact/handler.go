// internal/app/features/contact/handler.go
package contact

import (
	"time"

	contactstore "github.com/dalemusser/ekaahub/internal/app/store/contacts"
	"github.com/dalemusser/ekaahub/internal/app/system/mailer"
	"github.com/dalemusser/ekaahub/internal/app/system/tasks"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the public contact form and the back-office inbox.
type Handler struct {
	Store    *contactstore.Store
	Tasks    *tasks.Pool
	Mailer   *mailer.Mailer
	Composer *mailer.Composer
	Log      *zap.Logger
	Now      func() time.Time

	ShowErrors bool
}

func NewHandler(db *mongo.Database, pool *tasks.Pool, m *mailer.Mailer, comp *mailer.Composer,
	showErrors bool, logger *zap.Logger) *Handler {
	return &Handler{
		Store:      contactstore.New(db),
		Tasks:      pool,
		Mailer:     m,
		Composer:   comp,
		Log:        logger,
		Now:        time.Now,
		ShowErrors: showErrors,
	}
}
