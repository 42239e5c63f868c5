// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/dalemusser/ekaahub/internal/app/system/auth"
	"github.com/dalemusser/ekaahub/internal/app/system/mailer"
	"github.com/dalemusser/ekaahub/internal/app/system/ratelimit"
	"github.com/dalemusser/ekaahub/internal/app/system/routing"
	"github.com/dalemusser/ekaahub/internal/app/system/tasks"
	"github.com/dalemusser/ekaahub/internal/app/system/uploads"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app.
//
// WAFFLE passes DBDeps by value to every hook after ConnectDB, so the
// services built in Startup live behind the Services pointer.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	Services *Services
}

// Services are the long-lived collaborators shared by the feature
// handlers.
type Services struct {
	Tasks         *tasks.Pool
	Mailer        *mailer.Mailer
	Composer      *mailer.Composer
	Routing       *routing.Table
	Uploader      *uploads.Uploader
	Tokens        *auth.Tokens
	LoginLimiter  *ratelimit.LoginLimiter
	SubmitLimiter *ratelimit.Limiter
}
