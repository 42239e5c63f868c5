// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	adminfeature "github.com/dalemusser/ekaahub/internal/app/features/admin"
	contactfeature "github.com/dalemusser/ekaahub/internal/app/features/contact"
	errorsfeature "github.com/dalemusser/ekaahub/internal/app/features/errors"
	familyeventsfeature "github.com/dalemusser/ekaahub/internal/app/features/familyevents"
	healthfeature "github.com/dalemusser/ekaahub/internal/app/features/health"
	managedeventsfeature "github.com/dalemusser/ekaahub/internal/app/features/managedevents"
	openeventsfeature "github.com/dalemusser/ekaahub/internal/app/features/openevents"
	programsfeature "github.com/dalemusser/ekaahub/internal/app/features/programs"
	registrationsfeature "github.com/dalemusser/ekaahub/internal/app/features/registrations"
	adminstore "github.com/dalemusser/ekaahub/internal/app/store/admins"
	"github.com/dalemusser/ekaahub/internal/app/system/auth"
	"github.com/dalemusser/ekaahub/internal/app/system/indexes"
	"github.com/dalemusser/ekaahub/internal/app/system/metrics"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. At this point you have access to:
//   - coreCfg: WAFFLE core configuration (ports, env, timeouts, etc.)
//   - appCfg: app-specific configuration defined in AppConfig
//   - deps: the Mongo client and the services built in Startup
//   - logger: the fully configured zap.Logger for this app
//
// Every feature router is mounted at its public path. Public submissions
// go through the submit limiter; mutations of events, programs and admins
// always require a bearer token; back-office reads, exports and deletes
// require one when protect_backoffice is on.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.MongoDatabase
	svc := deps.Services
	showErrors := coreCfg.Env == "dev"

	authMw := auth.NewMiddleware(svc.Tokens, adminstore.New(db), logger)
	admin := authMw.RequireAdmin

	// reads guards back-office listings. nil leaves them open.
	var reads func(http.Handler) http.Handler
	if appCfg.ProtectBackoffice {
		reads = admin
	}

	var submit func(http.Handler) http.Handler
	if svc.SubmitLimiter != nil {
		submit = svc.SubmitLimiter.Middleware
	}

	errs := errorsfeature.NewHandler(logger)

	r := chi.NewRouter()
	r.Use(errs.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   appCfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: !allowsAny(appCfg.CORSOrigins),
		MaxAge:           300,
	}))
	r.Use(metrics.Middleware)
	r.NotFound(errs.NotFound)
	r.MethodNotAllowed(errs.MethodNotAllowed)

	// Liveness, health and metrics
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Get("/", healthHandler.ServeRoot)
	r.Mount("/health", healthfeature.Routes(healthHandler))
	r.Handle("/metrics", metrics.Handler())

	// Uploaded images
	r.Handle(appCfg.StorageLocalURL+"/*", fileserver.Handler(appCfg.StorageLocalURL, appCfg.StorageLocalPath))

	// Registration forms, one router per program
	regHandler := registrationsfeature.NewHandler(db, svc.Uploader, svc.Tasks, svc.Mailer, svc.Composer, showErrors, logger)
	for _, d := range registrationsfeature.Programs() {
		r.Mount(d.Path, registrationsfeature.Routes(regHandler, d, submit, reads))
	}

	// Program catalogs
	progHandler := programsfeature.NewHandler(db, svc.Uploader, svc.Tasks, showErrors, logger)
	for _, c := range programsfeature.Catalogs() {
		r.Mount(c.Path, programsfeature.Routes(progHandler, c, reads, admin))
	}

	// Events
	openHandler := openeventsfeature.NewHandler(db, indexes.ProgramCollections[0], indexes.ProgramCollections[1], showErrors, logger)
	r.Mount("/api/events", openeventsfeature.Routes(openHandler))

	familyHandler := familyeventsfeature.NewHandler(db, showErrors, logger)
	r.Mount("/api/familyEvent", familyeventsfeature.Routes(familyHandler, admin))

	managedHandler := managedeventsfeature.NewHandler(db, showErrors, logger)
	r.Mount("/api/managed-events", managedeventsfeature.Routes(managedHandler, admin))

	// Contact form and inbox
	contactHandler := contactfeature.NewHandler(db, svc.Tasks, svc.Mailer, svc.Composer, showErrors, logger)
	r.Mount("/api/contact", contactfeature.Routes(contactHandler, submit))
	r.Mount("/api/contacts", contactfeature.InboxRoutes(contactHandler, reads))

	// Admin accounts
	adminHandler := adminfeature.NewHandler(db, svc.Tokens, svc.LoginLimiter, showErrors, logger)
	r.Mount("/api/admin", adminfeature.Routes(adminHandler, admin))

	return r, nil
}

func allowsAny(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return len(origins) == 0
}
