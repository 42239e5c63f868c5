// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"fmt"
	"time"

	adminstore "github.com/dalemusser/ekaahub/internal/app/store/admins"
	"github.com/dalemusser/ekaahub/internal/app/system/auth"
	"github.com/dalemusser/ekaahub/internal/app/system/mailer"
	"github.com/dalemusser/ekaahub/internal/app/system/ratelimit"
	"github.com/dalemusser/ekaahub/internal/app/system/routing"
	"github.com/dalemusser/ekaahub/internal/app/system/tasks"
	"github.com/dalemusser/ekaahub/internal/app/system/timeouts"
	"github.com/dalemusser/ekaahub/internal/app/system/uploads"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/storage"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built. It builds
// the shared services (mail, routing table, task pool, tokens, uploads and
// limiters) into deps.Services and makes sure the configured superadmin
// exists.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	t := timeouts.Configure(appCfg.Timeouts)
	logger.Debug("timeouts", zap.Duration("short", t.Short), zap.Duration("medium", t.Medium), zap.Duration("long", t.Long))

	table, err := routing.Load(appCfg.RoutingFile)
	if err != nil {
		logger.Error("routing table load failed", zap.String("file", appCfg.RoutingFile), zap.Error(err))
		return err
	}

	m, err := mailer.NewFromConfig(mailer.Config{
		Provider:     appCfg.MailProvider,
		SMTPHost:     appCfg.MailSMTPHost,
		SMTPPort:     appCfg.MailSMTPPort,
		SMTPUser:     appCfg.MailSMTPUser,
		SMTPPass:     appCfg.MailSMTPPass,
		From:         appCfg.MailFrom,
		FromName:     appCfg.MailFromName,
		ResendAPIKey: appCfg.ResendAPIKey,
	}, logger)
	if err != nil {
		logger.Error("mailer init failed", zap.Error(err))
		return err
	}

	tokens, err := auth.NewTokens(appCfg.JWTSecret, appCfg.JWTExpiry)
	if err != nil {
		return err
	}

	store, err := storage.NewLocal(storage.LocalConfig{
		BasePath: appCfg.StorageLocalPath,
		BaseURL:  appCfg.StorageLocalURL,
	})
	if err != nil {
		logger.Error("upload storage init failed", zap.String("path", appCfg.StorageLocalPath), zap.Error(err))
		return err
	}

	pool := tasks.NewPool(appCfg.TaskWorkers, appCfg.TaskQueueSize, appCfg.TaskTimeout, logger)
	pool.Start()

	svc := deps.Services
	svc.Routing = table
	svc.Mailer = m
	svc.Composer = &mailer.Composer{
		Routing:    table,
		AdminEmail: appCfg.MailAdminEmail,
		ReplyTo:    appCfg.MailReplyTo,
	}
	svc.Tasks = pool
	svc.Tokens = tokens
	svc.Uploader = uploads.NewUploader(store)
	if err := ratelimit.SetTrustedProxies(appCfg.TrustedProxies); err != nil {
		logger.Error("invalid trusted_proxies", zap.Strings("trusted_proxies", appCfg.TrustedProxies), zap.Error(err))
		return err
	}
	svc.LoginLimiter = ratelimit.NewLoginLimiter()
	if appCfg.SubmitRateLimit > 0 {
		svc.SubmitLimiter = ratelimit.New(appCfg.SubmitRateLimit, time.Minute)
	}

	logger.Info("services ready",
		zap.String("mail_provider", appCfg.MailProvider),
		zap.Int("task_workers", appCfg.TaskWorkers),
		zap.Bool("protect_backoffice", appCfg.ProtectBackoffice),
	)

	if appCfg.SuperAdminEmail != "" {
		if err := ensureSuperAdmin(ctx, deps, appCfg, logger); err != nil {
			return err
		}
	}
	return nil
}

// ensureSuperAdmin creates the configured superadmin, or promotes and
// reactivates an existing admin with that email.
func ensureSuperAdmin(ctx context.Context, deps DBDeps, appCfg AppConfig, logger *zap.Logger) error {
	hash, err := auth.HashPassword(appCfg.SuperAdminPassword)
	if err != nil {
		return fmt.Errorf("superadmin password: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, timeouts.Medium())
	defer cancel()

	a, created, err := adminstore.New(deps.MongoDatabase).EnsureSuperAdmin(ctx, appCfg.SuperAdminName, appCfg.SuperAdminEmail, hash)
	if err != nil {
		logger.Error("ensure superadmin failed", zap.String("email", appCfg.SuperAdminEmail), zap.Error(err))
		return err
	}
	if created {
		logger.Info("created superadmin", zap.String("email", a.Email))
	} else {
		logger.Info("superadmin present", zap.String("email", a.Email))
	}
	return nil
}
