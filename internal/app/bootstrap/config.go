// internal/app/bootstrap/config.go
package bootstrap

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/ekaahub/internal/app/system/auth"
	"github.com/dalemusser/ekaahub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for EKAA Hub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, jwt_secret, etc.
//   - Environment variables: EKAAHUB_MONGO_URI, EKAAHUB_JWT_SECRET, etc.
//   - Command-line flags: --mongo_uri, --jwt_secret, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "ekaa", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size"},
	{Name: "mongo_min_pool_size", Default: 5, Desc: "MongoDB min connection pool size"},

	// Uploaded images
	{Name: "storage_local_path", Default: "./uploads", Desc: "Directory uploaded images are written to"},
	{Name: "storage_local_url", Default: "/uploads", Desc: "URL prefix uploaded images are served from"},

	// Email
	{Name: "mail_provider", Default: "log", Desc: "Mail transport: 'smtp', 'resend' or 'log'"},
	{Name: "mail_smtp_host", Default: "localhost", Desc: "SMTP server host"},
	{Name: "mail_smtp_port", Default: 587, Desc: "SMTP server port (465 for implicit TLS, otherwise STARTTLS)"},
	{Name: "mail_smtp_user", Default: "", Desc: "SMTP username"},
	{Name: "mail_smtp_pass", Default: "", Desc: "SMTP password"},
	{Name: "mail_from", Default: "noreply@ekaa.co.in", Desc: "From email address"},
	{Name: "mail_from_name", Default: "EKAA", Desc: "From display name"},
	{Name: "mail_admin_email", Default: "", Desc: "Office inbox that receives admin notifications"},
	{Name: "mail_reply_to", Default: "", Desc: "Reply-to address on participant emails"},
	{Name: "resend_api_key", Default: "", Desc: "Resend API key (mail_provider=resend)"},

	// Admin auth
	{Name: "jwt_secret", Default: "", Desc: "HS256 signing secret for admin tokens (required)"},
	{Name: "jwt_expiry", Default: "720h", Desc: "Admin token lifetime (e.g., 720h, 24h)"},

	{Name: "routing_file", Default: "", Desc: "YAML doctor/event/payment routing table (blank uses built-in defaults)"},
	{Name: "cors_origins", Default: "*", Desc: "Comma-separated allowed CORS origins"},
	{Name: "trusted_proxies", Default: "127.0.0.0/8,::1/128", Desc: "Comma-separated proxy IPs/CIDRs whose X-Forwarded-For is trusted"},

	// Background tasks
	{Name: "task_workers", Default: 4, Desc: "Background task workers"},
	{Name: "task_queue_size", Default: 256, Desc: "Background task queue capacity"},
	{Name: "task_timeout", Default: "30s", Desc: "Per-task timeout"},

	// I/O timeouts (0 keeps the built-in tier)
	{Name: "timeout_short", Default: "0s", Desc: "Single-document reads and writes"},
	{Name: "timeout_medium", Default: "0s", Desc: "Lists, stats and submissions"},
	{Name: "timeout_long", Default: "0s", Desc: "Open-events feed and CSV exports"},

	{Name: "submit_rate_limit", Default: 30, Desc: "Public form submissions per IP per minute (0 disables)"},
	{Name: "protect_backoffice", Default: true, Desc: "Require admin auth for registration/contact/program reads, exports and deletes"},

	// SuperAdmin bootstrap
	{Name: "superadmin_email", Default: "", Desc: "Email of the superadmin (created or promoted on startup)"},
	{Name: "superadmin_password", Default: "", Desc: "Password for a newly created superadmin"},
	{Name: "superadmin_name", Default: "Super Admin", Desc: "Display name for a newly created superadmin"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, EKAAHUB_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "EKAAHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		StorageLocalPath: appValues.String("storage_local_path"),
		StorageLocalURL:  appValues.String("storage_local_url"),

		MailProvider:   appValues.String("mail_provider"),
		MailSMTPHost:   appValues.String("mail_smtp_host"),
		MailSMTPPort:   appValues.Int("mail_smtp_port"),
		MailSMTPUser:   appValues.String("mail_smtp_user"),
		MailSMTPPass:   appValues.String("mail_smtp_pass"),
		MailFrom:       appValues.String("mail_from"),
		MailFromName:   appValues.String("mail_from_name"),
		MailAdminEmail: appValues.String("mail_admin_email"),
		MailReplyTo:    appValues.String("mail_reply_to"),
		ResendAPIKey:   appValues.String("resend_api_key"),

		JWTSecret: appValues.String("jwt_secret"),
		JWTExpiry: appValues.Duration("jwt_expiry", auth.DefaultExpiry),

		RoutingFile:    appValues.String("routing_file"),
		CORSOrigins:    splitList(appValues.String("cors_origins")),
		TrustedProxies: splitList(appValues.String("trusted_proxies")),

		TaskWorkers:   appValues.Int("task_workers"),
		TaskQueueSize: appValues.Int("task_queue_size"),
		TaskTimeout:   appValues.Duration("task_timeout", 30*time.Second),

		Timeouts: timeouts.Config{
			Short:  appValues.Duration("timeout_short", 0),
			Medium: appValues.Duration("timeout_medium", 0),
			Long:   appValues.Duration("timeout_long", 0),
		},

		SubmitRateLimit:   appValues.Int("submit_rate_limit"),
		ProtectBackoffice: appValues.Bool("protect_backoffice"),

		SuperAdminEmail:    appValues.String("superadmin_email"),
		SuperAdminPassword: appValues.String("superadmin_password"),
		SuperAdminName:     appValues.String("superadmin_name"),
	}

	// The office inbox doubles as the reply-to when only one is set.
	if appCfg.MailReplyTo == "" {
		appCfg.MailReplyTo = appCfg.MailAdminEmail
	}
	if appCfg.MailAdminEmail == "" {
		appCfg.MailAdminEmail = appCfg.MailReplyTo
	}

	return coreCfg, appCfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// ValidateConfig performs app-specific config validation.
//
// It catches configuration errors before anything connects: a malformed
// MongoDB URI, a missing or weak JWT secret, and a superadmin email
// without a password.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	return validateApp(coreCfg.Env, appCfg)
}

func validateApp(env string, appCfg AppConfig) error {
	var problems []error
	switch {
	case appCfg.JWTSecret == "":
		problems = append(problems, errors.New("jwt_secret is required"))
	case env == "prod" && len(appCfg.JWTSecret) < 32:
		problems = append(problems, errors.New("jwt_secret must be at least 32 characters in prod"))
	}
	if appCfg.SuperAdminEmail != "" && len(appCfg.SuperAdminPassword) < auth.MinPasswordLen {
		problems = append(problems, fmt.Errorf("superadmin_password must be at least %d characters when superadmin_email is set", auth.MinPasswordLen))
	}
	if appCfg.MailAdminEmail == "" {
		problems = append(problems, errors.New("mail_admin_email (or mail_reply_to) is required"))
	}
	if appCfg.TaskWorkers < 1 || appCfg.TaskQueueSize < 1 {
		problems = append(problems, errors.New("task_workers and task_queue_size must be positive"))
	}
	return errors.Join(problems...)
}
