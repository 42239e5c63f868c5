// internal/app/bootstrap/appconfig.go
package bootstrap

import (
	"time"

	"github.com/dalemusser/ekaahub/internal/app/system/timeouts"
)

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables (EKAAHUB_*), configuration
// files, or command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig
// covers ports, TLS, logging level and request limits; everything specific
// to the registration API lives here.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Uploaded images. Files are written under StorageLocalPath and served
	// at StorageLocalURL.
	StorageLocalPath string
	StorageLocalURL  string

	// Outgoing mail
	MailProvider   string // smtp, resend or log
	MailSMTPHost   string
	MailSMTPPort   int
	MailSMTPUser   string
	MailSMTPPass   string
	MailFrom       string
	MailFromName   string
	MailAdminEmail string // office inbox for admin notifications
	MailReplyTo    string
	ResendAPIKey   string

	// Admin bearer tokens
	JWTSecret string
	JWTExpiry time.Duration

	// RoutingFile is the YAML doctor/event/payment table. Blank uses the
	// embedded defaults.
	RoutingFile string

	CORSOrigins []string

	// TrustedProxies are the reverse proxies whose forwarding headers
	// identify the client for rate limiting and registration metadata.
	TrustedProxies []string

	// Background task pool (emails, upload cleanup)
	TaskWorkers   int
	TaskQueueSize int
	TaskTimeout   time.Duration

	// Timeouts for handler and store I/O. Zero keeps the default tier.
	Timeouts timeouts.Config

	// SubmitRateLimit is the number of public submissions allowed per
	// client IP per minute. Zero disables the limiter.
	SubmitRateLimit int

	// ProtectBackoffice puts list, detail, export and delete endpoints of
	// registrations, contacts and programs behind admin auth.
	ProtectBackoffice bool

	// SuperAdmin bootstrap
	SuperAdminEmail    string
	SuperAdminPassword string
	SuperAdminName     string
}
