// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like HTTP/HTTPS
// ports, TLS, logging level, and request limits. AppConfig is everything
// specific to this application.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions (default: teacherhq-session)
	SessionDomain string // Cookie domain (blank means current host)

	// Site identity
	SiteName string // Display name shown in page chrome
	BaseURL  string // e.g., "https://teacherhq.example" or "http://localhost:3000"

	// Geofence defaults
	DefaultRadiusMeters float64 // Radius applied to organizations without their own

	// Password reset
	PasswordResetExpiry time.Duration // How long reset tokens stay valid

	// Audit logging ("all", "db", "log", or "off" per category)
	AuditLogAuth       string
	AuditLogAdmin      string
	AuditLogAttendance string

	// Google OAuth configuration
	GoogleClientID     string
	GoogleClientSecret string

	// Outbound mail (password reset links); blank host disables mail
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string

	// Admin bootstrap
	AdminEmail string // Email of the admin user (promotes/creates on startup)
}
