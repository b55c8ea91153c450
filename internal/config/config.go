// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server    ServerConfig
	Google    GoogleConfig
	Session   SessionConfig
	Database  DatabaseConfig
	Jobs      JobsConfig
	Highlight HighlightConfig
	Detect    DetectConfig
	Upload    UploadConfig
	Rate      RateLimitConfig
	Security  SecurityConfig
	Logging   LoggingConfig
	History   HistoryConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" envAlt:"PORT" default:"8080"`

	// BaseURL is the externally visible URL, used to build OAuth redirects
	// (default: http://localhost:8080)
	BaseURL string `env:"APP_URL" default:"http://localhost:8080"`

	// ReadTimeout is the maximum duration for reading request body (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing response (default: 0 for SSE)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"0s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`
}

// GoogleConfig holds the OAuth client used for sign-in.
// Sign-in is disabled when ClientID is empty.
type GoogleConfig struct {
	ClientID     string `env:"GOOGLE_CLIENT_ID"`
	ClientSecret string `env:"GOOGLE_CLIENT_SECRET"`

	// RedirectPath is appended to Server.BaseURL (default: /auth/callback)
	RedirectPath string `env:"GOOGLE_REDIRECT_PATH" default:"/auth/callback"`
}

// Enabled reports whether Google sign-in is configured.
func (g GoogleConfig) Enabled() bool {
	return g.ClientID != "" && g.ClientSecret != ""
}

// SessionConfig holds the sealed session cookie settings.
type SessionConfig struct {
	// Key is a base64-encoded 32-byte key. A random key is generated at
	// startup when empty, which signs everyone out on restart.
	Key string `env:"SESSION_KEY"`

	// CookieName (default: seokit_session)
	CookieName string `env:"SESSION_COOKIE_NAME" default:"seokit_session"`

	// MaxAge is how long a sign-in lasts (default: 168h)
	MaxAge time.Duration `env:"SESSION_MAX_AGE" default:"168h"`

	// Secure marks cookies HTTPS-only (default: false)
	Secure bool `env:"SESSION_SECURE" default:"false"`
}

// DatabaseConfig holds run history storage settings.
type DatabaseConfig struct {
	// Driver selects the history backend: postgres, sqlite, or none to
	// disable history (default: sqlite)
	Driver string `env:"DB_DRIVER" default:"sqlite"`

	// URL is the PostgreSQL connection string
	// Supports both DATABASE_URL and DB_URL env vars for compatibility
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// SQLitePath is the database file for the sqlite driver (default: data/history.db)
	SQLitePath string `env:"SQLITE_PATH" default:"data/history.db"`

	// MaxConns is the maximum number of connections in the pool (default: 10)
	MaxConns int `env:"DB_MAX_CONNS" default:"10"`

	// MinConns is the minimum number of connections to keep open (default: 2)
	MinConns int `env:"DB_MIN_CONNS" default:"2"`

	// MaxConnLifetime is the maximum lifetime of a connection (default: 1h)
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`

	// MaxConnIdleTime is the maximum idle time before a connection is closed (default: 30m)
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`
}

// JobsConfig holds background job settings.
type JobsConfig struct {
	// MaxConcurrent is the maximum number of jobs running at once (default: 4)
	MaxConcurrent int `env:"JOBS_MAX_CONCURRENT" default:"4"`

	// MaxWaitTime is how long a request waits for a free job slot (default: 10s)
	MaxWaitTime time.Duration `env:"JOBS_MAX_WAIT_TIME" default:"10s"`

	// Timeout caps a single job (default: 10m)
	Timeout time.Duration `env:"JOBS_TIMEOUT" default:"10m"`

	// ResultTTL is how long finished jobs stay queryable (default: 10m)
	ResultTTL time.Duration `env:"JOB_RESULT_TTL" default:"10m"`
}

// HighlightConfig tunes color assignment.
type HighlightConfig struct {
	// MaxColorAttempts caps random draws per color before scanning the
	// palette (default: 1000)
	MaxColorAttempts int `env:"HIGHLIGHT_MAX_COLOR_ATTEMPTS" default:"1000"`

	// Palette lists the hex digits allowed in each position of a color
	// code (default: 89ABCDEF, light colors only)
	Palette string `env:"HIGHLIGHT_PALETTE" default:"89ABCDEF"`
}

// DetectConfig tunes language detection.
type DetectConfig struct {
	// WriteBatchSize is the number of cells written per API call (default: 500)
	WriteBatchSize int `env:"DETECT_WRITE_BATCH_SIZE" default:"500"`

	// DefaultDestination is the suggested destination column (default: Detected Language)
	DefaultDestination string `env:"DETECT_DEFAULT_DESTINATION" default:"Detected Language"`

	// MinConfidence rejects detections below this score, 0..1 (default: 0)
	MinConfidence float64 `env:"DETECT_MIN_CONFIDENCE" default:"0"`
}

// UploadConfig holds file upload settings.
type UploadConfig struct {
	// MaxFileSize is the maximum size of an uploaded credentials or CSV file (default: 10MB)
	MaxFileSize int64 `env:"UPLOAD_MAX_FILE_SIZE" default:"10485760"`
}

// RateLimitConfig holds rate limiting settings per time window.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the default rate limit per IP (default: 100)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"100"`

	// JobLimit is requests per minute for job and preview endpoints (default: 10)
	JobLimit int `env:"RATE_LIMIT_JOBS" default:"10"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// HistoryConfig holds run history retention settings.
type HistoryConfig struct {
	// RetentionDays is how long runs are kept (default: 90)
	RetentionDays int `env:"HISTORY_RETENTION_DAYS" default:"90"`

	// PurgeInterval is how often old runs are deleted (default: 24h)
	PurgeInterval time.Duration `env:"HISTORY_PURGE_INTERVAL" default:"24h"`

	// PageSize is the number of runs listed per request (default: 25)
	PageSize int `env:"HISTORY_PAGE_SIZE" default:"25"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}

// RedirectURL returns the absolute OAuth callback URL.
func (c *Config) RedirectURL() string {
	return strings.TrimRight(c.Server.BaseURL, "/") + c.Google.RedirectPath
}
