package config

import "time"

// Application constants for the wbreport system
const (
	// Application Info
	AppName = "wbreport"

	// Environment
	EnvPrefix      = "WBR"
	EnvConfigFile  = "WBR_CONFIG_FILE"
	DefaultEnvFile = ".env"

	// Rate Limiting
	DefaultRateLimit = 20 // requests per second
	DefaultBurstSize = 10

	// Network Timeouts
	DefaultReadTimeout     = 60 * time.Second
	DefaultWriteTimeout    = 120 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultRunTimeout      = 5 * time.Minute

	// Uploads
	DefaultMaxUploadBytes = 64 << 20
	DefaultMaxReportFiles = 32

	// Output
	DefaultOutputDir = "output"
	DefaultRunLabel  = "report"

	// Log Settings
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
	DefaultLogFile   = "logs/wbreport.log"
)

// URLs and Endpoints
const (
	APIBasePath           = "/api/v1"
	AnalysesEndpoint      = "/api/v1/analyses"
	FeeCategoriesEndpoint = "/api/v1/fee-categories"
	HealthEndpoint        = "/api/health"
	MetricsEndpoint       = "/metrics"
)

// Version is stamped at build time with -ldflags "-X wbreport/internal/config.Version=...".
var Version = "dev"
