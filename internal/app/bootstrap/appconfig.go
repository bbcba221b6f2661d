package bootstrap

import "time"

// Store backends accepted by store_backend.
const (
	BackendMongo  = "mongo"
	BackendMemory = "memory"
)

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They are app-level settings;
// ports, TLS, logging and CORS live in WAFFLE's CoreConfig.
//
// The validate tags are checked in ValidateConfig.
type AppConfig struct {
	// Storage
	StoreBackend     string `validate:"oneof=mongo memory"`
	MongoURI         string `validate:"required_if=StoreBackend mongo"`
	MongoDatabase    string `validate:"required_if=StoreBackend mongo"`
	MongoMaxPoolSize uint64 `validate:"gtefield=MongoMinPoolSize"`
	MongoMinPoolSize uint64

	// Session cookies (editor callers signed in through a browser)
	SessionKey    string // signing key; a random key is generated in dev when blank
	SessionName   string `validate:"required"`
	SessionDomain string // blank means current host

	// Bearer tokens (API callers); blank secret disables token auth
	JWTSecret string `validate:"omitempty,min=32"`
	JWTIssuer string
	JWTTTL    time.Duration `validate:"gte=0"`

	// Filter title and message through the HTML sanitizer before storing
	SanitizeHTML bool

	// Handler timeouts; zero keeps the defaults
	TimeoutShort  time.Duration `validate:"gte=0"`
	TimeoutMedium time.Duration `validate:"gte=0"`

	// Writes allowed per caller (or client IP) per minute; 0 disables limiting
	WriteRateLimit int `validate:"gte=0"`

	// Expose /metrics and record request metrics
	MetricsEnabled bool
}
