// internal/app/bootstrap/config.go
package bootstrap

import (
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for the bulletin service.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, store_backend, etc.
//   - Environment variables: BULLETIN_MONGO_URI, BULLETIN_STORE_BACKEND, etc.
//   - Command-line flags: --mongo_uri, --store_backend, etc.
var appConfigKeys = []config.AppKey{
	{Name: "store_backend", Default: BackendMongo, Desc: "Announcement store: 'mongo' or 'memory'"},
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "bulletin", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	{Name: "session_key", Default: "", Desc: "Session signing key (blank disables session callers outside dev)"},
	{Name: "session_name", Default: "bulletin-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},

	{Name: "jwt_secret", Default: "", Desc: "HS256 secret for bearer tokens (blank disables token auth)"},
	{Name: "jwt_issuer", Default: "", Desc: "Expected token issuer (blank skips the check)"},
	{Name: "jwt_ttl", Default: "1h", Desc: "Lifetime of tokens issued by the service"},

	{Name: "sanitize_html", Default: false, Desc: "Sanitize HTML in announcement title and message"},

	{Name: "timeout_short", Default: "5s", Desc: "Timeout for single-record operations"},
	{Name: "timeout_medium", Default: "10s", Desc: "Timeout for list queries"},

	{Name: "write_rate_limit", Default: 60, Desc: "Create/update/delete requests per caller per minute (0 disables)"},

	{Name: "metrics_enabled", Default: true, Desc: "Serve Prometheus metrics on /metrics"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles .env files, config files,
// environment variables (WAFFLE_* for core, BULLETIN_* for app) and flags,
// merged with precedence flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "BULLETIN", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		StoreBackend:     appValues.String("store_backend"),
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),

		JWTSecret: appValues.String("jwt_secret"),
		JWTIssuer: appValues.String("jwt_issuer"),
		JWTTTL:    appValues.Duration("jwt_ttl", time.Hour),

		SanitizeHTML: appValues.Bool("sanitize_html"),

		TimeoutShort:  appValues.Duration("timeout_short", 5*time.Second),
		TimeoutMedium: appValues.Duration("timeout_medium", 10*time.Second),

		WriteRateLimit: appValues.Int("write_rate_limit"),
		MetricsEnabled: appValues.Bool("metrics_enabled"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Struct rules come from the validate tags on AppConfig. The MongoDB URI is
// checked with WAFFLE's parser when the mongo backend is selected. Outside
// dev at least one caller source (session key or JWT secret) is required.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := validateAppConfig(appCfg); err != nil {
		logger.Error("invalid app config", zap.Error(err))
		return err
	}

	if appCfg.StoreBackend == BackendMongo {
		if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
			logger.Error("invalid MongoDB URI", zap.Error(err))
			return fmt.Errorf("invalid MongoDB URI: %w", err)
		}
	}

	if coreCfg != nil && coreCfg.Env != "dev" && appCfg.SessionKey == "" && appCfg.JWTSecret == "" {
		return fmt.Errorf("session_key or jwt_secret is required when env is %q", coreCfg.Env)
	}

	if appCfg.StoreBackend == BackendMemory {
		logger.Warn("memory store selected; announcements are lost on restart")
	}
	return nil
}

var validate = validator.New()

// validateAppConfig reports the first failing field. Values are left out of
// the message since some fields hold secrets.
func validateAppConfig(appCfg AppConfig) error {
	err := validate.Struct(appCfg)
	if err == nil {
		return nil
	}
	var fields validator.ValidationErrors
	if errors.As(err, &fields) && len(fields) > 0 {
		return fmt.Errorf("invalid config: %s failed %q", fields[0].Field(), fields[0].Tag())
	}
	return fmt.Errorf("invalid config: %w", err)
}
