// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	announcementsfeature "github.com/dalemusser/bulletin/internal/app/features/announcements"
	healthfeature "github.com/dalemusser/bulletin/internal/app/features/health"
	"github.com/dalemusser/bulletin/internal/app/system/auth"
	"github.com/dalemusser/bulletin/internal/app/system/htmlsanitize"
	"github.com/dalemusser/bulletin/internal/app/system/metrics"
	"github.com/dalemusser/bulletin/internal/app/system/ratelimit"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/securecookie"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// the Startup hook have completed. Callers are resolved from a session
// cookie or a bearer token on every request; reads are public and the
// announcement handlers reject mutations without a caller.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	resolver, err := buildResolver(coreCfg, appCfg, logger)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()

	var rec *metrics.Recorder
	if appCfg.MetricsEnabled {
		rec = metrics.New()
		r.Use(rec.Middleware)
	}

	// Loads the Caller into context when one is present.
	r.Use(auth.LoadCaller(resolver))

	if appCfg.WriteRateLimit > 0 {
		r.Use(trackLimiter(ratelimit.New(appCfg.WriteRateLimit)).Writes)
	}

	if rec != nil {
		r.Handle("/metrics", rec.Handler())
	}

	healthHandler := healthfeature.NewHandler(deps.Announcements, appCfg.StoreBackend, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	var opts []announcementsfeature.Option
	if appCfg.SanitizeHTML {
		opts = append(opts, announcementsfeature.WithSanitizer(htmlsanitize.Sanitize))
	}
	svc := announcementsfeature.NewService(deps.Announcements, opts...)
	annHandler := announcementsfeature.NewHandler(svc, logger)
	r.Mount("/announcements", announcementsfeature.Routes(annHandler))

	return r, nil
}

// buildResolver assembles the caller resolvers: session cookie when a key is
// configured (or generated in dev), then bearer token when a JWT secret is
// configured.
func buildResolver(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (auth.Resolver, error) {
	var resolvers []auth.Resolver

	sessionKey := appCfg.SessionKey
	if sessionKey == "" && coreCfg.Env == "dev" {
		sessionKey = string(securecookie.GenerateRandomKey(32))
		logger.Warn("session_key not set; using a random key (sessions reset on restart)")
	}
	if sessionKey != "" {
		// Secure cookies are enabled in production mode.
		secure := coreCfg.Env == "prod"
		sessionMgr, err := auth.NewSessionManager(sessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
		if err != nil {
			logger.Error("session manager init failed", zap.Error(err))
			return nil, err
		}
		resolvers = append(resolvers, sessionMgr)
	} else {
		logger.Info("session_key not set; session cookies are not accepted")
	}

	if appCfg.JWTSecret != "" {
		resolvers = append(resolvers, auth.NewJWTVerifier(appCfg.JWTSecret, appCfg.JWTIssuer, appCfg.JWTTTL))
	} else {
		logger.Warn("jwt_secret not set; bearer tokens are not accepted")
	}
	return auth.Chain(resolvers...), nil
}
