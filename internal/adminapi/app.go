// Package adminapi is the thin HTTP surface over the channel service:
// one route per operation, bearer auth in front, JSON in and out.
package adminapi

import (
	"sync"

	"github.com/lestrrat-go/jwx/v2/jwk"
	"go.uber.org/zap"

	"warden/pkg/channels"
)

// Config holds admin-api specific configuration.
type Config struct {
	OIDCIssuer   string
	OIDCAudience string
	JWKSURL      string
	// StaticToken is the dev fallback bearer when no JWKS is configured.
	StaticToken string
	CORSOrigins []string
}

// App is the admin-api application container: shared deps and config only,
// request-scoped work goes through context.
//
// mu serializes mutating handlers. The service itself has no concurrency
// control (each op is a read-modify-write of the whole document), so the
// binding acts as the single-writer queue.
type App struct {
	log         *zap.SugaredLogger
	svc         *channels.Service
	adminJWKS   jwk.Set
	adminIssuer string
	adminAud    string
	staticToken string
	corsOrigins []string
	mu          sync.Mutex
}

// New constructs App. A configured JWKS URL is fetched eagerly and panics on
// failure: starting without working auth is worse than not starting.
func New(log *zap.SugaredLogger, svc *channels.Service, cfg Config) *App {
	app := &App{
		log:         log,
		svc:         svc,
		adminIssuer: cfg.OIDCIssuer,
		adminAud:    cfg.OIDCAudience,
		staticToken: cfg.StaticToken,
		corsOrigins: cfg.CORSOrigins,
	}
	if cfg.JWKSURL != "" {
		app.adminJWKS = mustJWKS(cfg.JWKSURL)
	}
	if app.adminJWKS == nil && app.staticToken == "" {
		log.Warn("admin api running without auth — dev mode only")
	}
	return app
}
