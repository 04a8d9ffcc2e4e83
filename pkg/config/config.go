// pkg/config/config.go
package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env      string
	HTTPAddr string

	// Config document store: DATABASE_URL wins, else a file at ConfigPath.
	ConfigPath  string
	DatabaseURL string

	// Reload notifier: RedisURL wins, else GatewayAdminURL, else noop.
	RedisURL        string
	GatewayAdminURL string
	ReloadChannel   string
	HeartbeatKey    string
	HeartbeatMaxAge time.Duration

	// Admin API auth
	AdminOIDCIssuer   string
	AdminOIDCAudience string
	AdminJWKSURL      string
	AdminToken        string
	AdminCORSOrigins  []string
}

func Load() Config {
	_ = godotenv.Load()
	cfg := Config{
		Env:               env("WARDEN_ENV", "dev"),
		HTTPAddr:          env("WARDEN_HTTP_ADDR", ":8090"),
		ConfigPath:        env("CONFIG_PATH", "warden.json"),
		DatabaseURL:       env("DATABASE_URL", ""),
		RedisURL:          env("REDIS_URL", ""),
		GatewayAdminURL:   env("GATEWAY_ADMIN_URL", ""),
		ReloadChannel:     env("RELOAD_CHANNEL", "warden:reload"),
		HeartbeatKey:      env("HEARTBEAT_KEY", "warden:gateway:heartbeat"),
		HeartbeatMaxAge:   envDur("HEARTBEAT_MAX_AGE_SEC", 90) * time.Second,
		AdminOIDCIssuer:   env("ADMIN_OIDC_ISSUER", ""),
		AdminOIDCAudience: env("ADMIN_OIDC_AUDIENCE", "warden-admin"),
		AdminJWKSURL:      env("ADMIN_JWKS_URL", ""),
		AdminToken:        env("ADMIN_TOKEN", ""),
		AdminCORSOrigins:  envList("ADMIN_CORS_ORIGINS"),
	}
	if cfg.DatabaseURL == "" {
		log.Printf("[INFO] DATABASE_URL not set — using file store at %s", cfg.ConfigPath)
	}
	if cfg.RedisURL == "" && cfg.GatewayAdminURL == "" {
		log.Println("[WARN] no REDIS_URL or GATEWAY_ADMIN_URL — gateway reloads are no-ops")
	}
	return cfg
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envDur(k string, def int) time.Duration {
	if v := os.Getenv(k); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return time.Duration(i)
		}
		log.Printf("[WARN] %s=%q is not a number — using default %d", k, v, def)
	}
	return time.Duration(def)
}

func envList(k string) []string {
	var out []string
	for _, p := range strings.Split(os.Getenv(k), ",") {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
