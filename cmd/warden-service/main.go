// cmd/warden-service/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"warden/internal/adminapi"
	"warden/internal/gateway"
	"warden/internal/store"
	"warden/pkg/channels"
	"warden/pkg/config"
	"warden/pkg/db"
	"warden/pkg/logger"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Env)
	defer log.Sync()

	var cs channels.ConfigStore
	if pool := db.MustConnect(cfg, log); pool != nil {
		if err := store.EnsureSchema(context.Background(), pool); err != nil {
			log.Fatalw("schema", "err", err)
		}
		cs = store.NewPostgres(pool)
	} else {
		cs = store.NewFile(cfg.ConfigPath)
	}

	var notifier channels.ReloadNotifier
	if cli := db.MustRedis(cfg, log); cli != nil {
		notifier = gateway.NewRedisNotifier(cli, cfg.ReloadChannel, cfg.HeartbeatKey, cfg.HeartbeatMaxAge, log)
	} else if cfg.GatewayAdminURL != "" {
		notifier = gateway.NewHTTPNotifier(cfg.GatewayAdminURL, log)
	} else {
		notifier = gateway.NewNoop(log)
	}

	svc := channels.NewService(cs, notifier, log)

	app := adminapi.New(log, svc, adminapi.Config{
		OIDCIssuer:   cfg.AdminOIDCIssuer,
		OIDCAudience: cfg.AdminOIDCAudience,
		JWKSURL:      cfg.AdminJWKSURL,
		StaticToken:  cfg.AdminToken,
		CORSOrigins:  cfg.AdminCORSOrigins,
	})

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: app.Handler()}
	go func() {
		log.Infow("warden-service listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("ListenAndServe", "err", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	fmt.Println("warden-service stopped")
}
