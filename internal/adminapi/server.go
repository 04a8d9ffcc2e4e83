package adminapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"warden/pkg/middleware"
)

// Handler builds the HTTP handler with routes and middleware.
func (a *App) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID())
	r.Use(middleware.Recover(a.log))
	r.Use(middleware.Tracing("warden-admin"))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	allowed := a.corsOrigins
	if len(allowed) == 0 {
		allowed = []string{"http://localhost:3001"}
	}

	r.Route("/admin", func(ar chi.Router) {
		ar.Use(cors(allowed))
		ar.Use(a.adminAuth)
		ar.Get("/channels", a.listChannels)
		ar.Post("/channels", a.createChannel)
		ar.Get("/channels/{id}", a.getChannel)
		ar.Patch("/channels/{id}", a.updateChannel)
		ar.Delete("/channels/{id}", a.removeChannel)
		ar.Post("/channels/{id}/pause", a.pauseChannel)
		ar.Post("/channels/{id}/activate", a.activateChannel)
		// Raw document escape hatches
		ar.Patch("/config", a.patchConfig)
		ar.Get("/config/inspect", a.inspectConfig)
		// Gateway process
		ar.Get("/gateway/health", a.gatewayHealth)
		ar.Post("/gateway/restart", a.gatewayRestart)
	})

	return r
}
