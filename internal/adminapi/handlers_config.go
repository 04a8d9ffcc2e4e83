package adminapi

import (
	"encoding/json"
	"net/http"
	"strings"

	jmes "github.com/jmespath/go-jmespath"

	"warden/pkg/channels"
)

// patchConfig applies a raw partial document with deep-merge semantics. This
// is the escape hatch for the parts of the document warden does not model;
// the channel sub-tree is better served by the typed routes.
func (a *App) patchConfig(w http.ResponseWriter, r *http.Request) {
	var patch map[string]any
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeProblem(w, &channels.Error{Code: channels.EInvalid, Msg: "bad json", Err: err})
		return
	}
	a.mu.Lock()
	err := a.svc.ApplyPatch(r.Context(), patch)
	a.mu.Unlock()
	if err != nil && channels.ErrorCode(err) != channels.EGatewayUnavailable {
		writeProblem(w, err)
		return
	}
	mutationsTotal.WithLabelValues("patch").Inc()
	if err != nil {
		reloadFailures.Inc()
		writeJSON(w, map[string]any{"ok": true, "reloaded": false, "warning": err.Error()}, http.StatusOK)
		return
	}
	writeJSON(w, map[string]any{"ok": true, "reloaded": true}, http.StatusOK)
}

// inspectConfig evaluates a JMESPath expression against the full document,
// read-only. Handy for checking what lives next to the channel map without
// dumping the whole config.
func (a *App) inspectConfig(w http.ResponseWriter, r *http.Request) {
	expr := strings.TrimSpace(r.URL.Query().Get("expr"))
	doc, err := a.svc.Document(r.Context())
	if err != nil {
		writeProblem(w, err)
		return
	}
	if expr == "" {
		writeJSON(w, map[string]any{"result": doc}, http.StatusOK)
		return
	}
	res, err := jmes.Search(expr, doc)
	if err != nil {
		writeProblem(w, &channels.Error{Code: channels.EInvalid, Msg: "bad jmespath expression", Err: err})
		return
	}
	writeJSON(w, map[string]any{"result": res}, http.StatusOK)
}

func (a *App) gatewayHealth(w http.ResponseWriter, r *http.Request) {
	h, err := a.svc.GatewayHealth(r.Context())
	if err != nil {
		writeProblem(w, err)
		return
	}
	writeJSON(w, map[string]any{
		"running":    h.Running,
		"uptime_sec": int64(h.Uptime.Seconds()),
		"version":    h.Version,
	}, http.StatusOK)
}

func (a *App) gatewayRestart(w http.ResponseWriter, r *http.Request) {
	if err := a.svc.RestartGateway(r.Context()); err != nil {
		writeProblem(w, err)
		return
	}
	writeJSON(w, map[string]any{"ok": true}, http.StatusOK)
}
