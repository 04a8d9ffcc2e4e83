package adminapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"warden/pkg/channels"
)

type createChannelBody struct {
	ID string `json:"id"`
	channels.ChannelPatch
}

func (a *App) listChannels(w http.ResponseWriter, r *http.Request) {
	chs, err := a.svc.List(r.Context())
	if err != nil {
		writeProblem(w, err)
		return
	}
	writeJSON(w, map[string]any{"channels": chs}, http.StatusOK)
}

func (a *App) getChannel(w http.ResponseWriter, r *http.Request) {
	ch, err := a.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeProblem(w, err)
		return
	}
	writeJSON(w, ch, http.StatusOK)
}

func (a *App) createChannel(w http.ResponseWriter, r *http.Request) {
	var b createChannelBody
	if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
		writeProblem(w, &channels.Error{Code: channels.EInvalid, Msg: "bad json", Err: err})
		return
	}
	a.mu.Lock()
	ch, err := a.svc.Add(r.Context(), b.ID, b.ChannelPatch)
	a.mu.Unlock()
	a.respondMutation(w, "add", ch, err, http.StatusCreated)
}

func (a *App) updateChannel(w http.ResponseWriter, r *http.Request) {
	var patch channels.ChannelPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeProblem(w, &channels.Error{Code: channels.EInvalid, Msg: "bad json", Err: err})
		return
	}
	a.mu.Lock()
	ch, err := a.svc.Update(r.Context(), chi.URLParam(r, "id"), patch)
	a.mu.Unlock()
	a.respondMutation(w, "update", ch, err, http.StatusOK)
}

func (a *App) removeChannel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	a.mu.Lock()
	err := a.svc.Remove(r.Context(), id)
	a.mu.Unlock()
	if err != nil && channels.ErrorCode(err) != channels.EGatewayUnavailable {
		writeProblem(w, err)
		return
	}
	mutationsTotal.WithLabelValues("remove").Inc()
	if err != nil {
		reloadFailures.Inc()
		writeJSON(w, map[string]any{"ok": true, "reloaded": false, "warning": err.Error()}, http.StatusOK)
		return
	}
	writeJSON(w, map[string]any{"ok": true, "reloaded": true}, http.StatusOK)
}

func (a *App) pauseChannel(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	ch, err := a.svc.Pause(r.Context(), chi.URLParam(r, "id"))
	a.mu.Unlock()
	a.respondMutation(w, "pause", ch, err, http.StatusOK)
}

func (a *App) activateChannel(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	ch, err := a.svc.Activate(r.Context(), chi.URLParam(r, "id"))
	a.mu.Unlock()
	a.respondMutation(w, "activate", ch, err, http.StatusOK)
}

// respondMutation distinguishes "failed" from "persisted but not yet live":
// a gateway error after a successful write is a 200 with a warning, never a
// failure status.
func (a *App) respondMutation(w http.ResponseWriter, op string, ch channels.Channel, err error, okStatus int) {
	if err != nil && channels.ErrorCode(err) != channels.EGatewayUnavailable {
		writeProblem(w, err)
		return
	}
	mutationsTotal.WithLabelValues(op).Inc()
	if err != nil {
		reloadFailures.Inc()
		writeJSON(w, map[string]any{"channel": ch, "reloaded": false, "warning": err.Error()}, okStatus)
		return
	}
	writeJSON(w, map[string]any{"channel": ch, "reloaded": true}, okStatus)
}
