package adminapi_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"warden/internal/adminapi"
	"warden/internal/store"
	"warden/pkg/channels"
)

type stubNotifier struct {
	restarts int
	fail     bool
}

func (s *stubNotifier) Restart(context.Context) error {
	s.restarts++
	if s.fail {
		return &channels.Error{Code: channels.EGatewayUnavailable, Msg: "gateway down"}
	}
	return nil
}

func (s *stubNotifier) Health(context.Context) (channels.Health, error) {
	return channels.Health{Running: true, Version: "test"}, nil
}

func newTestServer(t *testing.T, seed map[string]any) (*httptest.Server, *store.Memory, *stubNotifier) {
	t.Helper()
	mem := store.NewMemory(seed)
	stub := &stubNotifier{}
	svc := channels.NewService(mem, stub, zap.NewNop().Sugar())
	app := adminapi.New(zap.NewNop().Sugar(), svc, adminapi.Config{})
	srv := httptest.NewServer(app.Handler())
	t.Cleanup(srv.Close)
	return srv, mem, stub
}

func doJSON(t *testing.T, method, url, body string) (*http.Response, map[string]any) {
	t.Helper()
	var rd *strings.Reader
	if body == "" {
		rd = strings.NewReader("")
	} else {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, rd)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	out := map[string]any{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func TestCreateAndGetChannel(t *testing.T) {
	srv, _, stub := newTestServer(t, nil)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/admin/channels",
		`{"id":"room-1","systemPrompt":"hi","paid":true}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, true, body["reloaded"])
	ch := body["channel"].(map[string]any)
	assert.Equal(t, "room-1", ch["id"])
	assert.Equal(t, true, ch["enabled"])
	assert.Equal(t, true, ch["paid"])
	assert.Equal(t, "allowlist", ch["groupPolicy"])
	assert.Equal(t, 1, stub.restarts)

	resp, got := doJSON(t, http.MethodGet, srv.URL+"/admin/channels/room-1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "hi", got["systemPrompt"])
	deny := got["tools"].(map[string]any)["deny"].([]any)
	assert.Len(t, deny, len(channels.DefaultToolDeny()))
}

func TestCreateConflict(t *testing.T) {
	srv, _, _ := newTestServer(t, nil)
	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/admin/channels", `{"id":"dup"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/admin/channels", `{"id":"dup"}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, body["type"], "conflict")
}

func TestCreateInvalidID(t *testing.T) {
	srv, _, stub := newTestServer(t, nil)
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/admin/channels", `{"id":"../../etc/passwd"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.EqualValues(t, http.StatusBadRequest, body["status"])
	assert.Zero(t, stub.restarts)
}

func TestUpdateMergesFields(t *testing.T) {
	srv, _, _ := newTestServer(t, nil)
	doJSON(t, http.MethodPost, srv.URL+"/admin/channels", `{"id":"m","users":["u1","u2"]}`)

	resp, body := doJSON(t, http.MethodPatch, srv.URL+"/admin/channels/m", `{"systemPrompt":"x"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	ch := body["channel"].(map[string]any)
	assert.Equal(t, "x", ch["systemPrompt"])
	assert.Equal(t, []any{"u1", "u2"}, ch["users"])
}

func TestPauseActivateDelete(t *testing.T) {
	srv, _, stub := newTestServer(t, nil)
	doJSON(t, http.MethodPost, srv.URL+"/admin/channels", `{"id":"p"}`)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/admin/channels/p/pause", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, body["channel"].(map[string]any)["enabled"])

	resp, body = doJSON(t, http.MethodPost, srv.URL+"/admin/channels/p/activate", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["channel"].(map[string]any)["enabled"])

	resp, body = doJSON(t, http.MethodDelete, srv.URL+"/admin/channels/p", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["ok"])

	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/admin/channels/p", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, 4, stub.restarts)
}

func TestMutationWithReloadFailure(t *testing.T) {
	srv, mem, stub := newTestServer(t, nil)
	stub.fail = true

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/admin/channels", `{"id":"warn"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, false, body["reloaded"])
	assert.NotEmpty(t, body["warning"])

	doc, err := mem.Read(context.Background())
	require.NoError(t, err)
	chans := doc["gateway"].(map[string]any)["channels"].(map[string]any)
	assert.Contains(t, chans, "warn")
}

func TestListChannels(t *testing.T) {
	srv, _, _ := newTestServer(t, map[string]any{
		"gateway": map[string]any{
			"channels": map[string]any{
				"b": map[string]any{},
				"a": map[string]any{},
			},
		},
	})
	resp, body := doJSON(t, http.MethodGet, srv.URL+"/admin/channels", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := body["channels"].([]any)
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].(map[string]any)["id"])
	assert.Equal(t, "b", list[1].(map[string]any)["id"])
}

func TestPatchAndInspectConfig(t *testing.T) {
	srv, _, _ := newTestServer(t, map[string]any{
		"llm": map[string]any{"model": "big-one"},
		"gateway": map[string]any{
			"channels": map[string]any{"keep": map[string]any{}},
		},
	})

	resp, body := doJSON(t, http.MethodPatch, srv.URL+"/admin/config", `{"llm":{"temperature":0.2}}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["reloaded"])

	resp, body = doJSON(t, http.MethodGet, srv.URL+"/admin/config/inspect?expr=llm.model", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "big-one", body["result"])

	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/admin/config/inspect?expr=!!!", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = doJSON(t, http.MethodGet, srv.URL+"/admin/channels/keep", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "keep", body["id"])
}

func TestGatewayEndpoints(t *testing.T) {
	srv, _, stub := newTestServer(t, nil)

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/admin/gateway/health", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["running"])
	assert.Equal(t, "test", body["version"])

	resp, body = doJSON(t, http.MethodPost, srv.URL+"/admin/gateway/restart", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, 1, stub.restarts)
}

func TestStaticTokenAuth(t *testing.T) {
	mem := store.NewMemory(nil)
	svc := channels.NewService(mem, &stubNotifier{}, zap.NewNop().Sugar())
	app := adminapi.New(zap.NewNop().Sugar(), svc, adminapi.Config{StaticToken: "sekrit"})
	srv := httptest.NewServer(app.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/admin/channels")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/admin/channels", nil)
	req.Header.Set("Authorization", "Bearer sekrit")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
