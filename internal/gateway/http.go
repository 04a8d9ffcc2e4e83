package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"warden/pkg/channels"
)

// HTTPNotifier talks to the gateway's admin socket directly: POST /restart
// to reload, GET /health for liveness.
type HTTPNotifier struct {
	base string
	cli  *http.Client
	log  *zap.SugaredLogger
}

func NewHTTPNotifier(base string, log *zap.SugaredLogger) *HTTPNotifier {
	return &HTTPNotifier{
		base: strings.TrimRight(base, "/"),
		cli:  &http.Client{Timeout: 10 * time.Second},
		log:  log,
	}
}

func (n *HTTPNotifier) Restart(ctx context.Context) error {
	op := uuid.NewString()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.base+"/restart", nil)
	if err != nil {
		return &channels.Error{Code: channels.EGatewayUnavailable, Msg: "build restart request", Err: err}
	}
	req.Header.Set("X-Request-Id", op)
	resp, err := n.cli.Do(req)
	if err != nil {
		return &channels.Error{Code: channels.EGatewayUnavailable, Msg: "restart " + n.base, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &channels.Error{Code: channels.EGatewayUnavailable, Msg: fmt.Sprintf("restart %s: status %d", n.base, resp.StatusCode)}
	}
	n.log.Infow("gateway restart requested", "op", op)
	return nil
}

func (n *HTTPNotifier) Health(ctx context.Context) (channels.Health, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.base+"/health", nil)
	if err != nil {
		return channels.Health{}, &channels.Error{Code: channels.EGatewayUnavailable, Msg: "build health request", Err: err}
	}
	resp, err := n.cli.Do(req)
	if err != nil {
		return channels.Health{}, &channels.Error{Code: channels.EGatewayUnavailable, Msg: "health " + n.base, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return channels.Health{}, &channels.Error{Code: channels.EGatewayUnavailable, Msg: fmt.Sprintf("health %s: status %d", n.base, resp.StatusCode)}
	}
	var body struct {
		Running   bool   `json:"running"`
		UptimeSec int64  `json:"uptime_sec"`
		Version   string `json:"version"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return channels.Health{}, &channels.Error{Code: channels.EGatewayUnavailable, Msg: "decode health response", Err: err}
	}
	return channels.Health{
		Running: body.Running,
		Uptime:  time.Duration(body.UptimeSec) * time.Second,
		Version: body.Version,
	}, nil
}
