// Package gateway provides ReloadNotifier backends for reaching the running
// bot gateway: redis pub/sub, the gateway's HTTP admin socket, and a no-op
// for dev.
package gateway

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"warden/pkg/channels"
)

// RedisNotifier publishes restart requests on a pub/sub channel the gateway
// subscribes to, and reads the gateway's heartbeat key for health. A publish
// that reaches zero subscribers counts as "gateway unavailable": redis is up
// but nobody is listening.
type RedisNotifier struct {
	cli          *redis.Client
	channel      string
	heartbeatKey string
	maxAge       time.Duration
	log          *zap.SugaredLogger
}

// heartbeat is the JSON the gateway keeps under the heartbeat key.
type heartbeat struct {
	PID       int    `json:"pid"`
	Version   string `json:"version"`
	StartedAt int64  `json:"started_at"`
	UpdatedAt int64  `json:"updated_at"`
}

func NewRedisNotifier(cli *redis.Client, channel, heartbeatKey string, maxAge time.Duration, log *zap.SugaredLogger) *RedisNotifier {
	return &RedisNotifier{cli: cli, channel: channel, heartbeatKey: heartbeatKey, maxAge: maxAge, log: log}
}

func (n *RedisNotifier) Restart(ctx context.Context) error {
	op := uuid.NewString()
	payload, _ := json.Marshal(map[string]any{
		"op":     op,
		"action": "restart",
		"at":     time.Now().Unix(),
	})
	subs, err := n.cli.Publish(ctx, n.channel, payload).Result()
	if err != nil {
		return &channels.Error{Code: channels.EGatewayUnavailable, Msg: "publish restart", Err: err}
	}
	if subs == 0 {
		return &channels.Error{Code: channels.EGatewayUnavailable, Msg: "no gateway subscribed to " + n.channel}
	}
	n.log.Infow("restart published", "op", op, "subscribers", subs)
	return nil
}

func (n *RedisNotifier) Health(ctx context.Context) (channels.Health, error) {
	val, err := n.cli.Get(ctx, n.heartbeatKey).Result()
	if err == redis.Nil {
		return channels.Health{Running: false}, nil
	}
	if err != nil {
		return channels.Health{}, &channels.Error{Code: channels.EGatewayUnavailable, Msg: "read heartbeat", Err: err}
	}
	var hb heartbeat
	if err := json.Unmarshal([]byte(val), &hb); err != nil {
		return channels.Health{}, &channels.Error{Code: channels.EGatewayUnavailable, Msg: "decode heartbeat", Err: err}
	}
	now := time.Now()
	if hb.UpdatedAt > 0 && now.Sub(time.Unix(hb.UpdatedAt, 0)) > n.maxAge {
		// stale heartbeat: the gateway stopped without cleaning up
		return channels.Health{Running: false, Version: hb.Version}, nil
	}
	h := channels.Health{Running: true, Version: hb.Version}
	if hb.StartedAt > 0 {
		h.Uptime = now.Sub(time.Unix(hb.StartedAt, 0))
	}
	return h, nil
}
