package gateway

import (
	"context"

	"go.uber.org/zap"

	"warden/pkg/channels"
)

// Noop is the dev fallback when no reload transport is configured. Restarts
// succeed without doing anything so local edits are never reported as
// half-applied.
type Noop struct {
	log *zap.SugaredLogger
}

func NewNoop(log *zap.SugaredLogger) *Noop { return &Noop{log: log} }

func (n *Noop) Restart(_ context.Context) error {
	n.log.Debugw("noop notifier: restart skipped")
	return nil
}

func (n *Noop) Health(_ context.Context) (channels.Health, error) {
	return channels.Health{Running: false}, nil
}
