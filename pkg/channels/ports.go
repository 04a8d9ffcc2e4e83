package channels

import (
	"context"
	"time"
)

// ConfigStore persists the full gateway configuration document. Read must
// hand back a document the caller may freely mutate; Write must be atomic
// from the caller's perspective (a subsequent Read never observes a partial
// document). Implementations fail with EConfigRead / EConfigWrite.
type ConfigStore interface {
	Read(ctx context.Context) (map[string]any, error)
	Write(ctx context.Context, doc map[string]any) error
}

// DocumentPatcher is an optional ConfigStore extension that applies a
// partial document server-side with deep-merge semantics.
type DocumentPatcher interface {
	Patch(ctx context.Context, patch map[string]any) error
}

// Health describes the running gateway process as seen by the notifier.
type Health struct {
	Running bool          `json:"running"`
	Uptime  time.Duration `json:"uptime,omitempty"`
	Version string        `json:"version,omitempty"`
}

// ReloadNotifier makes a persisted configuration change take effect in the
// running gateway. Implementations fail with EGatewayUnavailable.
type ReloadNotifier interface {
	Restart(ctx context.Context) error
	Health(ctx context.Context) (Health, error)
}
