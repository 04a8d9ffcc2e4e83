package channels

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"warden/pkg/doctree"
)

// channelPath is the one well-known sub-path warden owns inside the gateway
// document. Nobody outside this file knows where the channel map lives.
var channelPath = []string{"gateway", "channels"}

// Service implements the channel CRUD operations as read-full, compute-next,
// write-full transactions against the config store, notifying the gateway
// after every successful mutation. There is no concurrency control here:
// callers that race mutations last-writer-win, and the HTTP binding
// serializes them for exactly that reason.
type Service struct {
	store    ConfigStore
	notifier ReloadNotifier
	log      *zap.SugaredLogger
}

func NewService(store ConfigStore, notifier ReloadNotifier, log *zap.SugaredLogger) *Service {
	return &Service{store: store, notifier: notifier, log: log}
}

// channelsIn extracts the channel sub-map from the document; an absent path
// reads as an empty map. The document is not mutated.
func channelsIn(doc map[string]any) map[string]any {
	m, ok := doctree.Lookup(doc, channelPath...)
	if !ok {
		return map[string]any{}
	}
	return m
}

// withChannels returns a new document with the channel sub-map replaced and
// everything else structurally shared.
func withChannels(doc, chans map[string]any) map[string]any {
	return doctree.Put(doc, chans, channelPath...)
}

// List returns every channel, fully defaulted, ordered by id.
func (s *Service) List(ctx context.Context) ([]Channel, error) {
	doc, err := s.store.Read(ctx)
	if err != nil {
		return nil, err
	}
	chans := channelsIn(doc)
	ids := make([]string, 0, len(chans))
	for id := range chans {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]Channel, 0, len(ids))
	for _, id := range ids {
		raw, _ := chans[id].(map[string]any)
		out = append(out, fromRecord(id, raw))
	}
	return out, nil
}

// Get returns one channel, fully defaulted.
func (s *Service) Get(ctx context.Context, id string) (Channel, error) {
	id, err := ValidateID(id)
	if err != nil {
		return Channel{}, err
	}
	doc, err := s.store.Read(ctx)
	if err != nil {
		return Channel{}, err
	}
	raw, ok := channelsIn(doc)[id].(map[string]any)
	if !ok {
		return Channel{}, notFoundErr(id)
	}
	return fromRecord(id, raw), nil
}

// Add creates a channel from the patch layered over a fully-defaulted record.
// Enabled defaults to true even when the caller says nothing about it.
func (s *Service) Add(ctx context.Context, id string, patch ChannelPatch) (Channel, error) {
	id, err := ValidateID(id)
	if err != nil {
		return Channel{}, err
	}
	if err := patch.validate(); err != nil {
		return Channel{}, err
	}
	doc, err := s.store.Read(ctx)
	if err != nil {
		return Channel{}, err
	}
	chans := channelsIn(doc)
	if _, exists := chans[id]; exists {
		return Channel{}, conflictErr(id)
	}
	rec := defaultRecord(id)
	patch.apply(rec)
	next := copyWith(chans, id, rec)
	if err := s.store.Write(ctx, withChannels(doc, next)); err != nil {
		return Channel{}, err
	}
	return fromRecord(id, rec), s.reload(ctx, "add", id)
}

// Update shallow-merges the supplied fields onto the stored record. Fields
// the patch does not carry keep their prior value; this is a field-level
// merge, never a record replacement.
func (s *Service) Update(ctx context.Context, id string, patch ChannelPatch) (Channel, error) {
	id, err := ValidateID(id)
	if err != nil {
		return Channel{}, err
	}
	if err := patch.validate(); err != nil {
		return Channel{}, err
	}
	doc, err := s.store.Read(ctx)
	if err != nil {
		return Channel{}, err
	}
	chans := channelsIn(doc)
	raw, ok := chans[id].(map[string]any)
	if !ok {
		return Channel{}, notFoundErr(id)
	}
	rec := make(map[string]any, len(raw))
	for k, v := range raw {
		rec[k] = v
	}
	patch.apply(rec)
	next := copyWith(chans, id, rec)
	if err := s.store.Write(ctx, withChannels(doc, next)); err != nil {
		return Channel{}, err
	}
	return fromRecord(id, rec), s.reload(ctx, "update", id)
}

// Remove deletes the channel record outright. A reversible disable is Pause,
// not a tombstone.
func (s *Service) Remove(ctx context.Context, id string) error {
	id, err := ValidateID(id)
	if err != nil {
		return err
	}
	doc, err := s.store.Read(ctx)
	if err != nil {
		return err
	}
	chans := channelsIn(doc)
	if _, ok := chans[id]; !ok {
		return notFoundErr(id)
	}
	next := copyWith(chans, id, nil)
	delete(next, id)
	if err := s.store.Write(ctx, withChannels(doc, next)); err != nil {
		return err
	}
	return s.reload(ctx, "remove", id)
}

// Pause disables the channel without touching anything else in its record.
func (s *Service) Pause(ctx context.Context, id string) (Channel, error) {
	off := false
	return s.Update(ctx, id, ChannelPatch{Enabled: &off})
}

// Activate re-enables a paused channel.
func (s *Service) Activate(ctx context.Context, id string) (Channel, error) {
	on := true
	return s.Update(ctx, id, ChannelPatch{Enabled: &on})
}

// ApplyPatch deep-merges a raw partial document into the stored one, using
// the store's server-side patch when it offers one. The same sibling
// preservation rules as the typed operations apply, and a reload follows.
func (s *Service) ApplyPatch(ctx context.Context, patch map[string]any) error {
	if p, ok := s.store.(DocumentPatcher); ok {
		if err := p.Patch(ctx, patch); err != nil {
			return err
		}
		return s.reload(ctx, "patch", "")
	}
	doc, err := s.store.Read(ctx)
	if err != nil {
		return err
	}
	if err := s.store.Write(ctx, doctree.Merge(doc, patch)); err != nil {
		return err
	}
	return s.reload(ctx, "patch", "")
}

// Document returns the full stored document for inspection.
func (s *Service) Document(ctx context.Context) (map[string]any, error) {
	return s.store.Read(ctx)
}

// GatewayHealth reports the running gateway's state via the notifier.
func (s *Service) GatewayHealth(ctx context.Context) (Health, error) {
	return s.notifier.Health(ctx)
}

// RestartGateway signals a reload without a preceding mutation.
func (s *Service) RestartGateway(ctx context.Context) error {
	return s.notifier.Restart(ctx)
}

// reload fires the post-write notification. The write already succeeded, so
// a notifier failure is reported as EGatewayUnavailable rather than undoing
// anything: the caller sees "saved, but not yet live".
func (s *Service) reload(ctx context.Context, op, id string) error {
	if err := s.notifier.Restart(ctx); err != nil {
		s.log.Warnw("gateway reload failed after persisted mutation", "op", op, "channel", id, "err", err)
		if ErrorCode(err) == EGatewayUnavailable {
			return err
		}
		return &Error{Code: EGatewayUnavailable, Msg: "gateway reload failed", Err: err}
	}
	return nil
}

func copyWith(m map[string]any, id string, rec map[string]any) map[string]any {
	next := make(map[string]any, len(m)+1)
	for k, v := range m {
		next[k] = v
	}
	if rec != nil {
		next[id] = rec
	}
	return next
}
