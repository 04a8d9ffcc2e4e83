// Package store provides ConfigStore backends: an in-memory document (tests
// and dev), an atomic JSON/YAML file, and a single-row Postgres jsonb
// document.
package store

import (
	"context"
	"sync"

	"warden/pkg/doctree"
)

// Memory holds the document in process. Both Read and Write deep-copy, so
// callers may mutate what they get back (or what they passed in) without
// ever touching stored state.
type Memory struct {
	mu  sync.RWMutex
	doc map[string]any
}

// NewMemory seeds an in-memory store. A nil seed starts empty.
func NewMemory(seed map[string]any) *Memory {
	return &Memory{doc: doctree.Clone(seed)}
}

func (m *Memory) Read(_ context.Context) (map[string]any, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return doctree.Clone(m.doc), nil
}

func (m *Memory) Write(_ context.Context, doc map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.doc = doctree.Clone(doc)
	return nil
}

// Patch applies a deep-merge server-side.
func (m *Memory) Patch(_ context.Context, patch map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.doc = doctree.Merge(m.doc, patch)
	return nil
}
