package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"warden/pkg/channels"
)

func TestFileMissingReadsEmpty(t *testing.T) {
	f := NewFile(filepath.Join(t.TempDir(), "absent.json"))
	doc, err := f.Read(context.Background())
	require.NoError(t, err)
	assert.Empty(t, doc)
}

func TestFileJSONRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gateway.json")
	f := NewFile(path)
	ctx := context.Background()

	doc := map[string]any{
		"gateway": map[string]any{
			"channels": map[string]any{
				"c1": map[string]any{"enabled": true, "users": []any{"u1"}},
			},
		},
		"opaque": "kept",
	}
	require.NoError(t, f.Write(ctx, doc))

	got, err := f.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, "kept", got["opaque"])
	chans := got["gateway"].(map[string]any)["channels"].(map[string]any)
	c1 := chans["c1"].(map[string]any)
	assert.Equal(t, true, c1["enabled"])
	assert.Equal(t, []any{"u1"}, c1["users"])
}

func TestFileYAMLRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gateway.yaml")
	f := NewFile(path)
	ctx := context.Background()

	doc := map[string]any{
		"gateway": map[string]any{"listen": ":1337"},
	}
	require.NoError(t, f.Write(ctx, doc))

	got, err := f.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, ":1337", got["gateway"].(map[string]any)["listen"])
}

func TestFileWriteLeavesNoTempDroppings(t *testing.T) {
	dir := t.TempDir()
	f := NewFile(filepath.Join(dir, "cfg.json"))
	require.NoError(t, f.Write(context.Background(), map[string]any{"a": 1}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "cfg.json", entries[0].Name())
}

func TestFileParseFailureIsConfigRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := NewFile(path).Read(context.Background())
	require.Error(t, err)
	assert.Equal(t, channels.EConfigRead, channels.ErrorCode(err))
}
