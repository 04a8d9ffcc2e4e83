package doctree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	doc := map[string]any{
		"gateway": map[string]any{
			"channels": map[string]any{"c1": map[string]any{"name": "one"}},
		},
		"other": "x",
	}

	m, ok := Lookup(doc, "gateway", "channels")
	require.True(t, ok)
	assert.Contains(t, m, "c1")

	_, ok = Lookup(doc, "gateway", "missing")
	assert.False(t, ok)

	// Path steps through a scalar.
	_, ok = Lookup(doc, "other", "nested")
	assert.False(t, ok)
}

func TestPutSharesSiblings(t *testing.T) {
	opaque := map[string]any{"keep": "me"}
	doc := map[string]any{
		"gateway": map[string]any{
			"channels": map[string]any{"c1": map[string]any{}},
			"listen":   ":1337",
		},
		"opaque": opaque,
	}

	out := Put(doc, map[string]any{"c2": map[string]any{}}, "gateway", "channels")

	// Replaced path updated, original untouched.
	m, ok := Lookup(out, "gateway", "channels")
	require.True(t, ok)
	assert.Contains(t, m, "c2")
	orig, _ := Lookup(doc, "gateway", "channels")
	assert.NotContains(t, orig, "c2")

	// Unrelated top-level keys are shared, sibling keys on the path survive.
	assert.Equal(t, ":1337", out["gateway"].(map[string]any)["listen"])
	if got, want := out["opaque"], any(opaque); assert.Equal(t, want, got) {
		// same backing map, not a copy
		opaque["probe"] = true
		assert.Contains(t, out["opaque"].(map[string]any), "probe")
	}
}

func TestPutCreatesAncestors(t *testing.T) {
	out := Put(map[string]any{"unrelated": 1}, map[string]any{"c": 2}, "gateway", "channels")
	m, ok := Lookup(out, "gateway", "channels")
	require.True(t, ok)
	assert.Equal(t, 2, m["c"])
	assert.Equal(t, 1, out["unrelated"])
}

func TestCloneIsolation(t *testing.T) {
	doc := map[string]any{
		"nested": map[string]any{"list": []any{1, 2}},
	}
	cp := Clone(doc)
	cp["nested"].(map[string]any)["list"].([]any)[0] = 99
	cp["nested"].(map[string]any)["new"] = true

	assert.Equal(t, 1, doc["nested"].(map[string]any)["list"].([]any)[0])
	assert.NotContains(t, doc["nested"].(map[string]any), "new")
}

func TestMergeRecursesOnObjects(t *testing.T) {
	base := map[string]any{
		"gateway": map[string]any{"listen": ":1337", "debug": false},
		"keep":    "as-is",
	}
	patch := map[string]any{
		"gateway": map[string]any{"debug": true},
	}

	out := Merge(base, patch)
	assert.Equal(t, true, out["gateway"].(map[string]any)["debug"])
	assert.Equal(t, ":1337", out["gateway"].(map[string]any)["listen"])
	assert.Equal(t, "as-is", out["keep"])
}

func TestMergeDeepSiblingsSurvive(t *testing.T) {
	base := map[string]any{
		"gateway": map[string]any{
			"listen": ":1337",
			"channels": map[string]any{
				"alpha": map[string]any{"enabled": true},
			},
		},
	}

	// A patch three levels deep leaves every sibling on the way intact.
	out := Merge(base, map[string]any{
		"gateway": map[string]any{
			"channels": map[string]any{
				"beta": map[string]any{"enabled": false},
			},
		},
	})
	gw := out["gateway"].(map[string]any)
	assert.Equal(t, ":1337", gw["listen"])
	chans := gw["channels"].(map[string]any)
	assert.Contains(t, chans, "alpha")
	assert.Contains(t, chans, "beta")

	// An empty patch object recurses into nothing and changes nothing.
	out = Merge(base, map[string]any{"gateway": map[string]any{}})
	gw = out["gateway"].(map[string]any)
	assert.Equal(t, ":1337", gw["listen"])
	assert.Contains(t, gw["channels"].(map[string]any), "alpha")
}

func TestMergeNullTouchesOnlyItsKey(t *testing.T) {
	out := Merge(
		map[string]any{"a": 1, "b": 2},
		map[string]any{"b": nil},
	)
	assert.Equal(t, 1, out["a"])
	assert.Nil(t, out["b"])
}

func TestMergeReplacesArraysAndScalars(t *testing.T) {
	base := map[string]any{
		"users": []any{"alice", "bob"},
		"count": 3,
	}
	patch := map[string]any{
		"users": []any{"carol"},
		"count": 0,
	}

	out := Merge(base, patch)
	assert.Equal(t, []any{"carol"}, out["users"])
	assert.Equal(t, 0, out["count"])
}

func TestMergeFalseOverridesTrue(t *testing.T) {
	out := Merge(
		map[string]any{"enabled": true},
		map[string]any{"enabled": false},
	)
	assert.Equal(t, false, out["enabled"])
}

func TestMergeDropsReservedKeys(t *testing.T) {
	base := map[string]any{"a": map[string]any{"b": 1}}
	patch := map[string]any{
		"__proto__": map[string]any{"polluted": true},
		"a": map[string]any{
			"constructor": "evil",
			"prototype":   map[string]any{},
			"c":           2,
		},
	}

	out := Merge(base, patch)
	assert.NotContains(t, out, "__proto__")
	inner := out["a"].(map[string]any)
	assert.NotContains(t, inner, "constructor")
	assert.NotContains(t, inner, "prototype")
	assert.Equal(t, 2, inner["c"])
	assert.Equal(t, 1, inner["b"])
}

func TestMergeDropsReservedKeysInFreshSubtree(t *testing.T) {
	// The base has no "a" map, so the patch subtree is taken as-is; the
	// reserved keys must still be stripped from it at every depth.
	out := Merge(map[string]any{}, map[string]any{
		"a": map[string]any{
			"__proto__": map[string]any{"polluted": true},
			"deep":      map[string]any{"prototype": 1, "ok": 2},
		},
	})
	inner := out["a"].(map[string]any)
	assert.NotContains(t, inner, "__proto__")
	deep := inner["deep"].(map[string]any)
	assert.NotContains(t, deep, "prototype")
	assert.Equal(t, 2, deep["ok"])
}

func TestMergeDoesNotMutateInputs(t *testing.T) {
	base := map[string]any{"a": map[string]any{"b": 1}}
	patch := map[string]any{"a": map[string]any{"c": 2}}

	_ = Merge(base, patch)
	assert.NotContains(t, base["a"].(map[string]any), "c")
	assert.NotContains(t, patch["a"].(map[string]any), "b")
}
