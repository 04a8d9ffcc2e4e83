// Package doctree manipulates the gateway configuration document: an
// arbitrary nested map in which warden owns exactly one sub-path and must
// leave every other key untouched.
package doctree

// Keys that a JSON patch could smuggle in to pollute object prototypes when
// the document is later consumed by a JS runtime. Never merged.
var reservedKeys = map[string]struct{}{
	"__proto__":   {},
	"constructor": {},
	"prototype":   {},
}

// Lookup walks path through nested maps and returns the map at the end.
// Returns false if any step is absent or not a map. Never mutates doc.
func Lookup(doc map[string]any, path ...string) (map[string]any, bool) {
	cur := doc
	for _, k := range path {
		next, ok := cur[k].(map[string]any)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// Put returns a new document equal to doc except that path now holds value.
// Ancestors along the path are shallow-copied (or created), so siblings of
// every ancestor are structurally shared with the input.
func Put(doc map[string]any, value any, path ...string) map[string]any {
	out := shallowCopy(doc)
	cur := out
	for _, k := range path[:len(path)-1] {
		next, ok := cur[k].(map[string]any)
		if ok {
			next = shallowCopy(next)
		} else {
			next = map[string]any{}
		}
		cur[k] = next
		cur = next
	}
	cur[path[len(path)-1]] = value
	return out
}

// Clone deep-copies a document. Maps and slices are copied, scalars shared.
func Clone(doc map[string]any) map[string]any {
	if doc == nil {
		return map[string]any{}
	}
	out := make(map[string]any, len(doc))
	for k, v := range doc {
		out[k] = cloneValue(v)
	}
	return out
}

// Merge deep-merges patch over base into a fresh document. At every key
// where both sides hold a non-array object the merge recurses; any other
// patch value replaces the base value outright (arrays are replaced whole,
// never spliced). Reserved prototype keys in the patch are dropped at every
// depth. Neither input is mutated.
func Merge(base, patch map[string]any) map[string]any {
	out := Clone(base)
	for k, v := range patch {
		if _, bad := reservedKeys[k]; bad {
			continue
		}
		pm, patchIsMap := v.(map[string]any)
		bm, baseIsMap := out[k].(map[string]any)
		switch {
		case patchIsMap && baseIsMap:
			out[k] = Merge(bm, pm)
		case patchIsMap:
			out[k] = sanitize(pm)
		default:
			out[k] = cloneValue(v)
		}
	}
	return out
}

func shallowCopy(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return Clone(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}

// sanitize deep-copies the patch, dropping reserved keys at every level.
func sanitize(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if _, bad := reservedKeys[k]; bad {
			continue
		}
		if sub, ok := v.(map[string]any); ok {
			out[k] = sanitize(sub)
			continue
		}
		out[k] = cloneValue(v)
	}
	return out
}
