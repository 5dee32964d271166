package text

import (
	"slices"

	"howett.net/plist"

	"github.com/matzehuels/curvesvg/pkg/errors"
)

const (
	// maxArchiveDepth bounds UID chasing in hostile keyed archives.
	maxArchiveDepth = 64
	// maxArchiveNodes bounds the total number of values expanded.
	maxArchiveNodes = 100000
)

// unarchive expands a keyed archive into a plain tree: UIDs are replaced by
// the objects they name, NS.keys/NS.objects pairs become maps and
// NS.objects arrays become slices. Class records are dropped.
func unarchive(top map[string]any) (any, error) {
	objects, ok := top["$objects"].([]any)
	if !ok {
		return nil, errors.New(errors.ErrCodeStyleDecode, "keyed archive without object table")
	}
	var root any
	if t, ok := top["$top"].(map[string]any); ok {
		root = t["root"]
		if root == nil {
			for _, k := range sortedKeys(t) {
				root = t[k]
				break
			}
		}
	}
	if root == nil {
		return nil, errors.New(errors.ErrCodeStyleDecode, "keyed archive without root object")
	}
	u := unarchiver{objects: objects, active: make(map[plist.UID]bool)}
	out := u.expand(root, 0)
	if u.nodes > maxArchiveNodes {
		return nil, errors.New(errors.ErrCodeStyleDecode, "keyed archive expands to more than %d values", maxArchiveNodes)
	}
	return out, nil
}

// unarchiver copies object table entries into a tree. A UID met while its
// own expansion is in progress resolves to nil, and expansion stops once
// maxArchiveNodes values have been produced.
type unarchiver struct {
	objects []any
	active  map[plist.UID]bool
	nodes   int
}

func (u *unarchiver) expand(v any, depth int) any {
	u.nodes++
	if depth > maxArchiveDepth || u.nodes > maxArchiveNodes {
		return nil
	}
	switch x := v.(type) {
	case plist.UID:
		if uint64(x) >= uint64(len(u.objects)) || u.active[x] {
			return nil
		}
		obj := u.objects[x]
		if s, ok := obj.(string); ok && s == "$null" {
			return nil
		}
		u.active[x] = true
		out := u.expand(obj, depth+1)
		delete(u.active, x)
		return out
	case []any:
		out := make([]any, 0, len(x))
		for _, e := range x {
			out = append(out, u.expand(e, depth+1))
		}
		return out
	case map[string]any:
		if keys, ok := x["NS.keys"].([]any); ok {
			vals, _ := x["NS.objects"].([]any)
			out := make(map[string]any, len(keys))
			for i, k := range keys {
				name, ok := u.expand(k, depth+1).(string)
				if !ok || i >= len(vals) {
					continue
				}
				out[name] = u.expand(vals[i], depth+1)
			}
			return out
		}
		if vals, ok := x["NS.objects"].([]any); ok {
			return u.expand(vals, depth+1)
		}
		out := make(map[string]any, len(x))
		for k, e := range x {
			if k == "$class" || k == "$classes" || k == "$classname" {
				continue
			}
			out[k] = u.expand(e, depth+1)
		}
		return out
	}
	return v
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
