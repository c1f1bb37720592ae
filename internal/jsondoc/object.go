package jsondoc

import (
	"encoding/json"

	"github.com/thoreinstein/mcpconf/internal/errors"
)

// ErrNotObject is returned when a key expected to hold an object holds
// something else.
var ErrNotObject = errors.New("value is not an object")

// Object returns parent[key] as an object, creating an empty one when the
// key is absent. created reports whether the key was added.
func Object(parent map[string]any, key string) (obj map[string]any, created bool, err error) {
	v, ok := parent[key]
	if !ok || v == nil {
		obj = map[string]any{}
		parent[key] = obj
		return obj, true, nil
	}
	obj, ok = v.(map[string]any)
	if !ok {
		return nil, false, errors.Wrapf(ErrNotObject, "%q holds %s", key, kindOf(v))
	}
	return obj, false, nil
}

// Clone deep-copies a decoded JSON value.
func Clone(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = Clone(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = Clone(item)
		}
		return out
	case []string:
		return append([]string(nil), val...)
	case map[string]string:
		out := make(map[string]string, len(val))
		for k, item := range val {
			out[k] = item
		}
		return out
	default:
		return val
	}
}

// Kind names the JSON type of a decoded value.
func Kind(v any) string {
	return kindOf(v)
}

// Equal reports whether a and b encode to the same JSON value.
func Equal(a, b any) bool {
	ab, errA := json.Marshal(a)
	bb, errB := json.Marshal(b)
	return errA == nil && errB == nil && string(ab) == string(bb)
}
