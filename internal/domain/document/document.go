// Package document models the schema-less records the service stores: a
// handful of known fields plus whatever else the caller sent.
package document

import (
	"maps"
	"reflect"
	"sort"
)

// Document is an untyped JSON object.
type Document map[string]any

// Present reports whether key holds a meaningful value. Missing keys, null,
// "", false, numeric zero and empty arrays or objects are all absent.
func (d Document) Present(key string) bool {
	v, ok := d[key]
	if !ok || v == nil {
		return false
	}
	switch t := v.(type) {
	case string:
		return t != ""
	case bool:
		return t
	case float64:
		return t != 0
	case int:
		return t != 0
	case int32:
		return t != 0
	case int64:
		return t != 0
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	case Document:
		return len(t) > 0
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() > 0
	}
	return !rv.IsZero()
}

// Missing returns the keys that are not Present, in the order given.
func (d Document) Missing(keys ...string) []string {
	var missing []string
	for _, k := range keys {
		if !d.Present(k) {
			missing = append(missing, k)
		}
	}
	return missing
}

// String returns the value under key when it is a non-empty string.
func (d Document) String(key string) (string, bool) {
	s, ok := d[key].(string)
	return s, ok && s != ""
}

// Without returns a shallow copy of d minus the given keys.
func (d Document) Without(keys ...string) Document {
	out := d.Clone()
	for _, k := range keys {
		delete(out, k)
	}
	return out
}

// Clone is a shallow copy; a nil Document clones to an empty one.
func (d Document) Clone() Document {
	out := make(Document, len(d))
	maps.Copy(out, d)
	return out
}

// Merge returns a copy of d with every entry of other written over it.
func (d Document) Merge(other Document) Document {
	out := d.Clone()
	maps.Copy(out, other)
	return out
}

// Keys returns the keys in sorted order.
func (d Document) Keys() []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
