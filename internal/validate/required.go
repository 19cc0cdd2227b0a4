// Package validate checks that required content is present before a
// section or record is sent to the backend.
package validate

import (
	"encoding/json"
	"reflect"
)

// Required walks v and reports whether nothing in it is missing. An empty
// string, an empty list, a nil value or a nested object or list element
// that fails makes the whole value fail. Booleans and numbers always pass,
// so zero and false count as present.
//
// Structs are inspected through their JSON form.
func Required(v any) bool {
	return required(normalize(v))
}

func required(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case bool, float64, json.Number:
		return true
	case []any:
		if len(t) == 0 {
			return false
		}
		for _, e := range t {
			if !required(e) {
				return false
			}
		}
		return true
	case map[string]any:
		for _, e := range t {
			if !required(e) {
				return false
			}
		}
		return true
	}
	return true
}

// normalize turns arbitrary Go values into the generic JSON shape
// (map[string]any, []any, string, float64, bool, nil).
func normalize(v any) any {
	switch t := v.(type) {
	case nil, string, bool, float64:
		return v
	case map[string]any:
		return normalizeMap(t)
	case []any:
		return normalizeSlice(t)
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32:
		return float64(0)
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil
		}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil
	}
	return out
}

func normalizeMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, e := range m {
		out[k] = normalize(e)
	}
	return out
}

func normalizeSlice(s []any) []any {
	out := make([]any, len(s))
	for i, e := range s {
		out[i] = normalize(e)
	}
	return out
}
