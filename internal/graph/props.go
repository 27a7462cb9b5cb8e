package graph

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

// SanitizeProperties converts an arbitrary property bag into values the
// store's column model can hold: null, booleans, numbers, strings, and
// arrays whose elements are all of those. Anything else (objects, maps,
// nested or mixed arrays) is JSON-encoded to a string. Lossy at the store's
// type level, lossless at the application level via DecodeProperties.
func SanitizeProperties(props Properties) Properties {
	out := make(Properties, len(props))
	for k, v := range props {
		out[k] = sanitizeValue(v)
	}
	return out
}

// SanitizeValue converts a single value to its store-safe form using the
// same rules as SanitizeProperties. Used for graph-level metadata, which is
// stored under one property.
func SanitizeValue(v any) any {
	if m, ok := v.(map[string]any); ok && m == nil {
		return nil
	}
	return sanitizeValue(v)
}

// DecodeValue reverses SanitizeValue for a single value.
func DecodeValue(v any) any {
	return decodeValue(v)
}

func sanitizeValue(v any) any {
	if v == nil || isStorePrimitive(v) {
		return v
	}
	if isPrimitiveSlice(v) {
		return v
	}
	data, err := json.Marshal(v)
	if err != nil {
		// Unmarshalable values (channels, funcs) degrade to their
		// string rendering rather than failing the save.
		return fmt.Sprint(v)
	}
	return string(data)
}

func isStorePrimitive(v any) bool {
	switch v.(type) {
	case bool, string, json.Number,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return true
	}
	return false
}

func isPrimitiveSlice(v any) bool {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return false
	}
	for i := 0; i < rv.Len(); i++ {
		el := rv.Index(i).Interface()
		if el == nil {
			continue
		}
		if !isStorePrimitive(el) {
			return false
		}
	}
	return true
}

// DecodeProperties reverses SanitizeProperties. String values that look like
// encoded JSON (leading '{' or '[') are parsed and the result re-decoded, so
// double-encoded payloads unwrap fully. Strings that fail to parse are kept
// verbatim; decoding never fails.
func DecodeProperties(props Properties) Properties {
	out := make(Properties, len(props))
	for k, v := range props {
		out[k] = decodeValue(v)
	}
	return out
}

func decodeValue(v any) any {
	switch val := v.(type) {
	case string:
		trimmed := strings.TrimSpace(val)
		if !strings.HasPrefix(trimmed, "{") && !strings.HasPrefix(trimmed, "[") {
			return val
		}
		var parsed any
		if err := json.Unmarshal([]byte(trimmed), &parsed); err != nil {
			return val
		}
		return decodeValue(parsed)
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = decodeValue(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = decodeValue(item)
		}
		return out
	default:
		return v
	}
}
