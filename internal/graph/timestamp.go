package graph

import (
	"encoding/json"
	"sort"
	"strings"
	"time"
)

// Fallback timestamp mining. Runs only when a graph's authoritative savedAt
// is missing: a two-phase depth-first search over the graph's metadata and
// any root-node snapshots recovers a best-effort save time from loosely
// structured keys.

var saveLikeKeyParts = []string{"save", "updat", "creat", "modif"}

var dateLikeKeyParts = []string{"publish", "date"}

// ResolveFallbackSavedAt mines a best-effort savedAt from metadata and the
// root-node snapshots. Phase one returns the first parseable value under a
// save/update/create-like key; phase two collects every parseable value
// under a published/date-like key and returns the most recent. The boolean
// reports whether anything was found.
func ResolveFallbackSavedAt(metadata Properties, rootNodes []Properties) (time.Time, bool) {
	roots := make([]map[string]any, 0, len(rootNodes)+1)
	if metadata != nil {
		roots = append(roots, metadata)
	}
	for _, rn := range rootNodes {
		if rn != nil {
			roots = append(roots, rn)
		}
	}

	for _, root := range roots {
		if ts, ok := firstTimeUnder(root, saveLikeKeyParts); ok {
			return ts, true
		}
	}

	var latest time.Time
	found := false
	for _, root := range roots {
		collectTimesUnder(root, dateLikeKeyParts, func(ts time.Time) {
			if !found || ts.After(latest) {
				latest = ts
				found = true
			}
		})
	}
	return latest, found
}

func keyMatches(key string, parts []string) bool {
	lower := strings.ToLower(key)
	for _, p := range parts {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// firstTimeUnder depth-first searches m for a matching key whose value
// parses as a time. Map keys are visited in sorted order so the result is
// deterministic.
func firstTimeUnder(m map[string]any, keyParts []string) (time.Time, bool) {
	keys := sortedKeys(m)
	for _, k := range keys {
		v := m[k]
		if keyMatches(k, keyParts) {
			if ts, ok := parseAnyTime(v); ok {
				return ts, true
			}
		}
		if child, ok := v.(map[string]any); ok {
			if ts, ok := firstTimeUnder(child, keyParts); ok {
				return ts, true
			}
		}
		if arr, ok := v.([]any); ok {
			for _, el := range arr {
				if child, ok := el.(map[string]any); ok {
					if ts, ok := firstTimeUnder(child, keyParts); ok {
						return ts, true
					}
				}
			}
		}
	}
	return time.Time{}, false
}

func collectTimesUnder(m map[string]any, keyParts []string, emit func(time.Time)) {
	for _, k := range sortedKeys(m) {
		v := m[k]
		if keyMatches(k, keyParts) {
			if ts, ok := parseAnyTime(v); ok {
				emit(ts)
			}
			if arr, ok := v.([]any); ok {
				for _, el := range arr {
					if ts, ok := parseAnyTime(el); ok {
						emit(ts)
					}
				}
			}
		}
		if child, ok := v.(map[string]any); ok {
			collectTimesUnder(child, keyParts, emit)
		}
		if arr, ok := v.([]any); ok {
			for _, el := range arr {
				if child, ok := el.(map[string]any); ok {
					collectTimesUnder(child, keyParts, emit)
				}
			}
		}
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// parseAnyTime permissively parses a loosely typed timestamp value: native
// times, 13-digit epoch milliseconds, 10-digit epoch seconds, 8-digit
// YYYYMMDD, ISO strings, and space-separated date/times (space normalized
// to the ISO 'T' separator). Arrays are handled by the callers.
func parseAnyTime(v any) (time.Time, bool) {
	switch val := v.(type) {
	case time.Time:
		return val, true
	case json.Number:
		if n, err := val.Int64(); err == nil {
			return epochTime(n)
		}
		return time.Time{}, false
	case float64:
		return epochTime(int64(val))
	case int64:
		return epochTime(val)
	case int:
		return epochTime(int64(val))
	case string:
		return parseTimeString(strings.TrimSpace(val))
	default:
		return time.Time{}, false
	}
}

func epochTime(n int64) (time.Time, bool) {
	switch {
	case n >= 1e12 && n < 1e14: // 13-digit epoch milliseconds
		return time.UnixMilli(n).UTC(), true
	case n >= 1e9 && n < 1e11: // 10-digit epoch seconds
		return time.Unix(n, 0).UTC(), true
	}
	return time.Time{}, false
}

var isoLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000Z",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
	"2006/01/02",
}

func parseTimeString(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if isAllDigits(s) {
		switch len(s) {
		case 13, 10:
			var n int64
			for _, c := range s {
				n = n*10 + int64(c-'0')
			}
			return epochTime(n)
		case 8: // YYYYMMDD
			if ts, err := time.ParseInLocation("20060102", s, time.UTC); err == nil {
				return ts, true
			}
			return time.Time{}, false
		default:
			return time.Time{}, false
		}
	}

	// Loosely formatted date/times use a space between date and time;
	// normalize to the ISO 'T' separator before trying the ISO layouts.
	normalized := s
	if i := strings.IndexByte(normalized, ' '); i > 0 {
		normalized = normalized[:i] + "T" + strings.ReplaceAll(normalized[i+1:], " ", "")
	}
	for _, layout := range isoLayouts {
		if ts, err := time.ParseInLocation(layout, normalized, time.UTC); err == nil {
			return ts.UTC(), true
		}
	}
	return time.Time{}, false
}

func isAllDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(s) > 0
}
