// Package extractor provides safe nested-path lookup over loosely-structured
// product records. Catalogs nest the same concept under different keys, so
// callers probe a prioritized list of known paths and take the first hit.
// A missing segment or a non-mapping value along the way means "absent",
// never an error.
package extractor

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Extractor handles extracting values from nested record data
type Extractor struct{}

// New creates a new Extractor
func New() *Extractor {
	return &Extractor{}
}

// Extract resolves a dot-notation path against nested data.
// Supported syntax:
// - Simple path: "brand", "basic_info.name", "pricing.current_price"
// - Array access: "highlights[0]", "specifications.images[2]"
// Returns nil when any segment is missing or not traversable.
func (e *Extractor) Extract(data any, path string) any {
	if path == "" {
		return data
	}

	current := data
	for _, part := range parsePath(path) {
		current = extractPart(current, part)
		if current == nil {
			return nil
		}
	}

	return current
}

// ExtractString resolves a path and renders the value as a string.
// Returns "" when the path is absent.
func (e *Extractor) ExtractString(data any, path string) string {
	value := e.Extract(data, path)
	if value == nil {
		return ""
	}
	return toString(value)
}

// First probes paths in priority order and returns the first present value
func (e *Extractor) First(data any, paths []string) any {
	for _, path := range paths {
		if value := e.Extract(data, path); value != nil {
			return value
		}
	}
	return nil
}

// FirstString probes paths in priority order and returns the first non-empty
// string rendering of a value
func (e *Extractor) FirstString(data any, paths []string) string {
	for _, path := range paths {
		value := e.Extract(data, path)
		if value == nil {
			continue
		}
		if s := strings.TrimSpace(toString(value)); s != "" {
			return s
		}
	}
	return ""
}

// FirstNumber probes paths in priority order and returns the first value that
// parses as a number
func (e *Extractor) FirstNumber(data any, paths []string) (float64, bool) {
	for _, path := range paths {
		value := e.Extract(data, path)
		if value == nil {
			continue
		}
		if f, ok := toNumber(value); ok {
			return f, true
		}
	}
	return 0, false
}

// CollectStrings gathers string renderings from every present path,
// expanding list values into their elements. Order follows path priority.
func (e *Extractor) CollectStrings(data any, paths []string) []string {
	var out []string
	for _, path := range paths {
		value := e.Extract(data, path)
		if value == nil {
			continue
		}
		if arr, ok := toArray(value); ok {
			for _, item := range arr {
				if s := strings.TrimSpace(toString(item)); s != "" {
					out = append(out, s)
				}
			}
			continue
		}
		if s := strings.TrimSpace(toString(value)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// pathPart represents a parsed path segment
type pathPart struct {
	key        string
	isArray    bool
	arrayIndex int
}

// parsePath parses a dot-notation expression into parts
func parsePath(path string) []pathPart {
	var parts []pathPart

	for _, seg := range strings.Split(path, ".") {
		part := pathPart{key: seg}

		if idx := strings.Index(seg, "["); idx != -1 && strings.HasSuffix(seg, "]") {
			part.key = seg[:idx]
			indexPart := seg[idx+1 : len(seg)-1]

			i, err := strconv.Atoi(indexPart)
			if err == nil {
				part.isArray = true
				part.arrayIndex = i
			}
		}

		parts = append(parts, part)
	}

	return parts
}

// extractPart resolves a single path part, returning nil for anything that
// cannot be traversed
func extractPart(data any, part pathPart) any {
	var value any = data

	if part.key != "" {
		switch v := data.(type) {
		case map[string]any:
			val, ok := v[part.key]
			if !ok {
				return nil
			}
			value = val
		case map[string]string:
			val, ok := v[part.key]
			if !ok {
				return nil
			}
			value = val
		default:
			return nil
		}
	}

	if part.isArray {
		arr, ok := toArray(value)
		if !ok {
			return nil
		}
		if part.arrayIndex < 0 || part.arrayIndex >= len(arr) {
			return nil
		}
		return arr[part.arrayIndex]
	}

	return value
}

// toArray converts a value to an array
func toArray(v any) ([]any, bool) {
	switch arr := v.(type) {
	case []any:
		return arr, true
	case []string:
		result := make([]any, len(arr))
		for i, s := range arr {
			result[i] = s
		}
		return result, true
	case []map[string]any:
		result := make([]any, len(arr))
		for i, m := range arr {
			result[i] = m
		}
		return result, true
	default:
		return nil, false
	}
}

// toString converts any scalar value to a string
func toString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		return strconv.FormatBool(val)
	case nil:
		return ""
	default:
		// For composite types, JSON encode
		b, _ := json.Marshal(v)
		return string(b)
	}
}

// toNumber coerces a value into a float64 where possible
func toNumber(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case json.Number:
		f, err := val.Float64()
		return f, err == nil
	case string:
		s := strings.TrimSpace(strings.ReplaceAll(val, ",", ""))
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// FromJSON parses JSON data and returns it as a map
func FromJSON(data json.RawMessage) (map[string]any, error) {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}
