// Package util holds small shared helpers with no domain dependencies.
package util

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ExtractJSON strips markdown code fences a generation model may wrap around
// a JSON payload and returns the trimmed inner text.
func ExtractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

// CoerceString renders a loosely typed JSON value as a trimmed string.
func CoerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case fmt.Stringer:
		return strings.TrimSpace(val.String())
	default:
		if v == nil {
			return ""
		}
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return strings.Trim(string(b), `"`)
	}
}

// CoerceFloat renders a loosely typed JSON value as a float64, 0 when absent
// or unparseable. Models answer "5", 5, and "5 years" interchangeably.
func CoerceFloat(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case int:
		return float64(val)
	case string:
		trimmed := strings.TrimSpace(val)
		if trimmed == "" {
			return 0
		}
		if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return f
		}
		// tolerate a trailing unit, e.g. "5 years"
		if fields := strings.Fields(trimmed); len(fields) > 0 {
			if f, err := strconv.ParseFloat(fields[0], 64); err == nil {
				return f
			}
		}
		return 0
	default:
		return 0
	}
}

// CoerceStringSlice renders a loosely typed JSON value as a slice of trimmed,
// non-empty strings. Accepts arrays and comma-delimited strings.
func CoerceStringSlice(v any) []string {
	var out []string
	appendClean := func(s string) {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}

	switch val := v.(type) {
	case []any:
		for _, item := range val {
			appendClean(CoerceString(item))
		}
	case []string:
		for _, item := range val {
			appendClean(item)
		}
	case string:
		for _, item := range strings.Split(val, ",") {
			appendClean(item)
		}
	}
	return out
}

// TruncateWords caps text at n words, appending an ellipsis when cut.
func TruncateWords(text string, n int) string {
	if n <= 0 {
		return ""
	}
	words := strings.Fields(text)
	if len(words) <= n {
		return strings.TrimSpace(text)
	}
	return strings.Join(words[:n], " ") + "…"
}
