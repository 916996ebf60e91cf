package executor

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// args wraps decoded tool-call arguments. Models are loose with types, so
// numbers may arrive as strings and lists as comma-separated text.
type args map[string]any

func (a args) has(key string) bool {
	v, ok := a[key]
	return ok && v != nil
}

func (a args) str(key string) string {
	switch v := a[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	case int:
		return strconv.Itoa(v)
	}
	return ""
}

func (a args) num(key string) (float64, bool) {
	switch v := a[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	}
	return 0, false
}

func (a args) numOr(key string, def float64) float64 {
	if v, ok := a.num(key); ok {
		return v
	}
	return def
}

// positive returns the value at key when it is > 0, else def.
func (a args) positive(key string, def float64) float64 {
	if v, ok := a.num(key); ok && v > 0 {
		return v
	}
	return def
}

func (a args) intOr(key string, def int) int {
	v, ok := a.num(key)
	if !ok || math.IsNaN(v) {
		return def
	}
	return int(math.Max(math.MinInt32, math.Min(v, math.MaxInt32)))
}

func (a args) boolOr(key string, def bool) bool {
	switch v := a[key].(type) {
	case bool:
		return v
	case string:
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

// strs reads a list of strings from a JSON array or a comma-separated string.
func (a args) strs(key string) []string {
	var out []string
	switch v := a[key].(type) {
	case []any:
		for _, item := range v {
			switch s := item.(type) {
			case string:
				if s = strings.TrimSpace(s); s != "" {
					out = append(out, s)
				}
			case map[string]any:
				if t, ok := s["text"].(string); ok && t != "" {
					out = append(out, t)
				}
			}
		}
	case []string:
		for _, s := range v {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	case string:
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

// point reads x and y; ok is false unless both are present.
func (a args) point() (x, y float64, ok bool) {
	x, okX := a.num("x")
	y, okY := a.num("y")
	return x, y, okX && okY
}

// ids collects objectIds plus a single objectId, deduplicated in order.
func (a args) ids() []string {
	seen := map[string]bool{}
	var out []string
	for _, id := range append(a.strs("objectIds"), a.str("objectId")) {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
