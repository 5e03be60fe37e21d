// Package config holds the key/value model shared by the config stores.
//
// Keys use dot notation: the TOML table [ranking] with key title_weight is
// addressed as "ranking.title_weight".
package config

import (
	"sort"
	"strconv"
	"strings"
)

// Values is a flat set of configuration values keyed by dot notation.
// Numbers may arrive as int, int64 (TOML) or float64 (JSON), and every
// accessor coerces between them.
type Values map[string]any

// String returns the value at key when it is a string.
func (v Values) String(key string) string {
	s, _ := v[key].(string)
	return s
}

// Int returns the value at key as an int. Numeric strings are parsed so
// that values set from flags or the environment read back as numbers.
func (v Values) Int(key string) int {
	switch n := v[key].(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	case string:
		i, _ := strconv.Atoi(strings.TrimSpace(n))
		return i
	}
	return 0
}

// Float returns the value at key as a float64.
func (v Values) Float(key string) float64 {
	switch n := v[key].(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case string:
		f, _ := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f
	}
	return 0
}

// StringSlice returns the value at key as a list. A plain string is read
// as a comma separated list, which is how list values arrive from the
// environment.
func (v Values) StringSlice(key string) []string {
	switch list := v[key].(type) {
	case []string:
		return list
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		var out []string
		for _, s := range strings.Split(list, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// Flatten converts nested tables into dot-notation keys, so
// {"ranking": {"content_cap": 3}} becomes {"ranking.content_cap": 3}.
func Flatten(tables map[string]any) Values {
	out := make(Values)
	flattenInto(out, tables, "")
	return out
}

func flattenInto(out Values, tables map[string]any, prefix string) {
	for key, value := range tables {
		if prefix != "" {
			key = prefix + "." + key
		}
		if nested, ok := value.(map[string]any); ok {
			flattenInto(out, nested, key)
			continue
		}
		out[key] = value
	}
}

// Tables is the inverse of Flatten. A key that is both a value and the
// prefix of a table keeps the value.
func (v Values) Tables() map[string]any {
	keys := make([]string, 0, len(v))
	for key := range v {
		keys = append(keys, key)
	}
	// A prefix sorts before its longer keys, so values are placed first.
	sort.Strings(keys)

	root := make(map[string]any)
	for _, key := range keys {
		value := v[key]
		parts := strings.Split(key, ".")
		table, ok := tableFor(root, parts[:len(parts)-1])
		if !ok {
			continue
		}
		leaf := parts[len(parts)-1]
		if _, isTable := table[leaf].(map[string]any); !isTable {
			table[leaf] = value
		}
	}
	return root
}

// tableFor walks path below root, creating tables as needed. It reports
// false when a value already occupies part of the path.
func tableFor(root map[string]any, path []string) (map[string]any, bool) {
	table := root
	for _, part := range path {
		switch child := table[part].(type) {
		case nil:
			next := make(map[string]any)
			table[part] = next
			table = next
		case map[string]any:
			table = child
		default:
			return nil, false
		}
	}
	return table, true
}

// Clone returns a shallow copy of v.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}
