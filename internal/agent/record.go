// Package agent holds the schema-flexible agent record and the two pure
// functions that read it: Canonicalize (text for lexical search) and
// ResolveURL (the endpoint an interview talks to).
//
// Catalog records come from many publishers and agree on almost nothing, so
// every read goes through the accessors in this file. They never panic: a
// missing key and a key holding the wrong type are both reported as absent.
package agent

import (
	"encoding/json"
	"strconv"
)

// Record is one agent descriptor as decoded from the catalog.
type Record map[string]any

// ID returns the record's "id" field as text, or "" when absent.
func (r Record) ID() string {
	s, _ := textOf(r.lookup("id"))
	return s
}

// DisplayName returns the first non-empty of name, agent_name, label, id.
func (r Record) DisplayName() string {
	return r.firstText("name", "agent_name", "label", "id")
}

func (r Record) lookup(key string) any {
	if r == nil {
		return nil
	}
	return r[key]
}

// firstText returns the first key whose value coerces to non-empty text.
func (r Record) firstText(keys ...string) string {
	for _, k := range keys {
		if s, ok := textOf(r.lookup(k)); ok && s != "" {
			return s
		}
	}
	return ""
}

// asMap returns v as a mapping. YAML decoders may produce map[any]any, which
// is accepted when every key is a string.
func asMap(v any) map[string]any {
	switch m := v.(type) {
	case map[string]any:
		return m
	case Record:
		return m
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			ks, ok := k.(string)
			if !ok {
				return nil
			}
			out[ks] = val
		}
		return out
	}
	return nil
}

// asList returns v as a list, or nil when v is not a list.
func asList(v any) []any {
	switch l := v.(type) {
	case []any:
		return l
	case []string:
		out := make([]any, len(l))
		for i, s := range l {
			out[i] = s
		}
		return out
	}
	return nil
}

// path walks nested mappings; any non-mapping step yields nil.
func path(v any, keys ...string) any {
	for _, k := range keys {
		m := asMap(v)
		if m == nil {
			return nil
		}
		v = m[k]
	}
	return v
}

// textOf coerces scalars to text. The second result is false for nil,
// mappings, lists and other non-scalar values.
func textOf(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case json.Number:
		return x.String(), true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32), true
	case int:
		return strconv.Itoa(x), true
	case int64:
		return strconv.FormatInt(x, 10), true
	case int32:
		return strconv.FormatInt(int64(x), 10), true
	case uint64:
		return strconv.FormatUint(x, 10), true
	case uint:
		return strconv.FormatUint(uint64(x), 10), true
	case bool:
		// Capitalized to match how catalog tooling prints booleans.
		if x {
			return "True", true
		}
		return "False", true
	}
	return "", false
}

// truthyText is textOf restricted to values that carry content: empty strings
// are absent, as are false and numeric zero.
func truthyText(v any) (string, bool) {
	s, ok := textOf(v)
	if !ok || s == "" || v == false {
		return "", false
	}
	if _, isStr := v.(string); !isStr {
		if f, err := strconv.ParseFloat(s, 64); err == nil && f == 0 {
			return "", false
		}
	}
	return s, true
}
