package agent

import "strings"

// skillListKeys are the per-skill list fields folded into the tag bag.
var skillListKeys = []string{"inputModes", "outputModes", "supportedLanguages"}

// Canonicalize returns the text document used to index r. The document has
// four newline-separated segments: display name, description, a space-joined
// tag bag and a space-joined list of numeric hints. The output depends only on
// the record's values, never on map iteration order.
func Canonicalize(r Record) string {
	name := r.DisplayName()
	desc, _ := textOf(r.lookup("description"))

	parts := []string{
		name,
		desc,
		strings.Join(tags(r), " "),
		strings.Join(numericHints(r), " "),
	}
	return strings.TrimSpace(strings.Join(parts, "\n"))
}

func tags(r Record) []string {
	var out []string

	for _, s := range asList(r.lookup("skills")) {
		if str, ok := s.(string); ok {
			out = append(out, str)
			continue
		}
		skill := asMap(s)
		if skill == nil {
			continue
		}
		if id, ok := truthyText(skill["id"]); ok {
			out = append(out, id)
		}
		if d, ok := truthyText(skill["description"]); ok {
			out = append(out, d)
		}
		for _, k := range skillListKeys {
			out = appendTexts(out, asList(skill[k]))
		}
	}

	out = appendTexts(out, asList(path(r.lookup("capabilities"), "modalities")))

	if p, ok := truthyText(path(r.lookup("provider"), "name")); ok {
		out = append(out, p)
	}
	if j, ok := truthyText(r.lookup("jurisdiction")); ok {
		out = append(out, j)
	}
	return out
}

// numericHints collects evaluation and telemetry figures. Absent values are
// skipped; zero is a real measurement and is kept.
func numericHints(r Record) []string {
	metrics := path(r.lookup("telemetry"), "metrics")
	values := []any{
		path(r.lookup("evaluations"), "performanceScore"),
		path(metrics, "latency_p95_ms"),
		path(metrics, "throughput_rps"),
		path(metrics, "availability"),
	}
	var out []string
	for _, v := range values {
		if s, ok := textOf(v); ok {
			out = append(out, s)
		}
	}
	return out
}

func appendTexts(dst []string, items []any) []string {
	for _, it := range items {
		if s, ok := textOf(it); ok {
			dst = append(dst, s)
		}
	}
	return dst
}
