// Package redact masks credential-shaped substrings before text is logged,
// stored in a transcript or written to the audit sink.
package redact

import "regexp"

// Placeholder replaces the masked token.
const Placeholder = "[REDACTED]"

var patterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(password)\s+\S+`),
	regexp.MustCompile(`(?i)(secret)\s+\S+`),
	regexp.MustCompile(`(?i)(community)\s+\S+`),
	regexp.MustCompile(`(?i)(token)\s+\S+`),
	regexp.MustCompile(`(?i)(key)\s+\S+`),
}

// Sensitive replaces the token following each credential keyword with
// Placeholder. The keyword itself is kept.
//
//	snmp-server community public RO  ->  snmp-server community [REDACTED] RO
func Sensitive(text string) string {
	for _, re := range patterns {
		text = re.ReplaceAllString(text, "${1} "+Placeholder)
	}
	return text
}

// Record returns a copy of rec with every string value passed through
// Sensitive. Nested maps and string slices are redacted as well; other
// values are copied as is.
func Record(rec map[string]any) map[string]any {
	if rec == nil {
		return nil
	}
	out := make(map[string]any, len(rec))
	for k, v := range rec {
		out[k] = value(v)
	}
	return out
}

// Strings redacts each element of in.
func Strings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = Sensitive(s)
	}
	return out
}

func value(v any) any {
	switch t := v.(type) {
	case string:
		return Sensitive(t)
	case []string:
		return Strings(t)
	case map[string]any:
		return Record(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = value(e)
		}
		return out
	default:
		return v
	}
}
