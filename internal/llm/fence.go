package llm

import "strings"

// StripFence removes an optional markdown code fence, with or without a
// language tag, from a model response. Unfenced input is returned trimmed
// and unchanged, so the function is total and idempotent.
func StripFence(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	parts := strings.SplitN(trimmed[3:], "```", 2)
	inner := parts[0]

	// Drop a bare language tag occupying the first line, e.g. "json".
	if nl := strings.IndexByte(inner, '\n'); nl >= 0 {
		tag := strings.TrimSpace(inner[:nl])
		if tag == "" || !strings.ContainsAny(tag, " \t{}[]\"") {
			inner = inner[nl+1:]
		}
	}
	return strings.TrimSpace(inner)
}
