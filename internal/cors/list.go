package cors

import "strings"

// ParseList parses a comma-separated method or header list. A bare wildcard
// is returned as is; other tokens are trimmed and kept without validation.
func ParseList(raw string) []string {
	if raw == Wildcard {
		return []string{Wildcard}
	}
	return splitTrimmed(raw)
}

// splitTrimmed splits on commas, trims each piece and drops empty ones.
func splitTrimmed(raw string) []string {
	out := make([]string, 0)
	for _, piece := range strings.Split(raw, ",") {
		if piece = strings.TrimSpace(piece); piece != "" {
			out = append(out, piece)
		}
	}
	return out
}
