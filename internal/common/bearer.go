package common

import "strings"

// StripBearer removes a leading bearer-scheme prefix, if present.
func StripBearer(token string) string {
	return strings.TrimPrefix(strings.TrimSpace(token), BearerPrefix)
}

// SegmentCount returns the number of dot-delimited segments in token.
// An empty token has zero segments.
func SegmentCount(token string) int {
	if token == "" {
		return 0
	}
	return strings.Count(token, ".") + 1
}

// HasTokenShape reports whether token looks like a three-segment signed token.
func HasTokenShape(token string) bool {
	return SegmentCount(token) == 3
}
