package lookup

import "strings"

// Normalize canonicalizes raw input for comparison and dispatch. Every '*'
// is removed before surrounding whitespace is trimmed, so "* ann" and "ann"
// normalize the same. The result is lowercased.
func Normalize(raw string) string {
	s := strings.ReplaceAll(raw, "*", "")
	s = strings.TrimSpace(s)
	return strings.ToLower(s)
}
