package domain

import "strings"

// NormalizeKey lower-cases and trims a name or email for use as a
// case-insensitive uniqueness key. Every repository stores the normalized
// form next to the display value and the unique indexes target it.
func NormalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
