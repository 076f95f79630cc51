// Package slug derives document ids from display names.
package slug

import (
	"regexp"
	"strings"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Make lowercases name, collapses every run of characters outside [a-z0-9]
// into one hyphen, and trims leading and trailing hyphens.
// The result may be empty.
func Make(name string) string {
	s := nonAlnum.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(s, "-")
}

// Scoped returns base, suffixed with "_<scope>" when scope is non-empty.
func Scoped(base, scope string) string {
	if scope == "" {
		return base
	}
	return base + "_" + scope
}
