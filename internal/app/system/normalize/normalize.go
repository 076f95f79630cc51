// Package normalize canonicalizes user-supplied identifiers before they are
// stored or compared.
package normalize

import "strings"

// Email trims and lowercases an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims surrounding whitespace, preserving case.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// LoginEmail builds the synthetic sign-in address for a username-only account.
func LoginEmail(username, domain string) string {
	return strings.ToLower(strings.TrimSpace(username)) + "@" + domain
}

// LocalPart returns the portion of an email before the '@'.
func LocalPart(email string) string {
	if i := strings.IndexByte(email, '@'); i >= 0 {
		return email[:i]
	}
	return email
}
