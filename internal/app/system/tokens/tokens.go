// Package tokens mints opaque bearer tokens.
package tokens

import (
	"crypto/rand"
	"fmt"
)

const (
	// Alphabet is the symbol set invitation tokens are drawn from.
	Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	// InviteLength is the length of an invitation token.
	InviteLength = 32
)

// NewInviteToken returns a fresh invitation token.
func NewInviteToken() (string, error) {
	return Random(InviteLength)
}

// Random returns n symbols drawn uniformly from Alphabet using crypto/rand.
// Bytes at or above the largest multiple of len(Alphabet) are rejected so
// every symbol is equally likely.
func Random(n int) (string, error) {
	const limit = 256 - 256%len(Alphabet)
	out := make([]byte, 0, n)
	buf := make([]byte, n+n/4+1)
	for len(out) < n {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("read random bytes: %w", err)
		}
		for _, b := range buf {
			if int(b) >= limit {
				continue
			}
			out = append(out, Alphabet[int(b)%len(Alphabet)])
			if len(out) == n {
				break
			}
		}
	}
	return string(out), nil
}
