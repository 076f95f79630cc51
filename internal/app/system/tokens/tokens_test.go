package tokens

import (
	"strings"
	"testing"
)

func TestNewInviteToken_Shape(t *testing.T) {
	tok, err := NewInviteToken()
	if err != nil {
		t.Fatalf("NewInviteToken failed: %v", err)
	}
	if len(tok) != InviteLength {
		t.Fatalf("expected %d chars, got %d", InviteLength, len(tok))
	}
	for _, r := range tok {
		if !strings.ContainsRune(Alphabet, r) {
			t.Errorf("unexpected symbol %q in %q", r, tok)
		}
	}
}

func TestNewInviteToken_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		tok, err := NewInviteToken()
		if err != nil {
			t.Fatalf("NewInviteToken failed: %v", err)
		}
		if seen[tok] {
			t.Fatalf("duplicate token %q", tok)
		}
		seen[tok] = true
	}
}

func TestRandom_CoversAlphabet(t *testing.T) {
	s, err := Random(20000)
	if err != nil {
		t.Fatalf("Random failed: %v", err)
	}
	for _, r := range Alphabet {
		if !strings.ContainsRune(s, r) {
			t.Errorf("symbol %q never drawn", r)
		}
	}
}
