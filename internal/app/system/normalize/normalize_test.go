package normalize

import "testing"

func TestEmail(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"user@example.com", "user@example.com"},
		{"USER@EXAMPLE.COM", "user@example.com"},
		{"  User@Example.Com  ", "user@example.com"},
		{"", ""},
		{"   ", ""},
		{"Mixed.Case@Domain.ORG", "mixed.case@domain.org"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := Email(tt.input)
			if got != tt.want {
				t.Errorf("Email(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Jane Doe", "Jane Doe"},
		{"  Jane Doe  ", "Jane Doe"},
		{"", ""},
		{"UPPERCASE NAME", "UPPERCASE NAME"}, // Name preserves case
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := Name(tt.input)
			if got != tt.want {
				t.Errorf("Name(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestLoginEmail(t *testing.T) {
	tests := []struct {
		username string
		domain   string
		want     string
	}{
		{"Alice", "daycare.local", "alice@daycare.local"},
		{"  BOB  ", "daycare.local", "bob@daycare.local"},
		{"carol", "example.org", "carol@example.org"},
	}

	for _, tt := range tests {
		t.Run(tt.username, func(t *testing.T) {
			got := LoginEmail(tt.username, tt.domain)
			if got != tt.want {
				t.Errorf("LoginEmail(%q, %q) = %q, want %q", tt.username, tt.domain, got, tt.want)
			}
		})
	}
}

func TestLocalPart(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"parent@x.com", "parent"},
		{"no-at-sign", "no-at-sign"},
		{"@x.com", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := LocalPart(tt.input); got != tt.want {
				t.Errorf("LocalPart(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
