package slug

import "testing"

func TestMake(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Sunny Days", "sunny-days"},
		{"  Sunny   Days!! ", "sunny-days"},
		{"ABC_123", "abc-123"},
		{"--already-slugged--", "already-slugged"},
		{"Café Olé", "caf-ol"},
		{"!!!", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Make(tt.input); got != tt.want {
				t.Errorf("Make(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestScoped(t *testing.T) {
	if got := Scoped("sunny-days", ""); got != "sunny-days" {
		t.Errorf("expected unscoped id, got %q", got)
	}
	if got := Scoped("sunny-days", "acme"); got != "sunny-days_acme" {
		t.Errorf("expected scoped id, got %q", got)
	}
}
