package sanitizer

import "testing"

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"only whitespace", "   \t\n  ", ""},
		{"surrounding whitespace", "  window seat  ", "window seat"},
		{"internal runs collapsed", "near  the \t board\n games", "near the board games"},
		{"already clean", "birthday party", "birthday party"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TrimAndNormalize(tt.input); got != tt.expected {
				t.Errorf("TrimAndNormalize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizeCode(t *testing.T) {
	if got := NormalizeCode("  t1 "); got != "T1" {
		t.Errorf("NormalizeCode = %q, want %q", got, "T1")
	}
}
