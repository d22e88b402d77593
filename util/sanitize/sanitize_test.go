package sanitize

import (
	"strings"
	"testing"
)

func TestForSessionName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"already clean", "feature-x", "feature-x"},
		{"spaces to dashes", "fix login bug", "fix-login-bug"},
		{"slashes to dashes", "feature/login", "feature-login"},
		{"strip special chars", "what?! a bug", "what-a-bug"},
		{"collapse dashes", "a---b", "a-b"},
		{"trim edges", "--feature--", "feature"},
		{"keeps dots and underscores", "v1.2_hotfix", "v1.2_hotfix"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ForSessionName(tt.input); got != tt.expected {
				t.Errorf("ForSessionName(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestForSessionName_Truncates(t *testing.T) {
	long := strings.Repeat("a", 150)
	got := ForSessionName(long)
	if len(got) > 100 {
		t.Errorf("expected at most 100 characters, got %d", len(got))
	}
}
