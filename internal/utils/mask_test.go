package utils

import "testing"

func TestMaskKey(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want string
	}{
		{"normal key", "sk-proj-abcdef123456", "••••••••3456"},
		{"short key", "abcd", "••••••••"},
		{"empty key", "", "••••••••"},
		{"five chars keeps suffix", "abcde", "••••••••bcde"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MaskKey(tt.key); got != tt.want {
				t.Errorf("MaskKey(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestMaskKeyNeverLeaksBody(t *testing.T) {
	key := "sk-proj-secret-material-9876"
	masked := MaskKey(key)

	if len(masked) >= len(key) {
		// The mask is fixed-width; only the 4-char suffix survives.
		t.Errorf("masked key %q is suspiciously long", masked)
	}
	if masked[len(masked)-4:] != "9876" {
		t.Errorf("masked key %q should end with the last four characters", masked)
	}
}
