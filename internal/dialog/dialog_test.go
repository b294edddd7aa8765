package dialog

import (
	"testing"

	"diktofon/internal/config"
)

func TestModifierLabelsDistinct(t *testing.T) {
	seen := make(map[string]bool)
	for _, m := range config.AvailableModifiers() {
		label := modifierLabel(m)
		if label == "" {
			t.Errorf("empty label for modifier %q", m)
		}
		if seen[label] {
			t.Errorf("duplicate label %q", label)
		}
		seen[label] = true
	}
}

func TestKeyLabelsDistinct(t *testing.T) {
	seen := make(map[string]bool)
	for _, k := range config.AvailableKeys() {
		label := keyLabel(k)
		if label == "" {
			t.Errorf("empty label for key %q", k)
		}
		if seen[label] {
			t.Errorf("duplicate label %q", label)
		}
		seen[label] = true
	}
}

func TestKeyLabel(t *testing.T) {
	cases := []struct {
		key  config.Key
		want string
	}{
		{config.KeySpace, "Space"},
		{config.KeyReturn, "Return"},
		{config.KeyTab, "Tab"},
		{config.KeyR, "R"},
		{config.KeyF12, "F12"},
	}
	for _, tc := range cases {
		if got := keyLabel(tc.key); got != tc.want {
			t.Errorf("keyLabel(%q): got %q, want %q", tc.key, got, tc.want)
		}
	}
}
