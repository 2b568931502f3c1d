package cache

import (
	"errors"
	"strings"
	"testing"
)

func TestKey_Namespaced(t *testing.T) {
	key, err := Key("Nextstrain CLI")
	if err != nil {
		t.Fatalf("Key() error = %v", err)
	}
	if key != "t/Nextstrain CLI" {
		t.Errorf("Key() = %q, want %q", key, "t/Nextstrain CLI")
	}
}

func TestKey_CaseSensitive(t *testing.T) {
	a, _ := Key("Augur")
	b, _ := Key("augur")
	if a == b {
		t.Errorf("keys for different case should differ, both %q", a)
	}
}

func TestValidateKey(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want error
	}{
		{"valid", "t/Augur", nil},
		{"empty title", "t/", ErrInvalidKey},
		{"blank title", "t/   ", ErrInvalidKey},
		{"newline", "t/a\nb", ErrInvalidKey},
		{"nul", "t/a\x00b", ErrInvalidKey},
		{"too long", "t/" + strings.Repeat("x", MaxKeyLength), ErrKeyTooLong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateKey(tt.key)
			if !errors.Is(err, tt.want) {
				t.Errorf("ValidateKey(%q) = %v, want %v", tt.key, err, tt.want)
			}
		})
	}
}
