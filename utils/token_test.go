package utils

import (
	"strings"
	"testing"
)

func TestShareTokenShape(t *testing.T) {
	token := ShareToken()
	if !strings.HasPrefix(token, "s-") {
		t.Fatalf("token %q missing prefix", token)
	}
	if !IsShareToken(token) {
		t.Fatalf("token %q not recognized", token)
	}
}

func TestIsShareTokenRejectsOtherShapes(t *testing.T) {
	cases := []string{
		"",
		"12345",
		"s-",
		"s-not-a-uuid",
		GetToken(), // bare uuid without prefix
		"S-6ba7b810-9dad-11d1-80b4-00c04fd430c8",
	}
	for _, raw := range cases {
		if IsShareToken(raw) {
			t.Errorf("IsShareToken(%q) = true, want false", raw)
		}
	}
}

func TestShareTokensAreUnique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		token := ShareToken()
		if _, ok := seen[token]; ok {
			t.Fatalf("duplicate token %q", token)
		}
		seen[token] = struct{}{}
	}
}
