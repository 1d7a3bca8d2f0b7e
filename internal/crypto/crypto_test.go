package crypto

import (
	"encoding/base64"
	"strings"
	"testing"
)

func testKey(b byte) string {
	return base64.StdEncoding.EncodeToString([]byte(strings.Repeat(string(rune(b)), 32)))
}

func TestSealer_RoundTrip(t *testing.T) {
	s, err := NewSealer(testKey('k'))
	if err != nil {
		t.Fatal(err)
	}
	sealed, err := s.Seal("ape-key-123")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(sealed, sealedPrefix) || strings.Contains(sealed, "ape-key-123") {
		t.Fatalf("value not sealed: %q", sealed)
	}
	got, err := s.Open(sealed)
	if err != nil {
		t.Fatal(err)
	}
	if got != "ape-key-123" {
		t.Fatalf("want ape-key-123, got %q", got)
	}
}

func TestSealer_PlaintextPassthrough(t *testing.T) {
	s, _ := NewSealer(testKey('k'))
	got, err := s.Open("legacy-key")
	if err != nil || got != "legacy-key" {
		t.Fatalf("want passthrough, got %q, %v", got, err)
	}
}

func TestSealer_WrongKey(t *testing.T) {
	a, _ := NewSealer(testKey('a'))
	b, _ := NewSealer(testKey('b'))
	sealed, _ := a.Seal("secret")
	if _, err := b.Open(sealed); err == nil {
		t.Fatal("want error opening with a different key")
	}
}

func TestNewSealer_BadKeys(t *testing.T) {
	for _, k := range []string{"", "not base64!", base64.StdEncoding.EncodeToString([]byte("short"))} {
		if _, err := NewSealer(k); err == nil {
			t.Errorf("NewSealer(%q): want error", k)
		}
	}
}
