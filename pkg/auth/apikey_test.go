package auth

import "testing"

func TestParseKeys(t *testing.T) {
	ks := ParseKeys("desktop:sk-abc,ci:sk-def")

	tests := []struct {
		key    string
		client string
		ok     bool
	}{
		{"sk-abc", "desktop", true},
		{"sk-def", "ci", true},
		{"sk-unknown", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		client, ok := ks.Lookup(tt.key)
		if ok != tt.ok {
			t.Errorf("Lookup(%q) ok=%v, want %v", tt.key, ok, tt.ok)
		}
		if client != tt.client {
			t.Errorf("Lookup(%q) client=%q, want %q", tt.key, client, tt.client)
		}
	}
}

func TestParseKeys_Empty(t *testing.T) {
	ks := ParseKeys("")
	if ks.Len() != 0 {
		t.Errorf("expected no keys, got %d", ks.Len())
	}
	if _, ok := ks.Lookup("anything"); ok {
		t.Error("empty store should not match")
	}
}

func TestParseKeys_WhitespaceAndBareKeys(t *testing.T) {
	ks := ParseKeys(" desktop : sk-abc , sk-bare ,, ci: ")
	if client, ok := ks.Lookup("sk-abc"); !ok || client != "desktop" {
		t.Errorf("should trim key pairs, got %q %v", client, ok)
	}
	if client, ok := ks.Lookup("sk-bare"); !ok || client != "client-2" {
		t.Errorf("bare key should be named by position, got %q %v", client, ok)
	}
	if ks.Len() != 2 {
		t.Errorf("empty keys must be ignored, got %d keys", ks.Len())
	}
}
