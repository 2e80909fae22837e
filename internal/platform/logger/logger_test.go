package logger

import "testing"

func TestSanitizeKVsRedactsSecretsAndHashesIDs(t *testing.T) {
	out := sanitizeKVs([]interface{}{
		"refresh_token", "abc",
		"user_id", "3f1c0d9e-0000-4000-8000-000000000001",
		"item_id", "plain",
		"dangling",
	})
	if len(out) != 7 {
		t.Fatalf("unexpected length: %d", len(out))
	}
	if out[1] != "[REDACTED]" {
		t.Fatalf("refresh_token not redacted: %v", out[1])
	}
	hashed, ok := out[3].(string)
	if !ok || len(hashed) != len("hash:")+12 {
		t.Fatalf("user_id not hashed: %v", out[3])
	}
	if out[5] != "plain" {
		t.Fatalf("item_id should pass through, got %v", out[5])
	}
	if out[6] != "dangling" {
		t.Fatalf("dangling key dropped: %v", out[6])
	}
}

func TestLooksLikeJWT(t *testing.T) {
	if !looksLikeJWT("eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiIxMjM0NTY3ODkwIn0.sig") {
		t.Fatalf("expected jwt-shaped string to match")
	}
	if looksLikeJWT("a.b.c") {
		t.Fatalf("short segments should not match")
	}
}

func TestSanitizeValueNestedMapsAndStableHashes(t *testing.T) {
	got := sanitizeValue("payload", map[string]interface{}{
		"Password": "hunter2",
		"brand":    "Nike",
	}).(map[string]interface{})
	if got["Password"] != "[REDACTED]" || got["brand"] != "Nike" {
		t.Fatalf("nested map not sanitized: %v", got)
	}
	if hashValue("u-1") != hashValue("u-1") || hashValue("u-1") == hashValue("u-2") {
		t.Fatalf("hash should be stable per input and differ across inputs")
	}
	if hashValue(nil) != "" {
		t.Fatalf("nil should hash to empty")
	}
}
