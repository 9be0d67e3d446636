package auth

import "testing"

func TestVerifierPlainKey(t *testing.T) {
	v := NewVerifier("secreto-admin", "")

	if !v.Verify("secreto-admin") {
		t.Fatal("matching key must verify")
	}
	if v.Verify("otro") {
		t.Fatal("wrong key must not verify")
	}
	if v.Verify("") {
		t.Fatal("empty key must not verify")
	}
}

func TestVerifierHashedKey(t *testing.T) {
	hash, err := HashAPIKey("secreto-admin")
	if err != nil {
		t.Fatalf("HashAPIKey: %v", err)
	}

	v := NewVerifier("", hash)
	if !v.Verify("secreto-admin") {
		t.Fatal("key must verify against its bcrypt hash")
	}
	if v.Verify("otro") {
		t.Fatal("wrong key must not verify against the hash")
	}
}

func TestVerifierHashTakesPrecedence(t *testing.T) {
	hash, err := HashAPIKey("clave-hash")
	if err != nil {
		t.Fatalf("HashAPIKey: %v", err)
	}

	v := NewVerifier("clave-plana", hash)
	if v.Verify("clave-plana") {
		t.Fatal("plain key must be ignored when a hash is configured")
	}
	if !v.Verify("clave-hash") {
		t.Fatal("hashed key must verify")
	}
}

func TestVerifierUnconfigured(t *testing.T) {
	v := NewVerifier("", "")
	if v.Verify("cualquiera") {
		t.Fatal("unconfigured verifier must reject everything")
	}

	var nilV *Verifier
	if nilV.Verify("x") {
		t.Fatal("nil verifier must reject")
	}
}

func TestHashAPIKeyRejectsEmpty(t *testing.T) {
	if _, err := HashAPIKey("   "); err == nil {
		t.Fatal("expected error for blank key")
	}
}
