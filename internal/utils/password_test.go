package utils

import "testing"

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("secret123")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	if hash == "" || hash == "secret123" {
		t.Error("hash should be non-empty and not the plaintext")
	}
}

func TestCheckPassword(t *testing.T) {
	hash, err := HashPassword("secret123")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	if !CheckPassword("secret123", hash) {
		t.Error("correct password should match")
	}
	if CheckPassword("wrong", hash) {
		t.Error("wrong password should not match")
	}
	if CheckPassword("secret123", "not-a-hash") {
		t.Error("malformed hash should not match")
	}
}

func TestHashPassword_DifferentSalts(t *testing.T) {
	h1, _ := HashPassword("same")
	h2, _ := HashPassword("same")

	if h1 == h2 {
		t.Error("two hashes of the same password should differ (random salt)")
	}
}
