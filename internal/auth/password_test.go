package auth

import "testing"

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-password")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "s3cret-password" {
		t.Fatal("hash must not equal plaintext")
	}

	if !VerifyPassword("s3cret-password", hash) {
		t.Fatal("correct password should verify")
	}
	if VerifyPassword("wrong-password", hash) {
		t.Fatal("wrong password should not verify")
	}
}

func TestHashPasswordSalted(t *testing.T) {
	a, err := HashPassword("same-password")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	b, err := HashPassword("same-password")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if a == b {
		t.Fatal("two hashes of the same password should differ")
	}
}
