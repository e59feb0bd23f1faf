package security

import "testing"

func TestNewResetToken_Entropy(t *testing.T) {
	t.Parallel()

	first, errFirst := NewResetToken()
	if errFirst != nil {
		t.Fatalf("new token: %v", errFirst)
	}
	if len(first) != 64 {
		t.Fatalf("token length = %d, want 64 hex chars", len(first))
	}

	second, errSecond := NewResetToken()
	if errSecond != nil {
		t.Fatalf("new token: %v", errSecond)
	}
	if first == second {
		t.Fatalf("two generated tokens are identical")
	}
}

func TestHashResetToken_Deterministic(t *testing.T) {
	t.Parallel()

	if HashResetToken("abc") != HashResetToken("abc") {
		t.Fatalf("hash is not deterministic")
	}
	if HashResetToken("abc") == HashResetToken("abd") {
		t.Fatalf("distinct tokens hash identically")
	}
	if HashResetToken("abc") == "abc" {
		t.Fatalf("hash must not equal plaintext")
	}
}

func TestCheckPassword(t *testing.T) {
	t.Parallel()

	hash, errHash := HashPassword("secret123")
	if errHash != nil {
		t.Fatalf("hash password: %v", errHash)
	}
	if !CheckPassword(hash, "secret123") {
		t.Fatalf("correct password rejected")
	}
	if CheckPassword(hash, "secret124") {
		t.Fatalf("wrong password accepted")
	}
}
