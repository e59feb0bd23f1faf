package security

import (
	"testing"
	"time"
)

func TestAdminToken_RoundTrip(t *testing.T) {
	t.Parallel()

	token, errGen := GenerateAdminToken("test-secret", 42, "admin", "admin@example.com", time.Hour)
	if errGen != nil {
		t.Fatalf("generate token: %v", errGen)
	}

	claims, errParse := ParseAdminToken("test-secret", token)
	if errParse != nil {
		t.Fatalf("parse token: %v", errParse)
	}
	if claims.AdminID != 42 {
		t.Fatalf("claims.AdminID = %d, want 42", claims.AdminID)
	}
	if claims.Username != "admin" {
		t.Fatalf("claims.Username = %q, want %q", claims.Username, "admin")
	}
	if claims.Email != "admin@example.com" {
		t.Fatalf("claims.Email = %q, want %q", claims.Email, "admin@example.com")
	}
}

func TestAdminToken_WrongSecret(t *testing.T) {
	t.Parallel()

	token, errGen := GenerateAdminToken("test-secret", 1, "admin", "admin@example.com", time.Hour)
	if errGen != nil {
		t.Fatalf("generate token: %v", errGen)
	}
	if _, errParse := ParseAdminToken("other-secret", token); errParse == nil {
		t.Fatalf("expected error for wrong secret")
	}
}

func TestAdminToken_Expired(t *testing.T) {
	t.Parallel()

	token, errGen := GenerateAdminToken("test-secret", 1, "admin", "admin@example.com", -time.Minute)
	if errGen != nil {
		t.Fatalf("generate token: %v", errGen)
	}
	_, errParse := ParseAdminToken("test-secret", token)
	if errParse != ErrExpiredToken {
		t.Fatalf("ParseAdminToken error = %v, want ErrExpiredToken", errParse)
	}
}

func TestAdminToken_Garbage(t *testing.T) {
	t.Parallel()

	if _, errParse := ParseAdminToken("test-secret", "not-a-token"); errParse != ErrInvalidToken {
		t.Fatalf("ParseAdminToken error = %v, want ErrInvalidToken", errParse)
	}
}
