package auth

import (
	"strings"
	"testing"
)

func newTestIssuer() *TokenIssuer {
	return NewTokenIssuer("test-secret", "meal-arb", "meal-arb-web", 120, 43200)
}

func TestGenerateValidateRoundtrip(t *testing.T) {
	iss := newTestIssuer()
	token, err := iss.Generate(42, "member", false)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	claims, err := iss.Validate(token)
	if err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	id, err := claims.UserID()
	if err != nil {
		t.Fatalf("UserID returned error: %v", err)
	}
	if id != 42 {
		t.Errorf("UserID = %d, want 42", id)
	}
	if claims.Role != "member" {
		t.Errorf("Role = %q, want member", claims.Role)
	}
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	token, err := newTestIssuer().Generate(1, "member", false)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	other := NewTokenIssuer("other-secret", "meal-arb", "meal-arb-web", 120, 43200)
	if _, err := other.Validate(token); err == nil {
		t.Fatal("expected validation failure with wrong secret")
	}
}

func TestValidateRejectsWrongAudience(t *testing.T) {
	iss := NewTokenIssuer("test-secret", "meal-arb", "another-app", 120, 43200)
	token, err := iss.Generate(1, "member", false)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if _, err := newTestIssuer().Validate(token); err == nil {
		t.Fatal("expected validation failure for mismatched audience")
	}
}

func TestValidateRejectsExpired(t *testing.T) {
	// Zero-minute expiry issues a token that is already expired.
	iss := NewTokenIssuer("test-secret", "meal-arb", "meal-arb-web", 0, 0)
	token, err := iss.Generate(1, "member", false)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if _, err := iss.Validate(token); err == nil {
		t.Fatal("expected validation failure for expired token")
	}
}

func TestValidateRejectsGarbage(t *testing.T) {
	if _, err := newTestIssuer().Validate("not.a.token"); err == nil {
		t.Fatal("expected validation failure for malformed token")
	}
}

func TestAdminRoleClaimSurvives(t *testing.T) {
	iss := newTestIssuer()
	token, err := iss.Generate(7, "admin", true)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	claims, err := iss.Validate(token)
	if err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	if claims.Role != "admin" {
		t.Errorf("Role = %q, want admin", claims.Role)
	}
	if !strings.Contains(token, ".") {
		t.Error("token does not look like a JWT")
	}
}
