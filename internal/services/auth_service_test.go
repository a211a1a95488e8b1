package services

import (
	"strings"
	"testing"

	"github.com/Nethmini-Hirunika/Pahana-Edu-Billing/internal/models"
)

func TestTokenRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	auth := NewAuthService(testLogger)

	token, err := auth.GenerateToken(42, "saman", string(models.RoleStaff))
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	claims, err := auth.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if claims.UserID != 42 || claims.Username != "saman" || claims.Role != string(models.RoleStaff) {
		t.Errorf("unexpected claims: %+v", claims)
	}
}

func TestValidateTokenRejectsTampering(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	auth := NewAuthService(testLogger)

	token, err := auth.GenerateToken(42, "saman", string(models.RoleStaff))
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("expected a three-part JWT, got %d parts", len(parts))
	}
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))

	if _, err := auth.ValidateToken(tampered); err == nil {
		t.Fatal("expected tampered token to be rejected")
	}
}

func TestValidateTokenRejectsOtherSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "first-secret")
	issuer := NewAuthService(testLogger)
	token, err := issuer.GenerateToken(7, "admin", string(models.RoleAdmin))
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	t.Setenv("JWT_SECRET", "second-secret")
	verifier := NewAuthService(testLogger)
	if _, err := verifier.ValidateToken(token); err == nil {
		t.Fatal("expected token signed with a different secret to be rejected")
	}
}
