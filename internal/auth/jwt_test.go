package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"officehours/backend/internal/domain"
)

func TestTokenRoundTrip(t *testing.T) {
	m := NewManager("test-secret", time.Hour)
	partyID := uuid.MustParse("00000000-0000-0000-0000-000000000011")

	token, err := m.GenerateToken(partyID, domain.RoleProfessor)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	claims, err := m.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken error: %v", err)
	}
	if claims.Subject != partyID.String() {
		t.Fatalf("subject = %q, want %q", claims.Subject, partyID.String())
	}
	if claims.Role != domain.RoleProfessor {
		t.Fatalf("role = %q, want %q", claims.Role, domain.RoleProfessor)
	}
}

func TestParseToken_RejectsExpired(t *testing.T) {
	m := NewManager("test-secret", -time.Minute)

	token, err := m.GenerateToken(uuid.MustParse("00000000-0000-0000-0000-000000000011"), domain.RoleStudent)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	if _, err := m.ParseToken(token); err == nil {
		t.Fatalf("expected error for expired token")
	}
}

func TestParseToken_RejectsWrongSecret(t *testing.T) {
	issuer := NewManager("secret-a", time.Hour)
	verifier := NewManager("secret-b", time.Hour)

	token, err := issuer.GenerateToken(uuid.MustParse("00000000-0000-0000-0000-000000000011"), domain.RoleStudent)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	if _, err := verifier.ParseToken(token); err == nil {
		t.Fatalf("expected error for token signed with a different secret")
	}
}

func TestParseToken_RejectsUnknownRole(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	token, err := m.GenerateToken(uuid.MustParse("00000000-0000-0000-0000-000000000011"), domain.Role("admin"))
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	if _, err := m.ParseToken(token); err == nil {
		t.Fatalf("expected error for unknown role")
	}
}
