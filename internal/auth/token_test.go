package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "segredo-de-teste-com-pelo-menos-32-bytes"

func signToken(t *testing.T, secret string, claims SessionClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("assinar token: %v", err)
	}
	return signed
}

func TestParseAndValidate(t *testing.T) {
	verifier := NewTokenVerifier(testSecret)

	raw := signToken(t, testSecret, SessionClaims{
		Email:   "gestor@cidade.gov.br",
		OrgRole: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user_123",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	claims, err := verifier.ParseAndValidate(raw)
	if err != nil {
		t.Fatalf("ParseAndValidate: %v", err)
	}

	ident := claims.Identity()
	if ident.Subject != "user_123" {
		t.Errorf("Subject = %q", ident.Subject)
	}
	if ident.Email != "gestor@cidade.gov.br" {
		t.Errorf("Email = %q", ident.Email)
	}
	if !ident.HasAdminRole() {
		t.Error("esperava papel admin via orgRole")
	}
}

func TestParseAndValidateEmailAddressFallback(t *testing.T) {
	verifier := NewTokenVerifier(testSecret)

	raw := signToken(t, testSecret, SessionClaims{
		EmailAddress: "legado@cidade.gov.br",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user_456",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	claims, err := verifier.ParseAndValidate(raw)
	if err != nil {
		t.Fatalf("ParseAndValidate: %v", err)
	}
	if got := claims.Identity().Email; got != "legado@cidade.gov.br" {
		t.Errorf("Email = %q, esperava fallback de emailAddress", got)
	}
}

func TestParseAndValidateRejects(t *testing.T) {
	verifier := NewTokenVerifier(testSecret)

	expired := signToken(t, testSecret, SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user_123",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})
	if _, err := verifier.ParseAndValidate(expired); err == nil {
		t.Error("esperava erro para token expirado")
	}

	wrongKey := signToken(t, "outro-segredo-tambem-com-32-bytes!!", SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user_123",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	if _, err := verifier.ParseAndValidate(wrongKey); err == nil {
		t.Error("esperava erro para assinatura inválida")
	}

	noSubject := signToken(t, testSecret, SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	if _, err := verifier.ParseAndValidate(noSubject); err == nil {
		t.Error("esperava erro para token sem subject")
	}

	if _, err := verifier.ParseAndValidate("nem-um-jwt"); err == nil {
		t.Error("esperava erro para token malformado")
	}
}
