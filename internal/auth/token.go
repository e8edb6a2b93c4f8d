package auth

import (
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/gestaozabele/alertas/internal/identity"
)

// SessionClaims espelha o token de sessão emitido pelo provedor de
// identidade. Os campos de papel aceitam string ou lista.
type SessionClaims struct {
	Email            string         `json:"email,omitempty"`
	EmailAddress     string         `json:"emailAddress,omitempty"`
	OrgRole          any            `json:"orgRole,omitempty"`
	OrganizationRole any            `json:"organizationRole,omitempty"`
	Role             any            `json:"role,omitempty"`
	PublicMetadata   MetadataClaims `json:"publicMetadata,omitempty"`
	UnsafeMetadata   MetadataClaims `json:"unsafeMetadata,omitempty"`
	jwt.RegisteredClaims
}

// MetadataClaims cobre o objeto de metadados onde o papel pode morar.
type MetadataClaims struct {
	Role any `json:"role,omitempty"`
}

// Identity converte os claims validados na identidade do chamador.
// O e-mail pode vir em "email" ou no campo legado "emailAddress".
func (c *SessionClaims) Identity() *identity.Identity {
	email := strings.TrimSpace(c.Email)
	if email == "" {
		email = strings.TrimSpace(c.EmailAddress)
	}

	return &identity.Identity{
		Subject:          c.Subject,
		Email:            email,
		OrgRole:          c.OrgRole,
		OrganizationRole: c.OrganizationRole,
		PublicRole:       c.PublicMetadata.Role,
		UnsafeRole:       c.UnsafeMetadata.Role,
		Role:             c.Role,
	}
}

// TokenVerifier valida tokens de sessão do provedor de identidade.
type TokenVerifier struct {
	secret []byte
}

// NewTokenVerifier cria o verificador com o segredo compartilhado.
func NewTokenVerifier(secret string) *TokenVerifier {
	return &TokenVerifier{secret: []byte(secret)}
}

// ParseAndValidate verifica assinatura e expiração do token de sessão.
func (v *TokenVerifier) ParseAndValidate(tokenString string) (*SessionClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	token, err := parser.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		return v.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, errors.New("token inválido")
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return nil, errors.New("subject ausente")
	}

	return claims, nil
}
