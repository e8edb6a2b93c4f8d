package identity

import (
	"context"
	"strings"
)

// Identity representa o chamador autenticado conforme afirmado pelo
// provedor de identidade. Os campos de papel ficam em formato bruto
// (string ou lista) porque o provedor não padroniza onde o papel é
// armazenado.
type Identity struct {
	Subject          string
	Email            string
	OrgRole          any
	OrganizationRole any
	PublicRole       any
	UnsafeRole       any
	Role             any
}

// RoleCandidate resolve o claim de papel na ordem fixa:
// orgRole, organizationRole, publicMetadata.role, unsafeMetadata.role, role.
// A ordem faz parte do contrato de autorização e não deve ser alterada.
func (i *Identity) RoleCandidate() any {
	for _, candidate := range []any{i.OrgRole, i.OrganizationRole, i.PublicRole, i.UnsafeRole, i.Role} {
		if !emptyClaim(candidate) {
			return candidate
		}
	}
	return nil
}

// HasAdminRole indica se o claim resolvido corresponde a "admin",
// aceitando tanto string quanto lista de papéis.
func (i *Identity) HasAdminRole() bool {
	switch candidate := i.RoleCandidate().(type) {
	case string:
		return strings.EqualFold(strings.TrimSpace(candidate), "admin")
	case []string:
		for _, role := range candidate {
			if strings.EqualFold(strings.TrimSpace(role), "admin") {
				return true
			}
		}
	case []any:
		for _, role := range candidate {
			if s, ok := role.(string); ok && strings.EqualFold(strings.TrimSpace(s), "admin") {
				return true
			}
		}
	}
	return false
}

func emptyClaim(candidate any) bool {
	switch v := candidate.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case []string:
		return len(v) == 0
	case []any:
		return len(v) == 0
	}
	return false
}

type contextKey struct{}

// WithIdentity injeta a identidade no contexto da requisição.
func WithIdentity(ctx context.Context, ident *Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, ident)
}

// FromContext recupera a identidade do contexto; nil para chamadores anônimos.
func FromContext(ctx context.Context) *Identity {
	ident, _ := ctx.Value(contextKey{}).(*Identity)
	return ident
}
