package identity

import "testing"

func TestRoleCandidatePrecedence(t *testing.T) {
	tests := []struct {
		name  string
		ident Identity
		want  any
	}{
		{"orgRole vence", Identity{OrgRole: "admin", Role: "member"}, "admin"},
		{"organizationRole em seguida", Identity{OrganizationRole: "admin", Role: "member"}, "admin"},
		{"publicMetadata depois", Identity{PublicRole: "editor", UnsafeRole: "admin"}, "editor"},
		{"unsafeMetadata depois", Identity{UnsafeRole: "admin", Role: "member"}, "admin"},
		{"role por último", Identity{Role: "member"}, "member"},
		{"string vazia é ignorada", Identity{OrgRole: "  ", Role: "admin"}, "admin"},
		{"lista vazia é ignorada", Identity{OrgRole: []string{}, Role: "admin"}, "admin"},
		{"sem claims", Identity{}, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			gotAny := tc.ident.RoleCandidate()
			got, _ := gotAny.(string)
			want, _ := tc.want.(string)
			if got != want || (gotAny == nil) != (tc.want == nil) {
				t.Fatalf("RoleCandidate() = %v, esperava %v", gotAny, tc.want)
			}
		})
	}
}

func TestHasAdminRole(t *testing.T) {
	tests := []struct {
		name  string
		ident Identity
		want  bool
	}{
		{"string admin", Identity{Role: "admin"}, true},
		{"caixa alta", Identity{Role: "ADMIN"}, true},
		{"com espaços", Identity{Role: "  admin  "}, true},
		{"lista de strings", Identity{Role: []string{"viewer", "admin"}}, true},
		{"lista any", Identity{Role: []any{"viewer", "admin"}}, true},
		{"lista sem admin", Identity{Role: []string{"viewer"}}, false},
		{"papel diferente", Identity{Role: "member"}, false},
		{"tipo inesperado", Identity{Role: 42}, false},
		{"sem claims", Identity{}, false},
		{"claim de menor precedência não sobrepõe", Identity{OrgRole: "member", Role: "admin"}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.ident.HasAdminRole(); got != tc.want {
				t.Fatalf("HasAdminRole() = %v, esperava %v", got, tc.want)
			}
		})
	}
}
