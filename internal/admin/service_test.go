package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gestaozabele/alertas/internal/identity"
)

type stubStore struct {
	mu      sync.Mutex
	admins  []Admin
	deleted []string
}

func (s *stubStore) FindByEmail(ctx context.Context, email string) (*Admin, error) {
	for i := range s.admins {
		if s.admins[i].Email != nil && strings.EqualFold(*s.admins[i].Email, email) {
			return &s.admins[i], nil
		}
	}
	return nil, ErrNotFound
}

func (s *stubStore) FindByUserID(ctx context.Context, userID string) (*Admin, error) {
	for i := range s.admins {
		if s.admins[i].UserID != nil && *s.admins[i].UserID == userID {
			return &s.admins[i], nil
		}
	}
	return nil, ErrNotFound
}

func (s *stubStore) List(ctx context.Context) ([]Admin, error) {
	return s.admins, nil
}

func (s *stubStore) HasAny(ctx context.Context) (bool, error) {
	return len(s.admins) > 0, nil
}

func (s *stubStore) Insert(ctx context.Context, email, userID *string) error {
	if email != nil {
		if _, err := s.FindByEmail(ctx, *email); err == nil {
			return nil
		}
	}
	s.admins = append(s.admins, Admin{ID: uuid.New(), Email: email, UserID: userID})
	return nil
}

func (s *stubStore) InsertFirst(ctx context.Context, email, userID *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.admins) > 0 {
		return ErrAlreadyInitialized
	}
	s.admins = append(s.admins, Admin{ID: uuid.New(), Email: email, UserID: userID})
	return nil
}

func (s *stubStore) DeleteByEmail(ctx context.Context, email string) error {
	s.deleted = append(s.deleted, email)
	kept := s.admins[:0]
	for _, a := range s.admins {
		if a.Email == nil || !strings.EqualFold(*a.Email, email) {
			kept = append(kept, a)
		}
	}
	s.admins = kept
	return nil
}

type stubChecker struct {
	result identity.UserCheck
}

func (s *stubChecker) UserExistsByEmail(ctx context.Context, email string) identity.UserCheck {
	return s.result
}

func strPtr(s string) *string { return &s }

func TestIsAuthorized(t *testing.T) {
	store := &stubStore{admins: []Admin{
		{ID: uuid.New(), Email: strPtr("gestor@cidade.gov.br")},
		{ID: uuid.New(), UserID: strPtr("user_legado")},
	}}
	svc := NewService(store, nil)
	ctx := context.Background()

	tests := []struct {
		name  string
		ident *identity.Identity
		want  bool
	}{
		{"anônimo", nil, false},
		{"registrado por email", &identity.Identity{Subject: "x", Email: "gestor@cidade.gov.br"}, true},
		{"email em caixa diferente", &identity.Identity{Subject: "x", Email: "GESTOR@cidade.gov.br"}, true},
		{"registrado por user_id", &identity.Identity{Subject: "user_legado"}, true},
		{"só claims", &identity.Identity{Subject: "user_novo", OrgRole: "admin"}, true},
		{"sem registro nem claims", &identity.Identity{Subject: "user_novo", Email: "cidadao@exemplo.com"}, false},
		{"papel não admin", &identity.Identity{Subject: "user_novo", Role: "member"}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, svc.IsAuthorized(ctx, tc.ident))
		})
	}
}

func TestBootstrap(t *testing.T) {
	ctx := context.Background()

	t.Run("primeiro chamador entra", func(t *testing.T) {
		store := &stubStore{}
		svc := NewService(store, nil)

		err := svc.Bootstrap(ctx, &identity.Identity{Subject: "user_1", Email: "fundador@cidade.gov.br"})
		require.NoError(t, err)
		require.Len(t, store.admins, 1)
		assert.Equal(t, "fundador@cidade.gov.br", *store.admins[0].Email)
	})

	t.Run("sem email chaveia por user_id", func(t *testing.T) {
		store := &stubStore{}
		svc := NewService(store, nil)

		require.NoError(t, svc.Bootstrap(ctx, &identity.Identity{Subject: "user_1"}))
		require.Len(t, store.admins, 1)
		assert.Nil(t, store.admins[0].Email)
		assert.Equal(t, "user_1", *store.admins[0].UserID)
	})

	t.Run("segundo chamador é rejeitado", func(t *testing.T) {
		store := &stubStore{admins: []Admin{{ID: uuid.New(), Email: strPtr("fundador@cidade.gov.br")}}}
		svc := NewService(store, nil)

		err := svc.Bootstrap(ctx, &identity.Identity{Subject: "user_2", Email: "intruso@exemplo.com"})
		assert.ErrorIs(t, err, ErrAlreadyInitialized)
	})

	t.Run("anônimo é rejeitado", func(t *testing.T) {
		svc := NewService(&stubStore{}, nil)
		assert.ErrorIs(t, svc.Bootstrap(ctx, nil), ErrUnauthenticated)
		assert.ErrorIs(t, svc.Bootstrap(ctx, &identity.Identity{Subject: "  "}), ErrUnauthenticated)
	})

	t.Run("bootstraps concorrentes admitem exatamente um", func(t *testing.T) {
		store := &stubStore{}
		svc := NewService(store, nil)

		const callers = 8
		start := make(chan struct{})
		results := make(chan error, callers)
		var wg sync.WaitGroup
		for i := 0; i < callers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				<-start
				results <- svc.Bootstrap(ctx, &identity.Identity{
					Subject: fmt.Sprintf("user_%d", i),
					Email:   fmt.Sprintf("candidato%d@cidade.gov.br", i),
				})
			}(i)
		}
		close(start)
		wg.Wait()
		close(results)

		admitted, rejected := 0, 0
		for err := range results {
			switch {
			case err == nil:
				admitted++
			case errors.Is(err, ErrAlreadyInitialized):
				rejected++
			default:
				t.Fatalf("erro inesperado: %v", err)
			}
		}
		assert.Equal(t, 1, admitted)
		assert.Equal(t, callers-1, rejected)
		assert.Len(t, store.admins, 1)
	})
}

func TestAddRemove(t *testing.T) {
	ctx := context.Background()
	gestor := &identity.Identity{Subject: "user_1", Email: "gestor@cidade.gov.br"}
	cidadao := &identity.Identity{Subject: "user_2", Email: "cidadao@exemplo.com"}

	store := &stubStore{admins: []Admin{{ID: uuid.New(), Email: strPtr("gestor@cidade.gov.br")}}}
	svc := NewService(store, nil)

	require.NoError(t, svc.Add(ctx, gestor, "novo@cidade.gov.br"))
	require.Len(t, store.admins, 2)

	// repetir a concessão é no-op
	require.NoError(t, svc.Add(ctx, gestor, "novo@cidade.gov.br"))
	assert.Len(t, store.admins, 2)

	assert.ErrorIs(t, svc.Add(ctx, cidadao, "outro@cidade.gov.br"), ErrForbidden)
	assert.ErrorIs(t, svc.Add(ctx, nil, "outro@cidade.gov.br"), ErrUnauthenticated)
	assert.Error(t, svc.Add(ctx, gestor, "sem-arroba"))

	require.NoError(t, svc.Remove(ctx, gestor, "novo@cidade.gov.br"))
	assert.Len(t, store.admins, 1)

	// remover chave ausente é no-op
	require.NoError(t, svc.Remove(ctx, gestor, "novo@cidade.gov.br"))
	assert.ErrorIs(t, svc.Remove(ctx, cidadao, "gestor@cidade.gov.br"), ErrForbidden)
}

func TestCheckUserExists(t *testing.T) {
	ctx := context.Background()
	gestor := &identity.Identity{Subject: "user_1", OrgRole: "admin"}

	t.Run("delegação ao provedor", func(t *testing.T) {
		svc := NewService(&stubStore{}, &stubChecker{result: identity.UserCheck{Exists: true}})
		got, err := svc.CheckUserExists(ctx, gestor, "alguem@exemplo.com")
		require.NoError(t, err)
		assert.True(t, got.Exists)
	})

	t.Run("provedor ausente vira resultado estruturado", func(t *testing.T) {
		svc := NewService(&stubStore{}, nil)
		got, err := svc.CheckUserExists(ctx, gestor, "alguem@exemplo.com")
		require.NoError(t, err)
		assert.NotEmpty(t, got.Error)
	})

	t.Run("restrito a administradores", func(t *testing.T) {
		svc := NewService(&stubStore{}, &stubChecker{})
		_, err := svc.CheckUserExists(ctx, &identity.Identity{Subject: "user_2"}, "alguem@exemplo.com")
		assert.ErrorIs(t, err, ErrForbidden)

		_, err = svc.CheckUserExists(ctx, nil, "alguem@exemplo.com")
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})
}
