package admin

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/gestaozabele/alertas/internal/identity"
	"github.com/gestaozabele/alertas/internal/util"
)

// Store define o acesso ao registro de administradores.
type Store interface {
	FindByEmail(ctx context.Context, email string) (*Admin, error)
	FindByUserID(ctx context.Context, userID string) (*Admin, error)
	List(ctx context.Context) ([]Admin, error)
	HasAny(ctx context.Context) (bool, error)
	Insert(ctx context.Context, email, userID *string) error
	InsertFirst(ctx context.Context, email, userID *string) error
	DeleteByEmail(ctx context.Context, email string) error
}

// UserChecker delega a existência de usuários ao provedor de identidade.
type UserChecker interface {
	UserExistsByEmail(ctx context.Context, email string) identity.UserCheck
}

// Service reúne o registro de administradores e a política de autorização.
type Service struct {
	store Store
	users UserChecker
}

// NewService cria o serviço; users pode ser nil quando a chave do
// provedor não está configurada.
func NewService(store Store, users UserChecker) *Service {
	return &Service{store: store, users: users}
}

// IsAuthorized aplica a política de autorização na precedência fixa:
// linha de admin por e-mail, depois por user_id, por fim claims de papel
// do provedor. Chamadores podem ter linha chaveada por e-mail e sessão
// com e-mail em caixa diferente, ou privilégio apenas via claims — ambos
// precisam funcionar, então a ordem não deve ser alterada.
func (s *Service) IsAuthorized(ctx context.Context, ident *identity.Identity) bool {
	if ident == nil {
		return false
	}
	if s.IsRegistered(ctx, ident) {
		return true
	}
	return ident.HasAdminRole()
}

// IsRegistered indica se a identidade possui linha no registro
// (e-mail primeiro, user_id como fallback legado).
func (s *Service) IsRegistered(ctx context.Context, ident *identity.Identity) bool {
	if ident == nil {
		return false
	}

	if ident.Email != "" {
		if _, err := s.store.FindByEmail(ctx, ident.Email); err == nil {
			return true
		} else if !errors.Is(err, ErrNotFound) {
			log.Warn().Err(err).Msg("consulta de admin por email falhou")
		}
	}

	if ident.Subject != "" {
		if _, err := s.store.FindByUserID(ctx, ident.Subject); err == nil {
			return true
		} else if !errors.Is(err, ErrNotFound) {
			log.Warn().Err(err).Msg("consulta de admin por user_id falhou")
		}
	}

	return false
}

// Bootstrap insere o chamador como primeiro administrador. A condição
// "registro vazio" e a gravação acontecem em uma única operação do
// store: dois bootstraps concorrentes nunca entram ambos.
func (s *Service) Bootstrap(ctx context.Context, ident *identity.Identity) error {
	if ident == nil || strings.TrimSpace(ident.Subject) == "" {
		return ErrUnauthenticated
	}

	// chaveia por e-mail quando disponível, senão pelo user_id externo
	var email, userID *string
	if e := strings.TrimSpace(ident.Email); e != "" {
		email = &e
	} else {
		sub := ident.Subject
		userID = &sub
	}
	return s.store.InsertFirst(ctx, email, userID)
}

// Add concede privilégio ao e-mail informado. Requer chamador autorizado;
// repetir a concessão é no-op.
func (s *Service) Add(ctx context.Context, ident *identity.Identity, email string) error {
	if ident == nil {
		return ErrUnauthenticated
	}
	if !s.IsAuthorized(ctx, ident) {
		return ErrForbidden
	}
	if err := util.ValidateEmail(email); err != nil {
		return err
	}

	normalized := strings.TrimSpace(email)
	return s.store.Insert(ctx, &normalized, nil)
}

// Remove revoga a concessão do e-mail informado. Requer chamador
// autorizado; chave ausente é no-op.
func (s *Service) Remove(ctx context.Context, ident *identity.Identity, email string) error {
	if ident == nil {
		return ErrUnauthenticated
	}
	if !s.IsAuthorized(ctx, ident) {
		return ErrForbidden
	}
	if err := util.ValidateEmail(email); err != nil {
		return err
	}

	return s.store.DeleteByEmail(ctx, email)
}

// List devolve todos os administradores. Listagem aberta é uma escolha
// deliberada de política, não um descuido.
func (s *Service) List(ctx context.Context) ([]Admin, error) {
	return s.store.List(ctx)
}

// HasAny indica se o bootstrap já aconteceu.
func (s *Service) HasAny(ctx context.Context) (bool, error) {
	return s.store.HasAny(ctx)
}

// CheckUserExists consulta o provedor de identidade pelo e-mail.
// Falhas do provedor retornam resultado estruturado, nunca erro.
func (s *Service) CheckUserExists(ctx context.Context, ident *identity.Identity, email string) (identity.UserCheck, error) {
	if ident == nil {
		return identity.UserCheck{}, ErrUnauthenticated
	}
	if !s.IsAuthorized(ctx, ident) {
		return identity.UserCheck{}, ErrForbidden
	}
	if s.users == nil {
		return identity.UserCheck{Error: "provedor de identidade não configurado"}, nil
	}

	return s.users.UserExistsByEmail(ctx, email), nil
}
