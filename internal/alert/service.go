package alert

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/gestaozabele/alertas/internal/identity"
	"github.com/gestaozabele/alertas/internal/util"
)

// Store define o acesso aos dados de alertas.
type Store interface {
	Create(ctx context.Context, input CreateInput) (*Alert, error)
	ListAll(ctx context.Context) ([]Alert, error)
	ListByUser(ctx context.Context, userID string) ([]Alert, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Alert, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*Alert, error)
	InsertNote(ctx context.Context, alertID uuid.UUID, authorID, text string) (*Note, error)
}

// Authorizer decide se o chamador possui privilégio de administrador.
type Authorizer interface {
	IsAuthorized(ctx context.Context, ident *identity.Identity) bool
}

// Service reúne regras de negócio dos alertas.
type Service struct {
	store Store
	authz Authorizer
}

// NewService cria uma nova instância do serviço.
func NewService(store Store, authz Authorizer) *Service {
	return &Service{store: store, authz: authz}
}

// Create abre um alerta em nome do chamador autenticado. O user_id
// enviado pelo cliente é sempre descartado em favor do subject da
// sessão, o que impede personificação.
func (s *Service) Create(ctx context.Context, ident *identity.Identity, input CreateInput) (*Alert, error) {
	if ident == nil || strings.TrimSpace(ident.Subject) == "" {
		return nil, ErrUnauthenticated
	}

	input.Type = strings.TrimSpace(input.Type)
	input.Description = strings.TrimSpace(input.Description)
	input.Location = strings.TrimSpace(input.Location)
	input.UserID = ident.Subject

	if err := util.RequireString(input.Type, "tipo"); err != nil {
		return nil, err
	}
	if err := util.RequireString(input.Description, "descrição"); err != nil {
		return nil, err
	}
	if err := util.RequireString(input.Location, "localização"); err != nil {
		return nil, err
	}

	images := make([]ImageInput, 0, len(input.Images))
	for _, img := range input.Images {
		if strings.TrimSpace(img.StorageKey) == "" {
			continue
		}
		images = append(images, img)
	}
	input.Images = images

	return s.store.Create(ctx, input)
}

// ListAll devolve todos os alertas, mais recentes primeiro. Listagem
// aberta: o mapa público da cidade consome este endpoint sem sessão.
// Notas não aparecem na listagem; só na consulta individual.
func (s *Service) ListAll(ctx context.Context) ([]Alert, error) {
	alerts, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range alerts {
		alerts[i].Notes = nil
	}
	return alerts, nil
}

// ListMine devolve os alertas do chamador, mais recentes primeiro.
func (s *Service) ListMine(ctx context.Context, ident *identity.Identity) ([]Alert, error) {
	if ident == nil || strings.TrimSpace(ident.Subject) == "" {
		return nil, ErrUnauthenticated
	}
	alerts, err := s.store.ListByUser(ctx, ident.Subject)
	if err != nil {
		return nil, err
	}
	for i := range alerts {
		alerts[i].Notes = nil
	}
	return alerts, nil
}

// GetByID carrega um alerta. As notas são visão exclusiva de
// administradores: chamadores sem privilégio recebem o mesmo payload com
// o campo de notas redigido (nil), e id inexistente é ErrNotFound.
func (s *Service) GetByID(ctx context.Context, ident *identity.Identity, id uuid.UUID) (*Alert, error) {
	alert, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !s.authz.IsAuthorized(ctx, ident) {
		alert.Notes = nil
	}

	return alert, nil
}

// UpdateStatus substitui o status do alerta. Requer privilégio de
// administrador; qualquer valor do conjunto fechado é aceito, sem grafo
// de transição.
func (s *Service) UpdateStatus(ctx context.Context, ident *identity.Identity, id uuid.UUID, status string) (*Alert, error) {
	if ident == nil {
		return nil, ErrUnauthenticated
	}
	if !s.authz.IsAuthorized(ctx, ident) {
		return nil, ErrForbidden
	}

	normalized := NormalizeStatus(status)
	if !IsValidStatus(normalized) {
		return nil, ErrInvalidStatus
	}

	return s.store.UpdateStatus(ctx, id, normalized)
}

// AddNote acrescenta anotação administrativa ao alerta, com autor e
// timestamp atribuídos pelo servidor.
func (s *Service) AddNote(ctx context.Context, ident *identity.Identity, id uuid.UUID, text string) (*Note, error) {
	if ident == nil {
		return nil, ErrUnauthenticated
	}
	if !s.authz.IsAuthorized(ctx, ident) {
		return nil, ErrForbidden
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.New("texto da nota obrigatório")
	}

	return s.store.InsertNote(ctx, id, ident.Subject, text)
}
