package alert

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound        = errors.New("alerta não encontrado")
	ErrUnauthenticated = errors.New("chamador não autenticado")
	ErrForbidden       = errors.New("acesso restrito a administradores")
	ErrInvalidStatus   = errors.New("status inválido")
)

// Conjunto fechado de status. A origem dos dados nunca validava o valor;
// aqui o ciclo de vida é explícito: new -> in_progress -> resolved,
// sem grafo de transição imposto além do conjunto.
const (
	StatusNew        = "new"
	StatusInProgress = "in_progress"
	StatusResolved   = "resolved"
)

var validStatuses = map[string]struct{}{
	StatusNew:        {},
	StatusInProgress: {},
	StatusResolved:   {},
}

// Alert representa um relato de problema no espaço público.
type Alert struct {
	ID          uuid.UUID `json:"id"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Lat         *float64  `json:"lat,omitempty"`
	Lng         *float64  `json:"lng,omitempty"`
	UserID      string    `json:"user_id"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	Images      []Image   `json:"images"`
	// Notes é nil quando redigido para chamadores sem privilégio.
	Notes []Note `json:"notes"`
}

// Image referencia um blob no storage externo.
type Image struct {
	ID          uuid.UUID `json:"id"`
	StorageKey  string    `json:"storage_key"`
	ContentType string    `json:"content_type"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// Note é uma anotação administrativa, imutável após criada.
type Note struct {
	ID        uuid.UUID `json:"id"`
	AlertID   uuid.UUID `json:"alert_id"`
	AuthorID  string    `json:"author_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateInput encapsula campos para abertura de alerta.
type CreateInput struct {
	Type        string
	Description string
	Location    string
	Lat         *float64
	Lng         *float64
	UserID      string
	Images      []ImageInput
}

// ImageInput referencia um upload já concluído pelo cliente.
type ImageInput struct {
	StorageKey  string
	ContentType string
}

// NormalizeStatus garante padrão em letras minúsculas.
func NormalizeStatus(status string) string {
	status = strings.ToLower(strings.TrimSpace(status))
	if status == "" {
		return StatusNew
	}
	return status
}

// IsValidStatus indica se o status pertence ao conjunto aceito.
func IsValidStatus(status string) bool {
	_, ok := validStatuses[strings.ToLower(strings.TrimSpace(status))]
	return ok
}
