package admin

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound é retornado quando nenhum administrador corresponde à chave.
	ErrNotFound = errors.New("administrador não encontrado")
	// ErrUnauthenticated indica ausência de identidade no chamador.
	ErrUnauthenticated = errors.New("chamador não autenticado")
	// ErrForbidden indica identidade presente sem privilégio de administrador.
	ErrForbidden = errors.New("acesso restrito a administradores")
	// ErrAlreadyInitialized indica bootstrap com registro já populado.
	ErrAlreadyInitialized = errors.New("registro de administradores já inicializado")
)

// Admin representa uma concessão de privilégio elevado, chaveada por
// e-mail e/ou pelo user_id do provedor de identidade.
type Admin struct {
	ID        uuid.UUID `json:"id"`
	Email     *string   `json:"email,omitempty"`
	UserID    *string   `json:"user_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
