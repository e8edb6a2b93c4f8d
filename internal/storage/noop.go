package storage

import (
	"context"
	"errors"
)

var errNotConfigured = errors.New("storage: backend não configurado")

// NoopPresigner devolve erro indicando que não há backend configurado.
type NoopPresigner struct{}

// PresignPut sempre retorna erro.
func (NoopPresigner) PresignPut(ctx context.Context) (string, string, error) {
	return "", "", errNotConfigured
}

// PresignGet sempre retorna erro.
func (NoopPresigner) PresignGet(ctx context.Context, key string) (string, error) {
	return "", errNotConfigured
}
