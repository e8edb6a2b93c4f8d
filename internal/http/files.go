package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/gestaozabele/alertas/internal/files"
	"github.com/gestaozabele/alertas/internal/identity"
)

// GenerateUploadURL emite URL de upload de uso único.
func (h *Handler) GenerateUploadURL(w http.ResponseWriter, r *http.Request) {
	ticket, err := h.files.GenerateUploadURL(r.Context(), identity.FromContext(r.Context()))
	if err != nil {
		if errors.Is(err, files.ErrUnauthenticated) {
			WriteError(w, http.StatusUnauthorized, "AUTH", err.Error())
			return
		}
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível gerar URL de upload")
		return
	}

	WriteJSON(w, http.StatusOK, ticket)
}

// GetImageURL resolve uma chave de storage em URL temporária.
// Chave inválida resolve para url nula, não para erro.
func (h *Handler) GetImageURL(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimSpace(r.URL.Query().Get("key"))
	if key == "" {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "key obrigatória")
		return
	}

	url := h.files.ResolveURL(r.Context(), key)
	if url == "" {
		WriteJSON(w, http.StatusOK, map[string]any{"url": nil})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"url": url})
}

// GetImageURLs resolve um lote de chaves (somente administradores).
func (h *Handler) GetImageURLs(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Keys []string `json:"keys"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido")
		return
	}

	pairs, err := h.files.ResolveURLs(r.Context(), identity.FromContext(r.Context()), payload.Keys)
	if err != nil {
		switch {
		case errors.Is(err, files.ErrUnauthenticated):
			WriteError(w, http.StatusUnauthorized, "AUTH", err.Error())
		case errors.Is(err, files.ErrForbidden):
			WriteError(w, http.StatusForbidden, "FORBIDDEN", err.Error())
		default:
			WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível resolver imagens")
		}
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"urls": pairs})
}

// AlertImageURLs resolve todas as imagens de um alerta.
func (h *Handler) AlertImageURLs(w http.ResponseWriter, r *http.Request) {
	alertID, err := uuid.Parse(strings.TrimSpace(chi.URLParam(r, "id")))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "id inválido")
		return
	}

	urls, err := h.files.AlertImageURLs(r.Context(), alertID)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível resolver imagens")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"urls": urls})
}
