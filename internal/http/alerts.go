package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/gestaozabele/alertas/internal/alert"
	"github.com/gestaozabele/alertas/internal/identity"
)

// CreateAlert registra um novo relato do cidadão autenticado.
func (h *Handler) CreateAlert(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Type        string   `json:"type"`
		Description string   `json:"description"`
		Location    string   `json:"location"`
		Lat         *float64 `json:"lat"`
		Lng         *float64 `json:"lng"`
		// user_id do cliente é ignorado; o subject da sessão prevalece
		UserID string `json:"user_id"`
		Images []struct {
			StorageKey  string `json:"storage_key"`
			ContentType string `json:"content_type"`
		} `json:"images"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido")
		return
	}

	images := make([]alert.ImageInput, 0, len(payload.Images))
	for _, img := range payload.Images {
		images = append(images, alert.ImageInput{StorageKey: img.StorageKey, ContentType: img.ContentType})
	}

	created, err := h.alerts.Create(r.Context(), identity.FromContext(r.Context()), alert.CreateInput{
		Type:        payload.Type,
		Description: payload.Description,
		Location:    payload.Location,
		Lat:         payload.Lat,
		Lng:         payload.Lng,
		Images:      images,
	})
	if err != nil {
		if errors.Is(err, alert.ErrUnauthenticated) {
			WriteError(w, http.StatusUnauthorized, "AUTH", err.Error())
			return
		}
		WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]any{"alert": created})
}

// ListAlerts devolve todos os alertas (alimenta o mapa público).
func (h *Handler) ListAlerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.alerts.ListAll(r.Context())
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível listar alertas")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"alerts": alerts})
}

// MyAlerts devolve os alertas do chamador, mais recentes primeiro.
func (h *Handler) MyAlerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.alerts.ListMine(r.Context(), identity.FromContext(r.Context()))
	if err != nil {
		if errors.Is(err, alert.ErrUnauthenticated) {
			WriteError(w, http.StatusUnauthorized, "AUTH", err.Error())
			return
		}
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível listar alertas")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"alerts": alerts})
}

// GetAlert devolve detalhes de um alerta; notas só para administradores.
func (h *Handler) GetAlert(w http.ResponseWriter, r *http.Request) {
	alertID, err := uuid.Parse(strings.TrimSpace(chi.URLParam(r, "id")))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "id inválido")
		return
	}

	found, err := h.alerts.GetByID(r.Context(), identity.FromContext(r.Context()), alertID)
	if err != nil {
		if errors.Is(err, alert.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "NOT_FOUND", "alerta não encontrado")
			return
		}
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível carregar alerta")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"alert": found})
}

// UpdateAlertStatus substitui o status do alerta (somente administradores).
func (h *Handler) UpdateAlertStatus(w http.ResponseWriter, r *http.Request) {
	alertID, err := uuid.Parse(strings.TrimSpace(chi.URLParam(r, "id")))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "id inválido")
		return
	}

	var payload struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido")
		return
	}

	updated, err := h.alerts.UpdateStatus(r.Context(), identity.FromContext(r.Context()), alertID, payload.Status)
	if err != nil {
		h.writeAlertError(w, err, "não foi possível atualizar status")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"alert": updated})
}

// AddAlertNote acrescenta anotação administrativa ao alerta.
func (h *Handler) AddAlertNote(w http.ResponseWriter, r *http.Request) {
	alertID, err := uuid.Parse(strings.TrimSpace(chi.URLParam(r, "id")))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "id inválido")
		return
	}

	var payload struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido")
		return
	}

	note, err := h.alerts.AddNote(r.Context(), identity.FromContext(r.Context()), alertID, payload.Text)
	if err != nil {
		switch {
		case errors.Is(err, alert.ErrUnauthenticated):
			WriteError(w, http.StatusUnauthorized, "AUTH", err.Error())
		case errors.Is(err, alert.ErrForbidden):
			WriteError(w, http.StatusForbidden, "FORBIDDEN", err.Error())
		case errors.Is(err, alert.ErrNotFound):
			WriteError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
		default:
			WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		}
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]any{"note": note})
}

func (h *Handler) writeAlertError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, alert.ErrUnauthenticated):
		WriteError(w, http.StatusUnauthorized, "AUTH", err.Error())
	case errors.Is(err, alert.ErrForbidden):
		WriteError(w, http.StatusForbidden, "FORBIDDEN", err.Error())
	case errors.Is(err, alert.ErrNotFound):
		WriteError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, alert.ErrInvalidStatus):
		WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error())
	default:
		WriteError(w, http.StatusInternalServerError, "INTERNAL", fallback)
	}
}
