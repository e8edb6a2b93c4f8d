package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gestaozabele/alertas/internal/admin"
	"github.com/gestaozabele/alertas/internal/identity"
)

// ListAdmins devolve todos os administradores. Endpoint aberto por
// escolha de política: a listagem só expõe e-mails de gestores públicos.
func (h *Handler) ListAdmins(w http.ResponseWriter, r *http.Request) {
	admins, err := h.admins.List(r.Context())
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível listar administradores")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"admins": admins})
}

// HasAnyAdmin indica se o bootstrap já foi executado.
func (h *Handler) HasAnyAdmin(w http.ResponseWriter, r *http.Request) {
	exists, err := h.admins.HasAny(r.Context())
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível consultar administradores")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]bool{"initialized": exists})
}

// BootstrapAdmin insere o chamador como primeiro administrador.
func (h *Handler) BootstrapAdmin(w http.ResponseWriter, r *http.Request) {
	err := h.admins.Bootstrap(r.Context(), identity.FromContext(r.Context()))
	if err != nil {
		switch {
		case errors.Is(err, admin.ErrUnauthenticated):
			WriteError(w, http.StatusUnauthorized, "AUTH", err.Error())
		case errors.Is(err, admin.ErrAlreadyInitialized):
			WriteError(w, http.StatusConflict, "ALREADY_INITIALIZED", err.Error())
		default:
			WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível concluir bootstrap")
		}
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]string{"status": "ok"})
}

// IsAdmin responde se o chamador satisfaz a política de autorização
// (registro + claims, na precedência fixa).
func (h *Handler) IsAdmin(w http.ResponseWriter, r *http.Request) {
	ident := identity.FromContext(r.Context())
	WriteJSON(w, http.StatusOK, map[string]bool{"admin": h.admins.IsAuthorized(r.Context(), ident)})
}

// IsAdminByClaims responde considerando apenas os claims de papel do
// provedor, sem consultar o registro.
func (h *Handler) IsAdminByClaims(w http.ResponseWriter, r *http.Request) {
	ident := identity.FromContext(r.Context())
	WriteJSON(w, http.StatusOK, map[string]bool{"admin": ident != nil && ident.HasAdminRole()})
}

// AddAdmin concede privilégio ao e-mail informado.
func (h *Handler) AddAdmin(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido")
		return
	}

	if err := h.admins.Add(r.Context(), identity.FromContext(r.Context()), payload.Email); err != nil {
		h.writeAdminError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]string{"status": "ok"})
}

// RemoveAdmin revoga o privilégio do e-mail informado.
func (h *Handler) RemoveAdmin(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		var payload struct {
			Email string `json:"email"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err == nil {
			email = payload.Email
		}
	}

	if err := h.admins.Remove(r.Context(), identity.FromContext(r.Context()), email); err != nil {
		h.writeAdminError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// CheckUserExists consulta o provedor de identidade pelo e-mail.
func (h *Handler) CheckUserExists(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido")
		return
	}

	result, err := h.admins.CheckUserExists(r.Context(), identity.FromContext(r.Context()), payload.Email)
	if err != nil {
		h.writeAdminError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) writeAdminError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, admin.ErrUnauthenticated):
		WriteError(w, http.StatusUnauthorized, "AUTH", err.Error())
	case errors.Is(err, admin.ErrForbidden):
		WriteError(w, http.StatusForbidden, "FORBIDDEN", err.Error())
	case errors.Is(err, admin.ErrNotFound):
		WriteError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, admin.ErrAlreadyInitialized):
		WriteError(w, http.StatusConflict, "ALREADY_INITIALIZED", err.Error())
	default:
		WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error())
	}
}
