package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gestaozabele/alertas/internal/auth"
	"github.com/gestaozabele/alertas/internal/identity"
)

// Auth exige token de sessão válido e injeta a identidade no contexto.
func Auth(verifier *auth.TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ident, ok := identityFromRequest(verifier, r)
			if !ok {
				writeError(w, http.StatusUnauthorized, "AUTH", "token ausente ou inválido")
				return
			}

			next.ServeHTTP(w, r.WithContext(identity.WithIdentity(r.Context(), ident)))
		})
	}
}

// OptionalAuth injeta a identidade quando presente e segue anônimo caso
// contrário. Consultas públicas usam isso para degradar a resposta
// (redação de notas) em vez de recusar o chamador.
func OptionalAuth(verifier *auth.TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if ident, ok := identityFromRequest(verifier, r); ok {
				r = r.WithContext(identity.WithIdentity(r.Context(), ident))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func identityFromRequest(verifier *auth.TokenVerifier, r *http.Request) (*identity.Identity, bool) {
	authHeader := r.Header.Get("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, false
	}

	claims, err := verifier.ParseAndValidate(parts[1])
	if err != nil {
		return nil, false
	}

	return claims.Identity(), true
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"data": nil,
		"error": map[string]any{
			"code":    code,
			"message": message,
		},
	})
}
