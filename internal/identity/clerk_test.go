package identity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestUserExistsByEmail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer sk_test_abc" {
			t.Errorf("Authorization = %q", got)
		}
		switch r.URL.Query().Get("email_address") {
		case "existe@cidade.gov.br":
			w.Write([]byte(`[{"id":"user_123"}]`))
		case "quebra@cidade.gov.br":
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"errors":[{"message":"boom"}]}`))
		default:
			w.Write([]byte(`[]`))
		}
	}))
	defer srv.Close()

	client, err := NewClerkClient(ClerkConfig{SecretKey: "sk_test_abc", APIBase: srv.URL})
	if err != nil {
		t.Fatalf("NewClerkClient: %v", err)
	}

	ctx := context.Background()

	if got := client.UserExistsByEmail(ctx, "existe@cidade.gov.br"); !got.Exists || got.Error != "" {
		t.Fatalf("existente: %+v", got)
	}
	if got := client.UserExistsByEmail(ctx, "ninguem@cidade.gov.br"); got.Exists || got.Error != "" {
		t.Fatalf("inexistente: %+v", got)
	}

	// falha do provedor vira resultado estruturado, nunca erro propagado
	if got := client.UserExistsByEmail(ctx, "quebra@cidade.gov.br"); got.Exists || !strings.Contains(got.Error, "status 500") {
		t.Fatalf("falha do provedor: %+v", got)
	}
	if got := client.UserExistsByEmail(ctx, "   "); got.Error == "" {
		t.Fatalf("email vazio deveria preencher Error")
	}
}

func TestNewClerkClientRequiresSecret(t *testing.T) {
	if _, err := NewClerkClient(ClerkConfig{}); err == nil {
		t.Fatal("esperava erro sem secret key")
	}
}
