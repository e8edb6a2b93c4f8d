package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultClerkAPIBase = "https://api.clerk.com/v1"

// ClerkClient encapsula chamadas à API de gerenciamento do provedor
// de identidade.
type ClerkClient struct {
	httpClient *http.Client
	secretKey  string
	baseURL    string
}

// ClerkConfig descreve credenciais essenciais para o cliente.
type ClerkConfig struct {
	SecretKey  string
	APIBase    string
	HTTPClient *http.Client
}

// UserCheck é o resultado estruturado da checagem de existência.
// Falhas do provedor viram Error preenchido, nunca erro Go propagado.
type UserCheck struct {
	Exists bool   `json:"exists"`
	Error  string `json:"error,omitempty"`
}

// NewClerkClient cria um cliente autenticado pela secret key server-side.
func NewClerkClient(cfg ClerkConfig) (*ClerkClient, error) {
	if strings.TrimSpace(cfg.SecretKey) == "" {
		return nil, errors.New("clerk: secret key obrigatória")
	}

	apiBase := strings.TrimSpace(cfg.APIBase)
	if apiBase == "" {
		apiBase = defaultClerkAPIBase
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	return &ClerkClient{
		httpClient: client,
		secretKey:  cfg.SecretKey,
		baseURL:    strings.TrimRight(apiBase, "/"),
	}, nil
}

// UserExistsByEmail consulta o provedor pela existência de um usuário
// com o e-mail informado.
func (c *ClerkClient) UserExistsByEmail(ctx context.Context, email string) UserCheck {
	email = strings.TrimSpace(email)
	if email == "" {
		return UserCheck{Error: "email vazio"}
	}

	q := url.Values{}
	q.Set("email_address", email)
	q.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/users?"+q.Encode(), nil)
	if err != nil {
		return UserCheck{Error: err.Error()}
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return UserCheck{Error: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return UserCheck{Error: fmt.Sprintf("clerk: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))}
	}

	var users []struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&users); err != nil {
		return UserCheck{Error: "clerk: resposta inválida"}
	}

	return UserCheck{Exists: len(users) > 0}
}
