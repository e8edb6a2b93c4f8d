package files

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/gestaozabele/alertas/internal/alert"
	"github.com/gestaozabele/alertas/internal/identity"
	"github.com/gestaozabele/alertas/internal/storage"
)

var (
	ErrUnauthenticated = errors.New("chamador não autenticado")
	ErrForbidden       = errors.New("acesso restrito a administradores")
)

const urlCachePrefix = "imgurl:"

// Authorizer decide se o chamador possui privilégio de administrador.
type Authorizer interface {
	IsAuthorized(ctx context.Context, ident *identity.Identity) bool
}

// AlertReader carrega alertas para resolução de imagens.
type AlertReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*alert.Alert, error)
}

// UploadTicket é a resposta de generateUploadUrl: a chave reservada e a
// URL de escrita única.
type UploadTicket struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// URLPair associa uma chave de storage à URL resolvida ("" quando a
// chave é inválida ou expirada).
type URLPair struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// Service resolve blobs do storage externo em URLs temporárias.
type Service struct {
	presigner storage.Presigner
	alerts    AlertReader
	authz     Authorizer
	cache     *redis.Client
	cacheTTL  time.Duration
}

// NewService cria o serviço; cache pode ser nil. O cache expira um
// minuto antes da URL assinada; TTLs curtos demais desabilitam o cache
// em vez de gravar entrada sem expiração.
func NewService(presigner storage.Presigner, alerts AlertReader, authz Authorizer, cache *redis.Client, presignTTL time.Duration) *Service {
	cacheTTL := presignTTL - time.Minute
	if cacheTTL <= 0 {
		cacheTTL = presignTTL / 2
		if cacheTTL < 0 {
			cacheTTL = 0
		}
	}
	return &Service{
		presigner: presigner,
		alerts:    alerts,
		authz:     authz,
		cache:     cache,
		cacheTTL:  cacheTTL,
	}
}

// GenerateUploadURL emite URL de upload de uso único para o chamador
// autenticado. Não há quota nem limite de tamanho nesta camada.
func (s *Service) GenerateUploadURL(ctx context.Context, ident *identity.Identity) (*UploadTicket, error) {
	if ident == nil || strings.TrimSpace(ident.Subject) == "" {
		return nil, ErrUnauthenticated
	}

	key, url, err := s.presigner.PresignPut(ctx)
	if err != nil {
		return nil, err
	}
	return &UploadTicket{Key: key, URL: url}, nil
}

// ResolveURL devolve URL de leitura para a chave, ou "" quando a chave
// não resolve. Endpoint aberto: as imagens são consideradas de baixa
// sensibilidade.
func (s *Service) ResolveURL(ctx context.Context, key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return ""
	}

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, urlCachePrefix+key).Result(); err == nil && cached != "" {
			return cached
		}
	}

	url, err := s.presigner.PresignGet(ctx, key)
	if err != nil {
		log.Debug().Err(err).Str("key", key).Msg("falha ao resolver imagem")
		return ""
	}

	if s.cache != nil && s.cacheTTL > 0 {
		if err := s.cache.Set(ctx, urlCachePrefix+key, url, s.cacheTTL).Err(); err != nil {
			log.Debug().Err(err).Msg("cache de url indisponível")
		}
	}

	return url
}

// ResolveURLs resolve um lote de chaves. Diferente da resolução
// individual, o lote é restrito a administradores.
func (s *Service) ResolveURLs(ctx context.Context, ident *identity.Identity, keys []string) ([]URLPair, error) {
	if ident == nil {
		return nil, ErrUnauthenticated
	}
	if !s.authz.IsAuthorized(ctx, ident) {
		return nil, ErrForbidden
	}

	pairs := make([]URLPair, 0, len(keys))
	for _, key := range keys {
		pairs = append(pairs, URLPair{Key: key, URL: s.ResolveURL(ctx, key)})
	}
	return pairs, nil
}

// AlertImageURLs resolve todas as imagens de um alerta, pulando as que
// falharem. Alerta inexistente devolve lista vazia.
func (s *Service) AlertImageURLs(ctx context.Context, alertID uuid.UUID) ([]string, error) {
	a, err := s.alerts.GetByID(ctx, alertID)
	if err != nil {
		if errors.Is(err, alert.ErrNotFound) {
			return []string{}, nil
		}
		return nil, err
	}

	urls := []string{}
	for _, img := range a.Images {
		if url := s.ResolveURL(ctx, img.StorageKey); url != "" {
			urls = append(urls, url)
		}
	}
	return urls, nil
}
