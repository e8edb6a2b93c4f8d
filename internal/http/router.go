package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/gestaozabele/alertas/internal/admin"
	"github.com/gestaozabele/alertas/internal/alert"
	"github.com/gestaozabele/alertas/internal/auth"
	"github.com/gestaozabele/alertas/internal/config"
	"github.com/gestaozabele/alertas/internal/files"
	httpmiddleware "github.com/gestaozabele/alertas/internal/http/middleware"
	"github.com/gestaozabele/alertas/internal/identity"
	"github.com/gestaozabele/alertas/internal/storage"
)

// Handler agrega os serviços expostos pela API.
type Handler struct {
	cfg    *config.Config
	pool   *pgxpool.Pool
	redis  *redis.Client
	admins *admin.Service
	alerts *alert.Service
	files  *files.Service
}

// NewRouter devolve roteador configurado.
func NewRouter(cfg *config.Config, pool *pgxpool.Pool, redisClient *redis.Client, verifier *auth.TokenVerifier) (http.Handler, error) {
	var userChecker admin.UserChecker
	if cfg.ClerkSecretKey != "" {
		client, err := identity.NewClerkClient(identity.ClerkConfig{
			SecretKey: cfg.ClerkSecretKey,
			APIBase:   cfg.ClerkAPIBase,
		})
		if err != nil {
			return nil, fmt.Errorf("clerk: %w", err)
		}
		userChecker = client
	} else {
		log.Warn().Msg("CLERK_SECRET_KEY ausente; checagem de usuários desabilitada")
	}

	var presigner storage.Presigner = storage.NoopPresigner{}
	switch cfg.Storage.Provider {
	case "", "noop":
		// mantém presigner padrão
	case "s3", "r2", "minio":
		var err error
		presigner, err = storage.NewS3Presigner(storage.S3Config{
			Endpoint:  cfg.Storage.S3Endpoint,
			Region:    cfg.Storage.S3Region,
			Bucket:    cfg.Storage.S3Bucket,
			AccessKey: cfg.Storage.S3Access,
			SecretKey: cfg.Storage.S3Secret,
			Expiry:    cfg.Storage.PresignTTL,
		})
		if err != nil {
			return nil, fmt.Errorf("storage: %w", err)
		}
	default:
		return nil, fmt.Errorf("storage: provedor %s não suportado", cfg.Storage.Provider)
	}

	adminRepo := admin.NewRepository(pool)
	adminService := admin.NewService(adminRepo, userChecker)

	alertRepo := alert.NewRepository(pool)
	alertService := alert.NewService(alertRepo, adminService)

	filesService := files.NewService(presigner, alertRepo, adminService, redisClient, cfg.Storage.PresignTTL)

	h := &Handler{
		cfg:    cfg,
		pool:   pool,
		redis:  redisClient,
		admins: adminService,
		alerts: alertService,
		files:  filesService,
	}

	publicLimiter := httpmiddleware.NewRateLimiter(cfg.RateLimitPublic.RequestsPerSecond, cfg.RateLimitPublic.Burst)
	authLimiter := httpmiddleware.NewRateLimiter(cfg.RateLimitAuth.RequestsPerSecond, cfg.RateLimitAuth.Burst)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(httpmiddleware.Logging)
	r.Use(httpmiddleware.Recover)
	r.Use(httpmiddleware.CORS(cfg.AllowOrigins))

	r.Group(func(public chi.Router) {
		public.Use(httpmiddleware.IPRateLimit(publicLimiter))
		public.Use(httpmiddleware.OptionalAuth(verifier))

		public.Get("/health", h.Health)
		public.Get("/ready", h.Ready)

		public.Get("/alerts", h.ListAlerts)
		public.Get("/alerts/{id}", h.GetAlert)
		public.Get("/alerts/{id}/images", h.AlertImageURLs)

		public.Get("/admins", h.ListAdmins)
		public.Get("/admins/any", h.HasAnyAdmin)

		public.Get("/files/url", h.GetImageURL)
	})

	r.Group(func(private chi.Router) {
		private.Use(httpmiddleware.Auth(verifier))
		private.Use(httpmiddleware.UserRateLimit(authLimiter))

		private.Post("/alerts", h.CreateAlert)
		private.Get("/alerts/mine", h.MyAlerts)
		private.Patch("/alerts/{id}/status", h.UpdateAlertStatus)
		private.Post("/alerts/{id}/notes", h.AddAlertNote)

		private.Post("/admins/bootstrap", h.BootstrapAdmin)
		private.Get("/admins/me", h.IsAdmin)
		private.Get("/admins/me/claims", h.IsAdminByClaims)
		private.Post("/admins", h.AddAdmin)
		private.Delete("/admins", h.RemoveAdmin)
		private.Post("/admins/check-user", h.CheckUserExists)

		private.Post("/files/upload-url", h.GenerateUploadURL)
		private.Post("/files/urls", h.GetImageURLs)
	})

	return r, nil
}

// Health responde status simples.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready valida conexões com Postgres e Redis.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	dbErr := h.pool.Ping(ctx)
	redisErr := h.redis.Ping(ctx).Err()

	if dbErr != nil || redisErr != nil {
		WriteError(w, http.StatusServiceUnavailable, "INTERNAL", "dependências indisponíveis")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]bool{"ready": true})
}
