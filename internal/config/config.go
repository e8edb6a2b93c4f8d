package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config centraliza a configuração carregada do ambiente.
type Config struct {
	Port             int
	DBDSN            string
	RedisURL         string
	SessionJWTSecret string
	ClerkSecretKey   string
	ClerkAPIBase     string
	AllowOrigins     []string
	MigrationsDir    string
	RateLimitPublic  RateLimitConfig
	RateLimitAuth    RateLimitConfig
	Storage          StorageConfig
}

// RateLimitConfig representa limites simples para throttling.
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// StorageConfig descreve o backend de imagens (S3 ou compatível).
type StorageConfig struct {
	Provider   string
	S3Endpoint string
	S3Region   string
	S3Bucket   string
	S3Access   string
	S3Secret   string
	PresignTTL time.Duration
}

// Load carrega variáveis de ambiente e aplica defaults seguros.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 {
		return nil, errors.New("PORT inválida")
	}
	cfg.Port = port

	cfg.DBDSN = getEnv("DB_DSN", "")
	if cfg.DBDSN == "" {
		return nil, errors.New("DB_DSN obrigatório")
	}

	cfg.RedisURL = getEnv("REDIS_URL", "")
	if cfg.RedisURL == "" {
		return nil, errors.New("REDIS_URL obrigatório")
	}

	cfg.SessionJWTSecret = strings.TrimSpace(getEnv("SESSION_JWT_SECRET", ""))
	if len(cfg.SessionJWTSecret) < 32 {
		return nil, errors.New("SESSION_JWT_SECRET deve ter pelo menos 32 caracteres")
	}

	// chave server-side do provedor de identidade; sem ela a checagem de
	// existência de usuário fica desabilitada
	cfg.ClerkSecretKey = strings.TrimSpace(getEnv("CLERK_SECRET_KEY", ""))
	cfg.ClerkAPIBase = strings.TrimSpace(getEnv("CLERK_API_BASE", ""))

	allowOrigins := strings.Split(getEnv("ALLOW_ORIGINS", ""), ",")
	cfg.AllowOrigins = nil
	for _, origin := range allowOrigins {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			cfg.AllowOrigins = append(cfg.AllowOrigins, origin)
		}
	}

	cfg.MigrationsDir = getEnv("MIGRATIONS_DIR", "migrations")

	cfg.RateLimitPublic = RateLimitConfig{RequestsPerSecond: 10, Burst: 20}
	cfg.RateLimitAuth = RateLimitConfig{RequestsPerSecond: 10, Burst: 40}

	presignTTL, err := parseDurationEnv("STORAGE_PRESIGN_TTL", 15*time.Minute)
	if err != nil {
		return nil, err
	}

	cfg.Storage = StorageConfig{
		Provider:   strings.TrimSpace(getEnv("STORAGE_PROVIDER", "noop")),
		S3Endpoint: strings.TrimSpace(getEnv("STORAGE_S3_ENDPOINT", "")),
		S3Region:   strings.TrimSpace(getEnv("STORAGE_S3_REGION", "auto")),
		S3Bucket:   strings.TrimSpace(getEnv("STORAGE_S3_BUCKET", "")),
		S3Access:   strings.TrimSpace(getEnv("STORAGE_S3_ACCESS_KEY", "")),
		S3Secret:   strings.TrimSpace(getEnv("STORAGE_S3_SECRET_KEY", "")),
		PresignTTL: presignTTL,
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return def
}

func parseDurationEnv(key string, def time.Duration) (time.Duration, error) {
	val := getEnv(key, "")
	if val == "" {
		return def, nil
	}
	dur, err := time.ParseDuration(val)
	if err != nil {
		return 0, errors.New(key + " inválido")
	}
	return dur, nil
}
