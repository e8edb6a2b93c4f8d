package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// S3Config descreve parâmetros do bucket S3 (ou compatível, ex.: R2/MinIO).
type S3Config struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	Expiry    time.Duration
}

// S3Presigner assina URLs de PUT/GET usando o SDK da AWS.
type S3Presigner struct {
	cfg     S3Config
	presign *s3.PresignClient
}

// NewS3Presigner valida a configuração e prepara o cliente de assinatura.
func NewS3Presigner(cfg S3Config) (*S3Presigner, error) {
	if strings.TrimSpace(cfg.Region) == "" {
		return nil, errors.New("storage: região do S3 ausente")
	}
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, errors.New("storage: bucket do S3 ausente")
	}
	if strings.TrimSpace(cfg.AccessKey) == "" || strings.TrimSpace(cfg.SecretKey) == "" {
		return nil, errors.New("storage: credenciais do S3 ausentes")
	}
	if cfg.Expiry <= 0 {
		cfg.Expiry = 15 * time.Minute
	}

	awsCfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if strings.TrimSpace(cfg.Endpoint) != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	return &S3Presigner{cfg: cfg, presign: s3.NewPresignClient(client)}, nil
}

// PresignPut gera uma chave nova e assina a URL de upload.
func (p *S3Presigner) PresignPut(ctx context.Context) (string, string, error) {
	key := newStorageKey()

	req, err := p.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(p.cfg.Bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(p.cfg.Expiry))
	if err != nil {
		return "", "", err
	}

	return key, req.URL, nil
}

// PresignGet assina a URL de leitura para uma chave existente.
func (p *S3Presigner) PresignGet(ctx context.Context, key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", errors.New("storage: chave vazia")
	}

	req, err := p.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(p.cfg.Bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(p.cfg.Expiry))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}

func newStorageKey() string {
	now := time.Now().UTC()
	return fmt.Sprintf("alerts/%d/%02d/%s", now.Year(), now.Month(), uuid.New())
}
