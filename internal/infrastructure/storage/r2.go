// Package storage 提供 S3 兼容对象存储实现 (Cloudflare R2)
package storage

import (
	"bytes"
	"context"
	"fmt"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/guygrubbs/dap-deploy-sub000/internal/application/report"
	"github.com/guygrubbs/dap-deploy-sub000/internal/config"
)

var tracer = otel.Tracer("storage")

const defaultPresignExpiry = 15 * time.Minute

// R2Store 基于 R2 的 PDF 对象存储
type R2Store struct {
	client        *s3.Client
	presigner     *s3.PresignClient
	bucket        string
	presignExpiry time.Duration
}

var _ report.ObjectStore = (*R2Store)(nil)

// NewR2Store 创建 R2 对象存储客户端
func NewR2Store(ctx context.Context, cfg *config.R2Config) (*R2Store, error) {
	if cfg.AccountID == "" || cfg.Bucket == "" {
		return nil, fmt.Errorf("r2 account_id and bucket are required")
	}

	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID)

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion("auto"),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID, cfg.SecretAccessKey, "",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load r2 config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = &endpoint
	})

	expiry := cfg.PresignExpiry
	if expiry <= 0 {
		expiry = defaultPresignExpiry
	}

	return &R2Store{
		client:        client,
		presigner:     s3.NewPresignClient(client),
		bucket:        cfg.Bucket,
		presignExpiry: expiry,
	}, nil
}

// UploadPDF 上传 PDF 对象
func (s *R2Store) UploadPDF(ctx context.Context, key string, data []byte) error {
	ctx, span := tracer.Start(ctx, "storage.UploadPDF",
		trace.WithAttributes(
			attribute.String("storage.key", key),
			attribute.Int("storage.size_bytes", len(data)),
		))
	defer span.End()

	contentType := "application/pdf"
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &s.bucket,
		Key:         &key,
		Body:        bytes.NewReader(data),
		ContentType: &contentType,
	})
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to upload pdf: %w", err)
	}
	return nil
}

// PresignGet 生成限时下载地址
func (s *R2Store) PresignGet(ctx context.Context, key string) (string, error) {
	ctx, span := tracer.Start(ctx, "storage.PresignGet",
		trace.WithAttributes(attribute.String("storage.key", key)))
	defer span.End()

	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
	}, s3.WithPresignExpires(s.presignExpiry))
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("failed to presign pdf url: %w", err)
	}
	return req.URL, nil
}
