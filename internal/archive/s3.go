// Package archive copies exported statements to S3-compatible object storage.
package archive

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"path"
	"sync"

	"ledger-backend/internal/config"
	"ledger-backend/internal/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type S3Archiver struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewS3Archiver builds a client from the archive section. A custom endpoint
// (R2, MinIO) is used when set; static keys win over the default chain.
func NewS3Archiver(ctx context.Context, cfg *config.Config) (*S3Archiver, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Archive.Region),
	}
	if cfg.Archive.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.Archive.AccessKey,
			cfg.Archive.SecretKey,
			"",
		)))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("configure archive client: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Archive.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Archive.Endpoint)
			o.UsePathStyle = true
		}
	})

	log.Printf("[Archive] Using bucket %s", cfg.Archive.Bucket)
	return &S3Archiver{client: client, bucket: cfg.Archive.Bucket, prefix: cfg.Archive.Prefix}, nil
}

func (a *S3Archiver) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	objectKey := path.Join(a.prefix, key)
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(objectKey),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("put %s: %w", objectKey, err)
	}
	return fmt.Sprintf("s3://%s/%s", a.bucket, objectKey), nil
}

// Memory keeps archived objects in a map. Used when no bucket is configured
// and in tests.
type Memory struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{objects: make(map[string][]byte)}
}

func (m *Memory) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = append([]byte(nil), data...)
	return "mem://" + key, nil
}

// Object returns a stored object and whether it exists
func (m *Memory) Object(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[key]
	return data, ok
}

var (
	_ interfaces.Archiver = (*S3Archiver)(nil)
	_ interfaces.Archiver = (*Memory)(nil)
)
