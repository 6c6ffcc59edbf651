package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"github.com/quickai/server/internal/port/outbound"
	"github.com/quickai/server/internal/shared/config"
)

// Storage errors.
var (
	ErrAccessDenied = errors.New("storage access denied")
	ErrNoSuchBucket = errors.New("storage bucket not found")
	ErrInvalidKey   = errors.New("invalid object key")
)

type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type assetStorageAdapter struct {
	client  objectPutter
	bucket  string
	baseURL string
}

// NewAssetStorageAdapter creates an asset storage adapter over an S3 client.
func NewAssetStorageAdapter(client *s3.Client, cfg *config.StorageConfig) outbound.AssetStoragePort {
	return newAssetStorage(client, cfg)
}

func newAssetStorage(client objectPutter, cfg *config.StorageConfig) *assetStorageAdapter {
	return &assetStorageAdapter{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: publicBaseURL(cfg),
	}
}

// publicBaseURL returns the prefix objects are reachable under.
func publicBaseURL(cfg *config.StorageConfig) string {
	if cfg.PublicURL != "" {
		return strings.TrimSuffix(cfg.PublicURL, "/")
	}
	if cfg.Endpoint != "" {
		endpoint := strings.TrimSuffix(cfg.Endpoint, "/")
		if cfg.UsePathStyle {
			return endpoint + "/" + cfg.Bucket
		}
		if u, err := url.Parse(endpoint); err == nil && u.Host != "" {
			return u.Scheme + "://" + cfg.Bucket + "." + u.Host
		}
		return endpoint + "/" + cfg.Bucket
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
}

func (a *assetStorageAdapter) Store(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	key = strings.TrimPrefix(key, "/")
	if key == "" || strings.Contains(key, "..") {
		return "", fmt.Errorf("store %q: %w", key, ErrInvalidKey)
	}

	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(a.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("store %q: %w", key, classify(err))
	}
	return a.baseURL + "/" + key, nil
}

// classify maps well-known S3 error codes to package errors.
func classify(err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "AccessDenied", "Forbidden", "InvalidAccessKeyId", "SignatureDoesNotMatch":
			return fmt.Errorf("%w: %s", ErrAccessDenied, apiErr.ErrorMessage())
		case "NoSuchBucket":
			return ErrNoSuchBucket
		}
	}
	return err
}

// Compile-time check
var _ outbound.AssetStoragePort = (*assetStorageAdapter)(nil)
