/*
Package storage provides the object-storage service used for user avatar assets.

Uploads never pass through the server: clients receive short-lived presigned
URLs and talk to the bucket directly.
*/
package storage

import (
	"context"
	"time"
)

// ServiceConfig holds the configuration required to connect to the asset bucket.
type ServiceConfig struct {
	BucketName      string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

// AssetService defines the public interface for the asset storage service.
type AssetService interface {
	// PresignUpload generates a pre-signed URL for uploading an asset.
	PresignUpload(ctx context.Context, key string, mimeType string, size int64, duration time.Duration) (string, error)

	// PresignDownload generates a pre-signed URL for downloading an asset.
	PresignDownload(ctx context.Context, key string, duration time.Duration) (string, error)

	// Delete removes the asset with the given key.
	Delete(ctx context.Context, key string) error
}

// NewAssetService initializes the concrete S3-compatible implementation.
func NewAssetService(cfg ServiceConfig) (AssetService, error) {
	return newS3Client(cfg)
}
