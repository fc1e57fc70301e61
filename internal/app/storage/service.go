package storage

import (
	"context"
	"io"
)

// ServiceConfig holds the configuration required to connect to the storage service.
type ServiceConfig struct {
	S3BucketName      string
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string

	// PublicBaseURL is the base under which stored objects are publicly
	// resolvable. PublicURL joins it with the object key.
	PublicBaseURL string
}

// StorageService defines the public interface for the file storage service.
type StorageService interface {
	// Upload stores the given bytes under key and returns the stored object's path.
	Upload(ctx context.Context, key string, body io.Reader, mimeType string, size int64) (string, error)

	// Delete removes the file specified by the given key.
	Delete(ctx context.Context, key string) error

	// PublicURL resolves the publicly reachable URL for a stored object path.
	PublicURL(path string) string

	// KeyFromURL derives the object key from a public URL previously issued by
	// PublicURL. It reports false when the URL does not belong to this store.
	KeyFromURL(url string) (string, bool)
}

// NewStorageService is the factory function for StorageService.
// It initializes and returns a concrete implementation based on the provided configuration.
func NewStorageService(cfg ServiceConfig) (StorageService, error) {
	// Currently, only S3 compatible implementations are supported.
	return newS3Client(cfg)
}
