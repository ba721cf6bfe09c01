// Package evidence stores supporting evidence artifacts uploaded by
// suppliers. An artifact is referenced from an answer by an opaque ref
// string; the blob itself lives in local disk, S3, or GCS.
package evidence

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// StorageClient abstracts blob storage for evidence artifacts.
type StorageClient interface {
	PutArtifact(ctx context.Context, supplierID, ref string, data []byte) error
	GetArtifact(ctx context.Context, supplierID, ref string) ([]byte, error)
}

// NewRef returns a fresh opaque artifact reference.
func NewRef() string {
	return uuid.New().String()
}

// LocalStorage implements StorageClient using the local filesystem.
// Useful for development and testing.
type LocalStorage struct {
	BaseDir string
}

// NewLocalStorage creates a LocalStorage rooted at the given directory.
func NewLocalStorage(baseDir string) *LocalStorage {
	return &LocalStorage{BaseDir: baseDir}
}

func (s *LocalStorage) path(supplierID, ref string) string {
	return filepath.Join(s.BaseDir, supplierID, "artifacts", ref)
}

// PutArtifact stores an artifact blob.
func (s *LocalStorage) PutArtifact(ctx context.Context, supplierID, ref string, data []byte) error {
	path := s.path(supplierID, ref)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// GetArtifact retrieves an artifact blob.
func (s *LocalStorage) GetArtifact(ctx context.Context, supplierID, ref string) ([]byte, error) {
	return os.ReadFile(s.path(supplierID, ref))
}
