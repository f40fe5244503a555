package storage

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// ErrNotConfigured is returned by the disabled store on every operation.
var ErrNotConfigured = errors.New("blob storage not configured")

type disabledStore struct {
	logger *zap.Logger
}

// NewDisabledStore returns a BlobStore that rejects every operation.
// Deployments without storage credentials use it so photo endpoints fail
// cleanly instead of panicking at startup.
func NewDisabledStore(logger *zap.Logger) BlobStore {
	logger.Warn("Blob storage credentials missing, photo uploads disabled")
	return &disabledStore{logger: logger}
}

func (s *disabledStore) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	return ErrNotConfigured
}

func (s *disabledStore) SignedURL(key string) (string, error) {
	return "", ErrNotConfigured
}

func (s *disabledStore) SignedDownloadURL(key, filename string) (string, error) {
	return "", ErrNotConfigured
}

func (s *disabledStore) Container() string {
	return ""
}
