package storage

import (
	"context"
	"fmt"

	"firebase-mcp/internal/config"
	"firebase-mcp/internal/shared/logger"
	"firebase-mcp/internal/storage/adapter/s3"
	"firebase-mcp/internal/storage/domain/repository"
	"firebase-mcp/internal/storage/usecase"
)

// StorageModule represents the blob store and the storage usecase
type StorageModule struct {
	Store   repository.BlobStore
	Usecase *usecase.StorageUsecase
}

// NewStorageModule connects the S3-compatible store when cfg is enabled.
// Without it, file tools report not initialized.
func NewStorageModule(cfg config.StorageConfig, log logger.Logger) (*StorageModule, error) {
	if log == nil {
		log = logger.NewNopLogger()
	}
	log = log.WithComponent("storage")

	var store repository.BlobStore
	if cfg.Enabled() {
		s3Store, err := s3.New(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create blob store: %w", err)
		}
		store = s3Store
		log.Infof("Using bucket %s at %s", cfg.Bucket, cfg.Endpoint)
	} else {
		log.Warn("No storage bucket configured; file tools will report not initialized")
	}

	return &StorageModule{
		Store:   store,
		Usecase: usecase.NewStorageUsecase(store, cfg, log),
	}, nil
}

// HealthCheck checks the bucket when one is configured
func (m *StorageModule) HealthCheck(ctx context.Context) error {
	if m.Store == nil {
		return nil
	}
	return m.Store.Ping(ctx)
}
