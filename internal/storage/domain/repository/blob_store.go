package repository

import (
	"context"
	"time"

	"firebase-mcp/internal/storage/domain/model"
)

// BlobStore defines the read-only object storage operations. Stat returns
// errors.ErrFileNotFound (possibly wrapped) for absent keys.
type BlobStore interface {
	Bucket() string
	List(ctx context.Context, prefix string, pageSize int, token string) (*model.ListPage, error)
	Stat(ctx context.Context, key string) (*model.Object, error)
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
	Ping(ctx context.Context) error
}
