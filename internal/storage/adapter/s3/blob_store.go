package s3

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"firebase-mcp/internal/config"
	sharedErrors "firebase-mcp/internal/shared/errors"
	"firebase-mcp/internal/storage/domain/model"
	"firebase-mcp/internal/storage/domain/repository"

	minio "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

var _ repository.BlobStore = (*Store)(nil)

// Store reads objects from one bucket of an S3-compatible service.
type Store struct {
	core   *minio.Core
	bucket string
}

// New creates a Store for cfg.Bucket. Static keys are used when configured,
// otherwise the AWS and MinIO environment variables.
func New(cfg config.StorageConfig) (*Store, error) {
	if !cfg.Enabled() {
		return nil, errors.New("s3: endpoint and bucket are required")
	}
	endpoint, secure := splitEndpoint(cfg.Endpoint, cfg.UseSSL)

	var creds *credentials.Credentials
	if cfg.AccessKey != "" {
		creds = credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, "")
	} else {
		creds = credentials.NewChainCredentials([]credentials.Provider{
			&credentials.EnvAWS{},
			&credentials.EnvMinio{},
		})
	}

	core, err := minio.NewCore(endpoint, &minio.Options{
		Creds:        creds,
		Secure:       secure,
		Region:       cfg.Region,
		BucketLookup: minio.BucketLookupPath,
	})
	if err != nil {
		return nil, fmt.Errorf("s3: create client: %w", err)
	}
	return &Store{core: core, bucket: cfg.Bucket}, nil
}

// splitEndpoint accepts host:port or a URL and reports whether TLS is used.
func splitEndpoint(endpoint string, useSSL bool) (string, bool) {
	switch {
	case strings.HasPrefix(endpoint, "https://"):
		return strings.TrimSuffix(strings.TrimPrefix(endpoint, "https://"), "/"), true
	case strings.HasPrefix(endpoint, "http://"):
		return strings.TrimSuffix(strings.TrimPrefix(endpoint, "http://"), "/"), false
	default:
		return strings.TrimSuffix(endpoint, "/"), useSSL
	}
}

// Bucket returns the bucket name.
func (s *Store) Bucket() string {
	return s.bucket
}

// List returns one delimited page below prefix. token is the continuation
// token of the previous page.
func (s *Store) List(ctx context.Context, prefix string, pageSize int, token string) (*model.ListPage, error) {
	// The core listing call carries no context of its own
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res, err := s.core.ListObjectsV2(s.bucket, prefix, "", token, "/", pageSize)
	if err != nil {
		return nil, fmt.Errorf("s3: list objects: %w", err)
	}

	page := &model.ListPage{
		Objects:   make([]model.Object, 0, len(res.Contents)),
		Prefixes:  make([]string, 0, len(res.CommonPrefixes)),
		Truncated: res.IsTruncated,
	}
	if res.IsTruncated {
		page.NextToken = res.NextContinuationToken
	}
	for _, obj := range res.Contents {
		// Zero-byte directory markers
		if obj.Key == prefix {
			continue
		}
		page.Objects = append(page.Objects, toObject(obj))
	}
	for _, p := range res.CommonPrefixes {
		page.Prefixes = append(page.Prefixes, p.Prefix)
	}
	return page, nil
}

// Stat returns the metadata of one object.
func (s *Store) Stat(ctx context.Context, key string) (*model.Object, error) {
	info, err := s.core.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: %s", sharedErrors.ErrFileNotFound, key)
		}
		return nil, fmt.Errorf("s3: stat object: %w", err)
	}
	obj := toObject(info)
	return &obj, nil
}

// PresignGet returns a GET URL for key valid for expiry.
func (s *Store) PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error) {
	u, err := s.core.PresignedGetObject(ctx, s.bucket, key, expiry, nil)
	if err != nil {
		return "", fmt.Errorf("s3: presign object: %w", err)
	}
	return u.String(), nil
}

// Ping checks that the bucket is reachable.
func (s *Store) Ping(ctx context.Context) error {
	ok, err := s.core.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("s3: bucket exists: %w", err)
	}
	if !ok {
		return fmt.Errorf("s3: bucket %q does not exist", s.bucket)
	}
	return nil
}

func toObject(info minio.ObjectInfo) model.Object {
	obj := model.Object{
		Key:          info.Key,
		Size:         info.Size,
		ContentType:  info.ContentType,
		ETag:         strings.Trim(info.ETag, `"`),
		LastModified: info.LastModified.UTC(),
	}
	if len(info.UserMetadata) > 0 {
		obj.Metadata = make(map[string]string, len(info.UserMetadata))
		for k, v := range info.UserMetadata {
			obj.Metadata[k] = v
		}
	}
	return obj
}

func isNotFound(err error) bool {
	errResp := minio.ErrorResponse{}
	if errors.As(err, &errResp) {
		return errResp.StatusCode == http.StatusNotFound
	}
	return false
}
