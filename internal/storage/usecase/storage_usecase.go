package usecase

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"firebase-mcp/internal/config"
	firestoreModel "firebase-mcp/internal/firestore/domain/model"
	sharedErrors "firebase-mcp/internal/shared/errors"
	"firebase-mcp/internal/shared/logger"
	"firebase-mcp/internal/storage/domain/model"
	"firebase-mcp/internal/storage/domain/repository"

	"go.uber.org/zap"
)

// NotInitializedMessage is returned when no bucket is configured.
const NotInitializedMessage = "Firebase Storage is not initialized. STORAGE_ENDPOINT and STORAGE_BUCKET environment variables are required."

// Page size bounds for ListFiles
const (
	DefaultPageSize = 100
	MaxPageSize     = 1000
)

// FileEntry is one file in a listing.
type FileEntry struct {
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	ContentType string `json:"contentType,omitempty"`
	Updated     string `json:"updated"`
}

// ListFilesResult is one page of a directory listing.
type ListFilesResult struct {
	Directory     string      `json:"directory"`
	Files         []FileEntry `json:"files"`
	Directories   []string    `json:"directories"`
	NextPageToken *string     `json:"nextPageToken"`
	HasMore       bool        `json:"hasMore"`
}

// FileInfoResult is the metadata of one file plus an access URL.
type FileInfoResult struct {
	Name        string            `json:"name"`
	Bucket      string            `json:"bucket"`
	Size        int64             `json:"size"`
	ContentType string            `json:"contentType"`
	Updated     string            `json:"updated"`
	ETag        string            `json:"etag"`
	Metadata    map[string]string `json:"metadata"`
	DownloadURL string            `json:"downloadUrl"`
}

// StorageUsecase implements the storage tools on top of a BlobStore.
type StorageUsecase struct {
	store  repository.BlobStore
	cfg    config.StorageConfig
	logger logger.Logger
}

// NewStorageUsecase creates the usecase. store may be nil.
func NewStorageUsecase(store repository.BlobStore, cfg config.StorageConfig, log logger.Logger) *StorageUsecase {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &StorageUsecase{
		store:  store,
		cfg:    cfg,
		logger: log.WithComponent("storage-usecase"),
	}
}

func (uc *StorageUsecase) requireStore() error {
	if uc.store == nil {
		return sharedErrors.NewNotInitializedError(NotInitializedMessage).WithComponent("storage")
	}
	return nil
}

// ListFiles lists the files and subdirectories directly below directoryPath.
// An absent directory yields an empty listing.
func (uc *StorageUsecase) ListFiles(ctx context.Context, directoryPath string, pageSize int, pageToken string) (*ListFilesResult, error) {
	if err := uc.requireStore(); err != nil {
		return nil, err
	}
	switch {
	case pageSize <= 0:
		pageSize = DefaultPageSize
	case pageSize > MaxPageSize:
		pageSize = MaxPageSize
	}
	token, err := firestoreModel.PageToken(pageToken).Decode()
	if err != nil {
		return nil, sharedErrors.NewValidationError("Invalid page token: " + pageToken)
	}

	prefix := model.NormalizeDirectory(directoryPath)
	uc.logger.WithContext(ctx).Debug("Listing files",
		zap.String("prefix", prefix),
		zap.Int("pageSize", pageSize))

	page, err := uc.store.List(ctx, prefix, pageSize, token)
	if err != nil {
		uc.logger.WithContext(ctx).Error("Failed to list files", zap.String("prefix", prefix), zap.Error(err))
		return nil, sharedErrors.WrapBackend(err, "Error listing files")
	}

	result := &ListFilesResult{
		Directory:   prefix,
		Files:       make([]FileEntry, 0, len(page.Objects)),
		Directories: page.Prefixes,
		HasMore:     page.Truncated && page.NextToken != "",
	}
	for _, obj := range page.Objects {
		result.Files = append(result.Files, FileEntry{
			Name:        obj.Key,
			Size:        obj.Size,
			ContentType: obj.ContentType,
			Updated:     firestoreModel.FormatISO(obj.LastModified),
		})
	}
	if result.Directories == nil {
		result.Directories = []string{}
	}
	if result.HasMore {
		next := firestoreModel.EncodePageToken(page.NextToken).String()
		result.NextPageToken = &next
	}
	return result, nil
}

// GetFileInfo returns the metadata of one file and a URL to download it.
func (uc *StorageUsecase) GetFileInfo(ctx context.Context, filePath string) (*FileInfoResult, error) {
	if err := uc.requireStore(); err != nil {
		return nil, err
	}
	key := strings.TrimPrefix(filePath, "/")
	if key == "" {
		return nil, sharedErrors.NewValidationError("filePath is required")
	}
	log := uc.logger.WithContext(ctx)
	log.Debug("Getting file info", zap.String("key", key))

	obj, err := uc.store.Stat(ctx, key)
	if err != nil {
		if errors.Is(err, sharedErrors.ErrFileNotFound) {
			return nil, sharedErrors.NewNotFoundError("File not found: " + filePath)
		}
		log.Error("Failed to get file info", zap.String("key", key), zap.Error(err))
		return nil, sharedErrors.WrapBackend(err, "Error getting file info")
	}

	downloadURL, err := uc.downloadURL(ctx, key)
	if err != nil {
		return nil, sharedErrors.WrapBackend(err, "Error getting file info")
	}

	metadata := obj.Metadata
	if metadata == nil {
		metadata = map[string]string{}
	}
	return &FileInfoResult{
		Name:        obj.Key,
		Bucket:      uc.store.Bucket(),
		Size:        obj.Size,
		ContentType: obj.ContentType,
		Updated:     firestoreModel.FormatISO(obj.LastModified),
		ETag:        obj.ETag,
		Metadata:    metadata,
		DownloadURL: downloadURL,
	}, nil
}

// downloadURL prefers the public base URL and falls back to a presigned URL.
func (uc *StorageUsecase) downloadURL(ctx context.Context, key string) (string, error) {
	if uc.cfg.PublicBaseURL != "" {
		segments := strings.Split(key, "/")
		for i, s := range segments {
			segments[i] = url.PathEscape(s)
		}
		return strings.TrimRight(uc.cfg.PublicBaseURL, "/") + "/" + strings.Join(segments, "/"), nil
	}
	return uc.store.PresignGet(ctx, key, uc.cfg.URLExpiry)
}
