package repository

import (
	"context"

	"firebase-mcp/internal/firestore/domain/model"
)

// DocumentStore defines the document database operations the tools are built on.
// Implementations return errors.ErrDocumentNotFound (possibly wrapped) when a
// path names no document.
type DocumentStore interface {
	// Document methods
	Get(ctx context.Context, path string) (*model.Document, error)
	// Create stores data under a generated id in collectionPath.
	Create(ctx context.Context, collectionPath string, data map[string]interface{}) (*model.Document, error)
	// Set creates or overwrites the document at path.
	Set(ctx context.Context, path string, data map[string]interface{}) (*model.Document, error)
	// Update merges data into an existing document.
	Update(ctx context.Context, path string, data map[string]interface{}) (*model.Document, error)
	// Delete removes the document at path. Deleting a missing document succeeds.
	Delete(ctx context.Context, path string) error

	// Query methods; results are ordered by document id.
	Query(ctx context.Context, query model.Query) ([]*model.Document, error)
	// Count returns the number of matches, ignoring query.Limit.
	Count(ctx context.Context, query model.Query) (int64, error)
	// ListCollections lists collections below documentPath, or root collections when empty.
	ListCollections(ctx context.Context, documentPath string) ([]model.CollectionRef, error)

	// Atomic operations (Field Transforms)
	ArrayUnion(ctx context.Context, path string, field string, elements []interface{}) error
	ArrayRemove(ctx context.Context, path string, field string, elements []interface{}) error

	Ping(ctx context.Context) error
}

// ChangePublisher receives every successful mutation.
type ChangePublisher interface {
	Publish(ctx context.Context, event model.ChangeEvent) error
}
