package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"firebase-mcp/internal/firestore/domain/model"
	"firebase-mcp/internal/firestore/domain/repository"
	"firebase-mcp/internal/shared/errors"
	"firebase-mcp/internal/shared/utils"
)

var _ repository.DocumentStore = (*DocumentStore)(nil)

// DocumentStore keeps documents in process memory, keyed by full path.
type DocumentStore struct {
	mu    sync.RWMutex
	docs  map[string]*model.Document
	now   func() time.Time
	newID func() string
}

// Option configures a DocumentStore.
type Option func(*DocumentStore)

// WithClock overrides the clock used for server timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *DocumentStore) { s.now = now }
}

// WithIDGenerator overrides generation of document ids.
func WithIDGenerator(newID func() string) Option {
	return func(s *DocumentStore) { s.newID = newID }
}

// NewDocumentStore creates an empty store.
func NewDocumentStore(opts ...Option) *DocumentStore {
	s := &DocumentStore{
		docs:  make(map[string]*model.Document),
		now:   func() time.Time { return time.Now().UTC() },
		newID: utils.NewDocumentID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func notFound(path string) error {
	return fmt.Errorf("%w: %s", errors.ErrDocumentNotFound, path)
}

func cloneDocument(doc *model.Document) *model.Document {
	out := *doc
	out.Data = copyData(doc.Data)
	return &out
}

// Get returns a copy of the document at path.
func (s *DocumentStore) Get(ctx context.Context, path string) (*model.Document, error) {
	if err := model.ValidateDocumentPath(path); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[model.JoinPath(path)]
	if !ok {
		return nil, notFound(path)
	}
	return cloneDocument(doc), nil
}

// Create stores data under a generated id.
func (s *DocumentStore) Create(ctx context.Context, collectionPath string, data map[string]interface{}) (*model.Document, error) {
	if err := model.ValidateCollectionPath(collectionPath); err != nil {
		return nil, err
	}
	return s.Set(ctx, model.JoinPath(collectionPath, s.newID()), data)
}

// Set creates or overwrites the document at path.
func (s *DocumentStore) Set(ctx context.Context, path string, data map[string]interface{}) (*model.Document, error) {
	if err := model.ValidateDocumentPath(path); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	key := model.JoinPath(path)
	doc := &model.Document{
		ID:         model.LastSegment(key),
		Path:       key,
		Data:       model.ResolveServerTimestamps(copyData(data), now),
		CreateTime: now,
		UpdateTime: now,
	}
	if existing, ok := s.docs[key]; ok {
		doc.CreateTime = existing.CreateTime
	}
	s.docs[key] = doc
	return cloneDocument(doc), nil
}

// Update merges data into an existing document. Dotted keys address nested fields.
func (s *DocumentStore) Update(ctx context.Context, path string, data map[string]interface{}) (*model.Document, error) {
	if err := model.ValidateDocumentPath(path); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[model.JoinPath(path)]
	if !ok {
		return nil, notFound(path)
	}
	now := s.now()
	for field, value := range model.ResolveServerTimestamps(copyData(data), now) {
		setField(doc.Data, field, value)
	}
	doc.UpdateTime = now
	return cloneDocument(doc), nil
}

// Delete removes the document at path.
func (s *DocumentStore) Delete(ctx context.Context, path string) error {
	if err := model.ValidateDocumentPath(path); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.docs, model.JoinPath(path))
	return nil
}

func (s *DocumentStore) collect(query model.Query) ([]*model.Document, error) {
	if err := model.ValidateCollectionPath(query.Path); err != nil {
		return nil, err
	}
	collection := model.JoinPath(query.Path)

	var out []*model.Document
	for _, doc := range s.docs {
		if model.ParentPath(doc.Path) != collection {
			continue
		}
		if query.StartAfter != "" && doc.ID <= query.StartAfter {
			continue
		}
		if !matches(doc.Data, query.Filters) {
			continue
		}
		out = append(out, doc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Query returns the matching documents ordered by id.
func (s *DocumentStore) Query(ctx context.Context, query model.Query) ([]*model.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs, err := s.collect(query)
	if err != nil {
		return nil, err
	}
	if query.Limit > 0 && len(docs) > query.Limit {
		docs = docs[:query.Limit]
	}
	out := make([]*model.Document, len(docs))
	for i, doc := range docs {
		out[i] = cloneDocument(doc)
	}
	return out, nil
}

// Count returns the number of matching documents, ignoring the limit.
func (s *DocumentStore) Count(ctx context.Context, query model.Query) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs, err := s.collect(query)
	if err != nil {
		return 0, err
	}
	return int64(len(docs)), nil
}

// ListCollections lists the collections directly below documentPath.
func (s *DocumentStore) ListCollections(ctx context.Context, documentPath string) ([]model.CollectionRef, error) {
	parent := model.JoinPath(documentPath)
	if parent != "" {
		if err := model.ValidateDocumentPath(parent); err != nil {
			return nil, err
		}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	prefix := ""
	if parent != "" {
		prefix = parent + "/"
	}
	seen := make(map[string]struct{})
	for path := range s.docs {
		if !strings.HasPrefix(path, prefix) {
			continue
		}
		rest := strings.TrimPrefix(path, prefix)
		if id, _, found := strings.Cut(rest, "/"); found {
			seen[id] = struct{}{}
		}
	}

	refs := make([]model.CollectionRef, 0, len(seen))
	for id := range seen {
		refs = append(refs, model.CollectionRef{ID: id, Path: model.JoinPath(parent, id), ParentPath: parent})
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].ID < refs[j].ID })
	return refs, nil
}

// ArrayUnion appends elements not already present in the array field.
func (s *DocumentStore) ArrayUnion(ctx context.Context, path string, field string, elements []interface{}) error {
	return s.mutateArray(path, field, func(current []interface{}) []interface{} {
		for _, e := range elements {
			if !containsValue(current, e) {
				current = append(current, deepCopy(e))
			}
		}
		return current
	})
}

// ArrayRemove removes every instance of each element from the array field.
func (s *DocumentStore) ArrayRemove(ctx context.Context, path string, field string, elements []interface{}) error {
	return s.mutateArray(path, field, func(current []interface{}) []interface{} {
		kept := make([]interface{}, 0, len(current))
		for _, item := range current {
			if !containsValue(elements, item) {
				kept = append(kept, item)
			}
		}
		return kept
	})
}

func (s *DocumentStore) mutateArray(path, field string, mutate func([]interface{}) []interface{}) error {
	if err := model.ValidateDocumentPath(path); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[model.JoinPath(path)]
	if !ok {
		return notFound(path)
	}
	current := []interface{}{}
	if existing, ok := lookupField(doc.Data, field); ok {
		if arr, isArr := existing.([]interface{}); isArr {
			current = append(current, arr...)
		}
	}
	setField(doc.Data, field, mutate(current))
	doc.UpdateTime = s.now()
	return nil
}

// Ping always succeeds.
func (s *DocumentStore) Ping(ctx context.Context) error {
	return nil
}
