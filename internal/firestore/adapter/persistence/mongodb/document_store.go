package mongodb

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"firebase-mcp/internal/firestore/domain/model"
	"firebase-mcp/internal/firestore/domain/repository"
	sharedErrors "firebase-mcp/internal/shared/errors"
	"firebase-mcp/internal/shared/logger"
	"firebase-mcp/internal/shared/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var _ repository.DocumentStore = (*DocumentStore)(nil)

// storedDocument is the layout of one document in the documents collection.
// Every path level lives in the same MongoDB collection, keyed by full path.
type storedDocument struct {
	Path         string                 `bson:"_id"`
	Collection   string                 `bson:"collection"`
	Parent       string                 `bson:"parent"`
	CollectionID string                 `bson:"collectionId"`
	DocumentID   string                 `bson:"documentId"`
	Fields       map[string]interface{} `bson:"fields"`
	CreateTime   time.Time              `bson:"createTime"`
	UpdateTime   time.Time              `bson:"updateTime"`
}

func (s *storedDocument) toModel() *model.Document {
	data := decodeMap(s.Fields)
	return &model.Document{
		ID:         s.DocumentID,
		Path:       s.Path,
		Data:       data,
		CreateTime: s.CreateTime.UTC(),
		UpdateTime: s.UpdateTime.UTC(),
	}
}

// DocumentStore implements repository.DocumentStore on a single MongoDB collection.
type DocumentStore struct {
	col    CollectionInterface
	atomic *AtomicOperations
	ping   func(ctx context.Context) error
	logger logger.Logger
	now    func() time.Time
	newID  func() string
}

// NewDocumentStore creates a store over db.Collection(collectionName).
func NewDocumentStore(db *mongo.Database, collectionName string, log logger.Logger) *DocumentStore {
	store := NewDocumentStoreWithCollection(NewMongoCollectionAdapter(db.Collection(collectionName)), log)
	store.ping = func(ctx context.Context) error { return db.Client().Ping(ctx, nil) }
	return store
}

// NewDocumentStoreWithCollection creates a store over any CollectionInterface.
func NewDocumentStoreWithCollection(col CollectionInterface, log logger.Logger) *DocumentStore {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &DocumentStore{
		col:    col,
		atomic: NewAtomicOperations(col),
		ping:   func(context.Context) error { return nil },
		logger: log.WithComponent("mongodb-document-store"),
		now:    func() time.Time { return time.Now().UTC() },
		newID:  utils.NewDocumentID,
	}
}

// EnsureIndexes creates the indexes used by queries and collection listing.
func EnsureIndexes(ctx context.Context, col *mongo.Collection) error {
	_, err := col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "collection", Value: 1}, {Key: "documentId", Value: 1}}},
		{Keys: bson.D{{Key: "parent", Value: 1}, {Key: "collectionId", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create document indexes: %w", err)
	}
	return nil
}

func notFound(path string) error {
	return fmt.Errorf("%w: %s", sharedErrors.ErrDocumentNotFound, path)
}

func pathParts(path string) (collection, parent, collectionID, documentID string) {
	collection = model.ParentPath(path)
	parent = model.ParentPath(collection)
	collectionID = model.LastSegment(collection)
	documentID = model.LastSegment(path)
	return
}

// Get loads the document at path.
func (s *DocumentStore) Get(ctx context.Context, path string) (*model.Document, error) {
	if err := model.ValidateDocumentPath(path); err != nil {
		return nil, err
	}
	var stored storedDocument
	err := s.col.FindOne(ctx, bson.M{"_id": model.JoinPath(path)}).Decode(&stored)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, notFound(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return stored.toModel(), nil
}

// Create inserts data under a generated id.
func (s *DocumentStore) Create(ctx context.Context, collectionPath string, data map[string]interface{}) (*model.Document, error) {
	if err := model.ValidateCollectionPath(collectionPath); err != nil {
		return nil, err
	}
	now := s.now()
	path := model.JoinPath(collectionPath, s.newID())
	collection, parent, collectionID, documentID := pathParts(path)
	resolved := model.ResolveServerTimestamps(data, now)

	stored := bson.M{
		"_id":          path,
		"collection":   collection,
		"parent":       parent,
		"collectionId": collectionID,
		"documentId":   documentID,
		"fields":       encodeFields(resolved),
		"createTime":   now,
		"updateTime":   now,
	}
	if _, err := s.col.InsertOne(ctx, stored); err != nil {
		return nil, fmt.Errorf("failed to insert document: %w", err)
	}
	s.logger.Debugf("created document %s", path)
	return &model.Document{ID: documentID, Path: path, Data: resolved, CreateTime: now, UpdateTime: now}, nil
}

// Set creates or overwrites the document at path, keeping its original create time.
func (s *DocumentStore) Set(ctx context.Context, path string, data map[string]interface{}) (*model.Document, error) {
	if err := model.ValidateDocumentPath(path); err != nil {
		return nil, err
	}
	now := s.now()
	path = model.JoinPath(path)
	collection, parent, collectionID, documentID := pathParts(path)
	resolved := model.ResolveServerTimestamps(data, now)

	update := bson.M{
		"$set": bson.M{
			"collection":   collection,
			"parent":       parent,
			"collectionId": collectionID,
			"documentId":   documentID,
			"fields":       encodeFields(resolved),
			"updateTime":   now,
		},
		"$setOnInsert": bson.M{"createTime": now},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var stored storedDocument
	if err := s.col.FindOneAndUpdate(ctx, bson.M{"_id": path}, update, opts).Decode(&stored); err != nil {
		return nil, fmt.Errorf("failed to set document: %w", err)
	}
	return stored.toModel(), nil
}

// Update merges data into the existing document. Keys may be dotted field paths.
func (s *DocumentStore) Update(ctx context.Context, path string, data map[string]interface{}) (*model.Document, error) {
	if err := model.ValidateDocumentPath(path); err != nil {
		return nil, err
	}
	now := s.now()
	set := bson.M{"updateTime": now}
	for field, value := range model.ResolveServerTimestamps(data, now) {
		set[fieldKey(field)] = encodeValue(value)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var stored storedDocument
	err := s.col.FindOneAndUpdate(ctx, bson.M{"_id": model.JoinPath(path)}, bson.M{"$set": set}, opts).Decode(&stored)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("no document to update: %w", notFound(path))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update document: %w", err)
	}
	return stored.toModel(), nil
}

// Delete removes the document at path. A missing document is not an error.
func (s *DocumentStore) Delete(ctx context.Context, path string) error {
	if err := model.ValidateDocumentPath(path); err != nil {
		return err
	}
	if _, err := s.col.DeleteOne(ctx, bson.M{"_id": model.JoinPath(path)}); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}

// Query runs a filtered query ordered by document id.
func (s *DocumentStore) Query(ctx context.Context, query model.Query) ([]*model.Document, error) {
	if err := model.ValidateCollectionPath(query.Path); err != nil {
		return nil, err
	}
	selector, err := buildQueryFilter(query)
	if err != nil {
		return nil, err
	}
	opts := options.Find().SetSort(bson.D{{Key: "documentId", Value: 1}})
	if query.Limit > 0 {
		opts.SetLimit(int64(query.Limit))
	}

	cursor, err := s.col.Find(ctx, selector, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []*model.Document
	for cursor.Next(ctx) {
		var stored storedDocument
		if err := cursor.Decode(&stored); err != nil {
			return nil, fmt.Errorf("failed to decode document: %w", err)
		}
		docs = append(docs, stored.toModel())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return docs, nil
}

// Count counts every match, ignoring the limit.
func (s *DocumentStore) Count(ctx context.Context, query model.Query) (int64, error) {
	if err := model.ValidateCollectionPath(query.Path); err != nil {
		return 0, err
	}
	selector, err := buildQueryFilter(query)
	if err != nil {
		return 0, err
	}
	count, err := s.col.CountDocuments(ctx, selector)
	if err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}
	return count, nil
}

// ListCollections returns the distinct collection ids stored below documentPath.
func (s *DocumentStore) ListCollections(ctx context.Context, documentPath string) ([]model.CollectionRef, error) {
	parent := model.JoinPath(documentPath)
	if parent != "" {
		if err := model.ValidateDocumentPath(parent); err != nil {
			return nil, err
		}
	}
	values, err := s.col.Distinct(ctx, "collectionId", bson.M{"parent": parent})
	if err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}

	refs := make([]model.CollectionRef, 0, len(values))
	for _, v := range values {
		id, ok := v.(string)
		if !ok || id == "" {
			continue
		}
		refs = append(refs, model.CollectionRef{ID: id, Path: model.JoinPath(parent, id), ParentPath: parent})
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].ID < refs[j].ID })
	return refs, nil
}

// ArrayUnion delegates to AtomicOperations.
func (s *DocumentStore) ArrayUnion(ctx context.Context, path string, field string, elements []interface{}) error {
	if err := model.ValidateDocumentPath(path); err != nil {
		return err
	}
	return s.atomic.ArrayUnion(ctx, model.JoinPath(path), field, elements)
}

// ArrayRemove delegates to AtomicOperations.
func (s *DocumentStore) ArrayRemove(ctx context.Context, path string, field string, elements []interface{}) error {
	if err := model.ValidateDocumentPath(path); err != nil {
		return err
	}
	return s.atomic.ArrayRemove(ctx, model.JoinPath(path), field, elements)
}

// Ping checks the server connection.
func (s *DocumentStore) Ping(ctx context.Context) error {
	return s.ping(ctx)
}

func encodeFields(data map[string]interface{}) bson.M {
	out := make(bson.M, len(data))
	for k, v := range data {
		out[k] = encodeValue(v)
	}
	return out
}
