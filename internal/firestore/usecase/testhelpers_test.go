package usecase

import (
	"context"
	"time"

	"firebase-mcp/internal/config"
	"firebase-mcp/internal/firestore/adapter/persistence/memory"
	"firebase-mcp/internal/firestore/domain/model"
	"firebase-mcp/internal/firestore/domain/repository"

	"github.com/stretchr/testify/mock"
)

var fixedNow = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

var testProject = config.FirebaseConfig{
	ProjectID:      "demo",
	ConsoleBaseURL: "https://console.firebase.google.com",
}

const consolePrefix = "https://console.firebase.google.com/project/demo/firestore/data/"

// newTestUsecase returns a usecase over a fresh memory store with a fixed clock.
func newTestUsecase(publisher repository.ChangePublisher) (*DocumentUsecase, *memory.DocumentStore) {
	store := memory.NewDocumentStore(memory.WithClock(func() time.Time { return fixedNow }))
	uc := NewDocumentUsecase(store, publisher, testProject, nil)
	uc.now = func() time.Time { return fixedNow }
	return uc, store
}

// MockPublisher is a mock implementation of repository.ChangePublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, event model.ChangeEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// MockDocumentStore is a mock implementation of repository.DocumentStore
type MockDocumentStore struct {
	mock.Mock
}

func (m *MockDocumentStore) Get(ctx context.Context, path string) (*model.Document, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentStore) Create(ctx context.Context, collectionPath string, data map[string]interface{}) (*model.Document, error) {
	args := m.Called(ctx, collectionPath, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentStore) Set(ctx context.Context, path string, data map[string]interface{}) (*model.Document, error) {
	args := m.Called(ctx, path, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentStore) Update(ctx context.Context, path string, data map[string]interface{}) (*model.Document, error) {
	args := m.Called(ctx, path, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentStore) Delete(ctx context.Context, path string) error {
	return m.Called(ctx, path).Error(0)
}

func (m *MockDocumentStore) Query(ctx context.Context, query model.Query) ([]*model.Document, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Document), args.Error(1)
}

func (m *MockDocumentStore) Count(ctx context.Context, query model.Query) (int64, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDocumentStore) ListCollections(ctx context.Context, documentPath string) ([]model.CollectionRef, error) {
	args := m.Called(ctx, documentPath)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CollectionRef), args.Error(1)
}

func (m *MockDocumentStore) ArrayUnion(ctx context.Context, path string, field string, elements []interface{}) error {
	return m.Called(ctx, path, field, elements).Error(0)
}

func (m *MockDocumentStore) ArrayRemove(ctx context.Context, path string, field string, elements []interface{}) error {
	return m.Called(ctx, path, field, elements).Error(0)
}

func (m *MockDocumentStore) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

var _ repository.DocumentStore = (*MockDocumentStore)(nil)
