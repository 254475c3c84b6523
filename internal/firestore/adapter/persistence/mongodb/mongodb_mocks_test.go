package mongodb

import (
	"context"
	"reflect"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mockCollection implements CollectionInterface for unit tests.
type mockCollection struct{ mock.Mock }

func (m *mockCollection) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockCollection) InsertOne(ctx context.Context, doc interface{}) (interface{}, error) {
	args := m.Called(ctx, doc)
	return args.Get(0), args.Error(1)
}

func (m *mockCollection) FindOne(ctx context.Context, filter interface{}) SingleResultInterface {
	args := m.Called(ctx, filter)
	return args.Get(0).(SingleResultInterface)
}

func (m *mockCollection) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (UpdateResultInterface, error) {
	args := m.Called(ctx, filter, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(UpdateResultInterface), args.Error(1)
}

func (m *mockCollection) DeleteOne(ctx context.Context, filter interface{}) (DeleteResultInterface, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(DeleteResultInterface), args.Error(1)
}

func (m *mockCollection) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (CursorInterface, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(CursorInterface), args.Error(1)
}

func (m *mockCollection) Distinct(ctx context.Context, fieldName string, filter interface{}) ([]interface{}, error) {
	args := m.Called(ctx, fieldName, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]interface{}), args.Error(1)
}

func (m *mockCollection) FindOneAndUpdate(ctx context.Context, filter interface{}, update interface{}, opts ...*options.FindOneAndUpdateOptions) SingleResultInterface {
	args := m.Called(ctx, filter, update)
	return args.Get(0).(SingleResultInterface)
}

// fakeSingleResult decodes a prepared storedDocument or returns err.
type fakeSingleResult struct {
	doc *storedDocument
	err error
}

func (r *fakeSingleResult) Decode(v interface{}) error {
	if r.err != nil {
		return r.err
	}
	reflect.ValueOf(v).Elem().Set(reflect.ValueOf(*r.doc))
	return nil
}

type matchedResult int64

func (r matchedResult) Matched() int64 { return int64(r) }

type deletedResult int64

func (r deletedResult) Deleted() int64 { return int64(r) }

// fakeCursor iterates over prepared documents.
type fakeCursor struct {
	docs   []storedDocument
	pos    int
	closed bool
	err    error
}

func (c *fakeCursor) Next(ctx context.Context) bool {
	if c.pos >= len(c.docs) {
		return false
	}
	c.pos++
	return true
}

func (c *fakeCursor) Decode(val interface{}) error {
	reflect.ValueOf(val).Elem().Set(reflect.ValueOf(c.docs[c.pos-1]))
	return nil
}

func (c *fakeCursor) Close(ctx context.Context) error {
	c.closed = true
	return nil
}

func (c *fakeCursor) Err() error { return c.err }
