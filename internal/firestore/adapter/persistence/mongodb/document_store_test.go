package mongodb

import (
	"context"
	"errors"
	"testing"
	"time"

	"firebase-mcp/internal/firestore/domain/model"
	sharedErrors "firebase-mcp/internal/shared/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func newTestStore(col *mockCollection) *DocumentStore {
	store := NewDocumentStoreWithCollection(col, nil)
	store.now = func() time.Time { return time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC) }
	store.newID = func() string { return "generated0000000000x" }
	return store
}

func TestBuildQueryFilter(t *testing.T) {
	selector, err := buildQueryFilter(model.Query{Path: "users"})
	require.NoError(t, err)
	assert.Equal(t, bson.M{"collection": "users"}, selector)

	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	selector, err = buildQueryFilter(model.Query{
		Path:       "/zone/u1/zoneList/",
		StartAfter: "z1",
		Filters: []model.Filter{
			{Field: "age", Operator: ">=", Value: 18},
			{Field: "age", Operator: "<", Value: 65},
			{Field: "createdAt", Operator: ">", Value: ts},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "zone/u1/zoneList", selector["collection"])
	assert.Equal(t, bson.M{"$gt": "z1"}, selector["documentId"])
	assert.Equal(t, []bson.M{
		{"fields.age": bson.M{"$gte": 18}},
		{"fields.age": bson.M{"$lt": 65}},
		{"fields.createdAt": bson.M{"$gt": primitive.NewDateTimeFromTime(ts)}},
	}, selector["$and"])
}

func TestFilterClause_Operators(t *testing.T) {
	list := []interface{}{"a", "b"}
	tests := []struct {
		filter model.Filter
		want   bson.M
	}{
		{model.Filter{Field: "s", Operator: "==", Value: "x"}, bson.M{"fields.s": bson.M{"$eq": "x"}}},
		{model.Filter{Field: "s", Operator: "!=", Value: "x"}, bson.M{"fields.s": bson.M{"$ne": "x", "$exists": true}}},
		{model.Filter{Field: "n", Operator: "<=", Value: 3}, bson.M{"fields.n": bson.M{"$lte": 3}}},
		{model.Filter{Field: "n", Operator: ">", Value: 3}, bson.M{"fields.n": bson.M{"$gt": 3}}},
		{model.Filter{Field: "t", Operator: "array-contains", Value: "x"}, bson.M{"fields.t": bson.M{"$elemMatch": bson.M{"$eq": "x"}}}},
		{model.Filter{Field: "t", Operator: "array-contains-any", Value: list}, bson.M{"fields.t": bson.M{"$elemMatch": bson.M{"$in": list}}}},
		{model.Filter{Field: "s", Operator: "in", Value: list}, bson.M{"fields.s": bson.M{"$in": list}}},
		{model.Filter{Field: "s", Operator: "not-in", Value: list}, bson.M{"fields.s": bson.M{"$nin": list, "$exists": true}}},
		{model.Filter{Field: "a.b", Operator: "==", Value: nil}, bson.M{"fields.a.b": bson.M{"$eq": nil}}},
	}
	for _, tt := range tests {
		t.Run(tt.filter.Operator, func(t *testing.T) {
			got, err := filterClause(tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := filterClause(model.Filter{Field: "s", Operator: "like", Value: "x"})
	assert.Error(t, err)
}

func TestDecodeValue(t *testing.T) {
	ts := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	raw := map[string]interface{}{
		"when":  primitive.NewDateTimeFromTime(ts),
		"count": int32(4),
		"tags":  primitive.A{"a", primitive.NewDateTimeFromTime(ts)},
		"nested": primitive.D{
			{Key: "inner", Value: primitive.M{"deep": int32(1)}},
		},
	}

	out := decodeMap(raw)
	assert.Equal(t, ts, out["when"])
	assert.Equal(t, int64(4), out["count"])
	assert.Equal(t, []interface{}{"a", ts}, out["tags"])
	assert.Equal(t, map[string]interface{}{
		"inner": map[string]interface{}{"deep": int64(1)},
	}, out["nested"])
}

func TestEncodeValue_SortsDocumentKeys(t *testing.T) {
	ts := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	value := map[string]interface{}{
		"zone": "Home",
		"at":   ts,
		"meta": map[string]interface{}{"y": 1, "x": 2},
		"list": []interface{}{map[string]interface{}{"b": true, "a": false}},
	}

	got := encodeValue(value)
	assert.Equal(t, bson.D{
		{Key: "at", Value: primitive.NewDateTimeFromTime(ts)},
		{Key: "list", Value: []interface{}{bson.D{{Key: "a", Value: false}, {Key: "b", Value: true}}}},
		{Key: "meta", Value: bson.D{{Key: "x", Value: 2}, {Key: "y", Value: 1}}},
		{Key: "zone", Value: "Home"},
	}, got)

	first, err := bson.Marshal(bson.D{{Key: "v", Value: got}})
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := bson.Marshal(bson.D{{Key: "v", Value: encodeValue(value)}})
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}

	clause, err := filterClause(model.Filter{Field: "meta", Operator: "==", Value: map[string]interface{}{"y": 1, "x": 2}})
	require.NoError(t, err)
	assert.Equal(t, bson.M{"fields.meta": bson.M{"$eq": bson.D{{Key: "x", Value: 2}, {Key: "y", Value: 1}}}}, clause)

	assert.Equal(t, map[string]interface{}{"x": 2, "y": 1}, decodeValue(encodeValue(map[string]interface{}{"y": 1, "x": 2})))
}

func TestDocumentStore_Get(t *testing.T) {
	col := new(mockCollection)
	store := newTestStore(col)
	stored := &storedDocument{
		Path:       "users/ann",
		Collection: "users",
		DocumentID: "ann",
		Fields:     map[string]interface{}{"name": "Ann"},
	}
	col.On("FindOne", mock.Anything, bson.M{"_id": "users/ann"}).Return(&fakeSingleResult{doc: stored})
	col.On("FindOne", mock.Anything, bson.M{"_id": "users/ghost"}).Return(&fakeSingleResult{err: mongo.ErrNoDocuments})

	doc, err := store.Get(context.Background(), "users/ann")
	require.NoError(t, err)
	assert.Equal(t, "ann", doc.ID)
	assert.Equal(t, "Ann", doc.Data["name"])

	_, err = store.Get(context.Background(), "users/ghost")
	assert.ErrorIs(t, err, sharedErrors.ErrDocumentNotFound)

	_, err = store.Get(context.Background(), "users")
	assert.ErrorIs(t, err, model.ErrNotDocumentPath)
}

func TestDocumentStore_Create(t *testing.T) {
	col := new(mockCollection)
	store := newTestStore(col)

	col.On("InsertOne", mock.Anything, mock.MatchedBy(func(doc bson.M) bool {
		fields := doc["fields"].(bson.M)
		_, isDate := fields["createdAt"].(primitive.DateTime)
		return doc["_id"] == "zone/u1/zoneList/generated0000000000x" &&
			doc["collection"] == "zone/u1/zoneList" &&
			doc["parent"] == "zone/u1" &&
			doc["collectionId"] == "zoneList" &&
			isDate
	})).Return("zone/u1/zoneList/generated0000000000x", nil)

	doc, err := store.Create(context.Background(), "zone/u1/zoneList", map[string]interface{}{
		"zoneName":  "Home",
		"createdAt": model.ServerTimestamp,
	})
	require.NoError(t, err)
	assert.Equal(t, "generated0000000000x", doc.ID)
	assert.Equal(t, store.now(), doc.Data["createdAt"])
	col.AssertExpectations(t)
}

func TestDocumentStore_Update_NotFound(t *testing.T) {
	col := new(mockCollection)
	store := newTestStore(col)
	col.On("FindOneAndUpdate", mock.Anything, bson.M{"_id": "users/ghost"}, mock.Anything).
		Return(&fakeSingleResult{err: mongo.ErrNoDocuments})

	_, err := store.Update(context.Background(), "users/ghost", map[string]interface{}{"a": 1})
	assert.ErrorIs(t, err, sharedErrors.ErrDocumentNotFound)
	assert.Contains(t, err.Error(), "no document to update")
}

func TestDocumentStore_Update_SetsDottedFields(t *testing.T) {
	col := new(mockCollection)
	store := newTestStore(col)
	col.On("FindOneAndUpdate", mock.Anything, bson.M{"_id": "users/ann"}, mock.MatchedBy(func(update bson.M) bool {
		set := update["$set"].(bson.M)
		return set["fields.age"] == 31 && set["fields.address.city"] == "Bergen"
	})).Return(&fakeSingleResult{doc: &storedDocument{
		Path:       "users/ann",
		DocumentID: "ann",
		Fields:     map[string]interface{}{"age": int32(31), "address": map[string]interface{}{"city": "Bergen"}},
	}})

	doc, err := store.Update(context.Background(), "users/ann", map[string]interface{}{"age": 31, "address.city": "Bergen"})
	require.NoError(t, err)
	assert.Equal(t, int64(31), doc.Data["age"])
	col.AssertExpectations(t)
}

func TestDocumentStore_Delete(t *testing.T) {
	col := new(mockCollection)
	store := newTestStore(col)
	col.On("DeleteOne", mock.Anything, bson.M{"_id": "users/ann"}).Return(deletedResult(0), nil)

	assert.NoError(t, store.Delete(context.Background(), "users/ann"))
}

func TestDocumentStore_QueryAndCount(t *testing.T) {
	col := new(mockCollection)
	store := newTestStore(col)
	cursor := &fakeCursor{docs: []storedDocument{
		{Path: "users/a", DocumentID: "a", Fields: map[string]interface{}{"n": int32(1)}},
		{Path: "users/b", DocumentID: "b", Fields: map[string]interface{}{"n": int32(2)}},
	}}
	col.On("Find", mock.Anything, bson.M{"collection": "users"}).Return(cursor, nil)
	col.On("CountDocuments", mock.Anything, bson.M{"collection": "users"}).Return(int64(7), nil)

	docs, err := store.Query(context.Background(), model.Query{Path: "users", Limit: 2})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "b", docs[1].ID)
	assert.True(t, cursor.closed)

	count, err := store.Count(context.Background(), model.Query{Path: "users", Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(7), count)
}

func TestDocumentStore_Query_BackendError(t *testing.T) {
	col := new(mockCollection)
	store := newTestStore(col)
	col.On("Find", mock.Anything, mock.Anything).Return(nil, errors.New("connection reset"))

	_, err := store.Query(context.Background(), model.Query{Path: "users"})
	assert.ErrorContains(t, err, "connection reset")
}

func TestDocumentStore_ListCollections(t *testing.T) {
	col := new(mockCollection)
	store := newTestStore(col)
	col.On("Distinct", mock.Anything, "collectionId", bson.M{"parent": ""}).
		Return([]interface{}{"zone", "users", ""}, nil)
	col.On("Distinct", mock.Anything, "collectionId", bson.M{"parent": "users/ann"}).
		Return([]interface{}{"orders"}, nil)

	root, err := store.ListCollections(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, []model.CollectionRef{{ID: "users", Path: "users"}, {ID: "zone", Path: "zone"}}, root)

	sub, err := store.ListCollections(context.Background(), "/users/ann")
	require.NoError(t, err)
	assert.Equal(t, []model.CollectionRef{{ID: "orders", Path: "users/ann/orders", ParentPath: "users/ann"}}, sub)
}
