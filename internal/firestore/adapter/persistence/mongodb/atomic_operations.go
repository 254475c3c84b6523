package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

// AtomicOperations applies single-statement array transforms to stored documents.
type AtomicOperations struct {
	col CollectionInterface
	now func() time.Time
}

// NewAtomicOperations creates a new AtomicOperations over col.
func NewAtomicOperations(col CollectionInterface) *AtomicOperations {
	return &AtomicOperations{col: col, now: func() time.Time { return time.Now().UTC() }}
}

// ArrayUnion adds each element not already present using $addToSet.
func (a *AtomicOperations) ArrayUnion(ctx context.Context, path, field string, elements []interface{}) error {
	if field == "" {
		return fmt.Errorf("field name cannot be empty")
	}
	update := bson.M{
		"$addToSet": bson.M{
			fieldKey(field): bson.M{"$each": encodeValues(elements)},
		},
		"$set": bson.M{"updateTime": a.now()},
	}
	return a.apply(ctx, path, update, "array union")
}

// ArrayRemove removes every instance of each element using $pullAll.
func (a *AtomicOperations) ArrayRemove(ctx context.Context, path, field string, elements []interface{}) error {
	if field == "" {
		return fmt.Errorf("field name cannot be empty")
	}
	update := bson.M{
		"$pullAll": bson.M{
			fieldKey(field): encodeValues(elements),
		},
		"$set": bson.M{"updateTime": a.now()},
	}
	return a.apply(ctx, path, update, "array remove")
}

func (a *AtomicOperations) apply(ctx context.Context, path string, update bson.M, op string) error {
	result, err := a.col.UpdateOne(ctx, bson.M{"_id": path}, update)
	if err != nil {
		return fmt.Errorf("failed to perform atomic %s: %w", op, err)
	}
	if result.Matched() == 0 {
		return notFound(path)
	}
	return nil
}
