package mongodb

import (
	"context"
	"errors"
	"fmt"

	"firebase-mcp/internal/auth/domain/model"
	"firebase-mcp/internal/auth/domain/repository"
	sharedErrors "firebase-mcp/internal/shared/errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var _ repository.UserDirectory = (*MongoUserDirectory)(nil)

// userFinder is the subset of *mongo.Collection the directory reads through.
type userFinder interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) *mongo.SingleResult
}

// MongoUserDirectory implements the UserDirectory interface using MongoDB
type MongoUserDirectory struct {
	users userFinder
	ping  func(ctx context.Context) error
}

// NewMongoUserDirectory creates a directory reading users from the named collection.
func NewMongoUserDirectory(db *mongo.Database, collection string) *MongoUserDirectory {
	return &MongoUserDirectory{
		users: db.Collection(collection),
		ping: func(ctx context.Context) error {
			return db.Client().Ping(ctx, nil)
		},
	}
}

// EnsureUserIndexes creates the lookup indexes on the users collection.
func EnsureUserIndexes(ctx context.Context, users *mongo.Collection) error {
	_, err := users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
		{
			// Sparse because users keyed only by _id have no uid field
			Keys:    bson.D{{Key: "uid", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
	})
	return err
}

// GetUserByEmail retrieves a user by email
func (r *MongoUserDirectory) GetUserByEmail(ctx context.Context, email string) (*model.UserRecord, error) {
	if email == "" {
		return nil, errors.New("email cannot be empty")
	}
	return r.findOne(ctx, bson.M{"email": email}, email)
}

// GetUserByID retrieves a user by uid. A 24-character hex id also matches the document _id.
func (r *MongoUserDirectory) GetUserByID(ctx context.Context, uid string) (*model.UserRecord, error) {
	if uid == "" {
		return nil, errors.New("user ID cannot be empty")
	}
	filter := bson.M{"uid": uid}
	if objectID, err := primitive.ObjectIDFromHex(uid); err == nil {
		filter = bson.M{"$or": []bson.M{{"_id": objectID}, {"uid": uid}}}
	}
	return r.findOne(ctx, filter, uid)
}

// Ping checks the database connection.
func (r *MongoUserDirectory) Ping(ctx context.Context) error {
	if r.ping == nil {
		return nil
	}
	return r.ping(ctx)
}

func (r *MongoUserDirectory) findOne(ctx context.Context, filter bson.M, identifier string) (*model.UserRecord, error) {
	var user model.UserRecord
	err := r.users.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", sharedErrors.ErrUserNotFound, identifier)
		}
		return nil, err
	}

	// Ensure UID field is populated
	if user.UID == "" && !user.ObjectID.IsZero() {
		user.UID = user.ObjectID.Hex()
	}
	return &user, nil
}
