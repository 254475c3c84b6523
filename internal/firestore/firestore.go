package firestore

import (
	"context"

	"firebase-mcp/internal/config"
	"firebase-mcp/internal/firestore/adapter/persistence/memory"
	mongodbpersistence "firebase-mcp/internal/firestore/adapter/persistence/mongodb"
	"firebase-mcp/internal/firestore/domain/repository"
	"firebase-mcp/internal/firestore/usecase"
	"firebase-mcp/internal/shared/logger"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// FirestoreModule represents the document store, its change feed and the
// document usecase built over them.
type FirestoreModule struct {
	Store     repository.DocumentStore
	Publisher repository.ChangePublisher
	Usecase   *usecase.DocumentUsecase
	Logger    logger.Logger
}

// NewFirestoreModule selects the document backend. The memory backend is
// used when configured; otherwise db backs a MongoDB store. With neither,
// the usecase runs without a store and every call reports not initialized.
// publisher may be nil.
func NewFirestoreModule(
	ctx context.Context,
	cfg *config.Config,
	db *mongo.Database,
	publisher repository.ChangePublisher,
	log logger.Logger,
) (*FirestoreModule, error) {
	if log == nil {
		log = logger.NewNopLogger()
	}
	log = log.WithComponent("firestore")

	var store repository.DocumentStore
	switch {
	case cfg.Mongo.Backend == config.BackendMemory:
		log.Info("Using in-memory document store")
		store = memory.NewDocumentStore()
	case db != nil:
		col := db.Collection(cfg.Mongo.DocumentsCollection)
		// Queries work without the indexes, only slower.
		if err := mongodbpersistence.EnsureIndexes(ctx, col); err != nil {
			log.Warn("Failed to create document indexes", zap.Error(err))
		}
		store = mongodbpersistence.NewDocumentStore(db, cfg.Mongo.DocumentsCollection, log)
		log.Info("Using MongoDB document store")
	default:
		log.Warn("No document backend configured; document tools will report not initialized")
	}

	return &FirestoreModule{
		Store:     store,
		Publisher: publisher,
		Usecase:   usecase.NewDocumentUsecase(store, publisher, cfg.Firebase, log),
		Logger:    log,
	}, nil
}

// HealthCheck pings the document store when one is configured.
func (m *FirestoreModule) HealthCheck(ctx context.Context) error {
	if m.Store == nil {
		return nil
	}
	return m.Store.Ping(ctx)
}
