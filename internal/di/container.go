package di

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"firebase-mcp/internal/auth"
	authmongo "firebase-mcp/internal/auth/adapter/persistence/mongodb"
	"firebase-mcp/internal/config"
	"firebase-mcp/internal/firestore"
	"firebase-mcp/internal/firestore/adapter/persistence"
	"firebase-mcp/internal/firestore/domain/repository"
	"firebase-mcp/internal/mcp"
	"firebase-mcp/internal/shared/logger"
	"firebase-mcp/internal/storage"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Container owns every backend connection and the modules built over them.
type Container struct {
	mu sync.RWMutex

	Config *config.Config
	Logger logger.Logger

	// Connections. Each stays nil when unconfigured or unreachable.
	MongoClient *mongo.Client
	MongoDB     *mongo.Database
	Redis       *redis.Client

	AuthModule      *auth.AuthModule
	FirestoreModule *firestore.FirestoreModule
	StorageModule   *storage.StorageModule

	Registry   *prometheus.Registry
	Dispatcher *mcp.Dispatcher
	Server     *mcp.Server
}

// NewContainer creates an empty container for cfg.
func NewContainer(cfg *config.Config, log logger.Logger) *Container {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Container{
		Config: cfg,
		Logger: log.WithComponent("container"),
	}
}

// Initialize connects the configured backends and builds the MCP server.
// Unreachable backends are logged and left unset so the matching tools fail
// softly; an invalid access rule or metrics registration fails startup.
func (c *Container) Initialize(ctx context.Context, version string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.connectMongo(ctx)
	publisher := c.connectChangeFeed(ctx)

	authModule, err := auth.NewAuthModule(c.MongoDB, c.Config, c.Logger)
	if err != nil {
		return fmt.Errorf("failed to create auth module: %w", err)
	}
	if c.MongoDB != nil {
		users := c.MongoDB.Collection(c.Config.Mongo.UsersCollection)
		if err := authmongo.EnsureUserIndexes(ctx, users); err != nil {
			c.Logger.Warn("Failed to create user indexes", zap.Error(err))
		}
	}
	c.AuthModule = authModule

	firestoreModule, err := firestore.NewFirestoreModule(ctx, c.Config, c.MongoDB, publisher, c.Logger)
	if err != nil {
		return fmt.Errorf("failed to create firestore module: %w", err)
	}
	c.FirestoreModule = firestoreModule

	storageModule, err := storage.NewStorageModule(c.Config.Storage, c.Logger)
	if err != nil {
		return fmt.Errorf("failed to create storage module: %w", err)
	}
	c.StorageModule = storageModule

	c.Registry = prometheus.NewRegistry()
	c.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics, err := mcp.NewMetrics(c.Registry)
	if err != nil {
		return err
	}

	rule, err := mcp.CompileAccessRule(c.Config.Server.AccessRule)
	if err != nil {
		return err
	}
	if rule != nil {
		c.Logger.Info("Access rule enabled", zap.String("rule", rule.Expression()))
	}

	handlers := mcp.NewHandlers(firestoreModule.Usecase, authModule.GetUsecase(), storageModule.Usecase)
	c.Dispatcher = mcp.NewDispatcher(
		mcp.NewCatalog(handlers),
		c.Logger,
		mcp.WithAccessRule(rule),
		mcp.WithMetrics(metrics),
	)
	c.Server = mcp.NewServer(c.Dispatcher, version, c.Logger)

	c.Logger.Info("Container initialized",
		zap.Bool("documents", firestoreModule.Store != nil),
		zap.Bool("users", authModule.GetDirectory() != nil),
		zap.Bool("storage", storageModule.Store != nil),
		zap.Bool("changeFeed", publisher != nil),
	)
	return nil
}

func (c *Container) connectMongo(ctx context.Context) {
	cfg := c.Config.Mongo
	if cfg.Backend != config.BackendMongo {
		return
	}
	if cfg.URI == "" {
		c.Logger.Warn("MONGODB_URI is not set; document and user tools will report not initialized")
		return
	}

	connectCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		c.Logger.Warn("Failed to connect to MongoDB", zap.Error(err))
		return
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		c.Logger.Warn("Failed to ping MongoDB", zap.Error(err))
		_ = client.Disconnect(context.Background())
		return
	}

	c.MongoClient = client
	c.MongoDB = client.Database(cfg.DatabaseName)
	c.Logger.Info("Connected to MongoDB", zap.String("database", cfg.DatabaseName))
}

// connectChangeFeed returns nil, not a typed nil, when the feed is off.
func (c *Container) connectChangeFeed(ctx context.Context) repository.ChangePublisher {
	cfg := c.Config.Redis
	if !cfg.Enabled() {
		return nil
	}

	client := config.NewRedisClient(cfg)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		c.Logger.Warn("Failed to connect to Redis; change feed disabled", zap.Error(err))
		_ = client.Close()
		return nil
	}

	c.Redis = client
	c.Logger.Info("Publishing document changes", zap.String("stream", cfg.Stream))
	return persistence.NewRedisChangeFeed(client, cfg.Stream, cfg.StreamMaxLength, c.Logger)
}

// HTTPOptions returns the options for the streamable HTTP transport.
func (c *Container) HTTPOptions() mcp.HTTPOptions {
	c.mu.RLock()
	defer c.mu.RUnlock()

	opts := mcp.HTTPOptions{
		Path:        c.Config.Server.HTTPPath,
		HealthCheck: c.HealthCheck,
	}
	if c.Registry != nil {
		opts.Gatherer = c.Registry
	}
	if c.AuthModule != nil {
		opts.Tokens = c.AuthModule.GetTokenService()
	}
	return opts
}

// HealthCheck pings every connected backend.
func (c *Container) HealthCheck(ctx context.Context) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.MongoClient != nil {
		if err := c.MongoClient.Ping(ctx, nil); err != nil {
			return fmt.Errorf("MongoDB health check failed: %w", err)
		}
	}
	if c.FirestoreModule != nil {
		if err := c.FirestoreModule.HealthCheck(ctx); err != nil {
			return fmt.Errorf("document store health check failed: %w", err)
		}
	}
	if c.Redis != nil {
		if err := c.Redis.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("Redis health check failed: %w", err)
		}
	}
	if c.StorageModule != nil {
		if err := c.StorageModule.HealthCheck(ctx); err != nil {
			return fmt.Errorf("storage health check failed: %w", err)
		}
	}
	return nil
}

// Close releases the backend connections in reverse order of creation.
func (c *Container) Close(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Redis: %w", err))
		}
		c.Redis = nil
	}
	if c.MongoClient != nil {
		if err := c.MongoClient.Disconnect(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to disconnect MongoDB: %w", err))
		}
		c.MongoClient = nil
		c.MongoDB = nil
	}

	c.Logger.Info("Container resources closed")
	return errors.Join(errs...)
}
