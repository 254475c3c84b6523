package di

import (
	"context"
	"testing"

	"firebase-mcp/internal/config"
	"firebase-mcp/internal/mcp"
	"firebase-mcp/internal/shared/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Mongo.Backend = config.BackendMemory
	return cfg
}

func TestContainer_InitializeMemoryBackend(t *testing.T) {
	ctx := context.Background()
	c := NewContainer(memoryConfig(), logger.NewNopLogger())
	require.NoError(t, c.Initialize(ctx, "test"))
	defer func() { assert.NoError(t, c.Close(ctx)) }()

	assert.Nil(t, c.MongoClient)
	assert.Nil(t, c.Redis)
	require.NotNil(t, c.Server)
	assert.Len(t, c.Dispatcher.Tools(), 13)
	assert.NoError(t, c.HealthCheck(ctx))

	res, err := c.Dispatcher.Invoke(ctx, mcp.ToolAddDocument, mcp.Arguments{
		"collection": "users",
		"data":       map[string]interface{}{"name": "Ann"},
	})
	require.NoError(t, err)
	assert.False(t, res.IsError)

	res, err = c.Dispatcher.Invoke(ctx, mcp.ToolGetUser, mcp.Arguments{"identifier": "ann@example.com"})
	require.NoError(t, err)
	assert.True(t, res.IsError)

	res, err = c.Dispatcher.Invoke(ctx, mcp.ToolListFiles, mcp.Arguments{})
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestContainer_MissingMongoURI(t *testing.T) {
	ctx := context.Background()
	c := NewContainer(config.DefaultConfig(), nil)
	require.NoError(t, c.Initialize(ctx, "test"))

	assert.Nil(t, c.MongoDB)
	assert.Nil(t, c.FirestoreModule.Store)

	res, err := c.Dispatcher.Invoke(ctx, mcp.ToolListCollections, mcp.Arguments{})
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.NoError(t, c.Close(ctx))
}

func TestContainer_InvalidAccessRule(t *testing.T) {
	cfg := memoryConfig()
	cfg.Server.AccessRule = "tool +"

	c := NewContainer(cfg, nil)
	err := c.Initialize(context.Background(), "test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CEL compilation error")
}

func TestContainer_HTTPOptions(t *testing.T) {
	cfg := memoryConfig()
	cfg.Server.JWTSecretKey = "secret"
	cfg.Server.HTTPPath = "/rpc"

	c := NewContainer(cfg, nil)
	require.NoError(t, c.Initialize(context.Background(), "test"))

	opts := c.HTTPOptions()
	assert.Equal(t, "/rpc", opts.Path)
	assert.NotNil(t, opts.Tokens)
	assert.NotNil(t, opts.Gatherer)
	require.NotNil(t, opts.HealthCheck)
	assert.NoError(t, opts.HealthCheck(context.Background()))
}
