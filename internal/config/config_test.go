package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	def := DefaultConfig()
	assert.Equal(t, def.Firebase, cfg.Firebase)
	assert.Equal(t, TransportStdio, cfg.Server.Transport)
	assert.Equal(t, "/mcp", cfg.Server.HTTPPath)
	assert.Equal(t, BackendMongo, cfg.Mongo.Backend)
	assert.Equal(t, "documents", cfg.Mongo.DocumentsCollection)
	assert.Equal(t, 15*time.Minute, cfg.Storage.URLExpiry)
	assert.Equal(t, "firestore:changes", cfg.Redis.Stream)
	assert.False(t, cfg.Storage.Enabled())
	assert.False(t, cfg.Redis.Enabled())
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	t.Setenv("PROJECT_ID", "acme-prod")
	t.Setenv("MCP_TRANSPORT", "http")
	t.Setenv("SERVER_PORT", "8088")
	t.Setenv("STORAGE_ENDPOINT", "localhost:9000")
	t.Setenv("STORAGE_BUCKET", "uploads")
	t.Setenv("STORAGE_URL_EXPIRY", "1h")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("BACKEND", "memory")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "acme-prod", cfg.Firebase.ProjectID)
	assert.Equal(t, TransportHTTP, cfg.Server.Transport)
	assert.Equal(t, "localhost:8088", cfg.Server.Addr())
	assert.True(t, cfg.Storage.Enabled())
	assert.Equal(t, time.Hour, cfg.Storage.URLExpiry)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, BackendMemory, cfg.Mongo.Backend)
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"transport", "MCP_TRANSPORT", "sse"},
		{"backend", "BACKEND", "postgres"},
		{"http path", "MCP_HTTP_PATH", "mcp"},
		{"url expiry", "STORAGE_URL_EXPIRY", "0s"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")))

	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("FIREBASE_MCP_DOTENV_CHECK=loaded\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("FIREBASE_MCP_DOTENV_CHECK") })

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "loaded", os.Getenv("FIREBASE_MCP_DOTENV_CHECK"))
}

func TestNewRedisClient(t *testing.T) {
	client := NewRedisClient(RedisConfig{Addr: "cache.internal:6380", Database: 2, PoolSize: 5, EnableTLS: true})
	defer client.Close()

	opts := client.Options()
	assert.Equal(t, "cache.internal:6380", opts.Addr)
	assert.Equal(t, 2, opts.DB)
	require.NotNil(t, opts.TLSConfig)
	assert.Equal(t, "cache.internal", opts.TLSConfig.ServerName)
}
