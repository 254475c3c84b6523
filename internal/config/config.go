package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Document backends
const (
	BackendMongo  = "mongodb"
	BackendMemory = "memory"
)

// Transports
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// FirebaseConfig describes the project the tools operate on.
type FirebaseConfig struct {
	// ProjectID appears in every console URL handed back to callers.
	ProjectID      string `env:"PROJECT_ID" envDefault:"default-project" json:"project_id"`
	ConsoleBaseURL string `env:"CONSOLE_BASE_URL" envDefault:"https://console.firebase.google.com" json:"console_base_url"`
}

// MongoConfig holds the document database settings.
type MongoConfig struct {
	Backend             string        `env:"BACKEND" envDefault:"mongodb" json:"backend"`
	URI                 string        `env:"MONGODB_URI" json:"-"`
	DatabaseName        string        `env:"DATABASE_NAME" envDefault:"firebase_mcp" json:"database_name"`
	DocumentsCollection string        `env:"DOCUMENTS_COLLECTION" envDefault:"documents" json:"documents_collection"`
	UsersCollection     string        `env:"USERS_COLLECTION" envDefault:"users" json:"users_collection"`
	ConnectTimeout      time.Duration `env:"CONNECT_TIMEOUT" envDefault:"10s" json:"connect_timeout"`
}

// StorageConfig holds the S3-compatible blob storage settings.
type StorageConfig struct {
	Endpoint      string        `env:"STORAGE_ENDPOINT" json:"endpoint"`
	Bucket        string        `env:"STORAGE_BUCKET" json:"bucket"`
	AccessKey     string        `env:"STORAGE_ACCESS_KEY" json:"-"`
	SecretKey     string        `env:"STORAGE_SECRET_KEY" json:"-"`
	Region        string        `env:"STORAGE_REGION" envDefault:"us-east-1" json:"region"`
	UseSSL        bool          `env:"STORAGE_USE_SSL" envDefault:"true" json:"use_ssl"`
	PublicBaseURL string        `env:"STORAGE_PUBLIC_BASE_URL" json:"public_base_url"`
	URLExpiry     time.Duration `env:"STORAGE_URL_EXPIRY" envDefault:"15m" json:"url_expiry"`
}

// Enabled reports whether enough is configured to open a storage client.
func (c StorageConfig) Enabled() bool {
	return c.Endpoint != "" && c.Bucket != ""
}

// RedisConfig holds the change feed settings.
type RedisConfig struct {
	Addr            string `env:"REDIS_ADDR" json:"addr"`
	Password        string `env:"REDIS_PASSWORD" json:"-"`
	Database        int    `env:"REDIS_DB" envDefault:"0" json:"database"`
	EnableTLS       bool   `env:"REDIS_TLS" envDefault:"false" json:"enable_tls"`
	PoolSize        int    `env:"REDIS_POOL_SIZE" envDefault:"10" json:"pool_size"`
	MaxRetries      int    `env:"REDIS_MAX_RETRIES" envDefault:"3" json:"max_retries"`
	Stream          string `env:"CHANGE_STREAM" envDefault:"firestore:changes" json:"stream"`
	StreamMaxLength int64  `env:"CHANGE_STREAM_MAXLEN" envDefault:"10000" json:"stream_max_length"`
}

// Enabled reports whether the change feed should be wired.
func (c RedisConfig) Enabled() bool {
	return c.Addr != ""
}

// ServerConfig holds the MCP transport settings.
type ServerConfig struct {
	Transport    string        `env:"MCP_TRANSPORT" envDefault:"stdio" json:"transport"`
	Host         string        `env:"SERVER_HOST" envDefault:"localhost" json:"host"`
	Port         string        `env:"SERVER_PORT" envDefault:"3000" json:"port"`
	HTTPPath     string        `env:"MCP_HTTP_PATH" envDefault:"/mcp" json:"http_path"`
	JWTSecretKey string        `env:"JWT_SECRET_KEY" json:"-"`
	JWTIssuer    string        `env:"JWT_ISSUER" envDefault:"firebase-mcp" json:"jwt_issuer"`
	TokenTTL     time.Duration `env:"JWT_TOKEN_TTL" envDefault:"24h" json:"token_ttl"`
	AccessRule   string        `env:"ACCESS_RULE" json:"access_rule"`
}

// Addr returns host:port for the HTTP transport.
func (c ServerConfig) Addr() string {
	return c.Host + ":" + c.Port
}

// LogConfig mirrors the LOG_* variables read by the logger package.
type LogConfig struct {
	Backend string `env:"LOG_BACKEND" envDefault:"logrus" json:"backend"`
	Level   string `env:"LOG_LEVEL" envDefault:"info" json:"level"`
	Format  string `env:"LOG_FORMAT" envDefault:"text" json:"format"`
}

// Config is the full process configuration.
type Config struct {
	Firebase FirebaseConfig `json:"firebase"`
	Mongo    MongoConfig    `json:"mongo"`
	Storage  StorageConfig  `json:"storage"`
	Redis    RedisConfig    `json:"redis"`
	Server   ServerConfig   `json:"server"`
	Log      LogConfig      `json:"log"`
}

// LoadDotEnv loads a .env file when one is present. A missing file is not an error.
func LoadDotEnv(paths ...string) error {
	if err := godotenv.Load(paths...); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load .env file: %w", err)
	}
	return nil
}

// LoadConfig loads configuration from environment variables and applies defaults.
// Missing backend settings are not errors: the matching backend stays unset and
// tool calls against it fail softly.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.New("failed to load configuration from environment: " + err.Error())
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the enumerated settings.
func (c *Config) Validate() error {
	switch c.Server.Transport {
	case TransportStdio, TransportHTTP:
	default:
		return fmt.Errorf("invalid MCP_TRANSPORT %q: must be %q or %q", c.Server.Transport, TransportStdio, TransportHTTP)
	}
	switch c.Mongo.Backend {
	case BackendMongo, BackendMemory:
	default:
		return fmt.Errorf("invalid BACKEND %q: must be %q or %q", c.Mongo.Backend, BackendMongo, BackendMemory)
	}
	if !strings.HasPrefix(c.Server.HTTPPath, "/") {
		return fmt.Errorf("invalid MCP_HTTP_PATH %q: must start with /", c.Server.HTTPPath)
	}
	if c.Storage.URLExpiry <= 0 {
		return errors.New("STORAGE_URL_EXPIRY must be positive")
	}
	return nil
}

// DefaultConfig returns a Config with default values and no backends configured.
func DefaultConfig() *Config {
	return &Config{
		Firebase: FirebaseConfig{
			ProjectID:      "default-project",
			ConsoleBaseURL: "https://console.firebase.google.com",
		},
		Mongo: MongoConfig{
			Backend:             BackendMongo,
			DatabaseName:        "firebase_mcp",
			DocumentsCollection: "documents",
			UsersCollection:     "users",
			ConnectTimeout:      10 * time.Second,
		},
		Storage: StorageConfig{
			Region:    "us-east-1",
			UseSSL:    true,
			URLExpiry: 15 * time.Minute,
		},
		Redis: RedisConfig{
			PoolSize:        10,
			MaxRetries:      3,
			Stream:          "firestore:changes",
			StreamMaxLength: 10000,
		},
		Server: ServerConfig{
			Transport: TransportStdio,
			Host:      "localhost",
			Port:      "3000",
			HTTPPath:  "/mcp",
			JWTIssuer: "firebase-mcp",
			TokenTTL:  24 * time.Hour,
		},
		Log: LogConfig{
			Backend: "logrus",
			Level:   "info",
			Format:  "text",
		},
	}
}
