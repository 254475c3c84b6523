package auth

import (
	"fmt"

	"firebase-mcp/internal/auth/adapter/persistence/mongodb"
	"firebase-mcp/internal/auth/adapter/security"
	"firebase-mcp/internal/auth/domain/repository"
	"firebase-mcp/internal/auth/usecase"
	"firebase-mcp/internal/config"
	"firebase-mcp/internal/shared/logger"

	"go.mongodb.org/mongo-driver/mongo"
)

// AuthModule represents the user directory and bearer token services
type AuthModule struct {
	directory repository.UserDirectory
	tokenSvc  repository.TokenService
	usecase   *usecase.DirectoryUsecase
}

// NewAuthModule creates the module. db may be nil, in which case user
// lookups fail as not initialized. A token service is only built when a JWT
// secret is configured.
func NewAuthModule(db *mongo.Database, cfg *config.Config, log logger.Logger) (*AuthModule, error) {
	module := &AuthModule{}

	if db != nil {
		module.directory = mongodb.NewMongoUserDirectory(db, cfg.Mongo.UsersCollection)
		module.usecase = usecase.NewDirectoryUsecase(module.directory, log)
	} else {
		module.usecase = usecase.NewDirectoryUsecase(nil, log)
	}

	if cfg.Server.JWTSecretKey != "" {
		tokenSvc, err := security.NewJWTokenService(cfg.Server)
		if err != nil {
			return nil, fmt.Errorf("failed to create token service: %w", err)
		}
		module.tokenSvc = tokenSvc
	}

	return module, nil
}

// GetUsecase returns the directory usecase
func (am *AuthModule) GetUsecase() *usecase.DirectoryUsecase {
	return am.usecase
}

// GetTokenService returns the token service, or nil when bearer auth is off
func (am *AuthModule) GetTokenService() repository.TokenService {
	return am.tokenSvc
}

// GetDirectory returns the user directory, or nil when not connected
func (am *AuthModule) GetDirectory() repository.UserDirectory {
	return am.directory
}
