package usecase

import (
	"context"
	"errors"
	"strings"

	"firebase-mcp/internal/auth/domain/model"
	"firebase-mcp/internal/auth/domain/repository"
	sharedErrors "firebase-mcp/internal/shared/errors"
	"firebase-mcp/internal/shared/logger"

	"go.uber.org/zap"
)

// NotInitializedMessage is returned when no user directory is connected.
const NotInitializedMessage = "Firebase Auth is not initialized. MONGODB_URI environment variable is required."

// DirectoryUsecaseInterface defines the user lookups exposed as tools
type DirectoryUsecaseInterface interface {
	GetUser(ctx context.Context, identifier string) (*model.UserRecord, error)
}

// DirectoryUsecase resolves users through a UserDirectory.
type DirectoryUsecase struct {
	directory repository.UserDirectory
	logger    logger.Logger
}

// NewDirectoryUsecase creates the usecase. directory may be nil.
func NewDirectoryUsecase(directory repository.UserDirectory, log logger.Logger) *DirectoryUsecase {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &DirectoryUsecase{
		directory: directory,
		logger:    log.WithComponent("directory-usecase"),
	}
}

// GetUser looks a user up by email when identifier contains "@", by uid otherwise.
func (uc *DirectoryUsecase) GetUser(ctx context.Context, identifier string) (*model.UserRecord, error) {
	if uc.directory == nil {
		return nil, sharedErrors.NewNotInitializedError(NotInitializedMessage).WithComponent("auth")
	}
	if identifier == "" {
		return nil, sharedErrors.NewValidationError("identifier is required")
	}

	var (
		user *model.UserRecord
		err  error
	)
	byEmail := strings.Contains(identifier, "@")
	if byEmail {
		user, err = uc.directory.GetUserByEmail(ctx, identifier)
	} else {
		user, err = uc.directory.GetUserByID(ctx, identifier)
	}
	if err != nil {
		if errors.Is(err, sharedErrors.ErrUserNotFound) {
			return nil, sharedErrors.NewNotFoundError("User not found: " + identifier)
		}
		uc.logger.WithContext(ctx).Error("Failed to get user",
			zap.Bool("byEmail", byEmail),
			zap.Error(err))
		return nil, sharedErrors.WrapBackend(err, "Error getting user")
	}
	return user, nil
}
