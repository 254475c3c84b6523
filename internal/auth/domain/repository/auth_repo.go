package repository

import (
	"context"

	"firebase-mcp/internal/auth/domain/model"
)

// UserDirectory defines the read-only user lookups. Implementations return
// errors.ErrUserNotFound when no user matches.
type UserDirectory interface {
	GetUserByID(ctx context.Context, uid string) (*model.UserRecord, error)
	GetUserByEmail(ctx context.Context, email string) (*model.UserRecord, error)
	Ping(ctx context.Context) error
}
