package repository

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
)

// TokenService defines the interface for bearer token operations
type TokenService interface {
	GenerateToken(ctx context.Context, subject string, tools []string) (string, error)
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims represents JWT claims. An empty Tools list grants every tool.
type Claims struct {
	Tools []string `json:"tools,omitempty"`
	jwt.RegisteredClaims
}

// Allows reports whether the claims permit the named tool.
func (c *Claims) Allows(tool string) bool {
	if len(c.Tools) == 0 {
		return true
	}
	for _, t := range c.Tools {
		if t == tool || t == "*" {
			return true
		}
	}
	return false
}
