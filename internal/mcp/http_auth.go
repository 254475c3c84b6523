package mcp

import (
	"context"
	"fmt"
	"net/http"

	"firebase-mcp/internal/auth/domain/repository"

	"github.com/modelcontextprotocol/go-sdk/auth"
)

// TokenVerifier adapts a TokenService to the go-sdk bearer middleware. The
// token's tool list becomes its scopes.
func TokenVerifier(tokens repository.TokenService) auth.TokenVerifier {
	return func(ctx context.Context, token string, _ *http.Request) (*auth.TokenInfo, error) {
		claims, err := tokens.ValidateToken(ctx, token)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", auth.ErrInvalidToken, err)
		}
		info := &auth.TokenInfo{
			Scopes: claims.Tools,
			UserID: claims.Subject,
		}
		if claims.ExpiresAt != nil {
			info.Expiration = claims.ExpiresAt.Time
		}
		return info, nil
	}
}

// RequireBearer wraps next so that requests without a valid token are
// rejected with 401.
func RequireBearer(tokens repository.TokenService, next http.Handler) http.Handler {
	return auth.RequireBearerToken(TokenVerifier(tokens), nil)(next)
}
