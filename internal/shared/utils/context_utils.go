package utils

import (
	"context"
	"errors"
	"strings"

	"firebase-mcp/internal/shared/contextkeys"

	"github.com/google/uuid"
)

// Common context errors
var (
	ErrRequestIDNotFound  = errors.New("requestID not found in context")
	ErrRequestIDNotString = errors.New("requestID in context is not a string")
	ErrToolNameNotFound   = errors.New("toolName not found in context")
	ErrToolNameNotString  = errors.New("toolName in context is not a string")
	ErrSubjectNotFound    = errors.New("subject not found in context")
	ErrSubjectNotString   = errors.New("subject in context is not a string")
)

// GetRequestIDFromContext retrieves the request ID from the context.
func GetRequestIDFromContext(ctx context.Context) (string, error) {
	return stringValue(ctx, contextkeys.RequestIDKey, ErrRequestIDNotFound, ErrRequestIDNotString)
}

// GetToolNameFromContext retrieves the name of the tool being invoked.
func GetToolNameFromContext(ctx context.Context) (string, error) {
	return stringValue(ctx, contextkeys.ToolNameKey, ErrToolNameNotFound, ErrToolNameNotString)
}

// GetSubjectFromContext retrieves the authenticated subject, if any.
func GetSubjectFromContext(ctx context.Context) (string, error) {
	return stringValue(ctx, contextkeys.SubjectKey, ErrSubjectNotFound, ErrSubjectNotString)
}

// WithRequestID stores a request ID in the context. An empty id is replaced
// with a freshly generated one.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	if strings.TrimSpace(requestID) == "" {
		requestID = uuid.NewString()
	}
	return context.WithValue(ctx, contextkeys.RequestIDKey, requestID)
}

// WithToolName stores the invoked tool name in the context.
func WithToolName(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, contextkeys.ToolNameKey, name)
}

// WithSubject stores the authenticated subject in the context.
func WithSubject(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, contextkeys.SubjectKey, subject)
}

func stringValue(ctx context.Context, key interface{}, missing, wrongType error) (string, error) {
	val := ctx.Value(key)
	if val == nil {
		return "", missing
	}
	s, ok := val.(string)
	if !ok {
		return "", wrongType
	}
	return s, nil
}
