package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	authModel "firebase-mcp/internal/auth/domain/model"
	authUsecase "firebase-mcp/internal/auth/usecase"
	"firebase-mcp/internal/config"
	"firebase-mcp/internal/firestore/adapter/persistence/memory"
	firestoreUsecase "firebase-mcp/internal/firestore/usecase"
	sharedErrors "firebase-mcp/internal/shared/errors"
	storageUsecase "firebase-mcp/internal/storage/usecase"

	"github.com/stretchr/testify/require"
)

var testProject = config.FirebaseConfig{
	ProjectID:      "demo",
	ConsoleBaseURL: "https://console.firebase.google.com",
}

// stubDirectory serves users from a map keyed by uid.
type stubDirectory struct {
	users map[string]*authModel.UserRecord
}

func (d *stubDirectory) GetUserByID(ctx context.Context, uid string) (*authModel.UserRecord, error) {
	if u, ok := d.users[uid]; ok {
		return u, nil
	}
	return nil, fmt.Errorf("%w: %s", sharedErrors.ErrUserNotFound, uid)
}

func (d *stubDirectory) GetUserByEmail(ctx context.Context, email string) (*authModel.UserRecord, error) {
	for _, u := range d.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", sharedErrors.ErrUserNotFound, email)
}

func (d *stubDirectory) Ping(ctx context.Context) error {
	return nil
}

// newTestHandlers wires the handlers to a memory document store, a stub
// directory and an unconfigured storage backend.
func newTestHandlers() (*Handlers, *memory.DocumentStore) {
	store := memory.NewDocumentStore()
	documents := firestoreUsecase.NewDocumentUsecase(store, nil, testProject, nil)
	users := authUsecase.NewDirectoryUsecase(&stubDirectory{users: map[string]*authModel.UserRecord{
		"u-ann": {UID: "u-ann", Email: "ann@example.com", DisplayName: "Ann", EmailVerified: true},
	}}, nil)
	files := storageUsecase.NewStorageUsecase(nil, config.StorageConfig{}, nil)
	return NewHandlers(documents, users, files), store
}

func newTestDispatcher(opts ...DispatcherOption) (*Dispatcher, *memory.DocumentStore) {
	h, store := newTestHandlers()
	return NewDispatcher(NewCatalog(h), nil, opts...), store
}

func invoke(t *testing.T, d *Dispatcher, name string, args Arguments) *Result {
	t.Helper()
	res, err := d.Invoke(context.Background(), name, args)
	require.NoError(t, err)
	require.NotNil(t, res)
	require.Len(t, res.Content, 1)
	require.Equal(t, ContentTypeText, res.Content[0].Type)
	return res
}

func decodeResult(t *testing.T, res *Result) map[string]interface{} {
	t.Helper()
	require.False(t, res.IsError, "unexpected error result: %s", res.Text())
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(res.Text()), &out))
	return out
}
