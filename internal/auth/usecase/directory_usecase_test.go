package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"firebase-mcp/internal/auth/domain/model"
	"firebase-mcp/internal/auth/usecase"
	sharedErrors "firebase-mcp/internal/shared/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// Mock directory
type mockUserDirectory struct {
	mock.Mock
}

func (m *mockUserDirectory) GetUserByID(ctx context.Context, uid string) (*model.UserRecord, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UserRecord), args.Error(1)
}

func (m *mockUserDirectory) GetUserByEmail(ctx context.Context, email string) (*model.UserRecord, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UserRecord), args.Error(1)
}

func (m *mockUserDirectory) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type DirectoryUsecaseTestSuite struct {
	suite.Suite
	directory *mockUserDirectory
	usecase   *usecase.DirectoryUsecase
	ctx       context.Context
}

func (suite *DirectoryUsecaseTestSuite) SetupTest() {
	suite.directory = new(mockUserDirectory)
	suite.usecase = usecase.NewDirectoryUsecase(suite.directory, nil)
	suite.ctx = context.Background()
}

func (suite *DirectoryUsecaseTestSuite) TestGetUser_ByEmail() {
	expected := &model.UserRecord{UID: "u1", Email: "ann@example.com"}
	suite.directory.On("GetUserByEmail", suite.ctx, "ann@example.com").Return(expected, nil)

	user, err := suite.usecase.GetUser(suite.ctx, "ann@example.com")

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), expected, user)
	suite.directory.AssertNotCalled(suite.T(), "GetUserByID", mock.Anything, mock.Anything)
}

func (suite *DirectoryUsecaseTestSuite) TestGetUser_ByID() {
	expected := &model.UserRecord{UID: "u1"}
	suite.directory.On("GetUserByID", suite.ctx, "u1").Return(expected, nil)

	user, err := suite.usecase.GetUser(suite.ctx, "u1")

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "u1", user.UID)
	suite.directory.AssertNotCalled(suite.T(), "GetUserByEmail", mock.Anything, mock.Anything)
}

func (suite *DirectoryUsecaseTestSuite) TestGetUser_NotFound() {
	suite.directory.On("GetUserByID", suite.ctx, "ghost").
		Return(nil, fmt.Errorf("%w: ghost", sharedErrors.ErrUserNotFound))

	_, err := suite.usecase.GetUser(suite.ctx, "ghost")

	assert.True(suite.T(), sharedErrors.IsNotFound(err))
	assert.EqualError(suite.T(), err, "User not found: ghost")
}

func (suite *DirectoryUsecaseTestSuite) TestGetUser_BackendError() {
	suite.directory.On("GetUserByEmail", suite.ctx, "ann@example.com").Return(nil, errors.New("no reachable servers"))

	_, err := suite.usecase.GetUser(suite.ctx, "ann@example.com")

	assert.True(suite.T(), sharedErrors.IsBackend(err))
	assert.EqualError(suite.T(), err, "Error getting user: no reachable servers")
}

func (suite *DirectoryUsecaseTestSuite) TestGetUser_EmptyIdentifier() {
	_, err := suite.usecase.GetUser(suite.ctx, "")
	assert.True(suite.T(), sharedErrors.IsValidation(err))
}

func TestDirectoryUsecaseTestSuite(t *testing.T) {
	suite.Run(t, new(DirectoryUsecaseTestSuite))
}

func TestGetUser_NotInitialized(t *testing.T) {
	uc := usecase.NewDirectoryUsecase(nil, nil)
	_, err := uc.GetUser(context.Background(), "u1")
	assert.True(t, sharedErrors.IsNotInitialized(err))
	assert.EqualError(t, err, usecase.NotInitializedMessage)
}
