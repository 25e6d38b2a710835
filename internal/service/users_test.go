package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/pageza/foodgram/backend/internal/apperror"
	applog "github.com/pageza/foodgram/backend/internal/log"
	"github.com/pageza/foodgram/backend/internal/mocks"
	"github.com/pageza/foodgram/backend/internal/model"
	"github.com/pageza/foodgram/backend/internal/types"
)

func validRegister() types.RegisterRequest {
	return types.RegisterRequest{
		Email:     "cook@example.com",
		Username:  "cook",
		FirstName: "Jane",
		LastName:  "Doe",
		Password:  "password123",
	}
}

func newUserService() (*UserService, *mocks.MockUserRepository, *mocks.MockFollowRepository) {
	users := new(mocks.MockUserRepository)
	follows := new(mocks.MockFollowRepository)
	svc := NewUserService(users, follows, applog.NullLogger())
	svc.cost = bcrypt.MinCost
	return svc, users, follows
}

func TestRegister(t *testing.T) {
	svc, users, _ := newUserService()
	ctx := context.Background()
	req := validRegister()

	users.On("Taken", ctx, req.Email, req.Username).Return(false, false, nil)
	users.On("Create", ctx, mock.AnythingOfType("*model.User")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*model.User).ID = uuid.New()
		}).
		Return(nil)

	resp, err := svc.Register(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "cook", resp.Username)
	assert.False(t, resp.IsSubscribed)

	created := users.Calls[1].Arguments.Get(1).(*model.User)
	assert.Equal(t, model.RoleUser, created.Role)
	assert.NotEqual(t, req.Password, created.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte(req.Password)))
}

func TestRegisterTaken(t *testing.T) {
	svc, users, _ := newUserService()
	ctx := context.Background()
	req := validRegister()

	users.On("Taken", ctx, req.Email, req.Username).Return(true, false, nil)

	_, err := svc.Register(ctx, req)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.ErrorIs(t, err, apperror.ErrConflict)
	assert.Equal(t, "user_exists", appErr.Code)
	assert.Contains(t, appErr.Fields, "email")
	assert.NotContains(t, appErr.Fields, "username")
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegisterInvalid(t *testing.T) {
	svc, users, _ := newUserService()
	req := validRegister()
	req.Password = "short"
	req.Username = "bad name"

	_, err := svc.Register(context.Background(), req)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Contains(t, appErr.Fields, "password")
	assert.Contains(t, appErr.Fields, "username")
	users.AssertNotCalled(t, "Taken", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetUserSubscription(t *testing.T) {
	svc, users, follows := newUserService()
	ctx := context.Background()
	target := &model.User{ID: uuid.New(), Username: "chef"}
	viewer := types.Identity{UserID: uuid.New()}

	users.On("GetByID", ctx, target.ID).Return(target, nil)
	follows.On("FollowingAmong", ctx, viewer.UserID, []uuid.UUID{target.ID}).
		Return(map[uuid.UUID]bool{target.ID: true}, nil)

	resp, err := svc.Get(ctx, &viewer, target.ID)
	require.NoError(t, err)
	assert.True(t, resp.IsSubscribed)

	anon, err := svc.Get(ctx, nil, target.ID)
	require.NoError(t, err)
	assert.False(t, anon.IsSubscribed)

	self := types.Identity{UserID: target.ID}
	own, err := svc.Get(ctx, &self, target.ID)
	require.NoError(t, err)
	assert.False(t, own.IsSubscribed)
	follows.AssertNumberOfCalls(t, "FollowingAmong", 1)
}
