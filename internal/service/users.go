package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/pageza/foodgram/backend/internal/apperror"
	"github.com/pageza/foodgram/backend/internal/model"
	"github.com/pageza/foodgram/backend/internal/repository"
	"github.com/pageza/foodgram/backend/internal/types"
)

var _ IUserService = (*UserService)(nil)

type UserService struct {
	users   repository.UserRepository
	follows repository.FollowRepository
	cost    int
	logger  *slog.Logger
}

func NewUserService(users repository.UserRepository, follows repository.FollowRepository, logger *slog.Logger) *UserService {
	return &UserService{users: users, follows: follows, cost: bcrypt.DefaultCost, logger: logger}
}

func (s *UserService) Register(ctx context.Context, req types.RegisterRequest) (*types.UserResponse, error) {
	if err := types.Validate(req); err != nil {
		return nil, err
	}

	emailTaken, usernameTaken, err := s.users.Taken(ctx, req.Email, req.Username)
	if err != nil {
		return nil, err
	}
	if emailTaken || usernameTaken {
		conflict := apperror.Conflict("user_exists", "a user with this email or username already exists")
		conflict.Fields = map[string]string{}
		if emailTaken {
			conflict.Fields["email"] = "a user with this email already exists"
		}
		if usernameTaken {
			conflict.Fields["username"] = "a user with this username already exists"
		}
		return nil, conflict
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &model.User{
		Email:        req.Email,
		Username:     req.Username,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: string(hash),
		Role:         model.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	s.logger.DebugContext(ctx, "user registered", "user_id", user.ID, "username", user.Username)

	resp := types.NewUserResponse(user, false)
	return &resp, nil
}

// Get returns the user as seen by viewer; is_subscribed is false for
// anonymous viewers and for the user themself.
func (s *UserService) Get(ctx context.Context, viewer *types.Identity, id uuid.UUID) (*types.UserResponse, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	subscribed := false
	if viewer != nil && viewer.UserID != id {
		following, err := s.follows.FollowingAmong(ctx, viewer.UserID, []uuid.UUID{id})
		if err != nil {
			return nil, err
		}
		subscribed = following[id]
	}

	resp := types.NewUserResponse(user, subscribed)
	return &resp, nil
}
