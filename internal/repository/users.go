package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/apperror"
	"github.com/pageza/foodgram/backend/internal/model"
)

var _ UserRepository = (*UserStore)(nil)

type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) Create(ctx context.Context, user *model.User) error {
	err := s.db.WithContext(ctx).Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperror.Conflict("user_exists", "a user with this email or username already exists")
	}
	if err != nil {
		return fmt.Errorf("creating user %s: %w", user.Username, err)
	}
	return nil
}

func (s *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("user", id.String())
	}
	if err != nil {
		return nil, fmt.Errorf("getting user %s: %w", id, err)
	}
	return &user, nil
}

// Taken reports which of the given email and username are already in use.
func (s *UserStore) Taken(ctx context.Context, email, username string) (bool, bool, error) {
	var users []model.User
	err := s.db.WithContext(ctx).
		Select("email", "username").
		Where("email = ? OR username = ?", email, username).
		Find(&users).Error
	if err != nil {
		return false, false, fmt.Errorf("checking user uniqueness: %w", err)
	}

	var emailTaken, usernameTaken bool
	for _, u := range users {
		emailTaken = emailTaken || u.Email == email
		usernameTaken = usernameTaken || u.Username == username
	}
	return emailTaken, usernameTaken, nil
}
