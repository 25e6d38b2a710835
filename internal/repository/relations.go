package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/foodgram/backend/internal/apperror"
	"github.com/pageza/foodgram/backend/internal/model"
	"github.com/pageza/foodgram/backend/internal/pagination"
)

var (
	_ RelationRepository = (*RelationStore)(nil)
	_ FollowRepository   = (*FollowStore)(nil)
)

// insertPair inserts row unless its unique pair already exists. The check
// and the insert are one statement, so concurrent adds of the same pair
// yield exactly one row and one ErrConflict.
func insertPair(ctx context.Context, db *gorm.DB, row any) error {
	res := db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(row)
	if res.Error != nil {
		return fmt.Errorf("inserting %T: %w", row, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperror.ErrConflict
	}
	return nil
}

func deletePair(ctx context.Context, db *gorm.DB, row any, query string, args ...any) error {
	res := db.WithContext(ctx).Where(query, args...).Delete(row)
	if res.Error != nil {
		return fmt.Errorf("deleting %T: %w", row, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperror.ErrAbsent
	}
	return nil
}

// among returns which of ids appear in column of table for the user.
func among(ctx context.Context, db *gorm.DB, table any, column string, userID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]bool, error) {
	found := make(map[uuid.UUID]bool, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	var hits []uuid.UUID
	err := db.WithContext(ctx).
		Model(table).
		Where("user_id = ? AND "+column+" IN ?", userID, ids).
		Pluck(column, &hits).Error
	if err != nil {
		return nil, fmt.Errorf("looking up %T: %w", table, err)
	}
	for _, id := range hits {
		found[id] = true
	}
	return found, nil
}

type RelationStore struct {
	db *gorm.DB
}

func NewRelationStore(db *gorm.DB) *RelationStore {
	return &RelationStore{db: db}
}

func (s *RelationStore) AddFavorite(ctx context.Context, userID, recipeID uuid.UUID) error {
	return insertPair(ctx, s.db, &model.Favorite{UserID: userID, RecipeID: recipeID})
}

func (s *RelationStore) RemoveFavorite(ctx context.Context, userID, recipeID uuid.UUID) error {
	return deletePair(ctx, s.db, &model.Favorite{}, "user_id = ? AND recipe_id = ?", userID, recipeID)
}

func (s *RelationStore) AddToCart(ctx context.Context, userID, recipeID uuid.UUID) error {
	return insertPair(ctx, s.db, &model.ShoppingListEntry{UserID: userID, RecipeID: recipeID})
}

func (s *RelationStore) RemoveFromCart(ctx context.Context, userID, recipeID uuid.UUID) error {
	return deletePair(ctx, s.db, &model.ShoppingListEntry{}, "user_id = ? AND recipe_id = ?", userID, recipeID)
}

func (s *RelationStore) FavoritedAmong(ctx context.Context, userID uuid.UUID, recipeIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	return among(ctx, s.db, &model.Favorite{}, "recipe_id", userID, recipeIDs)
}

func (s *RelationStore) CartedAmong(ctx context.Context, userID uuid.UUID, recipeIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	return among(ctx, s.db, &model.ShoppingListEntry{}, "recipe_id", userID, recipeIDs)
}

// CartLines returns every ingredient line of every recipe in the user's
// cart, with the ingredient loaded.
func (s *RelationStore) CartLines(ctx context.Context, userID uuid.UUID) ([]model.RecipeIngredient, error) {
	carted := s.db.Model(&model.ShoppingListEntry{}).Select("recipe_id").Where("user_id = ?", userID)

	var lines []model.RecipeIngredient
	err := s.db.WithContext(ctx).
		Preload("Ingredient").
		Where("recipe_id IN (?)", carted).
		Find(&lines).Error
	if err != nil {
		return nil, fmt.Errorf("loading cart of user %s: %w", userID, err)
	}
	return lines, nil
}

type FollowStore struct {
	db *gorm.DB
}

func NewFollowStore(db *gorm.DB) *FollowStore {
	return &FollowStore{db: db}
}

func (s *FollowStore) Follow(ctx context.Context, userID, authorID uuid.UUID) error {
	return insertPair(ctx, s.db, &model.Follow{UserID: userID, AuthorID: authorID})
}

func (s *FollowStore) Unfollow(ctx context.Context, userID, authorID uuid.UUID) error {
	return deletePair(ctx, s.db, &model.Follow{}, "user_id = ? AND author_id = ?", userID, authorID)
}

func (s *FollowStore) FollowingAmong(ctx context.Context, userID uuid.UUID, authorIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	return among(ctx, s.db, &model.Follow{}, "author_id", userID, authorIDs)
}

// ListFollowed pages the authors the user follows, most recent follow first.
func (s *FollowStore) ListFollowed(ctx context.Context, userID uuid.UUID, page pagination.Params) ([]model.User, int64, error) {
	base := func() *gorm.DB {
		return s.db.WithContext(ctx).
			Model(&model.User{}).
			Joins("JOIN follows ON follows.author_id = users.id").
			Where("follows.user_id = ?", userID)
	}

	var count int64
	if err := base().Count(&count).Error; err != nil {
		return nil, 0, fmt.Errorf("counting follows of user %s: %w", userID, err)
	}

	var users []model.User
	err := base().
		Select("users.*").
		Order("follows.created_at DESC").
		Order("users.id").
		Offset(page.Offset()).
		Limit(page.Size).
		Find(&users).Error
	if err != nil {
		return nil, 0, fmt.Errorf("listing follows of user %s: %w", userID, err)
	}
	return users, count, nil
}
