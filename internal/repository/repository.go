// Package repository provides GORM-backed persistence for the recipe domain.
package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/pageza/foodgram/backend/internal/model"
	"github.com/pageza/foodgram/backend/internal/pagination"
)

// RecipeFilter narrows a recipe listing. Nil or empty fields do not filter.
// Filters are combined with AND; TagSlugs match any of the given slugs.
type RecipeFilter struct {
	AuthorID    *uuid.UUID
	TagSlugs    []string
	FavoritedBy *uuid.UUID
	InCartOf    *uuid.UUID
}

// RecipeUpdate describes a partial recipe update. Fields holds column
// updates; a non-nil Ingredients or TagIDs replaces the whole set.
type RecipeUpdate struct {
	Fields      map[string]any
	Ingredients *[]model.RecipeIngredient
	TagIDs      *[]uuid.UUID
}

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	Taken(ctx context.Context, email, username string) (emailTaken, usernameTaken bool, err error)
}

type TagRepository interface {
	Create(ctx context.Context, tag *model.Tag) error
	List(ctx context.Context) ([]model.Tag, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Tag, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Tag, error)
}

type IngredientRepository interface {
	Create(ctx context.Context, ingredient *model.Ingredient) error
	List(ctx context.Context, namePrefix string) ([]model.Ingredient, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Ingredient, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Ingredient, error)
}

type RecipeRepository interface {
	// Create stores the recipe with its ingredient lines and the tags
	// referenced by recipe.Tags in one transaction.
	Create(ctx context.Context, recipe *model.Recipe) error
	Update(ctx context.Context, id uuid.UUID, upd RecipeUpdate) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Recipe, error)
	List(ctx context.Context, filter RecipeFilter, page pagination.Params) ([]model.Recipe, int64, error)
	ListByAuthor(ctx context.Context, authorID uuid.UUID, limit int) ([]model.Recipe, error)
	CountByAuthors(ctx context.Context, authorIDs []uuid.UUID) (map[uuid.UUID]int64, error)
}

// RelationRepository stores favorites and shopping cart entries. Add
// returns apperror.ErrConflict when the pair already exists and Remove
// returns apperror.ErrAbsent when it does not.
type RelationRepository interface {
	AddFavorite(ctx context.Context, userID, recipeID uuid.UUID) error
	RemoveFavorite(ctx context.Context, userID, recipeID uuid.UUID) error
	AddToCart(ctx context.Context, userID, recipeID uuid.UUID) error
	RemoveFromCart(ctx context.Context, userID, recipeID uuid.UUID) error
	FavoritedAmong(ctx context.Context, userID uuid.UUID, recipeIDs []uuid.UUID) (map[uuid.UUID]bool, error)
	CartedAmong(ctx context.Context, userID uuid.UUID, recipeIDs []uuid.UUID) (map[uuid.UUID]bool, error)
	CartLines(ctx context.Context, userID uuid.UUID) ([]model.RecipeIngredient, error)
}

// FollowRepository follows the same conflict and absence contract as
// RelationRepository.
type FollowRepository interface {
	Follow(ctx context.Context, userID, authorID uuid.UUID) error
	Unfollow(ctx context.Context, userID, authorID uuid.UUID) error
	FollowingAmong(ctx context.Context, userID uuid.UUID, authorIDs []uuid.UUID) (map[uuid.UUID]bool, error)
	ListFollowed(ctx context.Context, userID uuid.UUID, page pagination.Params) ([]model.User, int64, error)
}
