package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/pageza/foodgram/backend/internal/apperror"
	"github.com/pageza/foodgram/backend/internal/repository"
	"github.com/pageza/foodgram/backend/internal/types"
)

var _ IRelationService = (*RelationService)(nil)

// toggle describes one user-recipe relation and its error codes.
type toggle struct {
	name         string
	add          func(ctx context.Context, userID, recipeID uuid.UUID) error
	remove       func(ctx context.Context, userID, recipeID uuid.UUID) error
	conflictCode string
	conflictMsg  string
	absentCode   string
	absentMsg    string
}

// RelationService toggles favorites and shopping cart entries.
type RelationService struct {
	recipes  repository.RecipeRepository
	favorite toggle
	cart     toggle
	logger   *slog.Logger
}

func NewRelationService(recipes repository.RecipeRepository, relations repository.RelationRepository, logger *slog.Logger) *RelationService {
	return &RelationService{
		recipes: recipes,
		favorite: toggle{
			name:         "favorite",
			add:          relations.AddFavorite,
			remove:       relations.RemoveFavorite,
			conflictCode: "already_favorited",
			conflictMsg:  "recipe is already in favorites",
			absentCode:   "not_favorited",
			absentMsg:    "recipe is not in favorites",
		},
		cart: toggle{
			name:         "shopping_cart",
			add:          relations.AddToCart,
			remove:       relations.RemoveFromCart,
			conflictCode: "already_in_shopping_cart",
			conflictMsg:  "recipe is already in the shopping cart",
			absentCode:   "not_in_shopping_cart",
			absentMsg:    "recipe is not in the shopping cart",
		},
		logger: logger,
	}
}

func (s *RelationService) Favorite(ctx context.Context, userID, recipeID uuid.UUID) (*types.RecipeSummary, error) {
	return s.add(ctx, s.favorite, userID, recipeID)
}

func (s *RelationService) Unfavorite(ctx context.Context, userID, recipeID uuid.UUID) error {
	return s.remove(ctx, s.favorite, userID, recipeID)
}

func (s *RelationService) AddToCart(ctx context.Context, userID, recipeID uuid.UUID) (*types.RecipeSummary, error) {
	return s.add(ctx, s.cart, userID, recipeID)
}

func (s *RelationService) RemoveFromCart(ctx context.Context, userID, recipeID uuid.UUID) error {
	return s.remove(ctx, s.cart, userID, recipeID)
}

func (s *RelationService) add(ctx context.Context, t toggle, userID, recipeID uuid.UUID) (*types.RecipeSummary, error) {
	recipe, err := s.recipes.GetByID(ctx, recipeID)
	if err != nil {
		return nil, err
	}

	err = t.add(ctx, userID, recipeID)
	if errors.Is(err, apperror.ErrConflict) {
		return nil, apperror.Conflict(t.conflictCode, t.conflictMsg)
	}
	if err != nil {
		return nil, err
	}

	s.logger.DebugContext(ctx, "relation added", "relation", t.name, "user_id", userID, "recipe_id", recipeID)
	summary := types.NewRecipeSummary(recipe)
	return &summary, nil
}

func (s *RelationService) remove(ctx context.Context, t toggle, userID, recipeID uuid.UUID) error {
	if _, err := s.recipes.GetByID(ctx, recipeID); err != nil {
		return err
	}

	err := t.remove(ctx, userID, recipeID)
	if errors.Is(err, apperror.ErrAbsent) {
		return apperror.Absent(t.absentCode, t.absentMsg)
	}
	if err != nil {
		return err
	}

	s.logger.DebugContext(ctx, "relation removed", "relation", t.name, "user_id", userID, "recipe_id", recipeID)
	return nil
}
