package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/pageza/foodgram/backend/internal/repository"
	"github.com/pageza/foodgram/backend/internal/types"
)

var _ ICatalogService = (*CatalogService)(nil)

// CatalogService serves the read-only tag and ingredient dictionaries.
type CatalogService struct {
	tags        repository.TagRepository
	ingredients repository.IngredientRepository
}

func NewCatalogService(tags repository.TagRepository, ingredients repository.IngredientRepository) *CatalogService {
	return &CatalogService{tags: tags, ingredients: ingredients}
}

func (s *CatalogService) ListTags(ctx context.Context) ([]types.TagResponse, error) {
	tags, err := s.tags.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]types.TagResponse, 0, len(tags))
	for i := range tags {
		out = append(out, types.NewTagResponse(&tags[i]))
	}
	return out, nil
}

func (s *CatalogService) GetTag(ctx context.Context, id uuid.UUID) (*types.TagResponse, error) {
	tag, err := s.tags.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := types.NewTagResponse(tag)
	return &resp, nil
}

func (s *CatalogService) ListIngredients(ctx context.Context, namePrefix string) ([]types.IngredientResponse, error) {
	ingredients, err := s.ingredients.List(ctx, namePrefix)
	if err != nil {
		return nil, err
	}
	out := make([]types.IngredientResponse, 0, len(ingredients))
	for i := range ingredients {
		out = append(out, types.NewIngredientResponse(&ingredients[i]))
	}
	return out, nil
}

func (s *CatalogService) GetIngredient(ctx context.Context, id uuid.UUID) (*types.IngredientResponse, error) {
	ingredient, err := s.ingredients.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := types.NewIngredientResponse(ingredient)
	return &resp, nil
}
