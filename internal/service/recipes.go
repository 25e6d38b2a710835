package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/pageza/foodgram/backend/internal/apperror"
	"github.com/pageza/foodgram/backend/internal/model"
	"github.com/pageza/foodgram/backend/internal/pagination"
	"github.com/pageza/foodgram/backend/internal/repository"
	"github.com/pageza/foodgram/backend/internal/types"
)

var _ IRecipeService = (*RecipeService)(nil)

type RecipeService struct {
	recipes     repository.RecipeRepository
	ingredients repository.IngredientRepository
	tags        repository.TagRepository
	relations   repository.RelationRepository
	follows     repository.FollowRepository
	logger      *slog.Logger
}

func NewRecipeService(
	recipes repository.RecipeRepository,
	ingredients repository.IngredientRepository,
	tags repository.TagRepository,
	relations repository.RelationRepository,
	follows repository.FollowRepository,
	logger *slog.Logger,
) *RecipeService {
	return &RecipeService{
		recipes:     recipes,
		ingredients: ingredients,
		tags:        tags,
		relations:   relations,
		follows:     follows,
		logger:      logger,
	}
}

func (s *RecipeService) Create(ctx context.Context, who types.Identity, req types.CreateRecipeRequest) (*types.RecipeResponse, error) {
	if err := types.Validate(req); err != nil {
		return nil, err
	}

	lines, err := s.resolveLines(ctx, req.Ingredients)
	if err != nil {
		return nil, err
	}
	tagIDs, err := s.resolveTags(ctx, req.Tags)
	if err != nil {
		return nil, err
	}

	recipe := &model.Recipe{
		AuthorID:    who.UserID,
		Name:        req.Name,
		Text:        req.Text,
		Image:       req.Image,
		CookingTime: req.CookingTime,
		Ingredients: lines,
	}
	for _, id := range tagIDs {
		recipe.Tags = append(recipe.Tags, model.Tag{ID: id})
	}

	if err := s.recipes.Create(ctx, recipe); err != nil {
		return nil, err
	}
	s.logger.DebugContext(ctx, "recipe created", "recipe_id", recipe.ID, "author_id", who.UserID)

	return s.Get(ctx, &who, recipe.ID)
}

// Update applies a partial update. Only the author or an admin may change
// a recipe; the payload is fully validated before anything is written.
func (s *RecipeService) Update(ctx context.Context, who types.Identity, id uuid.UUID, req types.UpdateRecipeRequest) (*types.RecipeResponse, error) {
	recipe, err := s.recipes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(who, recipe); err != nil {
		return nil, err
	}
	if err := types.Validate(req); err != nil {
		return nil, err
	}
	if req.Empty() {
		return nil, apperror.Invalid("empty_update", "no fields to update")
	}

	upd := repository.RecipeUpdate{Fields: map[string]any{}}
	if req.Name != nil {
		upd.Fields["name"] = *req.Name
	}
	if req.Text != nil {
		upd.Fields["text"] = *req.Text
	}
	if req.Image != nil {
		upd.Fields["image"] = *req.Image
	}
	if req.CookingTime != nil {
		upd.Fields["cooking_time"] = *req.CookingTime
	}
	if req.Ingredients != nil {
		lines, err := s.resolveLines(ctx, *req.Ingredients)
		if err != nil {
			return nil, err
		}
		upd.Ingredients = &lines
	}
	if req.Tags != nil {
		tagIDs, err := s.resolveTags(ctx, *req.Tags)
		if err != nil {
			return nil, err
		}
		upd.TagIDs = &tagIDs
	}

	if err := s.recipes.Update(ctx, id, upd); err != nil {
		return nil, err
	}
	s.logger.DebugContext(ctx, "recipe updated", "recipe_id", id, "user_id", who.UserID)

	return s.Get(ctx, &who, id)
}

func (s *RecipeService) Delete(ctx context.Context, who types.Identity, id uuid.UUID) error {
	recipe, err := s.recipes.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := authorize(who, recipe); err != nil {
		return err
	}
	if err := s.recipes.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.DebugContext(ctx, "recipe deleted", "recipe_id", id, "user_id", who.UserID)
	return nil
}

func (s *RecipeService) Get(ctx context.Context, viewer *types.Identity, id uuid.UUID) (*types.RecipeResponse, error) {
	recipe, err := s.recipes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	views, err := s.present(ctx, viewer, []model.Recipe{*recipe})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// List pages recipes matching the query. The favorite and cart flags only
// filter for an authenticated viewer.
func (s *RecipeService) List(ctx context.Context, viewer *types.Identity, q types.RecipeQuery, page pagination.Params) ([]types.RecipeResponse, int64, error) {
	filter := repository.RecipeFilter{AuthorID: q.Author, TagSlugs: q.Tags}
	if viewer != nil {
		if q.IsFavorited {
			filter.FavoritedBy = &viewer.UserID
		}
		if q.IsInShoppingCart {
			filter.InCartOf = &viewer.UserID
		}
	}

	recipes, count, err := s.recipes.List(ctx, filter, page)
	if err != nil {
		return nil, 0, err
	}
	views, err := s.present(ctx, viewer, recipes)
	if err != nil {
		return nil, 0, err
	}
	return views, count, nil
}

func authorize(who types.Identity, recipe *model.Recipe) error {
	if who.UserID == recipe.AuthorID || who.IsAdmin() {
		return nil
	}
	return apperror.Forbidden("only the author or an administrator may modify this recipe")
}

// resolveLines checks that every referenced ingredient exists and collapses
// repeated ids, keeping the first occurrence.
func (s *RecipeService) resolveLines(ctx context.Context, items []types.IngredientAmount) ([]model.RecipeIngredient, error) {
	seen := make(map[uuid.UUID]bool, len(items))
	lines := make([]model.RecipeIngredient, 0, len(items))
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		if seen[item.ID] {
			continue
		}
		seen[item.ID] = true
		ids = append(ids, item.ID)
		lines = append(lines, model.RecipeIngredient{IngredientID: item.ID, Amount: item.Amount})
	}

	found, err := s.ingredients.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if missing := missingIDs(ids, ingredientIDs(found)); len(missing) > 0 {
		return nil, apperror.ValidationFailed("ingredients", fmt.Sprintf("unknown ingredient ids: %v", missing))
	}
	return lines, nil
}

func (s *RecipeService) resolveTags(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	unique := dedupe(ids)
	if len(unique) == 0 {
		return unique, nil
	}
	found, err := s.tags.FindByIDs(ctx, unique)
	if err != nil {
		return nil, err
	}
	known := make(map[uuid.UUID]bool, len(found))
	for _, t := range found {
		known[t.ID] = true
	}
	if missing := missingIDs(unique, known); len(missing) > 0 {
		return nil, apperror.ValidationFailed("tags", fmt.Sprintf("unknown tag ids: %v", missing))
	}
	return unique, nil
}

// present renders recipes relative to viewer, looking up the caller's
// favorites, cart and follows in one batch per kind.
func (s *RecipeService) present(ctx context.Context, viewer *types.Identity, recipes []model.Recipe) ([]types.RecipeResponse, error) {
	views := make([]types.RecipeResponse, 0, len(recipes))
	if len(recipes) == 0 {
		return views, nil
	}

	favorited := map[uuid.UUID]bool{}
	carted := map[uuid.UUID]bool{}
	following := map[uuid.UUID]bool{}
	if viewer != nil {
		recipeIDs := make([]uuid.UUID, 0, len(recipes))
		authorIDs := make([]uuid.UUID, 0, len(recipes))
		for _, r := range recipes {
			recipeIDs = append(recipeIDs, r.ID)
			authorIDs = append(authorIDs, r.AuthorID)
		}
		var err error
		if favorited, err = s.relations.FavoritedAmong(ctx, viewer.UserID, recipeIDs); err != nil {
			return nil, err
		}
		if carted, err = s.relations.CartedAmong(ctx, viewer.UserID, recipeIDs); err != nil {
			return nil, err
		}
		if following, err = s.follows.FollowingAmong(ctx, viewer.UserID, dedupe(authorIDs)); err != nil {
			return nil, err
		}
	}

	for i := range recipes {
		r := &recipes[i]
		view := types.RecipeResponse{
			ID:               r.ID,
			Author:           types.NewUserResponse(&r.Author, following[r.AuthorID]),
			Tags:             make([]types.TagResponse, 0, len(r.Tags)),
			Ingredients:      make([]types.RecipeIngredientResponse, 0, len(r.Ingredients)),
			IsFavorited:      favorited[r.ID],
			IsInShoppingCart: carted[r.ID],
			Name:             r.Name,
			Image:            r.Image,
			Text:             r.Text,
			CookingTime:      r.CookingTime,
			CreatedAt:        r.CreatedAt,
		}
		for j := range r.Tags {
			view.Tags = append(view.Tags, types.NewTagResponse(&r.Tags[j]))
		}
		for _, line := range r.Ingredients {
			view.Ingredients = append(view.Ingredients, types.RecipeIngredientResponse{
				ID:              line.IngredientID,
				Name:            line.Ingredient.Name,
				MeasurementUnit: line.Ingredient.MeasurementUnit,
				Amount:          line.Amount,
			})
		}
		views = append(views, view)
	}
	return views, nil
}

func ingredientIDs(found []model.Ingredient) map[uuid.UUID]bool {
	known := make(map[uuid.UUID]bool, len(found))
	for _, i := range found {
		known[i.ID] = true
	}
	return known
}

func missingIDs(want []uuid.UUID, known map[uuid.UUID]bool) []uuid.UUID {
	var missing []uuid.UUID
	for _, id := range want {
		if !known[id] {
			missing = append(missing, id)
		}
	}
	return missing
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
