package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/apperror"
	applog "github.com/pageza/foodgram/backend/internal/log"
	"github.com/pageza/foodgram/backend/internal/mocks"
	"github.com/pageza/foodgram/backend/internal/model"
	"github.com/pageza/foodgram/backend/internal/pagination"
	"github.com/pageza/foodgram/backend/internal/repository"
	"github.com/pageza/foodgram/backend/internal/types"
)

type recipeMocks struct {
	recipes     *mocks.MockRecipeRepository
	ingredients *mocks.MockIngredientRepository
	tags        *mocks.MockTagRepository
	relations   *mocks.MockRelationRepository
	follows     *mocks.MockFollowRepository
}

func newRecipeService() (*RecipeService, recipeMocks) {
	m := recipeMocks{
		recipes:     new(mocks.MockRecipeRepository),
		ingredients: new(mocks.MockIngredientRepository),
		tags:        new(mocks.MockTagRepository),
		relations:   new(mocks.MockRelationRepository),
		follows:     new(mocks.MockFollowRepository),
	}
	svc := NewRecipeService(m.recipes, m.ingredients, m.tags, m.relations, m.follows, applog.NullLogger())
	return svc, m
}

func strPtr(s string) *string { return &s }

func TestCreateRecipeDedupesIngredientsKeepingFirst(t *testing.T) {
	svc, m := newRecipeService()
	ctx := context.Background()
	author := types.Identity{UserID: uuid.New(), Role: model.RoleUser}
	salt := uuid.New()
	recipeID := uuid.New()

	m.ingredients.On("FindByIDs", ctx, []uuid.UUID{salt}).
		Return([]model.Ingredient{{ID: salt, Name: "Salt", MeasurementUnit: "g"}}, nil)

	var stored *model.Recipe
	m.recipes.On("Create", ctx, mock.AnythingOfType("*model.Recipe")).
		Run(func(args mock.Arguments) {
			stored = args.Get(1).(*model.Recipe)
			stored.ID = recipeID
		}).
		Return(nil)
	m.recipes.On("GetByID", ctx, recipeID).Return(&model.Recipe{
		ID:       recipeID,
		AuthorID: author.UserID,
		Name:     "Soup",
		Ingredients: []model.RecipeIngredient{
			{IngredientID: salt, Amount: 3, Ingredient: model.Ingredient{ID: salt, Name: "Salt", MeasurementUnit: "g"}},
		},
	}, nil)
	m.relations.On("FavoritedAmong", ctx, author.UserID, []uuid.UUID{recipeID}).Return(map[uuid.UUID]bool{}, nil)
	m.relations.On("CartedAmong", ctx, author.UserID, []uuid.UUID{recipeID}).Return(map[uuid.UUID]bool{}, nil)
	m.follows.On("FollowingAmong", ctx, author.UserID, []uuid.UUID{author.UserID}).Return(map[uuid.UUID]bool{}, nil)

	resp, err := svc.Create(ctx, author, types.CreateRecipeRequest{
		Name:        "Soup",
		Text:        "Boil it",
		Image:       "soup.png",
		CookingTime: 10,
		Ingredients: []types.IngredientAmount{{ID: salt, Amount: 3}, {ID: salt, Amount: 7}},
	})
	require.NoError(t, err)

	require.NotNil(t, stored)
	require.Len(t, stored.Ingredients, 1)
	assert.Equal(t, 3, stored.Ingredients[0].Amount)
	assert.Empty(t, stored.Tags)
	assert.Equal(t, author.UserID, stored.AuthorID)
	assert.Equal(t, "Soup", resp.Name)
	require.Len(t, resp.Ingredients, 1)
	assert.Equal(t, "Salt", resp.Ingredients[0].Name)
	m.tags.AssertNotCalled(t, "FindByIDs", mock.Anything, mock.Anything)
}

func TestCreateRecipeUnknownIngredient(t *testing.T) {
	svc, m := newRecipeService()
	ctx := context.Background()
	unknown := uuid.New()

	m.ingredients.On("FindByIDs", ctx, []uuid.UUID{unknown}).Return([]model.Ingredient{}, nil)

	_, err := svc.Create(ctx, types.Identity{UserID: uuid.New()}, types.CreateRecipeRequest{
		Name:        "Soup",
		Text:        "Boil it",
		Image:       "soup.png",
		CookingTime: 10,
		Ingredients: []types.IngredientAmount{{ID: unknown, Amount: 1}},
	})
	assert.ErrorIs(t, err, apperror.ErrValidation)
	m.recipes.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateRecipeUnknownTag(t *testing.T) {
	svc, m := newRecipeService()
	ctx := context.Background()
	salt := uuid.New()
	tag := uuid.New()

	m.ingredients.On("FindByIDs", ctx, []uuid.UUID{salt}).Return([]model.Ingredient{{ID: salt}}, nil)
	m.tags.On("FindByIDs", ctx, []uuid.UUID{tag}).Return([]model.Tag{}, nil)

	_, err := svc.Create(ctx, types.Identity{UserID: uuid.New()}, types.CreateRecipeRequest{
		Name:        "Soup",
		Text:        "Boil it",
		Image:       "soup.png",
		CookingTime: 10,
		Ingredients: []types.IngredientAmount{{ID: salt, Amount: 1}},
		Tags:        []uuid.UUID{tag, tag},
	})
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Contains(t, appErr.Fields, "tags")
	m.recipes.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateRecipeInvalidPayload(t *testing.T) {
	svc, m := newRecipeService()

	_, err := svc.Create(context.Background(), types.Identity{UserID: uuid.New()}, types.CreateRecipeRequest{
		Name:        "Soup",
		Text:        "Boil it",
		Image:       "soup.png",
		CookingTime: 0,
	})
	assert.ErrorIs(t, err, apperror.ErrValidation)
	m.ingredients.AssertNotCalled(t, "FindByIDs", mock.Anything, mock.Anything)
}

func TestUpdateRecipePermissions(t *testing.T) {
	authorID := uuid.New()
	recipeID := uuid.New()

	tests := []struct {
		name    string
		who     types.Identity
		wantErr error
	}{
		{"author", types.Identity{UserID: authorID, Role: model.RoleUser}, nil},
		{"admin", types.Identity{UserID: uuid.New(), Role: model.RoleAdmin}, nil},
		{"stranger", types.Identity{UserID: uuid.New(), Role: model.RoleUser}, apperror.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newRecipeService()
			ctx := context.Background()
			recipe := &model.Recipe{ID: recipeID, AuthorID: authorID, Name: "Soup"}

			m.recipes.On("GetByID", ctx, recipeID).Return(recipe, nil)
			m.recipes.On("Update", ctx, recipeID, mock.AnythingOfType("repository.RecipeUpdate")).Return(nil)
			m.relations.On("FavoritedAmong", ctx, tt.who.UserID, mock.Anything).Return(map[uuid.UUID]bool{}, nil)
			m.relations.On("CartedAmong", ctx, tt.who.UserID, mock.Anything).Return(map[uuid.UUID]bool{}, nil)
			m.follows.On("FollowingAmong", ctx, tt.who.UserID, mock.Anything).Return(map[uuid.UUID]bool{}, nil)

			_, err := svc.Update(ctx, tt.who, recipeID, types.UpdateRecipeRequest{Name: strPtr("Stew")})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				m.recipes.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			m.recipes.AssertCalled(t, "Update", ctx, recipeID, repository.RecipeUpdate{Fields: map[string]any{"name": "Stew"}})
		})
	}
}

func TestUpdateRecipeValidatesBeforeWriting(t *testing.T) {
	svc, m := newRecipeService()
	ctx := context.Background()
	authorID := uuid.New()
	recipeID := uuid.New()

	m.recipes.On("GetByID", ctx, recipeID).Return(&model.Recipe{ID: recipeID, AuthorID: authorID}, nil)

	lines := []types.IngredientAmount{{ID: uuid.New(), Amount: 0}}
	_, err := svc.Update(ctx, types.Identity{UserID: authorID}, recipeID, types.UpdateRecipeRequest{Ingredients: &lines})

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.ErrorIs(t, err, apperror.ErrValidation)
	assert.Contains(t, appErr.Fields, "ingredients[0].amount")
	m.ingredients.AssertNotCalled(t, "FindByIDs", mock.Anything, mock.Anything)
	m.recipes.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateRecipeReplacesSets(t *testing.T) {
	svc, m := newRecipeService()
	ctx := context.Background()
	authorID := uuid.New()
	recipeID := uuid.New()
	pepper := uuid.New()

	m.recipes.On("GetByID", ctx, recipeID).Return(&model.Recipe{ID: recipeID, AuthorID: authorID}, nil)
	m.ingredients.On("FindByIDs", ctx, []uuid.UUID{pepper}).Return([]model.Ingredient{{ID: pepper}}, nil)
	m.recipes.On("Update", ctx, recipeID, mock.AnythingOfType("repository.RecipeUpdate")).Return(nil)
	m.relations.On("FavoritedAmong", ctx, authorID, mock.Anything).Return(map[uuid.UUID]bool{}, nil)
	m.relations.On("CartedAmong", ctx, authorID, mock.Anything).Return(map[uuid.UUID]bool{}, nil)
	m.follows.On("FollowingAmong", ctx, authorID, mock.Anything).Return(map[uuid.UUID]bool{}, nil)

	lines := []types.IngredientAmount{{ID: pepper, Amount: 2}}
	noTags := []uuid.UUID{}
	_, err := svc.Update(ctx, types.Identity{UserID: authorID}, recipeID, types.UpdateRecipeRequest{
		Ingredients: &lines,
		Tags:        &noTags,
	})
	require.NoError(t, err)

	upd := m.recipes.Calls[1].Arguments.Get(2).(repository.RecipeUpdate)
	require.NotNil(t, upd.Ingredients)
	assert.Equal(t, []model.RecipeIngredient{{IngredientID: pepper, Amount: 2}}, *upd.Ingredients)
	require.NotNil(t, upd.TagIDs)
	assert.Empty(t, *upd.TagIDs)
	assert.Empty(t, upd.Fields)
}

func TestUpdateRecipeNotFound(t *testing.T) {
	svc, m := newRecipeService()
	ctx := context.Background()
	id := uuid.New()

	m.recipes.On("GetByID", ctx, id).Return(nil, apperror.NotFound("recipe", id.String()))

	_, err := svc.Update(ctx, types.Identity{UserID: uuid.New()}, id, types.UpdateRecipeRequest{Name: strPtr("x")})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestDeleteRecipe(t *testing.T) {
	authorID := uuid.New()
	recipeID := uuid.New()

	t.Run("author deletes", func(t *testing.T) {
		svc, m := newRecipeService()
		ctx := context.Background()
		m.recipes.On("GetByID", ctx, recipeID).Return(&model.Recipe{ID: recipeID, AuthorID: authorID}, nil)
		m.recipes.On("Delete", ctx, recipeID).Return(nil)

		require.NoError(t, svc.Delete(ctx, types.Identity{UserID: authorID}, recipeID))
		m.recipes.AssertExpectations(t)
	})

	t.Run("stranger is forbidden", func(t *testing.T) {
		svc, m := newRecipeService()
		ctx := context.Background()
		m.recipes.On("GetByID", ctx, recipeID).Return(&model.Recipe{ID: recipeID, AuthorID: authorID}, nil)

		err := svc.Delete(ctx, types.Identity{UserID: uuid.New()}, recipeID)
		assert.ErrorIs(t, err, apperror.ErrForbidden)
		m.recipes.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func TestListRecipesAnonymousIgnoresViewerFilters(t *testing.T) {
	svc, m := newRecipeService()
	ctx := context.Background()
	page := pagination.Params{Page: 1, Size: 6}

	m.recipes.On("List", ctx, repository.RecipeFilter{TagSlugs: []string{"lunch"}}, page).
		Return([]model.Recipe{{ID: uuid.New(), Name: "Soup"}}, int64(1), nil)

	views, count, err := svc.List(ctx, nil, types.RecipeQuery{
		Tags:             []string{"lunch"},
		IsFavorited:      true,
		IsInShoppingCart: true,
	}, page)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	require.Len(t, views, 1)
	assert.False(t, views[0].IsFavorited)
	m.relations.AssertNotCalled(t, "FavoritedAmong", mock.Anything, mock.Anything, mock.Anything)
}

func TestListRecipesViewerFlags(t *testing.T) {
	svc, m := newRecipeService()
	ctx := context.Background()
	viewer := types.Identity{UserID: uuid.New()}
	authorID := uuid.New()
	first, second := uuid.New(), uuid.New()
	page := pagination.Params{Page: 1, Size: 6}

	filter := repository.RecipeFilter{FavoritedBy: &viewer.UserID}
	m.recipes.On("List", ctx, filter, page).Return([]model.Recipe{
		{ID: first, AuthorID: authorID},
		{ID: second, AuthorID: authorID},
	}, int64(2), nil)
	m.relations.On("FavoritedAmong", ctx, viewer.UserID, []uuid.UUID{first, second}).
		Return(map[uuid.UUID]bool{first: true, second: true}, nil)
	m.relations.On("CartedAmong", ctx, viewer.UserID, []uuid.UUID{first, second}).
		Return(map[uuid.UUID]bool{second: true}, nil)
	m.follows.On("FollowingAmong", ctx, viewer.UserID, []uuid.UUID{authorID}).
		Return(map[uuid.UUID]bool{authorID: true}, nil)

	views, _, err := svc.List(ctx, &viewer, types.RecipeQuery{IsFavorited: true}, page)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.True(t, views[0].IsFavorited)
	assert.False(t, views[0].IsInShoppingCart)
	assert.True(t, views[1].IsInShoppingCart)
	assert.True(t, views[0].Author.IsSubscribed)
}

func TestUpdateRecipeEmptyPayload(t *testing.T) {
	svc, m := newRecipeService()
	ctx := context.Background()
	authorID := uuid.New()
	recipeID := uuid.New()

	m.recipes.On("GetByID", ctx, recipeID).Return(&model.Recipe{ID: recipeID, AuthorID: authorID}, nil)

	_, err := svc.Update(ctx, types.Identity{UserID: authorID}, recipeID, types.UpdateRecipeRequest{})
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "empty_update", appErr.Code)
	m.recipes.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}
