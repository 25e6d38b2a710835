package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/pageza/foodgram/backend/internal/pagination"
	"github.com/pageza/foodgram/backend/internal/shopping"
	"github.com/pageza/foodgram/backend/internal/types"
)

// IUserService defines the interface for user operations
type IUserService interface {
	Register(ctx context.Context, req types.RegisterRequest) (*types.UserResponse, error)
	Get(ctx context.Context, viewer *types.Identity, id uuid.UUID) (*types.UserResponse, error)
}

// IRecipeService defines the interface for recipe operations. A nil viewer
// is an anonymous caller.
type IRecipeService interface {
	Create(ctx context.Context, who types.Identity, req types.CreateRecipeRequest) (*types.RecipeResponse, error)
	Update(ctx context.Context, who types.Identity, id uuid.UUID, req types.UpdateRecipeRequest) (*types.RecipeResponse, error)
	Delete(ctx context.Context, who types.Identity, id uuid.UUID) error
	Get(ctx context.Context, viewer *types.Identity, id uuid.UUID) (*types.RecipeResponse, error)
	List(ctx context.Context, viewer *types.Identity, q types.RecipeQuery, page pagination.Params) ([]types.RecipeResponse, int64, error)
}

// IRelationService defines the favorite and shopping cart toggles
type IRelationService interface {
	Favorite(ctx context.Context, userID, recipeID uuid.UUID) (*types.RecipeSummary, error)
	Unfavorite(ctx context.Context, userID, recipeID uuid.UUID) error
	AddToCart(ctx context.Context, userID, recipeID uuid.UUID) (*types.RecipeSummary, error)
	RemoveFromCart(ctx context.Context, userID, recipeID uuid.UUID) error
}

// IFollowService defines subscription operations. recipesLimit caps the
// recipes embedded per author; zero or less embeds all of them.
type IFollowService interface {
	Subscribe(ctx context.Context, userID, authorID uuid.UUID, recipesLimit int) (*types.SubscriptionResponse, error)
	Unsubscribe(ctx context.Context, userID, authorID uuid.UUID) error
	Subscriptions(ctx context.Context, userID uuid.UUID, page pagination.Params, recipesLimit int) ([]types.SubscriptionResponse, int64, error)
}

// IShoppingService builds the shopping list of a user's cart
type IShoppingService interface {
	Download(ctx context.Context, userID uuid.UUID) ([]shopping.Item, error)
}

// ICatalogService serves tags and ingredients
type ICatalogService interface {
	ListTags(ctx context.Context) ([]types.TagResponse, error)
	GetTag(ctx context.Context, id uuid.UUID) (*types.TagResponse, error)
	ListIngredients(ctx context.Context, namePrefix string) ([]types.IngredientResponse, error)
	GetIngredient(ctx context.Context, id uuid.UUID) (*types.IngredientResponse, error)
}
