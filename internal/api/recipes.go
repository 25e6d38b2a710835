package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/pagination"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/shopping"
	"github.com/pageza/foodgram/backend/internal/types"
)

const shoppingListFilename = "shopping_list.txt"

type RecipeHandler struct {
	handler
	recipes   service.IRecipeService
	relations service.IRelationService
	shopping  service.IShoppingService
	limiter   *middleware.RateLimiter
}

func NewRecipeHandler(
	recipes service.IRecipeService,
	relations service.IRelationService,
	shopping service.IShoppingService,
	limiter *middleware.RateLimiter,
	logger *slog.Logger,
) *RecipeHandler {
	return &RecipeHandler{
		handler:   handler{logger: logger},
		recipes:   recipes,
		relations: relations,
		shopping:  shopping,
		limiter:   limiter,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup, required, optional gin.HandlerFunc) {
	create := []gin.HandlerFunc{required}
	if h.limiter != nil {
		create = append(create, h.limiter.Middleware())
	}
	create = append(create, h.CreateRecipe)

	recipes := router.Group("/recipes")
	{
		recipes.GET("", optional, h.ListRecipes)
		recipes.POST("", create...)
		recipes.GET("/download_shopping_cart", required, h.DownloadShoppingCart)
		recipes.GET("/:id", optional, h.GetRecipe)
		recipes.PATCH("/:id", required, h.UpdateRecipe)
		recipes.DELETE("/:id", required, h.DeleteRecipe)
		recipes.POST("/:id/favorite", required, h.Favorite)
		recipes.DELETE("/:id/favorite", required, h.Unfavorite)
		recipes.POST("/:id/shopping_cart", required, h.AddToCart)
		recipes.DELETE("/:id/shopping_cart", required, h.RemoveFromCart)
	}
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	q := c.Request.URL.Query()
	rq, err := recipeQuery(q)
	if err != nil {
		h.fail(c, err)
		return
	}
	page, err := recipePage(q)
	if err != nil {
		h.fail(c, err)
		return
	}

	results, count, err := h.recipes.List(c.Request.Context(), viewer(c), rq, page)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, pagination.New(requestURL(c), page, count, results))
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := h.pathID(c, "recipe")
	if !ok {
		return
	}
	recipe, err := h.recipes.Get(c.Request.Context(), viewer(c), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	who, ok := h.identity(c)
	if !ok {
		return
	}
	var req types.CreateRecipeRequest
	if !h.bind(c, &req) {
		return
	}

	recipe, err := h.recipes.Create(c.Request.Context(), who, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, recipe)
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	who, ok := h.identity(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "recipe")
	if !ok {
		return
	}
	var req types.UpdateRecipeRequest
	if !h.bind(c, &req) {
		return
	}

	recipe, err := h.recipes.Update(c.Request.Context(), who, id, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	who, ok := h.identity(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "recipe")
	if !ok {
		return
	}
	if err := h.recipes.Delete(c.Request.Context(), who, id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) Favorite(c *gin.Context) {
	h.addRelation(c, h.relations.Favorite)
}

func (h *RecipeHandler) Unfavorite(c *gin.Context) {
	h.removeRelation(c, h.relations.Unfavorite)
}

func (h *RecipeHandler) AddToCart(c *gin.Context) {
	h.addRelation(c, h.relations.AddToCart)
}

func (h *RecipeHandler) RemoveFromCart(c *gin.Context) {
	h.removeRelation(c, h.relations.RemoveFromCart)
}

type addFunc = func(ctx context.Context, userID, recipeID uuid.UUID) (*types.RecipeSummary, error)

type removeFunc = func(ctx context.Context, userID, recipeID uuid.UUID) error

func (h *RecipeHandler) addRelation(c *gin.Context, add addFunc) {
	who, ok := h.identity(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "recipe")
	if !ok {
		return
	}
	summary, err := add(c.Request.Context(), who.UserID, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, summary)
}

func (h *RecipeHandler) removeRelation(c *gin.Context, remove removeFunc) {
	who, ok := h.identity(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "recipe")
	if !ok {
		return
	}
	if err := remove(c.Request.Context(), who.UserID, id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DownloadShoppingCart serves the caller's aggregated shopping list as a
// plain-text attachment.
func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	who, ok := h.identity(c)
	if !ok {
		return
	}
	items, err := h.shopping.Download(c.Request.Context(), who.UserID)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="`+shoppingListFilename+`"`)
	c.Status(http.StatusOK)
	if err := shopping.Render(c.Writer, items); err != nil {
		h.logger.ErrorContext(c.Request.Context(), "writing shopping list", "error", err)
	}
}
