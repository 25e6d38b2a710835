package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/pagination"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

// UserHandler serves registration, profiles and subscriptions.
type UserHandler struct {
	handler
	users   service.IUserService
	recipes service.IRecipeService
	follows service.IFollowService
}

func NewUserHandler(users service.IUserService, recipes service.IRecipeService, follows service.IFollowService, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		handler: handler{logger: logger},
		users:   users,
		recipes: recipes,
		follows: follows,
	}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup, required, optional gin.HandlerFunc) {
	users := router.Group("/users")
	{
		users.POST("", h.Register)
		users.GET("/me", required, h.Me)
		users.GET("/subscriptions", required, h.Subscriptions)
		users.GET("/:id", optional, h.GetUser)
		users.GET("/:id/recipes", optional, h.UserRecipes)
		users.POST("/:id/subscribe", required, h.Subscribe)
		users.DELETE("/:id/subscribe", required, h.Unsubscribe)
	}
}

func (h *UserHandler) Register(c *gin.Context) {
	var req types.RegisterRequest
	if !h.bind(c, &req) {
		return
	}
	user, err := h.users.Register(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (h *UserHandler) Me(c *gin.Context) {
	who, ok := h.identity(c)
	if !ok {
		return
	}
	user, err := h.users.Get(c.Request.Context(), &who, who.UserID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := h.pathID(c, "user")
	if !ok {
		return
	}
	user, err := h.users.Get(c.Request.Context(), viewer(c), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// UserRecipes lists the recipes of one author with the usual filters.
func (h *UserHandler) UserRecipes(c *gin.Context) {
	id, ok := h.pathID(c, "user")
	if !ok {
		return
	}
	// 404 for unknown authors rather than an empty page.
	if _, err := h.users.Get(c.Request.Context(), nil, id); err != nil {
		h.fail(c, err)
		return
	}

	q := c.Request.URL.Query()
	rq, err := recipeQuery(q)
	if err != nil {
		h.fail(c, err)
		return
	}
	rq.Author = &id
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

func (h *UserHandler) Subscribe(c *gin.Context) {
	who, ok := h.identity(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "user")
	if !ok {
		return
	}
	limit, err := queryLimit(c.Request.URL.Query(), "recipes_limit")
	if err != nil {
		h.fail(c, err)
		return
	}

	view, err := h.follows.Subscribe(c.Request.Context(), who.UserID, id, limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (h *UserHandler) Unsubscribe(c *gin.Context) {
	who, ok := h.identity(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "user")
	if !ok {
		return
	}
	if err := h.follows.Unsubscribe(c.Request.Context(), who.UserID, id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) Subscriptions(c *gin.Context) {
	who, ok := h.identity(c)
	if !ok {
		return
	}
	q := c.Request.URL.Query()
	page, err := pagination.FromQuery(q, "", pagination.DefaultSize)
	if err != nil {
		h.fail(c, err)
		return
	}
	limit, err := queryLimit(q, "recipes_limit")
	if err != nil {
		h.fail(c, err)
		return
	}

	views, count, err := h.follows.Subscriptions(c.Request.Context(), who.UserID, page, limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, pagination.New(requestURL(c), page, count, views))
}
