// Package api exposes the recipe services over HTTP.
package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/service"
)

// Services bundles what the handlers depend on.
type Services struct {
	Auth      middleware.TokenValidator
	Users     service.IUserService
	Recipes   service.IRecipeService
	Relations service.IRelationService
	Follows   service.IFollowService
	Shopping  service.IShoppingService
	Catalog   service.ICatalogService
}

// Options carries optional wiring. A nil CreateLimiter disables recipe
// creation rate limiting; a nil Health always reports healthy.
type Options struct {
	Logger        *slog.Logger
	CreateLimiter *middleware.RateLimiter
	Health        func(ctx context.Context) error
}

// RegisterRoutes registers all API routes
func RegisterRoutes(router *gin.Engine, svc Services, opts Options) {
	router.GET("/health", healthCheck(opts.Health))

	base := router.Group("/api")
	required := middleware.RequireAuth(svc.Auth, opts.Logger)
	optional := middleware.OptionalAuth(svc.Auth, opts.Logger)

	NewRecipeHandler(svc.Recipes, svc.Relations, svc.Shopping, opts.CreateLimiter, opts.Logger).
		RegisterRoutes(base, required, optional)
	NewUserHandler(svc.Users, svc.Recipes, svc.Follows, opts.Logger).
		RegisterRoutes(base, required, optional)
	NewCatalogHandler(svc.Catalog, opts.Logger).RegisterRoutes(base)
}

func healthCheck(check func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if check != nil {
			if err := check(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	}
}
