package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/api"
	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/repository"
	"github.com/pageza/foodgram/backend/internal/router"
	"github.com/pageza/foodgram/backend/internal/service"
)

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	http   *http.Server
	logger *slog.Logger
}

// New wires repositories, services and routes. A nil redisClient disables
// recipe creation rate limiting.
func New(cfg *config.Config, db *gorm.DB, redisClient redis.Cmdable, logger *slog.Logger) *Server {
	users := repository.NewUserStore(db)
	tags := repository.NewTagStore(db)
	ingredients := repository.NewIngredientStore(db)
	recipes := repository.NewRecipeStore(db)
	relations := repository.NewRelationStore(db)
	follows := repository.NewFollowStore(db)

	svc := api.Services{
		Auth:      service.NewAuthService(cfg.JWTSecret),
		Users:     service.NewUserService(users, follows, logger),
		Recipes:   service.NewRecipeService(recipes, ingredients, tags, relations, follows, logger),
		Relations: service.NewRelationService(recipes, relations, logger),
		Follows:   service.NewFollowService(users, recipes, follows, logger),
		Shopping:  service.NewShoppingService(relations, logger),
		Catalog:   service.NewCatalogService(tags, ingredients),
	}

	opts := api.Options{
		Logger: logger,
		Health: func(ctx context.Context) error { return database.HealthCheck(ctx, db) },
	}
	if redisClient != nil && cfg.RecipeCreateLimit > 0 {
		opts.CreateLimiter = middleware.NewRecipeCreationRateLimiter(redisClient, cfg.RecipeCreateLimit, logger)
	}

	engine := router.SetupRouter(svc, opts, cfg.CORSOrigins)
	return &Server{
		router: engine,
		http: &http.Server{
			Addr:              net.JoinHostPort(cfg.ServerHost, cfg.ServerPort),
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// Handler exposes the routes, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("server listening", "addr", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving http: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
