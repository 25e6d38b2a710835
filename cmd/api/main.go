package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/database"
	applog "github.com/pageza/foodgram/backend/internal/log"
	"github.com/pageza/foodgram/backend/internal/server"
)

func main() {
	os.Exit(run())
}

// run returns the process exit code so deferred closes run before exit.
func run() int {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		return 1
	}

	logger := applog.New(os.Stdout, &slog.HandlerOptions{Level: applog.ParseLevel(cfg.LogLevel)})
	slog.SetDefault(logger)
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.New(cfg)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		return 1
	}
	defer database.Close(db)

	if err := database.Migrate(db); err != nil {
		logger.Error("failed to migrate database", "error", err)
		return 1
	}

	// Rate limiting is optional; run without it when Redis is unreachable.
	var limiterStore redis.Cmdable
	if cfg.RedisEnabled() {
		client, err := database.NewRedisClient(cfg)
		if err != nil {
			logger.Warn("redis unavailable, recipe creation is not rate limited", "error", err)
		} else {
			defer client.Close()
			limiterStore = client
		}
	}

	srv := server.New(cfg, db, limiterStore, logger)

	// Channel to listen for errors coming from the server
	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			logger.Error("server error", "error", err)
			return 1
		}
		return 0
	case sig := <-quit:
		logger.Info("received signal", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
		return 1
	}
	logger.Info("server stopped")
	return 0
}
