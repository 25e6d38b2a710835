package router

import (
	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/api"
	"github.com/pageza/foodgram/backend/internal/middleware"
)

// SetupRouter configures the application routes behind the shared
// middleware stack.
func SetupRouter(svc api.Services, opts api.Options, corsOrigins []string) *gin.Engine {
	router := gin.New()

	// Request ids first so every later log line and error body carries one.
	router.Use(
		middleware.RequestID(),
		middleware.Logger(opts.Logger),
		middleware.Recovery(opts.Logger),
		middleware.CORS(corsOrigins),
	)

	api.RegisterRoutes(router, svc, opts)
	return router
}
