package middleware

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/apperror"
	applog "github.com/pageza/foodgram/backend/internal/log"
	"github.com/pageza/foodgram/backend/internal/types"
)

const identityKey = "identity"

// TokenValidator is an interface for validating JWT tokens
type TokenValidator interface {
	ValidateToken(token string) (*types.TokenClaims, error)
}

// RequireAuth rejects requests without a valid bearer token.
func RequireAuth(validator TokenValidator, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := authenticate(c, validator, logger); !ok {
			return
		}
		if _, ok := CurrentUser(c); !ok {
			AbortWithError(c, logger, apperror.Unauthorized("authentication credentials were not provided"))
			return
		}
		c.Next()
	}
}

// OptionalAuth attaches the caller's identity when a token is present.
// A present but invalid token is still rejected.
func OptionalAuth(validator TokenValidator, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := authenticate(c, validator, logger); !ok {
			return
		}
		c.Next()
	}
}

// authenticate parses the Authorization header. It reports false after
// aborting the request; a missing header is not a failure.
func authenticate(c *gin.Context, validator TokenValidator, logger *slog.Logger) (*types.Identity, bool) {
	if identity, ok := CurrentUser(c); ok {
		return identity, true
	}

	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, true
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		AbortWithError(c, logger, apperror.Unauthorized("invalid authorization header format"))
		return nil, false
	}

	claims, err := validator.ValidateToken(parts[1])
	if err != nil {
		AbortWithError(c, logger, apperror.Unauthorized("invalid or expired token"))
		return nil, false
	}

	identity := claims.Identity()
	c.Set(identityKey, &identity)
	ctx := applog.AppendCtx(c.Request.Context(), slog.String("user_id", identity.UserID.String()))
	c.Request = c.Request.WithContext(ctx)
	return &identity, true
}

// CurrentUser returns the identity attached by the auth middleware.
func CurrentUser(c *gin.Context) (*types.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil, false
	}
	identity, ok := v.(*types.Identity)
	return identity, ok
}
