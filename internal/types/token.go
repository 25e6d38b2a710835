package types

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/pageza/foodgram/backend/internal/model"
)

// TokenClaims represents the claims in a JWT token
type TokenClaims struct {
	jwt.RegisteredClaims
	UserID   uuid.UUID  `json:"user_id"`
	Username string     `json:"username"`
	Role     model.Role `json:"role"`
}

// Identity is the authenticated caller attached to a request.
type Identity struct {
	UserID   uuid.UUID
	Username string
	Role     model.Role
}

func (i Identity) IsAdmin() bool {
	return i.Role == model.RoleAdmin
}

// Identity extracts the caller identity carried by the claims.
func (c *TokenClaims) Identity() Identity {
	return Identity{UserID: c.UserID, Username: c.Username, Role: c.Role}
}
