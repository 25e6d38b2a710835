package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/model"
)

func TestValidateTokenValid(t *testing.T) {
	svc := NewAuthService("test-secret")
	user := &model.User{ID: uuid.New(), Username: "tester", Role: model.RoleAdmin}

	token, err := svc.GenerateToken(user)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "tester", claims.Username)
	assert.Equal(t, model.RoleAdmin, claims.Role)
	assert.True(t, claims.Identity().IsAdmin())
}

func TestValidateTokenInvalid(t *testing.T) {
	svc := NewAuthService("test-secret")

	claims, err := svc.ValidateToken("invalid.token")
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, err := NewAuthService("one").GenerateToken(&model.User{ID: uuid.New()})
	require.NoError(t, err)

	_, err = NewAuthService("two").ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenExpired(t *testing.T) {
	svc := NewAuthService("test-secret")
	svc.now = func() time.Time { return time.Now().Add(-48 * time.Hour) }
	token, err := svc.GenerateToken(&model.User{ID: uuid.New()})
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenRejectsOtherAlgorithms(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"user_id": uuid.NewString()})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewAuthService("test-secret").ValidateToken(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenDefaultsRole(t *testing.T) {
	svc := NewAuthService("test-secret")
	token, err := svc.GenerateToken(&model.User{ID: uuid.New(), Username: "plain"})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, claims.Role)
}
