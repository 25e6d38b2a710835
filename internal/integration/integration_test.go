package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/config"
	applog "github.com/pageza/foodgram/backend/internal/log"
	"github.com/pageza/foodgram/backend/internal/model"
	"github.com/pageza/foodgram/backend/internal/pagination"
	"github.com/pageza/foodgram/backend/internal/server"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/pageza/foodgram/backend/internal/types"
)

const jwtSecret = "integration-secret"

type client struct {
	t       *testing.T
	handler http.Handler
	token   string
}

func (c client) do(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	w := httptest.NewRecorder()
	c.handler.ServeHTTP(w, req)
	return w
}

// register creates a user through the API and returns a client
// authenticated as that user.
func register(t *testing.T, handler http.Handler, username string) (client, types.UserResponse) {
	t.Helper()
	anon := client{t: t, handler: handler}
	w := anon.do(http.MethodPost, "/api/users", map[string]any{
		"email":      username + "@example.com",
		"username":   username,
		"first_name": "Test",
		"last_name":  username,
		"password":   testhelpers.TestPassword,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var user types.UserResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &user))

	token, err := service.NewAuthService(jwtSecret).GenerateToken(&model.User{ID: user.ID, Username: user.Username, Role: model.RoleUser})
	require.NoError(t, err)
	return client{t: t, handler: handler, token: token}, user
}

// TestRecipeFlow runs the main user journey against Postgres and Redis.
func TestRecipeFlow(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testhelpers.SetupPostgres(t)
	rdb := testhelpers.SetupRedis(t)

	cfg := &config.Config{ServerHost: "127.0.0.1", ServerPort: "0", JWTSecret: jwtSecret, RecipeCreateLimit: 2}
	handler := server.New(cfg, db, rdb, applog.NullLogger()).Handler()

	salt := testhelpers.CreateIngredient(t, db, "Salt", "g")
	water := testhelpers.CreateIngredient(t, db, "Water", "ml")
	lunch := testhelpers.CreateTag(t, db, "lunch", model.ColorGreen)

	chef, chefUser := register(t, handler, "chef")
	fan, _ := register(t, handler, "fan")

	create := func(name string, lines ...map[string]any) types.RecipeResponse {
		w := chef.do(http.MethodPost, "/api/recipes", map[string]any{
			"name":         name,
			"text":         "Cook it",
			"image":        name + ".png",
			"cooking_time": 30,
			"ingredients":  lines,
			"tags":         []string{lunch.ID.String()},
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var r types.RecipeResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &r))
		return r
	}
	soup := create("Soup", map[string]any{"id": water.ID, "amount": 200}, map[string]any{"id": salt.ID, "amount": 2})
	broth := create("Broth", map[string]any{"id": salt.ID, "amount": 3})

	// The creation limit is two per hour.
	w := chef.do(http.MethodPost, "/api/recipes", map[string]any{"name": "Third"})
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	for _, r := range []types.RecipeResponse{soup, broth} {
		w = fan.do(http.MethodPost, "/api/recipes/"+r.ID.String()+"/shopping_cart", nil)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}
	w = fan.do(http.MethodGet, "/api/recipes/download_shopping_cart", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Salt - 5 g\nWater - 200 ml\n", w.Body.String())

	w = fan.do(http.MethodPost, "/api/recipes/"+soup.ID.String()+"/favorite", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	w = fan.do(http.MethodPost, "/api/recipes/"+soup.ID.String()+"/favorite", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = fan.do(http.MethodGet, "/api/recipes?is_favorited=1&tags=lunch", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page pagination.Page[types.RecipeResponse]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	require.Len(t, page.Results, 1)
	assert.Equal(t, "Soup", page.Results[0].Name)
	assert.True(t, page.Results[0].IsFavorited)
	assert.True(t, page.Results[0].IsInShoppingCart)

	w = fan.do(http.MethodPost, "/api/users/"+chefUser.ID.String()+"/subscribe?recipes_limit=1", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var sub types.SubscriptionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sub))
	assert.Equal(t, int64(2), sub.RecipesCount)
	require.Len(t, sub.Recipes, 1)
	assert.Equal(t, "Broth", sub.Recipes[0].Name)

	// Deleting a recipe removes it from carts and favorites.
	w = chef.do(http.MethodDelete, "/api/recipes/"+soup.ID.String(), nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	w = fan.do(http.MethodGet, "/api/recipes/download_shopping_cart", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Salt - 3 g\n", w.Body.String())
	assert.Zero(t, testhelpers.Count(t, db, &model.Favorite{}, "recipe_id = ?", soup.ID))
}
