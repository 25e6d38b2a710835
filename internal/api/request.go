package api

import (
	"log/slog"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/foodgram/backend/internal/apperror"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/pagination"
	"github.com/pageza/foodgram/backend/internal/types"
)

// handler holds what every handler needs to write errors.
type handler struct {
	logger *slog.Logger
}

func (h handler) fail(c *gin.Context, err error) {
	middleware.AbortWithError(c, h.logger, err)
}

// pathID parses the :id path parameter. A malformed id cannot name an
// existing resource, so it is reported as not found.
func (h handler) pathID(c *gin.Context, resource string) (uuid.UUID, bool) {
	raw := c.Param("id")
	id, err := uuid.Parse(raw)
	if err != nil {
		h.fail(c, apperror.NotFound(resource, raw))
		return uuid.Nil, false
	}
	return id, true
}

func (h handler) bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		h.fail(c, apperror.ValidationFailed("body", "malformed JSON body"))
		return false
	}
	return true
}

// identity returns the authenticated caller. Routes calling it sit behind
// RequireAuth.
func (h handler) identity(c *gin.Context) (types.Identity, bool) {
	who, ok := middleware.CurrentUser(c)
	if !ok {
		h.fail(c, apperror.Unauthorized("authentication credentials were not provided"))
		return types.Identity{}, false
	}
	return *who, true
}

func viewer(c *gin.Context) *types.Identity {
	who, _ := middleware.CurrentUser(c)
	return who
}

// requestURL rebuilds the absolute URL of the request for pagination
// links.
func requestURL(c *gin.Context) *url.URL {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return &url.URL{
		Scheme:   scheme,
		Host:     c.Request.Host,
		Path:     c.Request.URL.Path,
		RawQuery: c.Request.URL.RawQuery,
	}
}

// queryBool parses a 1/0/true/false flag; absent is false.
func queryBool(q url.Values, name string) (bool, error) {
	switch q.Get(name) {
	case "", "0", "false", "False":
		return false, nil
	case "1", "true", "True":
		return true, nil
	default:
		return false, apperror.ValidationFailed(name, name+" must be one of 1, 0, true, false")
	}
}

// queryLimit parses a non-negative integer; absent is 0.
func queryLimit(q url.Values, name string) (int, error) {
	raw := q.Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, apperror.ValidationFailed(name, name+" must be a non-negative integer")
	}
	return n, nil
}

// recipeQuery reads the listing filters shared by /recipes and
// /users/:id/recipes.
func recipeQuery(q url.Values) (types.RecipeQuery, error) {
	var rq types.RecipeQuery
	if raw := q.Get("author"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return rq, apperror.ValidationFailed("author", "author must be a user id")
		}
		rq.Author = &id
	}
	rq.Tags = q["tags"]

	var err error
	if rq.IsFavorited, err = queryBool(q, "is_favorited"); err != nil {
		return rq, err
	}
	if rq.IsInShoppingCart, err = queryBool(q, "is_in_shopping_cart"); err != nil {
		return rq, err
	}
	return rq, nil
}

func recipePage(q url.Values) (pagination.Params, error) {
	return pagination.FromQuery(q, "limit", pagination.DefaultSize)
}
