package types

import (
	"github.com/google/uuid"
)

// IngredientAmount is one ingredient line in a recipe payload.
type IngredientAmount struct {
	ID     uuid.UUID `json:"id" validate:"required"`
	Amount int       `json:"amount" validate:"min=1"`
}

// CreateRecipeRequest represents the request body for creating a recipe
type CreateRecipeRequest struct {
	Name        string             `json:"name" validate:"required,max=200"`
	Text        string             `json:"text" validate:"required"`
	Image       string             `json:"image" validate:"required"`
	CookingTime int                `json:"cooking_time" validate:"min=1"`
	Ingredients []IngredientAmount `json:"ingredients" validate:"required,min=1,dive"`
	Tags        []uuid.UUID        `json:"tags"`
}

// UpdateRecipeRequest is a partial update; nil fields are left unchanged.
type UpdateRecipeRequest struct {
	Name        *string             `json:"name" validate:"omitnil,min=1,max=200"`
	Text        *string             `json:"text" validate:"omitnil,min=1"`
	Image       *string             `json:"image" validate:"omitnil,min=1"`
	CookingTime *int                `json:"cooking_time" validate:"omitnil,min=1"`
	Ingredients *[]IngredientAmount `json:"ingredients" validate:"omitnil,min=1,dive"`
	Tags        *[]uuid.UUID        `json:"tags"`
}

// Empty reports whether the update carries no field at all.
func (r UpdateRecipeRequest) Empty() bool {
	return r.Name == nil && r.Text == nil && r.Image == nil &&
		r.CookingTime == nil && r.Ingredients == nil && r.Tags == nil
}

// RegisterRequest represents the request body for user registration
type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email,max=254"`
	Username  string `json:"username" validate:"required,max=150,username"`
	FirstName string `json:"first_name" validate:"required,max=150"`
	LastName  string `json:"last_name" validate:"required,max=150"`
	Password  string `json:"password" validate:"required,min=8,max=128"`
}

// RecipeQuery holds the listing query parameters of /recipes.
type RecipeQuery struct {
	Author           *uuid.UUID
	Tags             []string
	IsFavorited      bool
	IsInShoppingCart bool
}
