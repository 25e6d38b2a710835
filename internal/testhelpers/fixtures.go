package testhelpers

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/foodgram/backend/internal/model"
)

const TestPassword = "password123"

// CreateUser inserts a user with the given username and role.
func CreateUser(t *testing.T, db *gorm.DB, username string, role model.Role) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := &model.User{
		Email:        username + "@example.com",
		Username:     username,
		FirstName:    "Test",
		LastName:     username,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", username, err)
	}
	return user
}

func CreateTag(t *testing.T, db *gorm.DB, name, color string) *model.Tag {
	t.Helper()
	tag := &model.Tag{Name: name, Color: color, Slug: name}
	if err := db.Create(tag).Error; err != nil {
		t.Fatalf("failed to create tag %s: %v", name, err)
	}
	return tag
}

func CreateIngredient(t *testing.T, db *gorm.DB, name, unit string) *model.Ingredient {
	t.Helper()
	ing := &model.Ingredient{Name: name, MeasurementUnit: unit}
	if err := db.Create(ing).Error; err != nil {
		t.Fatalf("failed to create ingredient %s: %v", name, err)
	}
	return ing
}

// Line is an ingredient and amount used to build recipe fixtures.
type Line struct {
	Ingredient *model.Ingredient
	Amount     int
}

// CreateRecipe inserts a recipe by author with the given lines and tags.
// Successive calls get strictly increasing creation times.
func CreateRecipe(t *testing.T, db *gorm.DB, author *model.User, name string, lines []Line, tags ...*model.Tag) *model.Recipe {
	t.Helper()
	recipe := &model.Recipe{
		AuthorID:    author.ID,
		Name:        name,
		Text:        "Cook " + name,
		Image:       name + ".png",
		CookingTime: 15,
		CreatedAt:   nextTimestamp(),
	}
	if err := db.Omit(clause.Associations).Create(recipe).Error; err != nil {
		t.Fatalf("failed to create recipe %s: %v", name, err)
	}
	for _, l := range lines {
		ri := &model.RecipeIngredient{RecipeID: recipe.ID, IngredientID: l.Ingredient.ID, Amount: l.Amount}
		if err := db.Omit(clause.Associations).Create(ri).Error; err != nil {
			t.Fatalf("failed to add ingredient to %s: %v", name, err)
		}
	}
	for _, tag := range tags {
		row := map[string]any{"recipe_id": recipe.ID, "tag_id": tag.ID}
		if err := db.Table("recipe_tags").Create(row).Error; err != nil {
			t.Fatalf("failed to tag %s: %v", name, err)
		}
	}
	return recipe
}

var clock = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func nextTimestamp() time.Time {
	clock = clock.Add(time.Minute)
	return clock
}

// Count returns the number of rows of m matching the condition.
func Count(t *testing.T, db *gorm.DB, m any, query string, args ...any) int64 {
	t.Helper()
	var n int64
	if err := db.Model(m).Where(query, args...).Count(&n).Error; err != nil {
		t.Fatalf("failed to count %T: %v", m, err)
	}
	return n
}

// NewID returns a random identifier that no fixture uses.
func NewID() uuid.UUID {
	return uuid.New()
}
