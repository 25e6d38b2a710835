package repository

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/apperror"
	"github.com/pageza/foodgram/backend/internal/model"
)

var (
	_ TagRepository        = (*TagStore)(nil)
	_ IngredientRepository = (*IngredientStore)(nil)
)

type TagStore struct {
	db *gorm.DB
}

func NewTagStore(db *gorm.DB) *TagStore {
	return &TagStore{db: db}
}

func (s *TagStore) Create(ctx context.Context, tag *model.Tag) error {
	if !model.ValidTagColor(tag.Color) {
		return apperror.ValidationFailed("color", "color must be one of "+model.ColorOrange+", "+model.ColorGreen+", "+model.ColorPurple)
	}
	err := s.db.WithContext(ctx).Create(tag).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperror.Conflict("tag_exists", "a tag with this name, color or slug already exists")
	}
	if err != nil {
		return fmt.Errorf("creating tag %s: %w", tag.Slug, err)
	}
	return nil
}

func (s *TagStore) List(ctx context.Context) ([]model.Tag, error) {
	var tags []model.Tag
	if err := s.db.WithContext(ctx).Order("name").Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	return tags, nil
}

func (s *TagStore) GetByID(ctx context.Context, id uuid.UUID) (*model.Tag, error) {
	var tag model.Tag
	err := s.db.WithContext(ctx).First(&tag, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("tag", id.String())
	}
	if err != nil {
		return nil, fmt.Errorf("getting tag %s: %w", id, err)
	}
	return &tag, nil
}

func (s *TagStore) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Tag, error) {
	var tags []model.Tag
	if len(ids) == 0 {
		return tags, nil
	}
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("finding tags: %w", err)
	}
	return tags, nil
}

type IngredientStore struct {
	db *gorm.DB
}

func NewIngredientStore(db *gorm.DB) *IngredientStore {
	return &IngredientStore{db: db}
}

func (s *IngredientStore) Create(ctx context.Context, ingredient *model.Ingredient) error {
	err := s.db.WithContext(ctx).Create(ingredient).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperror.Conflict("ingredient_exists", "an ingredient with this name already exists")
	}
	if err != nil {
		return fmt.Errorf("creating ingredient %s: %w", ingredient.Name, err)
	}
	return nil
}

// List returns ingredients ordered by name. A non-empty prefix keeps only
// names that start with it, compared case-sensitively.
func (s *IngredientStore) List(ctx context.Context, prefix string) ([]model.Ingredient, error) {
	q := s.db.WithContext(ctx).Order("name")
	if prefix != "" {
		q = q.Where("substr(name, 1, ?) = ?", utf8.RuneCountInString(prefix), prefix)
	}

	var ingredients []model.Ingredient
	if err := q.Find(&ingredients).Error; err != nil {
		return nil, fmt.Errorf("listing ingredients: %w", err)
	}
	return ingredients, nil
}

func (s *IngredientStore) GetByID(ctx context.Context, id uuid.UUID) (*model.Ingredient, error) {
	var ingredient model.Ingredient
	err := s.db.WithContext(ctx).First(&ingredient, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("ingredient", id.String())
	}
	if err != nil {
		return nil, fmt.Errorf("getting ingredient %s: %w", id, err)
	}
	return &ingredient, nil
}

func (s *IngredientStore) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Ingredient, error) {
	var ingredients []model.Ingredient
	if len(ids) == 0 {
		return ingredients, nil
	}
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&ingredients).Error; err != nil {
		return nil, fmt.Errorf("finding ingredients: %w", err)
	}
	return ingredients, nil
}
