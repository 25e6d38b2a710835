package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/foodgram/backend/internal/apperror"
	"github.com/pageza/foodgram/backend/internal/model"
	"github.com/pageza/foodgram/backend/internal/pagination"
)

var _ RecipeRepository = (*RecipeStore)(nil)

const recipeTagsTable = "recipe_tags"

type RecipeStore struct {
	db *gorm.DB
}

func NewRecipeStore(db *gorm.DB) *RecipeStore {
	return &RecipeStore{db: db}
}

func (s *RecipeStore) Create(ctx context.Context, recipe *model.Recipe) error {
	lines := recipe.Ingredients
	tagIDs := make([]uuid.UUID, 0, len(recipe.Tags))
	for _, t := range recipe.Tags {
		tagIDs = append(tagIDs, t.ID)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(recipe).Error; err != nil {
			return fmt.Errorf("inserting recipe: %w", err)
		}
		if err := insertLines(tx, recipe.ID, lines); err != nil {
			return err
		}
		return insertTags(tx, recipe.ID, tagIDs)
	})
	if err != nil {
		return fmt.Errorf("creating recipe %q: %w", recipe.Name, err)
	}
	recipe.Ingredients = lines
	return nil
}

// Update applies upd in one transaction. Replaced ingredient lines and tags
// are deleted and inserted again, so a failed insert leaves the previous
// set in place.
func (s *RecipeStore) Update(ctx context.Context, id uuid.UUID, upd RecipeUpdate) error {
	fields := make(map[string]any, len(upd.Fields)+1)
	for k, v := range upd.Fields {
		fields[k] = v
	}
	fields["updated_at"] = time.Now()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Recipe{}).Where("id = ?", id).Updates(fields)
		if res.Error != nil {
			return fmt.Errorf("updating recipe %s: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return apperror.NotFound("recipe", id.String())
		}

		if upd.Ingredients != nil {
			if err := tx.Where("recipe_id = ?", id).Delete(&model.RecipeIngredient{}).Error; err != nil {
				return fmt.Errorf("clearing ingredients of recipe %s: %w", id, err)
			}
			if err := insertLines(tx, id, *upd.Ingredients); err != nil {
				return err
			}
		}

		if upd.TagIDs != nil {
			if err := tx.Exec("DELETE FROM "+recipeTagsTable+" WHERE recipe_id = ?", id).Error; err != nil {
				return fmt.Errorf("clearing tags of recipe %s: %w", id, err)
			}
			if err := insertTags(tx, id, *upd.TagIDs); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *RecipeStore) Delete(ctx context.Context, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Delete(&model.Recipe{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("deleting recipe %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("recipe", id.String())
	}
	return nil
}

func (s *RecipeStore) GetByID(ctx context.Context, id uuid.UUID) (*model.Recipe, error) {
	var recipe model.Recipe
	err := withDetails(s.db.WithContext(ctx)).First(&recipe, "recipes.id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("recipe", id.String())
	}
	if err != nil {
		return nil, fmt.Errorf("getting recipe %s: %w", id, err)
	}
	sortDetails(&recipe)
	return &recipe, nil
}

// List returns one page of recipes matching filter, newest first, together
// with the total number of matches.
func (s *RecipeStore) List(ctx context.Context, filter RecipeFilter, page pagination.Params) ([]model.Recipe, int64, error) {
	var count int64
	if err := s.filtered(ctx, filter).Count(&count).Error; err != nil {
		return nil, 0, fmt.Errorf("counting recipes: %w", err)
	}

	var recipes []model.Recipe
	err := withDetails(s.filtered(ctx, filter)).
		Order("recipes.created_at DESC").
		Order("recipes.id").
		Offset(page.Offset()).
		Limit(page.Size).
		Find(&recipes).Error
	if err != nil {
		return nil, 0, fmt.Errorf("listing recipes: %w", err)
	}
	for i := range recipes {
		sortDetails(&recipes[i])
	}
	return recipes, count, nil
}

// ListByAuthor returns the author's recipes newest first without details.
// A limit of zero or less returns all of them.
func (s *RecipeStore) ListByAuthor(ctx context.Context, authorID uuid.UUID, limit int) ([]model.Recipe, error) {
	q := s.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("created_at DESC").
		Order("id")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var recipes []model.Recipe
	if err := q.Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("listing recipes of author %s: %w", authorID, err)
	}
	return recipes, nil
}

func (s *RecipeStore) CountByAuthors(ctx context.Context, authorIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64, len(authorIDs))
	if len(authorIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		AuthorID uuid.UUID
		Total    int64
	}
	err := s.db.WithContext(ctx).
		Model(&model.Recipe{}).
		Select("author_id, COUNT(*) AS total").
		Where("author_id IN ?", authorIDs).
		Group("author_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("counting recipes per author: %w", err)
	}
	for _, r := range rows {
		counts[r.AuthorID] = r.Total
	}
	return counts, nil
}

func (s *RecipeStore) filtered(ctx context.Context, f RecipeFilter) *gorm.DB {
	q := s.db.WithContext(ctx).Model(&model.Recipe{})
	if f.AuthorID != nil {
		q = q.Where("recipes.author_id = ?", *f.AuthorID)
	}
	if len(f.TagSlugs) > 0 {
		tagged := s.db.Table(recipeTagsTable).
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", f.TagSlugs)
		q = q.Where("recipes.id IN (?)", tagged)
	}
	if f.FavoritedBy != nil {
		q = q.Where("recipes.id IN (?)",
			s.db.Model(&model.Favorite{}).Select("recipe_id").Where("user_id = ?", *f.FavoritedBy))
	}
	if f.InCartOf != nil {
		q = q.Where("recipes.id IN (?)",
			s.db.Model(&model.ShoppingListEntry{}).Select("recipe_id").Where("user_id = ?", *f.InCartOf))
	}
	return q
}

func withDetails(q *gorm.DB) *gorm.DB {
	return q.Preload("Author").Preload("Tags").Preload("Ingredients.Ingredient")
}

func sortDetails(r *model.Recipe) {
	sort.Slice(r.Tags, func(i, j int) bool { return r.Tags[i].Name < r.Tags[j].Name })
	sort.Slice(r.Ingredients, func(i, j int) bool {
		return r.Ingredients[i].Ingredient.Name < r.Ingredients[j].Ingredient.Name
	})
}

func insertLines(tx *gorm.DB, recipeID uuid.UUID, lines []model.RecipeIngredient) error {
	if len(lines) == 0 {
		return nil
	}
	for i := range lines {
		lines[i].ID = uuid.Nil
		lines[i].RecipeID = recipeID
	}
	if err := tx.Omit(clause.Associations).Create(&lines).Error; err != nil {
		return fmt.Errorf("inserting ingredients of recipe %s: %w", recipeID, err)
	}
	return nil
}

func insertTags(tx *gorm.DB, recipeID uuid.UUID, tagIDs []uuid.UUID) error {
	if len(tagIDs) == 0 {
		return nil
	}
	rows := make([]map[string]any, 0, len(tagIDs))
	for _, id := range tagIDs {
		rows = append(rows, map[string]any{"recipe_id": recipeID, "tag_id": id})
	}
	if err := tx.Table(recipeTagsTable).Create(rows).Error; err != nil {
		return fmt.Errorf("inserting tags of recipe %s: %w", recipeID, err)
	}
	return nil
}
