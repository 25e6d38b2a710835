// Package shopping turns the ingredient lines of carted recipes into a
// consolidated shopping list.
package shopping

import (
	"bufio"
	"fmt"
	"io"
	"sort"

	"github.com/google/uuid"

	"github.com/pageza/foodgram/backend/internal/model"
)

// Item is one consolidated shopping list row.
type Item struct {
	IngredientID uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Unit         string    `json:"measurement_unit"`
	Amount       int       `json:"amount"`
}

// Aggregate sums amounts per ingredient. Lines must have Ingredient loaded.
// Groups whose total is not positive are dropped; the result is ordered by
// name, then unit.
func Aggregate(lines []model.RecipeIngredient) []Item {
	byID := make(map[uuid.UUID]*Item)
	for _, line := range lines {
		item, ok := byID[line.IngredientID]
		if !ok {
			item = &Item{
				IngredientID: line.IngredientID,
				Name:         line.Ingredient.Name,
				Unit:         line.Ingredient.MeasurementUnit,
			}
			byID[line.IngredientID] = item
		}
		item.Amount += line.Amount
	}

	items := make([]Item, 0, len(byID))
	for _, item := range byID {
		if item.Amount > 0 {
			items = append(items, *item)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Name != items[j].Name {
			return items[i].Name < items[j].Name
		}
		return items[i].Unit < items[j].Unit
	})
	return items
}

// Render writes one "{name} - {amount} {unit}" line per item.
func Render(w io.Writer, items []Item) error {
	bw := bufio.NewWriter(w)
	for _, item := range items {
		if _, err := fmt.Fprintf(bw, "%s - %d %s\n", item.Name, item.Amount, item.Unit); err != nil {
			return fmt.Errorf("write shopping list: %w", err)
		}
	}
	return bw.Flush()
}
