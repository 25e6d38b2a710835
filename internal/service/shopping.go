package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/pageza/foodgram/backend/internal/apperror"
	"github.com/pageza/foodgram/backend/internal/repository"
	"github.com/pageza/foodgram/backend/internal/shopping"
)

var _ IShoppingService = (*ShoppingService)(nil)

type ShoppingService struct {
	relations repository.RelationRepository
	logger    *slog.Logger
}

func NewShoppingService(relations repository.RelationRepository, logger *slog.Logger) *ShoppingService {
	return &ShoppingService{relations: relations, logger: logger}
}

// Download aggregates the user's cart. An empty result is an error so the
// caller never serves an empty attachment.
func (s *ShoppingService) Download(ctx context.Context, userID uuid.UUID) ([]shopping.Item, error) {
	lines, err := s.relations.CartLines(ctx, userID)
	if err != nil {
		return nil, err
	}

	items := shopping.Aggregate(lines)
	if len(items) == 0 {
		return nil, apperror.EmptyResult("empty_shopping_cart", "the shopping cart is empty")
	}
	s.logger.DebugContext(ctx, "shopping list built", "user_id", userID, "items", len(items))
	return items, nil
}
