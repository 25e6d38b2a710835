package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/pageza/foodgram/backend/internal/apperror"
	"github.com/pageza/foodgram/backend/internal/model"
	"github.com/pageza/foodgram/backend/internal/pagination"
	"github.com/pageza/foodgram/backend/internal/repository"
	"github.com/pageza/foodgram/backend/internal/types"
)

var _ IFollowService = (*FollowService)(nil)

type FollowService struct {
	users   repository.UserRepository
	recipes repository.RecipeRepository
	follows repository.FollowRepository
	logger  *slog.Logger
}

func NewFollowService(users repository.UserRepository, recipes repository.RecipeRepository, follows repository.FollowRepository, logger *slog.Logger) *FollowService {
	return &FollowService{users: users, recipes: recipes, follows: follows, logger: logger}
}

func (s *FollowService) Subscribe(ctx context.Context, userID, authorID uuid.UUID, recipesLimit int) (*types.SubscriptionResponse, error) {
	author, err := s.users.GetByID(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if userID == authorID {
		return nil, apperror.Invalid("self_subscription", "you cannot subscribe to yourself")
	}

	err = s.follows.Follow(ctx, userID, authorID)
	if errors.Is(err, apperror.ErrConflict) {
		return nil, apperror.Conflict("already_subscribed", "already subscribed to this author")
	}
	if err != nil {
		return nil, err
	}
	s.logger.DebugContext(ctx, "subscribed", "user_id", userID, "author_id", authorID)

	views, err := s.subscriptionViews(ctx, []model.User{*author}, recipesLimit)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *FollowService) Unsubscribe(ctx context.Context, userID, authorID uuid.UUID) error {
	if _, err := s.users.GetByID(ctx, authorID); err != nil {
		return err
	}

	err := s.follows.Unfollow(ctx, userID, authorID)
	if errors.Is(err, apperror.ErrAbsent) {
		return apperror.Absent("not_subscribed", "not subscribed to this author")
	}
	if err != nil {
		return err
	}
	s.logger.DebugContext(ctx, "unsubscribed", "user_id", userID, "author_id", authorID)
	return nil
}

func (s *FollowService) Subscriptions(ctx context.Context, userID uuid.UUID, page pagination.Params, recipesLimit int) ([]types.SubscriptionResponse, int64, error) {
	authors, count, err := s.follows.ListFollowed(ctx, userID, page)
	if err != nil {
		return nil, 0, err
	}
	views, err := s.subscriptionViews(ctx, authors, recipesLimit)
	if err != nil {
		return nil, 0, err
	}
	return views, count, nil
}

// subscriptionViews renders followed authors with their newest recipes and
// total recipe count.
func (s *FollowService) subscriptionViews(ctx context.Context, authors []model.User, recipesLimit int) ([]types.SubscriptionResponse, error) {
	views := make([]types.SubscriptionResponse, 0, len(authors))
	if len(authors) == 0 {
		return views, nil
	}

	ids := make([]uuid.UUID, 0, len(authors))
	for _, a := range authors {
		ids = append(ids, a.ID)
	}
	counts, err := s.recipes.CountByAuthors(ctx, ids)
	if err != nil {
		return nil, err
	}

	for i := range authors {
		recipes, err := s.recipes.ListByAuthor(ctx, authors[i].ID, recipesLimit)
		if err != nil {
			return nil, err
		}
		summaries := make([]types.RecipeSummary, 0, len(recipes))
		for j := range recipes {
			summaries = append(summaries, types.NewRecipeSummary(&recipes[j]))
		}
		views = append(views, types.SubscriptionResponse{
			UserResponse: types.NewUserResponse(&authors[i], true),
			Recipes:      summaries,
			RecipesCount: counts[authors[i].ID],
		})
	}
	return views, nil
}
