package query

import (
	"context"

	"github.com/zeeyang93/finance/internal/models"
)

// UserViewStore serves the user read model.
type UserViewStore interface {
	GetView(ctx context.Context, userID string) (*models.UserView, error)
}

// UserQueryService serves user profile reads.
type UserQueryService struct {
	views UserViewStore
}

func NewUserQueryService(views UserViewStore) *UserQueryService {
	return &UserQueryService{views: views}
}

func (s *UserQueryService) GetUser(ctx context.Context, userID string) (*models.UserView, error) {
	return s.views.GetView(ctx, userID)
}
