package repository

import (
	"context"
	"database/sql"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/zeeyang93/finance/internal/models"
	sharedredis "github.com/zeeyang93/finance/internal/redis"
)

const userViewKeyPrefix = "user:view:"

// UserReadRepository serves the user read model. It uses Redis as the
// primary read store, falling back to PostgreSQL on a miss. Cash in the
// cached view is already rounded for presentation.
type UserReadRepository struct {
	db    *sql.DB
	cache *sharedredis.ViewCache[models.UserView]
}

func NewUserReadRepository(db *sql.DB, redisClient *goredis.Client) *UserReadRepository {
	return &UserReadRepository{
		db:    db,
		cache: sharedredis.NewViewCache[models.UserView](redisClient, 0),
	}
}

// GetView returns a UserView by attempting Redis first, then PostgreSQL.
func (r *UserReadRepository) GetView(ctx context.Context, userID string) (*models.UserView, error) {
	cacheKey := userViewKeyPrefix + userID
	if view, ok := r.cache.Get(ctx, cacheKey); ok {
		return view, nil
	}

	query := `
		SELECT id, username, cash, created_at
		FROM users
		WHERE id = $1
	`
	var view models.UserView
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&view.ID, &view.Username, &view.Cash, &view.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, models.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user view: %w", err)
	}
	view.Cash = view.Cash.Round(2)

	// Warm the cache
	r.CacheUserView(ctx, &view)
	return &view, nil
}

// CacheUserView stores the read model for a user in Redis.
func (r *UserReadRepository) CacheUserView(ctx context.Context, view *models.UserView) {
	r.cache.Set(ctx, userViewKeyPrefix+view.ID, view)
}

// InvalidateUserView drops the cached view. Called after any cash mutation;
// the next read repopulates from PostgreSQL.
func (r *UserReadRepository) InvalidateUserView(ctx context.Context, userID string) {
	r.cache.Delete(ctx, userViewKeyPrefix+userID)
}
