package repository

import (
	"context"
	"database/sql"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/zeeyang93/finance/internal/models"
	sharedredis "github.com/zeeyang93/finance/internal/redis"
)

const transactionViewKeyPrefix = "transaction:view:"

// TransactionReadRepository handles all read operations for transactions.
// Single-transaction reads use Redis as the primary store, falling back to
// PostgreSQL on a miss; history listings always come from PostgreSQL.
type TransactionReadRepository struct {
	db    *sql.DB
	cache *sharedredis.ViewCache[models.TransactionView]
}

func NewTransactionReadRepository(db *sql.DB, redisClient *goredis.Client) *TransactionReadRepository {
	return &TransactionReadRepository{
		db:    db,
		cache: sharedredis.NewViewCache[models.TransactionView](redisClient, 0),
	}
}

// GetByID returns a TransactionView scoped to the owning user.
func (r *TransactionReadRepository) GetByID(ctx context.Context, id int64, userID string) (*models.TransactionView, error) {
	cacheKey := fmt.Sprintf("%s%s:%d", transactionViewKeyPrefix, userID, id)
	if view, ok := r.cache.Get(ctx, cacheKey); ok {
		return view, nil
	}

	// Fallback: PostgreSQL
	query := `
		SELECT id, user_id, symbol, shares, price, transacted_at
		FROM transactions
		WHERE id = $1 AND user_id = $2
	`
	var view models.TransactionView
	err := r.db.QueryRowContext(ctx, query, id, userID).Scan(
		&view.ID, &view.UserID, &view.Symbol, &view.Shares, &view.Price, &view.TransactedAt,
	)
	if err == sql.ErrNoRows {
		return nil, models.ErrTransactionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	view.Price = view.Price.Round(2)

	// Warm the cache
	r.CacheTransactionView(ctx, &view)
	return &view, nil
}

// ListByUser returns all TransactionViews for a user, newest first, ties
// broken by descending id.
func (r *TransactionReadRepository) ListByUser(ctx context.Context, userID string) ([]models.TransactionView, error) {
	query := `
		SELECT id, user_id, symbol, shares, price, transacted_at
		FROM transactions
		WHERE user_id = $1
		ORDER BY transacted_at DESC, id DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var views []models.TransactionView
	for rows.Next() {
		var view models.TransactionView
		if err := rows.Scan(
			&view.ID, &view.UserID, &view.Symbol, &view.Shares, &view.Price, &view.TransactedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		view.Price = view.Price.Round(2)
		views = append(views, view)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return views, nil
}

// CacheTransactionView stores the read model for a transaction in Redis.
// Called by the command service immediately after a successful trade.
func (r *TransactionReadRepository) CacheTransactionView(ctx context.Context, view *models.TransactionView) {
	cacheKey := fmt.Sprintf("%s%s:%d", transactionViewKeyPrefix, view.UserID, view.ID)
	r.cache.Set(ctx, cacheKey, view)
}
