package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/zeeyang93/finance/internal/models"
)

// LedgerRepository owns every read-modify-write sequence against user cash
// and the transaction log. Each write runs as a single SQL transaction with
// the user row locked FOR UPDATE, so concurrent operations for the same user
// serialise and can never pass their checks against stale data.
type LedgerRepository struct {
	db *sql.DB
}

func NewLedgerRepository(db *sql.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// ExecuteTrade atomically applies one buy (shares > 0) or sell (shares < 0)
// at the given price: lock cash, validate funds/holding, write the new cash
// and append the transaction record. Nothing is applied on failure.
func (r *LedgerRepository) ExecuteTrade(ctx context.Context, userID, symbol string, shares int64, price decimal.Decimal) (*models.Transaction, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var cash decimal.Decimal
	err = tx.QueryRowContext(ctx, `SELECT cash FROM users WHERE id = $1 FOR UPDATE`, userID).Scan(&cash)
	if err == sql.ErrNoRows {
		return nil, models.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cash: %w", err)
	}

	if shares < 0 {
		var held int64
		err = tx.QueryRowContext(ctx, `
			SELECT COALESCE(SUM(shares), 0)
			FROM transactions
			WHERE user_id = $1 AND symbol = $2
		`, userID, symbol).Scan(&held)
		if err != nil {
			return nil, fmt.Errorf("failed to read holding: %w", err)
		}
		if held+shares < 0 {
			return nil, models.ErrInsufficientShares
		}
	}

	// shares is signed, so this debits buys and credits sells.
	newCash := cash.Sub(price.Mul(decimal.NewFromInt(shares)))
	if newCash.Sign() < 0 {
		return nil, models.ErrInsufficientFunds
	}

	if _, err := tx.ExecContext(ctx, `UPDATE users SET cash = $2 WHERE id = $1`, userID, newCash); err != nil {
		return nil, fmt.Errorf("failed to update cash: %w", err)
	}

	record := &models.Transaction{
		UserID:       userID,
		Symbol:       symbol,
		Shares:       shares,
		Price:        price,
		TransactedAt: time.Now().UTC(),
	}
	err = tx.QueryRowContext(ctx, `
		INSERT INTO transactions (user_id, symbol, shares, price, transacted_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, record.UserID, record.Symbol, record.Shares, record.Price, record.TransactedAt).Scan(&record.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to record transaction: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit trade: %w", err)
	}
	return record, nil
}

// AddCash atomically credits amount to the user's balance and returns the
// new balance. amount must already be validated as non-negative.
func (r *LedgerRepository) AddCash(ctx context.Context, userID string, amount decimal.Decimal) (decimal.Decimal, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var cash decimal.Decimal
	err = tx.QueryRowContext(ctx, `SELECT cash FROM users WHERE id = $1 FOR UPDATE`, userID).Scan(&cash)
	if err == sql.ErrNoRows {
		return decimal.Zero, models.ErrUserNotFound
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to read cash: %w", err)
	}

	newCash := cash.Add(amount)
	if _, err := tx.ExecContext(ctx, `UPDATE users SET cash = $2 WHERE id = $1`, userID, newCash); err != nil {
		return decimal.Zero, fmt.Errorf("failed to update cash: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return decimal.Zero, fmt.Errorf("failed to commit deposit: %w", err)
	}
	return newCash, nil
}

// GetCash returns the user's current cash balance.
func (r *LedgerRepository) GetCash(ctx context.Context, userID string) (decimal.Decimal, error) {
	var cash decimal.Decimal
	err := r.db.QueryRowContext(ctx, `SELECT cash FROM users WHERE id = $1`, userID).Scan(&cash)
	if err == sql.ErrNoRows {
		return decimal.Zero, models.ErrUserNotFound
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to read cash: %w", err)
	}
	return cash, nil
}

// Holdings returns every symbol with a positive aggregate share count.
func (r *LedgerRepository) Holdings(ctx context.Context, userID string) ([]models.Holding, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT symbol, SUM(shares) AS total_shares
		FROM transactions
		WHERE user_id = $1
		GROUP BY symbol
		HAVING SUM(shares) > 0
		ORDER BY symbol
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list holdings: %w", err)
	}
	defer rows.Close()

	var holdings []models.Holding
	for rows.Next() {
		var h models.Holding
		if err := rows.Scan(&h.Symbol, &h.Shares); err != nil {
			return nil, fmt.Errorf("failed to scan holding: %w", err)
		}
		holdings = append(holdings, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list holdings: %w", err)
	}
	return holdings, nil
}
