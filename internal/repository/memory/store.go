// Package memory provides an in-memory ledger store with the same atomicity
// guarantees as the PostgreSQL implementation. Used by service tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/zeeyang93/finance/internal/models"
)

// Store keeps users and transactions in memory. A single mutex stands in for
// the database transaction: every read-modify-write holds it end to end, so
// concurrent trades for the same user serialise exactly as they do in
// PostgreSQL with the user row locked.
type Store struct {
	mu           sync.Mutex
	users        map[string]*models.User // keyed by user ID
	usernames    map[string]string       // username -> user ID
	transactions []models.Transaction
	nextID       int64
}

func NewStore() *Store {
	return &Store{
		users:     make(map[string]*models.User),
		usernames: make(map[string]string),
		nextID:    1,
	}
}

func (s *Store) Create(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.usernames[user.Username]; exists {
		return models.ErrDuplicateUsername
	}
	u := *user
	s.users[u.ID] = &u
	s.usernames[u.Username] = u.ID
	return nil
}

func (s *Store) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.usernames[username]
	if !ok {
		return nil, models.ErrUserNotFound
	}
	u := *s.users[id]
	return &u, nil
}

func (s *Store) GetByID(ctx context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, models.ErrUserNotFound
	}
	u := *user
	return &u, nil
}

func (s *Store) ExecuteTrade(ctx context.Context, userID, symbol string, shares int64, price decimal.Decimal) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return nil, models.ErrUserNotFound
	}

	if shares < 0 && s.heldLocked(userID, symbol)+shares < 0 {
		return nil, models.ErrInsufficientShares
	}

	newCash := user.Cash.Sub(price.Mul(decimal.NewFromInt(shares)))
	if newCash.Sign() < 0 {
		return nil, models.ErrInsufficientFunds
	}

	user.Cash = newCash
	record := models.Transaction{
		ID:           s.nextID,
		UserID:       userID,
		Symbol:       symbol,
		Shares:       shares,
		Price:        price,
		TransactedAt: time.Now().UTC(),
	}
	s.nextID++
	s.transactions = append(s.transactions, record)
	return &record, nil
}

func (s *Store) AddCash(ctx context.Context, userID string, amount decimal.Decimal) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return decimal.Zero, models.ErrUserNotFound
	}
	user.Cash = user.Cash.Add(amount)
	return user.Cash, nil
}

func (s *Store) GetCash(ctx context.Context, userID string) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return decimal.Zero, models.ErrUserNotFound
	}
	return user.Cash, nil
}

func (s *Store) Holdings(ctx context.Context, userID string) ([]models.Holding, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	totals := make(map[string]int64)
	var order []string
	for _, t := range s.transactions {
		if t.UserID != userID {
			continue
		}
		if _, seen := totals[t.Symbol]; !seen {
			order = append(order, t.Symbol)
		}
		totals[t.Symbol] += t.Shares
	}

	var holdings []models.Holding
	for _, symbol := range order {
		if totals[symbol] > 0 {
			holdings = append(holdings, models.Holding{Symbol: symbol, Shares: totals[symbol]})
		}
	}
	return holdings, nil
}

func (s *Store) ListTransactions(ctx context.Context, userID string) ([]models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Newest first; IDs increase with insertion order.
	var result []models.Transaction
	for i := len(s.transactions) - 1; i >= 0; i-- {
		if s.transactions[i].UserID == userID {
			result = append(result, s.transactions[i])
		}
	}
	return result, nil
}

// heldLocked sums signed shares for (userID, symbol). Caller holds s.mu.
func (s *Store) heldLocked(userID, symbol string) int64 {
	var held int64
	for _, t := range s.transactions {
		if t.UserID == userID && t.Symbol == symbol {
			held += t.Shares
		}
	}
	return held
}
