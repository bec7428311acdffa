package command

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/shopspring/decimal"

	"github.com/zeeyang93/finance/internal/cqrs"
	"github.com/zeeyang93/finance/internal/events"
	"github.com/zeeyang93/finance/internal/models"
	"github.com/zeeyang93/finance/internal/quote"
	"github.com/zeeyang93/finance/internal/utils"
)

// LedgerStore is the persistence surface consumed by LedgerCommandService.
// Implementations must apply each call as a single atomic transaction:
// the funds and holdings checks happen inside the store, under lock,
// against current state.
type LedgerStore interface {
	ExecuteTrade(ctx context.Context, userID, symbol string, shares int64, price decimal.Decimal) (*models.Transaction, error)
	AddCash(ctx context.Context, userID string, amount decimal.Decimal) (decimal.Decimal, error)
}

// TransactionViewCacher keeps the transaction read model warm after trades.
type TransactionViewCacher interface {
	CacheTransactionView(ctx context.Context, view *models.TransactionView)
}

// LedgerCommandService executes buys, sells and cash deposits. Quotes are
// fetched fresh for every trade; the price paid is always the point-in-time
// snapshot, never a cached value.
type LedgerCommandService struct {
	store     LedgerStore
	quotes    quote.Provider
	readRepo  TransactionViewCacher
	userViews UserViewCacher
	publisher Publisher
}

func NewLedgerCommandService(
	store LedgerStore,
	quotes quote.Provider,
	readRepo TransactionViewCacher,
	userViews UserViewCacher,
	publisher Publisher,
) *LedgerCommandService {
	return &LedgerCommandService{
		store:     store,
		quotes:    quotes,
		readRepo:  readRepo,
		userViews: userViews,
		publisher: publisher,
	}
}

func (s *LedgerCommandService) Buy(ctx context.Context, cmd cqrs.BuyCommand) (*models.Transaction, error) {
	if cmd.Shares <= 0 {
		return nil, fmt.Errorf("%w: shares must be a positive integer", models.ErrInvalidInput)
	}
	return s.trade(ctx, cmd.UserID, cmd.Symbol, cmd.Shares)
}

func (s *LedgerCommandService) Sell(ctx context.Context, cmd cqrs.SellCommand) (*models.Transaction, error) {
	if cmd.Shares <= 0 {
		return nil, fmt.Errorf("%w: shares must be a positive integer", models.ErrInvalidInput)
	}
	return s.trade(ctx, cmd.UserID, cmd.Symbol, -cmd.Shares)
}

// trade resolves the quote and hands the signed share count to the store.
// shares > 0 buys, shares < 0 sells; the caller has already checked the sign.
func (s *LedgerCommandService) trade(ctx context.Context, userID, symbol string, shares int64) (*models.Transaction, error) {
	symbol = utils.NormalizeSymbol(symbol)
	if symbol == "" {
		return nil, fmt.Errorf("%w: symbol is required", models.ErrInvalidInput)
	}

	q, err := s.quotes.Lookup(ctx, symbol)
	if err != nil {
		if errors.Is(err, quote.ErrNotFound) {
			return nil, models.ErrInvalidSymbol
		}
		return nil, fmt.Errorf("%w: %v", models.ErrQuoteUnavailable, err)
	}

	transaction, err := s.store.ExecuteTrade(ctx, userID, q.Symbol, shares, q.Price)
	if err != nil {
		return nil, err
	}

	if s.readRepo != nil {
		s.readRepo.CacheTransactionView(ctx, txToView(transaction))
	}
	if s.userViews != nil {
		s.userViews.InvalidateUserView(ctx, userID)
	}
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, events.LedgerEventsStream, events.TradeExecuted, events.TradeExecutedEvent{
			TransactionID: transaction.ID,
			UserID:        transaction.UserID,
			Symbol:        transaction.Symbol,
			Shares:        transaction.Shares,
			Price:         transaction.Price,
		}); err != nil {
			log.Printf("Failed to publish trade.executed event: %v", err)
		}
	}
	return transaction, nil
}

// AddCash credits a non-negative amount to the user's balance and returns
// the new balance.
func (s *LedgerCommandService) AddCash(ctx context.Context, cmd cqrs.AddCashCommand) (decimal.Decimal, error) {
	if cmd.Amount.Sign() < 0 {
		return decimal.Zero, fmt.Errorf("%w: amount must not be negative", models.ErrInvalidInput)
	}

	balance, err := s.store.AddCash(ctx, cmd.UserID, cmd.Amount)
	if err != nil {
		return decimal.Zero, err
	}

	if s.userViews != nil {
		s.userViews.InvalidateUserView(ctx, cmd.UserID)
	}
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, events.LedgerEventsStream, events.CashDeposited, events.CashDepositedEvent{
			UserID: cmd.UserID,
			Amount: cmd.Amount,
		}); err != nil {
			log.Printf("Failed to publish cash.deposited event: %v", err)
		}
	}
	return balance, nil
}

func txToView(t *models.Transaction) *models.TransactionView {
	return &models.TransactionView{
		ID:           t.ID,
		UserID:       t.UserID,
		Symbol:       t.Symbol,
		Shares:       t.Shares,
		Price:        t.Price.Round(2),
		TransactedAt: t.TransactedAt,
	}
}
