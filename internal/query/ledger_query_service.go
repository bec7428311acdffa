package query

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/zeeyang93/finance/internal/cqrs"
	"github.com/zeeyang93/finance/internal/models"
	"github.com/zeeyang93/finance/internal/quote"
	"github.com/zeeyang93/finance/internal/utils"
)

// PortfolioStore is the persistence surface consumed for portfolio valuation.
type PortfolioStore interface {
	Holdings(ctx context.Context, userID string) ([]models.Holding, error)
	GetCash(ctx context.Context, userID string) (decimal.Decimal, error)
}

// HistoryStore serves the transaction read model.
type HistoryStore interface {
	ListByUser(ctx context.Context, userID string) ([]models.TransactionView, error)
	GetByID(ctx context.Context, id int64, userID string) (*models.TransactionView, error)
}

// LedgerQueryService serves quotes, portfolio valuations and history.
// It has no side effects on ledger state.
type LedgerQueryService struct {
	store   PortfolioStore
	history HistoryStore
	quotes  quote.Provider
}

func NewLedgerQueryService(store PortfolioStore, history HistoryStore, quotes quote.Provider) *LedgerQueryService {
	return &LedgerQueryService{store: store, history: history, quotes: quotes}
}

// GetQuote resolves a symbol to a point-in-time price. The price in the view
// is rounded for display; trades always re-fetch the quote at execution time.
func (s *LedgerQueryService) GetQuote(ctx context.Context, q cqrs.GetQuoteQuery) (*models.QuoteView, error) {
	symbol := utils.NormalizeSymbol(q.Symbol)
	if symbol == "" {
		return nil, fmt.Errorf("%w: symbol is required", models.ErrInvalidInput)
	}
	view, err := s.quotes.Lookup(ctx, symbol)
	if err != nil {
		if errors.Is(err, quote.ErrNotFound) {
			return nil, models.ErrInvalidSymbol
		}
		return nil, fmt.Errorf("%w: %v", models.ErrQuoteUnavailable, err)
	}
	return &models.QuoteView{
		Symbol: view.Symbol,
		Name:   view.Name,
		Price:  view.Price.Round(2),
	}, nil
}

// GetPortfolio joins every positive holding with its live quote. If any held
// symbol cannot be quoted the whole call fails; a position is never silently
// dropped from the valuation. Position values accumulate at full precision
// and are rounded only when the view is built.
func (s *LedgerQueryService) GetPortfolio(ctx context.Context, q cqrs.GetPortfolioQuery) (*models.PortfolioView, error) {
	holdings, err := s.store.Holdings(ctx, q.UserID)
	if err != nil {
		return nil, err
	}
	cash, err := s.store.GetCash(ctx, q.UserID)
	if err != nil {
		return nil, err
	}

	lines := make([]models.PortfolioLine, 0, len(holdings))
	grandTotal := cash
	for _, h := range holdings {
		stock, err := s.quotes.Lookup(ctx, h.Symbol)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", models.ErrQuoteUnavailable, h.Symbol, err)
		}
		total := stock.Price.Mul(decimal.NewFromInt(h.Shares))
		grandTotal = grandTotal.Add(total)
		lines = append(lines, models.PortfolioLine{
			Symbol: stock.Symbol,
			Name:   stock.Name,
			Shares: h.Shares,
			Price:  stock.Price.Round(2),
			Total:  total.Round(2),
		})
	}

	return &models.PortfolioView{
		Stocks:     lines,
		Cash:       cash.Round(2),
		GrandTotal: grandTotal.Round(2),
	}, nil
}

// GetHistory returns the user's transactions, newest first. An empty history
// is a valid result, not an error.
func (s *LedgerQueryService) GetHistory(ctx context.Context, q cqrs.GetHistoryQuery) ([]models.TransactionView, error) {
	views, err := s.history.ListByUser(ctx, q.UserID)
	if err != nil {
		return nil, err
	}
	if views == nil {
		views = []models.TransactionView{}
	}
	return views, nil
}

// GetTransaction returns a single transaction owned by the user.
func (s *LedgerQueryService) GetTransaction(ctx context.Context, id int64, userID string) (*models.TransactionView, error) {
	return s.history.GetByID(ctx, id, userID)
}
