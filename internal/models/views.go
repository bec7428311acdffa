package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// UserView is the read-optimised projection of a user.
// It never exposes PasswordHash.
type UserView struct {
	ID        string          `json:"id"`
	Username  string          `json:"username"`
	Cash      decimal.Decimal `json:"cash"`
	CreatedAt time.Time       `json:"createdTimestamp"`
}

// QuoteView is a point-in-time price snapshot from the quote provider.
type QuoteView struct {
	Symbol string          `json:"symbol"`
	Name   string          `json:"name"`
	Price  decimal.Decimal `json:"price"`
}

// PortfolioLine is one held position joined with its live quote.
// Total = Shares * Price, rounded to 2dp for presentation.
type PortfolioLine struct {
	Symbol string          `json:"symbol"`
	Name   string          `json:"name"`
	Shares int64           `json:"shares"`
	Price  decimal.Decimal `json:"price"`
	Total  decimal.Decimal `json:"total"`
}

// PortfolioView is the full portfolio: every position with a positive
// aggregate holding, plus cash and the grand total. Money fields are
// rounded to 2dp at this boundary only.
type PortfolioView struct {
	Stocks     []PortfolioLine `json:"stocks"`
	Cash       decimal.Decimal `json:"cash"`
	GrandTotal decimal.Decimal `json:"grandTotal"`
}

// TransactionView is the read-optimised projection of a transaction.
// UserID is populated for ownership checks but never serialised to the API response.
type TransactionView struct {
	ID           int64           `json:"id"`
	UserID       string          `json:"-"`
	Symbol       string          `json:"symbol"`
	Shares       int64           `json:"shares"`
	Price        decimal.Decimal `json:"price"`
	TransactedAt time.Time       `json:"transactedTimestamp"`
}
