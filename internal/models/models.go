package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID           string          `json:"id"`
	Username     string          `json:"username"`
	PasswordHash string          `json:"-"`
	Cash         decimal.Decimal `json:"cash"`
	CreatedAt    time.Time       `json:"createdTimestamp"`
}

// Transaction is an immutable ledger record. Positive Shares is a buy,
// negative is a sell. Price is the quote at execution time, kept at full
// precision. ID is assigned by the store and is monotonically increasing,
// which makes history ordering deterministic for same-timestamp rows.
type Transaction struct {
	ID           int64           `json:"id"`
	UserID       string          `json:"userId"`
	Symbol       string          `json:"symbol"`
	Shares       int64           `json:"shares"`
	Price        decimal.Decimal `json:"price"`
	TransactedAt time.Time       `json:"transactedTimestamp"`
}

// Holding is the aggregate position for one symbol: the sum of signed share
// counts across the user's transactions. Never persisted.
type Holding struct {
	Symbol string
	Shares int64
}
