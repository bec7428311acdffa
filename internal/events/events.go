package events

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event types
const (
	UserRegistered = "user.registered"
	TradeExecuted  = "trade.executed"
	CashDeposited  = "cash.deposited"
)

// Stream names
const (
	UserEventsStream   = "user.events"
	LedgerEventsStream = "ledger.events"
)

// Base event structure
type Event struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

type UserRegisteredEvent struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

// TradeExecutedEvent is published after a buy or sell commits.
// Shares is signed: positive for buys, negative for sells.
type TradeExecutedEvent struct {
	TransactionID int64           `json:"transactionId"`
	UserID        string          `json:"userId"`
	Symbol        string          `json:"symbol"`
	Shares        int64           `json:"shares"`
	Price         decimal.Decimal `json:"price"`
}

type CashDepositedEvent struct {
	UserID string          `json:"userId"`
	Amount decimal.Decimal `json:"amount"`
}
