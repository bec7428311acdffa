package cqrs

import "github.com/shopspring/decimal"

type RegisterUserCommand struct {
	Username     string
	Password     string
	Confirmation string
}

type BuyCommand struct {
	UserID string
	Symbol string
	Shares int64
}

type SellCommand struct {
	UserID string
	Symbol string
	Shares int64
}

type AddCashCommand struct {
	UserID string
	Amount decimal.Decimal
}

type LoginCommand struct {
	Username string
	Password string
}
