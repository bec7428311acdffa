package models

import "errors"

// Business failures surfaced to the user. Services return these (possibly
// wrapped); handlers match with errors.Is to pick a status code. Anything
// not in this list renders as a generic 500.
var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrInvalidSymbol       = errors.New("invalid symbol")
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrInsufficientShares  = errors.New("insufficient shares")
	ErrDuplicateUsername   = errors.New("username already registered")
	ErrQuoteUnavailable    = errors.New("quote provider unavailable")
	ErrUserNotFound        = errors.New("user not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrInvalidCredentials  = errors.New("invalid credentials")
)
