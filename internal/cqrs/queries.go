package cqrs

// GetQuoteQuery fetches a point-in-time quote for a symbol.
type GetQuoteQuery struct {
	Symbol string
}

// GetPortfolioQuery fetches all held positions, cash and grand total for a user.
type GetPortfolioQuery struct {
	UserID string
}

// GetHistoryQuery fetches all transactions for a user, newest first.
type GetHistoryQuery struct {
	UserID string
}
