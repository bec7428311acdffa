// Package quote looks up point-in-time stock prices from an external service.
package quote

import (
	"context"
	"errors"

	"github.com/zeeyang93/finance/internal/models"
)

// ErrNotFound means the provider does not know the symbol.
// Any other error from Lookup should be treated as the provider being
// unavailable; prices are snapshots and results must not be cached.
var ErrNotFound = errors.New("symbol not found")

type Provider interface {
	Lookup(ctx context.Context, symbol string) (*models.QuoteView, error)
}
