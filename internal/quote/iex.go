package quote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"github.com/zeeyang93/finance/internal/models"
	"github.com/zeeyang93/finance/internal/utils"
)

// IEXProvider fetches quotes from an IEX Cloud style REST endpoint.
type IEXProvider struct {
	baseURL string
	token   string
	client  *http.Client
}

func NewIEXProvider(baseURL, token string) *IEXProvider {
	return &IEXProvider{
		baseURL: baseURL,
		token:   token,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// iexQuote is the subset of the upstream response we consume. LatestPrice is
// decoded as json.Number so the value never passes through a float64.
type iexQuote struct {
	Symbol      string      `json:"symbol"`
	CompanyName string      `json:"companyName"`
	LatestPrice json.Number `json:"latestPrice"`
}

func (p *IEXProvider) Lookup(ctx context.Context, symbol string) (*models.QuoteView, error) {
	symbol = utils.NormalizeSymbol(symbol)
	if symbol == "" {
		return nil, ErrNotFound
	}

	endpoint := fmt.Sprintf("%s/stable/stock/%s/quote?token=%s",
		p.baseURL, url.PathEscape(symbol), url.QueryEscape(p.token))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("quote request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("quote request failed: HTTP %d", resp.StatusCode)
	}

	var q iexQuote
	if err := json.NewDecoder(resp.Body).Decode(&q); err != nil {
		return nil, fmt.Errorf("failed to decode quote: %w", err)
	}

	price, err := decimal.NewFromString(q.LatestPrice.String())
	if err != nil {
		return nil, fmt.Errorf("invalid price %q for %s: %w", q.LatestPrice.String(), symbol, err)
	}
	if price.Sign() <= 0 {
		return nil, fmt.Errorf("non-positive price %s for %s", price, symbol)
	}

	return &models.QuoteView{
		Symbol: utils.NormalizeSymbol(q.Symbol),
		Name:   q.CompanyName,
		Price:  price,
	}, nil
}
