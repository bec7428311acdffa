package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/zeeyang93/finance/internal/cqrs"
	"github.com/zeeyang93/finance/internal/models"
)

// ---- mock implementations ----

type mockLedgerCommander struct {
	buyFn     func(cqrs.BuyCommand) (*models.Transaction, error)
	sellFn    func(cqrs.SellCommand) (*models.Transaction, error)
	addCashFn func(cqrs.AddCashCommand) (decimal.Decimal, error)
}

func (m *mockLedgerCommander) Buy(ctx context.Context, cmd cqrs.BuyCommand) (*models.Transaction, error) {
	if m.buyFn != nil {
		return m.buyFn(cmd)
	}
	return nil, fmt.Errorf("not configured")
}

func (m *mockLedgerCommander) Sell(ctx context.Context, cmd cqrs.SellCommand) (*models.Transaction, error) {
	if m.sellFn != nil {
		return m.sellFn(cmd)
	}
	return nil, fmt.Errorf("not configured")
}

func (m *mockLedgerCommander) AddCash(ctx context.Context, cmd cqrs.AddCashCommand) (decimal.Decimal, error) {
	if m.addCashFn != nil {
		return m.addCashFn(cmd)
	}
	return decimal.Zero, fmt.Errorf("not configured")
}

// ---- helpers ----

func fakeAuth(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userId", userID)
		c.Set("token", "test-token")
		c.Next()
	}
}

func newTradeTestRouter(cmds LedgerCommander, authUserID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(fakeAuth(authUserID))
	h := NewTradeHandler(cmds)
	v1 := r.Group("/v1")
	v1.POST("/trades/buy", h.Buy)
	v1.POST("/trades/sell", h.Sell)
	v1.POST("/cash", h.AddCash)
	return r
}

func doRequest(router *gin.Engine, method, url string, body interface{}) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, url, nil)
	if body != nil {
		b, _ := json.Marshal(body)
		req, _ = http.NewRequest(method, url, strings.NewReader(string(b)))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// ---- test data ----

var testTransaction = &models.Transaction{
	ID: 1, UserID: "usr-001", Symbol: "AAPL",
	Shares: 10, Price: decimal.RequireFromString("100.00"),
	TransactedAt: time.Now(),
}

func tradeBody() map[string]interface{} {
	return map[string]interface{}{"symbol": "AAPL", "shares": 10}
}

// ---- tests ----

func TestBuyHandler(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		buyFn          func(cqrs.BuyCommand) (*models.Transaction, error)
		expectedStatus int
	}{
		{
			name:           "success - buy shares",
			body:           tradeBody(),
			buyFn:          func(cmd cqrs.BuyCommand) (*models.Transaction, error) { return testTransaction, nil },
			expectedStatus: http.StatusCreated,
		},
		{
			name: "unprocessable entity - insufficient funds",
			body: tradeBody(),
			buyFn: func(cmd cqrs.BuyCommand) (*models.Transaction, error) {
				return nil, models.ErrInsufficientFunds
			},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "bad request - unknown symbol",
			body: tradeBody(),
			buyFn: func(cmd cqrs.BuyCommand) (*models.Transaction, error) {
				return nil, models.ErrInvalidSymbol
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "bad gateway - quote provider down",
			body: tradeBody(),
			buyFn: func(cmd cqrs.BuyCommand) (*models.Transaction, error) {
				return nil, fmt.Errorf("%w: timeout", models.ErrQuoteUnavailable)
			},
			expectedStatus: http.StatusBadGateway,
		},
		{
			name:           "bad request - missing fields",
			body:           map[string]interface{}{},
			buyFn:          nil,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "bad request - zero shares",
			body:           map[string]interface{}{"symbol": "AAPL", "shares": 0},
			buyFn:          nil,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "bad request - negative shares",
			body:           map[string]interface{}{"symbol": "AAPL", "shares": -3},
			buyFn:          nil,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "bad request - fractional shares",
			body:           map[string]interface{}{"symbol": "AAPL", "shares": 1.5},
			buyFn:          nil,
			expectedStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTradeTestRouter(&mockLedgerCommander{buyFn: tt.buyFn}, "usr-001")
			w := doRequest(router, http.MethodPost, "/v1/trades/buy", tt.body)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected %d got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestSellHandler(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		sellFn         func(cqrs.SellCommand) (*models.Transaction, error)
		expectedStatus int
	}{
		{
			name: "success - sell shares",
			body: tradeBody(),
			sellFn: func(cmd cqrs.SellCommand) (*models.Transaction, error) {
				return testTransaction, nil
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "unprocessable entity - insufficient shares",
			body: tradeBody(),
			sellFn: func(cmd cqrs.SellCommand) (*models.Transaction, error) {
				return nil, models.ErrInsufficientShares
			},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name:           "bad request - missing fields",
			body:           map[string]interface{}{},
			sellFn:         nil,
			expectedStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTradeTestRouter(&mockLedgerCommander{sellFn: tt.sellFn}, "usr-001")
			w := doRequest(router, http.MethodPost, "/v1/trades/sell", tt.body)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected %d got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestAddCashHandler(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		addCashFn      func(cqrs.AddCashCommand) (decimal.Decimal, error)
		expectedStatus int
	}{
		{
			name: "success - deposit cash",
			body: map[string]interface{}{"amount": "250.00"},
			addCashFn: func(cmd cqrs.AddCashCommand) (decimal.Decimal, error) {
				return decimal.RequireFromString("10250.00"), nil
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "bad request - negative amount",
			body: map[string]interface{}{"amount": "-5.00"},
			addCashFn: func(cmd cqrs.AddCashCommand) (decimal.Decimal, error) {
				return decimal.Zero, models.ErrInvalidInput
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "bad request - missing amount",
			body:           map[string]interface{}{},
			addCashFn:      nil,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "bad request - malformed amount",
			body:           map[string]interface{}{"amount": "lots"},
			addCashFn:      nil,
			expectedStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTradeTestRouter(&mockLedgerCommander{addCashFn: tt.addCashFn}, "usr-001")
			w := doRequest(router, http.MethodPost, "/v1/cash", tt.body)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected %d got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}
