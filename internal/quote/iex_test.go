package quote

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newQuoteServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func TestLookup(t *testing.T) {
	server := newQuoteServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/stable/stock/AAPL/quote" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("token") != "test-token" {
			t.Errorf("expected token query param, got %q", r.URL.Query().Get("token"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"symbol":"AAPL","companyName":"Apple Inc","latestPrice":189.987}`))
	})

	provider := NewIEXProvider(server.URL, "test-token")
	view, err := provider.Lookup(context.Background(), "aapl")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if view.Symbol != "AAPL" {
		t.Errorf("expected symbol AAPL, got %s", view.Symbol)
	}
	if view.Name != "Apple Inc" {
		t.Errorf("expected name Apple Inc, got %s", view.Name)
	}
	if view.Price.String() != "189.987" {
		t.Errorf("expected full-precision price 189.987, got %s", view.Price)
	}
}

func TestLookupUnknownSymbol(t *testing.T) {
	server := newQuoteServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Unknown symbol", http.StatusNotFound)
	})

	provider := NewIEXProvider(server.URL, "test-token")
	_, err := provider.Lookup(context.Background(), "NOPE")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestLookupEmptySymbol(t *testing.T) {
	provider := NewIEXProvider("http://unused", "test-token")
	_, err := provider.Lookup(context.Background(), "   ")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for blank symbol, got %v", err)
	}
}

func TestLookupUpstreamError(t *testing.T) {
	server := newQuoteServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	})

	provider := NewIEXProvider(server.URL, "test-token")
	_, err := provider.Lookup(context.Background(), "AAPL")
	if err == nil {
		t.Fatal("expected an error for HTTP 500")
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("upstream failure must not be reported as an unknown symbol")
	}
}

func TestLookupRejectsBadPrices(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "zero price", body: `{"symbol":"AAPL","companyName":"Apple Inc","latestPrice":0}`},
		{name: "negative price", body: `{"symbol":"AAPL","companyName":"Apple Inc","latestPrice":-1.5}`},
		{name: "missing price", body: `{"symbol":"AAPL","companyName":"Apple Inc"}`},
		{name: "malformed body", body: `not json`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newQuoteServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(tt.body))
			})

			provider := NewIEXProvider(server.URL, "test-token")
			if _, err := provider.Lookup(context.Background(), "AAPL"); err == nil {
				t.Error("expected an error")
			}
		})
	}
}
