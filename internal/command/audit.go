package command

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/zeeyang93/finance/internal/events"
)

// HandleLedgerEvent is the Redis stream subscriber handler. It writes an
// audit line for every committed ledger mutation.
func (s *LedgerCommandService) HandleLedgerEvent(ctx context.Context, event events.Event) error {
	switch event.Type {
	case events.TradeExecuted:
		dataBytes, _ := json.Marshal(event.Data)
		var data events.TradeExecutedEvent
		if err := json.Unmarshal(dataBytes, &data); err != nil {
			return fmt.Errorf("failed to unmarshal trade.executed event: %w", err)
		}
		side := "buy"
		if data.Shares < 0 {
			side = "sell"
		}
		log.Printf("audit: user %s %s %d %s @ %s (tx %d)",
			data.UserID, side, abs(data.Shares), data.Symbol, data.Price, data.TransactionID)
	case events.CashDeposited:
		dataBytes, _ := json.Marshal(event.Data)
		var data events.CashDepositedEvent
		if err := json.Unmarshal(dataBytes, &data); err != nil {
			return fmt.Errorf("failed to unmarshal cash.deposited event: %w", err)
		}
		log.Printf("audit: user %s deposited %s", data.UserID, data.Amount)
	}
	return nil
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}
