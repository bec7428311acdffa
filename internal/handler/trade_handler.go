package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/zeeyang93/finance/internal/cqrs"
	"github.com/zeeyang93/finance/internal/middleware"
	"github.com/zeeyang93/finance/internal/models"
)

// LedgerCommander defines the write-side operations used by TradeHandler.
type LedgerCommander interface {
	Buy(ctx context.Context, cmd cqrs.BuyCommand) (*models.Transaction, error)
	Sell(ctx context.Context, cmd cqrs.SellCommand) (*models.Transaction, error)
	AddCash(ctx context.Context, cmd cqrs.AddCashCommand) (decimal.Decimal, error)
}

type TradeHandler struct {
	commands LedgerCommander
}

type TradeRequest struct {
	Symbol string `json:"symbol" validate:"required"`
	Shares int64  `json:"shares" validate:"required,gt=0"`
}

type AddCashRequest struct {
	Amount *decimal.Decimal `json:"amount" validate:"required"`
}

type AddCashResponse struct {
	Cash decimal.Decimal `json:"cash"`
}

func NewTradeHandler(commands LedgerCommander) *TradeHandler {
	return &TradeHandler{commands: commands}
}

func (h *TradeHandler) Buy(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req TradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Must provide stock symbol and an integer number of shares")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	transaction, err := h.commands.Buy(c.Request.Context(), cqrs.BuyCommand{
		UserID: userID,
		Symbol: req.Symbol,
		Shares: req.Shares,
	})
	if err != nil {
		respondWithTradeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, txToView(transaction))
}

func (h *TradeHandler) Sell(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req TradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Must provide stock symbol and an integer number of shares")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	transaction, err := h.commands.Sell(c.Request.Context(), cqrs.SellCommand{
		UserID: userID,
		Symbol: req.Symbol,
		Shares: req.Shares,
	})
	if err != nil {
		respondWithTradeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, txToView(transaction))
}

func (h *TradeHandler) AddCash(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req AddCashRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid amount of cash")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	balance, err := h.commands.AddCash(c.Request.Context(), cqrs.AddCashCommand{
		UserID: userID,
		Amount: *req.Amount,
	})
	if err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidInput):
			middleware.RespondWithError(c, http.StatusBadRequest, "Invalid amount of cash")
		default:
			middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to add cash")
		}
		return
	}

	c.JSON(http.StatusOK, AddCashResponse{Cash: balance.Round(2)})
}

func respondWithTradeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidInput):
		middleware.RespondWithError(c, http.StatusBadRequest, "Must provide stock symbol and a positive number of shares")
	case errors.Is(err, models.ErrInvalidSymbol):
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid symbol")
	case errors.Is(err, models.ErrInsufficientFunds):
		middleware.RespondWithError(c, http.StatusUnprocessableEntity, "Not enough cash for transaction")
	case errors.Is(err, models.ErrInsufficientShares):
		middleware.RespondWithError(c, http.StatusUnprocessableEntity, "Insufficient shares for transaction")
	case errors.Is(err, models.ErrQuoteUnavailable):
		middleware.RespondWithError(c, http.StatusBadGateway, "Quote service is unavailable, try again later")
	default:
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to execute trade")
	}
}

func txToView(t *models.Transaction) models.TransactionView {
	return models.TransactionView{
		ID:           t.ID,
		UserID:       t.UserID,
		Symbol:       t.Symbol,
		Shares:       t.Shares,
		Price:        t.Price.Round(2),
		TransactedAt: t.TransactedAt,
	}
}
