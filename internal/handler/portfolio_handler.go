package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/zeeyang93/finance/internal/cqrs"
	"github.com/zeeyang93/finance/internal/middleware"
	"github.com/zeeyang93/finance/internal/models"
)

// PortfolioQuerier defines the read-side operations used by PortfolioHandler.
type PortfolioQuerier interface {
	GetQuote(ctx context.Context, q cqrs.GetQuoteQuery) (*models.QuoteView, error)
	GetPortfolio(ctx context.Context, q cqrs.GetPortfolioQuery) (*models.PortfolioView, error)
	GetHistory(ctx context.Context, q cqrs.GetHistoryQuery) ([]models.TransactionView, error)
	GetTransaction(ctx context.Context, id int64, userID string) (*models.TransactionView, error)
}

type PortfolioHandler struct {
	queries PortfolioQuerier
}

type HistoryResponse struct {
	Transactions []models.TransactionView `json:"transactions"`
}

func NewPortfolioHandler(queries PortfolioQuerier) *PortfolioHandler {
	return &PortfolioHandler{queries: queries}
}

func (h *PortfolioHandler) GetQuote(c *gin.Context) {
	symbol := c.Param("symbol")

	view, err := h.queries.GetQuote(c.Request.Context(), cqrs.GetQuoteQuery{Symbol: symbol})
	if err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidInput):
			middleware.RespondWithError(c, http.StatusBadRequest, "Must provide stock symbol")
		case errors.Is(err, models.ErrInvalidSymbol):
			middleware.RespondWithError(c, http.StatusBadRequest, "Invalid symbol")
		case errors.Is(err, models.ErrQuoteUnavailable):
			middleware.RespondWithError(c, http.StatusBadGateway, "Quote service is unavailable, try again later")
		default:
			middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to get quote")
		}
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *PortfolioHandler) GetPortfolio(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	view, err := h.queries.GetPortfolio(c.Request.Context(), cqrs.GetPortfolioQuery{UserID: userID})
	if err != nil {
		switch {
		case errors.Is(err, models.ErrQuoteUnavailable):
			middleware.RespondWithError(c, http.StatusBadGateway, "Quote service is unavailable, try again later")
		case errors.Is(err, models.ErrUserNotFound):
			middleware.RespondWithError(c, http.StatusNotFound, "User not found")
		default:
			middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to get portfolio")
		}
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *PortfolioHandler) GetHistory(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	views, err := h.queries.GetHistory(c.Request.Context(), cqrs.GetHistoryQuery{UserID: userID})
	if err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to get history")
		return
	}

	c.JSON(http.StatusOK, HistoryResponse{Transactions: views})
}

func (h *PortfolioHandler) GetTransaction(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	id, err := strconv.ParseInt(c.Param("transactionId"), 10, 64)
	if err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid transaction id")
		return
	}

	view, err := h.queries.GetTransaction(c.Request.Context(), id, userID)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrTransactionNotFound):
			middleware.RespondWithError(c, http.StatusNotFound, "Transaction not found")
		default:
			middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to get transaction")
		}
		return
	}

	c.JSON(http.StatusOK, view)
}
