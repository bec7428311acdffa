package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zeeyang93/finance/internal/cqrs"
	"github.com/zeeyang93/finance/internal/middleware"
)

// AuthQuerier defines the operations used by AuthHandler.
type AuthQuerier interface {
	Login(ctx context.Context, cmd cqrs.LoginCommand) (string, error)
	Logout(ctx context.Context, token string) error
}

// AuthHandler handles login and logout. No command service needed: neither
// operation mutates ledger state.
type AuthHandler struct {
	queries AuthQuerier
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Token string `json:"token"`
}

func NewAuthHandler(queries AuthQuerier) *AuthHandler {
	return &AuthHandler{queries: queries}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	token, err := h.queries.Login(c.Request.Context(), cqrs.LoginCommand{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		middleware.RespondWithError(c, http.StatusUnauthorized, "Invalid username and/or password")
		return
	}

	c.JSON(http.StatusOK, AuthResponse{Token: token})
}

// Logout revokes the caller's token. Runs behind AuthMiddleware, so the
// token has already been validated.
func (h *AuthHandler) Logout(c *gin.Context) {
	token, ok := middleware.GetToken(c)
	if !ok {
		middleware.RespondWithError(c, http.StatusUnauthorized, "Authorization required")
		return
	}

	if err := h.queries.Logout(c.Request.Context(), token); err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to log out")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}
