package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zeeyang93/finance/internal/cqrs"
	"github.com/zeeyang93/finance/internal/middleware"
	"github.com/zeeyang93/finance/internal/models"
)

// UserCommander defines the write-side operations used by UserHandler.
type UserCommander interface {
	Register(ctx context.Context, cmd cqrs.RegisterUserCommand) (*models.User, error)
}

// UserQuerier defines the read-side operations used by UserHandler.
type UserQuerier interface {
	GetUser(ctx context.Context, userID string) (*models.UserView, error)
}

type UserHandler struct {
	commands UserCommander
	queries  UserQuerier
}

type RegisterRequest struct {
	Username     string `json:"username" validate:"required"`
	Password     string `json:"password" validate:"required"`
	Confirmation string `json:"confirmation" validate:"required,eqfield=Password"`
}

func NewUserHandler(commands UserCommander, queries UserQuerier) *UserHandler {
	return &UserHandler{commands: commands, queries: queries}
}

func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	user, err := h.commands.Register(c.Request.Context(), cqrs.RegisterUserCommand{
		Username:     req.Username,
		Password:     req.Password,
		Confirmation: req.Confirmation,
	})
	if err != nil {
		switch {
		case errors.Is(err, models.ErrDuplicateUsername):
			middleware.RespondWithError(c, http.StatusConflict, "Username is already registered")
		case errors.Is(err, models.ErrInvalidInput):
			middleware.RespondWithError(c, http.StatusBadRequest, "Must provide username, password and matching confirmation")
		default:
			middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to register user")
		}
		return
	}

	c.JSON(http.StatusCreated, models.UserView{
		ID:        user.ID,
		Username:  user.Username,
		Cash:      user.Cash.Round(2),
		CreatedAt: user.CreatedAt,
	})
}

func (h *UserHandler) GetMe(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	view, err := h.queries.GetUser(c.Request.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrUserNotFound):
			middleware.RespondWithError(c, http.StatusNotFound, "User not found")
		default:
			middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to get user")
		}
		return
	}

	c.JSON(http.StatusOK, view)
}
