package command

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"github.com/zeeyang93/finance/internal/cqrs"
	"github.com/zeeyang93/finance/internal/events"
	"github.com/zeeyang93/finance/internal/models"
	"github.com/zeeyang93/finance/internal/utils"
)

// startingCash is the balance every new account opens with.
var startingCash = decimal.NewFromInt(10000)

// UserStore is the persistence surface consumed by UserCommandService.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
}

// Publisher is the event stream surface consumed by command services.
type Publisher interface {
	Publish(ctx context.Context, stream, eventType string, data any) error
}

// UserViewCacher keeps the user read model in sync after writes.
type UserViewCacher interface {
	CacheUserView(ctx context.Context, view *models.UserView)
	InvalidateUserView(ctx context.Context, userID string)
}

// UserCommandService registers users. Passwords are bcrypt-hashed before
// they reach the store; the plaintext is never persisted or logged.
type UserCommandService struct {
	store     UserStore
	readRepo  UserViewCacher
	publisher Publisher
}

func NewUserCommandService(store UserStore, readRepo UserViewCacher, publisher Publisher) *UserCommandService {
	return &UserCommandService{store: store, readRepo: readRepo, publisher: publisher}
}

func (s *UserCommandService) Register(ctx context.Context, cmd cqrs.RegisterUserCommand) (*models.User, error) {
	if cmd.Username == "" || cmd.Password == "" {
		return nil, models.ErrInvalidInput
	}
	if cmd.Password != cmd.Confirmation {
		return nil, fmt.Errorf("%w: password confirmation does not match", models.ErrInvalidInput)
	}

	passwordHash, err := utils.HashPassword(cmd.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user := &models.User{
		ID:           utils.GenerateID("usr"),
		Username:     cmd.Username,
		PasswordHash: passwordHash,
		Cash:         startingCash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.store.Create(ctx, user); err != nil {
		return nil, err
	}

	if s.readRepo != nil {
		s.readRepo.CacheUserView(ctx, userToView(user))
	}
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, events.UserEventsStream, events.UserRegistered, events.UserRegisteredEvent{
			UserID:   user.ID,
			Username: user.Username,
		}); err != nil {
			log.Printf("Failed to publish user.registered event: %v", err)
		}
	}
	return user, nil
}

func userToView(u *models.User) *models.UserView {
	return &models.UserView{
		ID:        u.ID,
		Username:  u.Username,
		Cash:      u.Cash.Round(2),
		CreatedAt: u.CreatedAt,
	}
}
