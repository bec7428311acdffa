package query

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/zeeyang93/finance/internal/cqrs"
	"github.com/zeeyang93/finance/internal/models"
	"github.com/zeeyang93/finance/internal/utils"
)

var (
	jwtSecretOnce sync.Once
	jwtSecretVal  []byte
)

func jwtSecret() []byte {
	jwtSecretOnce.Do(func() {
		secret := os.Getenv("JWT_SECRET")
		if secret == "" {
			panic("JWT_SECRET environment variable is not set")
		}
		jwtSecretVal = []byte(secret)
	})
	return jwtSecretVal
}

// Claims is the JWT payload.
type Claims struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// CredentialStore is the persistence surface consumed by AuthQueryService.
type CredentialStore interface {
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// SessionRevoker records logged-out tokens until they expire.
type SessionRevoker interface {
	Revoke(ctx context.Context, token string, ttl time.Duration) error
}

// AuthQueryService handles login and logout. Login never distinguishes an
// unknown username from a wrong password.
type AuthQueryService struct {
	users    CredentialStore
	sessions SessionRevoker
}

func NewAuthQueryService(users CredentialStore, sessions SessionRevoker) *AuthQueryService {
	return &AuthQueryService{users: users, sessions: sessions}
}

func (s *AuthQueryService) Login(ctx context.Context, cmd cqrs.LoginCommand) (string, error) {
	if cmd.Username == "" || cmd.Password == "" {
		return "", models.ErrInvalidCredentials
	}
	user, err := s.users.GetByUsername(ctx, cmd.Username)
	if err != nil {
		return "", models.ErrInvalidCredentials
	}
	if !utils.CheckPassword(cmd.Password, user.PasswordHash) {
		return "", models.ErrInvalidCredentials
	}
	return s.generateToken(user.ID, user.Username)
}

// Logout revokes the token for the remainder of its lifetime.
func (s *AuthQueryService) Logout(ctx context.Context, token string) error {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (any, error) {
		return jwtSecret(), nil
	})
	if err != nil || !parsed.Valid || claims.ExpiresAt == nil {
		return models.ErrInvalidCredentials
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if s.sessions == nil {
		return nil
	}
	return s.sessions.Revoke(ctx, token, ttl)
}

func (s *AuthQueryService) generateToken(userID, username string) (string, error) {
	claims := Claims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(jwtSecret())
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return signed, nil
}
