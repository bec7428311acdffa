package handler

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/zeeyang93/finance/internal/cqrs"
	"github.com/zeeyang93/finance/internal/models"
)

type mockAuthQuerier struct {
	loginFn  func(cqrs.LoginCommand) (string, error)
	logoutFn func(token string) error
}

func (m *mockAuthQuerier) Login(ctx context.Context, cmd cqrs.LoginCommand) (string, error) {
	if m.loginFn != nil {
		return m.loginFn(cmd)
	}
	return "", fmt.Errorf("not configured")
}

func (m *mockAuthQuerier) Logout(ctx context.Context, token string) error {
	if m.logoutFn != nil {
		return m.logoutFn(token)
	}
	return fmt.Errorf("not configured")
}

func newAuthTestRouter(queries AuthQuerier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewAuthHandler(queries)
	r.POST("/v1/auth/login", h.Login)
	authed := r.Group("/v1")
	authed.Use(fakeAuth("usr-001"))
	authed.POST("/auth/logout", h.Logout)
	return r
}

func TestLoginHandler(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		loginFn        func(cqrs.LoginCommand) (string, error)
		expectedStatus int
	}{
		{
			name: "success - returns token",
			body: map[string]string{"username": "alice", "password": "s3cret"},
			loginFn: func(cmd cqrs.LoginCommand) (string, error) {
				return "signed.jwt.token", nil
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "unauthorized - wrong password",
			body: map[string]string{"username": "alice", "password": "wrong"},
			loginFn: func(cmd cqrs.LoginCommand) (string, error) {
				return "", models.ErrInvalidCredentials
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "unauthorized - unknown user",
			body: map[string]string{"username": "nobody", "password": "s3cret"},
			loginFn: func(cmd cqrs.LoginCommand) (string, error) {
				return "", models.ErrInvalidCredentials
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "bad request - missing password",
			body:           map[string]string{"username": "alice"},
			loginFn:        nil,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "bad request - missing username",
			body:           map[string]string{"password": "s3cret"},
			loginFn:        nil,
			expectedStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newAuthTestRouter(&mockAuthQuerier{loginFn: tt.loginFn})
			w := doRequest(router, http.MethodPost, "/v1/auth/login", tt.body)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected %d got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestLogoutHandler(t *testing.T) {
	var revoked string
	router := newAuthTestRouter(&mockAuthQuerier{
		logoutFn: func(token string) error {
			revoked = token
			return nil
		},
	})

	w := doRequest(router, http.MethodPost, "/v1/auth/logout", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d; body: %s", w.Code, w.Body.String())
	}
	if revoked != "test-token" {
		t.Errorf("expected the caller's token to be revoked, got %q", revoked)
	}
}

func TestLogoutHandlerRevocationFailure(t *testing.T) {
	router := newAuthTestRouter(&mockAuthQuerier{
		logoutFn: func(token string) error {
			return fmt.Errorf("redis unavailable")
		},
	})

	w := doRequest(router, http.MethodPost, "/v1/auth/logout", nil)
	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500 got %d", w.Code)
	}
}
