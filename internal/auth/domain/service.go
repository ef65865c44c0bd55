package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/vexaai/vexa/internal/auth/token"
)

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*User, error)
	Login(ctx context.Context, req LoginRequest) (LoginResponse, error)
	AdminLogin(ctx context.Context, req LoginRequest) (LoginResponse, error)
	// Authenticate verifies the bearer token signature and expiry. It never
	// touches the store: deactivating an account does not revoke issued
	// tokens, which is why the admin TTL is kept short.
	Authenticate(ctx context.Context, rawToken string) (*token.Claims, error)
	GetUser(ctx context.Context, id snowflake.ID) (*User, error)
}

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrUserExists         = errors.New("user_exists")
	ErrAccountInactive    = errors.New("account_inactive")
	ErrAdminRequired      = errors.New("admin_required")
	ErrInvalidToken       = errors.New("invalid_token")
	ErrUserNotFound       = errors.New("user_not_found")
	ErrWeakPassword       = errors.New("weak_password")
)
