package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/vexaai/vexa/internal/auth/domain"
	"github.com/vexaai/vexa/internal/auth/repository"
	"github.com/vexaai/vexa/internal/auth/token"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var dbSeq atomic.Int64

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:authdb_%d?mode=memory&cache=shared", dbSeq.Add(1))
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	schema := []string{
		`CREATE TABLE users (
			id INTEGER PRIMARY KEY,
			email TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			first_name TEXT NOT NULL DEFAULT '',
			last_name TEXT NOT NULL DEFAULT '',
			phone TEXT NOT NULL DEFAULT '',
			is_admin BOOLEAN NOT NULL DEFAULT 0,
			is_active BOOLEAN NOT NULL DEFAULT 1,
			is_verified BOOLEAN NOT NULL DEFAULT 0,
			login_count INTEGER NOT NULL DEFAULT 0,
			last_login TIMESTAMP,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE UNIQUE INDEX idx_users_email ON users (LOWER(email))`,
	}
	for _, stmt := range schema {
		if err := gdb.Exec(stmt).Error; err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}
	return gdb
}

func newService(t *testing.T, gdb *gorm.DB) domain.Service {
	t.Helper()

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake.NewNode: %v", err)
	}
	tokens, err := token.NewManager("test-secret", "vexa")
	if err != nil {
		t.Fatalf("token.NewManager: %v", err)
	}
	svc, err := New(Params{
		DB:     gdb,
		Log:    zap.NewNop(),
		GenID:  node,
		Repo:   repository.Provide(),
		Tokens: tokens,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return svc
}

func TestRegisterLoginAuthenticate(t *testing.T) {
	svc := newService(t, setupDB(t))
	ctx := context.Background()

	user, err := svc.Register(ctx, domain.RegisterRequest{
		Email:     "Buyer@Example.com",
		Password:  "hunter2hunter2",
		FirstName: "Buyer",
		LastName:  "One",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Email != "buyer@example.com" {
		t.Fatalf("email not normalized: %s", user.Email)
	}

	resp, err := svc.Login(ctx, domain.LoginRequest{Email: "buyer@example.com", Password: "hunter2hunter2"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("expected access token")
	}
	if resp.User.LoginCount != 1 {
		t.Fatalf("login_count = %d, want 1", resp.User.LoginCount)
	}
	if resp.User.LastLogin == nil {
		t.Fatal("expected last_login to be stamped")
	}

	claims, err := svc.Authenticate(ctx, resp.Token)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	id, err := claims.UserID()
	if err != nil {
		t.Fatalf("claims.UserID: %v", err)
	}
	if id != user.ID {
		t.Fatalf("authenticated user = %s, want %s", id, user.ID)
	}
	if claims.Email != "buyer@example.com" {
		t.Fatalf("claims email = %s", claims.Email)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newService(t, setupDB(t))
	ctx := context.Background()

	if _, err := svc.Register(ctx, domain.RegisterRequest{Email: "dup@example.com", Password: "password123"}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := svc.Register(ctx, domain.RegisterRequest{Email: "DUP@example.com", Password: "password456"}); err != domain.ErrUserExists {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestRegisterWeakPassword(t *testing.T) {
	svc := newService(t, setupDB(t))

	_, err := svc.Register(context.Background(), domain.RegisterRequest{Email: "weak@example.com", Password: "short"})
	if err != domain.ErrWeakPassword {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	svc := newService(t, setupDB(t))
	ctx := context.Background()

	if _, err := svc.Register(ctx, domain.RegisterRequest{Email: "real@example.com", Password: "password123"}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, wrongPassword := svc.Login(ctx, domain.LoginRequest{Email: "real@example.com", Password: "not-the-password"})
	_, unknownAccount := svc.Login(ctx, domain.LoginRequest{Email: "ghost@example.com", Password: "password123"})

	if wrongPassword != domain.ErrInvalidCredentials {
		t.Fatalf("wrong password: %v", wrongPassword)
	}
	if unknownAccount != domain.ErrInvalidCredentials {
		t.Fatalf("unknown account: %v", unknownAccount)
	}
}

func TestAdminLoginRequiresAdminFlag(t *testing.T) {
	gdb := setupDB(t)
	svc := newService(t, gdb)
	ctx := context.Background()

	user, err := svc.Register(ctx, domain.RegisterRequest{Email: "staff@example.com", Password: "password123"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, err := svc.AdminLogin(ctx, domain.LoginRequest{Email: "staff@example.com", Password: "password123"}); err != domain.ErrAdminRequired {
		t.Fatalf("expected ErrAdminRequired, got %v", err)
	}

	if err := gdb.Exec(`UPDATE users SET is_admin = 1 WHERE id = ?`, user.ID).Error; err != nil {
		t.Fatalf("promote user: %v", err)
	}

	resp, err := svc.AdminLogin(ctx, domain.LoginRequest{Email: "staff@example.com", Password: "password123"})
	if err != nil {
		t.Fatalf("AdminLogin: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("expected access token")
	}
}

func TestLoginInactiveAccount(t *testing.T) {
	gdb := setupDB(t)
	svc := newService(t, gdb)
	ctx := context.Background()

	user, err := svc.Register(ctx, domain.RegisterRequest{Email: "gone@example.com", Password: "password123"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := gdb.Exec(`UPDATE users SET is_active = 0 WHERE id = ?`, user.ID).Error; err != nil {
		t.Fatalf("deactivate user: %v", err)
	}

	if _, err := svc.Login(ctx, domain.LoginRequest{Email: "gone@example.com", Password: "password123"}); err != domain.ErrAccountInactive {
		t.Fatalf("expected ErrAccountInactive on login, got %v", err)
	}
}

func TestAuthenticateGarbageToken(t *testing.T) {
	svc := newService(t, setupDB(t))

	if _, err := svc.Authenticate(context.Background(), "garbage"); err != domain.ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
