package seed

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/vexaai/vexa/internal/auth/domain"
	"github.com/vexaai/vexa/internal/auth/password"
	"github.com/vexaai/vexa/internal/config"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// EnsureAdmin creates the bootstrap admin account when ADMIN_EMAIL and
// ADMIN_PASSWORD are configured. It is a no-op when the account already
// exists, so repeated startups stay idempotent.
func EnsureAdmin(ctx context.Context, db *gorm.DB, cfg config.Config, genID *snowflake.Node, users domain.Repository, log *zap.Logger) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil
	}

	existing, err := users.FindByEmail(ctx, db, cfg.AdminEmail)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	hash, err := password.Hash(cfg.AdminPassword)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	admin := &domain.User{
		ID:           genID.Generate(),
		Email:        cfg.AdminEmail,
		PasswordHash: hash,
		FirstName:    "Admin",
		IsAdmin:      true,
		IsActive:     true,
		IsVerified:   true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := users.Insert(ctx, db, admin); err != nil {
		return err
	}

	log.Info("seeded admin account", zap.String("email", cfg.AdminEmail))
	return nil
}
