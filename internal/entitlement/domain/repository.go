package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	// Grant inserts an entitlement with ON CONFLICT DO NOTHING and reports
	// whether a row was written. Safe to call repeatedly for the same grant.
	Grant(ctx context.Context, db *gorm.DB, entitlement *Entitlement) (bool, error)
	HasAccess(ctx context.Context, db *gorm.DB, email string, workflowID snowflake.ID) (bool, error)
	ListByEmail(ctx context.Context, db *gorm.DB, email string) ([]*Entitlement, error)
}
