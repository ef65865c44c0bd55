package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, workflow *Workflow) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Workflow, error)
	List(ctx context.Context, db *gorm.DB, activeOnly bool) ([]*Workflow, error)
	Update(ctx context.Context, db *gorm.DB, workflow *Workflow) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) (bool, error)
	// RecordEntitlement bumps downloads and revenue for a reconciled sale.
	// It runs on the caller's transaction.
	RecordEntitlement(ctx context.Context, db *gorm.DB, id snowflake.ID, revenueDelta float64) error
	Count(ctx context.Context, db *gorm.DB) (int64, error)
}
