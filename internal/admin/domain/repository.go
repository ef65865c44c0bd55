package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	SalesStats(ctx context.Context, db *gorm.DB) (*SalesStats, error)
}
