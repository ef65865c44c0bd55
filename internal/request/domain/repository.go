package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, request *CustomRequest) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*CustomRequest, error)
	// List orders open statuses ahead of closed ones, newest first within
	// each status.
	List(ctx context.Context, db *gorm.DB) ([]*CustomRequest, error)
	UpdateStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, status string, at time.Time) (bool, error)
}
