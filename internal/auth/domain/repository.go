package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, user *User) error
	FindByEmail(ctx context.Context, db *gorm.DB, email string) (*User, error)
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*User, error)
	RecordLogin(ctx context.Context, db *gorm.DB, id snowflake.ID, at time.Time) error
	List(ctx context.Context, db *gorm.DB, limit, offset int) ([]*User, error)
	Count(ctx context.Context, db *gorm.DB) (int64, error)
}
