package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	// InsertSale writes the sale with ON CONFLICT (reference) DO NOTHING and
	// reports whether this caller won the insert. The unique constraint, not
	// a read-then-write, is what makes reconciliation exactly-once.
	InsertSale(ctx context.Context, db *gorm.DB, sale *Sale) (bool, error)
	FindByReference(ctx context.Context, db *gorm.DB, reference string) (*Sale, error)
	ListRecent(ctx context.Context, db *gorm.DB, limit int) ([]*Sale, error)
}
