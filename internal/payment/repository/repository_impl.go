package repository

import (
	"context"

	"github.com/vexaai/vexa/internal/payment/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

const saleColumns = `id, reference, customer_email, workflow_id, workflow_name,
	purchase_type, amount, currency, channel, payment_status, created_at`

func (r *repo) InsertSale(ctx context.Context, db *gorm.DB, sale *domain.Sale) (bool, error) {
	res := db.WithContext(ctx).Exec(
		`INSERT INTO sales (id, reference, customer_email, workflow_id, workflow_name,
			purchase_type, amount, currency, channel, payment_status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (reference) DO NOTHING`,
		sale.ID,
		sale.Reference,
		sale.CustomerEmail,
		sale.WorkflowID,
		sale.WorkflowName,
		sale.PurchaseType,
		sale.Amount,
		sale.Currency,
		sale.Channel,
		sale.PaymentStatus,
		sale.CreatedAt,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repo) FindByReference(ctx context.Context, db *gorm.DB, reference string) (*domain.Sale, error) {
	var sale domain.Sale
	err := db.WithContext(ctx).Raw(
		`SELECT `+saleColumns+` FROM sales WHERE reference = ? LIMIT 1`,
		reference,
	).Scan(&sale).Error
	if err != nil {
		return nil, err
	}
	if sale.ID == 0 {
		return nil, nil
	}
	return &sale, nil
}

func (r *repo) ListRecent(ctx context.Context, db *gorm.DB, limit int) ([]*domain.Sale, error) {
	var sales []*domain.Sale
	err := db.WithContext(ctx).Raw(
		`SELECT `+saleColumns+` FROM sales ORDER BY created_at DESC, id DESC LIMIT ?`,
		limit,
	).Scan(&sales).Error
	if err != nil {
		return nil, err
	}
	return sales, nil
}
