package repository

import (
	"context"

	"github.com/vexaai/vexa/internal/admin/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) SalesStats(ctx context.Context, db *gorm.DB) (*domain.SalesStats, error) {
	var stats domain.SalesStats
	err := db.WithContext(ctx).Raw(
		`SELECT
			COALESCE(SUM(amount), 0) AS total_revenue,
			COUNT(*) AS total_sales,
			COUNT(CASE WHEN purchase_type = 'all-access' THEN 1 END) AS all_access_sales,
			COUNT(DISTINCT customer_email) AS total_customers
		 FROM sales`,
	).Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
