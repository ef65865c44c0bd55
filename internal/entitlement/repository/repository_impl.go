package repository

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/vexaai/vexa/internal/entitlement/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Grant(ctx context.Context, db *gorm.DB, entitlement *domain.Entitlement) (bool, error) {
	res := db.WithContext(ctx).Exec(
		`INSERT INTO entitlements (id, customer_email, workflow_id, all_access, sale_reference, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT DO NOTHING`,
		entitlement.ID,
		entitlement.CustomerEmail,
		entitlement.WorkflowID,
		entitlement.AllAccess,
		entitlement.SaleReference,
		entitlement.CreatedAt,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repo) HasAccess(ctx context.Context, db *gorm.DB, email string, workflowID snowflake.ID) (bool, error) {
	var count int64
	err := db.WithContext(ctx).Raw(
		`SELECT COUNT(*) FROM entitlements
		 WHERE customer_email = ? AND (workflow_id = ? OR all_access)`,
		strings.ToLower(strings.TrimSpace(email)),
		workflowID,
	).Scan(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repo) ListByEmail(ctx context.Context, db *gorm.DB, email string) ([]*domain.Entitlement, error) {
	var entitlements []*domain.Entitlement
	err := db.WithContext(ctx).Raw(
		`SELECT id, customer_email, workflow_id, all_access, sale_reference, created_at
		 FROM entitlements WHERE customer_email = ? ORDER BY created_at DESC, id DESC`,
		strings.ToLower(strings.TrimSpace(email)),
	).Scan(&entitlements).Error
	if err != nil {
		return nil, err
	}
	return entitlements, nil
}
