package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/vexaai/vexa/internal/workflow/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

const workflowColumns = `id, name, slug, category, icon, description, price, tags,
	definition, is_active, downloads, revenue, created_at, updated_at`

func (r *repo) Insert(ctx context.Context, db *gorm.DB, workflow *domain.Workflow) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO workflows (id, name, slug, category, icon, description, price, tags,
			definition, is_active, downloads, revenue, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		workflow.ID,
		workflow.Name,
		workflow.Slug,
		workflow.Category,
		workflow.Icon,
		workflow.Description,
		workflow.Price,
		workflow.Tags,
		workflow.Definition,
		workflow.IsActive,
		workflow.Downloads,
		workflow.Revenue,
		workflow.CreatedAt,
		workflow.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Workflow, error) {
	var workflow domain.Workflow
	err := db.WithContext(ctx).Raw(
		`SELECT `+workflowColumns+` FROM workflows WHERE id = ?`,
		id,
	).Scan(&workflow).Error
	if err != nil {
		return nil, err
	}
	if workflow.ID == 0 {
		return nil, nil
	}
	return &workflow, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, activeOnly bool) ([]*domain.Workflow, error) {
	query := `SELECT ` + workflowColumns + ` FROM workflows`
	if activeOnly {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY created_at DESC, id DESC`

	var workflows []*domain.Workflow
	if err := db.WithContext(ctx).Raw(query).Scan(&workflows).Error; err != nil {
		return nil, err
	}
	return workflows, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, workflow *domain.Workflow) error {
	return db.WithContext(ctx).Exec(
		`UPDATE workflows
		 SET name = ?, slug = ?, category = ?, icon = ?, description = ?, price = ?,
			tags = ?, definition = ?, is_active = ?, updated_at = ?
		 WHERE id = ?`,
		workflow.Name,
		workflow.Slug,
		workflow.Category,
		workflow.Icon,
		workflow.Description,
		workflow.Price,
		workflow.Tags,
		workflow.Definition,
		workflow.IsActive,
		workflow.UpdatedAt,
		workflow.ID,
	).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) (bool, error) {
	res := db.WithContext(ctx).Exec(`DELETE FROM workflows WHERE id = ?`, id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repo) RecordEntitlement(ctx context.Context, db *gorm.DB, id snowflake.ID, revenueDelta float64) error {
	return db.WithContext(ctx).Exec(
		`UPDATE workflows SET downloads = downloads + 1, revenue = revenue + ? WHERE id = ?`,
		revenueDelta,
		id,
	).Error
}

func (r *repo) Count(ctx context.Context, db *gorm.DB) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Raw(`SELECT COUNT(*) FROM workflows`).Scan(&count).Error
	return count, err
}
