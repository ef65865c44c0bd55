package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/vexaai/vexa/internal/request/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

const requestColumns = `id, name, email, phone, workflow_description, use_case,
	budget, timeline, status, created_at, updated_at`

func (r *repo) Insert(ctx context.Context, db *gorm.DB, request *domain.CustomRequest) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO custom_requests (id, name, email, phone, workflow_description,
			use_case, budget, timeline, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		request.ID,
		request.Name,
		request.Email,
		request.Phone,
		request.WorkflowDescription,
		request.UseCase,
		request.Budget,
		request.Timeline,
		request.Status,
		request.CreatedAt,
		request.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.CustomRequest, error) {
	var request domain.CustomRequest
	err := db.WithContext(ctx).Raw(
		`SELECT `+requestColumns+` FROM custom_requests WHERE id = ?`,
		id,
	).Scan(&request).Error
	if err != nil {
		return nil, err
	}
	if request.ID == 0 {
		return nil, nil
	}
	return &request, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]*domain.CustomRequest, error) {
	var requests []*domain.CustomRequest
	err := db.WithContext(ctx).Raw(
		`SELECT ` + requestColumns + ` FROM custom_requests
		 ORDER BY CASE status
			WHEN 'pending' THEN 0
			WHEN 'reviewing' THEN 1
			WHEN 'quoted' THEN 2
			WHEN 'in_progress' THEN 3
			WHEN 'completed' THEN 4
			ELSE 5
		 END, created_at DESC, id DESC`,
	).Scan(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *repo) UpdateStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, status string, at time.Time) (bool, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE custom_requests SET status = ?, updated_at = ? WHERE id = ?`,
		status,
		at,
		id,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
