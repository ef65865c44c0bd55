package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	List(ctx context.Context, activeOnly bool) ([]*Workflow, error)
	GetByID(ctx context.Context, id snowflake.ID) (*Workflow, error)
	Create(ctx context.Context, req CreateWorkflowRequest) (*Workflow, error)
	Update(ctx context.Context, id snowflake.ID, req UpdateWorkflowRequest) (*Workflow, error)
	Delete(ctx context.Context, id snowflake.ID) error
}

var (
	ErrNotFound          = errors.New("workflow_not_found")
	ErrInvalidName       = errors.New("invalid_name")
	ErrInvalidPrice      = errors.New("invalid_price")
	ErrInvalidDefinition = errors.New("invalid_definition")
	ErrSlugTaken         = errors.New("slug_taken")
)
