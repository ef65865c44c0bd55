package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	HasAccess(ctx context.Context, email string, workflowID snowflake.ID) (bool, error)
	ListByEmail(ctx context.Context, email string) ([]*Entitlement, error)
}
