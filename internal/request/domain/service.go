package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	Submit(ctx context.Context, req SubmitRequest) (*CustomRequest, error)
	List(ctx context.Context) ([]*CustomRequest, error)
	UpdateStatus(ctx context.Context, id snowflake.ID, status string) (*CustomRequest, error)
}

var (
	ErrNotFound           = errors.New("request_not_found")
	ErrInvalidStatus      = errors.New("invalid_status")
	ErrInvalidName        = errors.New("invalid_name")
	ErrInvalidEmail       = errors.New("invalid_email")
	ErrInvalidDescription = errors.New("invalid_description")
)
