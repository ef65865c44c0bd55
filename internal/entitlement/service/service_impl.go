package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/vexaai/vexa/internal/entitlement/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB   *gorm.DB
	Log  *zap.Logger
	Repo domain.Repository
}

type Service struct {
	db   *gorm.DB
	log  *zap.Logger
	repo domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:   p.DB,
		log:  p.Log.Named("entitlement.service"),
		repo: p.Repo,
	}
}

func (s *Service) HasAccess(ctx context.Context, email string, workflowID snowflake.ID) (bool, error) {
	return s.repo.HasAccess(ctx, s.db, email, workflowID)
}

func (s *Service) ListByEmail(ctx context.Context, email string) ([]*domain.Entitlement, error) {
	return s.repo.ListByEmail(ctx, s.db, email)
}
