package service

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/vexaai/vexa/internal/request/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("request.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Submit(ctx context.Context, req domain.SubmitRequest) (*domain.CustomRequest, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, domain.ErrInvalidEmail
	}

	description := strings.TrimSpace(req.WorkflowDescription)
	if description == "" {
		return nil, domain.ErrInvalidDescription
	}

	now := time.Now().UTC()
	request := domain.CustomRequest{
		ID:                  s.genID.Generate(),
		Name:                name,
		Email:               email,
		Phone:               strings.TrimSpace(req.Phone),
		WorkflowDescription: description,
		UseCase:             strings.TrimSpace(req.UseCase),
		Budget:              strings.TrimSpace(req.Budget),
		Timeline:            strings.TrimSpace(req.Timeline),
		Status:              domain.StatusPending,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if err := s.repo.Insert(ctx, s.db, &request); err != nil {
		return nil, err
	}

	s.log.Info("custom request submitted", zap.String("request_id", request.ID.String()))
	return &request, nil
}

func (s *Service) List(ctx context.Context) ([]*domain.CustomRequest, error) {
	return s.repo.List(ctx, s.db)
}

func (s *Service) UpdateStatus(ctx context.Context, id snowflake.ID, status string) (*domain.CustomRequest, error) {
	status = strings.TrimSpace(strings.ToLower(status))
	if !domain.KnownStatus(status) {
		return nil, domain.ErrInvalidStatus
	}

	updated, err := s.repo.UpdateStatus(ctx, s.db, id, status, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, domain.ErrNotFound
	}
	return s.repo.FindByID(ctx, s.db, id)
}
