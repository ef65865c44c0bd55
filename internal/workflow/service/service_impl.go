package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/vexaai/vexa/internal/workflow/domain"
	"github.com/vexaai/vexa/pkg/currency"
	"github.com/vexaai/vexa/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
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
		log:   p.Log.Named("workflow.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) List(ctx context.Context, activeOnly bool) ([]*domain.Workflow, error) {
	return s.repo.List(ctx, s.db, activeOnly)
}

func (s *Service) GetByID(ctx context.Context, id snowflake.ID) (*domain.Workflow, error) {
	workflow, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if workflow == nil {
		return nil, domain.ErrNotFound
	}
	return workflow, nil
}

func (s *Service) Create(ctx context.Context, req domain.CreateWorkflowRequest) (*domain.Workflow, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	price, err := parsePrice(req.Price)
	if err != nil {
		return nil, err
	}

	definition, err := normalizeDefinition(req.Definition)
	if err != nil {
		return nil, err
	}

	tags, err := encodeTags(req.Tags)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	workflow := domain.Workflow{
		ID:          s.genID.Generate(),
		Name:        name,
		Slug:        slug.Make(name),
		Category:    strings.TrimSpace(req.Category),
		Icon:        strings.TrimSpace(req.Icon),
		Description: strings.TrimSpace(req.Description),
		Price:       price,
		Tags:        tags,
		Definition:  definition,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Insert(ctx, s.db, &workflow); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrSlugTaken
		}
		return nil, err
	}

	s.log.Info("workflow created",
		zap.String("workflow_id", workflow.ID.String()),
		zap.String("slug", workflow.Slug),
	)
	return &workflow, nil
}

func (s *Service) Update(ctx context.Context, id snowflake.ID, req domain.UpdateWorkflowRequest) (*domain.Workflow, error) {
	workflow, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidName
		}
		workflow.Name = name
		workflow.Slug = slug.Make(name)
	}
	if req.Category != nil {
		workflow.Category = strings.TrimSpace(*req.Category)
	}
	if req.Icon != nil {
		workflow.Icon = strings.TrimSpace(*req.Icon)
	}
	if req.Description != nil {
		workflow.Description = strings.TrimSpace(*req.Description)
	}
	if req.Price != nil {
		price, err := parsePrice(*req.Price)
		if err != nil {
			return nil, err
		}
		workflow.Price = price
	}
	if req.Tags != nil {
		tags, err := encodeTags(req.Tags)
		if err != nil {
			return nil, err
		}
		workflow.Tags = tags
	}
	if req.Definition != nil {
		definition, err := normalizeDefinition(req.Definition)
		if err != nil {
			return nil, err
		}
		workflow.Definition = definition
	}
	if req.IsActive != nil {
		workflow.IsActive = *req.IsActive
	}
	workflow.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, s.db, workflow); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrSlugTaken
		}
		return nil, err
	}
	return workflow, nil
}

func (s *Service) Delete(ctx context.Context, id snowflake.ID) error {
	deleted, err := s.repo.Delete(ctx, s.db, id)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrNotFound
	}
	s.log.Info("workflow deleted", zap.String("workflow_id", id.String()))
	return nil
}

func parsePrice(raw string) (float64, error) {
	minor, err := currency.ToMinorUnits(raw)
	if err != nil || minor <= 0 {
		return 0, domain.ErrInvalidPrice
	}
	return currency.FromMinorUnits(minor), nil
}

func normalizeDefinition(raw json.RawMessage) (datatypes.JSON, error) {
	if len(raw) == 0 || !json.Valid(raw) {
		return nil, domain.ErrInvalidDefinition
	}
	return datatypes.JSON(raw), nil
}

func encodeTags(tags []string) (datatypes.JSON, error) {
	if tags == nil {
		tags = []string{}
	}
	cleaned := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag != "" {
			cleaned = append(cleaned, tag)
		}
	}
	encoded, err := json.Marshal(cleaned)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(encoded), nil
}
