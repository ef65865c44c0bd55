package service

import (
	"context"

	"github.com/vexaai/vexa/internal/admin/domain"
	authdomain "github.com/vexaai/vexa/internal/auth/domain"
	paymentdomain "github.com/vexaai/vexa/internal/payment/domain"
	workflowdomain "github.com/vexaai/vexa/internal/workflow/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	recentSalesLimit = 10

	defaultUserPageSize = 50
	maxUserPageSize     = 250
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	Repo      domain.Repository
	Users     authdomain.Repository
	Workflows workflowdomain.Repository
	Sales     paymentdomain.Repository
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	repo      domain.Repository
	users     authdomain.Repository
	workflows workflowdomain.Repository
	sales     paymentdomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("admin.service"),
		repo:      p.Repo,
		users:     p.Users,
		workflows: p.Workflows,
		sales:     p.Sales,
	}
}

func (s *Service) DashboardStats(ctx context.Context) (*domain.DashboardStats, error) {
	salesStats, err := s.repo.SalesStats(ctx, s.db)
	if err != nil {
		return nil, err
	}

	totalUsers, err := s.users.Count(ctx, s.db)
	if err != nil {
		return nil, err
	}

	totalWorkflows, err := s.workflows.Count(ctx, s.db)
	if err != nil {
		return nil, err
	}

	recent, err := s.sales.ListRecent(ctx, s.db, recentSalesLimit)
	if err != nil {
		return nil, err
	}

	return &domain.DashboardStats{
		TotalRevenue:   salesStats.TotalRevenue,
		TotalSales:     salesStats.TotalSales,
		AllAccessSales: salesStats.AllAccessSales,
		TotalUsers:     totalUsers,
		TotalWorkflows: totalWorkflows,
		TotalCustomers: salesStats.TotalCustomers,
		RecentSales:    recent,
	}, nil
}

func (s *Service) ListUsers(ctx context.Context, limit, offset int) (*domain.UserList, error) {
	if limit <= 0 {
		limit = defaultUserPageSize
	}
	if limit > maxUserPageSize {
		limit = maxUserPageSize
	}
	if offset < 0 {
		offset = 0
	}

	users, err := s.users.List(ctx, s.db, limit, offset)
	if err != nil {
		return nil, err
	}
	total, err := s.users.Count(ctx, s.db)
	if err != nil {
		return nil, err
	}
	return &domain.UserList{Users: users, Total: total}, nil
}
