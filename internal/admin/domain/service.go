package domain

import "context"

type Service interface {
	DashboardStats(ctx context.Context) (*DashboardStats, error)
	ListUsers(ctx context.Context, limit, offset int) (*UserList, error)
}
