package domain

import (
	authdomain "github.com/vexaai/vexa/internal/auth/domain"
	paymentdomain "github.com/vexaai/vexa/internal/payment/domain"
)

// DashboardStats is the read-only rollup behind the admin dashboard.
type DashboardStats struct {
	TotalRevenue   float64               `json:"total_revenue"`
	TotalSales     int64                 `json:"total_sales"`
	AllAccessSales int64                 `json:"all_access_sales"`
	TotalUsers     int64                 `json:"total_users"`
	TotalWorkflows int64                 `json:"total_workflows"`
	TotalCustomers int64                 `json:"total_customers"`
	RecentSales    []*paymentdomain.Sale `json:"recent_sales"`
}

// SalesStats is the aggregate slice of DashboardStats computed from the
// sales table in one query.
type SalesStats struct {
	TotalRevenue   float64
	TotalSales     int64
	AllAccessSales int64
	TotalCustomers int64
}

type UserList struct {
	Users []*authdomain.User `json:"users"`
	Total int64              `json:"total"`
}
