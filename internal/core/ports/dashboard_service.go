package ports

import "context"

// DashboardStats summarises the user collection.
type DashboardStats struct {
	TotalUsers    int
	ActiveUsers   int
	InactiveUsers int
	PendingUsers  int
	UsersByRole   map[string]int
	RecentSignups int
}

// GrowthPoint is the cumulative user count at the end of a month.
type GrowthPoint struct {
	Month      string // "Jan 23"
	TotalUsers int
}

// DashboardService computes the dashboard cards and growth chart.
type DashboardService interface {
	Stats(ctx context.Context) (*DashboardStats, error)
	Growth(ctx context.Context) ([]GrowthPoint, error)
}
