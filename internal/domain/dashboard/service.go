package dashboard

import (
	"context"

	"github.com/Samamatip/dh-workflow/internal/domain/auth"
)

// DashboardService defines the interface for dashboard operations
type DashboardService interface {
	// AdminStats returns the admin counters for a month, fetched concurrently
	AdminStats(ctx context.Context, month string) (AdminDashboardResponse, error)

	// StaffOverview returns the four staff counts for a month, fetched concurrently
	StaffOverview(ctx context.Context, principal auth.Principal, month string) (StaffOverviewResponse, error)
}
