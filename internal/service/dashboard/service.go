package dashboard

import (
	"context"
	"time"

	"github.com/Samamatip/dh-workflow/internal/domain/auth"
	"github.com/Samamatip/dh-workflow/internal/domain/dashboard"
	"github.com/Samamatip/dh-workflow/internal/domain/shift"
	"github.com/Samamatip/dh-workflow/internal/domain/shiftrequest"
	"github.com/Samamatip/dh-workflow/internal/domain/user"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

type DashboardServiceImpl struct {
	shiftService     shift.ShiftService
	shiftRequestRepo shiftrequest.ShiftRequestRepository
	now              func() time.Time
}

func NewDashboardService(shiftService shift.ShiftService, shiftRequestRepo shiftrequest.ShiftRequestRepository) dashboard.DashboardService {
	return &DashboardServiceImpl{
		shiftService:     shiftService,
		shiftRequestRepo: shiftRequestRepo,
		now:              time.Now,
	}
}

// parseMonth parses YYYY-MM format, defaults to current month
func (s *DashboardServiceImpl) parseMonth(month string) (shift.Month, error) {
	if month == "" {
		return shift.MonthOf(s.now()), nil
	}
	return shift.ParseMonth(month)
}

// AdminStats implements dashboard.DashboardService.
func (s *DashboardServiceImpl) AdminStats(ctx context.Context, month string) (dashboard.AdminDashboardResponse, error) {
	m, err := s.parseMonth(month)
	if err != nil {
		return dashboard.AdminDashboardResponse{}, err
	}

	var (
		counters        shift.Counters
		pendingRequests int
	)

	g, gCtx := errgroup.WithContext(ctx)

	// 1. Slot counters for the month
	g.Go(func() error {
		c, err := s.shiftService.DashboardCounters(gCtx, m)
		if err != nil {
			return err
		}
		counters = c
		return nil
	})

	// 2. Shift requests waiting for review
	g.Go(func() error {
		n, err := s.shiftRequestRepo.CountPending(gCtx)
		if err != nil {
			return err
		}
		pendingRequests = n
		return nil
	})

	if err := g.Wait(); err != nil {
		return dashboard.AdminDashboardResponse{}, err
	}

	return dashboard.NewAdminDashboardResponse(m, counters, pendingRequests), nil
}

// StaffOverview implements dashboard.DashboardService. Nothing is returned unless all four lookups succeed.
func (s *DashboardServiceImpl) StaffOverview(ctx context.Context, principal auth.Principal, month string) (dashboard.StaffOverviewResponse, error) {
	if principal.DepartmentID == "" {
		return dashboard.StaffOverviewResponse{}, user.ErrDepartmentRequired
	}

	m, err := s.parseMonth(month)
	if err != nil {
		return dashboard.StaffOverviewResponse{}, err
	}

	var (
		approved  []shift.StaffShiftResponse
		pending   []shift.StaffShiftResponse
		mine      []shift.ShiftResponse
		elsewhere []shift.ShiftResponse
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		approved, err = s.shiftService.ApprovedForStaff(gCtx, principal.UserID, m)
		return err
	})

	g.Go(func() error {
		var err error
		pending, err = s.shiftService.PendingForStaff(gCtx, principal.UserID, m)
		return err
	})

	g.Go(func() error {
		var err error
		mine, err = s.shiftService.AvailableInMyDepartment(gCtx, principal.UserID, principal.DepartmentID, m)
		return err
	})

	g.Go(func() error {
		var err error
		elsewhere, err = s.shiftService.AvailableInOtherDepartments(gCtx, principal.UserID, principal.DepartmentID, m)
		return err
	})

	if err := g.Wait(); err != nil {
		return dashboard.StaffOverviewResponse{}, err
	}

	hours := decimal.Zero
	for _, a := range approved {
		hours = hours.Add(decimal.NewFromFloat(a.Hours))
	}
	approvedHours, _ := hours.Round(2).Float64()

	return dashboard.StaffOverviewResponse{
		Month:                     m.String(),
		Approved:                  len(approved),
		ApprovedHours:             approvedHours,
		Pending:                   len(pending),
		AvailableMyDepartment:     len(mine),
		AvailableOtherDepartments: len(elsewhere),
	}, nil
}
