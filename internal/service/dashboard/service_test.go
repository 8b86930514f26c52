package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Samamatip/dh-workflow/internal/domain/auth"
	"github.com/Samamatip/dh-workflow/internal/domain/shift"
	"github.com/Samamatip/dh-workflow/internal/domain/shiftrequest"
	"github.com/Samamatip/dh-workflow/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeShiftService struct {
	shift.ShiftService
	month     shift.Month
	failOther error
}

func (f *fakeShiftService) DashboardCounters(ctx context.Context, m shift.Month) (shift.Counters, error) {
	f.month = m
	return shift.Counters{TotalSlotsUploaded: 10, AvailableSlots: 6, TotalRequests: 4, PendingApprovals: 1}, nil
}

func (f *fakeShiftService) ApprovedForStaff(ctx context.Context, staffID string, m shift.Month) ([]shift.StaffShiftResponse, error) {
	return []shift.StaffShiftResponse{
		{ShiftResponse: shift.ShiftResponse{Hours: 8}, Type: "approved"},
		{ShiftResponse: shift.ShiftResponse{Hours: 4.33}, Type: "approved"},
	}, nil
}

func (f *fakeShiftService) PendingForStaff(ctx context.Context, staffID string, m shift.Month) ([]shift.StaffShiftResponse, error) {
	return []shift.StaffShiftResponse{{Type: "pending"}}, nil
}

func (f *fakeShiftService) AvailableInMyDepartment(ctx context.Context, staffID, departmentID string, m shift.Month) ([]shift.ShiftResponse, error) {
	return make([]shift.ShiftResponse, 3), nil
}

func (f *fakeShiftService) AvailableInOtherDepartments(ctx context.Context, staffID, departmentID string, m shift.Month) ([]shift.ShiftResponse, error) {
	if f.failOther != nil {
		return nil, f.failOther
	}
	return make([]shift.ShiftResponse, 5), nil
}

type fakeRequestRepo struct {
	shiftrequest.ShiftRequestRepository
}

func (fakeRequestRepo) CountPending(ctx context.Context) (int, error) {
	return 2, nil
}

func newTestService(shifts *fakeShiftService) *DashboardServiceImpl {
	svc := NewDashboardService(shifts, fakeRequestRepo{}).(*DashboardServiceImpl)
	svc.now = func() time.Time { return time.Date(2030, 5, 15, 0, 0, 0, 0, time.UTC) }
	return svc
}

func TestAdminStats(t *testing.T) {
	shifts := &fakeShiftService{}
	svc := newTestService(shifts)

	resp, err := svc.AdminStats(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "2030-05", resp.Month)
	assert.Equal(t, 10, resp.TotalSlotsUploaded)
	assert.Equal(t, 6, resp.AvailableSlots)
	assert.Equal(t, 2, resp.PendingShiftRequests)

	_, err = svc.AdminStats(context.Background(), "2030-13")
	assert.ErrorIs(t, err, shift.ErrInvalidMonth)
}

func TestStaffOverview(t *testing.T) {
	svc := newTestService(&fakeShiftService{})
	principal := auth.Principal{UserID: "staff-1", Role: user.RoleStaff, DepartmentID: "dept-a"}

	resp, err := svc.StaffOverview(context.Background(), principal, "2030-06")
	require.NoError(t, err)
	assert.Equal(t, "2030-06", resp.Month)
	assert.Equal(t, 2, resp.Approved)
	assert.Equal(t, 12.33, resp.ApprovedHours)
	assert.Equal(t, 1, resp.Pending)
	assert.Equal(t, 3, resp.AvailableMyDepartment)
	assert.Equal(t, 5, resp.AvailableOtherDepartments)
}

func TestStaffOverview_AllOrNothing(t *testing.T) {
	svc := newTestService(&fakeShiftService{failOther: errors.New("timeout")})
	principal := auth.Principal{UserID: "staff-1", Role: user.RoleStaff, DepartmentID: "dept-a"}

	resp, err := svc.StaffOverview(context.Background(), principal, "")
	assert.ErrorContains(t, err, "timeout")
	assert.Zero(t, resp)

	_, err = svc.StaffOverview(context.Background(), auth.Principal{UserID: "staff-1"}, "")
	assert.ErrorIs(t, err, user.ErrDepartmentRequired)
}
