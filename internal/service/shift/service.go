package shift

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Samamatip/dh-workflow/internal/domain/department"
	"github.com/Samamatip/dh-workflow/internal/domain/notification"
	"github.com/Samamatip/dh-workflow/internal/domain/shift"
	"github.com/Samamatip/dh-workflow/internal/domain/user"
	"github.com/Samamatip/dh-workflow/internal/pkg/metrics"
	"github.com/Samamatip/dh-workflow/internal/pkg/validator"
	"github.com/Samamatip/dh-workflow/internal/repository/postgresql"
	"golang.org/x/sync/errgroup"
)

// maxDepartmentFetches bounds concurrent per-department queries.
const maxDepartmentFetches = 4

type ShiftServiceImpl struct {
	transactor     postgresql.Transactor
	shiftRepo      shift.ShiftRepository
	eventRepo      shift.StatusEventRepository
	departmentRepo department.DepartmentRepository
	notifier       notification.Notifier
	now            func() time.Time
}

func NewShiftService(
	transactor postgresql.Transactor,
	shiftRepo shift.ShiftRepository,
	eventRepo shift.StatusEventRepository,
	departmentRepo department.DepartmentRepository,
	notifier notification.Notifier,
) shift.ShiftService {
	return &ShiftServiceImpl{
		transactor:     transactor,
		shiftRepo:      shiftRepo,
		eventRepo:      eventRepo,
		departmentRepo: departmentRepo,
		notifier:       notifier,
		now:            time.Now,
	}
}

func (s *ShiftServiceImpl) requireDepartment(ctx context.Context, id string) error {
	if _, err := s.departmentRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, department.ErrDepartmentNotFound) {
			return validator.ValidationErrors{{Field: "department", Message: "department does not exist"}}
		}
		return fmt.Errorf("failed to get department: %w", err)
	}
	return nil
}

// CreateShift implements shift.ShiftService.
func (s *ShiftServiceImpl) CreateShift(ctx context.Context, req shift.CreateShiftRequest, createdBy string) (shift.ShiftResponse, error) {
	if err := req.Validate(s.now()); err != nil {
		return shift.ShiftResponse{}, err
	}
	if err := s.requireDepartment(ctx, req.Department); err != nil {
		return shift.ShiftResponse{}, err
	}

	date, err := shift.ParseDate(req.Shift.Date)
	if err != nil {
		return shift.ShiftResponse{}, err
	}

	created, err := s.shiftRepo.Create(ctx, shift.Shift{
		DepartmentID: req.Department,
		Date:         date,
		StartTime:    req.Shift.StartTime,
		EndTime:      req.Shift.EndTime,
		Quantity:     req.Shift.Quantity,
		Published:    req.Shift.Published,
		CreatedBy:    &createdBy,
	})
	if err != nil {
		return shift.ShiftResponse{}, fmt.Errorf("failed to create shift: %w", err)
	}
	return shift.NewShiftResponse(created), nil
}

// SubmitBulkUpload implements shift.ShiftService. Either every draft is stored or none.
func (s *ShiftServiceImpl) SubmitBulkUpload(ctx context.Context, req shift.BulkUploadRequest, createdBy string) (shift.BulkUploadResponse, error) {
	if err := req.Validate(s.now()); err != nil {
		return shift.BulkUploadResponse{}, err
	}
	if err := s.requireDepartment(ctx, req.Department); err != nil {
		return shift.BulkUploadResponse{}, err
	}

	shifts := make([]shift.Shift, 0, len(req.Shifts))
	for _, d := range req.Shifts {
		date, err := shift.ParseDate(d.Date)
		if err != nil {
			return shift.BulkUploadResponse{}, err
		}
		shifts = append(shifts, shift.Shift{
			DepartmentID: req.Department,
			Date:         date,
			StartTime:    d.StartTime,
			EndTime:      d.EndTime,
			Quantity:     d.Quantity,
			Published:    req.Published,
			CreatedBy:    &createdBy,
		})
	}

	var ids []string
	err := s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		ids, err = s.shiftRepo.CreateBatch(txCtx, shifts)
		return err
	})
	if err != nil {
		return shift.BulkUploadResponse{}, fmt.Errorf("failed to store uploaded shifts: %w", err)
	}

	return shift.BulkUploadResponse{Created: len(ids), ShiftIDs: ids}, nil
}

// GetShift implements shift.ShiftService.
func (s *ShiftServiceImpl) GetShift(ctx context.Context, id string) (shift.ShiftResponse, error) {
	found, err := s.shiftRepo.GetByID(ctx, id)
	if err != nil {
		return shift.ShiftResponse{}, err
	}
	return shift.NewShiftResponse(found), nil
}

// ListShifts implements shift.ShiftService.
func (s *ShiftServiceImpl) ListShifts(ctx context.Context, query shift.ListShiftsQuery) ([]shift.ShiftResponse, error) {
	if query.Month.IsZero() {
		return nil, shift.ErrInvalidMonth
	}

	filter := shift.ListFilter{Month: query.Month, Published: query.Published}
	if query.DepartmentID != "" {
		filter.DepartmentID = &query.DepartmentID
	}

	shifts, err := s.shiftRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return shift.NewShiftResponses(shifts), nil
}

// SetPublished implements shift.ShiftService.
func (s *ShiftServiceImpl) SetPublished(ctx context.Context, id string, published bool) error {
	return s.shiftRepo.SetPublished(ctx, id, published)
}

// BookShift implements shift.ShiftService. The shift row stays locked from the
// availability check until the new booking is committed.
func (s *ShiftServiceImpl) BookShift(ctx context.Context, shiftID string, staffID string) (shift.StatusEventResponse, error) {
	var (
		booked  shift.Shift
		created shift.StatusEvent
	)

	err := s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		found, err := s.shiftRepo.GetByIDForUpdate(txCtx, shiftID)
		if err != nil {
			return err
		}

		now := s.now()
		switch {
		case !found.Published:
			return shift.ErrShiftNotPublished
		case validator.IsBeforeDay(found.Date, now):
			return shift.ErrShiftInPast
		}

		switch shift.CategorizeForStaff(found, staffID) {
		case shift.CategoryPending, shift.CategoryApproved:
			return shift.ErrAlreadyBooked
		}
		if shift.SlotsAvailable(found) == 0 {
			return shift.ErrNoSlotsAvailable
		}

		created, err = s.eventRepo.Create(txCtx, shift.StatusEvent{
			ShiftID:  found.ID,
			StaffID:  staffID,
			Status:   shift.BookingStatusPending,
			BookedAt: now,
		})
		if err != nil {
			return err
		}
		booked = found
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, shift.ErrNoSlotsAvailable), errors.Is(err, shift.ErrAlreadyBooked):
			metrics.RecordBooking(metrics.ResultConflict)
		default:
			metrics.RecordBooking(metrics.ResultFailure)
		}
		return shift.StatusEventResponse{}, err
	}

	metrics.RecordBooking(metrics.ResultSuccess)
	s.notifier.BookingCreated(ctx, booked, created)
	return shift.NewStatusEventResponse(created), nil
}

// CancelBooking implements shift.ShiftService. Only a pending booking can be withdrawn.
func (s *ShiftServiceImpl) CancelBooking(ctx context.Context, shiftID string, staffID string) error {
	return s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		found, err := s.shiftRepo.GetByIDForUpdate(txCtx, shiftID)
		if err != nil {
			return err
		}

		latest, ok := shift.LatestEventFor(found, staffID)
		if !ok {
			return shift.ErrBookingNotFound
		}
		if latest.Status != shift.BookingStatusPending {
			return shift.ErrBookingAlreadyReviewed
		}
		return s.eventRepo.Delete(txCtx, latest.ID)
	})
}

// ApproveBooking implements shift.ShiftService.
func (s *ShiftServiceImpl) ApproveBooking(ctx context.Context, req shift.ApproveBookingRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	return s.review(ctx, req.ShiftID, req.UserID, req.ReviewerID, shift.BookingStatusApproved, nil)
}

// RejectBooking implements shift.ShiftService.
func (s *ShiftServiceImpl) RejectBooking(ctx context.Context, req shift.RejectBookingRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	return s.review(ctx, req.ShiftID, req.UserID, req.ReviewerID, shift.BookingStatusRejected, &req.Reason)
}

func (s *ShiftServiceImpl) review(ctx context.Context, shiftID, staffID, reviewerID string, decision shift.BookingStatus, reason *string) error {
	var (
		reviewed shift.Shift
		event    shift.StatusEvent
	)

	err := s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		found, err := s.shiftRepo.GetByIDForUpdate(txCtx, shiftID)
		if err != nil {
			return err
		}

		latest, ok := shift.LatestEventFor(found, staffID)
		if !ok {
			return shift.ErrBookingNotFound
		}
		if latest.Status != shift.BookingStatusPending {
			return shift.ErrBookingAlreadyReviewed
		}

		now := s.now()
		latest.Status = decision
		latest.ReviewedBy = &reviewerID
		latest.ReviewedAt = &now
		if decision == shift.BookingStatusRejected {
			latest.RejectionReason = reason
			latest.RejectedAt = &now
		}

		if err := s.eventRepo.UpdateReview(txCtx, latest); err != nil {
			return err
		}
		reviewed, event = found, latest
		return nil
	})
	if err != nil {
		return err
	}

	metrics.RecordReview("booking", string(decision))
	s.notifier.BookingReviewed(ctx, reviewed, event)
	return nil
}

// PendingQueue implements shift.ShiftService.
func (s *ShiftServiceImpl) PendingQueue(ctx context.Context, month shift.Month) ([]shift.PendingBookingResponse, error) {
	shifts, err := s.shiftRepo.List(ctx, shift.ListFilter{Month: month})
	if err != nil {
		return nil, err
	}
	return shift.NewPendingBookingResponses(shift.PendingQueue(shifts)), nil
}

// DashboardCounters implements shift.ShiftService.
func (s *ShiftServiceImpl) DashboardCounters(ctx context.Context, month shift.Month) (shift.Counters, error) {
	shifts, err := s.shiftRepo.List(ctx, shift.ListFilter{Month: month})
	if err != nil {
		return shift.Counters{}, err
	}
	return shift.DashboardCounters(shifts), nil
}

func (s *ShiftServiceImpl) staffShifts(ctx context.Context, staffID string, month shift.Month, categories ...shift.Category) ([]shift.StaffShiftResponse, error) {
	shifts, err := s.shiftRepo.List(ctx, shift.ListFilter{Month: month, StaffID: &staffID})
	if err != nil {
		return nil, err
	}
	return shift.NewStaffShiftResponses(shift.ForStaff(shifts, staffID, month, categories...)), nil
}

// ApprovedForStaff implements shift.ShiftService.
func (s *ShiftServiceImpl) ApprovedForStaff(ctx context.Context, staffID string, month shift.Month) ([]shift.StaffShiftResponse, error) {
	return s.staffShifts(ctx, staffID, month, shift.CategoryApproved)
}

// PendingForStaff implements shift.ShiftService.
func (s *ShiftServiceImpl) PendingForStaff(ctx context.Context, staffID string, month shift.Month) ([]shift.StaffShiftResponse, error) {
	return s.staffShifts(ctx, staffID, month, shift.CategoryPending)
}

// PendingAndRejectedForStaff implements shift.ShiftService.
func (s *ShiftServiceImpl) PendingAndRejectedForStaff(ctx context.Context, staffID string, month shift.Month) ([]shift.StaffShiftResponse, error) {
	return s.staffShifts(ctx, staffID, month, shift.CategoryPending, shift.CategoryRejected)
}

// AvailableInMyDepartment implements shift.ShiftService.
func (s *ShiftServiceImpl) AvailableInMyDepartment(ctx context.Context, staffID string, departmentID string, month shift.Month) ([]shift.ShiftResponse, error) {
	if departmentID == "" {
		return nil, user.ErrDepartmentRequired
	}

	published := true
	shifts, err := s.shiftRepo.List(ctx, shift.ListFilter{
		Month:        month,
		DepartmentID: &departmentID,
		Published:    &published,
	})
	if err != nil {
		return nil, err
	}
	return shift.NewShiftResponses(shift.AvailableForStaff(shifts, staffID, month)), nil
}

// AvailableInOtherDepartments implements shift.ShiftService. One query per department
// runs concurrently and results are merged only after every query has finished.
func (s *ShiftServiceImpl) AvailableInOtherDepartments(ctx context.Context, staffID string, departmentID string, month shift.Month) ([]shift.ShiftResponse, error) {
	departments, err := s.departmentRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}

	others := make([]string, 0, len(departments))
	for _, d := range departments {
		if d.ID != departmentID {
			others = append(others, d.ID)
		}
	}

	results := make([][]shift.Shift, len(others))
	published := true

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxDepartmentFetches)
	for i, id := range others {
		g.Go(func() error {
			shifts, err := s.shiftRepo.List(gctx, shift.ListFilter{
				Month:        month,
				DepartmentID: &id,
				Published:    &published,
			})
			if err != nil {
				return fmt.Errorf("failed to list shifts for department %s: %w", id, err)
			}
			results[i] = shifts
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := make([]shift.Shift, 0)
	for _, shifts := range results {
		merged = append(merged, shifts...)
	}
	return shift.NewShiftResponses(shift.AvailableForStaff(merged, staffID, month)), nil
}
