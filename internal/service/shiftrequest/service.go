package shiftrequest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Samamatip/dh-workflow/internal/domain/department"
	"github.com/Samamatip/dh-workflow/internal/domain/notification"
	"github.com/Samamatip/dh-workflow/internal/domain/shift"
	"github.com/Samamatip/dh-workflow/internal/domain/shiftrequest"
	"github.com/Samamatip/dh-workflow/internal/pkg/metrics"
	"github.com/Samamatip/dh-workflow/internal/pkg/validator"
	"github.com/Samamatip/dh-workflow/internal/repository/postgresql"
)

type ShiftRequestServiceImpl struct {
	transactor     postgresql.Transactor
	requestRepo    shiftrequest.ShiftRequestRepository
	shiftRepo      shift.ShiftRepository
	eventRepo      shift.StatusEventRepository
	departmentRepo department.DepartmentRepository
	notifier       notification.Notifier
	now            func() time.Time
}

func NewShiftRequestService(
	transactor postgresql.Transactor,
	requestRepo shiftrequest.ShiftRequestRepository,
	shiftRepo shift.ShiftRepository,
	eventRepo shift.StatusEventRepository,
	departmentRepo department.DepartmentRepository,
	notifier notification.Notifier,
) shiftrequest.ShiftRequestService {
	return &ShiftRequestServiceImpl{
		transactor:     transactor,
		requestRepo:    requestRepo,
		shiftRepo:      shiftRepo,
		eventRepo:      eventRepo,
		departmentRepo: departmentRepo,
		notifier:       notifier,
		now:            time.Now,
	}
}

// Create implements shiftrequest.ShiftRequestService.
func (s *ShiftRequestServiceImpl) Create(ctx context.Context, req shiftrequest.CreateShiftRequestRequest) (shiftrequest.ShiftRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return shiftrequest.ShiftRequestResponse{}, err
	}

	dept, err := s.departmentRepo.GetByID(ctx, req.Department)
	if err != nil {
		if errors.Is(err, department.ErrDepartmentNotFound) {
			return shiftrequest.ShiftRequestResponse{}, validator.ValidationErrors{{Field: "department", Message: "department does not exist"}}
		}
		return shiftrequest.ShiftRequestResponse{}, fmt.Errorf("failed to get department: %w", err)
	}

	date, err := shift.ParseDate(req.Date)
	if err != nil {
		return shiftrequest.ShiftRequestResponse{}, err
	}

	created, err := s.requestRepo.Create(ctx, shiftrequest.ShiftRequest{
		RequestedBy:  req.RequestedBy,
		DepartmentID: dept.ID,
		Date:         date,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		Reason:       req.Reason,
		Status:       shiftrequest.StatusPending,
	})
	if err != nil {
		return shiftrequest.ShiftRequestResponse{}, fmt.Errorf("failed to create shift request: %w", err)
	}
	created.DepartmentName = &dept.Name
	return shiftrequest.NewShiftRequestResponse(created), nil
}

func listFilter(query shiftrequest.ListQuery) (shiftrequest.ListFilter, error) {
	if err := query.Validate(); err != nil {
		return shiftrequest.ListFilter{}, err
	}

	var filter shiftrequest.ListFilter
	if query.Status != "" {
		status := shiftrequest.Status(query.Status)
		filter.Status = &status
	}
	if query.Month != "" {
		month, err := shift.ParseMonth(query.Month)
		if err != nil {
			return shiftrequest.ListFilter{}, err
		}
		from, to := month.Bounds()
		filter.From = &from
		filter.To = &to
	}
	return filter, nil
}

// List implements shiftrequest.ShiftRequestService.
func (s *ShiftRequestServiceImpl) List(ctx context.Context, query shiftrequest.ListQuery) ([]shiftrequest.ShiftRequestResponse, error) {
	filter, err := listFilter(query)
	if err != nil {
		return nil, err
	}

	items, err := s.requestRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return shiftrequest.NewShiftRequestResponses(items), nil
}

// ListByUser implements shiftrequest.ShiftRequestService.
func (s *ShiftRequestServiceImpl) ListByUser(ctx context.Context, userID string, query shiftrequest.ListQuery) ([]shiftrequest.ShiftRequestResponse, error) {
	filter, err := listFilter(query)
	if err != nil {
		return nil, err
	}
	filter.RequestedBy = &userID

	items, err := s.requestRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return shiftrequest.NewShiftRequestResponses(items), nil
}

// Review implements shiftrequest.ShiftRequestService. Approval creates a published
// single-slot shift already booked for the requester, in the same transaction.
func (s *ShiftRequestServiceImpl) Review(ctx context.Context, req shiftrequest.ReviewShiftRequestRequest) (shiftrequest.ShiftRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return shiftrequest.ShiftRequestResponse{}, err
	}

	var reviewed shiftrequest.ShiftRequest
	err := s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		found, err := s.requestRepo.GetByIDForUpdate(txCtx, req.ID)
		if err != nil {
			return err
		}
		if !found.IsPending() {
			return shiftrequest.ErrShiftRequestAlreadyProcessed
		}

		now := s.now()
		if req.Status == shiftrequest.StatusApproved {
			created, err := s.shiftRepo.Create(txCtx, shift.Shift{
				DepartmentID: found.DepartmentID,
				Date:         found.Date,
				StartTime:    found.StartTime,
				EndTime:      found.EndTime,
				Quantity:     1,
				Published:    true,
				CreatedBy:    &req.ReviewedBy,
			})
			if err != nil {
				return fmt.Errorf("failed to create shift for request: %w", err)
			}

			_, err = s.eventRepo.Create(txCtx, shift.StatusEvent{
				ShiftID:    created.ID,
				StaffID:    found.RequestedBy,
				Status:     shift.BookingStatusApproved,
				BookedAt:   now,
				ReviewedBy: &req.ReviewedBy,
				ReviewedAt: &now,
			})
			if err != nil {
				return fmt.Errorf("failed to book shift for request: %w", err)
			}
			found.ShiftID = &created.ID
		}

		found.Status = req.Status
		found.AdminNotes = req.AdminNotes
		found.ReviewedBy = &req.ReviewedBy
		found.ReviewedAt = &now
		if err := s.requestRepo.UpdateReview(txCtx, found); err != nil {
			return err
		}
		reviewed = found
		return nil
	})
	if err != nil {
		return shiftrequest.ShiftRequestResponse{}, err
	}

	metrics.RecordReview("shift_request", string(reviewed.Status))
	s.notifier.ShiftRequestReviewed(ctx, reviewed)
	return shiftrequest.NewShiftRequestResponse(reviewed), nil
}

// Delete implements shiftrequest.ShiftRequestService. Staff may only remove their own pending requests.
func (s *ShiftRequestServiceImpl) Delete(ctx context.Context, id string, requesterID string, isAdmin bool) error {
	found, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !isAdmin {
		if found.RequestedBy != requesterID {
			return shiftrequest.ErrShiftRequestNotOwned
		}
		if !found.IsPending() {
			return shiftrequest.ErrShiftRequestAlreadyProcessed
		}
	}

	return s.requestRepo.Delete(ctx, id)
}
