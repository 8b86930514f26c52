package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/Samamatip/dh-workflow/internal/domain/auth"
	"github.com/Samamatip/dh-workflow/internal/domain/shift"
	"github.com/Samamatip/dh-workflow/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type ShiftHandler interface {
	// Admin
	Create(w http.ResponseWriter, r *http.Request)
	SubmitBulk(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	SetPublished(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
	PendingQueue(w http.ResponseWriter, r *http.Request)

	// Staff
	Book(w http.ResponseWriter, r *http.Request)
	CancelBooking(w http.ResponseWriter, r *http.Request)
	MyApproved(w http.ResponseWriter, r *http.Request)
	MyPending(w http.ResponseWriter, r *http.Request)
	MyHistory(w http.ResponseWriter, r *http.Request)
	AvailableInMyDepartment(w http.ResponseWriter, r *http.Request)
	AvailableInOtherDepartments(w http.ResponseWriter, r *http.Request)
}

type ShiftHandlerImpl struct {
	shiftService shift.ShiftService
}

func NewShiftHandler(shiftService shift.ShiftService) ShiftHandler {
	return &ShiftHandlerImpl{shiftService: shiftService}
}

// Create implements ShiftHandler. Date rules depend on today, so the service validates.
func (h *ShiftHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}

	var req shift.CreateShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CreateShift decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	created, err := h.shiftService.CreateShift(r.Context(), req, principal.UserID)
	if err != nil {
		slog.Error("CreateShift service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Shift created successfully", created)
}

// SubmitBulk implements ShiftHandler.
func (h *ShiftHandlerImpl) SubmitBulk(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}

	var req shift.BulkUploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("SubmitBulk decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.shiftService.SubmitBulkUpload(r.Context(), req, principal.UserID)
	if err != nil {
		slog.Error("SubmitBulk service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Shifts uploaded successfully", result)
}

// List handles GET /shifts?department=&month=&published=
func (h *ShiftHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	month, err := monthQueryParam(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	shifts, err := h.shiftService.ListShifts(r.Context(), shift.ListShiftsQuery{
		DepartmentID: r.URL.Query().Get("department"),
		Month:        month,
		Published:    optionalBoolQueryParam(r, "published"),
	})
	if err != nil {
		slog.Error("ListShifts service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.List(w, shifts, monthMeta(month, len(shifts)))
}

// Get implements ShiftHandler.
func (h *ShiftHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.shiftService.GetShift(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// SetPublished implements ShiftHandler.
func (h *ShiftHandlerImpl) SetPublished(w http.ResponseWriter, r *http.Request) {
	var req shift.SetPublishedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("SetPublished decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := h.shiftService.SetPublished(r.Context(), chi.URLParam(r, "id"), req.Published); err != nil {
		slog.Error("SetPublished service error", "error", err)
		response.HandleError(w, err)
		return
	}

	if req.Published {
		response.SuccessWithMessage(w, "Shift published", nil)
		return
	}
	response.SuccessWithMessage(w, "Shift unpublished", nil)
}

// Approve handles POST /shifts/{id}/approve with body {userId}
func (h *ShiftHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}

	var req shift.ApproveBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("ApproveBooking decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ShiftID = chi.URLParam(r, "id")
	req.ReviewerID = principal.UserID

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	if err := h.shiftService.ApproveBooking(r.Context(), req); err != nil {
		slog.Error("ApproveBooking service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Booking approved", nil)
}

// Reject handles POST /shifts/{id}/reject with body {userId, reason}
func (h *ShiftHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}

	var req shift.RejectBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("RejectBooking decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ShiftID = chi.URLParam(r, "id")
	req.ReviewerID = principal.UserID

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	if err := h.shiftService.RejectBooking(r.Context(), req); err != nil {
		slog.Error("RejectBooking service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Booking rejected", nil)
}

// PendingQueue handles GET /shifts/pending?month=
func (h *ShiftHandlerImpl) PendingQueue(w http.ResponseWriter, r *http.Request) {
	month, err := monthQueryParam(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	queue, err := h.shiftService.PendingQueue(r.Context(), month)
	if err != nil {
		slog.Error("PendingQueue service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.List(w, queue, monthMeta(month, len(queue)))
}

// Book implements ShiftHandler.
func (h *ShiftHandlerImpl) Book(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}

	event, err := h.shiftService.BookShift(r.Context(), chi.URLParam(r, "id"), principal.UserID)
	if err != nil {
		slog.Error("BookShift service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Booking submitted for approval", event)
}

// CancelBooking implements ShiftHandler.
func (h *ShiftHandlerImpl) CancelBooking(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}

	if err := h.shiftService.CancelBooking(r.Context(), chi.URLParam(r, "id"), principal.UserID); err != nil {
		slog.Error("CancelBooking service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Booking cancelled", nil)
}

// serveStaffShifts answers a month-scoped list for the calling staff member.
func serveStaffShifts[T any](w http.ResponseWriter, r *http.Request, name string, fetch func(ctx context.Context, principal auth.Principal, month shift.Month) ([]T, error)) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}

	month, err := monthQueryParam(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	items, err := fetch(r.Context(), principal, month)
	if err != nil {
		slog.Error(name+" service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.List(w, items, monthMeta(month, len(items)))
}

// MyApproved handles GET /shifts/me/approved?month=
func (h *ShiftHandlerImpl) MyApproved(w http.ResponseWriter, r *http.Request) {
	serveStaffShifts(w, r, "ApprovedForStaff", func(ctx context.Context, p auth.Principal, month shift.Month) ([]shift.StaffShiftResponse, error) {
		return h.shiftService.ApprovedForStaff(ctx, p.UserID, month)
	})
}

// MyPending handles GET /shifts/me/pending?month=
func (h *ShiftHandlerImpl) MyPending(w http.ResponseWriter, r *http.Request) {
	serveStaffShifts(w, r, "PendingForStaff", func(ctx context.Context, p auth.Principal, month shift.Month) ([]shift.StaffShiftResponse, error) {
		return h.shiftService.PendingForStaff(ctx, p.UserID, month)
	})
}

// MyHistory handles GET /shifts/me/history?month= (pending and rejected, tagged by type)
func (h *ShiftHandlerImpl) MyHistory(w http.ResponseWriter, r *http.Request) {
	serveStaffShifts(w, r, "PendingAndRejectedForStaff", func(ctx context.Context, p auth.Principal, month shift.Month) ([]shift.StaffShiftResponse, error) {
		return h.shiftService.PendingAndRejectedForStaff(ctx, p.UserID, month)
	})
}

// AvailableInMyDepartment handles GET /shifts/available/mine?month=
func (h *ShiftHandlerImpl) AvailableInMyDepartment(w http.ResponseWriter, r *http.Request) {
	serveStaffShifts(w, r, "AvailableInMyDepartment", func(ctx context.Context, p auth.Principal, month shift.Month) ([]shift.ShiftResponse, error) {
		return h.shiftService.AvailableInMyDepartment(ctx, p.UserID, p.DepartmentID, month)
	})
}

// AvailableInOtherDepartments handles GET /shifts/available/others?month=
func (h *ShiftHandlerImpl) AvailableInOtherDepartments(w http.ResponseWriter, r *http.Request) {
	serveStaffShifts(w, r, "AvailableInOtherDepartments", func(ctx context.Context, p auth.Principal, month shift.Month) ([]shift.ShiftResponse, error) {
		return h.shiftService.AvailableInOtherDepartments(ctx, p.UserID, p.DepartmentID, month)
	})
}
