package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/Samamatip/dh-workflow/internal/domain/shiftrequest"
	"github.com/Samamatip/dh-workflow/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type ShiftRequestHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	ListMine(w http.ResponseWriter, r *http.Request)
	Review(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type ShiftRequestHandlerImpl struct {
	shiftRequestService shiftrequest.ShiftRequestService
}

func NewShiftRequestHandler(shiftRequestService shiftrequest.ShiftRequestService) ShiftRequestHandler {
	return &ShiftRequestHandlerImpl{shiftRequestService: shiftRequestService}
}

func listQueryFrom(r *http.Request) shiftrequest.ListQuery {
	return shiftrequest.ListQuery{
		Status: r.URL.Query().Get("status"),
		Month:  r.URL.Query().Get("month"),
	}
}

func requestListMeta(query shiftrequest.ListQuery, count int) response.Meta {
	return response.Meta{Month: query.Month, Status: query.Status, Count: count}
}

// Create implements ShiftRequestHandler.
func (h *ShiftRequestHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}

	var req shiftrequest.CreateShiftRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CreateShiftRequest decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.RequestedBy = principal.UserID

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	created, err := h.shiftRequestService.Create(r.Context(), req)
	if err != nil {
		slog.Error("CreateShiftRequest service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Shift request submitted", created)
}

// List handles GET /shift-requests?status=&month= for admins
func (h *ShiftRequestHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	query := listQueryFrom(r)
	requests, err := h.shiftRequestService.List(r.Context(), query)
	if err != nil {
		slog.Error("ListShiftRequests service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.List(w, requests, requestListMeta(query, len(requests)))
}

// ListMine handles GET /shift-requests/me?status=
func (h *ShiftRequestHandlerImpl) ListMine(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}

	query := listQueryFrom(r)
	requests, err := h.shiftRequestService.ListByUser(r.Context(), principal.UserID, query)
	if err != nil {
		slog.Error("ListMyShiftRequests service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.List(w, requests, requestListMeta(query, len(requests)))
}

// Review handles PUT /shift-requests/{id}/review with body {status, adminNotes}
func (h *ShiftRequestHandlerImpl) Review(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}

	var req shiftrequest.ReviewShiftRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("ReviewShiftRequest decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")
	req.ReviewedBy = principal.UserID

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	reviewed, err := h.shiftRequestService.Review(r.Context(), req)
	if err != nil {
		slog.Error("ReviewShiftRequest service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Shift request "+string(reviewed.Status), reviewed)
}

// Delete implements ShiftRequestHandler.
func (h *ShiftRequestHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}

	if err := h.shiftRequestService.Delete(r.Context(), chi.URLParam(r, "id"), principal.UserID, principal.IsAdmin()); err != nil {
		slog.Error("DeleteShiftRequest service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Shift request deleted", nil)
}
