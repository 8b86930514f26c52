package http

import (
	"net/http"

	"github.com/Samamatip/dh-workflow/internal/domain/dashboard"
	"github.com/Samamatip/dh-workflow/internal/handler/http/response"
)

type DashboardHandler interface {
	// AdminStats returns the admin counters for a month
	AdminStats(w http.ResponseWriter, r *http.Request)
	// StaffOverview returns the caller's approved, pending and available counts
	StaffOverview(w http.ResponseWriter, r *http.Request)
}

type dashboardHandlerImpl struct {
	dashboardService dashboard.DashboardService
}

func NewDashboardHandler(dashboardService dashboard.DashboardService) DashboardHandler {
	return &dashboardHandlerImpl{dashboardService: dashboardService}
}

// AdminStats handles GET /dashboard/admin
func (h *dashboardHandlerImpl) AdminStats(w http.ResponseWriter, r *http.Request) {
	month := r.URL.Query().Get("month") // format: YYYY-MM, default: current month

	result, err := h.dashboardService.AdminStats(r.Context(), month)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// StaffOverview handles GET /dashboard/staff
func (h *dashboardHandlerImpl) StaffOverview(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}
	month := r.URL.Query().Get("month")

	result, err := h.dashboardService.StaffOverview(r.Context(), principal, month)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
