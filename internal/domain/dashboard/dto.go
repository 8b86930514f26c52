package dashboard

import "github.com/Samamatip/dh-workflow/internal/domain/shift"

// AdminDashboardResponse backs the admin landing page counters.
type AdminDashboardResponse struct {
	Month                string `json:"month"`
	TotalSlotsUploaded   int    `json:"totalSlotsUploaded"`
	AvailableSlots       int    `json:"availableSlots"`
	TotalRequests        int    `json:"totalRequests"`
	PendingApprovals     int    `json:"pendingApprovals"`
	PendingShiftRequests int    `json:"pendingShiftRequests"`
}

func NewAdminDashboardResponse(m shift.Month, c shift.Counters, pendingRequests int) AdminDashboardResponse {
	return AdminDashboardResponse{
		Month:                m.String(),
		TotalSlotsUploaded:   c.TotalSlotsUploaded,
		AvailableSlots:       c.AvailableSlots,
		TotalRequests:        c.TotalRequests,
		PendingApprovals:     c.PendingApprovals,
		PendingShiftRequests: pendingRequests,
	}
}

// StaffOverviewResponse backs the staff landing page.
type StaffOverviewResponse struct {
	Month                     string  `json:"month"`
	Approved                  int     `json:"approved"`
	ApprovedHours             float64 `json:"approvedHours"`
	Pending                   int     `json:"pending"`
	AvailableMyDepartment     int     `json:"availableMyDepartment"`
	AvailableOtherDepartments int     `json:"availableOtherDepartments"`
}
