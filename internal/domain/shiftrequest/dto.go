package shiftrequest

import (
	"time"

	"github.com/Samamatip/dh-workflow/internal/pkg/validator"
)

const dateLayout = "2006-01-02"

type CreateShiftRequestRequest struct {
	RequestedBy string `json:"-"`
	Department  string `json:"department" validate:"notblank"`
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime   string `json:"startTime" validate:"required,clock"`
	EndTime     string `json:"endTime" validate:"required,clock"`
	Reason      string `json:"reason" validate:"notblank,max=500"`
}

func (r *CreateShiftRequestRequest) Validate() error {
	err := validator.Struct(r)
	if err != nil {
		return err
	}
	if r.StartTime == r.EndTime {
		return validator.ValidationErrors{{Field: "endTime", Message: "endTime must differ from startTime"}}
	}
	return nil
}

type ListQuery struct {
	Status string `json:"status" validate:"omitempty,oneof=pending approved rejected"`
	Month  string `json:"month" validate:"omitempty,yearmonth"`
}

func (q *ListQuery) Validate() error {
	return validator.Struct(q)
}

type ReviewShiftRequestRequest struct {
	ID         string  `json:"-"`
	ReviewedBy string  `json:"-"`
	Status     Status  `json:"status"`
	AdminNotes *string `json:"adminNotes"`
}

func (r *ReviewShiftRequestRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs.Add("id", "id is required")
	}
	switch r.Status {
	case StatusApproved:
	case StatusRejected:
		if r.AdminNotes == nil || validator.IsEmpty(*r.AdminNotes) {
			errs.Add("adminNotes", "adminNotes is required when rejecting a request")
		}
	default:
		errs.Add("status", "status must be one of: approved, rejected")
	}

	return errs.Err()
}

type ShiftRequestResponse struct {
	ID             string  `json:"id"`
	RequestedBy    string  `json:"requestedBy"`
	RequesterName  *string `json:"requesterName,omitempty"`
	Department     string  `json:"department"`
	DepartmentName *string `json:"departmentName,omitempty"`
	Date           string  `json:"date"`
	StartTime      string  `json:"startTime"`
	EndTime        string  `json:"endTime"`
	Reason         string  `json:"reason"`
	Status         Status  `json:"status"`
	AdminNotes     *string `json:"adminNotes,omitempty"`
	ReviewedBy     *string `json:"reviewedBy,omitempty"`
	ReviewedAt     *string `json:"reviewedAt,omitempty"`
	ShiftID        *string `json:"shiftId,omitempty"`
	CreatedAt      string  `json:"createdAt"`
}

func NewShiftRequestResponse(r ShiftRequest) ShiftRequestResponse {
	resp := ShiftRequestResponse{
		ID:             r.ID,
		RequestedBy:    r.RequestedBy,
		RequesterName:  r.RequesterName,
		Department:     r.DepartmentID,
		DepartmentName: r.DepartmentName,
		Date:           r.Date.Format(dateLayout),
		StartTime:      r.StartTime,
		EndTime:        r.EndTime,
		Reason:         r.Reason,
		Status:         r.Status,
		AdminNotes:     r.AdminNotes,
		ReviewedBy:     r.ReviewedBy,
		ShiftID:        r.ShiftID,
		CreatedAt:      r.CreatedAt.Format(time.RFC3339),
	}
	if r.ReviewedAt != nil {
		at := r.ReviewedAt.Format(time.RFC3339)
		resp.ReviewedAt = &at
	}
	return resp
}

func NewShiftRequestResponses(items []ShiftRequest) []ShiftRequestResponse {
	out := make([]ShiftRequestResponse, 0, len(items))
	for _, r := range items {
		out = append(out, NewShiftRequestResponse(r))
	}
	return out
}
