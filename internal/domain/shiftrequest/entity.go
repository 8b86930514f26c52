package shiftrequest

import "time"

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// ShiftRequest is an ad-hoc ("backdoor") request from a staff member for a shift that was never uploaded.
type ShiftRequest struct {
	ID           string
	RequestedBy  string
	DepartmentID string
	Date         time.Time
	StartTime    string
	EndTime      string
	Reason       string
	Status       Status
	AdminNotes   *string
	ReviewedBy   *string
	ReviewedAt   *time.Time
	ShiftID      *string // slot materialized on approval
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Join
	RequesterName  *string
	DepartmentName *string
}

func (r ShiftRequest) IsPending() bool {
	return r.Status == StatusPending
}
