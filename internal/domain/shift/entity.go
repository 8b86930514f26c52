package shift

import "time"

type BookingStatus string

const (
	BookingStatusPending  BookingStatus = "pending"
	BookingStatusApproved BookingStatus = "approved"
	BookingStatusRejected BookingStatus = "rejected"
)

func (s BookingStatus) IsValid() bool {
	switch s {
	case BookingStatusPending, BookingStatusApproved, BookingStatusRejected:
		return true
	}
	return false
}

// Shift is a postable overtime slot with a fixed number of seats.
type Shift struct {
	ID           string
	DepartmentID string
	Date         time.Time
	StartTime    string
	EndTime      string
	Quantity     int
	Published    bool
	CreatedBy    *string

	// Booking attempts in insertion order
	StatusEvents []StatusEvent

	CreatedAt time.Time
	UpdatedAt time.Time

	// Relationships
	DepartmentName *string
}

// StatusEvent is one booking attempt by a staff member.
type StatusEvent struct {
	ID              string
	ShiftID         string
	StaffID         string
	Status          BookingStatus
	BookedAt        time.Time
	RejectionReason *string
	RejectedAt      *time.Time
	ReviewedBy      *string
	ReviewedAt      *time.Time

	// Relationships
	StaffName *string
}

// OccurredAt is the moment the event last changed: its rejection time when rejected, otherwise its booking time.
func (e StatusEvent) OccurredAt() time.Time {
	if e.RejectedAt != nil && e.RejectedAt.After(e.BookedAt) {
		return *e.RejectedAt
	}
	return e.BookedAt
}

// Draft is a canonical shift record ready for submission.
type Draft struct {
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Quantity  int    `json:"quantity"`
}
