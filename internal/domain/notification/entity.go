package notification

// Type is the event name delivered on the event stream.
type Type string

const (
	TypeBookingCreated       Type = "booking.created"
	TypeBookingApproved      Type = "booking.approved"
	TypeBookingRejected      Type = "booking.rejected"
	TypeShiftRequestReviewed Type = "shift_request.reviewed"
)

// AllTypes returns every event a client may receive.
func AllTypes() []Type {
	return []Type{
		TypeBookingCreated,
		TypeBookingApproved,
		TypeBookingRejected,
		TypeShiftRequestReviewed,
	}
}

// BookingPayload is the data of booking.* events.
type BookingPayload struct {
	ShiftID         string  `json:"shiftId"`
	EventID         string  `json:"eventId"`
	StaffID         string  `json:"staffId"`
	StaffName       *string `json:"staffName,omitempty"`
	DepartmentID    string  `json:"departmentId"`
	DepartmentName  *string `json:"departmentName,omitempty"`
	Date            string  `json:"date"`
	StartTime       string  `json:"startTime"`
	EndTime         string  `json:"endTime"`
	Status          string  `json:"status"`
	RejectionReason *string `json:"rejectionReason,omitempty"`
}

// ShiftRequestPayload is the data of shift_request.reviewed events.
type ShiftRequestPayload struct {
	RequestID  string  `json:"requestId"`
	Status     string  `json:"status"`
	AdminNotes *string `json:"adminNotes,omitempty"`
	ShiftID    *string `json:"shiftId,omitempty"`
	Date       string  `json:"date"`
	StartTime  string  `json:"startTime"`
	EndTime    string  `json:"endTime"`
}
