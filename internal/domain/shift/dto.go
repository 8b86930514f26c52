package shift

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Samamatip/dh-workflow/internal/pkg/validator"
)

const dateLayout = "2006-01-02"

// SingleShiftInput is the shift part of a single-shift submission.
type SingleShiftInput struct {
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime string `json:"startTime" validate:"required,clock"`
	EndTime   string `json:"endTime" validate:"required,clock"`
	Quantity  int    `json:"quantity" validate:"gt=0"`
	Published bool   `json:"published"`
}

type CreateShiftRequest struct {
	Department string           `json:"department" validate:"notblank"`
	Shift      SingleShiftInput `json:"shift"`
}

// Validate checks the request against the calendar day today.
func (r *CreateShiftRequest) Validate(today time.Time) error {
	var errs validator.ValidationErrors
	if err := validator.Struct(r); err != nil {
		if !errors.As(err, &errs) {
			return err
		}
	}

	if date, ok := validator.IsValidDate(r.Shift.Date); ok && validator.IsBeforeDay(date, today) {
		errs.Add("shift.date", "shift.date must not be in the past")
	}
	if r.Shift.StartTime != "" && r.Shift.StartTime == r.Shift.EndTime {
		errs.Add("shift.endTime", "shift.endTime must differ from shift.startTime")
	}

	return errs.Err()
}

// BulkUploadRequest carries the valid partition of a bulk upload.
type BulkUploadRequest struct {
	Department string  `json:"department"`
	Published  bool    `json:"published"`
	Shifts     []Draft `json:"shift"`
}

func (r *BulkUploadRequest) Validate(today time.Time) error {
	return ValidateBulk(r.Department, r.Shifts, today)
}

// ValidateBulk is the pre-submit gate for drafts headed to persistence.
func ValidateBulk(department string, drafts []Draft, today time.Time) error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(department) {
		errs.Add("department", "department is required")
	}
	if len(drafts) == 0 {
		errs.Add("shift", "at least one shift with a quantity greater than 0 is required")
	}

	for i, d := range drafts {
		prefix := fmt.Sprintf("shift[%d]", i)

		switch date, ok := validator.IsValidDate(d.Date); {
		case validator.IsEmpty(d.Date):
			errs.Add(prefix+".date", "date is required")
		case !ok:
			errs.Add(prefix+".date", "date must be in yyyy-mm-dd format")
		case validator.IsBeforeDay(date, today):
			errs.Add(prefix+".date", "date must not be in the past")
		}

		startOK := checkClock(&errs, prefix+".startTime", d.StartTime)
		endOK := checkClock(&errs, prefix+".endTime", d.EndTime)
		if startOK && endOK && d.StartTime == d.EndTime {
			errs.Add(prefix+".endTime", "endTime must differ from startTime")
		}

		if d.Quantity <= 0 {
			errs.Add(prefix+".quantity", "quantity must be greater than 0")
		}
	}

	return errs.Err()
}

func checkClock(errs *validator.ValidationErrors, field, value string) bool {
	name := field[strings.LastIndex(field, ".")+1:]
	if validator.IsEmpty(value) {
		errs.Add(field, name+" is required")
		return false
	}
	if !validator.IsValidClock(value) {
		errs.Add(field, name+" must be in HH:MM format")
		return false
	}
	return true
}

type ApproveBookingRequest struct {
	ShiftID    string `json:"shiftId"`
	UserID     string `json:"userId" validate:"notblank"`
	ReviewerID string `json:"-"`
}

func (r *ApproveBookingRequest) Validate() error {
	return validator.Struct(r)
}

type RejectBookingRequest struct {
	ShiftID    string `json:"shiftId"`
	UserID     string `json:"userId" validate:"notblank"`
	ReviewerID string `json:"-"`
	Reason     string `json:"reason" validate:"notblank"`
}

func (r *RejectBookingRequest) Validate() error {
	return validator.Struct(r)
}

type SetPublishedRequest struct {
	Published bool `json:"published"`
}

type ListShiftsQuery struct {
	DepartmentID string
	Month        Month
	Published    *bool
}

type BulkUploadResponse struct {
	Created  int      `json:"created"`
	ShiftIDs []string `json:"shiftIds"`
}

type StatusEventResponse struct {
	ID              string     `json:"id"`
	StaffID         string     `json:"staffId"`
	StaffName       *string    `json:"staffName,omitempty"`
	Status          string     `json:"status"`
	BookedAt        time.Time  `json:"bookedAt"`
	RejectionReason *string    `json:"rejectionReason,omitempty"`
	RejectedAt      *time.Time `json:"rejectedAt,omitempty"`
	ReviewedBy      *string    `json:"reviewedBy,omitempty"`
	ReviewedAt      *time.Time `json:"reviewedAt,omitempty"`
}

type ShiftResponse struct {
	ID             string                `json:"id"`
	DepartmentID   string                `json:"departmentId"`
	DepartmentName *string               `json:"departmentName,omitempty"`
	Date           string                `json:"date"`
	StartTime      string                `json:"startTime"`
	EndTime        string                `json:"endTime"`
	Hours          float64               `json:"hours"`
	Quantity       int                   `json:"quantity"`
	Published      bool                  `json:"published"`
	SlotsTaken     int                   `json:"slotsTaken"`
	SlotsAvailable int                   `json:"slotsAvailable"`
	StatusEvents   []StatusEventResponse `json:"statusEvents"`
}

// StaffShiftResponse is a shift as seen by one staff member; Type is the staff member's category.
type StaffShiftResponse struct {
	ShiftResponse
	Type    string               `json:"type"`
	Booking *StatusEventResponse `json:"booking,omitempty"`
}

type PendingBookingResponse struct {
	Shift   ShiftResponse       `json:"shift"`
	Booking StatusEventResponse `json:"booking"`
}

func NewStatusEventResponse(e StatusEvent) StatusEventResponse {
	return StatusEventResponse{
		ID:              e.ID,
		StaffID:         e.StaffID,
		StaffName:       e.StaffName,
		Status:          string(e.Status),
		BookedAt:        e.BookedAt,
		RejectionReason: e.RejectionReason,
		RejectedAt:      e.RejectedAt,
		ReviewedBy:      e.ReviewedBy,
		ReviewedAt:      e.ReviewedAt,
	}
}

func NewShiftResponse(s Shift) ShiftResponse {
	events := make([]StatusEventResponse, 0, len(s.StatusEvents))
	for _, e := range s.StatusEvents {
		events = append(events, NewStatusEventResponse(e))
	}
	return ShiftResponse{
		ID:             s.ID,
		DepartmentID:   s.DepartmentID,
		DepartmentName: s.DepartmentName,
		Date:           s.Date.Format(dateLayout),
		StartTime:      s.StartTime,
		EndTime:        s.EndTime,
		Hours:          HoursWorked(s.StartTime, s.EndTime),
		Quantity:       s.Quantity,
		Published:      s.Published,
		SlotsTaken:     SlotsTaken(s),
		SlotsAvailable: SlotsAvailable(s),
		StatusEvents:   events,
	}
}

func NewShiftResponses(shifts []Shift) []ShiftResponse {
	result := make([]ShiftResponse, 0, len(shifts))
	for _, s := range shifts {
		result = append(result, NewShiftResponse(s))
	}
	return result
}

func NewStaffShiftResponses(items []StaffShift) []StaffShiftResponse {
	result := make([]StaffShiftResponse, 0, len(items))
	for _, item := range items {
		resp := StaffShiftResponse{
			ShiftResponse: NewShiftResponse(item.Shift),
			Type:          string(item.Category),
		}
		if item.Event != nil {
			booking := NewStatusEventResponse(*item.Event)
			resp.Booking = &booking
		}
		result = append(result, resp)
	}
	return result
}

func NewPendingBookingResponses(items []PendingBooking) []PendingBookingResponse {
	result := make([]PendingBookingResponse, 0, len(items))
	for _, item := range items {
		result = append(result, PendingBookingResponse{
			Shift:   NewShiftResponse(item.Shift),
			Booking: NewStatusEventResponse(item.Event),
		})
	}
	return result
}

// ParseDate parses a yyyy-mm-dd shift date in UTC.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}
