package shift

import "errors"

var (
	ErrShiftNotFound          = errors.New("shift not found")
	ErrShiftNotPublished      = errors.New("shift is not published")
	ErrShiftInPast            = errors.New("shift date has already passed")
	ErrNoSlotsAvailable       = errors.New("no slots available for this shift")
	ErrAlreadyBooked          = errors.New("staff member already holds a booking on this shift")
	ErrBookingNotFound        = errors.New("booking not found")
	ErrBookingAlreadyReviewed = errors.New("booking already reviewed")
	ErrInvalidMonth           = errors.New("invalid month, expected YYYY-MM")
)
