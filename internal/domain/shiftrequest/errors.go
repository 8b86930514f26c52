package shiftrequest

import "errors"

var (
	ErrShiftRequestNotFound         = errors.New("shift request not found")
	ErrShiftRequestAlreadyProcessed = errors.New("shift request already processed")
	ErrShiftRequestNotOwned         = errors.New("shift request belongs to another user")
)
