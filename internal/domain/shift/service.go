package shift

import "context"

type ShiftService interface {
	CreateShift(ctx context.Context, req CreateShiftRequest, createdBy string) (ShiftResponse, error)
	SubmitBulkUpload(ctx context.Context, req BulkUploadRequest, createdBy string) (BulkUploadResponse, error)
	GetShift(ctx context.Context, id string) (ShiftResponse, error)
	ListShifts(ctx context.Context, query ListShiftsQuery) ([]ShiftResponse, error)
	SetPublished(ctx context.Context, id string, published bool) error

	BookShift(ctx context.Context, shiftID string, staffID string) (StatusEventResponse, error)
	CancelBooking(ctx context.Context, shiftID string, staffID string) error
	ApproveBooking(ctx context.Context, req ApproveBookingRequest) error
	RejectBooking(ctx context.Context, req RejectBookingRequest) error

	// Admin reads
	PendingQueue(ctx context.Context, month Month) ([]PendingBookingResponse, error)
	DashboardCounters(ctx context.Context, month Month) (Counters, error)

	// Staff reads
	ApprovedForStaff(ctx context.Context, staffID string, month Month) ([]StaffShiftResponse, error)
	PendingForStaff(ctx context.Context, staffID string, month Month) ([]StaffShiftResponse, error)
	PendingAndRejectedForStaff(ctx context.Context, staffID string, month Month) ([]StaffShiftResponse, error)
	AvailableInMyDepartment(ctx context.Context, staffID string, departmentID string, month Month) ([]ShiftResponse, error)
	AvailableInOtherDepartments(ctx context.Context, staffID string, departmentID string, month Month) ([]ShiftResponse, error)
}
