package notification

import (
	"context"

	"github.com/Samamatip/dh-workflow/internal/domain/shift"
	"github.com/Samamatip/dh-workflow/internal/domain/shiftrequest"
)

// Notifier tells the people involved in a booking or request about changes.
// Delivery is best effort: failures are logged, never returned to the caller.
type Notifier interface {
	// BookingCreated reaches every connected admin.
	BookingCreated(ctx context.Context, s shift.Shift, e shift.StatusEvent)
	// BookingReviewed reaches the staff member who booked.
	BookingReviewed(ctx context.Context, s shift.Shift, e shift.StatusEvent)
	ShiftRequestReviewed(ctx context.Context, r shiftrequest.ShiftRequest)

	// Stop drains queued emails and stops the workers.
	Stop()
}
