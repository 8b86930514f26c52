package shift

import "context"

// ListFilter narrows shift listings. Month is required; nil fields are ignored.
type ListFilter struct {
	Month               Month
	DepartmentID        *string
	ExcludeDepartmentID *string
	Published           *bool
	// Only shifts the staff member has at least one booking event on
	StaffID *string
}

type ShiftRepository interface {
	Create(ctx context.Context, s Shift) (Shift, error)
	CreateBatch(ctx context.Context, shifts []Shift) ([]string, error)
	GetByID(ctx context.Context, id string) (Shift, error)
	// GetByIDForUpdate locks the shift row until the surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, id string) (Shift, error)
	List(ctx context.Context, filter ListFilter) ([]Shift, error)
	SetPublished(ctx context.Context, id string, published bool) error
}

type StatusEventRepository interface {
	Create(ctx context.Context, e StatusEvent) (StatusEvent, error)
	UpdateReview(ctx context.Context, e StatusEvent) error
	Delete(ctx context.Context, id string) error
}
