package shiftrequest

import (
	"context"
	"time"
)

type ListFilter struct {
	RequestedBy *string
	Status      *Status
	From        *time.Time // inclusive
	To          *time.Time // exclusive
}

type ShiftRequestRepository interface {
	Create(ctx context.Context, r ShiftRequest) (ShiftRequest, error)
	GetByID(ctx context.Context, id string) (ShiftRequest, error)
	GetByIDForUpdate(ctx context.Context, id string) (ShiftRequest, error)
	List(ctx context.Context, filter ListFilter) ([]ShiftRequest, error)
	UpdateReview(ctx context.Context, r ShiftRequest) error
	Delete(ctx context.Context, id string) error
	CountPending(ctx context.Context) (int, error)
}
