package shiftrequest

import "context"

type ShiftRequestService interface {
	Create(ctx context.Context, req CreateShiftRequestRequest) (ShiftRequestResponse, error)
	List(ctx context.Context, query ListQuery) ([]ShiftRequestResponse, error)
	ListByUser(ctx context.Context, userID string, query ListQuery) ([]ShiftRequestResponse, error)
	Review(ctx context.Context, req ReviewShiftRequestRequest) (ShiftRequestResponse, error)
	Delete(ctx context.Context, id string, requesterID string, isAdmin bool) error
}
