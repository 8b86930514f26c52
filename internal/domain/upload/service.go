package upload

import "context"

type UploadService interface {
	Start(ctx context.Context, req StartUploadRequest) (SessionResponse, error)
	Get(ctx context.Context, ownerID string, id string) (SessionResponse, error)
	AssignTimes(ctx context.Context, ownerID string, id string, req AssignTimesRequest) (SessionResponse, error)
	CorrectDraft(ctx context.Context, ownerID string, id string, req CorrectDraftRequest) (SessionResponse, error)
	Review(ctx context.Context, ownerID string, id string, req ReviewDetailsRequest) (SessionResponse, error)
	Submit(ctx context.Context, ownerID string, id string) (SessionResponse, error)
	Retry(ctx context.Context, ownerID string, id string) (SessionResponse, error)
	Discard(ctx context.Context, ownerID string, id string) error
	ExpireIdle(ctx context.Context) (int, error)
}
