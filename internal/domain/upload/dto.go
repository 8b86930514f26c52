package upload

import "github.com/Samamatip/dh-workflow/internal/pkg/validator"

// StartUploadRequest carries a freshly uploaded file. An empty SessionID opens a new session.
type StartUploadRequest struct {
	SessionID string
	OwnerID   string
	File      FileHandle
	Content   []byte
}

type AssignTimesRequest struct {
	Times TimeMap `json:"times"`
}

func (r *AssignTimesRequest) Validate() error {
	if len(r.Times) == 0 {
		return validator.ValidationErrors{{Field: "times", Message: "times are required"}}
	}
	return nil
}

type ReviewDetailsRequest struct {
	Department string `json:"department"`
	Published  bool   `json:"published"`
}

type CorrectDraftRequest struct {
	Row      int `json:"row" validate:"gt=0"`
	Quantity int `json:"quantity" validate:"gt=0"`
}

func (r *CorrectDraftRequest) Validate() error {
	return validator.Struct(r)
}

// SessionResponse is the view of a session returned to the admin.
type SessionResponse struct {
	*Session
	ValidCount    int `json:"validCount"`
	ExcludedCount int `json:"excludedCount"`
}

func NewSessionResponse(s *Session) SessionResponse {
	resp := SessionResponse{Session: s}
	if s.Partition != nil {
		resp.ValidCount = len(s.Partition.Valid)
		resp.ExcludedCount = len(s.Partition.Excluded)
	}
	return resp
}
