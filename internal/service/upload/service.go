package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/Samamatip/dh-workflow/internal/domain/shift"
	"github.com/Samamatip/dh-workflow/internal/domain/upload"
	"github.com/Samamatip/dh-workflow/internal/pkg/metrics"
	"github.com/Samamatip/dh-workflow/internal/pkg/spreadsheet"
	"github.com/Samamatip/dh-workflow/internal/pkg/storage"
	"github.com/google/uuid"
)

type UploadServiceImpl struct {
	store        upload.SessionStore
	shiftService shift.ShiftService
	files        storage.FileStorage
	rules        upload.AcceptanceRules
	sessionTTL   time.Duration
	now          func() time.Time
}

func NewUploadService(
	store upload.SessionStore,
	shiftService shift.ShiftService,
	files storage.FileStorage,
	rules upload.AcceptanceRules,
	sessionTTL time.Duration,
) upload.UploadService {
	return &UploadServiceImpl{
		store:        store,
		shiftService: shiftService,
		files:        files,
		rules:        rules,
		sessionTTL:   sessionTTL,
		now:          time.Now,
	}
}

// update runs a transition on a session owned by ownerID. Sessions of other
// users are reported as missing.
func (s *UploadServiceImpl) update(ctx context.Context, ownerID, id string, fn func(*upload.Session) error) (upload.SessionResponse, error) {
	owned := false
	session, err := s.store.Update(ctx, id, func(sess *upload.Session) error {
		if sess.OwnerID != ownerID {
			return upload.ErrSessionNotFound
		}
		owned = true
		return fn(sess)
	})
	if session == nil || !owned {
		if err == nil {
			err = upload.ErrSessionNotFound
		}
		return upload.SessionResponse{}, err
	}
	return upload.NewSessionResponse(session), err
}

// Start implements upload.UploadService. It runs acceptance, archives the file and
// extracts rows. Rejections come back together with the failed session.
func (s *UploadServiceImpl) Start(ctx context.Context, req upload.StartUploadRequest) (upload.SessionResponse, error) {
	id := req.SessionID
	if id == "" {
		id = uuid.NewString()
		if err := s.store.Create(ctx, upload.NewSession(id, req.OwnerID, s.now())); err != nil {
			return upload.SessionResponse{}, fmt.Errorf("failed to create upload session: %w", err)
		}
	}

	file := req.File
	file.Name = filepath.Base(file.Name)
	file.ContentType = spreadsheet.DetectContentType(file.ContentType, req.Content)
	if file.Size == 0 {
		file.Size = int64(len(req.Content))
	}

	resp, err := s.update(ctx, req.OwnerID, id, func(sess *upload.Session) error {
		return sess.SelectFile(file, s.rules, s.now())
	})
	if err != nil {
		if isRejection(err) {
			metrics.RecordUpload(metrics.ResultRejected)
		}
		return resp, err
	}

	archivePath, err := s.archive(ctx, file, req.Content)
	if err != nil {
		return resp, err
	}

	grid, readErr := readGrid(file, req.Content)
	resp, err = s.update(ctx, req.OwnerID, id, func(sess *upload.Session) error {
		sess.ArchivePath = archivePath
		if readErr != nil {
			if err := sess.FailExtraction(s.now()); err != nil {
				return err
			}
			return fmt.Errorf("%w: %v", upload.ErrUnreadableFile, readErr)
		}
		return sess.LoadRows(grid, s.now())
	})
	switch {
	case err == nil:
		metrics.RecordUpload(metrics.ResultAccepted)
	case isRejection(err), errors.Is(err, upload.ErrUnreadableFile):
		slog.Info("upload rejected", "session_id", id, "file", file.Name, "error", err)
		metrics.RecordUpload(metrics.ResultRejected)
	}
	return resp, err
}

func (s *UploadServiceImpl) archive(ctx context.Context, file upload.FileHandle, content []byte) (string, error) {
	path := fmt.Sprintf("uploads/%s/%s-%s", s.now().Format("2006-01"), uuid.NewString(), file.Name)
	key, err := s.files.Upload(ctx, bytes.NewReader(content), path, file.ContentType)
	if err != nil {
		return "", fmt.Errorf("failed to archive upload: %w", err)
	}
	return key, nil
}

func readGrid(file upload.FileHandle, content []byte) ([][]string, error) {
	format, err := spreadsheet.FormatFor(file.ContentType, file.Name)
	if err != nil {
		return nil, err
	}
	return spreadsheet.ReadFirstSheet(content, format)
}

func isRejection(err error) bool {
	var rejection *upload.Rejection
	return errors.As(err, &rejection)
}

// Get implements upload.UploadService.
func (s *UploadServiceImpl) Get(ctx context.Context, ownerID string, id string) (upload.SessionResponse, error) {
	session, err := s.store.Get(ctx, id)
	if err != nil {
		return upload.SessionResponse{}, err
	}
	if session.OwnerID != ownerID {
		return upload.SessionResponse{}, upload.ErrSessionNotFound
	}
	return upload.NewSessionResponse(session), nil
}

// AssignTimes implements upload.UploadService.
func (s *UploadServiceImpl) AssignTimes(ctx context.Context, ownerID string, id string, req upload.AssignTimesRequest) (upload.SessionResponse, error) {
	if err := req.Validate(); err != nil {
		return upload.SessionResponse{}, err
	}
	return s.update(ctx, ownerID, id, func(sess *upload.Session) error {
		return sess.AssignTimes(req.Times, s.now())
	})
}

// CorrectDraft implements upload.UploadService.
func (s *UploadServiceImpl) CorrectDraft(ctx context.Context, ownerID string, id string, req upload.CorrectDraftRequest) (upload.SessionResponse, error) {
	if err := req.Validate(); err != nil {
		return upload.SessionResponse{}, err
	}
	return s.update(ctx, ownerID, id, func(sess *upload.Session) error {
		return sess.CorrectQuantity(req.Row, req.Quantity, s.now())
	})
}

// Review implements upload.UploadService.
func (s *UploadServiceImpl) Review(ctx context.Context, ownerID string, id string, req upload.ReviewDetailsRequest) (upload.SessionResponse, error) {
	return s.update(ctx, ownerID, id, func(sess *upload.Session) error {
		now := s.now()
		return sess.Review(req.Department, req.Published, now, now)
	})
}

// Submit implements upload.UploadService. The session stays in Submitting while the
// shifts are stored, so a second submit of the same session is refused.
func (s *UploadServiceImpl) Submit(ctx context.Context, ownerID string, id string) (upload.SessionResponse, error) {
	var payload shift.BulkUploadRequest
	resp, err := s.update(ctx, ownerID, id, func(sess *upload.Session) error {
		now := s.now()
		var err error
		payload, err = sess.BeginSubmit(now, now)
		return err
	})
	if err != nil {
		return resp, err
	}

	result, submitErr := s.shiftService.SubmitBulkUpload(ctx, payload, ownerID)

	resp, err = s.update(ctx, ownerID, id, func(sess *upload.Session) error {
		if submitErr != nil {
			return sess.CompleteSubmit(nil, submitErr, s.now())
		}
		return sess.CompleteSubmit(&result, nil, s.now())
	})
	if err != nil {
		return resp, err
	}

	if submitErr != nil {
		slog.Error("bulk upload submission failed", "session_id", id, "error", submitErr)
		metrics.RecordUpload(metrics.ResultFailure)
		return resp, submitErr
	}

	metrics.RecordUpload(metrics.ResultSuccess)
	return resp, nil
}

// Retry implements upload.UploadService.
func (s *UploadServiceImpl) Retry(ctx context.Context, ownerID string, id string) (upload.SessionResponse, error) {
	return s.update(ctx, ownerID, id, func(sess *upload.Session) error {
		return sess.Retry(s.now())
	})
}

// Discard implements upload.UploadService.
func (s *UploadServiceImpl) Discard(ctx context.Context, ownerID string, id string) error {
	if _, err := s.update(ctx, ownerID, id, func(sess *upload.Session) error {
		return sess.Reset(s.now())
	}); err != nil {
		return err
	}
	return s.store.Delete(ctx, id)
}

// ExpireIdle implements upload.UploadService.
func (s *UploadServiceImpl) ExpireIdle(ctx context.Context) (int, error) {
	return s.store.DeleteIdleSince(ctx, s.now().Add(-s.sessionTTL))
}
