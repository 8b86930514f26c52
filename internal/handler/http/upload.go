package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/Samamatip/dh-workflow/internal/domain/upload"
	"github.com/Samamatip/dh-workflow/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

// multipartMemory is how much of a multipart body is kept in memory before spilling to disk.
const multipartMemory = 10 << 20

type UploadHandler interface {
	Start(w http.ResponseWriter, r *http.Request)
	ReplaceFile(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	AssignTimes(w http.ResponseWriter, r *http.Request)
	CorrectDraft(w http.ResponseWriter, r *http.Request)
	Review(w http.ResponseWriter, r *http.Request)
	Submit(w http.ResponseWriter, r *http.Request)
	Retry(w http.ResponseWriter, r *http.Request)
	Discard(w http.ResponseWriter, r *http.Request)
}

type UploadHandlerImpl struct {
	uploadService upload.UploadService
	maxBytes      int64
}

func NewUploadHandler(uploadService upload.UploadService, maxBytes int64) UploadHandler {
	return &UploadHandlerImpl{uploadService: uploadService, maxBytes: maxBytes}
}

// Start handles POST /uploads (multipart field "file") and opens a new wizard session.
func (h *UploadHandlerImpl) Start(w http.ResponseWriter, r *http.Request) {
	h.selectFile(w, r, "")
}

// ReplaceFile handles PUT /uploads/{id}/file, selecting another file in an existing session.
func (h *UploadHandlerImpl) ReplaceFile(w http.ResponseWriter, r *http.Request) {
	h.selectFile(w, r, chi.URLParam(r, "id"))
}

func (h *UploadHandlerImpl) selectFile(w http.ResponseWriter, r *http.Request, sessionID string) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		slog.Error("Upload parse multipart error", "error", err)
		response.BadRequest(w, "Invalid multipart form", nil)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "file is required", nil)
		return
	}
	defer file.Close()

	// Oversized files are still handed over so acceptance can reject them by size.
	content, err := io.ReadAll(io.LimitReader(file, h.maxBytes+1))
	if err != nil {
		slog.Error("Upload read error", "error", err)
		response.BadRequest(w, "Failed to read uploaded file", nil)
		return
	}

	resp, err := h.uploadService.Start(r.Context(), upload.StartUploadRequest{
		SessionID: sessionID,
		OwnerID:   principal.UserID,
		File: upload.FileHandle{
			Name:        header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
		},
		Content: content,
	})
	if err != nil {
		writeUploadError(w, resp, err)
		return
	}

	response.Created(w, "File accepted", resp)
}

// writeUploadError keeps the session id on input rejections so the client can pick another file.
func writeUploadError(w http.ResponseWriter, resp upload.SessionResponse, err error) {
	var rejection *upload.Rejection
	if errors.As(err, &rejection) && resp.Session != nil {
		response.BadRequest(w, rejection.Message, map[string]string{
			"rule":      string(rejection.Rule),
			"sessionId": resp.ID,
		})
		return
	}
	if errors.Is(err, upload.ErrUnreadableFile) && resp.Session != nil {
		response.BadRequest(w, "The uploaded file could not be read, please select another file", map[string]string{
			"sessionId": resp.ID,
		})
		return
	}

	slog.Error("Upload service error", "error", err)
	response.HandleError(w, err)
}

// Get implements UploadHandler.
func (h *UploadHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}

	resp, err := h.uploadService.Get(r.Context(), principal.UserID, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

// AssignTimes handles PUT /uploads/{id}/times with body {times: {label: {startTime, endTime}}}
func (h *UploadHandlerImpl) AssignTimes(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}

	var req upload.AssignTimesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("AssignTimes decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	resp, err := h.uploadService.AssignTimes(r.Context(), principal.UserID, chi.URLParam(r, "id"), req)
	if err != nil {
		writeUploadError(w, resp, err)
		return
	}

	response.Success(w, resp)
}

// CorrectDraft handles PUT /uploads/{id}/drafts with body {row, quantity}
func (h *UploadHandlerImpl) CorrectDraft(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}

	var req upload.CorrectDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CorrectDraft decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	resp, err := h.uploadService.CorrectDraft(r.Context(), principal.UserID, chi.URLParam(r, "id"), req)
	if err != nil {
		writeUploadError(w, resp, err)
		return
	}

	response.Success(w, resp)
}

// Review handles PUT /uploads/{id}/details with body {department, published}
func (h *UploadHandlerImpl) Review(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}

	var req upload.ReviewDetailsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("ReviewUpload decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	resp, err := h.uploadService.Review(r.Context(), principal.UserID, chi.URLParam(r, "id"), req)
	if err != nil {
		writeUploadError(w, resp, err)
		return
	}

	response.Success(w, resp)
}

// Submit implements UploadHandler.
func (h *UploadHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}

	resp, err := h.uploadService.Submit(r.Context(), principal.UserID, chi.URLParam(r, "id"))
	if err != nil {
		writeUploadError(w, resp, err)
		return
	}

	response.SuccessWithMessage(w, "Shifts uploaded successfully", resp)
}

// Retry implements UploadHandler.
func (h *UploadHandlerImpl) Retry(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}

	resp, err := h.uploadService.Retry(r.Context(), principal.UserID, chi.URLParam(r, "id"))
	if err != nil {
		writeUploadError(w, resp, err)
		return
	}

	response.Success(w, resp)
}

// Discard implements UploadHandler.
func (h *UploadHandlerImpl) Discard(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}

	if err := h.uploadService.Discard(r.Context(), principal.UserID, chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Upload discarded", nil)
}
