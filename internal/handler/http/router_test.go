package http

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Samamatip/dh-workflow/internal/domain/auth"
	"github.com/Samamatip/dh-workflow/internal/domain/dashboard"
	"github.com/Samamatip/dh-workflow/internal/domain/department"
	"github.com/Samamatip/dh-workflow/internal/domain/shift"
	"github.com/Samamatip/dh-workflow/internal/domain/shiftrequest"
	"github.com/Samamatip/dh-workflow/internal/domain/upload"
	"github.com/Samamatip/dh-workflow/internal/domain/user"
	"github.com/Samamatip/dh-workflow/internal/handler/http/response"
	"github.com/Samamatip/dh-workflow/internal/pkg/jwt"
	"github.com/Samamatip/dh-workflow/internal/pkg/sse"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const handlerTestSecret = "test-secret-key-for-jwt"

type fakeAuthService struct {
	users      map[string]auth.UserInfo
	loggedOut  []string
	loginResp  auth.LoginResponse
	loginError error
}

func (f *fakeAuthService) Login(ctx context.Context, req auth.LoginRequest) (auth.LoginResponse, error) {
	return f.loginResp, f.loginError
}

func (f *fakeAuthService) Logout(ctx context.Context, accessToken string) error {
	f.loggedOut = append(f.loggedOut, accessToken)
	return nil
}

func (f *fakeAuthService) Me(ctx context.Context, userID string) (auth.UserInfo, error) {
	info, ok := f.users[userID]
	if !ok {
		return auth.UserInfo{}, user.ErrUserNotFound
	}
	return info, nil
}

func (f *fakeAuthService) IssueSSEToken(ctx context.Context, userID string) (auth.SSETokenResponse, error) {
	return auth.SSETokenResponse{Token: "sse-" + userID, ExpiresIn: 300}, nil
}

type fakeShiftService struct {
	shift.ShiftService

	bookErr  error
	approved []shift.ApproveBookingRequest
	listed   []shift.ListShiftsQuery
}

func (f *fakeShiftService) BookShift(ctx context.Context, shiftID string, staffID string) (shift.StatusEventResponse, error) {
	if f.bookErr != nil {
		return shift.StatusEventResponse{}, f.bookErr
	}
	return shift.StatusEventResponse{ID: "event-1", StaffID: staffID, Status: "pending"}, nil
}

func (f *fakeShiftService) ApproveBooking(ctx context.Context, req shift.ApproveBookingRequest) error {
	f.approved = append(f.approved, req)
	return nil
}

func (f *fakeShiftService) ApprovedForStaff(ctx context.Context, staffID string, month shift.Month) ([]shift.StaffShiftResponse, error) {
	return []shift.StaffShiftResponse{{}, {}}, nil
}

func (f *fakeShiftService) ListShifts(ctx context.Context, query shift.ListShiftsQuery) ([]shift.ShiftResponse, error) {
	f.listed = append(f.listed, query)
	return []shift.ShiftResponse{}, nil
}

type fakeUploadService struct {
	upload.UploadService

	started []upload.StartUploadRequest
	startFn func(req upload.StartUploadRequest) (upload.SessionResponse, error)
}

func (f *fakeUploadService) Start(ctx context.Context, req upload.StartUploadRequest) (upload.SessionResponse, error) {
	f.started = append(f.started, req)
	return f.startFn(req)
}

type fakeShiftRequestService struct {
	shiftrequest.ShiftRequestService

	deleted []string
	delErr  error
}

func (f *fakeShiftRequestService) Delete(ctx context.Context, id string, requesterID string, isAdmin bool) error {
	f.deleted = append(f.deleted, id+":"+requesterID)
	return f.delErr
}

type fakeDepartmentService struct {
	department.DepartmentService
}

func (f *fakeDepartmentService) ListDepartments(ctx context.Context) ([]department.DepartmentResponse, error) {
	return []department.DepartmentResponse{{ID: "dept-a", Name: "Ward A"}}, nil
}

type fakeDashboardService struct {
	dashboard.DashboardService
}

type testServer struct {
	router        *chi.Mux
	jwt           jwt.Service
	hub           *sse.Hub
	auth          *fakeAuthService
	shifts        *fakeShiftService
	uploads       *fakeUploadService
	shiftRequests *fakeShiftRequestService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	jwtSvc, err := jwt.NewJWTService(handlerTestSecret, "1h")
	require.NoError(t, err)

	authSvc := &fakeAuthService{users: map[string]auth.UserInfo{
		"admin-1": {ID: "admin-1", Role: string(user.RoleAdmin)},
		"staff-1": {ID: "staff-1", Role: string(user.RoleStaff)},
	}}

	ts := &testServer{
		jwt:           jwtSvc,
		hub:           sse.NewHub(),
		auth:          authSvc,
		shifts:        &fakeShiftService{},
		uploads:       &fakeUploadService{},
		shiftRequests: &fakeShiftRequestService{},
	}

	ts.router = NewRouter(
		RouterConfig{Env: "test", Version: "test", FrontendURL: "http://localhost:3000", MetricsPath: "/metrics"},
		jwtSvc,
		NewAuthHandler(ts.auth),
		NewDepartmentHandler(&fakeDepartmentService{}),
		NewShiftHandler(ts.shifts),
		NewShiftRequestHandler(ts.shiftRequests),
		NewUploadHandler(ts.uploads, upload.DefaultMaxBytes),
		NewDashboardHandler(&fakeDashboardService{}),
		NewEventHandler(ts.hub, jwtSvc, ts.auth),
	)
	return ts
}

func (ts *testServer) token(t *testing.T, id string, role user.Role) string {
	t.Helper()
	dept := "dept-a"
	token, _, err := ts.jwt.GenerateAccessToken(user.User{ID: id, Email: id + "@example.com", Role: role, DepartmentID: &dept})
	require.NoError(t, err)
	return token
}

func (ts *testServer) do(req *http.Request, token string) (*httptest.ResponseRecorder, response.Response) {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)

	var body response.Response
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	return rec, body
}

func TestLogin_ValidationError(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"not-an-email"}`))
	rec, body := ts.do(req, "")

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.NotNil(t, body.Error)
	assert.Contains(t, body.Error.Details, "email")
	assert.Contains(t, body.Error.Details, "password")
}

func TestLogin_InvalidCredentials(t *testing.T) {
	ts := newTestServer(t)
	ts.auth.loginError = auth.ErrInvalidCredentials

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"a@b.co","password":"nope"}`))
	rec, body := ts.do(req, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, body.Success)
}

func TestProtectedRoute_RequiresToken(t *testing.T) {
	ts := newTestServer(t)

	rec, _ := ts.do(httptest.NewRequest(http.MethodGet, "/api/v1/departments", nil), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, body := ts.do(httptest.NewRequest(http.MethodGet, "/api/v1/departments", nil), ts.token(t, "staff-1", user.RoleStaff))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, body.Success)
}

func TestProtectedRoute_RevokedToken(t *testing.T) {
	ts := newTestServer(t)
	token := ts.token(t, "staff-1", user.RoleStaff)
	ts.jwt.RevokeToken(token)

	rec, _ := ts.do(httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil), token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRoleGuards(t *testing.T) {
	ts := newTestServer(t)
	staff := ts.token(t, "staff-1", user.RoleStaff)
	admin := ts.token(t, "admin-1", user.RoleAdmin)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		want   int
	}{
		{"staff cannot list admin shifts", http.MethodGet, "/api/v1/shifts?month=2030-05", staff, http.StatusForbidden},
		{"admin cannot book", http.MethodPost, "/api/v1/shifts/shift-1/bookings", admin, http.StatusForbidden},
		{"staff cannot open admin dashboard", http.MethodGet, "/api/v1/dashboard/admin", staff, http.StatusForbidden},
		{"admin lists shifts", http.MethodGet, "/api/v1/shifts?month=2030-05", admin, http.StatusOK},
		{"staff books", http.MethodPost, "/api/v1/shifts/shift-1/bookings", staff, http.StatusCreated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _ := ts.do(httptest.NewRequest(tt.method, tt.path, nil), tt.token)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestListShifts_ParsesQuery(t *testing.T) {
	ts := newTestServer(t)

	rec, body := ts.do(httptest.NewRequest(http.MethodGet, "/api/v1/shifts?department=dept-b&month=2030-05&published=false", nil), ts.token(t, "admin-1", user.RoleAdmin))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, body.Meta)
	assert.Equal(t, "2030-05", body.Meta.Month)
	assert.Equal(t, 0, body.Meta.Count)

	require.Len(t, ts.shifts.listed, 1)
	q := ts.shifts.listed[0]
	assert.Equal(t, "dept-b", q.DepartmentID)
	assert.Equal(t, shift.Month{Year: 2030, Month: time.May}, q.Month)
	require.NotNil(t, q.Published)
	assert.False(t, *q.Published)

	rec, _ = ts.do(httptest.NewRequest(http.MethodGet, "/api/v1/shifts?month=May", nil), ts.token(t, "admin-1", user.RoleAdmin))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStaffShiftList_CarriesMonthAndCount(t *testing.T) {
	ts := newTestServer(t)

	rec, body := ts.do(httptest.NewRequest(http.MethodGet, "/api/v1/shifts/me/approved?month=2030-06", nil), ts.token(t, "staff-1", user.RoleStaff))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, body.Meta)
	assert.Equal(t, "2030-06", body.Meta.Month)
	assert.Equal(t, 2, body.Meta.Count)
}

func TestBookShift_MapsDomainErrors(t *testing.T) {
	ts := newTestServer(t)
	staff := ts.token(t, "staff-1", user.RoleStaff)

	tests := []struct {
		err  error
		want int
	}{
		{shift.ErrNoSlotsAvailable, http.StatusConflict},
		{shift.ErrAlreadyBooked, http.StatusConflict},
		{shift.ErrShiftNotFound, http.StatusNotFound},
		{shift.ErrShiftInPast, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			ts.shifts.bookErr = tt.err
			rec, _ := ts.do(httptest.NewRequest(http.MethodPost, "/api/v1/shifts/shift-1/bookings", nil), staff)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestApproveBooking_FillsIDsFromRouteAndCaller(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/shifts/shift-9/approve", strings.NewReader(`{"userId":"staff-1"}`))
	rec, _ := ts.do(req, ts.token(t, "admin-1", user.RoleAdmin))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, ts.shifts.approved, 1)
	assert.Equal(t, shift.ApproveBookingRequest{ShiftID: "shift-9", UserID: "staff-1", ReviewerID: "admin-1"}, ts.shifts.approved[0])

	req = httptest.NewRequest(http.MethodPost, "/api/v1/shifts/shift-9/approve", strings.NewReader(`{}`))
	rec, _ = ts.do(req, ts.token(t, "admin-1", user.RoleAdmin))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestDeleteShiftRequest_NotOwned(t *testing.T) {
	ts := newTestServer(t)
	ts.shiftRequests.delErr = shiftrequest.ErrShiftRequestNotOwned

	rec, _ := ts.do(httptest.NewRequest(http.MethodDelete, "/api/v1/shift-requests/req-1", nil), ts.token(t, "staff-1", user.RoleStaff))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, []string{"req-1:staff-1"}, ts.shiftRequests.deleted)
}

func multipartUpload(t *testing.T, filename string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUploadStart_RejectionKeepsSession(t *testing.T) {
	ts := newTestServer(t)
	ts.uploads.startFn = func(req upload.StartUploadRequest) (upload.SessionResponse, error) {
		return upload.NewSessionResponse(upload.NewSession("sess-1", req.OwnerID, time.Now())),
			&upload.Rejection{Rule: upload.RuleTemplate, Message: "please use the shift upload template"}
	}

	rec, body := ts.do(multipartUpload(t, "roster.xlsx", []byte("PK")), ts.token(t, "admin-1", user.RoleAdmin))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, body.Error)
	assert.Equal(t, "please use the shift upload template", body.Error.Message)
	assert.Equal(t, map[string]string{"rule": "template", "sessionId": "sess-1"}, body.Error.Details)

	require.Len(t, ts.uploads.started, 1)
	started := ts.uploads.started[0]
	assert.Equal(t, "admin-1", started.OwnerID)
	assert.Empty(t, started.SessionID)
	assert.Equal(t, "roster.xlsx", started.File.Name)
	assert.Equal(t, int64(2), started.File.Size)
	assert.Equal(t, []byte("PK"), started.Content)
}

func TestUploadStart_Accepted(t *testing.T) {
	ts := newTestServer(t)
	ts.uploads.startFn = func(req upload.StartUploadRequest) (upload.SessionResponse, error) {
		return upload.NewSessionResponse(upload.NewSession("sess-2", req.OwnerID, time.Now())), nil
	}

	rec, body := ts.do(multipartUpload(t, "dh_shift_Upload_template.xlsx", []byte("PK")), ts.token(t, "admin-1", user.RoleAdmin))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, body.Success)

	rec, _ = ts.do(multipartUpload(t, "dh_shift_Upload_template.xlsx", []byte("PK")), ts.token(t, "staff-1", user.RoleStaff))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestEventStream_DeliversRoleEvents(t *testing.T) {
	ts := newTestServer(t)
	server := httptest.NewServer(ts.router)
	defer server.Close()

	sseToken, _, err := ts.jwt.GenerateSSEToken("admin-1")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"/api/v1/events?token="+sseToken, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "event: connected\n", line)
	_, _ = reader.ReadString('\n') // data
	_, _ = reader.ReadString('\n') // blank

	delivered := ts.hub.Publish(sse.RoleTopic(string(user.RoleAdmin)), sse.Event{
		Event: "booking.created",
		Data:  map[string]string{"shiftId": "shift-1"},
	})
	require.Equal(t, 1, delivered)

	line, err = reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "event: booking.created\n", line)
	line, err = reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "data: {\"shiftId\":\"shift-1\"}\n", line)
}

func TestEventStream_RejectsAccessToken(t *testing.T) {
	ts := newTestServer(t)

	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/events?token="+ts.token(t, "admin-1", user.RoleAdmin), nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
