package http

import (
	"log/slog"
	"os"

	"github.com/Samamatip/dh-workflow/internal/domain/user"
	"github.com/Samamatip/dh-workflow/internal/handler/http/middleware"
	"github.com/Samamatip/dh-workflow/internal/pkg/jwt"
	"github.com/Samamatip/dh-workflow/internal/pkg/metrics"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// RouterConfig carries the app settings the router needs.
type RouterConfig struct {
	Env         string
	Version     string
	FrontendURL string
	MetricsPath string
	LogLevel    slog.Level
}

func NewRouter(
	cfg RouterConfig,
	JWTService jwt.Service,
	authHandler AuthHandler,
	departmentHandler DepartmentHandler,
	shiftHandler ShiftHandler,
	shiftRequestHandler ShiftRequestHandler,
	uploadHandler UploadHandler,
	dashboardHandler DashboardHandler,
	eventHandler EventHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "dh-workflow"),
		slog.String("version", cfg.Version),
		slog.String("env", cfg.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.FrontendURL},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  cfg.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Handle(cfg.MetricsPath, metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {

		r.Post("/auth/login", authHandler.Login)

		// SSE authenticates with a short-lived query token
		r.Get("/events", eventHandler.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService))

			r.Route("/auth", func(r chi.Router) {
				r.Post("/logout", authHandler.Logout)
				r.Get("/me", authHandler.Me)
				r.Post("/sse-token", authHandler.SSEToken)
			})

			r.Route("/departments", func(r chi.Router) {
				r.Get("/", departmentHandler.List)
				r.With(middleware.RequirePermission(user.PermissionDepartmentManage)).Post("/", departmentHandler.Create)
			})

			r.Route("/shifts", func(r chi.Router) {
				// Admin shift management
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionShiftManage))
					r.Get("/", shiftHandler.List)
					r.Post("/", shiftHandler.Create)
					r.Post("/bulk", shiftHandler.SubmitBulk)
					r.Patch("/{id}/publish", shiftHandler.SetPublished)
				})

				// Booking review
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionBookingReview))
					r.Get("/pending", shiftHandler.PendingQueue)
					r.Post("/{id}/approve", shiftHandler.Approve)
					r.Post("/{id}/reject", shiftHandler.Reject)
				})

				// Staff
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionShiftBook))
					r.Get("/me/approved", shiftHandler.MyApproved)
					r.Get("/me/pending", shiftHandler.MyPending)
					r.Get("/me/history", shiftHandler.MyHistory)
					r.Get("/available/mine", shiftHandler.AvailableInMyDepartment)
					r.Get("/available/others", shiftHandler.AvailableInOtherDepartments)
					r.Post("/{id}/bookings", shiftHandler.Book)
					r.Delete("/{id}/bookings", shiftHandler.CancelBooking)
				})

				r.With(middleware.RequirePermission(user.PermissionShiftView)).Get("/{id}", shiftHandler.Get)
			})

			r.Route("/uploads", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionShiftManage))
				r.Post("/", uploadHandler.Start)
				r.Get("/{id}", uploadHandler.Get)
				r.Put("/{id}/file", uploadHandler.ReplaceFile)
				r.Put("/{id}/times", uploadHandler.AssignTimes)
				r.Put("/{id}/drafts", uploadHandler.CorrectDraft)
				r.Put("/{id}/details", uploadHandler.Review)
				r.Post("/{id}/submit", uploadHandler.Submit)
				r.Post("/{id}/retry", uploadHandler.Retry)
				r.Delete("/{id}", uploadHandler.Discard)
			})

			r.Route("/shift-requests", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionRequestCreate))
					r.Post("/", shiftRequestHandler.Create)
					r.Get("/me", shiftRequestHandler.ListMine)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionRequestReview))
					r.Get("/", shiftRequestHandler.List)
					r.Put("/{id}/review", shiftRequestHandler.Review)
				})

				// Ownership is checked by the service
				r.Delete("/{id}", shiftRequestHandler.Delete)
			})

			r.Route("/dashboard", func(r chi.Router) {
				r.With(middleware.RequireAdmin).Get("/admin", dashboardHandler.AdminStats)
				r.With(middleware.RequireStaff).Get("/staff", dashboardHandler.StaffOverview)
			})
		})
	})
	return r
}
