package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Samamatip/dh-workflow/internal/config"
	"github.com/Samamatip/dh-workflow/internal/domain/upload"
	appHTTP "github.com/Samamatip/dh-workflow/internal/handler/http"
	"github.com/Samamatip/dh-workflow/internal/pkg/cron"
	"github.com/Samamatip/dh-workflow/internal/pkg/database"
	"github.com/Samamatip/dh-workflow/internal/pkg/email"
	"github.com/Samamatip/dh-workflow/internal/pkg/jwt"
	"github.com/Samamatip/dh-workflow/internal/pkg/sse"
	"github.com/Samamatip/dh-workflow/internal/pkg/storage"
	"github.com/Samamatip/dh-workflow/internal/repository/memory"
	"github.com/Samamatip/dh-workflow/internal/repository/postgresql"
	serviceAuth "github.com/Samamatip/dh-workflow/internal/service/auth"
	dashboardService "github.com/Samamatip/dh-workflow/internal/service/dashboard"
	departmentService "github.com/Samamatip/dh-workflow/internal/service/department"
	notificationService "github.com/Samamatip/dh-workflow/internal/service/notification"
	shiftService "github.com/Samamatip/dh-workflow/internal/service/shift"
	shiftRequestService "github.com/Samamatip/dh-workflow/internal/service/shiftrequest"
	uploadService "github.com/Samamatip/dh-workflow/internal/service/upload"
	"github.com/Samamatip/dh-workflow/migrations"
)

const version = "v1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel()})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolSettings{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	if err := migrations.Apply(ctx, db); err != nil {
		log.Fatal("Failed to apply migrations: ", err)
	}

	transactor := postgresql.NewTransactor(db)
	userRepo := postgresql.NewUserRepository(db)
	departmentRepo := postgresql.NewDepartmentRepository(db)
	shiftRepo := postgresql.NewShiftRepository(db)
	statusEventRepo := postgresql.NewStatusEventRepository(db)
	shiftRequestRepo := postgresql.NewShiftRequestRepository(db)
	uploadSessionStore := memory.NewUploadSessionStore()

	JWTService, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	if err != nil {
		log.Fatal("Failed to initialize JWT service: ", err)
	}

	var fileStorage storage.FileStorage
	switch cfg.Storage.Type {
	case "local":
		fileStorage, err = storage.NewLocalStorage(cfg.Storage.BasePath)
		if err != nil {
			log.Fatal("Failed to initialize local storage:", err)
		}
	default:
		log.Fatal("Unsupported storage types: ", cfg.Storage.Type)
	}

	var emailService email.EmailService
	if cfg.SMTP.Host != "" {
		emailService, err = email.NewEmailService(cfg.SMTP)
		if err != nil {
			log.Fatal("Failed to initialize email service:", err)
		}
	} else {
		slog.Info("SMTP_HOST not set, email notifications disabled")
	}

	hub := sse.NewHub()
	notifier := notificationService.NewNotificationService(hub, userRepo, emailService, notificationService.Config{})
	defer notifier.Stop()

	rules := upload.DefaultAcceptanceRules()
	rules.MaxBytes = cfg.Upload.MaxBytes
	rules.TemplateName = cfg.Upload.TemplateName

	authService := serviceAuth.NewAuthService(userRepo, JWTService)
	departmentSvc := departmentService.NewDepartmentService(departmentRepo)
	shiftSvc := shiftService.NewShiftService(transactor, shiftRepo, statusEventRepo, departmentRepo, notifier)
	shiftRequestSvc := shiftRequestService.NewShiftRequestService(transactor, shiftRequestRepo, shiftRepo, statusEventRepo, departmentRepo, notifier)
	uploadSvc := uploadService.NewUploadService(uploadSessionStore, shiftSvc, fileStorage, rules, cfg.Upload.SessionTTL)
	dashboardSvc := dashboardService.NewDashboardService(shiftSvc, shiftRequestRepo)

	scheduler := cron.NewScheduler(ctx)
	cron.NewMaintenanceJobs(uploadSvc, JWTService).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(
		appHTTP.RouterConfig{
			Env:         cfg.App.Env,
			Version:     version,
			FrontendURL: cfg.App.FrontendURL,
			MetricsPath: cfg.Metrics.Path,
			LogLevel:    cfg.LogLevel(),
		},
		JWTService,
		appHTTP.NewAuthHandler(authService),
		appHTTP.NewDepartmentHandler(departmentSvc),
		appHTTP.NewShiftHandler(shiftSvc),
		appHTTP.NewShiftRequestHandler(shiftRequestSvc),
		appHTTP.NewUploadHandler(uploadSvc, cfg.Upload.MaxBytes),
		appHTTP.NewDashboardHandler(dashboardSvc),
		appHTTP.NewEventHandler(hub, JWTService, authService),
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		fmt.Printf("Server running at http://localhost%s\n", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown error", "error", err)
	}
}
