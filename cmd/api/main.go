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

	"github.com/shiftdesk/attendance-backend-go/internal/config"
	appHTTP "github.com/shiftdesk/attendance-backend-go/internal/handler/http"
	"github.com/shiftdesk/attendance-backend-go/internal/pkg/cron"
	"github.com/shiftdesk/attendance-backend-go/internal/pkg/database"
	"github.com/shiftdesk/attendance-backend-go/internal/pkg/email"
	"github.com/shiftdesk/attendance-backend-go/internal/pkg/geocode"
	"github.com/shiftdesk/attendance-backend-go/internal/pkg/jwt"
	"github.com/shiftdesk/attendance-backend-go/internal/pkg/oauth"
	"github.com/shiftdesk/attendance-backend-go/internal/repository/postgresql"
	attendanceService "github.com/shiftdesk/attendance-backend-go/internal/service/attendance"
	serviceAuth "github.com/shiftdesk/attendance-backend-go/internal/service/auth"
	employeeService "github.com/shiftdesk/attendance-backend-go/internal/service/employee"
	lateRequestService "github.com/shiftdesk/attendance-backend-go/internal/service/laterequest"
	overrideService "github.com/shiftdesk/attendance-backend-go/internal/service/override"
	reportService "github.com/shiftdesk/attendance-backend-go/internal/service/report"
	taskService "github.com/shiftdesk/attendance-backend-go/internal/service/task"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	userRepo := postgresql.NewUserRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	overrideRepo := postgresql.NewOverrideRepository(db)
	lateRequestRepo := postgresql.NewLateRequestRepository(db)
	taskRepo := postgresql.NewTaskRepository(db)
	refreshTokenRepo := postgresql.NewRefreshTokenRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)
	GoogleService := oauth.NewGoogleService(cfg.OAuth2Google.ClientID, cfg.OAuth2Google.ClientSecret, cfg.OAuth2Google.RedirectURL, cfg.OAuth2Google.Scopes)
	geocodeService := geocode.NewService()
	emailService, err := email.NewEmailService(cfg.SMTP)
	if err != nil {
		log.Fatal("Failed to initialize email service:", err)
	}

	authSvc := serviceAuth.NewAuthService(db, userRepo, refreshTokenRepo, JWTService)
	employeeSvc := employeeService.NewEmployeeService(userRepo, attendanceRepo, emailService, cfg.Attendance)
	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, userRepo, overrideRepo, taskRepo, emailService, cfg.Attendance)
	overrideSvc := overrideService.NewOverrideService(overrideRepo, userRepo)
	lateRequestSvc := lateRequestService.NewLateRequestService(db, lateRequestRepo, userRepo, overrideSvc, emailService, cfg.App)
	taskSvc := taskService.NewTaskService(taskRepo, userRepo)
	reportSvc := reportService.NewReportService(attendanceRepo, userRepo, geocodeService)

	authHandler := appHTTP.NewAuthHandler(JWTService, authSvc, GoogleService, cfg.App.FrontendURL)
	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	employeeHandler := appHTTP.NewEmployeeHandler(employeeSvc)
	overrideHandler := appHTTP.NewOverrideHandler(overrideSvc)
	lateRequestHandler := appHTTP.NewLateRequestHandler(lateRequestSvc)
	taskHandler := appHTTP.NewTaskHandler(taskSvc)
	reportHandler := appHTTP.NewReportHandler(reportSvc)

	router := appHTTP.NewRouter(
		cfg.App,
		JWTService,
		authHandler,
		attendanceHandler,
		employeeHandler,
		overrideHandler,
		lateRequestHandler,
		taskHandler,
		reportHandler,
	)

	scheduler := cron.NewScheduler()
	cron.NewAttendanceJobs(attendanceRepo, userRepo, cfg.Attendance).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.Port),
		Handler: router,
	}

	go func() {
		slog.Info("Server starting", "port", cfg.App.Port, "env", cfg.App.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Forced shutdown", "error", err)
	}
}
