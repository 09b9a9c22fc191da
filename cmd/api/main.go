package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tempohq/attendance-backend-go/internal/config"
	appHTTP "github.com/tempohq/attendance-backend-go/internal/handler/http"
	"github.com/tempohq/attendance-backend-go/internal/pkg/cron"
	"github.com/tempohq/attendance-backend-go/internal/pkg/database"
	"github.com/tempohq/attendance-backend-go/internal/pkg/jwt"
	"github.com/tempohq/attendance-backend-go/internal/pkg/realtime"
	"github.com/tempohq/attendance-backend-go/internal/repository/postgresql"
	attendanceService "github.com/tempohq/attendance-backend-go/internal/service/attendance"
	serviceAuth "github.com/tempohq/attendance-backend-go/internal/service/auth"
	"github.com/tempohq/attendance-backend-go/internal/service/dispatcher"
	notificationService "github.com/tempohq/attendance-backend-go/internal/service/notification"
	payrollService "github.com/tempohq/attendance-backend-go/internal/service/payroll"
	reportService "github.com/tempohq/attendance-backend-go/internal/service/report"
	"github.com/tempohq/attendance-backend-go/internal/service/scope"
	shiftService "github.com/tempohq/attendance-backend-go/internal/service/shift"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Println("Invalid config:", err)
		os.Exit(1)
	}
	loc := cfg.Location()

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		os.Exit(1)
	}
	defer db.Close()

	employeeRepo := postgresql.NewEmployeeRepository(db)
	shiftRepo := postgresql.NewShiftRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	notificationRepo := postgresql.NewNotificationRepository(db)
	payrollRepo := postgresql.NewPayAdjustmentRepository(db)
	reportRepo := postgresql.NewReportRepository(db)
	transitionLog := postgresql.NewTransitionLog(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.SSEExpiration)

	hub := realtime.NewHub(30*time.Second, 2)
	hub.Start()
	defer hub.Stop()

	guard := scope.NewGuard(employeeRepo)

	notificationSvc := notificationService.NewNotificationService(notificationRepo, hub)
	dispatchSink := dispatcher.NewDispatcher(transitionLog, notificationSvc, payrollRepo, employeeRepo, slog.Default())
	broadcastSink := attendanceService.NewBroadcaster(hub)

	attendanceSvc := attendanceService.NewAttendanceService(
		attendanceRepo,
		shiftRepo,
		employeeRepo,
		guard,
		loc,
		dispatchSink,
		broadcastSink,
	)
	shiftSvc := shiftService.NewShiftService(shiftRepo, employeeRepo, guard, hub)
	authSvc := serviceAuth.NewAuthService(employeeRepo, jwtService)
	payrollSvc := payrollService.NewPayrollService(payrollRepo, guard, loc)
	reportSvc := reportService.NewReportService(reportRepo, guard, loc)

	scheduler := cron.NewScheduler()
	absenceJobs := cron.NewAbsenceJobs(attendanceSvc, attendanceRepo, shiftRepo, employeeRepo, loc)
	scheduler.AddJob("absence-sweep", time.Hour, absenceJobs.SweepYesterday)
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(cfg, jwtService, appHTTP.Handlers{
		Auth:         appHTTP.NewAuthHandler(authSvc),
		Attendance:   appHTTP.NewAttendanceHandler(attendanceSvc),
		Shift:        appHTTP.NewShiftHandler(shiftSvc),
		Notification: appHTTP.NewNotificationHandler(notificationSvc),
		Payroll:      appHTTP.NewPayrollHandler(payrollSvc),
		Report:       appHTTP.NewReportHandler(reportSvc),
		Events:       appHTTP.NewEventsHandler(jwtService, hub),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "port", cfg.App.Port, "env", cfg.App.Env)
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Println("Server error:", err)
			os.Exit(1)
		}
	case <-stop:
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}
}
