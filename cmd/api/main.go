package main

import (
	"fmt"
	"net/http"

	"github.com/cmlabs-hris/workforce-backend-go/internal/config"
	appHTTP "github.com/cmlabs-hris/workforce-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/workforce-backend-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/workforce-backend-go/internal/service/attendance"
	shiftService "github.com/cmlabs-hris/workforce-backend-go/internal/service/shift"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	shiftRepo := postgresql.NewShiftRepository(db)
	rollingRuleRepo := postgresql.NewRollingRuleRepository(db)
	assignmentRepo := postgresql.NewAssignmentRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	attendanceRuleRepo := postgresql.NewAttendanceRuleRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	shiftSvc := shiftService.NewShiftService(db, shiftRepo, rollingRuleRepo, assignmentRepo, employeeRepo)
	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, attendanceRuleRepo, shiftSvc, clock.System())

	shiftHandler := appHTTP.NewShiftHandler(shiftSvc)
	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)

	scheduler := cron.NewScheduler()
	cron.NewAttendanceJobs(attendanceRepo, shiftSvc, clock.System()).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(JWTService, shiftHandler, attendanceHandler)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
