package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/kintai-works/kintai-backend-go/internal/config"
	appHTTP "github.com/kintai-works/kintai-backend-go/internal/handler/http"
	"github.com/kintai-works/kintai-backend-go/internal/pkg/calendar"
	"github.com/kintai-works/kintai-backend-go/internal/pkg/database"
	"github.com/kintai-works/kintai-backend-go/internal/pkg/jwt"
	"github.com/kintai-works/kintai-backend-go/internal/repository/postgresql"
	attendanceService "github.com/kintai-works/kintai-backend-go/internal/service/attendance"
	authService "github.com/kintai-works/kintai-backend-go/internal/service/auth"
	employeeService "github.com/kintai-works/kintai-backend-go/internal/service/employee"
	leaveService "github.com/kintai-works/kintai-backend-go/internal/service/leave"
	masterService "github.com/kintai-works/kintai-backend-go/internal/service/master"
	payrollService "github.com/kintai-works/kintai-backend-go/internal/service/payroll"
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

	employeeRepo := postgresql.NewEmployeeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	leaveRepo := postgresql.NewLeaveRepository(db)
	allowanceRepo := postgresql.NewAllowanceRepository(db)
	deductionRepo := postgresql.NewDeductionRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)
	clock := calendar.NewSystemClock()

	auth := authService.NewAuthService(db, employeeRepo, jwtService, clock)
	employees := employeeService.NewEmployeeService(db, employeeRepo, clock)
	attendance := attendanceService.NewAttendanceService(db, attendanceRepo, employeeRepo, clock)
	leaves := leaveService.NewLeaveService(db, leaveRepo, employeeRepo, clock)
	masters := masterService.NewMasterService(db, allowanceRepo, deductionRepo, clock)
	payrolls := payrollService.NewPayrollService(db, payrollRepo, employeeRepo, attendanceRepo, allowanceRepo, deductionRepo, clock)

	router := appHTTP.NewRouter(appHTTP.RouterDeps{
		JWTService:        jwtService,
		AuthHandler:       appHTTP.NewAuthHandler(jwtService, auth),
		EmployeeHandler:   appHTTP.NewEmployeeHandler(employees),
		AttendanceHandler: appHTTP.NewAttendanceHandler(attendance),
		LeaveHandler:      appHTTP.NewLeaveHandler(leaves),
		MasterHandler:     appHTTP.NewMasterHandler(masters),
		PayrollHandler:    appHTTP.NewPayrollHandler(payrolls),
		FrontendURL:       cfg.App.FrontendURL,
		Env:               cfg.App.Env,
	})

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	log.Println("Server starting on", addr)
	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatal("Server failed:", err)
	}
}
