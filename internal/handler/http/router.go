package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/kintai-works/kintai-backend-go/internal/handler/http/middleware"
	"github.com/kintai-works/kintai-backend-go/internal/pkg/jwt"
)

type RouterDeps struct {
	JWTService        jwt.Service
	AuthHandler       AuthHandler
	EmployeeHandler   EmployeeHandler
	AttendanceHandler AttendanceHandler
	LeaveHandler      LeaveHandler
	MasterHandler     MasterHandler
	PayrollHandler    PayrollHandler
	FrontendURL       string
	Env               string
}

func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "kintai-backend"),
		slog.String("env", deps.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{deps.FrontendURL},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/healthz"))

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", deps.AuthHandler.Login)
			r.Post("/refresh", deps.AuthHandler.RefreshToken)
			r.Post("/logout", deps.AuthHandler.Logout)
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(deps.JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(deps.JWTService.JWTAuth()))

			r.Route("/employees", func(r chi.Router) {
				r.Get("/me", deps.EmployeeHandler.GetMe)
				r.Get("/{id}", deps.EmployeeHandler.Get)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Get("/", deps.EmployeeHandler.List)
					r.Post("/", deps.EmployeeHandler.Create)
					r.Put("/{id}", deps.EmployeeHandler.Update)
					r.Post("/{id}/deactivate", deps.EmployeeHandler.Deactivate)
				})
			})

			r.Route("/attendances", func(r chi.Router) {
				r.Post("/clock-in", deps.AttendanceHandler.ClockIn)
				r.Post("/break-start", deps.AttendanceHandler.BreakStart)
				r.Post("/break-end", deps.AttendanceHandler.BreakEnd)
				r.Post("/clock-out", deps.AttendanceHandler.ClockOut)
				r.Get("/my", deps.AttendanceHandler.ListMine)
				r.Get("/summary", deps.AttendanceHandler.Summary)
				r.Get("/{id}", deps.AttendanceHandler.Get)
				r.Put("/{id}/memo", deps.AttendanceHandler.SetMemo)
				r.Put("/{id}", deps.AttendanceHandler.Correct)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Get("/", deps.AttendanceHandler.List)
				})
			})

			r.Route("/leaves", func(r chi.Router) {
				r.Post("/", deps.LeaveHandler.Create)
				r.Get("/my", deps.LeaveHandler.ListMine)
				r.Get("/balance", deps.LeaveHandler.Balance)
				r.Get("/{id}", deps.LeaveHandler.Get)
				r.Put("/{id}", deps.LeaveHandler.Update)
				r.Delete("/{id}", deps.LeaveHandler.Delete)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Get("/", deps.LeaveHandler.List)
					r.Post("/{id}/approve", deps.LeaveHandler.Approve)
					r.Post("/{id}/reject", deps.LeaveHandler.Reject)
					r.Post("/grants", deps.LeaveHandler.CreateGrant)
				})
			})

			r.Route("/masters", func(r chi.Router) {
				r.Get("/allowances", deps.MasterHandler.ListAllowances)
				r.Get("/deductions", deps.MasterHandler.ListDeductions)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Post("/allowances", deps.MasterHandler.CreateAllowance)
					r.Put("/allowances/{id}", deps.MasterHandler.UpdateAllowance)
					r.Post("/deductions", deps.MasterHandler.CreateDeduction)
					r.Put("/deductions/{id}", deps.MasterHandler.UpdateDeduction)
				})
			})

			r.Route("/payrolls", func(r chi.Router) {
				r.Get("/my", deps.PayrollHandler.ListMine)
				r.Get("/{id}", deps.PayrollHandler.Get)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Get("/", deps.PayrollHandler.List)
					r.Post("/salary", deps.PayrollHandler.CreateSalary)
					r.Post("/bonus", deps.PayrollHandler.CreateBonus)
					r.Put("/{id}", deps.PayrollHandler.Update)
					r.Post("/{id}/regenerate", deps.PayrollHandler.Regenerate)
					r.Delete("/{id}", deps.PayrollHandler.Delete)
				})
			})
		})
	})

	return r
}
