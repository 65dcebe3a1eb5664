package http

import (
	"log/slog"
	"os"

	"github.com/cmlabs-hris/workforce-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(JWTService jwt.Service, shiftHandler ShiftHandler, attendanceHandler AttendanceHandler) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "workforce-backend"),
		slog.String("version", "v1.0.0"),
		slog.String("env", "development"),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Route("/shifts", func(r chi.Router) {
				r.Get("/", shiftHandler.ListShifts)
				r.Get("/{id}", shiftHandler.GetShift)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Post("/", shiftHandler.CreateShift)
					r.Put("/{id}", shiftHandler.UpdateShift)
					r.Delete("/{id}", shiftHandler.DeleteShift)
				})
			})

			r.Route("/rolling-rules", func(r chi.Router) {
				r.Get("/", shiftHandler.ListRollingRules)
				r.Get("/{id}", shiftHandler.GetRollingRule)
				r.Get("/{id}/plan", shiftHandler.GetRotationPlan)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Post("/", shiftHandler.CreateRollingRule)
					r.Put("/{id}", shiftHandler.UpdateRollingRule)
					r.Delete("/{id}", shiftHandler.DeleteRollingRule)
					r.Put("/{id}/patterns/{order}", shiftHandler.SetPatternSlot)
				})
			})

			r.Get("/employees/{id}/shift", shiftHandler.ResolveEmployeeShift)

			r.Route("/assignments", func(r chi.Router) {
				r.Get("/", shiftHandler.ListAssignments)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Post("/switch", shiftHandler.SwitchAssignments)
					r.Post("/remove", shiftHandler.RemoveAssignments)
				})
			})

			r.Route("/attendance-rule", func(r chi.Router) {
				r.Get("/", attendanceHandler.GetRule)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Put("/", attendanceHandler.UpdateRule)
				})
			})

			r.Route("/attendances", func(r chi.Router) {
				r.Post("/check-in", attendanceHandler.CheckIn)
				r.Post("/check-out", attendanceHandler.CheckOut)
				r.Get("/my", attendanceHandler.GetMyAttendance)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Get("/", attendanceHandler.List)
					r.Get("/{id}", attendanceHandler.Get)
				})
			})
		})
	})
	return r
}
