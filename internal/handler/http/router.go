package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"

	"github.com/shiftdesk/attendance-backend-go/internal/config"
	"github.com/shiftdesk/attendance-backend-go/internal/handler/http/middleware"
	"github.com/shiftdesk/attendance-backend-go/internal/pkg/jwt"
)

func NewRouter(
	appCfg config.AppConfig,
	JWTService jwt.Service,
	authHandler AuthHandler,
	attendanceHandler AttendanceHandler,
	employeeHandler EmployeeHandler,
	overrideHandler OverrideHandler,
	lateRequestHandler LateRequestHandler,
	taskHandler TaskHandler,
	reportHandler ReportHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "shiftdesk-attendance"),
		slog.String("version", "v1.0.0"),
		slog.String("env", appCfg.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{appCfg.FrontendURL},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
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

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.RefreshToken)
			r.Post("/logout", authHandler.Logout)
			r.Route("/oauth", func(r chi.Router) {
				r.Get("/google", authHandler.LoginWithGoogle)
				r.Route("/callback", func(r chi.Router) {
					r.Get("/google", authHandler.OAuthCallbackGoogle)
				})
			})
		})

		// Decision links arrive from the admin's inbox without a session;
		// the per-request token is the credential.
		r.Route("/late-requests/{id}", func(r chi.Router) {
			r.Get("/approve", lateRequestHandler.Approve)
			r.Get("/reject", lateRequestHandler.Reject)
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Route("/attendance", func(r chi.Router) {
				r.Post("/check-in", attendanceHandler.CheckIn)
				r.Post("/check-out", attendanceHandler.CheckOut)
				r.Get("/status", attendanceHandler.Status)
				r.Get("/history", attendanceHandler.History)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Get("/", attendanceHandler.List)
					r.Get("/{id}", attendanceHandler.Get)
					r.Put("/{id}", attendanceHandler.Update)
					r.Delete("/{id}", attendanceHandler.Delete)
				})
			})

			r.Route("/employees", func(r chi.Router) {
				r.Use(middleware.AdminOnly)
				r.Get("/", employeeHandler.List)
				r.Post("/", employeeHandler.Create)
				r.Get("/{id}", employeeHandler.Get)
				r.Put("/{id}", employeeHandler.Update)
				r.Delete("/{id}", employeeHandler.Delete)
			})

			r.Route("/overrides", func(r chi.Router) {
				r.Use(middleware.AdminOnly)
				r.Get("/", overrideHandler.List)
				r.Post("/", overrideHandler.Upsert)
				r.Delete("/{id}", overrideHandler.Delete)
			})

			r.Route("/late-requests", func(r chi.Router) {
				r.Post("/", lateRequestHandler.Create)
				r.Get("/", lateRequestHandler.List)
				r.Get("/{id}", lateRequestHandler.Get)
			})

			r.Route("/tasks", func(r chi.Router) {
				r.Get("/", taskHandler.List)
				r.Get("/{id}", taskHandler.Get)
				r.Put("/{id}", taskHandler.Update)

				// Managers and admins assign and remove tasks
				r.Group(func(r chi.Router) {
					r.Use(middleware.ManagerOnly)
					r.Post("/", taskHandler.Create)
					r.Delete("/{id}", taskHandler.Delete)
				})
			})

			r.Route("/reports", func(r chi.Router) {
				r.Use(middleware.AdminOnly)
				r.Get("/stats", reportHandler.Stats)
				r.Get("/analytics", reportHandler.Analytics)
				r.Get("/export", reportHandler.ExportCSV)
			})
		})
	})
	return r
}
