package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-payroll-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(JWTService jwt.Service, payrollHandler PayrollHandler, eventsHandler EventsHandler, logger *slog.Logger, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		// Requires authentication
		r.Group(func(r chi.Router) {
			// EventSource cannot set headers, so the stream may pass ?token=
			r.Use(jwtauth.Verify(JWTService.JWTAuth(), jwtauth.TokenFromHeader, tokenFromQuery))
			r.Use(middleware.AuthRequired(JWTService))

			r.Route("/payroll", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionPayrollPreview)).Post("/preview", payrollHandler.Preview)
				r.With(middleware.RequirePermission(user.PermissionPayrollCommit)).Post("/run", payrollHandler.RunPeriod)
				r.With(middleware.RequirePermission(user.PermissionPayrollViewAll)).Get("/summary", payrollHandler.Summary)
				r.With(middleware.RequirePermission(user.PermissionPayrollViewOwn)).Get("/events", eventsHandler.Stream)

				r.Route("/records", func(r chi.Router) {
					r.With(middleware.RequirePermission(user.PermissionPayrollViewOwn)).Get("/", payrollHandler.ListRecords)
					r.With(middleware.RequirePermission(user.PermissionPayrollCommit)).Post("/", payrollHandler.Commit)
					r.With(middleware.RequirePermission(user.PermissionPayrollExport)).Get("/export", payrollHandler.Export)

					r.Route("/{id}", func(r chi.Router) {
						r.Use(middleware.RequirePermission(user.PermissionPayrollViewOwn))
						r.Get("/", payrollHandler.GetRecord)
						r.Get("/payslip", payrollHandler.Payslip)
						r.With(middleware.RequirePermission(user.PermissionPayrollUpdateStatus)).Patch("/status", payrollHandler.UpdateStatus)
					})
				})
			})
		})
	})
	return r
}

func tokenFromQuery(r *http.Request) string {
	return r.URL.Query().Get("token")
}

// NewLogger builds the JSON access logger in the ECS shape httplog expects.
func NewLogger(app, version, env string, level slog.Level) *slog.Logger {
	logFormat := httplog.SchemaECS.Concise(env != "development")
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", app),
		slog.String("version", version),
		slog.String("env", env),
	)
}
