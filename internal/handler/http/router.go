package http

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/cmlabs-hris/practice-kpi-backend/internal/config"
	"github.com/cmlabs-hris/practice-kpi-backend/internal/handler/http/middleware"
	"github.com/cmlabs-hris/practice-kpi-backend/internal/handler/http/response"
	"github.com/cmlabs-hris/practice-kpi-backend/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/httprate"
	"github.com/go-chi/jwtauth/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(app config.AppConfig, JWTService jwt.Service, reportHandler ReportHandler) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(app.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       app.SlogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "practice-kpi"),
		slog.String("version", "v1.0.0"),
		slog.String("env", app.Env),
	)
	slog.SetDefault(logger)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   app.CORSAllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  app.SlogLevel(),
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "Route not found")
	})

	r.Route("/api/v1", func(r chi.Router) {

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(httprate.Limit(
				app.RateLimitPerMinute,
				time.Minute,
				httprate.WithKeyFuncs(httprate.KeyByIP),
				httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
					response.TooManyRequests(w, "Rate limit exceeded")
				}),
			))
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)
			r.Use(middleware.RequireOrganization)

			r.Route("/reports", func(r chi.Router) {
				r.Get("/kpi", reportHandler.GetKPISummary)
				r.Get("/staff-performance", reportHandler.GetStaffPerformance)
				r.Get("/monthly/{metric}", reportHandler.GetMonthlyTrend)

				r.Route("/dimensions/{dimension}", func(r chi.Router) {
					r.Get("/", reportHandler.GetDimensionReport)
					r.Get("/export", reportHandler.ExportDimensionReport)
				})
			})
		})
	})
	return r
}
