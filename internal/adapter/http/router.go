package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/moneyfye/moneyfye/internal/adapter/http/handler"
	"github.com/moneyfye/moneyfye/internal/adapter/http/middleware"
	"github.com/moneyfye/moneyfye/internal/infrastructure/auth"
	"github.com/moneyfye/moneyfye/internal/infrastructure/metrics"
	"github.com/moneyfye/moneyfye/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AccountHandler     *handler.AccountHandler
	TransactionHandler *handler.TransactionHandler
	ReportHandler      *handler.ReportHandler
	AuthHandler        *handler.AuthHandler
	ExportHandler      *handler.ExportHandler
	HealthHandler      *handler.HealthHandler

	Logger  zerolog.Logger
	Metrics *metrics.Metrics

	// Optional pieces. Nil disables the corresponding middleware.
	JWTManager       *auth.JWTManager
	AuthRequired     bool
	IdempotencyStore usecase.IdempotencyStore
	RateLimiter      *middleware.RateLimiter
	CORSOrigins      []string
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery)
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}
	if len(cfg.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.IdempotencyKeyHeader},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Operational endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Auth endpoints issue tokens, so they sit outside the auth wall.
	if cfg.AuthHandler != nil {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", cfg.AuthHandler.Register)
			r.Post("/login", cfg.AuthHandler.Login)
		})
	}

	// Ledger API
	r.Group(func(r chi.Router) {
		if cfg.JWTManager != nil {
			if cfg.AuthRequired {
				r.Use(middleware.AuthMiddleware(cfg.JWTManager))
			} else {
				r.Use(middleware.OptionalAuth(cfg.JWTManager))
			}
		}
		if cfg.IdempotencyStore != nil {
			r.Use(middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore).Wrap)
		}

		r.Route("/accounts", func(r chi.Router) {
			r.Post("/", cfg.AccountHandler.Create)
			r.Get("/", cfg.AccountHandler.List)
			r.Get("/{id}", cfg.AccountHandler.Get)
			r.Patch("/{id}", cfg.AccountHandler.Update)
		})

		r.Route("/transaction", func(r chi.Router) {
			r.Post("/income", cfg.TransactionHandler.Income)
			r.Post("/expense", cfg.TransactionHandler.Expense)
			r.Post("/transfer", cfg.TransactionHandler.Transfer)
			r.Get("/list", cfg.TransactionHandler.List)
			r.Post("/report", cfg.ReportHandler.Create)
			r.Get("/{id}", cfg.TransactionHandler.Get)
			r.Patch("/{id}", cfg.TransactionHandler.Edit)
		})

		r.Get("/export", cfg.ExportHandler.Export)
		r.Delete("/user/data", cfg.ExportHandler.DeleteData)
	})

	return r
}
