// Package api provides the HTTP API for HabitLoop.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/habitloop/habitloop/internal/api/handler"
	"github.com/habitloop/habitloop/internal/api/middleware"
	"github.com/habitloop/habitloop/internal/auth"
	"github.com/habitloop/habitloop/internal/export"
	"github.com/habitloop/habitloop/internal/habit"
	"github.com/habitloop/habitloop/internal/habitlog"
	"github.com/habitloop/habitloop/internal/stats"
	"github.com/habitloop/habitloop/internal/user"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version         string
	BuildTime       string
	Logger          zerolog.Logger
	ServiceName     string
	Metrics         *middleware.Metrics
	AuthService     *auth.Service
	UserService     *user.Service
	HabitService    *habit.Service
	HabitLogService *habitlog.Service
	StatsService    *stats.Service
	Exporter        *export.Exporter
	Readiness       func(r *http.Request) error
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Set default service name if not provided
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "habitloop-api"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)            // Generate/propagate request ID first
	r.Use(middleware.Tracing(serviceName)) // Distributed tracing
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware()) // HTTP metrics
	}
	r.Use(middleware.Logger(cfg.Logger))   // Structured logging
	r.Use(middleware.Recovery(cfg.Logger)) // Panic recovery
	r.Use(chimiddleware.RealIP)            // Real IP extraction
	r.Use(middleware.SecurityHeaders)      // Security headers (HSTS, CSP, etc.)
	r.Use(middleware.RequireTLS)           // TLS enforcement (enabled via REQUIRE_TLS=true)
	r.Use(middleware.ContentTypeJSON)      // JSON content type

	// Initialize handlers
	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.Readiness)
	authHandler := handler.NewAuthHandler(cfg.AuthService)
	userHandler := handler.NewUserHandler(cfg.UserService)
	habitHandler := handler.NewHabitHandler(cfg.HabitService)
	logHandler := handler.NewHabitLogHandler(cfg.HabitLogService)
	statsHandler := handler.NewStatsHandler(cfg.StatsService, cfg.Exporter)

	// Create auth middleware
	authMiddleware := middleware.Auth(cfg.AuthService)

	// Create rate limit middleware for different endpoint categories
	authRateLimit := middleware.RateLimitByIP(middleware.AuthRateLimit)           // 10 req/min
	expensiveRateLimit := middleware.RateLimitByIP(middleware.ExpensiveRateLimit) // 30 req/min

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		// Auth endpoints (public) - strict rate limiting
		r.Route("/auth", func(r chi.Router) {
			r.Use(authRateLimit) // 10 requests per minute per IP
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.RefreshToken)
			r.Post("/logout", authHandler.Logout)
			// logout-all requires authentication
			r.With(authMiddleware).Post("/logout-all", authHandler.LogoutAll)
		})

		// Ops endpoints (public)
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
		})

		// User endpoints (authenticated) - user-based rate limiting
		r.Route("/users", func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(middleware.RateLimitByUser(middleware.StandardRateLimit)) // 100 req/min per user
			r.Get("/", userHandler.ListUsers)
			r.Route("/{userId}", func(r chi.Router) {
				r.Get("/", userHandler.GetUser)
				r.Put("/", userHandler.UpdateUser)
				r.Delete("/", userHandler.DeleteUser)
			})
		})

		// Habit endpoints (authenticated)
		r.Route("/habits", func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(middleware.RateLimitByUser(middleware.StandardRateLimit))
			r.Get("/", habitHandler.ListHabits)
			r.Post("/", habitHandler.CreateHabit)
			r.Route("/{habitId}", func(r chi.Router) {
				r.Get("/", habitHandler.GetHabit)
				r.Put("/", habitHandler.UpdateHabit)
				r.Delete("/", habitHandler.DeleteHabit)
			})
		})

		// Habit log endpoints (authenticated)
		r.Route("/logs", func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(middleware.RateLimitByUser(middleware.StandardRateLimit))
			r.Get("/", logHandler.ListLogs)
			r.Post("/", logHandler.CreateLog)
			r.Route("/{logId}", func(r chi.Router) {
				r.Get("/", logHandler.GetLog)
				r.Put("/", logHandler.UpdateLog)
				r.Delete("/", logHandler.DeleteLog)
			})
		})

		// Stats endpoints (authenticated). Aggregations scan full
		// collections, so they get the stricter per-user limit.
		r.Route("/stats", func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(middleware.RateLimitByUser(middleware.ExpensiveRateLimit))
			r.Get("/overview", statsHandler.GetOverview)
			r.Get("/categories", statsHandler.GetCategoryStats)
			r.Get("/top-habits", statsHandler.GetTopHabits)
			r.Get("/users-with-habits", statsHandler.GetUsersWithHabits)
			r.Get("/habits/{habitId}", statsHandler.GetHabitStats)
			r.Route("/users/{userId}", func(r chi.Router) {
				r.Get("/", statsHandler.GetUserStats)
				r.Get("/trends", statsHandler.GetTrends)
				r.Get("/period", statsHandler.GetPeriodStats)
				r.Get("/top-completed", statsHandler.GetTopCompletedHabits)
				r.Get("/moods", statsHandler.GetMoodTrends)
				r.Get("/monthly", statsHandler.GetMonthlyStats)
			})
			r.With(expensiveRateLimit).Post("/export", statsHandler.ExportStats)
		})
	})

	return r
}
