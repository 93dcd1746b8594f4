package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/tatanenfresh/backend/app"
	"github.com/tatanenfresh/backend/handlers"
	"github.com/tatanenfresh/backend/internal/observability"
	"github.com/tatanenfresh/backend/models"
	"github.com/tatanenfresh/backend/utils"
)

// SetupRoutes configures all application routes and middleware
func SetupRoutes(deps *app.Dependencies) http.Handler {
	r := chi.NewRouter()

	// Core middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.RequestLogger(deps.Logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: deps.Config.Server.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	checks := map[string]handlers.Check{}
	if deps.DB != nil {
		checks["database"] = handlers.DatabaseCheck(deps.DB.DB)
	}
	health := handlers.NewHealthHandler(checks, deps.Logger)

	auth := handlers.NewAuthHandler(deps.Accounts, deps.Logger)
	admin := handlers.NewAdminHandler(deps.Accounts, deps.Audit, deps.Logger)
	products := handlers.NewProductHandler(deps.Catalog, deps.Logger)
	orders := handlers.NewOrderHandler(deps.Workflow, deps.Logger)
	analytics := handlers.NewAnalyticsHandler(deps.Analytics, deps.Logger)
	weather := handlers.NewWeatherHandler(deps.Weather, deps.Logger)

	requireAuth := deps.AuthMiddleware.RequireAuth
	requireAdmin := deps.AuthMiddleware.RequireRole(models.RoleAdmin)

	// Health check endpoints
	r.Get("/healthz", health.HandleHealth)
	r.Get("/readyz", health.HandleReadiness)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", auth.HandleRegister)
			r.Post("/login", auth.HandleLogin)
			r.With(requireAuth).Get("/profile", auth.HandleProfile)
		})

		r.Route("/products", func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/", products.HandleList)
			r.With(requireAdmin).Post("/", products.HandleCreate)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/", orders.HandleCreate)
			r.Get("/", orders.HandleList)
			r.With(requireAdmin).Put("/{id}/status", orders.HandleUpdateStatus)
		})

		r.Route("/admin", func(r chi.Router) {
			// Dashboard data is public, matching the deployed frontend
			r.Get("/analytics", analytics.HandleAdminAnalytics)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Use(requireAdmin)
				r.Get("/pending-users", admin.HandlePendingUsers)
				r.Put("/users/{id}/approve", admin.HandleApprove)
				r.Delete("/users/{id}/reject", admin.HandleReject)
				r.Get("/audit-logs", admin.HandleAuditLogs)
			})
		})

		r.Get("/client/statistics", analytics.HandleClientStatistics)

		r.Get("/weather", weather.HandleCurrent)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteNotFound(w, "endpoint not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteError(w, http.StatusMethodNotAllowed, "method not allowed", nil)
	})

	return r
}
