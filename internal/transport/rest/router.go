package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"

	"github.com/hosana-alex/leave-management/internal/account"
	"github.com/hosana-alex/leave-management/internal/analytics"
	"github.com/hosana-alex/leave-management/internal/auth"
	"github.com/hosana-alex/leave-management/internal/balance"
	"github.com/hosana-alex/leave-management/internal/leave"
	"github.com/hosana-alex/leave-management/internal/notification"
	"github.com/hosana-alex/leave-management/internal/transport/middleware"
	"github.com/hosana-alex/leave-management/internal/transport/swagger"
)

// Handlers bundles every HTTP handler the router mounts.
type Handlers struct {
	Auth         *auth.Handler
	Account      *account.Handler
	Leave        *leave.Handler
	Balance      *balance.Handler
	Notification *notification.Handler
	Analytics    *analytics.Handler
}

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, h Handlers, rbac *auth.RBACAuthorization, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	// Apply global middleware
	router.Use(middleware.CORS)
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	// Swagger UI route at root
	router.Handle("/swagger/*", swagger.Handler())

	// Mount API under /api/v1 to match OpenAPI basePath
	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		// Public routes
		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/register", h.Account.Register)
			sr.Post("/login", h.Auth.Login)
			sr.Post("/refresh", h.Auth.RefreshToken)
			sr.Post("/logout", h.Auth.Logout)
		})

		// Protected routes
		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			pr.Put("/auth/force-change-password", h.Auth.ForceChangePassword)

			pr.Route("/user", func(ur chi.Router) {
				ur.Get("/profile", h.Account.GetProfile)
				ur.Put("/profile", h.Account.UpdateProfile)
				ur.Get("/leave-balance", h.Balance.GetMyBalance)
			})

			pr.Route("/leave-applications", func(lr chi.Router) {
				lr.Post("/", h.Leave.Submit)
				lr.Get("/", h.Leave.ListApplications)
				lr.Get("/check-overlap", h.Leave.CheckOverlap)
				lr.Get("/calendar", h.Leave.Calendar)
				lr.Get("/{id}", h.Leave.GetApplication)
				lr.With(rbac.RequireApproveLeave()).Put("/{id}/approve", h.Leave.ApproveApplication)
				lr.With(rbac.RequireRejectLeave()).Put("/{id}/reject", h.Leave.RejectApplication)
			})

			pr.Route("/notifications", func(nr chi.Router) {
				nr.Get("/", h.Notification.List)
				nr.Get("/unread-count", h.Notification.UnreadCount)
				nr.Put("/mark-all-read", h.Notification.MarkAllRead)
				nr.Put("/{id}/read", h.Notification.MarkRead)
				nr.Delete("/{id}", h.Notification.Delete)
			})

			pr.Get("/dashboard/stats", h.Analytics.EmployeeDashboard)
			pr.With(rbac.RequireViewAnalytics()).Get("/analytics/dashboard", h.Analytics.Dashboard)

			// Admin routes, guarded per capability
			pr.Route("/admin", func(ar chi.Router) {
				ar.Group(func(mr chi.Router) {
					mr.Use(rbac.RequireManageUsers())
					mr.Get("/users", h.Account.ListUsers)
					mr.Put("/users/{id}/approve", h.Account.ApproveUser)
					mr.Put("/users/{id}/reject", h.Account.RejectUser)
					mr.Put("/users/{id}/deactivate", h.Account.DeactivateUser)
					mr.Put("/users/{id}/activate", h.Account.ReactivateUser)
					mr.Post("/users/{id}/reset-password", h.Account.ResetUserPassword)
					mr.Post("/users/bulk-approve", h.Account.BulkApproveUsers)
					mr.Post("/users/bulk-reject", h.Account.BulkRejectUsers)
					mr.Post("/users/bulk-deactivate", h.Account.BulkDeactivateUsers)
				})

				ar.Group(func(mr chi.Router) {
					mr.Use(rbac.RequireManageBalances())
					mr.Get("/users/{id}/leave-balance", h.Balance.GetUserBalance)
					mr.Put("/users/{id}/leave-balance", h.Balance.AdjustUserBalance)
					mr.Post("/users/{id}/leave-balance/reset", h.Balance.ResetUserBalance)
				})

				ar.Group(func(mr chi.Router) {
					mr.Use(rbac.RequireViewAllApplications())
					mr.Get("/leave-applications", h.Leave.ListApplications)
				})

				ar.Group(func(mr chi.Router) {
					mr.Use(rbac.RequireApproveLeave())
					mr.Put("/leave-applications/{id}/status", h.Leave.DecideApplication)
					mr.Post("/leave-applications/bulk-approve", h.Leave.BulkApproveApplications)
				})

				ar.Group(func(mr chi.Router) {
					mr.Use(rbac.RequireRejectLeave())
					mr.Post("/leave-applications/bulk-reject", h.Leave.BulkRejectApplications)
				})
			})
		})
	})
}
