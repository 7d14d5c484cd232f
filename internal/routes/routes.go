package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/pylink-dev/portal/internal/auth"
	"github.com/pylink-dev/portal/internal/handlers"
	"github.com/pylink-dev/portal/internal/middleware"
	"github.com/pylink-dev/portal/internal/models"
)

// Handlers bundles every HTTP handler the router mounts
type Handlers struct {
	Auth      *handlers.AuthHandler
	Sessions  *handlers.SessionHandler
	Analytics *handlers.AnalyticsHandler
	Employees *handlers.EmployeeHandler
	Projects  *handlers.ProjectHandler
	Tasks     *handlers.TaskHandler
	Contacts  *handlers.ContactHandler
}

// RegisterRoutes registers all application routes
func RegisterRoutes(router chi.Router, h Handlers, tokenManager *auth.TokenManager) {
	publicLimit := middleware.DefaultPublicRateLimit()

	// Public routes - no authentication required
	router.With(middleware.RateLimitByIP(publicLimit)).Post("/auth/login", h.Auth.Login)
	router.With(middleware.RateLimitByIP(publicLimit)).Post("/auth/refresh", h.Auth.Refresh)
	router.With(middleware.RateLimitByIP(publicLimit)).Post("/contact", h.Contacts.Submit)

	// Protected routes - authentication required
	router.Group(func(r chi.Router) {
		r.Use(auth.Middleware(tokenManager))

		r.Post("/auth/logout", h.Auth.Logout)
		r.Post("/auth/mfa/enroll", h.Auth.EnrollMFA)

		r.Get("/me", h.Employees.Me)
		r.Get("/me/timesheet", h.Analytics.MyTimesheet)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimitByEmployee(middleware.DefaultSessionRateLimit()))

			r.Post("/sessions/start", h.Sessions.Start)
			r.Post("/sessions/end", h.Sessions.End)
			r.Put("/sessions/description", h.Sessions.SetDescription)
			r.Get("/sessions/active", h.Sessions.Active)
		})

		r.Get("/projects", h.Projects.List)
		r.Get("/projects/{id}", h.Projects.Get)

		r.Get("/tasks", h.Tasks.List)
		r.Get("/tasks/{id}", h.Tasks.Get)
		r.Patch("/tasks/{id}/status", h.Tasks.UpdateStatus)

		// Admin-only routes
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireRole(models.RoleAdmin))

			r.Get("/dashboard", h.Analytics.Dashboard)

			r.Get("/employees", h.Employees.List)
			r.Post("/employees", h.Employees.Create)
			r.Get("/employees/{id}", h.Employees.Get)
			r.Put("/employees/{id}", h.Employees.Update)
			r.Delete("/employees/{id}", h.Employees.Deactivate)

			r.Post("/projects", h.Projects.Create)
			r.Put("/projects/{id}", h.Projects.Update)

			r.Post("/tasks", h.Tasks.Create)

			r.Get("/contacts", h.Contacts.List)
			r.Patch("/contacts/{id}/status", h.Contacts.UpdateStatus)
		})
	})
}
