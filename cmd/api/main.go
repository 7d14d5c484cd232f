package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/pylink-dev/portal/internal/auth"
	"github.com/pylink-dev/portal/internal/background"
	"github.com/pylink-dev/portal/internal/config"
	"github.com/pylink-dev/portal/internal/database"
	"github.com/pylink-dev/portal/internal/handlers"
	middlewareCustom "github.com/pylink-dev/portal/internal/middleware"
	"github.com/pylink-dev/portal/internal/models"
	"github.com/pylink-dev/portal/internal/observability"
	"github.com/pylink-dev/portal/internal/repositories"
	"github.com/pylink-dev/portal/internal/routes"
	"github.com/pylink-dev/portal/internal/services"
	pkgauth "github.com/pylink-dev/portal/pkg/auth"
	pkghttp "github.com/pylink-dev/portal/pkg/http"
	pkglogger "github.com/pylink-dev/portal/pkg/logger"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("configuration loaded", slog.String("env", cfg.Server.Env))

	// Error reporting (disabled when no DSN is configured)
	if err := observability.InitSentry(cfg.Sentry.DSN, cfg.Server.Env); err != nil {
		logger.Error("failed to initialize sentry", slog.Any("error", err))
		os.Exit(1)
	}
	defer observability.FlushSentry()

	// Initialize database
	db, err := database.NewConnection(&cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	// Initialize repositories
	employeeRepo := repositories.NewEmployeeRepository(db)
	projectRepo := repositories.NewProjectRepository(db)
	taskRepo := repositories.NewTaskRepository(db)
	timeEntryRepo := repositories.NewTimeEntryRepository(db)
	contactRepo := repositories.NewContactRepository(db)

	// Initialize auth primitives
	tokenManager := auth.NewTokenManager(
		cfg.Auth.JWTSecret,
		cfg.Auth.AccessTokenExpiry,
		cfg.Auth.RefreshTokenExpiry,
	)
	totpManager := auth.NewTOTPManager(cfg.Auth.MFAIssuer)
	rateLimiter := auth.NewLoginRateLimiter(cfg.RateLimit, logger)
	auditLogger := pkglogger.NewAuditLogger(logger)

	// AWS SES notifications for contact form submissions
	var emailService services.EmailService
	if cfg.Email.Enabled {
		sesService, err := services.NewAWSSESEmailService(
			cfg.Email.AWSRegion,
			cfg.Email.FromAddress,
			cfg.Email.ContactRecipient,
			logger,
		)
		if err != nil {
			logger.Error("failed to initialize email service", slog.Any("error", err))
			os.Exit(1)
		}
		emailService = sesService
	} else {
		logger.Info("email notifications disabled")
	}

	// Initialize services
	authService := services.NewAuthService(employeeRepo, rateLimiter, tokenManager, totpManager, logger, auditLogger)
	employeeService := services.NewEmployeeService(employeeRepo, logger)
	projectService := services.NewProjectService(projectRepo, logger)
	taskService := services.NewTaskService(taskRepo, projectRepo, logger)
	sessionService := services.NewSessionService(timeEntryRepo, logger, auditLogger)
	analyticsService := services.NewAnalyticsService()
	dashboardService := services.NewDashboardService(timeEntryRepo, taskRepo, projectRepo, employeeRepo, analyticsService, logger)
	contactService := services.NewContactService(contactRepo, emailService, logger)

	// Background reaper for abandoned sessions and stale attempt records
	reaper := background.NewReaper(
		sessionService,
		rateLimiter,
		logger,
		cfg.Session.ReaperInterval,
		cfg.Session.MaxDuration,
	)

	// Initialize handlers
	ipConfig := &pkghttp.IPConfig{TrustedProxies: cfg.Server.TrustedProxies}
	h := routes.Handlers{
		Auth:      handlers.NewAuthHandler(authService, ipConfig),
		Sessions:  handlers.NewSessionHandler(sessionService),
		Analytics: handlers.NewAnalyticsHandler(dashboardService),
		Employees: handlers.NewEmployeeHandler(employeeService),
		Projects:  handlers.NewProjectHandler(projectService),
		Tasks:     handlers.NewTaskHandler(taskService),
		Contacts:  handlers.NewContactHandler(contactService),
	}

	// Bootstrap first admin account if configured
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := ensureAdminEmployee(ctx, employeeRepo, logger); err != nil {
		logger.Error("failed to ensure admin employee", slog.Any("error", err))
	}
	cancel()

	// Setup router
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middlewareCustom.SecurityHeaders(middlewareCustom.SecurityHeadersConfig{Env: cfg.Server.Env}))
	router.Use(middlewareCustom.CORS(middlewareCustom.NewCORSConfig(cfg.Server.AllowedOrigins)))
	router.Use(middlewareCustom.SecureLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	// Register routes
	routes.RegisterRoutes(router, h, tokenManager)

	// Health check with database
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		w.Header().Set("Content-Type", "application/json")
		if err := db.HealthCheck(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unhealthy","database":"down"}`))
			return
		}

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy","database":"up"}`))
	})

	// Create server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start background reaper
	reaperCtx, reaperCancel := context.WithCancel(context.Background())
	defer reaperCancel()

	go reaper.Start(reaperCtx)

	// Start server
	go func() {
		logger.Info("starting server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutdown signal received")

	reaperCancel()
	reaper.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("server stopped gracefully")
}

// ensureAdminEmployee creates the first admin account if ADMIN_EMAIL and
// ADMIN_PASSWORD are set
func ensureAdminEmployee(ctx context.Context, repo *repositories.EmployeeRepository, logger *slog.Logger) error {
	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")

	if adminEmail == "" || adminPassword == "" {
		logger.Info("no ADMIN_EMAIL or ADMIN_PASSWORD set, skipping admin creation")
		return nil
	}

	_, err := repo.GetByEmail(ctx, adminEmail)
	if err == nil {
		logger.Info("admin employee already exists")
		return nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return fmt.Errorf("failed to check if admin exists: %w", err)
	}

	hashedPassword, err := pkgauth.HashPassword(adminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := &models.Employee{
		Email:        adminEmail,
		PasswordHash: hashedPassword,
		FirstName:    "Admin",
		LastName:     "Account",
		Role:         models.RoleAdmin,
		Active:       true,
		HiredAt:      time.Now().UTC(),
	}

	if _, err := repo.Create(ctx, admin); err != nil {
		return fmt.Errorf("failed to create admin employee: %w", err)
	}

	logger.Info("admin employee created")
	return nil
}
