package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/pylink-dev/portal/internal/auth"
	"github.com/pylink-dev/portal/internal/config"
	"github.com/pylink-dev/portal/internal/handlers"
	middlewareCustom "github.com/pylink-dev/portal/internal/middleware"
	"github.com/pylink-dev/portal/internal/models"
	"github.com/pylink-dev/portal/internal/repositories"
	"github.com/pylink-dev/portal/internal/routes"
	"github.com/pylink-dev/portal/internal/services"
	pkglogger "github.com/pylink-dev/portal/pkg/logger"
)

const testJWTSecret = "integration-test-secret-0123456789abcdef"

// SentEmail captures a contact notification sent through the mock
type SentEmail struct {
	Contact *models.Contact
	SentAt  time.Time
}

// MockEmailService records notifications instead of calling SES
type MockEmailService struct {
	mu     sync.Mutex
	Emails []SentEmail
}

func (m *MockEmailService) SendContactNotification(ctx context.Context, contact *models.Contact) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Emails = append(m.Emails, SentEmail{Contact: contact, SentAt: time.Now()})
	return nil
}

func (m *MockEmailService) Sent() []SentEmail {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SentEmail, len(m.Emails))
	copy(out, m.Emails)
	return out
}

// TestServer wires the full API against a test database
type TestServer struct {
	Server       *httptest.Server
	TokenManager *auth.TokenManager
	EmailService *MockEmailService
	DB           *TestDB
}

// NewTestServer builds the router exactly as the API binary does, with
// the email service mocked out
func NewTestServer(db *TestDB) *TestServer {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	auditLogger := pkglogger.NewAuditLogger(logger)

	employeeRepo := repositories.NewEmployeeRepository(db.DB)
	projectRepo := repositories.NewProjectRepository(db.DB)
	taskRepo := repositories.NewTaskRepository(db.DB)
	timeEntryRepo := repositories.NewTimeEntryRepository(db.DB)
	contactRepo := repositories.NewContactRepository(db.DB)

	tokenManager := auth.NewTokenManager(testJWTSecret, 15*time.Minute, 24*time.Hour)
	totpManager := auth.NewTOTPManager("Portal Integration")
	rateLimiter := auth.NewLoginRateLimiter(config.RateLimitConfig{
		MaxAttempts: 5,
		Window:      15 * time.Minute,
	}, logger)

	emailService := &MockEmailService{}

	authService := services.NewAuthService(employeeRepo, rateLimiter, tokenManager, totpManager, logger, auditLogger)
	employeeService := services.NewEmployeeService(employeeRepo, logger)
	projectService := services.NewProjectService(projectRepo, logger)
	taskService := services.NewTaskService(taskRepo, projectRepo, logger)
	sessionService := services.NewSessionService(timeEntryRepo, logger, auditLogger)
	analyticsService := services.NewAnalyticsService()
	dashboardService := services.NewDashboardService(timeEntryRepo, taskRepo, projectRepo, employeeRepo, analyticsService, logger)
	contactService := services.NewContactService(contactRepo, emailService, logger)

	h := routes.Handlers{
		Auth:      handlers.NewAuthHandler(authService, nil),
		Sessions:  handlers.NewSessionHandler(sessionService),
		Analytics: handlers.NewAnalyticsHandler(dashboardService),
		Employees: handlers.NewEmployeeHandler(employeeService),
		Projects:  handlers.NewProjectHandler(projectService),
		Tasks:     handlers.NewTaskHandler(taskService),
		Contacts:  handlers.NewContactHandler(contactService),
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middlewareCustom.SecurityHeaders(middlewareCustom.SecurityHeadersConfig{Env: "test"}))
	router.Use(middleware.Recoverer)

	routes.RegisterRoutes(router, h, tokenManager)

	return &TestServer{
		Server:       httptest.NewServer(router),
		TokenManager: tokenManager,
		EmailService: emailService,
		DB:           db,
	}
}

func (s *TestServer) Close() {
	s.Server.Close()
}

// Request performs an HTTP request against the test server. A non-empty
// token is sent as a bearer credential.
func (s *TestServer) Request(method, path, token string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, s.Server.URL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return s.Server.Client().Do(req)
}

// DecodeJSON reads and decodes a response body into dst
func DecodeJSON(resp *http.Response, dst any) error {
	defer resp.Body.Close()
	return json.NewDecoder(resp.Body).Decode(dst)
}
