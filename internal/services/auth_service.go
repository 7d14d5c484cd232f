package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/pylink-dev/portal/internal/auth"
	"github.com/pylink-dev/portal/internal/models"
	pkgauth "github.com/pylink-dev/portal/pkg/auth"
	pkglogger "github.com/pylink-dev/portal/pkg/logger"
)

// AuthService handles authentication business logic
type AuthService struct {
	repo        EmployeeRepository
	limiter     *auth.LoginRateLimiter
	tm          *auth.TokenManager
	totp        *auth.TOTPManager
	logger      *slog.Logger
	auditLogger *pkglogger.AuditLogger
}

// NewAuthService creates a new AuthService
func NewAuthService(repo EmployeeRepository, limiter *auth.LoginRateLimiter, tm *auth.TokenManager, totp *auth.TOTPManager, logger *slog.Logger, auditLogger *pkglogger.AuditLogger) *AuthService {
	return &AuthService{
		repo:        repo,
		limiter:     limiter,
		tm:          tm,
		totp:        totp,
		logger:      logger,
		auditLogger: auditLogger,
	}
}

// AuthResponse represents the response from auth operations
type AuthResponse struct {
	AccessToken  string            `json:"access_token"`
	RefreshToken string            `json:"refresh_token"`
	Employee     *EmployeeResponse `json:"employee"`
}

// Login authenticates an employee and returns a token pair.
// Failed attempts count against a per-email sliding window; once the
// window limit is hit, verification is skipped entirely until attempts
// age out or a successful login resets them.
func (s *AuthService) Login(ctx context.Context, email, password, totpCode, ipAddress, userAgent string) (*AuthResponse, error) {
	if email = strings.ToLower(strings.TrimSpace(email)); email == "" {
		s.logger.Warn("login attempt with empty email")
		return nil, models.ErrUnauthorized
	}

	if s.limiter.IsBlocked(email) {
		s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
			EventType:     "login_blocked",
			IPAddress:     ipAddress,
			UserAgent:     userAgent,
			FailureReason: "rate_limit_exceeded",
			Success:       false,
		})
		return nil, models.ErrRateLimitExceeded
	}

	employee, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			// Unknown emails count against the window too
			s.recordLoginFailure(email, "", "invalid_credentials", ipAddress, userAgent)
			return nil, models.ErrUnauthorized
		}
		s.logger.Error("failed to get employee by email", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	if !employee.Active {
		s.logger.Info("login blocked: account disabled", slog.String("employee_id", employee.ID))
		s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
			EventType:     "login_failed",
			EmployeeID:    employee.ID,
			IPAddress:     ipAddress,
			UserAgent:     userAgent,
			FailureReason: "account_disabled",
			Success:       false,
		})
		return nil, models.ErrAccountDisabled
	}

	if err := pkgauth.ComparePassword(employee.PasswordHash, password); err != nil {
		s.recordLoginFailure(email, employee.ID, "invalid_credentials", ipAddress, userAgent)
		return nil, models.ErrUnauthorized
	}

	if employee.TOTPSecret != nil {
		if totpCode == "" {
			return nil, models.ErrMFARequired
		}
		if !s.totp.ValidateCode(*employee.TOTPSecret, totpCode) {
			s.recordLoginFailure(email, employee.ID, "invalid_totp_code", ipAddress, userAgent)
			return nil, models.ErrUnauthorized
		}
	}

	s.limiter.Reset(email)

	accessToken, err := s.tm.GenerateAccessToken(employee)
	if err != nil {
		s.logger.Error("failed to generate access token", slog.String("employee_id", employee.ID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	refreshToken, err := s.tm.GenerateRefreshToken(employee)
	if err != nil {
		s.logger.Error("failed to generate refresh token", slog.String("employee_id", employee.ID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("employee logged in", slog.String("employee_id", employee.ID))
	s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
		EventType:  "login_success",
		EmployeeID: employee.ID,
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		Success:    true,
	})

	return &AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Employee:     employeeModelToResponse(employee),
	}, nil
}

func (s *AuthService) recordLoginFailure(email, employeeID, reason, ipAddress, userAgent string) {
	s.limiter.RecordFailure(email)
	s.logger.Info("login failed",
		slog.String("reason", reason),
		slog.String("email", pkglogger.SanitizedEmail(email)),
	)
	s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
		EventType:     "login_failed",
		EmployeeID:    employeeID,
		IPAddress:     ipAddress,
		UserAgent:     userAgent,
		FailureReason: reason,
		Success:       false,
	})
}

// RemainingBlockMinutes reports how many minutes remain until the
// oldest recorded attempt for the email ages out of the window.
func (s *AuthService) RemainingBlockMinutes(email string) int {
	return s.limiter.RemainingMinutes(strings.ToLower(strings.TrimSpace(email)))
}

// RefreshToken generates a new token pair from a refresh token
func (s *AuthService) RefreshToken(ctx context.Context, refreshTokenString string) (*AuthResponse, error) {
	if refreshTokenString = strings.TrimSpace(refreshTokenString); refreshTokenString == "" {
		return nil, models.ErrUnauthorized
	}

	claims, err := s.tm.ValidateToken(refreshTokenString)
	if err != nil {
		s.logger.Info("refresh token validation failed", slog.Any("error", err))
		return nil, models.ErrUnauthorized
	}

	if claims.Type != "refresh" {
		s.logger.Warn("refresh attempt with non-refresh token", slog.String("employee_id", claims.EmployeeID))
		return nil, models.ErrUnauthorized
	}

	employee, err := s.repo.GetByID(ctx, claims.EmployeeID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Info("employee not found for token refresh", slog.String("employee_id", claims.EmployeeID))
			return nil, models.ErrUnauthorized
		}
		s.logger.Error("failed to get employee for token refresh", slog.String("employee_id", claims.EmployeeID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	if !employee.Active {
		s.logger.Info("token refresh blocked: account disabled", slog.String("employee_id", employee.ID))
		return nil, models.ErrUnauthorized
	}

	accessToken, err := s.tm.GenerateAccessToken(employee)
	if err != nil {
		s.logger.Error("failed to generate access token", slog.String("employee_id", employee.ID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	newRefreshToken, err := s.tm.GenerateRefreshToken(employee)
	if err != nil {
		s.logger.Error("failed to generate refresh token", slog.String("employee_id", employee.ID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("token refreshed", slog.String("employee_id", employee.ID))

	return &AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
		Employee:     employeeModelToResponse(employee),
	}, nil
}

// EnrollTOTP generates a TOTP secret for the employee and stores it.
// The returned enrollment carries the otpauth URL and a QR code for
// the authenticator app.
func (s *AuthService) EnrollTOTP(ctx context.Context, employeeID string) (*auth.TOTPEnrollment, error) {
	employee, err := s.repo.GetByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if employee.TOTPSecret != nil {
		return nil, models.ErrConflict
	}

	enrollment, err := s.totp.GenerateEnrollment(employee.Email)
	if err != nil {
		s.logger.Error("failed to generate totp enrollment", slog.String("employee_id", employeeID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	if err := s.repo.SetTOTPSecret(ctx, employeeID, enrollment.Secret); err != nil {
		s.logger.Error("failed to store totp secret", slog.String("employee_id", employeeID), slog.Any("error", err))
		return nil, err
	}

	s.auditLogger.LogAccountAction("mfa_enrolled", employeeID, "", nil)
	return enrollment, nil
}
