package services

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/pylink-dev/portal/internal/auth"
	"github.com/pylink-dev/portal/internal/config"
	"github.com/pylink-dev/portal/internal/models"
	pkgauth "github.com/pylink-dev/portal/pkg/auth"
	pkglogger "github.com/pylink-dev/portal/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockEmployeeRepository implements EmployeeRepository for testing
type MockEmployeeRepository struct {
	employees       map[string]*models.Employee
	getByEmailCalls int
}

func NewMockEmployeeRepository() *MockEmployeeRepository {
	return &MockEmployeeRepository{employees: make(map[string]*models.Employee)}
}

func (m *MockEmployeeRepository) GetByID(ctx context.Context, id string) (*models.Employee, error) {
	for _, emp := range m.employees {
		if emp.ID == id {
			return emp, nil
		}
	}
	return nil, models.ErrNotFound
}

func (m *MockEmployeeRepository) GetByEmail(ctx context.Context, email string) (*models.Employee, error) {
	m.getByEmailCalls++
	if emp, ok := m.employees[email]; ok {
		return emp, nil
	}
	return nil, models.ErrNotFound
}

func (m *MockEmployeeRepository) List(ctx context.Context) ([]*models.Employee, error) {
	out := make([]*models.Employee, 0, len(m.employees))
	for _, emp := range m.employees {
		out = append(out, emp)
	}
	return out, nil
}

func (m *MockEmployeeRepository) Create(ctx context.Context, emp *models.Employee) (*models.Employee, error) {
	if _, ok := m.employees[emp.Email]; ok {
		return nil, models.ErrConflict
	}
	emp.ID = "emp-" + emp.Email
	emp.CreatedAt = time.Now().UTC()
	emp.UpdatedAt = emp.CreatedAt
	m.employees[emp.Email] = emp
	return emp, nil
}

func (m *MockEmployeeRepository) Update(ctx context.Context, id string, emp *models.Employee) (*models.Employee, error) {
	m.employees[emp.Email] = emp
	return emp, nil
}

func (m *MockEmployeeRepository) SetTOTPSecret(ctx context.Context, id, secret string) error {
	for _, emp := range m.employees {
		if emp.ID == id {
			emp.TOTPSecret = &secret
			return nil
		}
	}
	return models.ErrNotFound
}

func (m *MockEmployeeRepository) Deactivate(ctx context.Context, id string) error {
	for _, emp := range m.employees {
		if emp.ID == id {
			emp.Active = false
			return nil
		}
	}
	return models.ErrNotFound
}

type authFixture struct {
	service *AuthService
	repo    *MockEmployeeRepository
	limiter *auth.LoginRateLimiter
	tm      *auth.TokenManager
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	repo := NewMockEmployeeRepository()
	limiter := auth.NewLoginRateLimiter(config.RateLimitConfig{
		MaxAttempts: 3,
		Window:      15 * time.Minute,
	}, logger)
	tm := auth.NewTokenManager("test-secret-at-least-32-characters!!", 15*time.Minute, 24*time.Hour)
	totp := auth.NewTOTPManager("Portal Test")

	service := NewAuthService(repo, limiter, tm, totp, logger, pkglogger.NewAuditLogger(logger))
	return &authFixture{service: service, repo: repo, limiter: limiter, tm: tm}
}

func (f *authFixture) addEmployee(t *testing.T, email, password string) *models.Employee {
	t.Helper()

	hash, err := pkgauth.HashPassword(password)
	require.NoError(t, err)

	emp := &models.Employee{
		ID:           "emp-" + email,
		Email:        email,
		PasswordHash: hash,
		FirstName:    "Test",
		LastName:     "Employee",
		Role:         models.RoleEmployee,
		Active:       true,
		HiredAt:      time.Now().UTC(),
	}
	f.repo.employees[email] = emp
	return emp
}

func TestAuthService_LoginSuccess(t *testing.T) {
	f := newAuthFixture(t)
	f.addEmployee(t, "alice@pylink.dev", "Sup3rSecret!")

	resp, err := f.service.Login(context.Background(), "Alice@Pylink.Dev ", "Sup3rSecret!", "", "203.0.113.7", "go-test")
	require.NoError(t, err)

	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "alice@pylink.dev", resp.Employee.Email)

	claims, err := f.tm.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "access", claims.Type)
	assert.Equal(t, "emp-alice@pylink.dev", claims.EmployeeID)
}

func TestAuthService_LoginWrongPasswordRecordsFailure(t *testing.T) {
	f := newAuthFixture(t)
	f.addEmployee(t, "alice@pylink.dev", "Sup3rSecret!")

	_, err := f.service.Login(context.Background(), "alice@pylink.dev", "wrong-pass1", "", "203.0.113.7", "go-test")
	assert.ErrorIs(t, err, models.ErrUnauthorized)
	assert.False(t, f.limiter.IsBlocked("alice@pylink.dev"))

	for i := 0; i < 2; i++ {
		_, err = f.service.Login(context.Background(), "alice@pylink.dev", "wrong-pass1", "", "203.0.113.7", "go-test")
		assert.ErrorIs(t, err, models.ErrUnauthorized)
	}
	assert.True(t, f.limiter.IsBlocked("alice@pylink.dev"))
}

func TestAuthService_BlockedLoginSkipsVerification(t *testing.T) {
	f := newAuthFixture(t)
	f.addEmployee(t, "alice@pylink.dev", "Sup3rSecret!")

	for i := 0; i < 3; i++ {
		f.limiter.RecordFailure("alice@pylink.dev")
	}
	f.repo.getByEmailCalls = 0

	// Even the correct password is rejected without touching the repo
	_, err := f.service.Login(context.Background(), "alice@pylink.dev", "Sup3rSecret!", "", "203.0.113.7", "go-test")
	assert.ErrorIs(t, err, models.ErrRateLimitExceeded)
	assert.Equal(t, 0, f.repo.getByEmailCalls)
	assert.Equal(t, 15, f.service.RemainingBlockMinutes("alice@pylink.dev"))
}

func TestAuthService_SuccessResetsAttempts(t *testing.T) {
	f := newAuthFixture(t)
	f.addEmployee(t, "alice@pylink.dev", "Sup3rSecret!")

	for i := 0; i < 2; i++ {
		_, err := f.service.Login(context.Background(), "alice@pylink.dev", "wrong-pass1", "", "203.0.113.7", "go-test")
		assert.ErrorIs(t, err, models.ErrUnauthorized)
	}

	_, err := f.service.Login(context.Background(), "alice@pylink.dev", "Sup3rSecret!", "", "203.0.113.7", "go-test")
	require.NoError(t, err)
	assert.Equal(t, 0, f.service.RemainingBlockMinutes("alice@pylink.dev"))
}

func TestAuthService_UnknownEmailCountsAgainstWindow(t *testing.T) {
	f := newAuthFixture(t)

	for i := 0; i < 3; i++ {
		_, err := f.service.Login(context.Background(), "ghost@pylink.dev", "whatever1", "", "203.0.113.7", "go-test")
		assert.ErrorIs(t, err, models.ErrUnauthorized)
	}

	_, err := f.service.Login(context.Background(), "ghost@pylink.dev", "whatever1", "", "203.0.113.7", "go-test")
	assert.ErrorIs(t, err, models.ErrRateLimitExceeded)
}

func TestAuthService_DisabledAccount(t *testing.T) {
	f := newAuthFixture(t)
	emp := f.addEmployee(t, "alice@pylink.dev", "Sup3rSecret!")
	emp.Active = false

	_, err := f.service.Login(context.Background(), "alice@pylink.dev", "Sup3rSecret!", "", "203.0.113.7", "go-test")
	assert.ErrorIs(t, err, models.ErrAccountDisabled)
}

func TestAuthService_MFARequiredWithoutCode(t *testing.T) {
	f := newAuthFixture(t)
	emp := f.addEmployee(t, "admin@pylink.dev", "Sup3rSecret!")
	secret := "JBSWY3DPEHPK3PXP"
	emp.TOTPSecret = &secret

	_, err := f.service.Login(context.Background(), "admin@pylink.dev", "Sup3rSecret!", "", "203.0.113.7", "go-test")
	assert.ErrorIs(t, err, models.ErrMFARequired)

	// A challenge is not a failed attempt
	assert.Equal(t, 0, f.service.RemainingBlockMinutes("admin@pylink.dev"))
}

func TestAuthService_InvalidTOTPCodeRecordsFailure(t *testing.T) {
	f := newAuthFixture(t)
	emp := f.addEmployee(t, "admin@pylink.dev", "Sup3rSecret!")
	secret := "JBSWY3DPEHPK3PXP"
	emp.TOTPSecret = &secret

	_, err := f.service.Login(context.Background(), "admin@pylink.dev", "Sup3rSecret!", "000000", "203.0.113.7", "go-test")
	assert.ErrorIs(t, err, models.ErrUnauthorized)
	assert.NotEqual(t, 0, f.service.RemainingBlockMinutes("admin@pylink.dev"))
}

func TestAuthService_RefreshToken(t *testing.T) {
	f := newAuthFixture(t)
	f.addEmployee(t, "alice@pylink.dev", "Sup3rSecret!")

	resp, err := f.service.Login(context.Background(), "alice@pylink.dev", "Sup3rSecret!", "", "203.0.113.7", "go-test")
	require.NoError(t, err)

	refreshed, err := f.service.RefreshToken(context.Background(), resp.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.NotEmpty(t, refreshed.RefreshToken)
}

func TestAuthService_RefreshRejectsAccessToken(t *testing.T) {
	f := newAuthFixture(t)
	f.addEmployee(t, "alice@pylink.dev", "Sup3rSecret!")

	resp, err := f.service.Login(context.Background(), "alice@pylink.dev", "Sup3rSecret!", "", "203.0.113.7", "go-test")
	require.NoError(t, err)

	_, err = f.service.RefreshToken(context.Background(), resp.AccessToken)
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestAuthService_EnrollTOTP(t *testing.T) {
	f := newAuthFixture(t)
	emp := f.addEmployee(t, "admin@pylink.dev", "Sup3rSecret!")

	enrollment, err := f.service.EnrollTOTP(context.Background(), emp.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, enrollment.Secret)
	assert.Contains(t, enrollment.OtpauthURL, "otpauth://totp/")
	assert.NotEmpty(t, enrollment.QRCodePNG)

	require.NotNil(t, emp.TOTPSecret)

	// Second enrollment is rejected
	_, err = f.service.EnrollTOTP(context.Background(), emp.ID)
	assert.ErrorIs(t, err, models.ErrConflict)
}
