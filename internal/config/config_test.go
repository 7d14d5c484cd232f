package config

import (
	"os"
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	os.Setenv("JWT_SECRET", "test-secret-32-characters-long!")
	os.Setenv("DB_PASSWORD", "test")
	t.Cleanup(os.Clearenv)
}

func TestLoad_RateLimitDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() = %v, want nil", err)
	}

	if cfg.RateLimit.MaxAttempts != 5 {
		t.Errorf("MaxAttempts: got %d, want 5", cfg.RateLimit.MaxAttempts)
	}
	if cfg.RateLimit.Window != 15*time.Minute {
		t.Errorf("Window: got %v, want 15m", cfg.RateLimit.Window)
	}
}

func TestLoad_RateLimitCustomValues(t *testing.T) {
	setRequiredEnv(t)
	os.Setenv("LOGIN_MAX_ATTEMPTS", "3")
	os.Setenv("LOGIN_ATTEMPT_WINDOW", "5m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() = %v, want nil", err)
	}

	if cfg.RateLimit.MaxAttempts != 3 {
		t.Errorf("MaxAttempts: got %d, want 3", cfg.RateLimit.MaxAttempts)
	}
	if cfg.RateLimit.Window != 5*time.Minute {
		t.Errorf("Window: got %v, want 5m", cfg.RateLimit.Window)
	}
}

func TestLoad_RateLimitRejectsZeroAttempts(t *testing.T) {
	setRequiredEnv(t)
	os.Setenv("LOGIN_MAX_ATTEMPTS", "0")

	if _, err := Load(); err == nil {
		t.Fatal("Load() = nil, want error for LOGIN_MAX_ATTEMPTS=0")
	}
}

func TestLoad_SessionDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() = %v, want nil", err)
	}

	if cfg.Session.MaxDuration != 24*time.Hour {
		t.Errorf("MaxDuration: got %v, want 24h", cfg.Session.MaxDuration)
	}
	if cfg.Session.ReaperInterval != 1*time.Hour {
		t.Errorf("ReaperInterval: got %v, want 1h", cfg.Session.ReaperInterval)
	}
}

func TestLoad_RequiresJWTSecret(t *testing.T) {
	os.Clearenv()
	os.Setenv("DB_PASSWORD", "test")
	t.Cleanup(os.Clearenv)

	if _, err := Load(); err == nil {
		t.Fatal("Load() = nil, want error for missing JWT_SECRET")
	}
}

func TestLoad_RejectsShortJWTSecretInProduction(t *testing.T) {
	os.Clearenv()
	os.Setenv("JWT_SECRET", "short-but-over-16ch")
	os.Setenv("DB_PASSWORD", "test")
	os.Setenv("ENV", "production")
	t.Cleanup(os.Clearenv)

	if _, err := Load(); err == nil {
		t.Fatal("Load() = nil, want error for short production secret")
	}
}

func TestLoad_EmailDisabledWithoutAddresses(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() = %v, want nil", err)
	}

	if cfg.Email.Enabled {
		t.Error("Email.Enabled = true, want false when addresses unset")
	}
}
