package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/pylink-dev/portal/internal/models"
	pkglogger "github.com/pylink-dev/portal/pkg/logger"
)

// TimeEntryStore persists the record produced when a work session ends
type TimeEntryStore interface {
	Insert(ctx context.Context, entry *models.TimeEntry) (*models.TimeEntry, error)
}

// SessionService tracks the active work session per employee and turns
// completed sessions into persisted time entries. Active sessions live only
// in memory; one per employee, enforced under the service lock so two
// concurrent starts cannot both succeed.
type SessionService struct {
	mu     sync.Mutex
	active map[string]*models.WorkSession

	entries TimeEntryStore
	logger  *slog.Logger
	audit   *pkglogger.AuditLogger
	now     func() time.Time
}

// NewSessionService creates a new SessionService
func NewSessionService(entries TimeEntryStore, logger *slog.Logger, audit *pkglogger.AuditLogger) *SessionService {
	return &SessionService{
		active:  make(map[string]*models.WorkSession),
		entries: entries,
		logger:  logger,
		audit:   audit,
		now:     time.Now,
	}
}

// Start opens a work session for the employee. The project is optional; a
// session may be unassigned. Returns ErrAlreadyWorking if a session is
// already open.
func (s *SessionService) Start(ctx context.Context, employeeID string, projectID *string) (*models.WorkSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.active[employeeID]; ok {
		return nil, models.ErrAlreadyWorking
	}

	session := &models.WorkSession{
		EmployeeID: employeeID,
		ProjectID:  projectID,
		StartTime:  s.now(),
	}
	s.active[employeeID] = session

	s.logger.Info("work session started", slog.String("employee_id", employeeID))
	s.audit.LogSessionEvent("session_started", employeeID, nil)

	copied := *session
	return &copied, nil
}

// End closes the employee's active session and persists it as a time entry.
// Returns ErrNoActiveSession if nothing is open. If persistence fails the
// session is restored so the employee can end it again once storage
// recovers.
func (s *SessionService) End(ctx context.Context, employeeID string) (*models.TimeEntry, error) {
	s.mu.Lock()
	session, ok := s.active[employeeID]
	if !ok {
		s.mu.Unlock()
		return nil, models.ErrNoActiveSession
	}
	delete(s.active, employeeID)
	s.mu.Unlock()

	endTime := s.now()
	durationHours := endTime.Sub(session.StartTime).Seconds() / 3600
	if durationHours < 0 {
		durationHours = 0
	}

	// The entry is dated by the UTC calendar day the session ended on,
	// regardless of the process timezone.
	year, month, day := endTime.UTC().Date()

	entry := &models.TimeEntry{
		EmployeeID:    employeeID,
		ProjectID:     session.ProjectID,
		Date:          time.Date(year, month, day, 0, 0, 0, 0, time.UTC),
		StartTime:     session.StartTime,
		EndTime:       endTime,
		DurationHours: durationHours,
		Description:   session.Description,
	}

	persisted, err := s.entries.Insert(ctx, entry)
	if err != nil {
		s.restore(employeeID, session)
		s.logger.Error("failed to persist time entry",
			slog.String("employee_id", employeeID),
			slog.Any("error", err))
		return nil, fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
	}

	s.logger.Info("work session ended",
		slog.String("employee_id", employeeID),
		slog.Float64("duration_hours", durationHours))
	s.audit.LogSessionEvent("session_ended", employeeID, map[string]string{
		"entry_id": persisted.ID,
	})

	return persisted, nil
}

// SetDescription updates the note on the employee's active session. Setting
// a description while idle is a no-op; the false return lets callers show a
// hint without treating it as an error.
func (s *SessionService) SetDescription(employeeID, description string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.active[employeeID]
	if !ok {
		return false
	}
	session.Description = description
	return true
}

// Active returns a copy of the employee's open session, if any
func (s *SessionService) Active(employeeID string) (*models.WorkSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.active[employeeID]
	if !ok {
		return nil, false
	}
	copied := *session
	return &copied, true
}

// ReapStale discards sessions that have been open longer than maxDuration.
// Called periodically by the background reaper; abandoned sessions are
// dropped, not persisted, since their end time is unknowable.
func (s *SessionService) ReapStale(maxDuration time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-maxDuration)
	reaped := 0
	for employeeID, session := range s.active {
		if session.StartTime.Before(cutoff) {
			delete(s.active, employeeID)
			reaped++
			s.logger.Warn("discarded stale work session",
				slog.String("employee_id", employeeID),
				slog.Time("start_time", session.StartTime))
			s.audit.LogSessionEvent("session_discarded", employeeID, map[string]string{
				"start_time": session.StartTime.UTC().Format(time.RFC3339),
			})
		}
	}

	return reaped
}

// restore puts a session back after a failed persist, unless the employee
// already started a new one in the meantime.
func (s *SessionService) restore(employeeID string, session *models.WorkSession) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.active[employeeID]; ok {
		s.logger.Warn("could not restore session after failed persist; a new session is already active",
			slog.String("employee_id", employeeID))
		return
	}
	s.active[employeeID] = session
}
