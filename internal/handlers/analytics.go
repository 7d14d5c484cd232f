package handlers

import (
	"context"
	"net/http"

	"github.com/pylink-dev/portal/internal/auth"
	"github.com/pylink-dev/portal/internal/models"
	pkghttp "github.com/pylink-dev/portal/pkg/http"
)

// DashboardServiceInterface defines the interface for analytics aggregation
type DashboardServiceInterface interface {
	Build(ctx context.Context) (*models.Dashboard, error)
	EmployeeTimesheet(ctx context.Context, employeeID string) ([]*models.TimeEntry, models.TimeStats, error)
}

// AnalyticsHandler handles analytics HTTP requests
type AnalyticsHandler struct {
	service DashboardServiceInterface
}

// NewAnalyticsHandler creates a new AnalyticsHandler
func NewAnalyticsHandler(service DashboardServiceInterface) *AnalyticsHandler {
	return &AnalyticsHandler{service: service}
}

// Dashboard returns all aggregates computed from a single data snapshot
func (h *AnalyticsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.service.Build(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, dashboard)
}

// TimesheetResponse bundles an employee's entries with their time stats
type TimesheetResponse struct {
	Entries []*models.TimeEntry `json:"entries"`
	Stats   models.TimeStats    `json:"stats"`
}

// MyTimesheet returns the authenticated employee's persisted time
// entries and aggregate hours
func (h *AnalyticsHandler) MyTimesheet(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	entries, stats, err := h.service.EmployeeTimesheet(r.Context(), claims.EmployeeID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, TimesheetResponse{
		Entries: entries,
		Stats:   stats,
	})
}
