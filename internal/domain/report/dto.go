package report

import (
	"context"

	"github.com/shiftdesk/attendance-backend-go/internal/domain/attendance"
	"github.com/shiftdesk/attendance-backend-go/internal/domain/user"
	"github.com/shiftdesk/attendance-backend-go/internal/pkg/validator"
)

// StatsResponse aggregates record counts per status for a filter window.
// Present counts everyone who showed up, late or not.
type StatsResponse struct {
	Total      int64 `json:"total"`
	Present    int64 `json:"present"`
	Early      int64 `json:"early"`
	OnTime     int64 `json:"on_time"`
	Late       int64 `json:"late"`
	Absent     int64 `json:"absent"`
	NoCheckout int64 `json:"no_checkout"`
}

// TrendPoint is one shift date's status breakdown, for charts.
type TrendPoint struct {
	ShiftDate  string `json:"shift_date"`
	Early      int64  `json:"early"`
	OnTime     int64  `json:"on_time"`
	Late       int64  `json:"late"`
	Absent     int64  `json:"absent"`
	NoCheckout int64  `json:"no_checkout"`
}

// AnalyticsResponse covers the admin dashboard: a recent trend plus
// per-employee stats with red flags.
type AnalyticsResponse struct {
	Days      int                  `json:"days"`
	Trend     []TrendPoint         `json:"trend"`
	Employees []EmployeeStatsEntry `json:"employees"`
}

type EmployeeStatsEntry struct {
	UserID string             `json:"user_id"`
	Name   string             `json:"name"`
	Email  string             `json:"email"`
	Stats  user.EmployeeStats `json:"stats"`
}

type AnalyticsFilter struct {
	Days int `json:"days"`
}

func (f *AnalyticsFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Days < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "days",
			Message: "days must be a positive number",
		})
	}
	if f.Days == 0 {
		f.Days = 7
	}
	if f.Days > 365 {
		errs = append(errs, validator.ValidationError{
			Field:   "days",
			Message: "days must not exceed 365",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// Service defines reporting business logic.
type Service interface {
	// Stats aggregates record counts per status for the filter window
	Stats(ctx context.Context, filter attendance.Filter) (StatsResponse, error)

	// Analytics builds the dashboard trend and per-employee stats
	Analytics(ctx context.Context, filter AnalyticsFilter) (AnalyticsResponse, error)

	// ExportCSV streams filtered records as CSV, with check-in and
	// check-out coordinates resolved to place names where possible
	ExportCSV(ctx context.Context, filter attendance.Filter) ([]byte, error)
}
