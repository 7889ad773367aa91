package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"sort"
	"time"

	"github.com/shiftdesk/attendance-backend-go/internal/domain/attendance"
	"github.com/shiftdesk/attendance-backend-go/internal/domain/report"
	"github.com/shiftdesk/attendance-backend-go/internal/domain/shift"
	"github.com/shiftdesk/attendance-backend-go/internal/domain/user"
	"github.com/shiftdesk/attendance-backend-go/internal/pkg/geocode"
)

type ReportServiceImpl struct {
	attendanceRepo attendance.Repository
	userRepo       user.Repository
	geocodeSvc     geocode.Service

	now func() time.Time
}

func NewReportService(
	attendanceRepo attendance.Repository,
	userRepo user.Repository,
	geocodeSvc geocode.Service,
) *ReportServiceImpl {
	return &ReportServiceImpl{
		attendanceRepo: attendanceRepo,
		userRepo:       userRepo,
		geocodeSvc:     geocodeSvc,
		now:            time.Now,
	}
}

// Stats implements report.Service.
func (s *ReportServiceImpl) Stats(ctx context.Context, filter attendance.Filter) (report.StatsResponse, error) {
	counts, err := s.attendanceRepo.CountByStatus(ctx, filter)
	if err != nil {
		return report.StatsResponse{}, err
	}

	response := report.StatsResponse{
		Early:      counts[shift.StatusEarly],
		OnTime:     counts[shift.StatusOnTime],
		Late:       counts[shift.StatusLate],
		Absent:     counts[shift.StatusAbsent],
		NoCheckout: counts[shift.StatusNoCheckout],
	}
	response.Total = response.Early + response.OnTime + response.Late + response.Absent + response.NoCheckout
	response.Present = response.Early + response.OnTime + response.Late

	return response, nil
}

// Analytics implements report.Service.
func (s *ReportServiceImpl) Analytics(ctx context.Context, filter report.AnalyticsFilter) (report.AnalyticsResponse, error) {
	from := s.now().UTC().AddDate(0, 0, -filter.Days)
	from = time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)

	records, err := s.attendanceRepo.ListSince(ctx, from)
	if err != nil {
		return report.AnalyticsResponse{}, err
	}

	// Per-day status breakdown
	byDay := make(map[string]*report.TrendPoint)
	for _, record := range records {
		day := record.ShiftDate.Format("2006-01-02")
		point, ok := byDay[day]
		if !ok {
			point = &report.TrendPoint{ShiftDate: day}
			byDay[day] = point
		}
		switch record.Status {
		case shift.StatusEarly:
			point.Early++
		case shift.StatusOnTime:
			point.OnTime++
		case shift.StatusLate:
			point.Late++
		case shift.StatusAbsent:
			point.Absent++
		case shift.StatusNoCheckout:
			point.NoCheckout++
		}
	}

	trend := make([]report.TrendPoint, 0, len(byDay))
	for _, point := range byDay {
		trend = append(trend, *point)
	}
	sort.Slice(trend, func(i, j int) bool { return trend[i].ShiftDate < trend[j].ShiftDate })

	// Per-employee lifetime stats with red flags
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return report.AnalyticsResponse{}, err
	}
	counts, err := s.attendanceRepo.StatusCountsByUser(ctx)
	if err != nil {
		return report.AnalyticsResponse{}, err
	}

	employees := make([]report.EmployeeStatsEntry, 0, len(users))
	for _, u := range users {
		c := counts[u.ID]
		employees = append(employees, report.EmployeeStatsEntry{
			UserID: u.ID,
			Name:   u.Name,
			Email:  u.Email,
			Stats: user.NewEmployeeStats(
				int(c[shift.StatusEarly]),
				int(c[shift.StatusOnTime]),
				int(c[shift.StatusLate]),
				int(c[shift.StatusAbsent]),
				int(c[shift.StatusNoCheckout]),
			),
		})
	}

	return report.AnalyticsResponse{
		Days:      filter.Days,
		Trend:     trend,
		Employees: employees,
	}, nil
}

// ExportCSV implements report.Service.
func (s *ReportServiceImpl) ExportCSV(ctx context.Context, filter attendance.Filter) ([]byte, error) {
	records, err := s.attendanceRepo.ListForExport(ctx, filter)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{
		"Employee", "Email", "Shift Date", "Status",
		"Check In", "Check In Location",
		"Check Out", "Check Out Location",
	}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, record := range records {
		row := []string{
			deref(record.UserName),
			deref(record.UserEmail),
			record.ShiftDate.Format("2006-01-02"),
			string(record.Status),
			formatInstant(record.CheckInAt),
			s.placeLabel(ctx, record.CheckInLatitude, record.CheckInLongitude),
			formatInstant(record.CheckOutAt),
			s.placeLabel(ctx, record.CheckOutLatitude, record.CheckOutLongitude),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV: %w", err)
	}

	return buf.Bytes(), nil
}

// placeLabel resolves coordinates to a place name, falling back to the
// raw coordinates when geocoding is unavailable.
func (s *ReportServiceImpl) placeLabel(ctx context.Context, lat, lng *float64) string {
	if lat == nil || lng == nil {
		return "N/A"
	}
	if label := s.geocodeSvc.ReverseGeocode(ctx, *lat, *lng); label != "" {
		return label
	}
	return fmt.Sprintf("%.6f, %.6f", *lat, *lng)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatInstant(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
