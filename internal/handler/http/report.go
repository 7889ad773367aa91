package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/shiftdesk/attendance-backend-go/internal/domain/attendance"
	"github.com/shiftdesk/attendance-backend-go/internal/domain/report"
	"github.com/shiftdesk/attendance-backend-go/internal/handler/http/response"
)

type ReportHandler interface {
	Stats(w http.ResponseWriter, r *http.Request)
	Analytics(w http.ResponseWriter, r *http.Request)
	ExportCSV(w http.ResponseWriter, r *http.Request)
}

type ReportHandlerImpl struct {
	reportService report.Service
}

func NewReportHandler(reportService report.Service) ReportHandler {
	return &ReportHandlerImpl{reportService: reportService}
}

// Stats implements ReportHandler.
func (h *ReportHandlerImpl) Stats(w http.ResponseWriter, r *http.Request) {
	filter := attendance.Filter{
		UserID:    queryParam(r, "user_id"),
		Status:    queryParam(r, "status"),
		StartDate: queryParam(r, "start_date"),
		EndDate:   queryParam(r, "end_date"),
	}
	if err := filter.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.reportService.Stats(r.Context(), filter)
	if err != nil {
		slog.Error("Stats service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Analytics implements ReportHandler.
func (h *ReportHandlerImpl) Analytics(w http.ResponseWriter, r *http.Request) {
	filter := report.AnalyticsFilter{
		Days: queryInt(r, "days"),
	}
	if err := filter.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.reportService.Analytics(r.Context(), filter)
	if err != nil {
		slog.Error("Analytics service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ExportCSV implements ReportHandler. Streams the filtered records as a
// CSV attachment.
func (h *ReportHandlerImpl) ExportCSV(w http.ResponseWriter, r *http.Request) {
	filter := attendance.Filter{
		UserID:    queryParam(r, "user_id"),
		Status:    queryParam(r, "status"),
		StartDate: queryParam(r, "start_date"),
		EndDate:   queryParam(r, "end_date"),
	}
	if err := filter.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	data, err := h.reportService.ExportCSV(r.Context(), filter)
	if err != nil {
		slog.Error("ExportCSV service error", "error", err)
		response.HandleError(w, err)
		return
	}

	filename := fmt.Sprintf("attendance-%s.csv", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
