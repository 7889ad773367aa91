package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/smtp"
	"time"

	"github.com/shiftdesk/attendance-backend-go/internal/config"
)

//go:embed templates/*.html
var templateFS embed.FS

const maxRetries = 3

// EmailService defines the interface for sending emails
type EmailService interface {
	SendWelcome(to, employeeName, email, checkInTime, checkOutTime string) error
	SendCheckInConfirmation(to, employeeName, shiftDate, checkInAt, status string) error
	SendCheckOutConfirmation(to, employeeName, shiftDate, checkOutAt, duration string) error
	SendLateAlert(to, employeeName, shiftDate, checkInAt, scheduledAt string) error
	SendLateRequest(to, employeeName, shiftDate, requestedTime, reason, approveLink, rejectLink string) error
	SendLateRequestDecision(to, employeeName, shiftDate, requestedTime string, approved bool) error
}

type emailServiceImpl struct {
	cfg       config.SMTPConfig
	templates *template.Template
}

// NewEmailService creates a new email service instance
func NewEmailService(cfg config.SMTPConfig) (EmailService, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}

	return &emailServiceImpl{
		cfg:       cfg,
		templates: tmpl,
	}, nil
}

type welcomeEmailData struct {
	EmployeeName string
	Email        string
	CheckInTime  string
	CheckOutTime string
}

// SendWelcome sends the onboarding email with the employee's shift times
func (s *emailServiceImpl) SendWelcome(to, employeeName, email, checkInTime, checkOutTime string) error {
	data := welcomeEmailData{
		EmployeeName: employeeName,
		Email:        email,
		CheckInTime:  checkInTime,
		CheckOutTime: checkOutTime,
	}

	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, "welcome.html", data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	return s.sendHTML(to, "Welcome to the Attendance System", body.String())
}

type checkInEmailData struct {
	EmployeeName string
	ShiftDate    string
	CheckInAt    string
	Status       string
}

// SendCheckInConfirmation confirms a successful check-in to the employee
func (s *emailServiceImpl) SendCheckInConfirmation(to, employeeName, shiftDate, checkInAt, status string) error {
	data := checkInEmailData{
		EmployeeName: employeeName,
		ShiftDate:    shiftDate,
		CheckInAt:    checkInAt,
		Status:       status,
	}

	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, "checkin_confirmation.html", data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	return s.sendHTML(to, fmt.Sprintf("Checked In: %s", shiftDate), body.String())
}

type checkOutEmailData struct {
	EmployeeName string
	ShiftDate    string
	CheckOutAt   string
	Duration     string
}

// SendCheckOutConfirmation confirms a check-out, including the shift duration
func (s *emailServiceImpl) SendCheckOutConfirmation(to, employeeName, shiftDate, checkOutAt, duration string) error {
	data := checkOutEmailData{
		EmployeeName: employeeName,
		ShiftDate:    shiftDate,
		CheckOutAt:   checkOutAt,
		Duration:     duration,
	}

	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, "checkout_confirmation.html", data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	return s.sendHTML(to, fmt.Sprintf("Checked Out: %s", shiftDate), body.String())
}

type lateAlertEmailData struct {
	EmployeeName string
	ShiftDate    string
	CheckInAt    string
	ScheduledAt  string
}

// SendLateAlert notifies an admin that an employee checked in late
func (s *emailServiceImpl) SendLateAlert(to, employeeName, shiftDate, checkInAt, scheduledAt string) error {
	data := lateAlertEmailData{
		EmployeeName: employeeName,
		ShiftDate:    shiftDate,
		CheckInAt:    checkInAt,
		ScheduledAt:  scheduledAt,
	}

	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, "late_alert.html", data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	return s.sendHTML(to, fmt.Sprintf("Late Check-In: %s", employeeName), body.String())
}

type lateRequestEmailData struct {
	EmployeeName  string
	ShiftDate     string
	RequestedTime string
	Reason        string
	ApproveLink   string
	RejectLink    string
}

// SendLateRequest sends an admin the request with one-click decision links
func (s *emailServiceImpl) SendLateRequest(to, employeeName, shiftDate, requestedTime, reason, approveLink, rejectLink string) error {
	data := lateRequestEmailData{
		EmployeeName:  employeeName,
		ShiftDate:     shiftDate,
		RequestedTime: requestedTime,
		Reason:        reason,
		ApproveLink:   approveLink,
		RejectLink:    rejectLink,
	}

	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, "late_request.html", data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	return s.sendHTML(to, fmt.Sprintf("Late Request from %s", employeeName), body.String())
}

type lateRequestDecisionEmailData struct {
	EmployeeName  string
	ShiftDate     string
	RequestedTime string
	Approved      bool
}

// SendLateRequestDecision tells the employee the outcome of their request
func (s *emailServiceImpl) SendLateRequestDecision(to, employeeName, shiftDate, requestedTime string, approved bool) error {
	data := lateRequestDecisionEmailData{
		EmployeeName:  employeeName,
		ShiftDate:     shiftDate,
		RequestedTime: requestedTime,
		Approved:      approved,
	}

	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, "late_request_decision.html", data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	subject := "Late Request Rejected"
	if approved {
		subject = "Late Request Approved"
	}
	return s.sendHTML(to, subject, body.String())
}

func (s *emailServiceImpl) sendHTML(to, subject, htmlBody string) error {
	// Skip sending if SMTP is not configured
	if s.cfg.Host == "" {
		slog.Warn("SMTP not configured, skipping email send", "to", to, "subject", subject)
		return nil
	}

	from := s.cfg.From

	headers := fmt.Sprintf("From: %s <%s>\r\n", s.cfg.FromName, from)
	headers += fmt.Sprintf("To: %s\r\n", to)
	headers += fmt.Sprintf("Subject: %s\r\n", subject)
	headers += "MIME-Version: 1.0\r\n"
	headers += "Content-Type: text/html; charset=\"UTF-8\"\r\n"
	headers += "\r\n"

	message := []byte(headers + htmlBody)

	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		err := smtp.SendMail(addr, auth, from, []string{to}, message)
		if err == nil {
			slog.Info("Email sent successfully", "to", to, "subject", subject, "attempt", attempt)
			return nil
		}

		lastErr = err
		slog.Error("Failed to send email",
			"to", to,
			"subject", subject,
			"attempt", attempt,
			"max_retries", maxRetries,
			"error", err,
		)

		// Wait before retrying (exponential backoff: 1s, 2s, 4s)
		if attempt < maxRetries {
			time.Sleep(time.Duration(1<<(attempt-1)) * time.Second)
		}
	}

	return fmt.Errorf("failed to send email after %d attempts: %w", maxRetries, lastErr)
}
