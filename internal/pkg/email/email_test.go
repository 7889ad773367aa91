package email

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiftdesk/attendance-backend-go/internal/config"
)

func TestNewEmailService_ParsesTemplates(t *testing.T) {
	svc, err := NewEmailService(config.SMTPConfig{})
	require.NoError(t, err)
	require.NotNil(t, svc)

	impl := svc.(*emailServiceImpl)
	for _, name := range []string{
		"welcome.html",
		"checkin_confirmation.html",
		"checkout_confirmation.html",
		"late_alert.html",
		"late_request.html",
		"late_request_decision.html",
	} {
		assert.NotNil(t, impl.templates.Lookup(name), "missing template %s", name)
	}
}

func TestSend_SkipsWhenSMTPUnconfigured(t *testing.T) {
	svc, err := NewEmailService(config.SMTPConfig{})
	require.NoError(t, err)

	assert.NoError(t, svc.SendWelcome("jo@example.com", "Jo", "jo@example.com", "21:00", "05:00"))
	assert.NoError(t, svc.SendCheckInConfirmation("jo@example.com", "Jo", "2026-03-09", "2026-03-09T21:05:00Z", "ON_TIME"))
	assert.NoError(t, svc.SendCheckOutConfirmation("jo@example.com", "Jo", "2026-03-09", "2026-03-10T05:01:00Z", "7h56m0s"))
	assert.NoError(t, svc.SendLateAlert("admin@example.com", "Jo", "2026-03-09", "2026-03-09T21:30:00Z", "2026-03-09T21:00:00Z"))
	assert.NoError(t, svc.SendLateRequest("admin@example.com", "Jo", "2026-03-09", "23:00", "traffic",
		"http://localhost:8080/approve", "http://localhost:8080/reject"))
	assert.NoError(t, svc.SendLateRequestDecision("jo@example.com", "Jo", "2026-03-09", "23:00", true))
}

func TestLateRequestTemplate_RendersLinks(t *testing.T) {
	svc, err := NewEmailService(config.SMTPConfig{})
	require.NoError(t, err)

	impl := svc.(*emailServiceImpl)
	var body bytes.Buffer
	err = impl.templates.ExecuteTemplate(&body, "late_request.html", lateRequestEmailData{
		EmployeeName:  "Jo",
		ShiftDate:     "2026-03-09",
		RequestedTime: "23:00",
		Reason:        "traffic",
		ApproveLink:   "http://localhost:8080/api/v1/late-requests/abc/approve?token=tok",
		RejectLink:    "http://localhost:8080/api/v1/late-requests/abc/reject?token=tok",
	})
	require.NoError(t, err)
	assert.Contains(t, body.String(), "approve?token=tok")
	assert.Contains(t, body.String(), "reject?token=tok")
	assert.Contains(t, body.String(), "Jo")
}
