package laterequest

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/shiftdesk/attendance-backend-go/internal/config"
	"github.com/shiftdesk/attendance-backend-go/internal/domain/laterequest"
	"github.com/shiftdesk/attendance-backend-go/internal/domain/override"
	"github.com/shiftdesk/attendance-backend-go/internal/domain/shift"
	"github.com/shiftdesk/attendance-backend-go/internal/domain/user"
	"github.com/shiftdesk/attendance-backend-go/internal/pkg/database"
	"github.com/shiftdesk/attendance-backend-go/internal/pkg/email"
	"github.com/shiftdesk/attendance-backend-go/internal/repository/postgresql"
)

type LateRequestServiceImpl struct {
	db          *database.DB
	requestRepo laterequest.Repository
	userRepo    user.Repository
	overrideSvc override.Service
	emailSvc    email.EmailService
	appCfg      config.AppConfig
}

func NewLateRequestService(
	db *database.DB,
	requestRepo laterequest.Repository,
	userRepo user.Repository,
	overrideSvc override.Service,
	emailSvc email.EmailService,
	appCfg config.AppConfig,
) laterequest.Service {
	return &LateRequestServiceImpl{
		db:          db,
		requestRepo: requestRepo,
		userRepo:    userRepo,
		overrideSvc: overrideSvc,
		emailSvc:    emailSvc,
		appCfg:      appCfg,
	}
}

func newDecisionToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate decision token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// Create implements laterequest.Service.
func (s *LateRequestServiceImpl) Create(ctx context.Context, req laterequest.CreateRequest) (laterequest.LateRequestResponse, error) {
	u, err := s.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		return laterequest.LateRequestResponse{}, err
	}

	key, err := shift.ParseKey(req.ShiftDate)
	if err != nil {
		return laterequest.LateRequestResponse{}, err
	}

	pending, err := s.requestRepo.GetPendingByUserAndShiftDate(ctx, req.UserID, key.Date(time.UTC))
	if err != nil {
		return laterequest.LateRequestResponse{}, fmt.Errorf("failed to look up pending request: %w", err)
	}
	if pending != nil {
		return laterequest.LateRequestResponse{}, laterequest.ErrDuplicateRequest
	}

	token, err := newDecisionToken()
	if err != nil {
		return laterequest.LateRequestResponse{}, err
	}

	created, err := s.requestRepo.Create(ctx, laterequest.LateRequest{
		UserID:        req.UserID,
		ShiftDate:     key.Date(time.UTC),
		RequestedTime: req.RequestedTime,
		Reason:        req.Reason,
		Status:        laterequest.StatusPending,
		DecisionToken: token,
	})
	if err != nil {
		return laterequest.LateRequestResponse{}, err
	}
	created.UserName = &u.Name
	created.UserEmail = &u.Email

	go s.notifyAdmins(created, u)

	return toResponse(created), nil
}

// notifyAdmins emails every admin the request with one-click decision
// links. Failures are logged; the request itself already exists.
func (s *LateRequestServiceImpl) notifyAdmins(lr laterequest.LateRequest, u user.User) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	admins, err := s.userRepo.ListByRole(ctx, user.RoleAdmin)
	if err != nil {
		slog.Error("Failed to list admins for late request", "error", err)
		return
	}

	approveLink := fmt.Sprintf("%s/api/v1/late-requests/%s/approve?token=%s", s.appCfg.BaseURL, lr.ID, lr.DecisionToken)
	rejectLink := fmt.Sprintf("%s/api/v1/late-requests/%s/reject?token=%s", s.appCfg.BaseURL, lr.ID, lr.DecisionToken)

	for _, admin := range admins {
		err := s.emailSvc.SendLateRequest(
			admin.Email,
			u.Name,
			lr.ShiftDate.Format("2006-01-02"),
			lr.RequestedTime,
			lr.Reason,
			approveLink,
			rejectLink,
		)
		if err != nil {
			slog.Error("Failed to send late request email", "admin", admin.Email, "error", err)
		}
	}
}

// List implements laterequest.Service.
func (s *LateRequestServiceImpl) List(ctx context.Context, filter laterequest.ListFilter) (laterequest.ListResponse, error) {
	requests, total, err := s.requestRepo.List(ctx, filter)
	if err != nil {
		return laterequest.ListResponse{}, err
	}

	response := laterequest.ListResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		Requests:   make([]laterequest.LateRequestResponse, 0, len(requests)),
	}
	if filter.Limit > 0 {
		response.TotalPages = int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	}
	for _, lr := range requests {
		response.Requests = append(response.Requests, toResponse(lr))
	}

	return response, nil
}

// Get implements laterequest.Service.
func (s *LateRequestServiceImpl) Get(ctx context.Context, id string) (laterequest.LateRequestResponse, error) {
	lr, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		return laterequest.LateRequestResponse{}, err
	}
	return toResponse(lr), nil
}

// Approve implements laterequest.Service. Approval and the resulting
// override are written in one transaction.
func (s *LateRequestServiceImpl) Approve(ctx context.Context, id, token, decidedBy string) (laterequest.LateRequestResponse, error) {
	return s.decide(ctx, id, token, decidedBy, true)
}

// Reject implements laterequest.Service.
func (s *LateRequestServiceImpl) Reject(ctx context.Context, id, token, decidedBy string) (laterequest.LateRequestResponse, error) {
	return s.decide(ctx, id, token, decidedBy, false)
}

func (s *LateRequestServiceImpl) decide(ctx context.Context, id, token, decidedBy string, approve bool) (laterequest.LateRequestResponse, error) {
	lr, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		return laterequest.LateRequestResponse{}, err
	}

	if lr.DecisionToken != token {
		return laterequest.LateRequestResponse{}, laterequest.ErrInvalidToken
	}
	if lr.Status != laterequest.StatusPending {
		return laterequest.LateRequestResponse{}, laterequest.ErrRequestDecided
	}

	now := time.Now().UTC()
	lr.DecidedBy = &decidedBy
	lr.DecidedAt = &now
	if approve {
		lr.Status = laterequest.StatusApproved
	} else {
		lr.Status = laterequest.StatusRejected
	}

	err = postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		if err := s.requestRepo.Update(txCtx, lr); err != nil {
			return err
		}
		if approve {
			reason := fmt.Sprintf("Approved late request: %s", lr.Reason)
			_, err := s.overrideSvc.Upsert(txCtx, override.UpsertRequest{
				UserID:      lr.UserID,
				ShiftDate:   lr.ShiftDate.Format("2006-01-02"),
				CheckInTime: lr.RequestedTime,
				Reason:      &reason,
				CreatedBy:   &decidedBy,
			})
			return err
		}
		return nil
	})
	if err != nil {
		return laterequest.LateRequestResponse{}, err
	}

	if lr.UserEmail != nil && lr.UserName != nil {
		go func(lr laterequest.LateRequest) {
			err := s.emailSvc.SendLateRequestDecision(
				*lr.UserEmail,
				*lr.UserName,
				lr.ShiftDate.Format("2006-01-02"),
				lr.RequestedTime,
				lr.Status == laterequest.StatusApproved,
			)
			if err != nil {
				slog.Error("Failed to send decision email", "request_id", lr.ID, "error", err)
			}
		}(lr)
	}

	return toResponse(lr), nil
}

func toResponse(lr laterequest.LateRequest) laterequest.LateRequestResponse {
	resp := laterequest.LateRequestResponse{
		ID:            lr.ID,
		UserID:        lr.UserID,
		UserName:      lr.UserName,
		UserEmail:     lr.UserEmail,
		ShiftDate:     lr.ShiftDate.Format("2006-01-02"),
		RequestedTime: lr.RequestedTime,
		Reason:        lr.Reason,
		Status:        string(lr.Status),
		DecidedBy:     lr.DecidedBy,
		CreatedAt:     lr.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     lr.UpdatedAt.Format(time.RFC3339),
	}
	if lr.DecidedAt != nil {
		v := lr.DecidedAt.Format(time.RFC3339)
		resp.DecidedAt = &v
	}
	return resp
}
