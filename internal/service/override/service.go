package override

import (
	"context"
	"fmt"
	"time"

	"github.com/shiftdesk/attendance-backend-go/internal/domain/override"
	"github.com/shiftdesk/attendance-backend-go/internal/domain/shift"
	"github.com/shiftdesk/attendance-backend-go/internal/domain/user"
)

type OverrideServiceImpl struct {
	overrideRepo override.Repository
	userRepo     user.Repository
}

func NewOverrideService(overrideRepo override.Repository, userRepo user.Repository) override.Service {
	return &OverrideServiceImpl{
		overrideRepo: overrideRepo,
		userRepo:     userRepo,
	}
}

// Upsert implements override.Service.
func (s *OverrideServiceImpl) Upsert(ctx context.Context, req override.UpsertRequest) (override.OverrideResponse, error) {
	// The target user must exist
	if _, err := s.userRepo.GetByID(ctx, req.UserID); err != nil {
		return override.OverrideResponse{}, err
	}

	key, err := shift.ParseKey(req.ShiftDate)
	if err != nil {
		return override.OverrideResponse{}, err
	}

	saved, err := s.overrideRepo.Upsert(ctx, override.Override{
		UserID:      req.UserID,
		ShiftDate:   key.Date(time.UTC),
		CheckInTime: req.CheckInTime,
		Reason:      req.Reason,
		CreatedBy:   req.CreatedBy,
	})
	if err != nil {
		return override.OverrideResponse{}, err
	}

	return toResponse(saved), nil
}

// Get implements override.Service.
func (s *OverrideServiceImpl) Get(ctx context.Context, userID, shiftDate string) (override.OverrideResponse, error) {
	key, err := shift.ParseKey(shiftDate)
	if err != nil {
		return override.OverrideResponse{}, err
	}

	ov, err := s.overrideRepo.GetByUserAndShiftDate(ctx, userID, key.Date(time.UTC))
	if err != nil {
		return override.OverrideResponse{}, fmt.Errorf("failed to get override: %w", err)
	}
	if ov == nil {
		return override.OverrideResponse{}, override.ErrOverrideNotFound
	}

	return toResponse(*ov), nil
}

// List implements override.Service.
func (s *OverrideServiceImpl) List(ctx context.Context, filter override.ListFilter) ([]override.OverrideResponse, error) {
	overrides, err := s.overrideRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]override.OverrideResponse, 0, len(overrides))
	for _, ov := range overrides {
		responses = append(responses, toResponse(ov))
	}
	return responses, nil
}

// Delete implements override.Service.
func (s *OverrideServiceImpl) Delete(ctx context.Context, id string) error {
	return s.overrideRepo.Delete(ctx, id)
}

func toResponse(ov override.Override) override.OverrideResponse {
	return override.OverrideResponse{
		ID:          ov.ID,
		UserID:      ov.UserID,
		ShiftDate:   ov.ShiftDate.Format("2006-01-02"),
		CheckInTime: ov.CheckInTime,
		Reason:      ov.Reason,
		CreatedBy:   ov.CreatedBy,
		CreatedAt:   ov.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   ov.UpdatedAt.Format(time.RFC3339),
	}
}
