package employee

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/shiftdesk/attendance-backend-go/internal/config"
	"github.com/shiftdesk/attendance-backend-go/internal/domain/attendance"
	"github.com/shiftdesk/attendance-backend-go/internal/domain/shift"
	"github.com/shiftdesk/attendance-backend-go/internal/domain/user"
	"github.com/shiftdesk/attendance-backend-go/internal/pkg/email"
)

type EmployeeServiceImpl struct {
	userRepo       user.Repository
	attendanceRepo attendance.Repository
	emailSvc       email.EmailService
	defaults       config.AttendanceConfig
}

func NewEmployeeService(
	userRepo user.Repository,
	attendanceRepo attendance.Repository,
	emailSvc email.EmailService,
	defaults config.AttendanceConfig,
) user.EmployeeService {
	return &EmployeeServiceImpl{
		userRepo:       userRepo,
		attendanceRepo: attendanceRepo,
		emailSvc:       emailSvc,
		defaults:       defaults,
	}
}

// ListEmployees implements user.EmployeeService.
func (s *EmployeeServiceImpl) ListEmployees(ctx context.Context) (user.ListEmployeesResponse, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return user.ListEmployeesResponse{}, fmt.Errorf("failed to list users: %w", err)
	}

	counts, err := s.attendanceRepo.StatusCountsByUser(ctx)
	if err != nil {
		return user.ListEmployeesResponse{}, fmt.Errorf("failed to load attendance counts: %w", err)
	}

	response := user.ListEmployeesResponse{Employees: make([]user.EmployeeResponse, 0, len(users))}
	for _, u := range users {
		stats := buildStats(counts[u.ID])
		resp := toEmployeeResponse(u)
		resp.Stats = &stats
		response.Employees = append(response.Employees, resp)
	}

	return response, nil
}

// CreateEmployee implements user.EmployeeService.
func (s *EmployeeServiceImpl) CreateEmployee(ctx context.Context, req user.CreateEmployeeRequest) (user.EmployeeResponse, error) {
	role := user.RoleEmployee
	if req.Role != nil {
		role = user.Role(strings.ToUpper(*req.Role))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return user.EmployeeResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	created, err := s.userRepo.Create(ctx, user.User{
		Name:         req.Name,
		Email:        strings.ToLower(req.Email),
		PasswordHash: string(hash),
		Role:         role,
	})
	if err != nil {
		return user.EmployeeResponse{}, err
	}

	// The welcome email carries the shift times; a failure here should
	// not fail the creation
	checkIn, checkOut := s.effectiveTimes(created)
	if err := s.emailSvc.SendWelcome(created.Email, created.Name, created.Email, checkIn, checkOut); err != nil {
		slog.Error("Failed to send welcome email", "user_id", created.ID, "error", err)
	}

	return toEmployeeResponse(created), nil
}

// GetEmployee implements user.EmployeeService.
func (s *EmployeeServiceImpl) GetEmployee(ctx context.Context, id string) (user.EmployeeResponse, error) {
	u, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return user.EmployeeResponse{}, err
	}

	counts, err := s.attendanceRepo.StatusCountsByUser(ctx)
	if err != nil {
		return user.EmployeeResponse{}, fmt.Errorf("failed to load attendance counts: %w", err)
	}

	stats := buildStats(counts[u.ID])
	resp := toEmployeeResponse(u)
	resp.Stats = &stats
	return resp, nil
}

// UpdateEmployee implements user.EmployeeService.
func (s *EmployeeServiceImpl) UpdateEmployee(ctx context.Context, req user.UpdateEmployeeRequest) (user.EmployeeResponse, error) {
	u, err := s.userRepo.GetByID(ctx, req.ID)
	if err != nil {
		return user.EmployeeResponse{}, err
	}

	if req.Name != nil {
		u.Name = *req.Name
	}
	if req.Email != nil {
		u.Email = strings.ToLower(*req.Email)
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return user.EmployeeResponse{}, fmt.Errorf("failed to hash password: %w", err)
		}
		u.PasswordHash = string(hash)
	}
	if req.Role != nil {
		u.Role = user.Role(strings.ToUpper(*req.Role))
	}
	if req.CheckInTime != nil {
		if *req.CheckInTime == "" {
			u.CheckInTime = nil
		} else {
			u.CheckInTime = req.CheckInTime
		}
	}
	if req.CheckOutTime != nil {
		if *req.CheckOutTime == "" {
			u.CheckOutTime = nil
		} else {
			u.CheckOutTime = req.CheckOutTime
		}
	}

	// Changed shift times must still form a valid schedule together
	checkIn, checkOut := s.effectiveTimes(u)
	if _, err := shift.NewSchedule(checkIn, checkOut, s.defaults.DefaultTimezone); err != nil {
		return user.EmployeeResponse{}, err
	}

	if err := s.userRepo.Update(ctx, u); err != nil {
		return user.EmployeeResponse{}, err
	}

	return toEmployeeResponse(u), nil
}

// DeleteEmployee implements user.EmployeeService.
func (s *EmployeeServiceImpl) DeleteEmployee(ctx context.Context, actorID, id string) error {
	if actorID == id {
		return user.ErrCannotDeleteSelf
	}
	return s.userRepo.Delete(ctx, id)
}

func (s *EmployeeServiceImpl) effectiveTimes(u user.User) (string, string) {
	checkIn := s.defaults.DefaultCheckInTime
	if u.CheckInTime != nil {
		checkIn = *u.CheckInTime
	}
	checkOut := s.defaults.DefaultCheckOutTime
	if u.CheckOutTime != nil {
		checkOut = *u.CheckOutTime
	}
	return checkIn, checkOut
}

func toEmployeeResponse(u user.User) user.EmployeeResponse {
	return user.EmployeeResponse{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Role:         string(u.Role),
		CheckInTime:  u.CheckInTime,
		CheckOutTime: u.CheckOutTime,
		CreatedAt:    u.CreatedAt.Format(time.RFC3339),
	}
}

func buildStats(counts map[shift.Status]int64) user.EmployeeStats {
	return user.NewEmployeeStats(
		int(counts[shift.StatusEarly]),
		int(counts[shift.StatusOnTime]),
		int(counts[shift.StatusLate]),
		int(counts[shift.StatusAbsent]),
		int(counts[shift.StatusNoCheckout]),
	)
}
