package user

import (
	"context"
	"strings"

	"github.com/shiftdesk/attendance-backend-go/internal/pkg/validator"
)

// ========================================
// EMPLOYEE DTOs
// ========================================

type CreateEmployeeRequest struct {
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Role     *string `json:"role,omitempty"` // defaults to EMPLOYEE
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}

	if !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email must be a valid email address",
		})
	}

	if len(r.Password) < 6 {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password must be at least 6 characters",
		})
	}

	if r.Role != nil {
		validRoles := []string{string(RoleAdmin), string(RoleManager), string(RoleEmployee)}
		if !validator.IsInSlice(strings.ToUpper(*r.Role), validRoles) {
			errs = append(errs, validator.ValidationError{
				Field:   "role",
				Message: "role must be one of: ADMIN, MANAGER, EMPLOYEE",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UpdateEmployeeRequest struct {
	ID           string  `json:"-"`
	Name         *string `json:"name,omitempty"`
	Email        *string `json:"email,omitempty"`
	Password     *string `json:"password,omitempty"`
	Role         *string `json:"role,omitempty"`
	CheckInTime  *string `json:"check_in_time,omitempty"`  // HH:mm
	CheckOutTime *string `json:"check_out_time,omitempty"` // HH:mm
}

func (r *UpdateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not be empty",
		})
	}

	if r.Email != nil && !validator.IsValidEmail(*r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email must be a valid email address",
		})
	}

	if r.Password != nil && len(*r.Password) < 6 {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password must be at least 6 characters",
		})
	}

	if r.Role != nil {
		validRoles := []string{string(RoleAdmin), string(RoleManager), string(RoleEmployee)}
		if !validator.IsInSlice(strings.ToUpper(*r.Role), validRoles) {
			errs = append(errs, validator.ValidationError{
				Field:   "role",
				Message: "role must be one of: ADMIN, MANAGER, EMPLOYEE",
			})
		}
	}

	if r.CheckInTime != nil && *r.CheckInTime != "" && !validator.IsValidTimeOfDay(*r.CheckInTime) {
		errs = append(errs, validator.ValidationError{
			Field:   "check_in_time",
			Message: "check_in_time must be in HH:mm format",
		})
	}

	if r.CheckOutTime != nil && *r.CheckOutTime != "" && !validator.IsValidTimeOfDay(*r.CheckOutTime) {
		errs = append(errs, validator.ValidationError{
			Field:   "check_out_time",
			Message: "check_out_time must be in HH:mm format",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// Red flag thresholds: an employee needs at least RedFlagMinRecords
// records before the late+absent rate (percent) is judged.
const (
	RedFlagMinRecords = 5
	RedFlagRatePct    = 30
)

// EmployeeStats summarizes one employee's attendance record counts.
type EmployeeStats struct {
	Total      int  `json:"total"`
	Early      int  `json:"early"`
	OnTime     int  `json:"on_time"`
	Late       int  `json:"late"`
	Absent     int  `json:"absent"`
	NoCheckout int  `json:"no_checkout"`
	OnTimeRate int  `json:"on_time_rate"`
	LateRate   int  `json:"late_rate"`
	AbsentRate int  `json:"absent_rate"`
	IsRedFlag  bool `json:"is_red_flag"`
}

// NewEmployeeStats derives the rates and red flag from raw counts.
func NewEmployeeStats(early, onTime, late, absent, noCheckout int) EmployeeStats {
	stats := EmployeeStats{
		Early:      early,
		OnTime:     onTime,
		Late:       late,
		Absent:     absent,
		NoCheckout: noCheckout,
	}
	stats.Total = early + onTime + late + absent + noCheckout

	if stats.Total > 0 {
		stats.OnTimeRate = (early + onTime) * 100 / stats.Total
		stats.LateRate = late * 100 / stats.Total
		stats.AbsentRate = absent * 100 / stats.Total

		problemRate := (late + absent) * 100 / stats.Total
		stats.IsRedFlag = stats.Total >= RedFlagMinRecords && problemRate > RedFlagRatePct
	}

	return stats
}

type EmployeeResponse struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Email        string         `json:"email"`
	Role         string         `json:"role"`
	CheckInTime  *string        `json:"check_in_time,omitempty"`
	CheckOutTime *string        `json:"check_out_time,omitempty"`
	CreatedAt    string         `json:"created_at"`
	Stats        *EmployeeStats `json:"stats,omitempty"`
}

type ListEmployeesResponse struct {
	Employees []EmployeeResponse `json:"employees"`
}

// EmployeeService defines admin-facing employee management.
type EmployeeService interface {
	// ListEmployees retrieves all non-admin users with attendance stats
	ListEmployees(ctx context.Context) (ListEmployeesResponse, error)

	// CreateEmployee creates a user account and emails the credentials
	CreateEmployee(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)

	// GetEmployee retrieves a single employee by ID
	GetEmployee(ctx context.Context, id string) (EmployeeResponse, error)

	// UpdateEmployee updates profile, role, password or shift times
	UpdateEmployee(ctx context.Context, req UpdateEmployeeRequest) (EmployeeResponse, error)

	// DeleteEmployee removes an employee and their attendance history.
	// Admins cannot delete their own account.
	DeleteEmployee(ctx context.Context, actorID, id string) error
}
