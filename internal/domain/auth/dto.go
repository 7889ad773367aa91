package auth

import (
	"context"

	"github.com/shiftdesk/attendance-backend-go/internal/pkg/validator"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email must be a valid email address",
		})
	}

	if validator.IsEmpty(r.Password) {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type LoginResponse struct {
	AccessToken      string       `json:"access_token"`
	AccessExpiresAt  int64        `json:"access_expires_at"`
	RefreshToken     string       `json:"-"` // delivered as an HttpOnly cookie
	RefreshExpiresAt int64        `json:"-"`
	User             UserResponse `json:"user"`
}

type UserResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Service defines authentication business logic.
type Service interface {
	// Login verifies credentials and issues access/refresh tokens
	Login(ctx context.Context, req LoginRequest) (LoginResponse, error)

	// LoginWithGoogle issues tokens for an existing account matching the
	// verified Google email
	LoginWithGoogle(ctx context.Context, email string) (LoginResponse, error)

	// Refresh exchanges a valid refresh token for a new access token
	Refresh(ctx context.Context, refreshToken string) (LoginResponse, error)

	// Logout revokes the refresh token
	Logout(ctx context.Context, refreshToken string) error
}
