package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/shiftdesk/attendance-backend-go/internal/domain/auth"
	"github.com/shiftdesk/attendance-backend-go/internal/domain/user"
	"github.com/shiftdesk/attendance-backend-go/internal/pkg/database"
	"github.com/shiftdesk/attendance-backend-go/internal/pkg/jwt"
	"github.com/shiftdesk/attendance-backend-go/internal/repository/postgresql"
)

type AuthServiceImpl struct {
	db        *database.DB
	userRepo  user.Repository
	tokenRepo auth.RefreshTokenRepository
	jwtSvc    jwt.Service
}

func NewAuthService(db *database.DB, userRepo user.Repository, tokenRepo auth.RefreshTokenRepository, jwtSvc jwt.Service) auth.Service {
	return &AuthServiceImpl{
		db:        db,
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		jwtSvc:    jwtSvc,
	}
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// Login implements auth.Service.
func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest) (auth.LoginResponse, error) {
	userData, err := a.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.LoginResponse{}, auth.ErrInvalidCredentials
		}
		return auth.LoginResponse{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(userData.PasswordHash), []byte(req.Password)); err != nil {
		return auth.LoginResponse{}, auth.ErrInvalidCredentials
	}

	return a.issueTokens(ctx, userData)
}

// LoginWithGoogle implements auth.Service. Only accounts that already
// exist can sign in with Google; there is no self-registration.
func (a *AuthServiceImpl) LoginWithGoogle(ctx context.Context, email string) (auth.LoginResponse, error) {
	userData, err := a.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.LoginResponse{}, auth.ErrOAuthEmailUnknown
		}
		return auth.LoginResponse{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	return a.issueTokens(ctx, userData)
}

// Refresh implements auth.Service.
func (a *AuthServiceImpl) Refresh(ctx context.Context, refreshToken string) (auth.LoginResponse, error) {
	userID, err := a.jwtSvc.ValidateRefreshToken(refreshToken)
	if err != nil {
		return auth.LoginResponse{}, auth.ErrInvalidToken
	}

	stored, err := a.tokenRepo.GetByHash(ctx, hashToken(refreshToken))
	if err != nil {
		if errors.Is(err, auth.ErrInvalidToken) {
			return auth.LoginResponse{}, auth.ErrInvalidToken
		}
		return auth.LoginResponse{}, fmt.Errorf("failed to look up refresh token: %w", err)
	}

	if stored.Revoked() {
		return auth.LoginResponse{}, auth.ErrRefreshTokenRevoked
	}
	if stored.Expired(time.Now()) {
		return auth.LoginResponse{}, auth.ErrTokenExpired
	}

	userData, err := a.userRepo.GetByID(ctx, userID)
	if err != nil {
		return auth.LoginResponse{}, fmt.Errorf("failed to get user: %w", err)
	}

	// Rotate: revoke the used token and issue a fresh pair
	var response auth.LoginResponse
	err = postgresql.WithTransaction(ctx, a.db, func(txCtx context.Context) error {
		if err := a.tokenRepo.Revoke(txCtx, stored.ID); err != nil {
			return fmt.Errorf("failed to revoke refresh token: %w", err)
		}
		response, err = a.issueTokens(txCtx, userData)
		return err
	})
	if err != nil {
		return auth.LoginResponse{}, err
	}

	return response, nil
}

// Logout implements auth.Service.
func (a *AuthServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	stored, err := a.tokenRepo.GetByHash(ctx, hashToken(refreshToken))
	if err != nil {
		if errors.Is(err, auth.ErrInvalidToken) {
			// Unknown token; logout is idempotent
			return nil
		}
		return fmt.Errorf("failed to look up refresh token: %w", err)
	}
	if stored.Revoked() {
		return nil
	}

	if err := a.tokenRepo.Revoke(ctx, stored.ID); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}

func (a *AuthServiceImpl) issueTokens(ctx context.Context, userData user.User) (auth.LoginResponse, error) {
	accessToken, accessExpiresAt, err := a.jwtSvc.GenerateAccessToken(userData.ID, userData.Email, userData.Role)
	if err != nil {
		return auth.LoginResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}

	refreshToken, refreshExpiresAt, err := a.jwtSvc.GenerateRefreshToken(userData.ID)
	if err != nil {
		return auth.LoginResponse{}, fmt.Errorf("failed to create refresh token: %w", err)
	}

	_, err = a.tokenRepo.Create(ctx, auth.RefreshToken{
		UserID:    userData.ID,
		TokenHash: hashToken(refreshToken),
		ExpiresAt: time.Unix(refreshExpiresAt, 0),
	})
	if err != nil {
		return auth.LoginResponse{}, fmt.Errorf("failed to save refresh token: %w", err)
	}

	return auth.LoginResponse{
		AccessToken:      accessToken,
		AccessExpiresAt:  accessExpiresAt,
		RefreshToken:     refreshToken,
		RefreshExpiresAt: refreshExpiresAt,
		User: auth.UserResponse{
			ID:    userData.ID,
			Name:  userData.Name,
			Email: userData.Email,
			Role:  string(userData.Role),
		},
	}, nil
}
