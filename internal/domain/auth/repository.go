package auth

import "context"

// RefreshTokenRepository defines data access methods for refresh tokens.
type RefreshTokenRepository interface {
	// Create stores a new refresh token hash
	Create(ctx context.Context, token RefreshToken) (RefreshToken, error)

	// GetByHash retrieves a token by its SHA-256 hash
	GetByHash(ctx context.Context, tokenHash string) (RefreshToken, error)

	// Revoke marks a token revoked
	Revoke(ctx context.Context, id string) error

	// RevokeAllForUser revokes every token belonging to a user
	RevokeAllForUser(ctx context.Context, userID string) error

	// DeleteExpired removes tokens past their expiry
	DeleteExpired(ctx context.Context) (int64, error)
}
