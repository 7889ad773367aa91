package user

import "context"

// Repository defines data access methods for users.
type Repository interface {
	// Create creates a new user
	Create(ctx context.Context, u User) (User, error)

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id string) (User, error)

	// GetByEmail retrieves a user by email (lowercased)
	GetByEmail(ctx context.Context, email string) (User, error)

	// List retrieves all users, newest first
	List(ctx context.Context) ([]User, error)

	// ListByRole retrieves all users with the given role
	ListByRole(ctx context.Context, role Role) ([]User, error)

	// Update updates an existing user
	Update(ctx context.Context, u User) error

	// Delete removes a user and cascades to their records
	Delete(ctx context.Context, id string) error
}
