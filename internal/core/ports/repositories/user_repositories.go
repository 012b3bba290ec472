package repositories

import (
	"context"
	"time"

	"github.com/FieldOpsLabs/inspection_tracking_app/internal/core/domain"
)

// UserRepository defines persistence operations for user data.
type UserRepository interface {
	// SaveUser persists a new user.
	SaveUser(ctx context.Context, user domain.User) error

	// FindUserByID retrieves a user by ID, excluding soft-deleted users.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	// FindUserByUsername retrieves a user by username for authentication.
	FindUserByUsername(ctx context.Context, username string) (*domain.User, error)

	// FindUserByEmail retrieves a user by email address.
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// FindUserByProviderDetails retrieves a user by external auth provider identity.
	FindUserByProviderDetails(ctx context.Context, authProvider string, providerUserID string) (*domain.User, error)

	// FindUsersByOrganization retrieves the users of an organization.
	FindUsersByOrganization(ctx context.Context, organizationID string, limit, offset int) ([]domain.User, error)

	// UpdateUser persists changes to an existing user.
	UpdateUser(ctx context.Context, user domain.User) error

	// MarkUserDeleted soft deletes a user.
	MarkUserDeleted(ctx context.Context, userID string, deletedAt time.Time, deleterUserID string) error

	// UpdateRefreshToken stores the hash and expiry of a newly issued refresh token.
	UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, refreshTokenExpiryTime time.Time) error

	// ClearRefreshToken removes any stored refresh token for the user.
	ClearRefreshToken(ctx context.Context, userID string) error
}
