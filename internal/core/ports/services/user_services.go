package services

import (
	"context"
	"time"

	"github.com/FieldOpsLabs/inspection_tracking_app/internal/core/domain"
	"github.com/FieldOpsLabs/inspection_tracking_app/internal/dto"
)

// UserReaderSvc defines read operations for user data.
type UserReaderSvc interface {
	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)

	// GetUserByUsername retrieves a user by username for authentication.
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)

	// ListUsers retrieves the users of an organization, visible to members only.
	ListUsers(ctx context.Context, organizationID string, requestingUserID string, limit, offset int) ([]domain.User, error)
}

// UserWriterSvc defines write operations for user data.
type UserWriterSvc interface {
	// CreateUser registers a new user with a hashed password.
	CreateUser(ctx context.Context, req dto.CreateUserRequest) (*domain.User, error)

	// CreateUserInOrganization creates a user inside an organization on behalf
	// of an existing member. Requires an organization admin unless the
	// organization allows member invites.
	CreateUserInOrganization(ctx context.Context, organizationID string, req dto.CreateUserRequest, creatorUserID string) (*domain.User, error)

	// UpdateUser applies partial updates to a user.
	UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest, updaterUserID string) (*domain.User, error)

	// DeleteUser soft deletes a user.
	DeleteUser(ctx context.Context, userID string, deleterUserID string) error

	// FindOrCreateUserByProvider provisions a user from an external identity
	// provider, reusing an existing account matched by provider details or email.
	FindOrCreateUserByProvider(ctx context.Context, authProvider, providerUserID, email, name string) (*domain.User, error)
}

// UserTokenSvc defines refresh-token bookkeeping against the user store.
type UserTokenSvc interface {
	// StoreRefreshTokenHash records the hash and expiry of an issued refresh token.
	StoreRefreshTokenHash(ctx context.Context, userID string, tokenHash string, expiryTime time.Time) error

	// ClearRefreshToken invalidates any stored refresh token for the user.
	ClearRefreshToken(ctx context.Context, userID string) error
}

// UserSvcFacade combines all user-related service interfaces.
type UserSvcFacade interface {
	UserReaderSvc
	UserWriterSvc
	UserTokenSvc
}
