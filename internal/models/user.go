package models

import (
	"database/sql"
	"time"
)

// User represents a row in the users table.
// Includes username and password hash for authentication.
type User struct {
	UserID         string         `db:"user_id"`
	Username       string         `db:"username"`
	PasswordHash   string         `db:"password_hash"`
	Name           string         `db:"name"`
	Email          string         `db:"email"`
	Role           string         `db:"role"`
	OrganizationID string         `db:"organization_id"`
	CustomRoleID   sql.NullString `db:"custom_role_id"`
	Permissions    []string       `db:"permissions"` // jsonb
	AuditFields
	DeletedAt *time.Time `db:"deleted_at"`

	// External auth provider details
	AuthProvider   sql.NullString `db:"auth_provider"`
	ProviderUserID sql.NullString `db:"provider_user_id"`

	// Refresh token fields
	RefreshTokenHash       sql.NullString `db:"refresh_token_hash"`
	RefreshTokenExpiryTime sql.NullTime   `db:"refresh_token_expiry_time"`
}
