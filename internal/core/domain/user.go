package domain

import "time"

// UserRole defines the built-in roles a user can hold within an organization.
type UserRole string

const (
	RoleAdmin     UserRole = "admin"
	RoleInspector UserRole = "inspector"
	RoleApprover  UserRole = "approver"
	RoleGuest     UserRole = "guest"
)

// AuthProviderType identifies an external identity provider.
type AuthProviderType string

const (
	ProviderGoogle AuthProviderType = "google"
)

// IsValid reports whether the role is one of the built-in roles.
func (r UserRole) IsValid() bool {
	switch r {
	case RoleAdmin, RoleInspector, RoleApprover, RoleGuest:
		return true
	}
	return false
}

// User represents a user of the application in the domain.
// CustomRoleID and Permissions are only set when the user holds an
// organization-defined role instead of a built-in one.
type User struct {
	UserID         string   `json:"userID"` // Primary Key (UUID)
	Username       string   `json:"username"`
	PasswordHash   string   `json:"-"`
	Name           string   `json:"name"`
	Email          string   `json:"email"`
	Role           UserRole `json:"role"`
	OrganizationID string   `json:"organizationID"`
	CustomRoleID   *string  `json:"customRoleID,omitempty"`
	Permissions    []string `json:"permissions,omitempty"`
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty"` // Used for soft delete

	// External auth provider details (e.g., Google sign-in)
	AuthProvider   *string `json:"-"`
	ProviderUserID *string `json:"-"`

	// Refresh token state
	RefreshTokenHash       string     `json:"-"`
	RefreshTokenExpiryTime *time.Time `json:"-"`
}
