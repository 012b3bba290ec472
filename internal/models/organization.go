package models

// OrganizationSettings is stored as a jsonb column on organizations.
type OrganizationSettings struct {
	AllowUserInvites      bool `json:"allowUserInvites"`
	RequireApproverReview bool `json:"requireApproverReview"`
}

// CustomRole is one element of the jsonb custom_roles column.
type CustomRole struct {
	RoleID      string   `json:"roleID"`
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
}

// Organization represents a row in the organizations table.
type Organization struct {
	OrganizationID string               `db:"organization_id"`
	Name           string               `db:"name"`
	Address        string               `db:"address"`
	Phone          string               `db:"phone"`
	Email          string               `db:"email"`
	Settings       OrganizationSettings `db:"settings"`     // jsonb
	Size           string               `db:"size"`         // small|medium|large|enterprise
	CustomRoles    []CustomRole         `db:"custom_roles"` // jsonb
	IsDefault      bool                 `db:"is_default"`
	IsActive       bool                 `db:"is_active"`
	AuditFields
}
