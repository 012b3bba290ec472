package domain

// OrganizationSize categorizes an organization by headcount.
type OrganizationSize string

const (
	SizeSmall      OrganizationSize = "small"
	SizeMedium     OrganizationSize = "medium"
	SizeLarge      OrganizationSize = "large"
	SizeEnterprise OrganizationSize = "enterprise"
)

// IsValid reports whether the size is one of the known categories.
func (s OrganizationSize) IsValid() bool {
	switch s {
	case SizeSmall, SizeMedium, SizeLarge, SizeEnterprise:
		return true
	}
	return false
}

// OrganizationSettings holds per-tenant behavioral switches.
type OrganizationSettings struct {
	AllowUserInvites      bool `json:"allowUserInvites"`
	RequireApproverReview bool `json:"requireApproverReview"`
}

// CustomRole is an organization-defined role with an explicit permission list.
type CustomRole struct {
	RoleID      string   `json:"roleID"`
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
}

// Organization is the top-level tenant owning users, workflows and inspections.
type Organization struct {
	OrganizationID string               `json:"organizationID"` // Primary Key (UUID)
	Name           string               `json:"name"`
	Address        string               `json:"address"`
	Phone          string               `json:"phone"`
	Email          string               `json:"email"`
	Settings       OrganizationSettings `json:"settings"`
	Size           OrganizationSize     `json:"size"`
	CustomRoles    []CustomRole         `json:"customRoles,omitempty"`
	IsDefault      bool                 `json:"isDefault"` // Sandbox tenant new users land in
	IsActive       bool                 `json:"isActive"`
	AuditFields
}
