package dto

import (
	"time"

	"github.com/FieldOpsLabs/inspection_tracking_app/internal/core/domain"
)

// --- Organization DTOs ---

// OrganizationSettingsDTO mirrors the per-tenant behavioral switches.
type OrganizationSettingsDTO struct {
	AllowUserInvites      bool `json:"allowUserInvites"`
	RequireApproverReview bool `json:"requireApproverReview"`
}

// CustomRoleRequest defines an organization-scoped role with explicit permissions.
type CustomRoleRequest struct {
	Name        string   `json:"name" binding:"required"`
	Permissions []string `json:"permissions" binding:"required,min=1"`
}

// CreateOrganizationRequest defines data for creating a new organization.
type CreateOrganizationRequest struct {
	Name        string                   `json:"name" binding:"required"`
	Address     string                   `json:"address"`
	Phone       string                   `json:"phone"`
	Email       string                   `json:"email" binding:"omitempty,email"`
	Size        domain.OrganizationSize  `json:"size" binding:"required,oneof=small medium large enterprise"`
	Settings    *OrganizationSettingsDTO `json:"settings"`
	CustomRoles []CustomRoleRequest      `json:"customRoles" binding:"omitempty,dive"`
}

// UpdateOrganizationRequest defines the data allowed for updating an organization.
// Pointers differentiate omitted fields from zero-value fields.
type UpdateOrganizationRequest struct {
	Name        *string                  `json:"name"`
	Address     *string                  `json:"address"`
	Phone       *string                  `json:"phone"`
	Email       *string                  `json:"email" binding:"omitempty,email"`
	Size        *domain.OrganizationSize `json:"size" binding:"omitempty,oneof=small medium large enterprise"`
	Settings    *OrganizationSettingsDTO `json:"settings"`
	CustomRoles []CustomRoleRequest      `json:"customRoles" binding:"omitempty,dive"`
}

// CustomRoleResponse defines data returned for a custom role.
type CustomRoleResponse struct {
	RoleID      string   `json:"roleID"`
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
}

// OrganizationResponse defines data returned for an organization.
type OrganizationResponse struct {
	OrganizationID string                  `json:"organizationID"`
	Name           string                  `json:"name"`
	Address        string                  `json:"address,omitempty"`
	Phone          string                  `json:"phone,omitempty"`
	Email          string                  `json:"email,omitempty"`
	Settings       OrganizationSettingsDTO `json:"settings"`
	Size           domain.OrganizationSize `json:"size"`
	CustomRoles    []CustomRoleResponse    `json:"customRoles,omitempty"`
	IsDefault      bool                    `json:"isDefault"`
	IsActive       bool                    `json:"isActive"`
	CreatedAt      time.Time               `json:"createdAt"`
	CreatedBy      string                  `json:"createdBy"`
	LastUpdatedAt  time.Time               `json:"lastUpdatedAt"`
	LastUpdatedBy  string                  `json:"lastUpdatedBy"`
}

// ListOrganizationsResponse wraps the list of organizations.
type ListOrganizationsResponse struct {
	Organizations []OrganizationResponse `json:"organizations"`
}

// ToListOrganizationsResponse converts a slice of domain.Organization to DTO.
func ToListOrganizationsResponse(orgs []domain.Organization) ListOrganizationsResponse {
	responses := make([]OrganizationResponse, len(orgs))
	for i, org := range orgs {
		responses[i] = ToOrganizationResponse(&org)
	}
	return ListOrganizationsResponse{Organizations: responses}
}

// ToOrganizationResponse converts domain.Organization to DTO.
func ToOrganizationResponse(o *domain.Organization) OrganizationResponse {
	resp := OrganizationResponse{
		OrganizationID: o.OrganizationID,
		Name:           o.Name,
		Address:        o.Address,
		Phone:          o.Phone,
		Email:          o.Email,
		Settings: OrganizationSettingsDTO{
			AllowUserInvites:      o.Settings.AllowUserInvites,
			RequireApproverReview: o.Settings.RequireApproverReview,
		},
		Size:          o.Size,
		IsDefault:     o.IsDefault,
		IsActive:      o.IsActive,
		CreatedAt:     o.CreatedAt,
		CreatedBy:     o.CreatedBy,
		LastUpdatedAt: o.LastUpdatedAt,
		LastUpdatedBy: o.LastUpdatedBy,
	}
	if len(o.CustomRoles) > 0 {
		resp.CustomRoles = make([]CustomRoleResponse, len(o.CustomRoles))
		for i, r := range o.CustomRoles {
			resp.CustomRoles[i] = CustomRoleResponse{
				RoleID:      r.RoleID,
				Name:        r.Name,
				Permissions: r.Permissions,
			}
		}
	}
	return resp
}
