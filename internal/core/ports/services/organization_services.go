package services

import (
	"context"

	"github.com/FieldOpsLabs/inspection_tracking_app/internal/core/domain"
	"github.com/FieldOpsLabs/inspection_tracking_app/internal/dto"
)

// OrganizationReaderSvc defines read operations for organization data.
type OrganizationReaderSvc interface {
	// GetOrganizationByID retrieves an organization the requesting user belongs to.
	GetOrganizationByID(ctx context.Context, organizationID string, requestingUserID string) (*domain.Organization, error)

	// ListMyOrganizations retrieves the organizations the caller is a member of.
	ListMyOrganizations(ctx context.Context, requestingUserID string) ([]domain.Organization, error)
}

// OrganizationWriterSvc defines write operations for organization data.
type OrganizationWriterSvc interface {
	// CreateOrganization persists a new organization and promotes the creator to admin.
	CreateOrganization(ctx context.Context, req dto.CreateOrganizationRequest, creatorUserID string) (*domain.Organization, error)

	// UpdateOrganization updates details, settings and custom roles (admin only).
	UpdateOrganization(ctx context.Context, organizationID string, req dto.UpdateOrganizationRequest, requestingUserID string) (*domain.Organization, error)

	// DeactivateOrganization marks an organization as inactive (admin only).
	DeactivateOrganization(ctx context.Context, organizationID string, requestingUserID string) error

	// ActivateOrganization marks an organization as active (admin only).
	ActivateOrganization(ctx context.Context, organizationID string, requestingUserID string) error
}

// OrganizationAuthorizerSvc defines operations for organization-scoped authorization.
type OrganizationAuthorizerSvc interface {
	// AuthorizeUserAction checks that a user belongs to the organization and holds
	// the required role (admins always pass). Returns apperrors.ErrNotFound when
	// the user is not a member and apperrors.ErrForbidden on insufficient role.
	AuthorizeUserAction(ctx context.Context, userID, organizationID string, requiredRole domain.UserRole) error
}

// OrganizationSvcFacade combines all organization-related service interfaces.
type OrganizationSvcFacade interface {
	OrganizationReaderSvc
	OrganizationWriterSvc
	OrganizationAuthorizerSvc
}
