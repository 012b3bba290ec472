package repositories

import (
	"context"

	"github.com/FieldOpsLabs/inspection_tracking_app/internal/core/domain"
)

// OrganizationReader defines read operations for organization data.
type OrganizationReader interface {
	// FindOrganizationByID retrieves a specific organization by its ID.
	FindOrganizationByID(ctx context.Context, organizationID string) (*domain.Organization, error)

	// FindDefaultOrganization retrieves the organization flagged as the default
	// tenant, if one exists.
	FindDefaultOrganization(ctx context.Context) (*domain.Organization, error)

	// ListOrganizations retrieves organizations ordered by name.
	ListOrganizations(ctx context.Context, limit, offset int) ([]domain.Organization, error)
}

// OrganizationWriter defines write operations for organization data.
type OrganizationWriter interface {
	// SaveOrganization persists a new organization.
	SaveOrganization(ctx context.Context, org domain.Organization) error

	// UpdateOrganization persists changes to an existing organization using
	// optimistic locking on the version column.
	UpdateOrganization(ctx context.Context, org domain.Organization) error

	// UpdateOrganizationStatus toggles the is_active flag.
	UpdateOrganizationStatus(ctx context.Context, org *domain.Organization, isActive bool, updatedByUserID string) error
}

// OrganizationRepositoryFacade combines all organization repository interfaces.
type OrganizationRepositoryFacade interface {
	OrganizationReader
	OrganizationWriter
}

// OrganizationRepositoryWithTx extends the facade with transaction capabilities.
type OrganizationRepositoryWithTx interface {
	OrganizationRepositoryFacade
	TransactionManager
}
