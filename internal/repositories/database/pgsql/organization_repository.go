package pgsql

import (
	"context"
	"errors"

	"github.com/FieldOpsLabs/inspection_tracking_app/internal/apperrors"
	"github.com/FieldOpsLabs/inspection_tracking_app/internal/core/domain"
	portsrepo "github.com/FieldOpsLabs/inspection_tracking_app/internal/core/ports/repositories"
	"github.com/FieldOpsLabs/inspection_tracking_app/internal/models"
	"github.com/FieldOpsLabs/inspection_tracking_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxOrganizationRepository struct {
	BaseRepository
}

// newPgxOrganizationRepository creates a new repository for organization data.
func newPgxOrganizationRepository(pool *pgxpool.Pool) portsrepo.OrganizationRepositoryWithTx {
	return &PgxOrganizationRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxOrganizationRepository implements portsrepo.OrganizationRepositoryWithTx
var _ portsrepo.OrganizationRepositoryWithTx = (*PgxOrganizationRepository)(nil)

var FULL_ORGANIZATION_SELECT_QUERY = `
SELECT
	o.organization_id, o.name, o.address, o.phone, o.email, o.settings, o.size,
	o.custom_roles, o.is_default, o.is_active,
	o.created_at, o.created_by, o.last_updated_at, o.last_updated_by, o.version
FROM organizations o
`

// getOrganizations private func to run the select query with the given filters
func (r *PgxOrganizationRepository) getOrganizations(ctx context.Context, filterQuery string, args ...any) ([]domain.Organization, error) {
	query := FULL_ORGANIZATION_SELECT_QUERY + filterQuery
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query organizations", err)
	}
	defer rows.Close()
	modelOrgs, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Organization])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) { // No rows is not an error for a list.
			return []domain.Organization{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect organization rows", err)
	}

	return mapping.ToDomainOrganizationSlice(modelOrgs), nil
}

func (r *PgxOrganizationRepository) SaveOrganization(ctx context.Context, org domain.Organization) error {
	modelOrg := mapping.ToModelOrganization(org)
	query := `
		INSERT INTO organizations (
			organization_id, name, address, phone, email, settings, size,
			custom_roles, is_default, is_active,
			created_at, created_by, last_updated_at, last_updated_by, version
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err := r.Pool.Exec(ctx, query,
		modelOrg.OrganizationID,
		modelOrg.Name,
		modelOrg.Address,
		modelOrg.Phone,
		modelOrg.Email,
		modelOrg.Settings,
		modelOrg.Size,
		modelOrg.CustomRoles,
		modelOrg.IsDefault,
		modelOrg.IsActive,
		modelOrg.CreatedAt,
		modelOrg.CreatedBy,
		modelOrg.LastUpdatedAt,
		modelOrg.LastUpdatedBy,
		1,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" { // unique_violation
				if pgErr.ConstraintName == "uq_organizations_default" {
					return apperrors.NewConflictError("a default organization already exists")
				}
				return apperrors.NewConflictError("organization ID " + org.OrganizationID + " already exists")
			}
		}
		return apperrors.NewAppError(500, "failed to save organization "+org.OrganizationID, err)
	}
	return nil
}

func (r *PgxOrganizationRepository) FindOrganizationByID(ctx context.Context, organizationID string) (*domain.Organization, error) {
	query := `WHERE o.organization_id = $1`
	orgs, err := r.getOrganizations(ctx, query, organizationID)
	if err != nil {
		return nil, err
	}
	if len(orgs) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &orgs[0], nil
}

func (r *PgxOrganizationRepository) FindDefaultOrganization(ctx context.Context) (*domain.Organization, error) {
	query := `WHERE o.is_default = true LIMIT 1`
	orgs, err := r.getOrganizations(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(orgs) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &orgs[0], nil
}

func (r *PgxOrganizationRepository) ListOrganizations(ctx context.Context, limit, offset int) ([]domain.Organization, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	query := `ORDER BY o.name LIMIT $1 OFFSET $2`
	return r.getOrganizations(ctx, query, limit, offset)
}

func (r *PgxOrganizationRepository) UpdateOrganization(ctx context.Context, org domain.Organization) error {
	modelOrg := mapping.ToModelOrganization(org)
	query := `
		UPDATE organizations
		SET name = $1, address = $2, phone = $3, email = $4, settings = $5, size = $6,
		    custom_roles = $7, last_updated_at = $8, last_updated_by = $9, version = version + 1
		WHERE organization_id = $10 AND version = $11;
	`
	result, err := r.Pool.Exec(ctx, query,
		modelOrg.Name,
		modelOrg.Address,
		modelOrg.Phone,
		modelOrg.Email,
		modelOrg.Settings,
		modelOrg.Size,
		modelOrg.CustomRoles,
		modelOrg.LastUpdatedAt,
		modelOrg.LastUpdatedBy,
		modelOrg.OrganizationID,
		modelOrg.Version,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update organization "+org.OrganizationID, err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("optimistic locking failed: organization " + org.OrganizationID)
	}
	return nil
}

// UpdateOrganizationStatus updates the is_active status of an organization
func (r *PgxOrganizationRepository) UpdateOrganizationStatus(ctx context.Context, org *domain.Organization, isActive bool, updatedByUserID string) error {
	query := `
		UPDATE organizations
		SET is_active = $1, last_updated_at = NOW(), last_updated_by = $2, version = version + 1
		WHERE organization_id = $3 AND version = $4;
	`
	result, err := r.Pool.Exec(ctx, query, isActive, updatedByUserID, org.OrganizationID, org.Version)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update organization status "+org.OrganizationID, err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("optimistic locking failed: organization " + org.OrganizationID)
	}
	return nil
}
