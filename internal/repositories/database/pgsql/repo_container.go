package pgsql

import (
	portsrepo "github.com/FieldOpsLabs/inspection_tracking_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	organizationRepo := newPgxOrganizationRepository(dbPool)
	userRepo := newPgxUserRepository(dbPool)
	workflowRepo := newPgxWorkflowRepository(dbPool)
	inspectionRepo := newPgxInspectionRepository(dbPool)

	return portsrepo.RepositoryProvider{
		OrganizationRepo: organizationRepo,
		UserRepo:         userRepo,
		WorkflowRepo:     workflowRepo,
		InspectionRepo:   inspectionRepo,
	}
}
