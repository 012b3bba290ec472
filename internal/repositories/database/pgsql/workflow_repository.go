package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/FieldOpsLabs/inspection_tracking_app/internal/apperrors"
	"github.com/FieldOpsLabs/inspection_tracking_app/internal/core/domain"
	portsrepo "github.com/FieldOpsLabs/inspection_tracking_app/internal/core/ports/repositories"
	"github.com/FieldOpsLabs/inspection_tracking_app/internal/models"
	"github.com/FieldOpsLabs/inspection_tracking_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxWorkflowRepository struct {
	db *pgxpool.Pool
}

// newPgxWorkflowRepository creates a new repository for workflow template data.
func newPgxWorkflowRepository(db *pgxpool.Pool) portsrepo.WorkflowRepositoryFacade {
	return &PgxWorkflowRepository{db: db}
}

// Ensure PgxWorkflowRepository implements portsrepo.WorkflowRepositoryFacade
var _ portsrepo.WorkflowRepositoryFacade = (*PgxWorkflowRepository)(nil)

var FULL_WORKFLOW_SELECT_QUERY = `
SELECT
	w.workflow_id, w.name, w.category, w.description, w.steps, w.organization_id,
	w.auto_approval_enabled, w.auto_approval_rules, w.bulk_approval_enabled,
	w.created_at, w.created_by, w.last_updated_at, w.last_updated_by, w.version,
	w.deleted_at
FROM workflows w
`

// getWorkflows private func to run the select query with the given filters
func (r *PgxWorkflowRepository) getWorkflows(ctx context.Context, filterQuery string, args ...any) ([]domain.Workflow, error) {
	query := FULL_WORKFLOW_SELECT_QUERY + filterQuery
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query workflows", err)
	}
	defer rows.Close()
	modelWorkflows, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Workflow])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.Workflow{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect workflow rows", err)
	}

	return mapping.ToDomainWorkflowSlice(modelWorkflows), nil
}

func (r *PgxWorkflowRepository) SaveWorkflow(ctx context.Context, workflow domain.Workflow) error {
	modelWorkflow := mapping.ToModelWorkflow(workflow)
	query := `
		INSERT INTO workflows (
			workflow_id, name, category, description, steps, organization_id,
			auto_approval_enabled, auto_approval_rules, bulk_approval_enabled,
			created_at, created_by, last_updated_at, last_updated_by, version
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := r.db.Exec(ctx, query,
		modelWorkflow.WorkflowID,
		modelWorkflow.Name,
		modelWorkflow.Category,
		modelWorkflow.Description,
		modelWorkflow.Steps,
		modelWorkflow.OrganizationID,
		modelWorkflow.AutoApprovalEnabled,
		modelWorkflow.AutoApprovalRules,
		modelWorkflow.BulkApprovalEnabled,
		modelWorkflow.CreatedAt,
		modelWorkflow.CreatedBy,
		modelWorkflow.LastUpdatedAt,
		modelWorkflow.LastUpdatedBy,
		1,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" { // unique_violation
				return apperrors.NewConflictError("workflow ID " + workflow.WorkflowID + " already exists")
			}
			if pgErr.Code == "23503" && pgErr.ConstraintName == "fk_workflows_organization" {
				return apperrors.NewValidationFailedError("organization does not exist")
			}
		}
		return apperrors.NewAppError(500, "failed to save workflow "+workflow.WorkflowID, err)
	}
	return nil
}

func (r *PgxWorkflowRepository) FindWorkflowByID(ctx context.Context, workflowID string) (*domain.Workflow, error) {
	query := `WHERE w.workflow_id = $1 AND w.deleted_at IS NULL`
	workflows, err := r.getWorkflows(ctx, query, workflowID)
	if err != nil {
		return nil, err
	}
	if len(workflows) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &workflows[0], nil
}

func (r *PgxWorkflowRepository) ListWorkflowsByOrganization(ctx context.Context, organizationID string, limit, offset int) ([]domain.Workflow, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	query := `WHERE w.organization_id = $1 AND w.deleted_at IS NULL ORDER BY w.name LIMIT $2 OFFSET $3`
	return r.getWorkflows(ctx, query, organizationID, limit, offset)
}

func (r *PgxWorkflowRepository) UpdateWorkflow(ctx context.Context, workflow domain.Workflow) error {
	modelWorkflow := mapping.ToModelWorkflow(workflow)
	query := `
		UPDATE workflows
		SET name = $1, category = $2, description = $3, steps = $4,
		    auto_approval_enabled = $5, auto_approval_rules = $6, bulk_approval_enabled = $7,
		    last_updated_at = $8, last_updated_by = $9, version = version + 1
		WHERE workflow_id = $10 AND version = $11 AND deleted_at IS NULL;
	`
	cmdTag, err := r.db.Exec(ctx, query,
		modelWorkflow.Name,
		modelWorkflow.Category,
		modelWorkflow.Description,
		modelWorkflow.Steps,
		modelWorkflow.AutoApprovalEnabled,
		modelWorkflow.AutoApprovalRules,
		modelWorkflow.BulkApprovalEnabled,
		modelWorkflow.LastUpdatedAt,
		modelWorkflow.LastUpdatedBy,
		modelWorkflow.WorkflowID,
		modelWorkflow.Version,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update workflow "+workflow.WorkflowID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("optimistic locking failed: workflow " + workflow.WorkflowID)
	}
	return nil
}

func (r *PgxWorkflowRepository) MarkWorkflowDeleted(ctx context.Context, workflowID string, deletedAt time.Time, deleterUserID string) error {
	query := `
		UPDATE workflows
		SET deleted_at = $1, last_updated_at = $1, last_updated_by = $2, version = version + 1
		WHERE workflow_id = $3 AND deleted_at IS NULL;
	`
	cmdTag, err := r.db.Exec(ctx, query, deletedAt, deleterUserID, workflowID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to mark workflow as deleted", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
