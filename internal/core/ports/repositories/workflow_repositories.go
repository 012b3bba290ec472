package repositories

import (
	"context"
	"time"

	"github.com/FieldOpsLabs/inspection_tracking_app/internal/core/domain"
)

// WorkflowReader defines read operations for workflow templates.
type WorkflowReader interface {
	// FindWorkflowByID retrieves a workflow by ID, excluding soft-deleted ones.
	FindWorkflowByID(ctx context.Context, workflowID string) (*domain.Workflow, error)

	// ListWorkflowsByOrganization retrieves an organization's workflows ordered by name.
	ListWorkflowsByOrganization(ctx context.Context, organizationID string, limit, offset int) ([]domain.Workflow, error)
}

// WorkflowWriter defines write operations for workflow templates.
type WorkflowWriter interface {
	// SaveWorkflow persists a new workflow.
	SaveWorkflow(ctx context.Context, workflow domain.Workflow) error

	// UpdateWorkflow persists changes using optimistic locking on the version column.
	UpdateWorkflow(ctx context.Context, workflow domain.Workflow) error

	// MarkWorkflowDeleted soft deletes a workflow.
	MarkWorkflowDeleted(ctx context.Context, workflowID string, deletedAt time.Time, deleterUserID string) error
}

// WorkflowRepositoryFacade combines all workflow repository interfaces.
type WorkflowRepositoryFacade interface {
	WorkflowReader
	WorkflowWriter
}
