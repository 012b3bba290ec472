package services

import (
	"context"

	"github.com/FieldOpsLabs/inspection_tracking_app/internal/core/domain"
	"github.com/FieldOpsLabs/inspection_tracking_app/internal/dto"
)

// WorkflowReaderSvc defines read operations for workflow templates.
type WorkflowReaderSvc interface {
	// GetWorkflowByID retrieves a workflow scoped to an organization.
	GetWorkflowByID(ctx context.Context, organizationID, workflowID string, requestingUserID string) (*domain.Workflow, error)

	// ListWorkflows retrieves an organization's workflows.
	ListWorkflows(ctx context.Context, organizationID string, requestingUserID string, limit, offset int) ([]domain.Workflow, error)
}

// WorkflowWriterSvc defines write operations for workflow templates.
type WorkflowWriterSvc interface {
	// CreateWorkflow persists a new workflow template (admin only).
	CreateWorkflow(ctx context.Context, organizationID string, req dto.CreateWorkflowRequest, creatorUserID string) (*domain.Workflow, error)

	// UpdateWorkflow applies partial updates to a workflow (admin only).
	UpdateWorkflow(ctx context.Context, organizationID, workflowID string, req dto.UpdateWorkflowRequest, updaterUserID string) (*domain.Workflow, error)

	// DeleteWorkflow soft deletes a workflow (admin only).
	DeleteWorkflow(ctx context.Context, organizationID, workflowID string, deleterUserID string) error
}

// WorkflowSvcFacade combines all workflow-related service interfaces.
type WorkflowSvcFacade interface {
	WorkflowReaderSvc
	WorkflowWriterSvc
}
