package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/FieldOpsLabs/inspection_tracking_app/internal/apperrors"
	"github.com/FieldOpsLabs/inspection_tracking_app/internal/core/domain"
	portsrepo "github.com/FieldOpsLabs/inspection_tracking_app/internal/core/ports/repositories"
	portssvc "github.com/FieldOpsLabs/inspection_tracking_app/internal/core/ports/services"
	"github.com/FieldOpsLabs/inspection_tracking_app/internal/dto"
	"github.com/google/uuid"
)

// workflowService implements the WorkflowSvcFacade interface
type workflowService struct {
	BaseService
	workflowRepo portsrepo.WorkflowRepositoryFacade
}

// NewWorkflowService creates a new workflow service with the provided dependencies
func NewWorkflowService(workflowRepo portsrepo.WorkflowRepositoryFacade, opts ...func(*workflowService)) portssvc.WorkflowSvcFacade {
	svc := &workflowService{
		workflowRepo: workflowRepo,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// WithWorkflowOrganizationAuthorizer injects the organization authorizer dependency.
func WithWorkflowOrganizationAuthorizer(authorizer portssvc.OrganizationAuthorizerSvc) func(*workflowService) {
	return func(s *workflowService) {
		s.OrganizationAuthorizer = authorizer
	}
}

// Ensure workflowService implements the WorkflowSvcFacade interface
var _ portssvc.WorkflowSvcFacade = (*workflowService)(nil)

// GetWorkflowByID retrieves a workflow scoped to an organization
func (s *workflowService) GetWorkflowByID(ctx context.Context, organizationID, workflowID string, requestingUserID string) (*domain.Workflow, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, organizationID, domain.RoleGuest); err != nil {
		return nil, err
	}

	workflow, err := s.workflowRepo.FindWorkflowByID(ctx, workflowID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find workflow by ID",
				slog.String("workflow_id", workflowID))
		}
		return nil, err
	}

	// A workflow of another organization is invisible, not forbidden.
	if workflow.OrganizationID != organizationID {
		return nil, apperrors.ErrNotFound
	}
	return workflow, nil
}

// ListWorkflows retrieves an organization's workflows
func (s *workflowService) ListWorkflows(ctx context.Context, organizationID string, requestingUserID string, limit, offset int) ([]domain.Workflow, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, organizationID, domain.RoleGuest); err != nil {
		return nil, err
	}

	workflows, err := s.workflowRepo.ListWorkflowsByOrganization(ctx, organizationID, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list workflows for organization",
			slog.String("organization_id", organizationID))
		return nil, err
	}

	if workflows == nil {
		return []domain.Workflow{}, nil
	}
	return workflows, nil
}

// CreateWorkflow persists a new workflow template (admin only)
func (s *workflowService) CreateWorkflow(ctx context.Context, organizationID string, req dto.CreateWorkflowRequest, creatorUserID string) (*domain.Workflow, error) {
	if err := s.AuthorizeUser(ctx, creatorUserID, organizationID, domain.RoleAdmin); err != nil {
		return nil, err
	}

	now := time.Now()
	workflow := domain.Workflow{
		WorkflowID:          uuid.NewString(),
		Name:                req.Name,
		Category:            req.Category,
		Description:         req.Description,
		Steps:               buildWorkflowSteps(req.Steps),
		OrganizationID:      organizationID,
		AutoApprovalEnabled: req.AutoApprovalEnabled,
		AutoApprovalRules:   buildAutoApprovalRules(req.AutoApprovalRules),
		BulkApprovalEnabled: req.BulkApprovalEnabled,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
			Version:       1,
		},
	}

	if err := workflow.Validate(); err != nil {
		return nil, apperrors.NewValidationFailedError(err.Error())
	}

	if err := s.workflowRepo.SaveWorkflow(ctx, workflow); err != nil {
		s.LogError(ctx, err, "Failed to save workflow",
			slog.String("workflow_id", workflow.WorkflowID))
		return nil, err
	}

	s.LogInfo(ctx, "Workflow created successfully",
		slog.String("workflow_id", workflow.WorkflowID),
		slog.String("organization_id", organizationID))
	return &workflow, nil
}

// UpdateWorkflow applies partial updates to a workflow (admin only).
// A new step sequence replaces the existing one wholesale.
func (s *workflowService) UpdateWorkflow(ctx context.Context, organizationID, workflowID string, req dto.UpdateWorkflowRequest, updaterUserID string) (*domain.Workflow, error) {
	if err := s.AuthorizeUser(ctx, updaterUserID, organizationID, domain.RoleAdmin); err != nil {
		return nil, err
	}

	workflow, err := s.workflowRepo.FindWorkflowByID(ctx, workflowID)
	if err != nil {
		return nil, err
	}
	if workflow.OrganizationID != organizationID {
		return nil, apperrors.ErrNotFound
	}

	if req.Name != nil {
		workflow.Name = *req.Name
	}
	if req.Category != nil {
		workflow.Category = *req.Category
	}
	if req.Description != nil {
		workflow.Description = *req.Description
	}
	if req.Steps != nil {
		workflow.Steps = buildWorkflowSteps(req.Steps)
	}
	if req.AutoApprovalEnabled != nil {
		workflow.AutoApprovalEnabled = *req.AutoApprovalEnabled
		if !workflow.AutoApprovalEnabled {
			workflow.AutoApprovalRules = nil
		}
	}
	if req.AutoApprovalRules != nil {
		workflow.AutoApprovalRules = buildAutoApprovalRules(req.AutoApprovalRules)
	}
	if req.BulkApprovalEnabled != nil {
		workflow.BulkApprovalEnabled = *req.BulkApprovalEnabled
	}

	if err := workflow.Validate(); err != nil {
		return nil, apperrors.NewValidationFailedError(err.Error())
	}

	workflow.LastUpdatedAt = time.Now()
	workflow.LastUpdatedBy = updaterUserID

	if err := s.workflowRepo.UpdateWorkflow(ctx, *workflow); err != nil {
		s.LogError(ctx, err, "Failed to update workflow",
			slog.String("workflow_id", workflowID))
		return nil, err
	}
	workflow.Version++

	s.LogInfo(ctx, "Workflow updated successfully",
		slog.String("workflow_id", workflowID),
		slog.String("updater_id", updaterUserID))
	return workflow, nil
}

// DeleteWorkflow soft deletes a workflow (admin only)
func (s *workflowService) DeleteWorkflow(ctx context.Context, organizationID, workflowID string, deleterUserID string) error {
	if err := s.AuthorizeUser(ctx, deleterUserID, organizationID, domain.RoleAdmin); err != nil {
		return err
	}

	workflow, err := s.workflowRepo.FindWorkflowByID(ctx, workflowID)
	if err != nil {
		return err
	}
	if workflow.OrganizationID != organizationID {
		return apperrors.ErrNotFound
	}

	if err := s.workflowRepo.MarkWorkflowDeleted(ctx, workflowID, time.Now(), deleterUserID); err != nil {
		s.LogError(ctx, err, "Failed to mark workflow deleted",
			slog.String("workflow_id", workflowID))
		return err
	}

	s.LogInfo(ctx, "Workflow deleted",
		slog.String("workflow_id", workflowID),
		slog.String("deleter_id", deleterUserID))
	return nil
}

// buildWorkflowSteps assigns step IDs, preserving the request order.
func buildWorkflowSteps(reqs []dto.WorkflowStepRequest) []domain.WorkflowStep {
	steps := make([]domain.WorkflowStep, len(reqs))
	for i, r := range reqs {
		steps[i] = domain.WorkflowStep{
			StepID:        uuid.NewString(),
			Title:         r.Title,
			Instructions:  r.Instructions,
			MediaRequired: r.MediaRequired,
		}
	}
	return steps
}

// buildAutoApprovalRules assigns rule IDs to incoming rule definitions.
func buildAutoApprovalRules(reqs []dto.AutoApprovalRuleRequest) []domain.AutoApprovalRule {
	if len(reqs) == 0 {
		return nil
	}
	rules := make([]domain.AutoApprovalRule, len(reqs))
	for i, r := range reqs {
		rules[i] = domain.AutoApprovalRule{
			RuleID:          uuid.NewString(),
			TimeRangeStart:  r.TimeRangeStart,
			TimeRangeEnd:    r.TimeRangeEnd,
			MinValue:        r.MinValue,
			MaxValue:        r.MaxValue,
			ValueField:      r.ValueField,
			RequirePhoto:    r.RequirePhoto,
			FrequencyLimit:  r.FrequencyLimit,
			FrequencyPeriod: r.FrequencyPeriod,
		}
	}
	return rules
}
