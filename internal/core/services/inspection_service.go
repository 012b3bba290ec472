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
	"github.com/FieldOpsLabs/inspection_tracking_app/internal/utils"
	"github.com/google/uuid"
)

// meterReadingField is the only value field auto-approval bounds currently apply to.
const meterReadingField = "meterReading"

// inspectionService implements the InspectionSvcFacade interface
type inspectionService struct {
	BaseService
	inspectionRepo portsrepo.InspectionRepositoryWithTx
	workflowRepo   portsrepo.WorkflowReader
	userRepo       portsrepo.UserRepository
	orgRepo        portsrepo.OrganizationReader
}

// NewInspectionService creates a new inspection service with the provided dependencies
func NewInspectionService(
	inspectionRepo portsrepo.InspectionRepositoryWithTx,
	workflowRepo portsrepo.WorkflowReader,
	userRepo portsrepo.UserRepository,
	orgRepo portsrepo.OrganizationReader,
	opts ...func(*inspectionService),
) portssvc.InspectionSvcFacade {
	svc := &inspectionService{
		inspectionRepo: inspectionRepo,
		workflowRepo:   workflowRepo,
		userRepo:       userRepo,
		orgRepo:        orgRepo,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// WithInspectionOrganizationAuthorizer injects the organization authorizer dependency.
func WithInspectionOrganizationAuthorizer(authorizer portssvc.OrganizationAuthorizerSvc) func(*inspectionService) {
	return func(s *inspectionService) {
		s.OrganizationAuthorizer = authorizer
	}
}

// Ensure inspectionService implements the InspectionSvcFacade interface
var _ portssvc.InspectionSvcFacade = (*inspectionService)(nil)

// SubmitInspection validates a filled checklist against its workflow, evaluates
// the auto-approval policy and persists the inspection.
func (s *inspectionService) SubmitInspection(ctx context.Context, organizationID string, req dto.CreateInspectionRequest, inspectorID string) (*domain.Inspection, error) {
	if err := s.AuthorizeUser(ctx, inspectorID, organizationID, domain.RoleInspector); err != nil {
		return nil, err
	}

	workflow, err := s.workflowRepo.FindWorkflowByID(ctx, req.WorkflowID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewValidationFailedError("workflow " + req.WorkflowID + " does not exist")
		}
		return nil, err
	}
	if workflow.OrganizationID != organizationID {
		return nil, apperrors.NewValidationFailedError("workflow " + req.WorkflowID + " does not belong to this organization")
	}

	inspectionDate, err := utils.NormalizeDateString(req.InspectionDate)
	if err != nil {
		return nil, apperrors.NewValidationFailedError("invalid inspectionDate: " + req.InspectionDate)
	}

	now := time.Now()
	steps, err := buildFilledSteps(workflow, req.Steps, now)
	if err != nil {
		return nil, err
	}

	if req.BatchID != nil && !workflow.BulkApprovalEnabled {
		return nil, apperrors.NewValidationFailedError("workflow does not allow bulk approval batches")
	}

	inspection := domain.Inspection{
		InspectionID:   uuid.NewString(),
		WorkflowID:     workflow.WorkflowID,
		WorkflowName:   workflow.Name,
		Category:       workflow.Category,
		InspectionType: req.InspectionType,
		Steps:          steps,
		AssignedTo:     req.AssignedTo,
		InspectorID:    inspectorID,
		ApproverID:     req.ApproverID,
		Status:         domain.StatusPending,
		OrganizationID: organizationID,
		InspectionDate: inspectionDate,
		BatchID:        req.BatchID,
		MeterReading:   req.MeterReading,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     inspectorID,
			LastUpdatedAt: now,
			LastUpdatedBy: inspectorID,
			Version:       1,
		},
	}

	if req.BatchID != nil {
		inspection.Status = domain.StatusPendingBulk
	} else if workflow.AutoApprovalEnabled {
		approved, evalErr := s.evaluateAutoApproval(ctx, workflow, inspection, now)
		if evalErr != nil {
			return nil, evalErr
		}
		if approved {
			autoApproved := true
			inspection.Status = domain.StatusAutoApproved
			inspection.AutoApproved = &autoApproved
			s.LogInfo(ctx, "Inspection auto-approved on submission",
				slog.String("inspection_id", inspection.InspectionID),
				slog.Int("rule_count", len(workflow.AutoApprovalRules)))
		}
	}

	// Per-approver review entries are attached only when the organization
	// requires approver review and the inspection still needs a manual decision.
	if inspection.Status == domain.StatusPending {
		org, err := s.orgRepo.FindOrganizationByID(ctx, organizationID)
		if err != nil {
			return nil, err
		}
		if org.Settings.RequireApproverReview {
			approvers, err := s.buildApprovers(ctx, organizationID, req)
			if err != nil {
				return nil, err
			}
			inspection.Approvers = approvers
		}
	}

	if err := s.inspectionRepo.SaveInspection(ctx, inspection); err != nil {
		s.LogError(ctx, err, "Failed to save inspection",
			slog.String("inspection_id", inspection.InspectionID))
		return nil, err
	}

	s.LogInfo(ctx, "Inspection submitted",
		slog.String("inspection_id", inspection.InspectionID),
		slog.String("workflow_id", workflow.WorkflowID),
		slog.String("status", string(inspection.Status)))
	return &inspection, nil
}

// GetInspectionByID retrieves an inspection with its approver entries
func (s *inspectionService) GetInspectionByID(ctx context.Context, organizationID, inspectionID string, requestingUserID string) (*domain.Inspection, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, organizationID, domain.RoleGuest); err != nil {
		return nil, err
	}

	inspection, err := s.inspectionRepo.FindInspectionByID(ctx, inspectionID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find inspection by ID",
				slog.String("inspection_id", inspectionID))
		}
		return nil, err
	}

	// An inspection of another organization is invisible, not forbidden.
	if inspection.OrganizationID != organizationID {
		return nil, apperrors.ErrNotFound
	}
	return inspection, nil
}

// ListInspections retrieves a page of an organization's inspections
func (s *inspectionService) ListInspections(ctx context.Context, organizationID string, params dto.ListInspectionsParams, requestingUserID string) ([]domain.Inspection, string, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, organizationID, domain.RoleGuest); err != nil {
		return nil, "", err
	}

	filter := portsrepo.ListInspectionsFilter{
		Status:     params.Status,
		WorkflowID: params.WorkflowID,
	}
	inspections, nextToken, err := s.inspectionRepo.ListInspectionsByOrganization(ctx, organizationID, filter, params.Limit, params.PageToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list inspections for organization",
			slog.String("organization_id", organizationID))
		return nil, "", err
	}

	if inspections == nil {
		inspections = []domain.Inspection{}
	}
	return inspections, nextToken, nil
}

// ListMyInspections retrieves a page of inspections submitted by the caller
func (s *inspectionService) ListMyInspections(ctx context.Context, inspectorID string, limit int, pageToken string) ([]domain.Inspection, string, error) {
	inspections, nextToken, err := s.inspectionRepo.ListInspectionsByInspector(ctx, inspectorID, limit, pageToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list inspections for inspector",
			slog.String("inspector_id", inspectorID))
		return nil, "", err
	}

	if inspections == nil {
		inspections = []domain.Inspection{}
	}
	return inspections, nextToken, nil
}

// ApproveInspection records an approval decision by an assigned approver
func (s *inspectionService) ApproveInspection(ctx context.Context, organizationID, inspectionID string, approverUserID string, remarks *string) (*domain.Inspection, error) {
	return s.decideInspection(ctx, organizationID, inspectionID, approverUserID, remarks, true)
}

// RejectInspection records a rejection decision by an assigned approver
func (s *inspectionService) RejectInspection(ctx context.Context, organizationID, inspectionID string, approverUserID string, remarks *string) (*domain.Inspection, error) {
	return s.decideInspection(ctx, organizationID, inspectionID, approverUserID, remarks, false)
}

// decideInspection applies one approver's decision and, once the per-approver
// outcomes resolve, transitions the inspection. A single rejection rejects it;
// approval requires every assigned approver to approve.
func (s *inspectionService) decideInspection(ctx context.Context, organizationID, inspectionID string, approverUserID string, remarks *string, approve bool) (*domain.Inspection, error) {
	if err := s.AuthorizeUser(ctx, approverUserID, organizationID, domain.RoleApprover); err != nil {
		return nil, err
	}

	inspection, err := s.inspectionRepo.FindInspectionByID(ctx, inspectionID)
	if err != nil {
		return nil, err
	}
	if inspection.OrganizationID != organizationID {
		return nil, apperrors.ErrNotFound
	}

	targetStatus := domain.StatusApproved
	if !approve {
		targetStatus = domain.StatusRejected
	}
	if !inspection.Status.CanTransitionTo(targetStatus) {
		return nil, apperrors.NewConflictError("inspection " + inspectionID + " is already " + string(inspection.Status))
	}

	if len(inspection.Approvers) > 0 {
		if err := s.recordApproverDecision(ctx, inspection, approverUserID, remarks, approve); err != nil {
			return nil, err
		}
		if resolved, ok := inspection.ResolveApproverOutcome(); ok {
			if err := s.inspectionRepo.UpdateInspectionStatus(ctx, inspection, resolved, approverUserID); err != nil {
				s.LogError(ctx, err, "Failed to update inspection status",
					slog.String("inspection_id", inspectionID))
				return nil, err
			}
		}
	} else {
		if err := s.inspectionRepo.UpdateInspectionStatus(ctx, inspection, targetStatus, approverUserID); err != nil {
			s.LogError(ctx, err, "Failed to update inspection status",
				slog.String("inspection_id", inspectionID))
			return nil, err
		}
	}

	updated, err := s.inspectionRepo.FindInspectionByID(ctx, inspectionID)
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Inspection decision recorded",
		slog.String("inspection_id", inspectionID),
		slog.String("approver_id", approverUserID),
		slog.String("status", string(updated.Status)))
	return updated, nil
}

// recordApproverDecision persists one approver's decision and mirrors it on the
// in-memory inspection so the overall outcome can be resolved.
func (s *inspectionService) recordApproverDecision(ctx context.Context, inspection *domain.Inspection, approverUserID string, remarks *string, approve bool) error {
	idx := -1
	for i, a := range inspection.Approvers {
		if a.UserID == approverUserID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return apperrors.ErrForbidden
	}
	if inspection.Approvers[idx].Status != domain.ApproverPending {
		return apperrors.NewConflictError("approver " + approverUserID + " has already decided on inspection " + inspection.InspectionID)
	}

	status := domain.ApproverApproved
	if !approve {
		status = domain.ApproverRejected
	}
	actionDate := time.Now()

	entry := inspection.Approvers[idx]
	entry.Status = status
	entry.Remarks = remarks
	entry.ActionDate = &actionDate

	if err := s.inspectionRepo.UpdateApproverStatus(ctx, inspection.InspectionID, entry); err != nil {
		s.LogError(ctx, err, "Failed to update approver status",
			slog.String("inspection_id", inspection.InspectionID),
			slog.String("approver_id", approverUserID))
		return err
	}

	inspection.Approvers[idx] = entry
	return nil
}

// BulkApproveInspections approves every pending-bulk inspection of a batch
func (s *inspectionService) BulkApproveInspections(ctx context.Context, organizationID, batchID string, approverUserID string) (int, error) {
	if err := s.AuthorizeUser(ctx, approverUserID, organizationID, domain.RoleApprover); err != nil {
		return 0, err
	}

	batch, err := s.inspectionRepo.ListInspectionsByBatchID(ctx, organizationID, batchID)
	if err != nil {
		return 0, err
	}
	if len(batch) == 0 {
		return 0, apperrors.NewNotFoundError("batch " + batchID + " not found")
	}

	count, err := s.inspectionRepo.UpdateStatusByBatchID(ctx, organizationID, batchID, domain.StatusApproved, approverUserID)
	if err != nil {
		s.LogError(ctx, err, "Failed to bulk approve inspections",
			slog.String("batch_id", batchID))
		return 0, err
	}

	s.LogInfo(ctx, "Batch approved",
		slog.String("batch_id", batchID),
		slog.String("approver_id", approverUserID),
		slog.Int("approved_count", count))
	return count, nil
}

// buildFilledSteps validates the submitted responses against the workflow
// checklist and returns them in workflow step order.
func buildFilledSteps(workflow *domain.Workflow, reqs []dto.FilledStepRequest, now time.Time) ([]domain.FilledStep, error) {
	byStepID := make(map[string]dto.FilledStepRequest, len(reqs))
	for _, r := range reqs {
		if _, ok := workflow.StepByID(r.StepID); !ok {
			return nil, apperrors.NewValidationFailedError("step " + r.StepID + " is not part of workflow " + workflow.WorkflowID)
		}
		if _, dup := byStepID[r.StepID]; dup {
			return nil, apperrors.NewValidationFailedError("duplicate response for step " + r.StepID)
		}
		byStepID[r.StepID] = r
	}

	steps := make([]domain.FilledStep, 0, len(workflow.Steps))
	for _, ws := range workflow.Steps {
		r, ok := byStepID[ws.StepID]
		if !ok {
			return nil, apperrors.NewValidationFailedError("missing response for step " + ws.Title)
		}
		if ws.MediaRequired && len(r.MediaURLs) == 0 {
			return nil, apperrors.NewValidationFailedError("step " + ws.Title + " requires at least one media attachment")
		}
		steps = append(steps, domain.FilledStep{
			StepID:       ws.StepID,
			StepTitle:    ws.Title,
			ResponseText: r.ResponseText,
			MediaURLs:    r.MediaURLs,
			Timestamp:    now,
		})
	}
	return steps, nil
}

// buildApprovers assembles the pending approver entries for a new inspection.
// Every assigned approver must hold the approver role in the organization.
func (s *inspectionService) buildApprovers(ctx context.Context, organizationID string, req dto.CreateInspectionRequest) ([]domain.InspectionApprover, error) {
	approverIDs := req.ApproverIDs
	if len(approverIDs) == 0 && req.ApproverID != nil {
		approverIDs = []string{*req.ApproverID}
	}
	if len(approverIDs) == 0 {
		return nil, nil
	}

	seen := make(map[string]bool, len(approverIDs))
	approvers := make([]domain.InspectionApprover, 0, len(approverIDs))
	for _, id := range approverIDs {
		if seen[id] {
			continue
		}
		seen[id] = true

		user, err := s.userRepo.FindUserByID(ctx, id)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, apperrors.NewValidationFailedError("approver " + id + " does not exist")
			}
			return nil, err
		}
		if user.OrganizationID != organizationID {
			return nil, apperrors.NewValidationFailedError("approver " + id + " does not belong to this organization")
		}
		if !hasRequiredRole(user.Role, domain.RoleApprover) {
			return nil, apperrors.NewValidationFailedError("user " + id + " cannot act as an approver")
		}

		name := user.Name
		approvers = append(approvers, domain.InspectionApprover{
			UserID:   id,
			UserName: &name,
			Status:   domain.ApproverPending,
		})
	}
	return approvers, nil
}

// evaluateAutoApproval reports whether the inspection satisfies the workflow's
// auto-approval policy. Every configured rule must pass; a workflow with no
// rules never auto-approves.
func (s *inspectionService) evaluateAutoApproval(ctx context.Context, workflow *domain.Workflow, inspection domain.Inspection, now time.Time) (bool, error) {
	if len(workflow.AutoApprovalRules) == 0 {
		return false, nil
	}
	for _, rule := range workflow.AutoApprovalRules {
		passes, err := s.ruleApplies(ctx, workflow, inspection, rule, now)
		if err != nil {
			return false, err
		}
		if !passes {
			return false, nil
		}
	}
	return true, nil
}

func (s *inspectionService) ruleApplies(ctx context.Context, workflow *domain.Workflow, inspection domain.Inspection, rule domain.AutoApprovalRule, now time.Time) (bool, error) {
	if !rule.ContainsTimeOfDay(now) {
		return false, nil
	}

	if rule.MinValue != nil || rule.MaxValue != nil {
		if rule.ValueField != meterReadingField {
			return false, nil
		}
		reading := inspection.MeterReading
		if reading == nil {
			return false, nil
		}
		if rule.MinValue != nil && reading.LessThan(*rule.MinValue) {
			return false, nil
		}
		if rule.MaxValue != nil && reading.GreaterThan(*rule.MaxValue) {
			return false, nil
		}
	}

	if rule.RequirePhoto && !inspection.HasMedia() {
		return false, nil
	}

	if rule.FrequencyLimit != nil && rule.FrequencyPeriod != nil {
		since := now.Add(-rule.FrequencyPeriod.Duration())
		count, err := s.inspectionRepo.CountAutoApprovedSince(ctx, workflow.WorkflowID, since)
		if err != nil {
			s.LogError(ctx, err, "Failed to count auto-approved inspections",
				slog.String("workflow_id", workflow.WorkflowID))
			return false, err
		}
		if count >= *rule.FrequencyLimit {
			return false, nil
		}
	}

	return true, nil
}
