package dto

import (
	"time"

	"github.com/FieldOpsLabs/inspection_tracking_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// --- Workflow DTOs ---

// WorkflowStepRequest defines one checklist item. Slice order is meaningful.
type WorkflowStepRequest struct {
	Title         string `json:"title" binding:"required"`
	Instructions  string `json:"instructions"`
	MediaRequired bool   `json:"mediaRequired"`
}

// AutoApprovalRuleRequest defines one auto-approval condition set.
type AutoApprovalRuleRequest struct {
	TimeRangeStart  string                  `json:"timeRangeStart" binding:"required"`
	TimeRangeEnd    string                  `json:"timeRangeEnd" binding:"required"`
	MinValue        *decimal.Decimal        `json:"minValue"`
	MaxValue        *decimal.Decimal        `json:"maxValue"`
	ValueField      string                  `json:"valueField"`
	RequirePhoto    bool                    `json:"requirePhoto"`
	FrequencyLimit  *int                    `json:"frequencyLimit" binding:"omitempty,min=1"`
	FrequencyPeriod *domain.FrequencyPeriod `json:"frequencyPeriod" binding:"omitempty,oneof=hour day week"`
}

// CreateWorkflowRequest defines data for creating a new workflow template.
type CreateWorkflowRequest struct {
	Name                string                    `json:"name" binding:"required"`
	Category            string                    `json:"category"`
	Description         string                    `json:"description"`
	Steps               []WorkflowStepRequest     `json:"steps" binding:"required,min=1,dive"`
	AutoApprovalEnabled bool                      `json:"autoApprovalEnabled"`
	AutoApprovalRules   []AutoApprovalRuleRequest `json:"autoApprovalRules" binding:"omitempty,dive"`
	BulkApprovalEnabled bool                      `json:"bulkApprovalEnabled"`
}

// UpdateWorkflowRequest defines the data allowed for updating a workflow.
// Pointers differentiate omitted fields from zero-value fields. Replacing the
// step sequence replaces it wholesale to preserve ordering.
type UpdateWorkflowRequest struct {
	Name                *string                   `json:"name"`
	Category            *string                   `json:"category"`
	Description         *string                   `json:"description"`
	Steps               []WorkflowStepRequest     `json:"steps" binding:"omitempty,min=1,dive"`
	AutoApprovalEnabled *bool                     `json:"autoApprovalEnabled"`
	AutoApprovalRules   []AutoApprovalRuleRequest `json:"autoApprovalRules" binding:"omitempty,dive"`
	BulkApprovalEnabled *bool                     `json:"bulkApprovalEnabled"`
}

// WorkflowStepResponse defines data returned for one workflow step.
type WorkflowStepResponse struct {
	StepID        string `json:"stepID"`
	Title         string `json:"title"`
	Instructions  string `json:"instructions,omitempty"`
	MediaRequired bool   `json:"mediaRequired"`
}

// AutoApprovalRuleResponse defines data returned for one auto-approval rule.
type AutoApprovalRuleResponse struct {
	RuleID          string                  `json:"ruleID"`
	TimeRangeStart  string                  `json:"timeRangeStart"`
	TimeRangeEnd    string                  `json:"timeRangeEnd"`
	MinValue        *decimal.Decimal        `json:"minValue,omitempty"`
	MaxValue        *decimal.Decimal        `json:"maxValue,omitempty"`
	ValueField      string                  `json:"valueField,omitempty"`
	RequirePhoto    bool                    `json:"requirePhoto"`
	FrequencyLimit  *int                    `json:"frequencyLimit,omitempty"`
	FrequencyPeriod *domain.FrequencyPeriod `json:"frequencyPeriod,omitempty"`
}

// WorkflowResponse defines data returned for a workflow.
type WorkflowResponse struct {
	WorkflowID          string                     `json:"workflowID"`
	Name                string                     `json:"name"`
	Category            string                     `json:"category,omitempty"`
	Description         string                     `json:"description,omitempty"`
	Steps               []WorkflowStepResponse     `json:"steps"`
	OrganizationID      string                     `json:"organizationID"`
	AutoApprovalEnabled bool                       `json:"autoApprovalEnabled"`
	AutoApprovalRules   []AutoApprovalRuleResponse `json:"autoApprovalRules,omitempty"`
	BulkApprovalEnabled bool                       `json:"bulkApprovalEnabled"`
	CreatedAt           time.Time                  `json:"createdAt"`
	CreatedBy           string                     `json:"createdBy"`
	LastUpdatedAt       time.Time                  `json:"lastUpdatedAt"`
	LastUpdatedBy       string                     `json:"lastUpdatedBy"`
}

// ToWorkflowResponse converts domain.Workflow to DTO.
func ToWorkflowResponse(w *domain.Workflow) WorkflowResponse {
	steps := make([]WorkflowStepResponse, len(w.Steps))
	for i, s := range w.Steps {
		steps[i] = WorkflowStepResponse{
			StepID:        s.StepID,
			Title:         s.Title,
			Instructions:  s.Instructions,
			MediaRequired: s.MediaRequired,
		}
	}
	resp := WorkflowResponse{
		WorkflowID:          w.WorkflowID,
		Name:                w.Name,
		Category:            w.Category,
		Description:         w.Description,
		Steps:               steps,
		OrganizationID:      w.OrganizationID,
		AutoApprovalEnabled: w.AutoApprovalEnabled,
		BulkApprovalEnabled: w.BulkApprovalEnabled,
		CreatedAt:           w.CreatedAt,
		CreatedBy:           w.CreatedBy,
		LastUpdatedAt:       w.LastUpdatedAt,
		LastUpdatedBy:       w.LastUpdatedBy,
	}
	if len(w.AutoApprovalRules) > 0 {
		resp.AutoApprovalRules = make([]AutoApprovalRuleResponse, len(w.AutoApprovalRules))
		for i, r := range w.AutoApprovalRules {
			resp.AutoApprovalRules[i] = AutoApprovalRuleResponse{
				RuleID:          r.RuleID,
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
	}
	return resp
}

// ListWorkflowsResponse wraps a list of workflows.
type ListWorkflowsResponse struct {
	Workflows []WorkflowResponse `json:"workflows"`
}

// ToListWorkflowsResponse converts a slice of domain.Workflow to DTO.
func ToListWorkflowsResponse(ws []domain.Workflow) ListWorkflowsResponse {
	list := make([]WorkflowResponse, len(ws))
	for i, w := range ws {
		list[i] = ToWorkflowResponse(&w)
	}
	return ListWorkflowsResponse{Workflows: list}
}
