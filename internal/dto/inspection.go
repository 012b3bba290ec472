package dto

import (
	"time"

	"github.com/FieldOpsLabs/inspection_tracking_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// --- Inspection DTOs ---

// FilledStepRequest is the inspector's response to one workflow step.
// MediaURLs order is the upload order and is preserved.
type FilledStepRequest struct {
	StepID       string   `json:"stepID" binding:"required"`
	ResponseText string   `json:"responseText"`
	MediaURLs    []string `json:"mediaUrls" binding:"omitempty,dive,url"`
}

// CreateInspectionRequest defines data for submitting a completed inspection.
// InspectionDate is a plain calendar date; the server normalizes it to a
// timestamp preserving the calendar day.
type CreateInspectionRequest struct {
	WorkflowID     string              `json:"workflowID" binding:"required"`
	InspectionType string              `json:"inspectionType"`
	AssignedTo     string              `json:"assignedTo"`
	InspectionDate string              `json:"inspectionDate" binding:"required,dateonly"`
	Steps          []FilledStepRequest `json:"steps" binding:"required,min=1,dive"`
	// Assigned approvers only take effect when the organization requires
	// approver review.
	ApproverID   *string          `json:"approverID"`
	ApproverIDs  []string         `json:"approverIDs"`
	BatchID      *string          `json:"batchID"`
	MeterReading *decimal.Decimal `json:"meterReading"`
}

// ApprovalActionRequest carries an approver's optional remarks with a decision.
type ApprovalActionRequest struct {
	Remarks *string `json:"remarks"`
}

// BulkApproveRequest identifies the batch to approve.
type BulkApproveRequest struct {
	BatchID string `json:"batchID" binding:"required"`
}

// ListInspectionsParams defines query parameters for listing inspections.
type ListInspectionsParams struct {
	Status     *domain.InspectionStatus `form:"status" binding:"omitempty,oneof=pending approved rejected auto-approved pending-bulk"`
	WorkflowID *string                  `form:"workflowID"`
	Limit      int                      `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	PageToken  string                   `form:"pageToken"`
}

// FilledStepResponse defines data returned for one filled step.
type FilledStepResponse struct {
	StepID       string    `json:"stepID"`
	StepTitle    string    `json:"stepTitle"`
	ResponseText string    `json:"responseText,omitempty"`
	MediaURLs    []string  `json:"mediaUrls,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// InspectionApproverResponse defines data returned for one approver entry.
type InspectionApproverResponse struct {
	UserID     string                `json:"userID"`
	UserName   *string               `json:"userName,omitempty"`
	Status     domain.ApproverStatus `json:"status"`
	Remarks    *string               `json:"remarks,omitempty"`
	ActionDate *time.Time            `json:"actionDate,omitempty"`
}

// InspectionResponse defines data returned for an inspection.
type InspectionResponse struct {
	InspectionID   string                       `json:"inspectionID"`
	WorkflowID     string                       `json:"workflowID"`
	WorkflowName   string                       `json:"workflowName"`
	Category       string                       `json:"category,omitempty"`
	InspectionType string                       `json:"inspectionType,omitempty"`
	Steps          []FilledStepResponse         `json:"steps"`
	AssignedTo     string                       `json:"assignedTo,omitempty"`
	InspectorID    string                       `json:"inspectorID"`
	ApproverID     *string                      `json:"approverID,omitempty"`
	Approvers      []InspectionApproverResponse `json:"approvers,omitempty"`
	Status         domain.InspectionStatus      `json:"status"`
	OrganizationID string                       `json:"organizationID"`
	InspectionDate time.Time                    `json:"inspectionDate"`
	AutoApproved   *bool                        `json:"autoApproved,omitempty"`
	BatchID        *string                      `json:"batchID,omitempty"`
	MeterReading   *decimal.Decimal             `json:"meterReading,omitempty"`
	CreatedAt      time.Time                    `json:"createdAt"`
	LastUpdatedAt  time.Time                    `json:"lastUpdatedAt"`
}

// ToInspectionResponse converts domain.Inspection to DTO.
func ToInspectionResponse(i *domain.Inspection) InspectionResponse {
	steps := make([]FilledStepResponse, len(i.Steps))
	for idx, s := range i.Steps {
		steps[idx] = FilledStepResponse{
			StepID:       s.StepID,
			StepTitle:    s.StepTitle,
			ResponseText: s.ResponseText,
			MediaURLs:    s.MediaURLs,
			Timestamp:    s.Timestamp,
		}
	}
	resp := InspectionResponse{
		InspectionID:   i.InspectionID,
		WorkflowID:     i.WorkflowID,
		WorkflowName:   i.WorkflowName,
		Category:       i.Category,
		InspectionType: i.InspectionType,
		Steps:          steps,
		AssignedTo:     i.AssignedTo,
		InspectorID:    i.InspectorID,
		ApproverID:     i.ApproverID,
		Status:         i.Status,
		OrganizationID: i.OrganizationID,
		InspectionDate: i.InspectionDate,
		AutoApproved:   i.AutoApproved,
		BatchID:        i.BatchID,
		MeterReading:   i.MeterReading,
		CreatedAt:      i.CreatedAt,
		LastUpdatedAt:  i.LastUpdatedAt,
	}
	if len(i.Approvers) > 0 {
		resp.Approvers = make([]InspectionApproverResponse, len(i.Approvers))
		for idx, a := range i.Approvers {
			resp.Approvers[idx] = InspectionApproverResponse{
				UserID:     a.UserID,
				UserName:   a.UserName,
				Status:     a.Status,
				Remarks:    a.Remarks,
				ActionDate: a.ActionDate,
			}
		}
	}
	return resp
}

// ListInspectionsResponse wraps one page of inspections.
type ListInspectionsResponse struct {
	Inspections   []InspectionResponse `json:"inspections"`
	NextPageToken string               `json:"nextPageToken,omitempty"`
}

// ToListInspectionsResponse converts a page of domain.Inspection to DTO.
func ToListInspectionsResponse(is []domain.Inspection, nextToken string) ListInspectionsResponse {
	list := make([]InspectionResponse, len(is))
	for idx := range is {
		list[idx] = ToInspectionResponse(&is[idx])
	}
	return ListInspectionsResponse{Inspections: list, NextPageToken: nextToken}
}

// BulkApproveResponse reports how many inspections a batch approval touched.
type BulkApproveResponse struct {
	BatchID       string `json:"batchID"`
	ApprovedCount int    `json:"approvedCount"`
}
