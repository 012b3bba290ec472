package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InspectionStatus indicates the state of an inspection.
type InspectionStatus string

const (
	StatusPending      InspectionStatus = "pending"
	StatusApproved     InspectionStatus = "approved"
	StatusRejected     InspectionStatus = "rejected"
	StatusAutoApproved InspectionStatus = "auto-approved"
	StatusPendingBulk  InspectionStatus = "pending-bulk"
)

// IsValid reports whether the status is drawn from the fixed enumerated set.
func (s InspectionStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusAutoApproved, StatusPendingBulk:
		return true
	}
	return false
}

// IsTerminal reports whether the status accepts no further transitions.
func (s InspectionStatus) IsTerminal() bool {
	switch s {
	case StatusApproved, StatusRejected, StatusAutoApproved:
		return true
	}
	return false
}

// CanTransitionTo reports whether an inspection may move from s to next.
// Only the pending states accept a decision.
func (s InspectionStatus) CanTransitionTo(next InspectionStatus) bool {
	if s.IsTerminal() {
		return false
	}
	switch next {
	case StatusApproved, StatusRejected:
		return true
	}
	return false
}

// ApproverStatus is the per-approver decision state on an inspection.
type ApproverStatus string

const (
	ApproverPending  ApproverStatus = "pending"
	ApproverApproved ApproverStatus = "approved"
	ApproverRejected ApproverStatus = "rejected"
)

// FilledStep is the inspector's recorded response to one WorkflowStep.
// StepTitle is a denormalized copy captured at submission time.
type FilledStep struct {
	StepID       string    `json:"stepID"`
	StepTitle    string    `json:"stepTitle"`
	ResponseText string    `json:"responseText"`
	MediaURLs    []string  `json:"mediaUrls,omitempty"` // Upload order
	Timestamp    time.Time `json:"timestamp"`
}

// InspectionApprover is one reviewer's assignment and decision on an inspection.
type InspectionApprover struct {
	UserID     string         `json:"userID"`
	UserName   *string        `json:"userName,omitempty"` // Denormalized, may be absent
	Status     ApproverStatus `json:"status"`
	Remarks    *string        `json:"remarks,omitempty"`
	ActionDate *time.Time     `json:"actionDate,omitempty"`
}

// Inspection is one instantiated execution of a Workflow by an inspector.
// WorkflowName is a denormalized copy captured at submission time.
type Inspection struct {
	InspectionID   string               `json:"inspectionID"` // Primary Key (UUID)
	WorkflowID     string               `json:"workflowID"`
	WorkflowName   string               `json:"workflowName"`
	Category       string               `json:"category"`
	InspectionType string               `json:"inspectionType"`
	Steps          []FilledStep         `json:"steps"`
	AssignedTo     string               `json:"assignedTo"`
	InspectorID    string               `json:"inspectorID"`
	ApproverID     *string              `json:"approverID,omitempty"`
	Approvers      []InspectionApprover `json:"approvers,omitempty"`
	Status         InspectionStatus     `json:"status"`
	OrganizationID string               `json:"organizationID"`
	InspectionDate time.Time            `json:"inspectionDate"`
	AutoApproved   *bool                `json:"autoApproved,omitempty"`
	BatchID        *string              `json:"batchID,omitempty"`
	MeterReading   *decimal.Decimal     `json:"meterReading,omitempty"`
	AuditFields
}

// HasMedia reports whether any filled step carries at least one media URL.
func (i Inspection) HasMedia() bool {
	for _, s := range i.Steps {
		if len(s.MediaURLs) > 0 {
			return true
		}
	}
	return false
}

// ResolveApproverOutcome derives the overall status from the per-approver
// decisions. A single rejection rejects the inspection; approval requires
// every approver to have approved. The zero return reports nothing resolved yet.
func (i Inspection) ResolveApproverOutcome() (InspectionStatus, bool) {
	if len(i.Approvers) == 0 {
		return "", false
	}
	allApproved := true
	for _, a := range i.Approvers {
		switch a.Status {
		case ApproverRejected:
			return StatusRejected, true
		case ApproverApproved:
			// keep scanning
		default:
			allApproved = false
		}
	}
	if allApproved {
		return StatusApproved, true
	}
	return "", false
}
