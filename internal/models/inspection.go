package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// FilledStep is one element of the jsonb steps column on inspections.
// MediaURLs slice order is the upload order.
type FilledStep struct {
	StepID       string    `json:"stepID"`
	StepTitle    string    `json:"stepTitle"`
	ResponseText string    `json:"responseText"`
	MediaURLs    []string  `json:"mediaUrls,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// Inspection represents a row in the inspections table.
type Inspection struct {
	InspectionID   string           `db:"inspection_id"`
	WorkflowID     string           `db:"workflow_id"`
	WorkflowName   string           `db:"workflow_name"` // Denormalized
	Category       string           `db:"category"`
	InspectionType string           `db:"inspection_type"`
	Steps          []FilledStep     `db:"steps"` // jsonb
	AssignedTo     string           `db:"assigned_to"`
	InspectorID    string           `db:"inspector_id"`
	ApproverID     sql.NullString   `db:"approver_id"`
	Status         string           `db:"status"`
	OrganizationID string           `db:"organization_id"`
	InspectionDate time.Time        `db:"inspection_date"`
	AutoApproved   sql.NullBool     `db:"auto_approved"`
	BatchID        sql.NullString   `db:"batch_id"`
	MeterReading   *decimal.Decimal `db:"meter_reading"`
	AuditFields
}

// InspectionApprover represents a row in the inspection_approvers table.
type InspectionApprover struct {
	InspectionID string         `db:"inspection_id"`
	UserID       string         `db:"user_id"`
	UserName     sql.NullString `db:"user_name"` // Denormalized
	Status       string         `db:"status"`
	Remarks      sql.NullString `db:"remarks"`
	ActionDate   sql.NullTime   `db:"action_date"`
}
