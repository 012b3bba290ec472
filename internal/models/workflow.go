package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// WorkflowStep is one element of the jsonb steps column. Slice order is the
// display/execution order.
type WorkflowStep struct {
	StepID        string `json:"stepID"`
	Title         string `json:"title"`
	Instructions  string `json:"instructions"`
	MediaRequired bool   `json:"mediaRequired"`
}

// AutoApprovalRule is one element of the jsonb auto_approval_rules column.
type AutoApprovalRule struct {
	RuleID          string           `json:"ruleID"`
	TimeRangeStart  string           `json:"timeRangeStart"`
	TimeRangeEnd    string           `json:"timeRangeEnd"`
	MinValue        *decimal.Decimal `json:"minValue,omitempty"`
	MaxValue        *decimal.Decimal `json:"maxValue,omitempty"`
	ValueField      string           `json:"valueField,omitempty"`
	RequirePhoto    bool             `json:"requirePhoto"`
	FrequencyLimit  *int             `json:"frequencyLimit,omitempty"`
	FrequencyPeriod *string          `json:"frequencyPeriod,omitempty"`
}

// Workflow represents a row in the workflows table.
type Workflow struct {
	WorkflowID          string             `db:"workflow_id"`
	Name                string             `db:"name"`
	Category            string             `db:"category"`
	Description         string             `db:"description"`
	Steps               []WorkflowStep     `db:"steps"` // jsonb
	OrganizationID      string             `db:"organization_id"`
	AutoApprovalEnabled bool               `db:"auto_approval_enabled"`
	AutoApprovalRules   []AutoApprovalRule `db:"auto_approval_rules"` // jsonb
	BulkApprovalEnabled bool               `db:"bulk_approval_enabled"`
	AuditFields
	DeletedAt *time.Time `db:"deleted_at"`
}
