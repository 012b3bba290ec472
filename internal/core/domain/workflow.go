package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// FrequencyPeriod is the window over which an auto-approval frequency limit applies.
type FrequencyPeriod string

const (
	PeriodHour FrequencyPeriod = "hour"
	PeriodDay  FrequencyPeriod = "day"
	PeriodWeek FrequencyPeriod = "week"
)

// IsValid reports whether the period is one of the known windows.
func (p FrequencyPeriod) IsValid() bool {
	switch p {
	case PeriodHour, PeriodDay, PeriodWeek:
		return true
	}
	return false
}

// Duration returns the trailing window the period covers.
func (p FrequencyPeriod) Duration() time.Duration {
	switch p {
	case PeriodHour:
		return time.Hour
	case PeriodDay:
		return 24 * time.Hour
	case PeriodWeek:
		return 7 * 24 * time.Hour
	}
	return 0
}

// WorkflowStep is one checklist item of a workflow template.
// Its order is its position in the containing Steps slice.
type WorkflowStep struct {
	StepID        string `json:"stepID"`
	Title         string `json:"title"`
	Instructions  string `json:"instructions"`
	MediaRequired bool   `json:"mediaRequired"`
}

// timeOfDayFormat is the wire format for rule windows ("15:04", 24h clock).
const timeOfDayFormat = "15:04"

// AutoApprovalRule lets an inspection bypass manual approver review when all
// of its configured conditions hold.
type AutoApprovalRule struct {
	RuleID          string           `json:"ruleID"`
	TimeRangeStart  string           `json:"timeRangeStart"` // "HH:MM"
	TimeRangeEnd    string           `json:"timeRangeEnd"`   // "HH:MM"
	MinValue        *decimal.Decimal `json:"minValue,omitempty"`
	MaxValue        *decimal.Decimal `json:"maxValue,omitempty"`
	ValueField      string           `json:"valueField,omitempty"` // Field name the bounds apply to (e.g., "meterReading")
	RequirePhoto    bool             `json:"requirePhoto"`
	FrequencyLimit  *int             `json:"frequencyLimit,omitempty"`
	FrequencyPeriod *FrequencyPeriod `json:"frequencyPeriod,omitempty"`
}

// Validate checks the internal consistency of a rule.
func (r AutoApprovalRule) Validate() error {
	start, err := time.Parse(timeOfDayFormat, r.TimeRangeStart)
	if err != nil {
		return fmt.Errorf("invalid timeRangeStart %q: %w", r.TimeRangeStart, err)
	}
	end, err := time.Parse(timeOfDayFormat, r.TimeRangeEnd)
	if err != nil {
		return fmt.Errorf("invalid timeRangeEnd %q: %w", r.TimeRangeEnd, err)
	}
	if start.After(end) {
		return fmt.Errorf("timeRangeStart %q is after timeRangeEnd %q", r.TimeRangeStart, r.TimeRangeEnd)
	}
	if r.MinValue != nil && r.MaxValue != nil && r.MinValue.GreaterThan(*r.MaxValue) {
		return errors.New("minValue is greater than maxValue")
	}
	if (r.MinValue != nil || r.MaxValue != nil) && r.ValueField == "" {
		return errors.New("valueField is required when min/max bounds are set")
	}
	if r.FrequencyLimit != nil {
		if *r.FrequencyLimit <= 0 {
			return errors.New("frequencyLimit must be positive")
		}
		if r.FrequencyPeriod == nil || !r.FrequencyPeriod.IsValid() {
			return errors.New("frequencyPeriod must be one of hour, day, week")
		}
	}
	return nil
}

// ContainsTimeOfDay reports whether the clock time of t falls within the rule window.
func (r AutoApprovalRule) ContainsTimeOfDay(t time.Time) bool {
	clock := t.Format(timeOfDayFormat)
	return clock >= r.TimeRangeStart && clock <= r.TimeRangeEnd
}

// Workflow is a named, ordered checklist template with optional auto-approval policy.
type Workflow struct {
	WorkflowID          string             `json:"workflowID"` // Primary Key (UUID)
	Name                string             `json:"name"`
	Category            string             `json:"category"`
	Description         string             `json:"description"`
	Steps               []WorkflowStep     `json:"steps"` // Display/execution order
	OrganizationID      string             `json:"organizationID"`
	AutoApprovalEnabled bool               `json:"autoApprovalEnabled"`
	AutoApprovalRules   []AutoApprovalRule `json:"autoApprovalRules,omitempty"` // Only meaningful when AutoApprovalEnabled
	BulkApprovalEnabled bool               `json:"bulkApprovalEnabled"`
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
}

// StepByID returns the step with the given ID, if present.
func (w Workflow) StepByID(stepID string) (WorkflowStep, bool) {
	for _, s := range w.Steps {
		if s.StepID == stepID {
			return s, true
		}
	}
	return WorkflowStep{}, false
}

// Validate checks workflow-level invariants prior to persistence.
func (w Workflow) Validate() error {
	if len(w.Steps) == 0 {
		return errors.New("workflow must have at least one step")
	}
	seen := make(map[string]bool, len(w.Steps))
	for _, s := range w.Steps {
		if s.Title == "" {
			return errors.New("workflow step title is required")
		}
		if s.StepID != "" && seen[s.StepID] {
			return fmt.Errorf("duplicate step ID %s", s.StepID)
		}
		seen[s.StepID] = true
	}
	if !w.AutoApprovalEnabled && len(w.AutoApprovalRules) > 0 {
		return errors.New("auto-approval rules require autoApprovalEnabled")
	}
	for _, r := range w.AutoApprovalRules {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("invalid auto-approval rule: %w", err)
		}
	}
	return nil
}
