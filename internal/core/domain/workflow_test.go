package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func intPtr(i int) *int { return &i }

func periodPtr(p FrequencyPeriod) *FrequencyPeriod { return &p }

func TestFrequencyPeriod_Duration(t *testing.T) {
	assert.Equal(t, time.Hour, PeriodHour.Duration())
	assert.Equal(t, 24*time.Hour, PeriodDay.Duration())
	assert.Equal(t, 7*24*time.Hour, PeriodWeek.Duration())
	assert.Equal(t, time.Duration(0), FrequencyPeriod("month").Duration())
}

func TestAutoApprovalRule_Validate(t *testing.T) {
	testCases := []struct {
		name    string
		rule    AutoApprovalRule
		wantErr string
	}{
		{
			name: "valid time window only",
			rule: AutoApprovalRule{TimeRangeStart: "08:00", TimeRangeEnd: "18:00"},
		},
		{
			name: "valid with bounds and frequency",
			rule: AutoApprovalRule{
				TimeRangeStart: "00:00", TimeRangeEnd: "23:59",
				MinValue: decPtr("10"), MaxValue: decPtr("100"), ValueField: "meterReading",
				FrequencyLimit: intPtr(5), FrequencyPeriod: periodPtr(PeriodDay),
			},
		},
		{
			name:    "malformed start time",
			rule:    AutoApprovalRule{TimeRangeStart: "8am", TimeRangeEnd: "18:00"},
			wantErr: "invalid timeRangeStart",
		},
		{
			name:    "malformed end time",
			rule:    AutoApprovalRule{TimeRangeStart: "08:00", TimeRangeEnd: "25:00"},
			wantErr: "invalid timeRangeEnd",
		},
		{
			name:    "start after end",
			rule:    AutoApprovalRule{TimeRangeStart: "18:00", TimeRangeEnd: "08:00"},
			wantErr: "is after",
		},
		{
			name: "min greater than max",
			rule: AutoApprovalRule{
				TimeRangeStart: "08:00", TimeRangeEnd: "18:00",
				MinValue: decPtr("100"), MaxValue: decPtr("10"), ValueField: "meterReading",
			},
			wantErr: "minValue is greater than maxValue",
		},
		{
			name: "bounds without value field",
			rule: AutoApprovalRule{
				TimeRangeStart: "08:00", TimeRangeEnd: "18:00",
				MinValue: decPtr("10"),
			},
			wantErr: "valueField is required",
		},
		{
			name: "non-positive frequency limit",
			rule: AutoApprovalRule{
				TimeRangeStart: "08:00", TimeRangeEnd: "18:00",
				FrequencyLimit: intPtr(0), FrequencyPeriod: periodPtr(PeriodDay),
			},
			wantErr: "frequencyLimit must be positive",
		},
		{
			name: "frequency limit without period",
			rule: AutoApprovalRule{
				TimeRangeStart: "08:00", TimeRangeEnd: "18:00",
				FrequencyLimit: intPtr(3),
			},
			wantErr: "frequencyPeriod must be one of",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.rule.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
			}
		})
	}
}

func TestAutoApprovalRule_ContainsTimeOfDay(t *testing.T) {
	rule := AutoApprovalRule{TimeRangeStart: "08:00", TimeRangeEnd: "18:00"}

	at := func(hour, min int) time.Time {
		return time.Date(2025, 6, 15, hour, min, 0, 0, time.UTC)
	}

	assert.True(t, rule.ContainsTimeOfDay(at(8, 0)))
	assert.True(t, rule.ContainsTimeOfDay(at(12, 30)))
	assert.True(t, rule.ContainsTimeOfDay(at(18, 0)))
	assert.False(t, rule.ContainsTimeOfDay(at(7, 59)))
	assert.False(t, rule.ContainsTimeOfDay(at(18, 1)))
	assert.False(t, rule.ContainsTimeOfDay(at(23, 0)))
}

func TestWorkflow_Validate(t *testing.T) {
	validSteps := []WorkflowStep{
		{StepID: "s1", Title: "Check pressure"},
		{StepID: "s2", Title: "Photograph gauge", MediaRequired: true},
	}

	t.Run("valid workflow", func(t *testing.T) {
		w := Workflow{Steps: validSteps}
		assert.NoError(t, w.Validate())
	})

	t.Run("no steps", func(t *testing.T) {
		w := Workflow{}
		assert.ErrorContains(t, w.Validate(), "at least one step")
	})

	t.Run("step without title", func(t *testing.T) {
		w := Workflow{Steps: []WorkflowStep{{StepID: "s1"}}}
		assert.ErrorContains(t, w.Validate(), "title is required")
	})

	t.Run("duplicate step IDs", func(t *testing.T) {
		w := Workflow{Steps: []WorkflowStep{
			{StepID: "s1", Title: "One"},
			{StepID: "s1", Title: "Two"},
		}}
		assert.ErrorContains(t, w.Validate(), "duplicate step ID")
	})

	t.Run("rules without auto-approval enabled", func(t *testing.T) {
		w := Workflow{
			Steps:             validSteps,
			AutoApprovalRules: []AutoApprovalRule{{TimeRangeStart: "08:00", TimeRangeEnd: "18:00"}},
		}
		assert.ErrorContains(t, w.Validate(), "autoApprovalEnabled")
	})

	t.Run("invalid rule surfaces", func(t *testing.T) {
		w := Workflow{
			Steps:               validSteps,
			AutoApprovalEnabled: true,
			AutoApprovalRules:   []AutoApprovalRule{{TimeRangeStart: "18:00", TimeRangeEnd: "08:00"}},
		}
		assert.ErrorContains(t, w.Validate(), "invalid auto-approval rule")
	})
}

func TestWorkflow_StepByID(t *testing.T) {
	w := Workflow{Steps: []WorkflowStep{
		{StepID: "s1", Title: "One"},
		{StepID: "s2", Title: "Two"},
	}}

	step, ok := w.StepByID("s2")
	assert.True(t, ok)
	assert.Equal(t, "Two", step.Title)

	_, ok = w.StepByID("missing")
	assert.False(t, ok)
}
