package mapping

import (
	"github.com/FieldOpsLabs/inspection_tracking_app/internal/core/domain"
	"github.com/FieldOpsLabs/inspection_tracking_app/internal/models"
)

// ToModelWorkflow converts a domain Workflow to a model Workflow
func ToModelWorkflow(d domain.Workflow) models.Workflow {
	m := models.Workflow{
		WorkflowID:          d.WorkflowID,
		Name:                d.Name,
		Category:            d.Category,
		Description:         d.Description,
		OrganizationID:      d.OrganizationID,
		AutoApprovalEnabled: d.AutoApprovalEnabled,
		BulkApprovalEnabled: d.BulkApprovalEnabled,
		AuditFields:         ToModelAuditFields(d.AuditFields),
		DeletedAt:           d.DeletedAt,
	}
	m.Steps = make([]models.WorkflowStep, len(d.Steps))
	for i, s := range d.Steps {
		m.Steps[i] = models.WorkflowStep{
			StepID:        s.StepID,
			Title:         s.Title,
			Instructions:  s.Instructions,
			MediaRequired: s.MediaRequired,
		}
	}
	if len(d.AutoApprovalRules) > 0 {
		m.AutoApprovalRules = make([]models.AutoApprovalRule, len(d.AutoApprovalRules))
		for i, r := range d.AutoApprovalRules {
			m.AutoApprovalRules[i] = models.AutoApprovalRule{
				RuleID:         r.RuleID,
				TimeRangeStart: r.TimeRangeStart,
				TimeRangeEnd:   r.TimeRangeEnd,
				MinValue:       r.MinValue,
				MaxValue:       r.MaxValue,
				ValueField:     r.ValueField,
				RequirePhoto:   r.RequirePhoto,
				FrequencyLimit: r.FrequencyLimit,
			}
			if r.FrequencyPeriod != nil {
				p := string(*r.FrequencyPeriod)
				m.AutoApprovalRules[i].FrequencyPeriod = &p
			}
		}
	}
	return m
}

// ToDomainWorkflow converts a model Workflow to a domain Workflow
func ToDomainWorkflow(m models.Workflow) domain.Workflow {
	d := domain.Workflow{
		WorkflowID:          m.WorkflowID,
		Name:                m.Name,
		Category:            m.Category,
		Description:         m.Description,
		OrganizationID:      m.OrganizationID,
		AutoApprovalEnabled: m.AutoApprovalEnabled,
		BulkApprovalEnabled: m.BulkApprovalEnabled,
		AuditFields:         ToDomainAuditFields(m.AuditFields),
		DeletedAt:           m.DeletedAt,
	}
	d.Steps = make([]domain.WorkflowStep, len(m.Steps))
	for i, s := range m.Steps {
		d.Steps[i] = domain.WorkflowStep{
			StepID:        s.StepID,
			Title:         s.Title,
			Instructions:  s.Instructions,
			MediaRequired: s.MediaRequired,
		}
	}
	if len(m.AutoApprovalRules) > 0 {
		d.AutoApprovalRules = make([]domain.AutoApprovalRule, len(m.AutoApprovalRules))
		for i, r := range m.AutoApprovalRules {
			d.AutoApprovalRules[i] = domain.AutoApprovalRule{
				RuleID:         r.RuleID,
				TimeRangeStart: r.TimeRangeStart,
				TimeRangeEnd:   r.TimeRangeEnd,
				MinValue:       r.MinValue,
				MaxValue:       r.MaxValue,
				ValueField:     r.ValueField,
				RequirePhoto:   r.RequirePhoto,
				FrequencyLimit: r.FrequencyLimit,
			}
			if r.FrequencyPeriod != nil {
				p := domain.FrequencyPeriod(*r.FrequencyPeriod)
				d.AutoApprovalRules[i].FrequencyPeriod = &p
			}
		}
	}
	return d
}

// ToDomainWorkflowSlice converts a slice of model Workflows to domain Workflows
func ToDomainWorkflowSlice(ms []models.Workflow) []domain.Workflow {
	ds := make([]domain.Workflow, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainWorkflow(m)
	}
	return ds
}
