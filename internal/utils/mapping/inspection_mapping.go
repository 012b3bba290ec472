package mapping

import (
	"database/sql"

	"github.com/FieldOpsLabs/inspection_tracking_app/internal/core/domain"
	"github.com/FieldOpsLabs/inspection_tracking_app/internal/models"
)

// ToModelInspection converts a domain Inspection to a model Inspection.
// Approver entries live in their own table and are mapped separately.
func ToModelInspection(d domain.Inspection) models.Inspection {
	m := models.Inspection{
		InspectionID:   d.InspectionID,
		WorkflowID:     d.WorkflowID,
		WorkflowName:   d.WorkflowName,
		Category:       d.Category,
		InspectionType: d.InspectionType,
		AssignedTo:     d.AssignedTo,
		InspectorID:    d.InspectorID,
		Status:         string(d.Status),
		OrganizationID: d.OrganizationID,
		InspectionDate: d.InspectionDate,
		MeterReading:   d.MeterReading,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
	m.Steps = make([]models.FilledStep, len(d.Steps))
	for i, s := range d.Steps {
		m.Steps[i] = models.FilledStep{
			StepID:       s.StepID,
			StepTitle:    s.StepTitle,
			ResponseText: s.ResponseText,
			MediaURLs:    s.MediaURLs,
			Timestamp:    s.Timestamp,
		}
	}
	if d.ApproverID != nil {
		m.ApproverID = sql.NullString{String: *d.ApproverID, Valid: true}
	}
	if d.AutoApproved != nil {
		m.AutoApproved = sql.NullBool{Bool: *d.AutoApproved, Valid: true}
	}
	if d.BatchID != nil {
		m.BatchID = sql.NullString{String: *d.BatchID, Valid: true}
	}
	return m
}

// ToDomainInspection converts a model Inspection to a domain Inspection.
func ToDomainInspection(m models.Inspection) domain.Inspection {
	d := domain.Inspection{
		InspectionID:   m.InspectionID,
		WorkflowID:     m.WorkflowID,
		WorkflowName:   m.WorkflowName,
		Category:       m.Category,
		InspectionType: m.InspectionType,
		AssignedTo:     m.AssignedTo,
		InspectorID:    m.InspectorID,
		Status:         domain.InspectionStatus(m.Status),
		OrganizationID: m.OrganizationID,
		InspectionDate: m.InspectionDate,
		MeterReading:   m.MeterReading,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
	d.Steps = make([]domain.FilledStep, len(m.Steps))
	for i, s := range m.Steps {
		d.Steps[i] = domain.FilledStep{
			StepID:       s.StepID,
			StepTitle:    s.StepTitle,
			ResponseText: s.ResponseText,
			MediaURLs:    s.MediaURLs,
			Timestamp:    s.Timestamp,
		}
	}
	if m.ApproverID.Valid {
		v := m.ApproverID.String
		d.ApproverID = &v
	}
	if m.AutoApproved.Valid {
		v := m.AutoApproved.Bool
		d.AutoApproved = &v
	}
	if m.BatchID.Valid {
		v := m.BatchID.String
		d.BatchID = &v
	}
	return d
}

// ToModelInspectionApprover converts a domain approver entry to its row form.
func ToModelInspectionApprover(inspectionID string, d domain.InspectionApprover) models.InspectionApprover {
	m := models.InspectionApprover{
		InspectionID: inspectionID,
		UserID:       d.UserID,
		Status:       string(d.Status),
	}
	if d.UserName != nil {
		m.UserName = sql.NullString{String: *d.UserName, Valid: true}
	}
	if d.Remarks != nil {
		m.Remarks = sql.NullString{String: *d.Remarks, Valid: true}
	}
	if d.ActionDate != nil {
		m.ActionDate = sql.NullTime{Time: *d.ActionDate, Valid: true}
	}
	return m
}

// ToDomainInspectionApprover converts an approver row to its domain form.
func ToDomainInspectionApprover(m models.InspectionApprover) domain.InspectionApprover {
	d := domain.InspectionApprover{
		UserID: m.UserID,
		Status: domain.ApproverStatus(m.Status),
	}
	if m.UserName.Valid {
		v := m.UserName.String
		d.UserName = &v
	}
	if m.Remarks.Valid {
		v := m.Remarks.String
		d.Remarks = &v
	}
	if m.ActionDate.Valid {
		t := m.ActionDate.Time
		d.ActionDate = &t
	}
	return d
}

// ToDomainInspectionSlice converts a slice of model Inspections to domain Inspections.
func ToDomainInspectionSlice(ms []models.Inspection) []domain.Inspection {
	ds := make([]domain.Inspection, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainInspection(m)
	}
	return ds
}
