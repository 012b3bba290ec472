package services

import (
	"context"

	"github.com/FieldOpsLabs/inspection_tracking_app/internal/core/domain"
	"github.com/FieldOpsLabs/inspection_tracking_app/internal/dto"
)

// InspectionReaderSvc defines read operations for inspections.
type InspectionReaderSvc interface {
	// GetInspectionByID retrieves an inspection with its approver entries.
	GetInspectionByID(ctx context.Context, organizationID, inspectionID string, requestingUserID string) (*domain.Inspection, error)

	// ListInspections retrieves a page of an organization's inspections.
	// The returned token is empty when no more pages exist.
	ListInspections(ctx context.Context, organizationID string, params dto.ListInspectionsParams, requestingUserID string) ([]domain.Inspection, string, error)

	// ListMyInspections retrieves a page of inspections submitted by the caller.
	ListMyInspections(ctx context.Context, inspectorID string, limit int, pageToken string) ([]domain.Inspection, string, error)
}

// InspectionWriterSvc defines submission and decision operations for inspections.
type InspectionWriterSvc interface {
	// SubmitInspection validates a filled checklist against its workflow,
	// evaluates the auto-approval policy and persists the inspection.
	SubmitInspection(ctx context.Context, organizationID string, req dto.CreateInspectionRequest, inspectorID string) (*domain.Inspection, error)

	// ApproveInspection records an approval decision by an assigned approver.
	ApproveInspection(ctx context.Context, organizationID, inspectionID string, approverUserID string, remarks *string) (*domain.Inspection, error)

	// RejectInspection records a rejection decision by an assigned approver.
	RejectInspection(ctx context.Context, organizationID, inspectionID string, approverUserID string, remarks *string) (*domain.Inspection, error)

	// BulkApproveInspections approves every pending-bulk inspection of a batch
	// and returns the number approved.
	BulkApproveInspections(ctx context.Context, organizationID, batchID string, approverUserID string) (int, error)
}

// InspectionSvcFacade combines all inspection-related service interfaces.
type InspectionSvcFacade interface {
	InspectionReaderSvc
	InspectionWriterSvc
}
