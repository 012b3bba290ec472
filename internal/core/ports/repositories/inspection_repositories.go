package repositories

import (
	"context"
	"time"

	"github.com/FieldOpsLabs/inspection_tracking_app/internal/core/domain"
)

// ListInspectionsFilter narrows an inspection listing.
type ListInspectionsFilter struct {
	Status     *domain.InspectionStatus
	WorkflowID *string
}

// InspectionReader defines read operations for inspection data.
type InspectionReader interface {
	// FindInspectionByID retrieves an inspection with its approver entries.
	FindInspectionByID(ctx context.Context, inspectionID string) (*domain.Inspection, error)

	// ListInspectionsByOrganization retrieves a page of an organization's inspections,
	// newest inspection date first. nextToken is empty when no more pages exist.
	ListInspectionsByOrganization(ctx context.Context, organizationID string, filter ListInspectionsFilter, limit int, pageToken string) ([]domain.Inspection, string, error)

	// ListInspectionsByInspector retrieves a page of inspections submitted by a user.
	ListInspectionsByInspector(ctx context.Context, inspectorID string, limit int, pageToken string) ([]domain.Inspection, string, error)

	// ListInspectionsByBatchID retrieves every inspection belonging to a bulk batch.
	ListInspectionsByBatchID(ctx context.Context, organizationID, batchID string) ([]domain.Inspection, error)

	// CountAutoApprovedSince counts auto-approved inspections of a workflow whose
	// creation time falls after the given instant. Used by frequency-limit rules.
	CountAutoApprovedSince(ctx context.Context, workflowID string, since time.Time) (int, error)
}

// InspectionWriter defines write operations for inspection data.
type InspectionWriter interface {
	// SaveInspection persists an inspection and its approver entries in one
	// database transaction.
	SaveInspection(ctx context.Context, inspection domain.Inspection) error

	// UpdateInspectionStatus transitions an inspection's status using optimistic
	// locking on the version column.
	UpdateInspectionStatus(ctx context.Context, inspection *domain.Inspection, newStatus domain.InspectionStatus, updatedByUserID string) error

	// UpdateApproverStatus records one approver's decision on an inspection.
	UpdateApproverStatus(ctx context.Context, inspectionID string, approver domain.InspectionApprover) error

	// UpdateStatusByBatchID transitions every pending-bulk inspection of a batch
	// in one database transaction and returns the number updated.
	UpdateStatusByBatchID(ctx context.Context, organizationID, batchID string, newStatus domain.InspectionStatus, updatedByUserID string) (int, error)
}

// InspectionRepositoryFacade combines all inspection repository interfaces.
type InspectionRepositoryFacade interface {
	InspectionReader
	InspectionWriter
}

// InspectionRepositoryWithTx extends the facade with transaction capabilities.
type InspectionRepositoryWithTx interface {
	InspectionRepositoryFacade
	TransactionManager
}
