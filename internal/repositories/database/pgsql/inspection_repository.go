package pgsql

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/FieldOpsLabs/inspection_tracking_app/internal/apperrors"
	"github.com/FieldOpsLabs/inspection_tracking_app/internal/core/domain"
	portsrepo "github.com/FieldOpsLabs/inspection_tracking_app/internal/core/ports/repositories"
	"github.com/FieldOpsLabs/inspection_tracking_app/internal/models"
	"github.com/FieldOpsLabs/inspection_tracking_app/internal/utils/mapping"
	"github.com/FieldOpsLabs/inspection_tracking_app/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxInspectionRepository struct {
	BaseRepository
}

// newPgxInspectionRepository creates a new repository for inspection data.
func newPgxInspectionRepository(pool *pgxpool.Pool) portsrepo.InspectionRepositoryWithTx {
	return &PgxInspectionRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxInspectionRepository implements portsrepo.InspectionRepositoryWithTx
var _ portsrepo.InspectionRepositoryWithTx = (*PgxInspectionRepository)(nil)

var FULL_INSPECTION_SELECT_QUERY = `
SELECT
	i.inspection_id, i.workflow_id, i.workflow_name, i.category, i.inspection_type,
	i.steps, i.assigned_to, i.inspector_id, i.approver_id, i.status,
	i.organization_id, i.inspection_date, i.auto_approved, i.batch_id, i.meter_reading,
	i.created_at, i.created_by, i.last_updated_at, i.last_updated_by, i.version
FROM inspections i
`

// getInspections private func to run the select query with the given filters.
// Approver entries are not attached here.
func (r *PgxInspectionRepository) getInspections(ctx context.Context, filterQuery string, args ...any) ([]models.Inspection, error) {
	query := FULL_INSPECTION_SELECT_QUERY + filterQuery
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query inspections", err)
	}
	defer rows.Close()
	modelInspections, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Inspection])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []models.Inspection{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect inspection rows", err)
	}
	return modelInspections, nil
}

// findApproversByInspectionIDs retrieves approver entries for a list of inspections,
// keyed by inspection ID. Inspections without approvers get an empty slice.
func (r *PgxInspectionRepository) findApproversByInspectionIDs(ctx context.Context, inspectionIDs []string) (map[string][]domain.InspectionApprover, error) {
	approversMap := make(map[string][]domain.InspectionApprover, len(inspectionIDs))
	for _, id := range inspectionIDs {
		approversMap[id] = []domain.InspectionApprover{}
	}
	if len(inspectionIDs) == 0 {
		return approversMap, nil
	}

	query := `
		SELECT a.inspection_id, a.user_id, u.name AS user_name, a.status, a.remarks, a.action_date
		FROM inspection_approvers a
		JOIN users u ON a.user_id = u.user_id
		WHERE a.inspection_id = ANY($1)
		ORDER BY a.inspection_id, a.user_id;
	`
	rows, err := r.Pool.Query(ctx, query, inspectionIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query inspection approvers", err)
	}
	defer rows.Close()

	for rows.Next() {
		var m models.InspectionApprover
		if err := rows.Scan(
			&m.InspectionID,
			&m.UserID,
			&m.UserName,
			&m.Status,
			&m.Remarks,
			&m.ActionDate,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan inspection approver row", err)
		}
		approversMap[m.InspectionID] = append(approversMap[m.InspectionID], mapping.ToDomainInspectionApprover(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating inspection approver rows", err)
	}

	return approversMap, nil
}

// attachApprovers loads approver entries for the given model rows and converts
// everything to domain inspections.
func (r *PgxInspectionRepository) attachApprovers(ctx context.Context, modelInspections []models.Inspection) ([]domain.Inspection, error) {
	ids := make([]string, len(modelInspections))
	for i, m := range modelInspections {
		ids[i] = m.InspectionID
	}
	approversMap, err := r.findApproversByInspectionIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	inspections := mapping.ToDomainInspectionSlice(modelInspections)
	for i := range inspections {
		inspections[i].Approvers = approversMap[inspections[i].InspectionID]
	}
	return inspections, nil
}

// SaveInspection persists the inspection and its approver entries within a DB transaction.
func (r *PgxInspectionRepository) SaveInspection(ctx context.Context, inspection domain.Inspection) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) // No-op if the transaction commits.

	modelInspection := mapping.ToModelInspection(inspection)
	inspectionQuery := `
		INSERT INTO inspections (
			inspection_id, workflow_id, workflow_name, category, inspection_type,
			steps, assigned_to, inspector_id, approver_id, status,
			organization_id, inspection_date, auto_approved, batch_id, meter_reading,
			created_at, created_by, last_updated_at, last_updated_by, version
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20);
	`
	_, err = tx.Exec(ctx, inspectionQuery,
		modelInspection.InspectionID,
		modelInspection.WorkflowID,
		modelInspection.WorkflowName,
		modelInspection.Category,
		modelInspection.InspectionType,
		modelInspection.Steps,
		modelInspection.AssignedTo,
		modelInspection.InspectorID,
		modelInspection.ApproverID,
		modelInspection.Status,
		modelInspection.OrganizationID,
		modelInspection.InspectionDate,
		modelInspection.AutoApproved,
		modelInspection.BatchID,
		modelInspection.MeterReading,
		modelInspection.CreatedAt,
		modelInspection.CreatedBy,
		modelInspection.LastUpdatedAt,
		modelInspection.LastUpdatedBy,
		1,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" { // unique_violation
				return apperrors.NewConflictError("inspection ID " + inspection.InspectionID + " already exists")
			}
			if pgErr.Code == "23503" { // foreign_key_violation
				return apperrors.NewValidationFailedError("referenced workflow, organization or user does not exist")
			}
		}
		return apperrors.NewAppError(500, "failed to insert inspection "+inspection.InspectionID, err)
	}

	if len(inspection.Approvers) > 0 {
		batch := &pgx.Batch{}
		approverQuery := `
			INSERT INTO inspection_approvers (inspection_id, user_id, status, remarks, action_date)
			VALUES ($1, $2, $3, $4, $5);
		`
		for _, approver := range inspection.Approvers {
			m := mapping.ToModelInspectionApprover(inspection.InspectionID, approver)
			batch.Queue(approverQuery,
				m.InspectionID,
				m.UserID,
				m.Status,
				m.Remarks,
				m.ActionDate,
			)
		}
		br := tx.SendBatch(ctx, batch)
		if err := br.Close(); err != nil {
			return apperrors.NewAppError(500, "failed to execute approver batch for inspection "+inspection.InspectionID, err)
		}
	}

	if err := r.Commit(ctx, tx); err != nil {
		return err
	}
	return nil
}

// FindInspectionByID retrieves an inspection with its approver entries.
func (r *PgxInspectionRepository) FindInspectionByID(ctx context.Context, inspectionID string) (*domain.Inspection, error) {
	modelInspections, err := r.getInspections(ctx, `WHERE i.inspection_id = $1`, inspectionID)
	if err != nil {
		return nil, err
	}
	if len(modelInspections) == 0 {
		return nil, apperrors.ErrNotFound
	}

	inspections, err := r.attachApprovers(ctx, modelInspections)
	if err != nil {
		return nil, err
	}
	return &inspections[0], nil
}

// ListInspectionsByOrganization retrieves a page of an organization's inspections
// using token-based keyset pagination, newest inspection date first.
func (r *PgxInspectionRepository) ListInspectionsByOrganization(ctx context.Context, organizationID string, filter portsrepo.ListInspectionsFilter, limit int, pageToken string) ([]domain.Inspection, string, error) {
	if limit <= 0 {
		limit = 20
	}
	// Fetch one extra row to tell whether a next page exists.
	fetchLimit := limit + 1

	filterClause := `WHERE i.organization_id = $1`
	args := []any{organizationID}

	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		filterClause += ` AND i.status = $` + strconv.Itoa(len(args))
	}
	if filter.WorkflowID != nil {
		args = append(args, *filter.WorkflowID)
		filterClause += ` AND i.workflow_id = $` + strconv.Itoa(len(args))
	}

	return r.listInspectionsPage(ctx, filterClause, args, limit, fetchLimit, pageToken)
}

// ListInspectionsByInspector retrieves a page of inspections submitted by a user.
func (r *PgxInspectionRepository) ListInspectionsByInspector(ctx context.Context, inspectorID string, limit int, pageToken string) ([]domain.Inspection, string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	filterClause := `WHERE i.inspector_id = $1`
	args := []any{inspectorID}

	return r.listInspectionsPage(ctx, filterClause, args, limit, fetchLimit, pageToken)
}

// listInspectionsPage runs a keyset-paginated inspection listing. Ordering is by
// inspection_date DESC, then created_at DESC, with inspection_id DESC breaking
// ties so rows sharing both timestamps never straddle a page boundary.
func (r *PgxInspectionRepository) listInspectionsPage(ctx context.Context, filterClause string, args []any, limit, fetchLimit int, pageToken string) ([]domain.Inspection, string, error) {
	orderByClause := `ORDER BY i.inspection_date DESC, i.created_at DESC, i.inspection_id DESC`

	if pageToken != "" {
		lastDate, lastCreatedAt, lastInspectionID, decodeErr := pagination.DecodeToken(pageToken)
		if decodeErr != nil {
			return nil, "", apperrors.NewAppError(400, "invalid pageToken", decodeErr)
		}
		// Tuple comparison keeps the cursor condition concise in Postgres.
		args = append(args, lastDate, lastCreatedAt, lastInspectionID)
		filterClause += ` AND (i.inspection_date, i.created_at, i.inspection_id) < ($` + strconv.Itoa(len(args)-2) + `, $` + strconv.Itoa(len(args)-1) + `, $` + strconv.Itoa(len(args)) + `)`
	}

	args = append(args, fetchLimit)
	query := filterClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args))

	modelInspections, err := r.getInspections(ctx, query, args...)
	if err != nil {
		return nil, "", err
	}

	var nextToken string
	results := modelInspections
	if len(modelInspections) > limit {
		// The token points at the last item included in this page; the next
		// query starts after it.
		last := modelInspections[limit-1]
		nextToken = pagination.EncodeToken(last.InspectionDate, last.CreatedAt, last.InspectionID)
		results = modelInspections[:limit]
	}

	inspections, err := r.attachApprovers(ctx, results)
	if err != nil {
		return nil, "", err
	}
	return inspections, nextToken, nil
}

// ListInspectionsByBatchID retrieves every inspection belonging to a bulk batch.
func (r *PgxInspectionRepository) ListInspectionsByBatchID(ctx context.Context, organizationID, batchID string) ([]domain.Inspection, error) {
	query := `WHERE i.organization_id = $1 AND i.batch_id = $2 ORDER BY i.created_at`
	modelInspections, err := r.getInspections(ctx, query, organizationID, batchID)
	if err != nil {
		return nil, err
	}
	return r.attachApprovers(ctx, modelInspections)
}

// CountAutoApprovedSince counts auto-approved inspections of a workflow created
// after the given instant.
func (r *PgxInspectionRepository) CountAutoApprovedSince(ctx context.Context, workflowID string, since time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM inspections
		WHERE workflow_id = $1 AND auto_approved = true AND created_at > $2;
	`
	var count int
	if err := r.Pool.QueryRow(ctx, query, workflowID, since).Scan(&count); err != nil {
		return 0, apperrors.NewAppError(500, "failed to count auto-approved inspections for workflow "+workflowID, err)
	}
	return count, nil
}

// UpdateInspectionStatus transitions an inspection's status using optimistic locking.
func (r *PgxInspectionRepository) UpdateInspectionStatus(ctx context.Context, inspection *domain.Inspection, newStatus domain.InspectionStatus, updatedByUserID string) error {
	var approverID *string
	if newStatus == domain.StatusApproved || newStatus == domain.StatusRejected {
		approverID = &updatedByUserID
	} else {
		approverID = inspection.ApproverID
	}
	autoApproved := inspection.AutoApproved
	if newStatus == domain.StatusAutoApproved {
		v := true
		autoApproved = &v
	}

	query := `
		UPDATE inspections
		SET status = $1, approver_id = $2, auto_approved = $3,
		    last_updated_at = NOW(), last_updated_by = $4, version = version + 1
		WHERE inspection_id = $5 AND version = $6;
	`
	result, err := r.Pool.Exec(ctx, query,
		string(newStatus),
		approverID,
		autoApproved,
		updatedByUserID,
		inspection.InspectionID,
		inspection.Version,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update inspection status "+inspection.InspectionID, err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("optimistic locking failed: inspection " + inspection.InspectionID)
	}
	return nil
}

// UpdateApproverStatus records one approver's decision on an inspection.
func (r *PgxInspectionRepository) UpdateApproverStatus(ctx context.Context, inspectionID string, approver domain.InspectionApprover) error {
	m := mapping.ToModelInspectionApprover(inspectionID, approver)
	query := `
		UPDATE inspection_approvers
		SET status = $1, remarks = $2, action_date = $3
		WHERE inspection_id = $4 AND user_id = $5;
	`
	result, err := r.Pool.Exec(ctx, query,
		m.Status,
		m.Remarks,
		m.ActionDate,
		m.InspectionID,
		m.UserID,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update approver status for inspection "+inspectionID, err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("approver " + approver.UserID + " not found on inspection " + inspectionID)
	}
	return nil
}

// UpdateStatusByBatchID transitions every pending-bulk inspection of a batch and
// returns the number updated. The single UPDATE keeps the batch atomic.
func (r *PgxInspectionRepository) UpdateStatusByBatchID(ctx context.Context, organizationID, batchID string, newStatus domain.InspectionStatus, updatedByUserID string) (int, error) {
	query := `
		UPDATE inspections
		SET status = $1, approver_id = $2, last_updated_at = NOW(), last_updated_by = $2, version = version + 1
		WHERE organization_id = $3 AND batch_id = $4 AND status = $5;
	`
	result, err := r.Pool.Exec(ctx, query,
		string(newStatus),
		updatedByUserID,
		organizationID,
		batchID,
		string(domain.StatusPendingBulk),
	)
	if err != nil {
		return 0, apperrors.NewAppError(500, "failed to update inspections for batch "+batchID, err)
	}
	return int(result.RowsAffected()), nil
}
