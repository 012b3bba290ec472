package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/FieldOpsLabs/inspection_tracking_app/internal/apperrors"
	"github.com/FieldOpsLabs/inspection_tracking_app/internal/core/domain"
	portsrepo "github.com/FieldOpsLabs/inspection_tracking_app/internal/core/ports/repositories"
	"github.com/FieldOpsLabs/inspection_tracking_app/internal/models"
	"github.com/FieldOpsLabs/inspection_tracking_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxUserRepository struct {
	db *pgxpool.Pool
}

func newPgxUserRepository(db *pgxpool.Pool) portsrepo.UserRepository {
	return &PgxUserRepository{db: db}
}

// Ensure PgxUserRepository implements portsrepo.UserRepository
var _ portsrepo.UserRepository = (*PgxUserRepository)(nil)

var FULL_USER_SELECT_QUERY = `
SELECT
	u.user_id, u.username, u.password_hash, u.name, u.email, u.role,
	u.organization_id, u.custom_role_id, u.permissions,
	u.auth_provider, u.provider_user_id,
	u.refresh_token_hash, u.refresh_token_expiry_time,
	u.created_at, u.created_by, u.last_updated_at, u.last_updated_by, u.version,
	u.deleted_at
FROM users u
`

// getUsers private func to run the select query with the given filters
func (r *PgxUserRepository) getUsers(ctx context.Context, filterQuery string, args ...any) ([]domain.User, error) {
	query := FULL_USER_SELECT_QUERY + filterQuery
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query users", err)
	}
	defer rows.Close()
	modelUsers, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.User])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.User{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect user rows", err)
	}

	return mapping.ToDomainUserSlice(modelUsers), nil
}

// getSingleUser runs the select query and expects at most one row.
func (r *PgxUserRepository) getSingleUser(ctx context.Context, filterQuery string, args ...any) (*domain.User, error) {
	users, err := r.getUsers(ctx, filterQuery, args...)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &users[0], nil
}

func (r *PgxUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	modelUser := mapping.ToModelUser(user)
	query := `
		INSERT INTO users (
			user_id, username, password_hash, name, email, role,
			organization_id, custom_role_id, permissions,
			auth_provider, provider_user_id,
			created_at, created_by, last_updated_at, last_updated_by, version
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
	`
	_, err := r.db.Exec(ctx, query,
		modelUser.UserID,
		modelUser.Username,
		modelUser.PasswordHash,
		modelUser.Name,
		modelUser.Email,
		modelUser.Role,
		modelUser.OrganizationID,
		modelUser.CustomRoleID,
		modelUser.Permissions,
		modelUser.AuthProvider,
		modelUser.ProviderUserID,
		modelUser.CreatedAt,
		modelUser.CreatedBy,
		modelUser.LastUpdatedAt,
		modelUser.LastUpdatedBy,
		1,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" { // unique_violation
				if pgErr.ConstraintName == "uq_users_username" {
					return apperrors.NewConflictError("username " + user.Username + " is already taken")
				}
				if pgErr.ConstraintName == "uq_users_org_email" {
					return apperrors.NewConflictError("email " + user.Email + " is already registered in this organization")
				}
				return apperrors.NewConflictError("user ID " + user.UserID + " already exists")
			}
			if pgErr.Code == "23503" { // foreign_key_violation
				return apperrors.NewValidationFailedError("organization does not exist")
			}
		}
		return apperrors.NewAppError(500, "failed to save user "+user.UserID, err)
	}
	return nil
}

func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return r.getSingleUser(ctx, `WHERE u.user_id = $1 AND u.deleted_at IS NULL`, userID)
}

func (r *PgxUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.getSingleUser(ctx, `WHERE u.username = $1 AND u.deleted_at IS NULL`, username)
}

func (r *PgxUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getSingleUser(ctx, `WHERE u.email = $1 AND u.deleted_at IS NULL`, email)
}

func (r *PgxUserRepository) FindUserByProviderDetails(ctx context.Context, authProvider string, providerUserID string) (*domain.User, error) {
	return r.getSingleUser(ctx, `WHERE u.auth_provider = $1 AND u.provider_user_id = $2 AND u.deleted_at IS NULL`, authProvider, providerUserID)
}

func (r *PgxUserRepository) FindUsersByOrganization(ctx context.Context, organizationID string, limit, offset int) ([]domain.User, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	query := `WHERE u.organization_id = $1 AND u.deleted_at IS NULL ORDER BY u.created_at DESC LIMIT $2 OFFSET $3`
	return r.getUsers(ctx, query, organizationID, limit, offset)
}

func (r *PgxUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	modelUser := mapping.ToModelUser(user)
	query := `
		UPDATE users
		SET name = $1, email = $2, role = $3, custom_role_id = $4, permissions = $5,
		    auth_provider = $6, provider_user_id = $7,
		    last_updated_at = $8, last_updated_by = $9, version = version + 1
		WHERE user_id = $10 AND version = $11 AND deleted_at IS NULL;
	`
	cmdTag, err := r.db.Exec(ctx, query,
		modelUser.Name,
		modelUser.Email,
		modelUser.Role,
		modelUser.CustomRoleID,
		modelUser.Permissions,
		modelUser.AuthProvider,
		modelUser.ProviderUserID,
		modelUser.LastUpdatedAt,
		modelUser.LastUpdatedBy,
		modelUser.UserID,
		modelUser.Version,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.NewConflictError("email " + user.Email + " is already registered in this organization")
		}
		return apperrors.NewAppError(500, "failed to execute update user query", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("optimistic locking failed: user " + user.UserID)
	}
	return nil
}

func (r *PgxUserRepository) MarkUserDeleted(ctx context.Context, userID string, deletedAt time.Time, deleterUserID string) error {
	query := `
		UPDATE users
		SET deleted_at = $1, last_updated_at = $1, last_updated_by = $2, version = version + 1
		WHERE user_id = $3 AND deleted_at IS NULL;
	`
	cmdTag, err := r.db.Exec(ctx, query, deletedAt, deleterUserID, userID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to mark user as deleted", err)
	}
	if cmdTag.RowsAffected() == 0 {
		// User might not exist or was already deleted
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxUserRepository) UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, refreshTokenExpiryTime time.Time) error {
	query := `
		UPDATE users
		SET refresh_token_hash = $1, refresh_token_expiry_time = $2, last_updated_at = NOW()
		WHERE user_id = $3 AND deleted_at IS NULL;
	`
	cmdTag, err := r.db.Exec(ctx, query, refreshTokenHash, refreshTokenExpiryTime, userID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update refresh token for user "+userID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxUserRepository) ClearRefreshToken(ctx context.Context, userID string) error {
	query := `
		UPDATE users
		SET refresh_token_hash = NULL, refresh_token_expiry_time = NULL, last_updated_at = NOW()
		WHERE user_id = $1 AND deleted_at IS NULL;
	`
	cmdTag, err := r.db.Exec(ctx, query, userID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to clear refresh token for user "+userID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
