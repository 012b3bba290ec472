package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/FieldOpsLabs/inspection_tracking_app/internal/apperrors"
	"github.com/FieldOpsLabs/inspection_tracking_app/internal/core/domain"
	portsrepo "github.com/FieldOpsLabs/inspection_tracking_app/internal/core/ports/repositories"
	portssvc "github.com/FieldOpsLabs/inspection_tracking_app/internal/core/ports/services"
	"github.com/FieldOpsLabs/inspection_tracking_app/internal/dto"
	"github.com/google/uuid"
)

// organizationService implements the OrganizationSvcFacade interface
type organizationService struct {
	BaseService
	orgRepo  portsrepo.OrganizationRepositoryFacade
	userRepo portsrepo.UserRepository
}

// NewOrganizationService creates a new organization service with the provided dependencies
func NewOrganizationService(
	orgRepo portsrepo.OrganizationRepositoryFacade,
	userRepo portsrepo.UserRepository,
) portssvc.OrganizationSvcFacade {
	return &organizationService{
		orgRepo:  orgRepo,
		userRepo: userRepo,
	}
}

// Ensure organizationService implements the OrganizationSvcFacade interface
var _ portssvc.OrganizationSvcFacade = (*organizationService)(nil)

// GetOrganizationByID retrieves an organization the requesting user belongs to
func (s *organizationService) GetOrganizationByID(ctx context.Context, organizationID string, requestingUserID string) (*domain.Organization, error) {
	if err := s.AuthorizeUserAction(ctx, requestingUserID, organizationID, domain.RoleGuest); err != nil {
		return nil, err
	}

	org, err := s.orgRepo.FindOrganizationByID(ctx, organizationID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find organization by ID",
				slog.String("organization_id", organizationID))
		}
		return nil, err
	}

	s.LogDebug(ctx, "Organization retrieved successfully",
		slog.String("organization_id", org.OrganizationID))
	return org, nil
}

// ListMyOrganizations retrieves the organizations the caller is a member of.
// A user belongs to exactly one organization, so the list holds at most one entry.
func (s *organizationService) ListMyOrganizations(ctx context.Context, requestingUserID string) ([]domain.Organization, error) {
	user, err := s.userRepo.FindUserByID(ctx, requestingUserID)
	if err != nil {
		return nil, err
	}

	org, err := s.orgRepo.FindOrganizationByID(ctx, user.OrganizationID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return []domain.Organization{}, nil
		}
		s.LogError(ctx, err, "Failed to find organization for member",
			slog.String("user_id", requestingUserID),
			slog.String("organization_id", user.OrganizationID))
		return nil, err
	}
	return []domain.Organization{*org}, nil
}

// CreateOrganization creates a new organization and promotes the creator to admin
func (s *organizationService) CreateOrganization(ctx context.Context, req dto.CreateOrganizationRequest, creatorUserID string) (*domain.Organization, error) {
	now := time.Now()
	organizationID := uuid.NewString()

	org := domain.Organization{
		OrganizationID: organizationID,
		Name:           req.Name,
		Address:        req.Address,
		Phone:          req.Phone,
		Email:          req.Email,
		Size:           req.Size,
		IsActive:       true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
			Version:       1,
		},
	}
	if req.Settings != nil {
		org.Settings = domain.OrganizationSettings{
			AllowUserInvites:      req.Settings.AllowUserInvites,
			RequireApproverReview: req.Settings.RequireApproverReview,
		}
	}
	org.CustomRoles = buildCustomRoles(req.CustomRoles)

	if err := s.orgRepo.SaveOrganization(ctx, org); err != nil {
		s.LogError(ctx, err, "Failed to save organization",
			slog.String("organization_id", org.OrganizationID))
		return nil, err
	}

	// Move the creator into the new organization as its admin.
	if err := s.promoteCreator(ctx, creatorUserID, organizationID); err != nil {
		s.LogError(ctx, err, "Failed to promote creator to admin of new organization",
			slog.String("organization_id", organizationID),
			slog.String("user_id", creatorUserID))
		// The organization itself was created successfully.
	}

	s.LogInfo(ctx, "Organization created successfully",
		slog.String("organization_id", org.OrganizationID),
		slog.String("creator_id", creatorUserID))
	return &org, nil
}

func (s *organizationService) promoteCreator(ctx context.Context, creatorUserID, organizationID string) error {
	user, err := s.userRepo.FindUserByID(ctx, creatorUserID)
	if err != nil {
		return err
	}
	user.OrganizationID = organizationID
	user.Role = domain.RoleAdmin
	user.LastUpdatedAt = time.Now()
	user.LastUpdatedBy = creatorUserID
	return s.userRepo.UpdateUser(ctx, *user)
}

// UpdateOrganization updates details, settings and custom roles (admin only)
func (s *organizationService) UpdateOrganization(ctx context.Context, organizationID string, req dto.UpdateOrganizationRequest, requestingUserID string) (*domain.Organization, error) {
	if err := s.AuthorizeUserAction(ctx, requestingUserID, organizationID, domain.RoleAdmin); err != nil {
		return nil, err
	}

	org, err := s.orgRepo.FindOrganizationByID(ctx, organizationID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		org.Name = *req.Name
	}
	if req.Address != nil {
		org.Address = *req.Address
	}
	if req.Phone != nil {
		org.Phone = *req.Phone
	}
	if req.Email != nil {
		org.Email = *req.Email
	}
	if req.Size != nil {
		if !req.Size.IsValid() {
			return nil, apperrors.NewValidationFailedError("invalid organization size " + string(*req.Size))
		}
		org.Size = *req.Size
	}
	if req.Settings != nil {
		org.Settings = domain.OrganizationSettings{
			AllowUserInvites:      req.Settings.AllowUserInvites,
			RequireApproverReview: req.Settings.RequireApproverReview,
		}
	}
	if req.CustomRoles != nil {
		org.CustomRoles = buildCustomRoles(req.CustomRoles)
	}

	org.LastUpdatedAt = time.Now()
	org.LastUpdatedBy = requestingUserID

	if err := s.orgRepo.UpdateOrganization(ctx, *org); err != nil {
		s.LogError(ctx, err, "Failed to update organization",
			slog.String("organization_id", organizationID))
		return nil, err
	}
	org.Version++

	s.LogInfo(ctx, "Organization updated successfully",
		slog.String("organization_id", organizationID),
		slog.String("updater_id", requestingUserID))
	return org, nil
}

// DeactivateOrganization marks an organization as inactive (admin only)
func (s *organizationService) DeactivateOrganization(ctx context.Context, organizationID string, requestingUserID string) error {
	return s.setOrganizationStatus(ctx, organizationID, requestingUserID, false)
}

// ActivateOrganization marks an organization as active (admin only)
func (s *organizationService) ActivateOrganization(ctx context.Context, organizationID string, requestingUserID string) error {
	return s.setOrganizationStatus(ctx, organizationID, requestingUserID, true)
}

func (s *organizationService) setOrganizationStatus(ctx context.Context, organizationID string, requestingUserID string, isActive bool) error {
	if err := s.AuthorizeUserAction(ctx, requestingUserID, organizationID, domain.RoleAdmin); err != nil {
		return err
	}

	org, err := s.orgRepo.FindOrganizationByID(ctx, organizationID)
	if err != nil {
		return err
	}

	if err := s.orgRepo.UpdateOrganizationStatus(ctx, org, isActive, requestingUserID); err != nil {
		s.LogError(ctx, err, "Failed to update organization status",
			slog.String("organization_id", organizationID),
			slog.Bool("is_active", isActive))
		return err
	}

	s.LogInfo(ctx, "Organization status updated",
		slog.String("organization_id", organizationID),
		slog.Bool("is_active", isActive))
	return nil
}

// AuthorizeUserAction checks if a user has required permissions within an organization
func (s *organizationService) AuthorizeUserAction(ctx context.Context, userID, organizationID string, requiredRole domain.UserRole) error {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.ErrNotFound
		}
		s.LogError(ctx, err, "Failed to find user for authorization",
			slog.String("user_id", userID),
			slog.String("organization_id", organizationID))
		return err
	}

	if user.OrganizationID != organizationID {
		s.LogDebug(ctx, "User not a member of organization",
			slog.String("user_id", userID),
			slog.String("organization_id", organizationID))
		return apperrors.ErrNotFound
	}

	if !hasRequiredRole(user.Role, requiredRole) {
		s.LogDebug(ctx, "User does not have required role",
			slog.String("user_id", userID),
			slog.String("organization_id", organizationID),
			slog.String("user_role", string(user.Role)),
			slog.String("required_role", string(requiredRole)))
		return apperrors.ErrForbidden
	}

	return nil
}

// hasRequiredRole checks if the user's role meets or exceeds the required role
func hasRequiredRole(userRole, requiredRole domain.UserRole) bool {
	// Simple role hierarchy check: admin > approver > inspector > guest
	switch requiredRole {
	case domain.RoleGuest:
		return userRole.IsValid()
	case domain.RoleInspector:
		return userRole == domain.RoleInspector || userRole == domain.RoleApprover || userRole == domain.RoleAdmin
	case domain.RoleApprover:
		return userRole == domain.RoleApprover || userRole == domain.RoleAdmin
	case domain.RoleAdmin:
		return userRole == domain.RoleAdmin
	default:
		return false
	}
}

// buildCustomRoles assigns role IDs to incoming custom role definitions.
func buildCustomRoles(reqs []dto.CustomRoleRequest) []domain.CustomRole {
	if len(reqs) == 0 {
		return nil
	}
	roles := make([]domain.CustomRole, len(reqs))
	for i, r := range reqs {
		roles[i] = domain.CustomRole{
			RoleID:      uuid.NewString(),
			Name:        r.Name,
			Permissions: r.Permissions,
		}
	}
	return roles
}
