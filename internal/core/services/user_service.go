package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/FieldOpsLabs/inspection_tracking_app/internal/apperrors"
	"github.com/FieldOpsLabs/inspection_tracking_app/internal/core/domain"
	portsrepo "github.com/FieldOpsLabs/inspection_tracking_app/internal/core/ports/repositories"
	portssvc "github.com/FieldOpsLabs/inspection_tracking_app/internal/core/ports/services"
	"github.com/FieldOpsLabs/inspection_tracking_app/internal/dto"
	"github.com/FieldOpsLabs/inspection_tracking_app/internal/utils"
	"github.com/google/uuid"
)

// userService implements the UserSvcFacade interface
type userService struct {
	BaseService
	userRepo portsrepo.UserRepository
	orgRepo  portsrepo.OrganizationReader
}

// NewUserService creates a new user service with the provided dependencies
func NewUserService(userRepo portsrepo.UserRepository, orgRepo portsrepo.OrganizationReader, opts ...func(*userService)) portssvc.UserSvcFacade {
	svc := &userService{
		userRepo: userRepo,
		orgRepo:  orgRepo,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// WithUserOrganizationAuthorizer injects the organization authorizer dependency.
func WithUserOrganizationAuthorizer(authorizer portssvc.OrganizationAuthorizerSvc) func(*userService) {
	return func(s *userService) {
		s.OrganizationAuthorizer = authorizer
	}
}

// Ensure userService implements the UserSvcFacade interface
var _ portssvc.UserSvcFacade = (*userService)(nil)

// CreateUser registers a new user with a hashed password. An empty
// organizationID places the user in the default organization.
func (s *userService) CreateUser(ctx context.Context, req dto.CreateUserRequest) (*domain.User, error) {
	organizationID := req.OrganizationID
	if organizationID == "" {
		defaultOrg, err := s.orgRepo.FindDefaultOrganization(ctx)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, apperrors.NewValidationFailedError("no organization specified and no default organization configured")
			}
			return nil, err
		}
		organizationID = defaultOrg.OrganizationID
	} else {
		if _, err := s.orgRepo.FindOrganizationByID(ctx, organizationID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, apperrors.NewValidationFailedError("organization " + organizationID + " does not exist")
			}
			return nil, err
		}
	}

	// Self-registration: the new user is their own creator.
	return s.createUser(ctx, organizationID, req, "")
}

// CreateUserInOrganization creates a user inside an organization on behalf of
// an existing member. Any member may invite when the organization allows user
// invites; otherwise only an organization admin can add users.
func (s *userService) CreateUserInOrganization(ctx context.Context, organizationID string, req dto.CreateUserRequest, creatorUserID string) (*domain.User, error) {
	org, err := s.orgRepo.FindOrganizationByID(ctx, organizationID)
	if err != nil {
		return nil, err
	}

	requiredRole := domain.RoleAdmin
	if org.Settings.AllowUserInvites {
		requiredRole = domain.RoleGuest
	}
	if err := s.AuthorizeUser(ctx, creatorUserID, organizationID, requiredRole); err != nil {
		return nil, err
	}

	return s.createUser(ctx, organizationID, req, creatorUserID)
}

// createUser hashes the password and persists the new user. An empty createdBy
// marks self-registration.
func (s *userService) createUser(ctx context.Context, organizationID string, req dto.CreateUserRequest, createdBy string) (*domain.User, error) {
	role := req.Role
	if role == "" {
		role = domain.RoleGuest
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		s.LogError(ctx, err, "Failed to hash password")
		return nil, apperrors.NewAppError(500, "failed to hash password", err)
	}

	now := time.Now()
	userID := uuid.NewString()
	if createdBy == "" {
		createdBy = userID
	}
	user := domain.User{
		UserID:         userID,
		Username:       req.Username,
		PasswordHash:   passwordHash,
		Name:           req.Name,
		Email:          req.Email,
		Role:           role,
		OrganizationID: organizationID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     createdBy,
			LastUpdatedAt: now,
			LastUpdatedBy: createdBy,
			Version:       1,
		},
	}

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) {
			s.LogError(ctx, err, "Failed to save user",
				slog.String("username", req.Username))
		}
		return nil, err
	}

	s.LogInfo(ctx, "User created successfully",
		slog.String("user_id", user.UserID),
		slog.String("organization_id", organizationID))
	return &user, nil
}

// GetUserByID retrieves a user by ID
func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find user by ID",
				slog.String("user_id", userID))
		}
		return nil, err
	}
	return user, nil
}

// GetUserByUsername retrieves a user by username for authentication
func (s *userService) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find user by username",
				slog.String("username", username))
		}
		return nil, err
	}
	return user, nil
}

// ListUsers retrieves the users of an organization, visible to members only
func (s *userService) ListUsers(ctx context.Context, organizationID string, requestingUserID string, limit, offset int) ([]domain.User, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, organizationID, domain.RoleGuest); err != nil {
		return nil, err
	}

	users, err := s.userRepo.FindUsersByOrganization(ctx, organizationID, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list users for organization",
			slog.String("organization_id", organizationID))
		return nil, err
	}

	if users == nil {
		return []domain.User{}, nil
	}
	return users, nil
}

// UpdateUser applies partial updates to a user. Users may update themselves;
// organization admins may update anyone in their organization.
func (s *userService) UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest, updaterUserID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if updaterUserID != userID {
		if err := s.AuthorizeUser(ctx, updaterUserID, user.OrganizationID, domain.RoleAdmin); err != nil {
			return nil, err
		}
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Role != nil {
		// Role changes require admin rights even on self.
		if err := s.AuthorizeUser(ctx, updaterUserID, user.OrganizationID, domain.RoleAdmin); err != nil {
			return nil, err
		}
		if !req.Role.IsValid() {
			return nil, apperrors.NewValidationFailedError("invalid role " + string(*req.Role))
		}
		user.Role = *req.Role
	}
	if req.CustomRoleID != nil || req.Permissions != nil {
		// Custom role and permission grants are admin-only, same as role changes.
		if err := s.AuthorizeUser(ctx, updaterUserID, user.OrganizationID, domain.RoleAdmin); err != nil {
			return nil, err
		}
		if req.CustomRoleID != nil {
			user.CustomRoleID = req.CustomRoleID
		}
		if req.Permissions != nil {
			user.Permissions = req.Permissions
		}
	}

	user.LastUpdatedAt = time.Now()
	user.LastUpdatedBy = updaterUserID

	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		s.LogError(ctx, err, "Failed to update user",
			slog.String("user_id", userID))
		return nil, err
	}
	user.Version++

	s.LogInfo(ctx, "User updated successfully",
		slog.String("user_id", userID),
		slog.String("updater_id", updaterUserID))
	return user, nil
}

// DeleteUser soft deletes a user. Users may delete themselves; organization
// admins may delete anyone in their organization.
func (s *userService) DeleteUser(ctx context.Context, userID string, deleterUserID string) error {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return err
	}

	if deleterUserID != userID {
		if err := s.AuthorizeUser(ctx, deleterUserID, user.OrganizationID, domain.RoleAdmin); err != nil {
			return err
		}
	}

	if err := s.userRepo.MarkUserDeleted(ctx, userID, time.Now(), deleterUserID); err != nil {
		s.LogError(ctx, err, "Failed to mark user deleted",
			slog.String("user_id", userID))
		return err
	}

	s.LogInfo(ctx, "User deleted",
		slog.String("user_id", userID),
		slog.String("deleter_id", deleterUserID))
	return nil
}

// FindOrCreateUserByProvider provisions a user from an external identity provider.
// An existing account is matched by provider details first, then by email.
func (s *userService) FindOrCreateUserByProvider(ctx context.Context, authProvider, providerUserID, email, name string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByProviderDetails(ctx, authProvider, providerUserID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	// Link an existing local account matched by email to the provider identity.
	user, err = s.userRepo.FindUserByEmail(ctx, email)
	if err == nil {
		user.AuthProvider = &authProvider
		user.ProviderUserID = &providerUserID
		user.LastUpdatedAt = time.Now()
		user.LastUpdatedBy = user.UserID
		if updateErr := s.userRepo.UpdateUser(ctx, *user); updateErr != nil {
			s.LogError(ctx, updateErr, "Failed to link provider identity to existing user",
				slog.String("user_id", user.UserID),
				slog.String("auth_provider", authProvider))
			return nil, updateErr
		}
		user.Version++
		s.LogInfo(ctx, "Linked provider identity to existing user",
			slog.String("user_id", user.UserID),
			slog.String("auth_provider", authProvider))
		return user, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	defaultOrg, err := s.orgRepo.FindDefaultOrganization(ctx)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewValidationFailedError("no default organization configured for provider sign-ups")
		}
		return nil, err
	}

	now := time.Now()
	userID := uuid.NewString()
	newUser := domain.User{
		UserID:         userID,
		Username:       providerUsername(email, userID),
		Name:           name,
		Email:          email,
		Role:           domain.RoleGuest,
		OrganizationID: defaultOrg.OrganizationID,
		AuthProvider:   &authProvider,
		ProviderUserID: &providerUserID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
			Version:       1,
		},
	}

	if err := s.userRepo.SaveUser(ctx, newUser); err != nil {
		s.LogError(ctx, err, "Failed to create user from provider identity",
			slog.String("auth_provider", authProvider))
		return nil, err
	}

	s.LogInfo(ctx, "User provisioned from provider identity",
		slog.String("user_id", newUser.UserID),
		slog.String("auth_provider", authProvider))
	return &newUser, nil
}

// StoreRefreshTokenHash records the hash and expiry of an issued refresh token
func (s *userService) StoreRefreshTokenHash(ctx context.Context, userID string, tokenHash string, expiryTime time.Time) error {
	if err := s.userRepo.UpdateRefreshToken(ctx, userID, tokenHash, expiryTime); err != nil {
		s.LogError(ctx, err, "Failed to store refresh token hash",
			slog.String("user_id", userID))
		return err
	}
	return nil
}

// ClearRefreshToken invalidates any stored refresh token for the user
func (s *userService) ClearRefreshToken(ctx context.Context, userID string) error {
	if err := s.userRepo.ClearRefreshToken(ctx, userID); err != nil {
		s.LogError(ctx, err, "Failed to clear refresh token",
			slog.String("user_id", userID))
		return err
	}
	return nil
}

// providerUsername derives a unique-enough username from the provider email.
func providerUsername(email, userID string) string {
	local := email
	if at := strings.Index(email, "@"); at > 0 {
		local = email[:at]
	}
	if len(userID) >= 8 {
		return local + "_" + userID[:8]
	}
	return local + "_" + userID
}
