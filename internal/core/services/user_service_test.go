package services_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/FieldOpsLabs/inspection_tracking_app/internal/apperrors"
	"github.com/FieldOpsLabs/inspection_tracking_app/internal/core/domain"
	portssvc "github.com/FieldOpsLabs/inspection_tracking_app/internal/core/ports/services"
	"github.com/FieldOpsLabs/inspection_tracking_app/internal/core/services"
	"github.com/FieldOpsLabs/inspection_tracking_app/internal/dto"
)

// --- Mock UserRepository (based on UserService usage) ---
type MockUserRepository struct {
	mock.Mock
	SaveUserFn                  func(ctx context.Context, user domain.User) error
	FindUserByIDFn              func(ctx context.Context, userID string) (*domain.User, error)
	FindUserByUsernameFn        func(ctx context.Context, username string) (*domain.User, error)
	FindUserByEmailFn           func(ctx context.Context, email string) (*domain.User, error)
	FindUserByProviderDetailsFn func(ctx context.Context, authProvider string, providerUserID string) (*domain.User, error)
	FindUsersByOrganizationFn   func(ctx context.Context, organizationID string, limit, offset int) ([]domain.User, error)
	UpdateUserFn                func(ctx context.Context, user domain.User) error
	MarkUserDeletedFn           func(ctx context.Context, userID string, deletedAt time.Time, deleterUserID string) error
	UpdateRefreshTokenFn        func(ctx context.Context, userID string, refreshTokenHash string, refreshTokenExpiryTime time.Time) error
	ClearRefreshTokenFn         func(ctx context.Context, userID string) error
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	if m.SaveUserFn != nil {
		return m.SaveUserFn(ctx, user)
	}
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	if m.FindUserByIDFn != nil {
		return m.FindUserByIDFn(ctx, userID)
	}
	args := m.Called(ctx, userID)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	if m.FindUserByUsernameFn != nil {
		return m.FindUserByUsernameFn(ctx, username)
	}
	args := m.Called(ctx, username)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.FindUserByEmailFn != nil {
		return m.FindUserByEmailFn(ctx, email)
	}
	args := m.Called(ctx, email)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) FindUserByProviderDetails(ctx context.Context, authProvider string, providerUserID string) (*domain.User, error) {
	if m.FindUserByProviderDetailsFn != nil {
		return m.FindUserByProviderDetailsFn(ctx, authProvider, providerUserID)
	}
	args := m.Called(ctx, authProvider, providerUserID)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) FindUsersByOrganization(ctx context.Context, organizationID string, limit, offset int) ([]domain.User, error) {
	if m.FindUsersByOrganizationFn != nil {
		return m.FindUsersByOrganizationFn(ctx, organizationID, limit, offset)
	}
	args := m.Called(ctx, organizationID, limit, offset)
	var users []domain.User
	if args.Get(0) != nil {
		users = args.Get(0).([]domain.User)
	}
	return users, args.Error(1)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	if m.UpdateUserFn != nil {
		return m.UpdateUserFn(ctx, user)
	}
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) MarkUserDeleted(ctx context.Context, userID string, deletedAt time.Time, deleterUserID string) error {
	if m.MarkUserDeletedFn != nil {
		return m.MarkUserDeletedFn(ctx, userID, deletedAt, deleterUserID)
	}
	args := m.Called(ctx, userID, deletedAt, deleterUserID)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, refreshTokenExpiryTime time.Time) error {
	if m.UpdateRefreshTokenFn != nil {
		return m.UpdateRefreshTokenFn(ctx, userID, refreshTokenHash, refreshTokenExpiryTime)
	}
	args := m.Called(ctx, userID, refreshTokenHash, refreshTokenExpiryTime)
	return args.Error(0)
}

func (m *MockUserRepository) ClearRefreshToken(ctx context.Context, userID string) error {
	if m.ClearRefreshTokenFn != nil {
		return m.ClearRefreshTokenFn(ctx, userID)
	}
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// --- Mock OrganizationReader ---
type MockOrganizationReader struct {
	mock.Mock
}

func (m *MockOrganizationReader) FindOrganizationByID(ctx context.Context, organizationID string) (*domain.Organization, error) {
	args := m.Called(ctx, organizationID)
	var org *domain.Organization
	if args.Get(0) != nil {
		org = args.Get(0).(*domain.Organization)
	}
	return org, args.Error(1)
}

func (m *MockOrganizationReader) FindDefaultOrganization(ctx context.Context) (*domain.Organization, error) {
	args := m.Called(ctx)
	var org *domain.Organization
	if args.Get(0) != nil {
		org = args.Get(0).(*domain.Organization)
	}
	return org, args.Error(1)
}

func (m *MockOrganizationReader) ListOrganizations(ctx context.Context, limit, offset int) ([]domain.Organization, error) {
	args := m.Called(ctx, limit, offset)
	var orgs []domain.Organization
	if args.Get(0) != nil {
		orgs = args.Get(0).([]domain.Organization)
	}
	return orgs, args.Error(1)
}

// --- Mock OrganizationAuthorizer ---
type MockOrganizationAuthorizer struct {
	mock.Mock
}

func (m *MockOrganizationAuthorizer) AuthorizeUserAction(ctx context.Context, userID, organizationID string, requiredRole domain.UserRole) error {
	args := m.Called(ctx, userID, organizationID, requiredRole)
	return args.Error(0)
}

// --- Test Suite ---
type UserServiceTestSuite struct {
	suite.Suite
	mockUserRepo   *MockUserRepository
	mockOrgRepo    *MockOrganizationReader
	mockAuthorizer *MockOrganizationAuthorizer
	service        portssvc.UserSvcFacade
}

func (suite *UserServiceTestSuite) SetupTest() {
	suite.mockUserRepo = new(MockUserRepository)
	suite.mockOrgRepo = new(MockOrganizationReader)
	suite.mockAuthorizer = new(MockOrganizationAuthorizer)
	suite.service = services.NewUserService(suite.mockUserRepo, suite.mockOrgRepo,
		services.WithUserOrganizationAuthorizer(suite.mockAuthorizer))
}

// --- CreateUser Tests ---
func (suite *UserServiceTestSuite) TestCreateUser_Success() {
	ctx := context.Background()
	organizationID := uuid.NewString()
	password := "password123"

	req := dto.CreateUserRequest{
		Username:       "jdoe",
		Password:       password,
		Name:           "Jane Doe",
		Email:          "jdoe@example.com",
		OrganizationID: organizationID,
		Role:           domain.RoleInspector,
	}

	suite.mockOrgRepo.On("FindOrganizationByID", ctx, organizationID).
		Return(&domain.Organization{OrganizationID: organizationID}, nil).Once()
	suite.mockUserRepo.On("SaveUser", ctx, mock.MatchedBy(func(user domain.User) bool {
		return user.Username == "jdoe" &&
			user.OrganizationID == organizationID &&
			user.Role == domain.RoleInspector &&
			user.PasswordHash != "" && user.PasswordHash != password
	})).Return(nil).Once()

	created, err := suite.service.CreateUser(ctx, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(created)
	suite.NotEmpty(created.UserID)
	suite.Equal("Jane Doe", created.Name)
	suite.Equal(created.UserID, created.CreatedBy) // Self-registration
	suite.mockOrgRepo.AssertExpectations(suite.T())
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestCreateUser_DefaultsToGuestInDefaultOrg() {
	ctx := context.Background()
	defaultOrgID := uuid.NewString()

	req := dto.CreateUserRequest{
		Username: "newbie",
		Password: "password123",
		Name:     "New User",
		Email:    "newbie@example.com",
	}

	suite.mockOrgRepo.On("FindDefaultOrganization", ctx).
		Return(&domain.Organization{OrganizationID: defaultOrgID, IsDefault: true}, nil).Once()
	suite.mockUserRepo.On("SaveUser", ctx, mock.MatchedBy(func(user domain.User) bool {
		return user.OrganizationID == defaultOrgID && user.Role == domain.RoleGuest
	})).Return(nil).Once()

	created, err := suite.service.CreateUser(ctx, req)

	suite.Require().NoError(err)
	suite.Equal(defaultOrgID, created.OrganizationID)
	suite.Equal(domain.RoleGuest, created.Role)
	suite.mockOrgRepo.AssertExpectations(suite.T())
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestCreateUser_NoDefaultOrganization() {
	ctx := context.Background()

	req := dto.CreateUserRequest{
		Username: "orphan",
		Password: "password123",
		Name:     "No Org",
		Email:    "orphan@example.com",
	}

	suite.mockOrgRepo.On("FindDefaultOrganization", ctx).Return(nil, apperrors.ErrNotFound).Once()

	created, err := suite.service.CreateUser(ctx, req)

	suite.Require().Error(err)
	suite.Nil(created)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockOrgRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestCreateUser_UnknownOrganization() {
	ctx := context.Background()
	organizationID := uuid.NewString()

	req := dto.CreateUserRequest{
		Username:       "jdoe",
		Password:       "password123",
		Name:           "Jane Doe",
		Email:          "jdoe@example.com",
		OrganizationID: organizationID,
	}

	suite.mockOrgRepo.On("FindOrganizationByID", ctx, organizationID).Return(nil, apperrors.ErrNotFound).Once()

	created, err := suite.service.CreateUser(ctx, req)

	suite.Require().Error(err)
	suite.Nil(created)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockOrgRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestCreateUser_DuplicateUsername() {
	ctx := context.Background()
	organizationID := uuid.NewString()

	req := dto.CreateUserRequest{
		Username:       "jdoe",
		Password:       "password123",
		Name:           "Jane Doe",
		Email:          "jdoe@example.com",
		OrganizationID: organizationID,
	}

	suite.mockOrgRepo.On("FindOrganizationByID", ctx, organizationID).
		Return(&domain.Organization{OrganizationID: organizationID}, nil).Once()
	suite.mockUserRepo.On("SaveUser", ctx, mock.AnythingOfType("domain.User")).
		Return(apperrors.ErrDuplicate).Once()

	created, err := suite.service.CreateUser(ctx, req)

	suite.Require().Error(err)
	suite.Nil(created)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

// --- CreateUserInOrganization Tests ---
func (suite *UserServiceTestSuite) TestCreateUserInOrganization_AdminCreates() {
	ctx := context.Background()
	organizationID := uuid.NewString()
	adminID := uuid.NewString()

	req := dto.CreateUserRequest{
		Username: "pat_inspector",
		Password: "password123",
		Name:     "Pat Field",
		Email:    "pat@example.com",
		Role:     domain.RoleInspector,
	}

	// Invites disabled, so creation requires an organization admin.
	suite.mockOrgRepo.On("FindOrganizationByID", ctx, organizationID).
		Return(&domain.Organization{OrganizationID: organizationID}, nil).Once()
	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, adminID, organizationID, domain.RoleAdmin).
		Return(nil).Once()
	suite.mockUserRepo.On("SaveUser", ctx, mock.MatchedBy(func(user domain.User) bool {
		return user.OrganizationID == organizationID &&
			user.Role == domain.RoleInspector &&
			user.CreatedBy == adminID
	})).Return(nil).Once()

	created, err := suite.service.CreateUserInOrganization(ctx, organizationID, req, adminID)

	suite.Require().NoError(err)
	suite.Equal(adminID, created.CreatedBy)
	suite.mockOrgRepo.AssertExpectations(suite.T())
	suite.mockAuthorizer.AssertExpectations(suite.T())
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestCreateUserInOrganization_InvitesOpenToMembers() {
	ctx := context.Background()
	organizationID := uuid.NewString()
	memberID := uuid.NewString()

	req := dto.CreateUserRequest{
		Username: "invitee",
		Password: "password123",
		Name:     "Invited User",
		Email:    "invitee@example.com",
	}

	org := &domain.Organization{
		OrganizationID: organizationID,
		Settings:       domain.OrganizationSettings{AllowUserInvites: true},
	}

	suite.mockOrgRepo.On("FindOrganizationByID", ctx, organizationID).Return(org, nil).Once()
	// With invites allowed any member may add users, so only membership is checked.
	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, memberID, organizationID, domain.RoleGuest).
		Return(nil).Once()
	suite.mockUserRepo.On("SaveUser", ctx, mock.MatchedBy(func(user domain.User) bool {
		return user.OrganizationID == organizationID && user.Role == domain.RoleGuest
	})).Return(nil).Once()

	created, err := suite.service.CreateUserInOrganization(ctx, organizationID, req, memberID)

	suite.Require().NoError(err)
	suite.Equal(memberID, created.CreatedBy)
	suite.mockAuthorizer.AssertExpectations(suite.T())
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestCreateUserInOrganization_NonAdminForbidden() {
	ctx := context.Background()
	organizationID := uuid.NewString()
	inspectorID := uuid.NewString()

	req := dto.CreateUserRequest{
		Username: "wanted",
		Password: "password123",
		Name:     "Wanted User",
		Email:    "wanted@example.com",
	}

	suite.mockOrgRepo.On("FindOrganizationByID", ctx, organizationID).
		Return(&domain.Organization{OrganizationID: organizationID}, nil).Once()
	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, inspectorID, organizationID, domain.RoleAdmin).
		Return(apperrors.ErrForbidden).Once()

	created, err := suite.service.CreateUserInOrganization(ctx, organizationID, req, inspectorID)

	suite.Require().Error(err)
	suite.Nil(created)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "SaveUser", mock.Anything, mock.Anything)
}

// --- GetUserByID Tests ---
func (suite *UserServiceTestSuite) TestGetUserByID_Success() {
	ctx := context.Background()
	userID := uuid.NewString()
	expectedUser := &domain.User{UserID: userID, Name: "Found User"}

	suite.mockUserRepo.On("FindUserByID", ctx, userID).Return(expectedUser, nil).Once()

	user, err := suite.service.GetUserByID(ctx, userID)

	suite.Require().NoError(err)
	suite.Equal(expectedUser, user)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestGetUserByID_NotFound() {
	ctx := context.Background()
	userID := uuid.NewString()

	suite.mockUserRepo.On("FindUserByID", ctx, userID).Return(nil, apperrors.ErrNotFound).Once()

	user, err := suite.service.GetUserByID(ctx, userID)

	suite.Require().Error(err)
	suite.Nil(user)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

// --- UpdateUser Tests ---
func (suite *UserServiceTestSuite) TestUpdateUser_SelfNameChange() {
	ctx := context.Background()
	userID := uuid.NewString()
	organizationID := uuid.NewString()
	newName := "Renamed"

	existing := &domain.User{
		UserID:         userID,
		Name:           "Old Name",
		Role:           domain.RoleInspector,
		OrganizationID: organizationID,
		AuditFields:    domain.AuditFields{Version: 1},
	}

	suite.mockUserRepo.On("FindUserByID", ctx, userID).Return(existing, nil).Once()
	suite.mockUserRepo.On("UpdateUser", ctx, mock.MatchedBy(func(user domain.User) bool {
		return user.UserID == userID && user.Name == newName && user.LastUpdatedBy == userID
	})).Return(nil).Once()

	updated, err := suite.service.UpdateUser(ctx, userID, dto.UpdateUserRequest{Name: &newName}, userID)

	suite.Require().NoError(err)
	suite.Equal(newName, updated.Name)
	suite.Equal(int64(2), updated.Version)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestUpdateUser_RoleChangeRequiresAdminEvenOnSelf() {
	ctx := context.Background()
	userID := uuid.NewString()
	organizationID := uuid.NewString()
	newRole := domain.RoleAdmin

	existing := &domain.User{
		UserID:         userID,
		Role:           domain.RoleInspector,
		OrganizationID: organizationID,
	}

	suite.mockUserRepo.On("FindUserByID", ctx, userID).Return(existing, nil).Once()
	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, userID, organizationID, domain.RoleAdmin).
		Return(apperrors.ErrForbidden).Once()

	updated, err := suite.service.UpdateUser(ctx, userID, dto.UpdateUserRequest{Role: &newRole}, userID)

	suite.Require().Error(err)
	suite.Nil(updated)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockAuthorizer.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestUpdateUser_PermissionGrantRequiresAdmin() {
	ctx := context.Background()
	userID := uuid.NewString()
	organizationID := uuid.NewString()
	customRoleID := uuid.NewString()

	existing := &domain.User{
		UserID:         userID,
		Role:           domain.RoleInspector,
		OrganizationID: organizationID,
	}

	// A user must not be able to grant themselves permissions or a custom role.
	suite.mockUserRepo.On("FindUserByID", ctx, userID).Return(existing, nil).Once()
	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, userID, organizationID, domain.RoleAdmin).
		Return(apperrors.ErrForbidden).Once()

	req := dto.UpdateUserRequest{
		CustomRoleID: &customRoleID,
		Permissions:  []string{"inspection:delete"},
	}
	updated, err := suite.service.UpdateUser(ctx, userID, req, userID)

	suite.Require().Error(err)
	suite.Nil(updated)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "UpdateUser", mock.Anything, mock.Anything)
	suite.mockAuthorizer.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestUpdateUser_AdminUpdatesOther() {
	ctx := context.Background()
	userID := uuid.NewString()
	adminID := uuid.NewString()
	organizationID := uuid.NewString()
	newRole := domain.RoleApprover

	existing := &domain.User{
		UserID:         userID,
		Role:           domain.RoleInspector,
		OrganizationID: organizationID,
	}

	suite.mockUserRepo.On("FindUserByID", ctx, userID).Return(existing, nil).Once()
	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, adminID, organizationID, domain.RoleAdmin).
		Return(nil).Twice() // Once for the cross-user update, once for the role change.
	suite.mockUserRepo.On("UpdateUser", ctx, mock.MatchedBy(func(user domain.User) bool {
		return user.Role == domain.RoleApprover && user.LastUpdatedBy == adminID
	})).Return(nil).Once()

	updated, err := suite.service.UpdateUser(ctx, userID, dto.UpdateUserRequest{Role: &newRole}, adminID)

	suite.Require().NoError(err)
	suite.Equal(domain.RoleApprover, updated.Role)
	suite.mockUserRepo.AssertExpectations(suite.T())
	suite.mockAuthorizer.AssertExpectations(suite.T())
}

// --- DeleteUser Tests ---
func (suite *UserServiceTestSuite) TestDeleteUser_Self() {
	ctx := context.Background()
	userID := uuid.NewString()

	existing := &domain.User{UserID: userID, OrganizationID: uuid.NewString()}

	suite.mockUserRepo.On("FindUserByID", ctx, userID).Return(existing, nil).Once()
	suite.mockUserRepo.On("MarkUserDeleted", ctx, userID, mock.AnythingOfType("time.Time"), userID).Return(nil).Once()

	err := suite.service.DeleteUser(ctx, userID, userID)

	suite.Require().NoError(err)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestDeleteUser_OtherRequiresAdmin() {
	ctx := context.Background()
	userID := uuid.NewString()
	deleterID := uuid.NewString()
	organizationID := uuid.NewString()

	existing := &domain.User{UserID: userID, OrganizationID: organizationID}

	suite.mockUserRepo.On("FindUserByID", ctx, userID).Return(existing, nil).Once()
	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, deleterID, organizationID, domain.RoleAdmin).
		Return(apperrors.ErrForbidden).Once()

	err := suite.service.DeleteUser(ctx, userID, deleterID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockAuthorizer.AssertExpectations(suite.T())
}

// --- FindOrCreateUserByProvider Tests ---
func (suite *UserServiceTestSuite) TestFindOrCreateUserByProvider_ExistingProviderMatch() {
	ctx := context.Background()
	providerUserID := "google-sub-123"
	existing := &domain.User{UserID: uuid.NewString(), Email: "jane@example.com"}

	suite.mockUserRepo.On("FindUserByProviderDetails", ctx, "google", providerUserID).Return(existing, nil).Once()

	user, err := suite.service.FindOrCreateUserByProvider(ctx, "google", providerUserID, "jane@example.com", "Jane")

	suite.Require().NoError(err)
	suite.Equal(existing, user)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestFindOrCreateUserByProvider_LinksByEmail() {
	ctx := context.Background()
	providerUserID := "google-sub-456"
	userID := uuid.NewString()
	existing := &domain.User{UserID: userID, Email: "jane@example.com"}

	suite.mockUserRepo.On("FindUserByProviderDetails", ctx, "google", providerUserID).
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("FindUserByEmail", ctx, "jane@example.com").Return(existing, nil).Once()
	suite.mockUserRepo.On("UpdateUser", ctx, mock.MatchedBy(func(user domain.User) bool {
		return user.UserID == userID &&
			user.AuthProvider != nil && *user.AuthProvider == "google" &&
			user.ProviderUserID != nil && *user.ProviderUserID == providerUserID
	})).Return(nil).Once()

	user, err := suite.service.FindOrCreateUserByProvider(ctx, "google", providerUserID, "jane@example.com", "Jane")

	suite.Require().NoError(err)
	suite.Require().NotNil(user.AuthProvider)
	suite.Equal("google", *user.AuthProvider)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestFindOrCreateUserByProvider_ProvisionsNewUser() {
	ctx := context.Background()
	providerUserID := "google-sub-789"
	defaultOrgID := uuid.NewString()

	suite.mockUserRepo.On("FindUserByProviderDetails", ctx, "google", providerUserID).
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("FindUserByEmail", ctx, "fresh@example.com").
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockOrgRepo.On("FindDefaultOrganization", ctx).
		Return(&domain.Organization{OrganizationID: defaultOrgID, IsDefault: true}, nil).Once()
	suite.mockUserRepo.On("SaveUser", ctx, mock.MatchedBy(func(user domain.User) bool {
		return user.OrganizationID == defaultOrgID &&
			user.Role == domain.RoleGuest &&
			strings.HasPrefix(user.Username, "fresh_")
	})).Return(nil).Once()

	user, err := suite.service.FindOrCreateUserByProvider(ctx, "google", providerUserID, "fresh@example.com", "Fresh User")

	suite.Require().NoError(err)
	suite.Equal("Fresh User", user.Name)
	suite.Equal(defaultOrgID, user.OrganizationID)
	suite.True(strings.HasPrefix(user.Username, "fresh_"))
	suite.mockUserRepo.AssertExpectations(suite.T())
	suite.mockOrgRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestFindOrCreateUserByProvider_NoDefaultOrganization() {
	ctx := context.Background()
	providerUserID := "google-sub-000"

	suite.mockUserRepo.On("FindUserByProviderDetails", ctx, "google", providerUserID).
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("FindUserByEmail", ctx, "nobody@example.com").
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockOrgRepo.On("FindDefaultOrganization", ctx).Return(nil, apperrors.ErrNotFound).Once()

	user, err := suite.service.FindOrCreateUserByProvider(ctx, "google", providerUserID, "nobody@example.com", "Nobody")

	suite.Require().Error(err)
	suite.Nil(user)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockOrgRepo.AssertExpectations(suite.T())
}

// --- Refresh token passthrough Tests ---
func (suite *UserServiceTestSuite) TestStoreRefreshTokenHash() {
	ctx := context.Background()
	userID := uuid.NewString()
	expiry := time.Now().Add(24 * time.Hour)

	suite.mockUserRepo.On("UpdateRefreshToken", ctx, userID, "hash", expiry).Return(nil).Once()

	err := suite.service.StoreRefreshTokenHash(ctx, userID, "hash", expiry)

	suite.Require().NoError(err)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestClearRefreshToken_RepoError() {
	ctx := context.Background()
	userID := uuid.NewString()
	expectedErr := assert.AnError

	suite.mockUserRepo.On("ClearRefreshToken", ctx, userID).Return(expectedErr).Once()

	err := suite.service.ClearRefreshToken(ctx, userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, expectedErr)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

// --- Run Suite ---
func TestUserService(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
