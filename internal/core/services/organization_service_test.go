package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/FieldOpsLabs/inspection_tracking_app/internal/apperrors"
	"github.com/FieldOpsLabs/inspection_tracking_app/internal/core/domain"
	portssvc "github.com/FieldOpsLabs/inspection_tracking_app/internal/core/ports/services"
	"github.com/FieldOpsLabs/inspection_tracking_app/internal/core/services"
	"github.com/FieldOpsLabs/inspection_tracking_app/internal/dto"
)

// --- Mock OrganizationRepository (reader + writer) ---
type MockOrganizationRepository struct {
	mock.Mock
}

func (m *MockOrganizationRepository) FindOrganizationByID(ctx context.Context, organizationID string) (*domain.Organization, error) {
	args := m.Called(ctx, organizationID)
	var org *domain.Organization
	if args.Get(0) != nil {
		org = args.Get(0).(*domain.Organization)
	}
	return org, args.Error(1)
}

func (m *MockOrganizationRepository) FindDefaultOrganization(ctx context.Context) (*domain.Organization, error) {
	args := m.Called(ctx)
	var org *domain.Organization
	if args.Get(0) != nil {
		org = args.Get(0).(*domain.Organization)
	}
	return org, args.Error(1)
}

func (m *MockOrganizationRepository) ListOrganizations(ctx context.Context, limit, offset int) ([]domain.Organization, error) {
	args := m.Called(ctx, limit, offset)
	var orgs []domain.Organization
	if args.Get(0) != nil {
		orgs = args.Get(0).([]domain.Organization)
	}
	return orgs, args.Error(1)
}

func (m *MockOrganizationRepository) SaveOrganization(ctx context.Context, org domain.Organization) error {
	args := m.Called(ctx, org)
	return args.Error(0)
}

func (m *MockOrganizationRepository) UpdateOrganization(ctx context.Context, org domain.Organization) error {
	args := m.Called(ctx, org)
	return args.Error(0)
}

func (m *MockOrganizationRepository) UpdateOrganizationStatus(ctx context.Context, org *domain.Organization, isActive bool, updatedByUserID string) error {
	args := m.Called(ctx, org, isActive, updatedByUserID)
	return args.Error(0)
}

// --- Test Suite ---
type OrganizationServiceTestSuite struct {
	suite.Suite
	mockOrgRepo  *MockOrganizationRepository
	mockUserRepo *MockUserRepository
	service      portssvc.OrganizationSvcFacade
}

func (suite *OrganizationServiceTestSuite) SetupTest() {
	suite.mockOrgRepo = new(MockOrganizationRepository)
	suite.mockUserRepo = new(MockUserRepository)
	suite.service = services.NewOrganizationService(suite.mockOrgRepo, suite.mockUserRepo)
}

func (suite *OrganizationServiceTestSuite) memberUser(organizationID string, role domain.UserRole) *domain.User {
	return &domain.User{
		UserID:         uuid.NewString(),
		Role:           role,
		OrganizationID: organizationID,
	}
}

// --- AuthorizeUserAction Tests ---
func (suite *OrganizationServiceTestSuite) TestAuthorizeUserAction_NonMemberIsNotFound() {
	ctx := context.Background()
	organizationID := uuid.NewString()
	user := suite.memberUser(uuid.NewString(), domain.RoleAdmin) // member of a different org

	suite.mockUserRepo.On("FindUserByID", ctx, user.UserID).Return(user, nil).Once()

	err := suite.service.AuthorizeUserAction(ctx, user.UserID, organizationID, domain.RoleGuest)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *OrganizationServiceTestSuite) TestAuthorizeUserAction_UnknownUserIsNotFound() {
	ctx := context.Background()
	userID := uuid.NewString()

	suite.mockUserRepo.On("FindUserByID", ctx, userID).Return(nil, apperrors.ErrNotFound).Once()

	err := suite.service.AuthorizeUserAction(ctx, userID, uuid.NewString(), domain.RoleGuest)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *OrganizationServiceTestSuite) TestAuthorizeUserAction_RoleHierarchy() {
	ctx := context.Background()
	organizationID := uuid.NewString()

	testCases := []struct {
		name         string
		userRole     domain.UserRole
		requiredRole domain.UserRole
		wantErr      error
	}{
		{"guest can read", domain.RoleGuest, domain.RoleGuest, nil},
		{"guest cannot inspect", domain.RoleGuest, domain.RoleInspector, apperrors.ErrForbidden},
		{"inspector can inspect", domain.RoleInspector, domain.RoleInspector, nil},
		{"inspector cannot approve", domain.RoleInspector, domain.RoleApprover, apperrors.ErrForbidden},
		{"approver can inspect", domain.RoleApprover, domain.RoleInspector, nil},
		{"approver cannot administer", domain.RoleApprover, domain.RoleAdmin, apperrors.ErrForbidden},
		{"admin can do everything", domain.RoleAdmin, domain.RoleAdmin, nil},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			user := suite.memberUser(organizationID, tc.userRole)
			suite.mockUserRepo.On("FindUserByID", ctx, user.UserID).Return(user, nil).Once()

			err := suite.service.AuthorizeUserAction(ctx, user.UserID, organizationID, tc.requiredRole)

			if tc.wantErr == nil {
				suite.NoError(err)
			} else {
				suite.ErrorIs(err, tc.wantErr)
			}
		})
	}
	suite.mockUserRepo.AssertExpectations(suite.T())
}

// --- CreateOrganization Tests ---
func (suite *OrganizationServiceTestSuite) TestCreateOrganization_PromotesCreatorToAdmin() {
	ctx := context.Background()
	creator := suite.memberUser(uuid.NewString(), domain.RoleGuest)

	req := dto.CreateOrganizationRequest{
		Name: "Acme Field Services",
		Size: domain.SizeMedium,
	}

	suite.mockOrgRepo.On("SaveOrganization", ctx, mock.MatchedBy(func(org domain.Organization) bool {
		return org.Name == "Acme Field Services" && org.IsActive && org.CreatedBy == creator.UserID
	})).Return(nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, creator.UserID).Return(creator, nil).Once()
	suite.mockUserRepo.On("UpdateUser", ctx, mock.MatchedBy(func(user domain.User) bool {
		return user.UserID == creator.UserID && user.Role == domain.RoleAdmin && user.OrganizationID != ""
	})).Return(nil).Once()

	org, err := suite.service.CreateOrganization(ctx, req, creator.UserID)

	suite.Require().NoError(err)
	suite.Require().NotNil(org)
	suite.NotEmpty(org.OrganizationID)
	suite.True(org.IsActive)
	suite.mockOrgRepo.AssertExpectations(suite.T())
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *OrganizationServiceTestSuite) TestCreateOrganization_SucceedsWhenPromotionFails() {
	ctx := context.Background()
	creatorID := uuid.NewString()

	req := dto.CreateOrganizationRequest{Name: "Acme", Size: domain.SizeSmall}

	suite.mockOrgRepo.On("SaveOrganization", ctx, mock.AnythingOfType("domain.Organization")).Return(nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, creatorID).Return(nil, apperrors.ErrNotFound).Once()

	org, err := suite.service.CreateOrganization(ctx, req, creatorID)

	suite.Require().NoError(err)
	suite.NotNil(org)
	suite.mockOrgRepo.AssertExpectations(suite.T())
}

func (suite *OrganizationServiceTestSuite) TestCreateOrganization_AssignsCustomRoleIDs() {
	ctx := context.Background()
	creator := suite.memberUser(uuid.NewString(), domain.RoleGuest)

	req := dto.CreateOrganizationRequest{
		Name: "Acme",
		Size: domain.SizeLarge,
		CustomRoles: []dto.CustomRoleRequest{
			{Name: "auditor", Permissions: []string{"inspections:read"}},
		},
	}

	suite.mockOrgRepo.On("SaveOrganization", ctx, mock.AnythingOfType("domain.Organization")).Return(nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, creator.UserID).Return(creator, nil).Once()
	suite.mockUserRepo.On("UpdateUser", ctx, mock.AnythingOfType("domain.User")).Return(nil).Once()

	org, err := suite.service.CreateOrganization(ctx, req, creator.UserID)

	suite.Require().NoError(err)
	suite.Require().Len(org.CustomRoles, 1)
	suite.NotEmpty(org.CustomRoles[0].RoleID)
	suite.Equal("auditor", org.CustomRoles[0].Name)
}

// --- UpdateOrganization Tests ---
func (suite *OrganizationServiceTestSuite) TestUpdateOrganization_AdminOnly() {
	ctx := context.Background()
	organizationID := uuid.NewString()
	member := suite.memberUser(organizationID, domain.RoleInspector)
	newName := "Renamed Org"

	suite.mockUserRepo.On("FindUserByID", ctx, member.UserID).Return(member, nil).Once()

	org, err := suite.service.UpdateOrganization(ctx, organizationID, dto.UpdateOrganizationRequest{Name: &newName}, member.UserID)

	suite.Require().Error(err)
	suite.Nil(org)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *OrganizationServiceTestSuite) TestUpdateOrganization_Success() {
	ctx := context.Background()
	organizationID := uuid.NewString()
	admin := suite.memberUser(organizationID, domain.RoleAdmin)
	newName := "Renamed Org"

	existing := &domain.Organization{
		OrganizationID: organizationID,
		Name:           "Old Org",
		Size:           domain.SizeSmall,
		IsActive:       true,
		AuditFields:    domain.AuditFields{Version: 3},
	}

	suite.mockUserRepo.On("FindUserByID", ctx, admin.UserID).Return(admin, nil).Once()
	suite.mockOrgRepo.On("FindOrganizationByID", ctx, organizationID).Return(existing, nil).Once()
	suite.mockOrgRepo.On("UpdateOrganization", ctx, mock.MatchedBy(func(org domain.Organization) bool {
		return org.Name == newName && org.LastUpdatedBy == admin.UserID
	})).Return(nil).Once()

	org, err := suite.service.UpdateOrganization(ctx, organizationID, dto.UpdateOrganizationRequest{Name: &newName}, admin.UserID)

	suite.Require().NoError(err)
	suite.Equal(newName, org.Name)
	suite.Equal(int64(4), org.Version)
	suite.mockOrgRepo.AssertExpectations(suite.T())
}

// --- Activation Tests ---
func (suite *OrganizationServiceTestSuite) TestDeactivateOrganization() {
	ctx := context.Background()
	organizationID := uuid.NewString()
	admin := suite.memberUser(organizationID, domain.RoleAdmin)

	existing := &domain.Organization{OrganizationID: organizationID, IsActive: true}

	suite.mockUserRepo.On("FindUserByID", ctx, admin.UserID).Return(admin, nil).Once()
	suite.mockOrgRepo.On("FindOrganizationByID", ctx, organizationID).Return(existing, nil).Once()
	suite.mockOrgRepo.On("UpdateOrganizationStatus", ctx, existing, false, admin.UserID).Return(nil).Once()

	err := suite.service.DeactivateOrganization(ctx, organizationID, admin.UserID)

	suite.Require().NoError(err)
	suite.mockOrgRepo.AssertExpectations(suite.T())
}

func (suite *OrganizationServiceTestSuite) TestActivateOrganization_Forbidden() {
	ctx := context.Background()
	organizationID := uuid.NewString()
	member := suite.memberUser(organizationID, domain.RoleApprover)

	suite.mockUserRepo.On("FindUserByID", ctx, member.UserID).Return(member, nil).Once()

	err := suite.service.ActivateOrganization(ctx, organizationID, member.UserID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

// --- GetOrganizationByID Tests ---
func (suite *OrganizationServiceTestSuite) TestGetOrganizationByID_MemberVisible() {
	ctx := context.Background()
	organizationID := uuid.NewString()
	member := suite.memberUser(organizationID, domain.RoleGuest)
	expected := &domain.Organization{OrganizationID: organizationID, Name: "Acme"}

	suite.mockUserRepo.On("FindUserByID", ctx, member.UserID).Return(member, nil).Once()
	suite.mockOrgRepo.On("FindOrganizationByID", ctx, organizationID).Return(expected, nil).Once()

	org, err := suite.service.GetOrganizationByID(ctx, organizationID, member.UserID)

	suite.Require().NoError(err)
	suite.Equal(expected, org)
	suite.mockOrgRepo.AssertExpectations(suite.T())
}

// --- ListMyOrganizations Tests ---
func (suite *OrganizationServiceTestSuite) TestListMyOrganizations_ReturnsCallerOrganization() {
	ctx := context.Background()
	organizationID := uuid.NewString()
	member := suite.memberUser(organizationID, domain.RoleInspector)
	expected := &domain.Organization{OrganizationID: organizationID, Name: "Acme"}

	suite.mockUserRepo.On("FindUserByID", ctx, member.UserID).Return(member, nil).Once()
	suite.mockOrgRepo.On("FindOrganizationByID", ctx, organizationID).Return(expected, nil).Once()

	orgs, err := suite.service.ListMyOrganizations(ctx, member.UserID)

	suite.Require().NoError(err)
	suite.Require().Len(orgs, 1)
	suite.Equal(organizationID, orgs[0].OrganizationID)
	suite.mockOrgRepo.AssertExpectations(suite.T())
}

func (suite *OrganizationServiceTestSuite) TestListMyOrganizations_UnknownUser() {
	ctx := context.Background()
	userID := uuid.NewString()

	suite.mockUserRepo.On("FindUserByID", ctx, userID).Return(nil, apperrors.ErrNotFound).Once()

	orgs, err := suite.service.ListMyOrganizations(ctx, userID)

	suite.Require().Error(err)
	suite.Nil(orgs)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

// --- Run Suite ---
func TestOrganizationService(t *testing.T) {
	suite.Run(t, new(OrganizationServiceTestSuite))
}
