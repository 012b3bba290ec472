package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/FieldOpsLabs/inspection_tracking_app/internal/apperrors"
	"github.com/FieldOpsLabs/inspection_tracking_app/internal/core/domain"
	portssvc "github.com/FieldOpsLabs/inspection_tracking_app/internal/core/ports/services"
	"github.com/FieldOpsLabs/inspection_tracking_app/internal/core/services"
	"github.com/FieldOpsLabs/inspection_tracking_app/internal/dto"
)

// --- Mock WorkflowRepository ---
type MockWorkflowRepository struct {
	mock.Mock
}

func (m *MockWorkflowRepository) FindWorkflowByID(ctx context.Context, workflowID string) (*domain.Workflow, error) {
	args := m.Called(ctx, workflowID)
	var workflow *domain.Workflow
	if args.Get(0) != nil {
		workflow = args.Get(0).(*domain.Workflow)
	}
	return workflow, args.Error(1)
}

func (m *MockWorkflowRepository) ListWorkflowsByOrganization(ctx context.Context, organizationID string, limit, offset int) ([]domain.Workflow, error) {
	args := m.Called(ctx, organizationID, limit, offset)
	var workflows []domain.Workflow
	if args.Get(0) != nil {
		workflows = args.Get(0).([]domain.Workflow)
	}
	return workflows, args.Error(1)
}

func (m *MockWorkflowRepository) SaveWorkflow(ctx context.Context, workflow domain.Workflow) error {
	args := m.Called(ctx, workflow)
	return args.Error(0)
}

func (m *MockWorkflowRepository) UpdateWorkflow(ctx context.Context, workflow domain.Workflow) error {
	args := m.Called(ctx, workflow)
	return args.Error(0)
}

func (m *MockWorkflowRepository) MarkWorkflowDeleted(ctx context.Context, workflowID string, deletedAt time.Time, deleterUserID string) error {
	args := m.Called(ctx, workflowID, deletedAt, deleterUserID)
	return args.Error(0)
}

// --- Test Suite ---
type WorkflowServiceTestSuite struct {
	suite.Suite
	mockWorkflowRepo *MockWorkflowRepository
	mockAuthorizer   *MockOrganizationAuthorizer
	service          portssvc.WorkflowSvcFacade
}

func (suite *WorkflowServiceTestSuite) SetupTest() {
	suite.mockWorkflowRepo = new(MockWorkflowRepository)
	suite.mockAuthorizer = new(MockOrganizationAuthorizer)
	suite.service = services.NewWorkflowService(suite.mockWorkflowRepo,
		services.WithWorkflowOrganizationAuthorizer(suite.mockAuthorizer))
}

// --- CreateWorkflow Tests ---
func (suite *WorkflowServiceTestSuite) TestCreateWorkflow_Success() {
	ctx := context.Background()
	organizationID := uuid.NewString()
	adminID := uuid.NewString()

	req := dto.CreateWorkflowRequest{
		Name:     "Daily Generator Check",
		Category: "maintenance",
		Steps: []dto.WorkflowStepRequest{
			{Title: "Check oil level"},
			{Title: "Photograph hour meter", MediaRequired: true},
		},
	}

	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, adminID, organizationID, domain.RoleAdmin).Return(nil).Once()
	suite.mockWorkflowRepo.On("SaveWorkflow", ctx, mock.MatchedBy(func(w domain.Workflow) bool {
		return w.Name == "Daily Generator Check" &&
			w.OrganizationID == organizationID &&
			len(w.Steps) == 2 &&
			w.Steps[0].StepID != "" && w.Steps[1].StepID != "" &&
			w.Steps[0].Title == "Check oil level" // Request order preserved
	})).Return(nil).Once()

	workflow, err := suite.service.CreateWorkflow(ctx, organizationID, req, adminID)

	suite.Require().NoError(err)
	suite.Require().NotNil(workflow)
	suite.NotEmpty(workflow.WorkflowID)
	suite.NotEqual(workflow.Steps[0].StepID, workflow.Steps[1].StepID)
	suite.True(workflow.Steps[1].MediaRequired)
	suite.Equal(int64(1), workflow.Version)
	suite.mockWorkflowRepo.AssertExpectations(suite.T())
	suite.mockAuthorizer.AssertExpectations(suite.T())
}

func (suite *WorkflowServiceTestSuite) TestCreateWorkflow_AssignsRuleIDs() {
	ctx := context.Background()
	organizationID := uuid.NewString()
	adminID := uuid.NewString()

	req := dto.CreateWorkflowRequest{
		Name:                "Metered Reading",
		Steps:               []dto.WorkflowStepRequest{{Title: "Record reading"}},
		AutoApprovalEnabled: true,
		AutoApprovalRules: []dto.AutoApprovalRuleRequest{
			{TimeRangeStart: "08:00", TimeRangeEnd: "18:00", RequirePhoto: true},
		},
	}

	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, adminID, organizationID, domain.RoleAdmin).Return(nil).Once()
	suite.mockWorkflowRepo.On("SaveWorkflow", ctx, mock.AnythingOfType("domain.Workflow")).Return(nil).Once()

	workflow, err := suite.service.CreateWorkflow(ctx, organizationID, req, adminID)

	suite.Require().NoError(err)
	suite.Require().Len(workflow.AutoApprovalRules, 1)
	suite.NotEmpty(workflow.AutoApprovalRules[0].RuleID)
	suite.mockWorkflowRepo.AssertExpectations(suite.T())
}

func (suite *WorkflowServiceTestSuite) TestCreateWorkflow_InvalidRules() {
	ctx := context.Background()
	organizationID := uuid.NewString()
	adminID := uuid.NewString()

	// Rules present but auto-approval disabled.
	req := dto.CreateWorkflowRequest{
		Name:  "Broken",
		Steps: []dto.WorkflowStepRequest{{Title: "Step"}},
		AutoApprovalRules: []dto.AutoApprovalRuleRequest{
			{TimeRangeStart: "08:00", TimeRangeEnd: "18:00"},
		},
	}

	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, adminID, organizationID, domain.RoleAdmin).Return(nil).Once()

	workflow, err := suite.service.CreateWorkflow(ctx, organizationID, req, adminID)

	suite.Require().Error(err)
	suite.Nil(workflow)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockWorkflowRepo.AssertNotCalled(suite.T(), "SaveWorkflow", mock.Anything, mock.Anything)
}

func (suite *WorkflowServiceTestSuite) TestCreateWorkflow_Forbidden() {
	ctx := context.Background()
	organizationID := uuid.NewString()
	userID := uuid.NewString()

	req := dto.CreateWorkflowRequest{Name: "Nope", Steps: []dto.WorkflowStepRequest{{Title: "Step"}}}

	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, userID, organizationID, domain.RoleAdmin).
		Return(apperrors.ErrForbidden).Once()

	workflow, err := suite.service.CreateWorkflow(ctx, organizationID, req, userID)

	suite.Require().Error(err)
	suite.Nil(workflow)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockAuthorizer.AssertExpectations(suite.T())
}

// --- GetWorkflowByID Tests ---
func (suite *WorkflowServiceTestSuite) TestGetWorkflowByID_CrossOrganizationInvisible() {
	ctx := context.Background()
	organizationID := uuid.NewString()
	workflowID := uuid.NewString()
	userID := uuid.NewString()

	other := &domain.Workflow{WorkflowID: workflowID, OrganizationID: uuid.NewString()}

	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, userID, organizationID, domain.RoleGuest).Return(nil).Once()
	suite.mockWorkflowRepo.On("FindWorkflowByID", ctx, workflowID).Return(other, nil).Once()

	workflow, err := suite.service.GetWorkflowByID(ctx, organizationID, workflowID, userID)

	suite.Require().Error(err)
	suite.Nil(workflow)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockWorkflowRepo.AssertExpectations(suite.T())
}

// --- UpdateWorkflow Tests ---
func (suite *WorkflowServiceTestSuite) TestUpdateWorkflow_ReplacesStepsWholesale() {
	ctx := context.Background()
	organizationID := uuid.NewString()
	workflowID := uuid.NewString()
	adminID := uuid.NewString()

	existing := &domain.Workflow{
		WorkflowID:     workflowID,
		Name:           "Old",
		OrganizationID: organizationID,
		Steps: []domain.WorkflowStep{
			{StepID: "old-1", Title: "Old step"},
			{StepID: "old-2", Title: "Another old step"},
		},
		AuditFields: domain.AuditFields{Version: 2},
	}

	req := dto.UpdateWorkflowRequest{
		Steps: []dto.WorkflowStepRequest{{Title: "Only step now"}},
	}

	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, adminID, organizationID, domain.RoleAdmin).Return(nil).Once()
	suite.mockWorkflowRepo.On("FindWorkflowByID", ctx, workflowID).Return(existing, nil).Once()
	suite.mockWorkflowRepo.On("UpdateWorkflow", ctx, mock.MatchedBy(func(w domain.Workflow) bool {
		return len(w.Steps) == 1 && w.Steps[0].Title == "Only step now" && w.Steps[0].StepID != "old-1"
	})).Return(nil).Once()

	workflow, err := suite.service.UpdateWorkflow(ctx, organizationID, workflowID, req, adminID)

	suite.Require().NoError(err)
	suite.Len(workflow.Steps, 1)
	suite.Equal(int64(3), workflow.Version)
	suite.Equal(adminID, workflow.LastUpdatedBy)
	suite.mockWorkflowRepo.AssertExpectations(suite.T())
}

func (suite *WorkflowServiceTestSuite) TestUpdateWorkflow_DisablingAutoApprovalClearsRules() {
	ctx := context.Background()
	organizationID := uuid.NewString()
	workflowID := uuid.NewString()
	adminID := uuid.NewString()
	disabled := false

	existing := &domain.Workflow{
		WorkflowID:          workflowID,
		Name:                "Metered",
		OrganizationID:      organizationID,
		Steps:               []domain.WorkflowStep{{StepID: "s1", Title: "Read meter"}},
		AutoApprovalEnabled: true,
		AutoApprovalRules: []domain.AutoApprovalRule{
			{RuleID: "r1", TimeRangeStart: "08:00", TimeRangeEnd: "18:00"},
		},
	}

	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, adminID, organizationID, domain.RoleAdmin).Return(nil).Once()
	suite.mockWorkflowRepo.On("FindWorkflowByID", ctx, workflowID).Return(existing, nil).Once()
	suite.mockWorkflowRepo.On("UpdateWorkflow", ctx, mock.MatchedBy(func(w domain.Workflow) bool {
		return !w.AutoApprovalEnabled && len(w.AutoApprovalRules) == 0
	})).Return(nil).Once()

	workflow, err := suite.service.UpdateWorkflow(ctx, organizationID, workflowID, dto.UpdateWorkflowRequest{AutoApprovalEnabled: &disabled}, adminID)

	suite.Require().NoError(err)
	suite.False(workflow.AutoApprovalEnabled)
	suite.Empty(workflow.AutoApprovalRules)
	suite.mockWorkflowRepo.AssertExpectations(suite.T())
}

// --- DeleteWorkflow Tests ---
func (suite *WorkflowServiceTestSuite) TestDeleteWorkflow_Success() {
	ctx := context.Background()
	organizationID := uuid.NewString()
	workflowID := uuid.NewString()
	adminID := uuid.NewString()

	existing := &domain.Workflow{WorkflowID: workflowID, OrganizationID: organizationID}

	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, adminID, organizationID, domain.RoleAdmin).Return(nil).Once()
	suite.mockWorkflowRepo.On("FindWorkflowByID", ctx, workflowID).Return(existing, nil).Once()
	suite.mockWorkflowRepo.On("MarkWorkflowDeleted", ctx, workflowID, mock.AnythingOfType("time.Time"), adminID).Return(nil).Once()

	err := suite.service.DeleteWorkflow(ctx, organizationID, workflowID, adminID)

	suite.Require().NoError(err)
	suite.mockWorkflowRepo.AssertExpectations(suite.T())
}

func (suite *WorkflowServiceTestSuite) TestDeleteWorkflow_CrossOrganizationNotFound() {
	ctx := context.Background()
	organizationID := uuid.NewString()
	workflowID := uuid.NewString()
	adminID := uuid.NewString()

	other := &domain.Workflow{WorkflowID: workflowID, OrganizationID: uuid.NewString()}

	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, adminID, organizationID, domain.RoleAdmin).Return(nil).Once()
	suite.mockWorkflowRepo.On("FindWorkflowByID", ctx, workflowID).Return(other, nil).Once()

	err := suite.service.DeleteWorkflow(ctx, organizationID, workflowID, adminID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockWorkflowRepo.AssertNotCalled(suite.T(), "MarkWorkflowDeleted", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// --- ListWorkflows Tests ---
func (suite *WorkflowServiceTestSuite) TestListWorkflows_EmptyIsNotNil() {
	ctx := context.Background()
	organizationID := uuid.NewString()
	userID := uuid.NewString()

	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, userID, organizationID, domain.RoleGuest).Return(nil).Once()
	suite.mockWorkflowRepo.On("ListWorkflowsByOrganization", ctx, organizationID, 20, 0).Return(nil, nil).Once()

	workflows, err := suite.service.ListWorkflows(ctx, organizationID, userID, 20, 0)

	suite.Require().NoError(err)
	suite.NotNil(workflows)
	suite.Empty(workflows)
	suite.mockWorkflowRepo.AssertExpectations(suite.T())
}

// --- Run Suite ---
func TestWorkflowService(t *testing.T) {
	suite.Run(t, new(WorkflowServiceTestSuite))
}
