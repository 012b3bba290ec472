package services

import (
	portsrepo "github.com/FieldOpsLabs/inspection_tracking_app/internal/core/ports/repositories"
	portssvc "github.com/FieldOpsLabs/inspection_tracking_app/internal/core/ports/services"
	"github.com/FieldOpsLabs/inspection_tracking_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Initialize the organization service first since other services depend on
	// it for authorization.
	container.Organization = NewOrganizationService(
		repos.OrganizationRepo,
		repos.UserRepo,
	)

	organizationAuthorizer := container.Organization.(portssvc.OrganizationAuthorizerSvc)

	container.User = NewUserService(
		repos.UserRepo,
		repos.OrganizationRepo,
		WithUserOrganizationAuthorizer(organizationAuthorizer),
	)
	container.Workflow = NewWorkflowService(
		repos.WorkflowRepo,
		WithWorkflowOrganizationAuthorizer(organizationAuthorizer),
	)
	container.Inspection = NewInspectionService(
		repos.InspectionRepo,
		repos.WorkflowRepo,
		repos.UserRepo,
		repos.OrganizationRepo,
		WithInspectionOrganizationAuthorizer(organizationAuthorizer),
	)

	container.TokenService = NewTokenService(cfg, container.User)
	container.GoogleOAuthHandler = NewGoogleOAuthHandlerService(cfg)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.OrganizationSvcFacade = (*organizationService)(nil)
	_ portssvc.UserSvcFacade         = (*userService)(nil)
	_ portssvc.WorkflowSvcFacade     = (*workflowService)(nil)
	_ portssvc.InspectionSvcFacade   = (*inspectionService)(nil)
)
