package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/FieldOpsLabs/inspection_tracking_app/internal/core/ports/services"
	"github.com/FieldOpsLabs/inspection_tracking_app/internal/dto"
	"github.com/FieldOpsLabs/inspection_tracking_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// organizationHandler handles HTTP requests related to organizations.
type organizationHandler struct {
	organizationService portssvc.OrganizationSvcFacade
}

// newOrganizationHandler creates a new organizationHandler.
func newOrganizationHandler(os portssvc.OrganizationSvcFacade) *organizationHandler {
	return &organizationHandler{
		organizationService: os,
	}
}

// registerOrganizationRoutes registers routes related to organizations.
// WORKFLOW, INSPECTION and member USER routes are nested under a specific organization.
func registerOrganizationRoutes(rg *gin.RouterGroup, organizationService portssvc.OrganizationSvcFacade, workflowService portssvc.WorkflowSvcFacade, inspectionService portssvc.InspectionSvcFacade, userService portssvc.UserSvcFacade) {
	h := newOrganizationHandler(organizationService)

	// Routes for managing organizations themselves
	organizationsTopLevel := rg.Group("/organizations")
	{
		organizationsTopLevel.POST("", h.createOrganization)
		organizationsTopLevel.GET("/mine", h.listMyOrganizations)
	}

	// Routes specific to a single organization (identified by organization_id)
	organizationSpecific := rg.Group("/organizations/:organization_id")
	{
		organizationSpecific.GET("", h.getOrganization)
		organizationSpecific.PUT("", h.updateOrganization)
		organizationSpecific.POST("/deactivate", h.deactivateOrganization)
		organizationSpecific.POST("/activate", h.activateOrganization)

		// Member listing within an organization
		registerOrganizationUserRoutes(organizationSpecific, userService)

		// -- NESTED WORKFLOW ROUTES --
		registerWorkflowRoutes(organizationSpecific, workflowService)

		// -- NESTED INSPECTION ROUTES --
		RegisterInspectionRoutes(organizationSpecific, inspectionService)
	}
}

// createOrganization godoc
// @Summary Create a new organization
// @Description Creates a new organization and promotes the creator to admin.
// @Tags organizations
// @Accept  json
// @Produce  json
// @Param   organization body dto.CreateOrganizationRequest true "Organization details"
// @Success 201 {object} dto.OrganizationResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to create organization"
// @Security BearerAuth
// @Router /organizations [post]
func (h *organizationHandler) createOrganization(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createOrganization", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Creator user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("creator_user_id", creatorUserID))
	logger.Info("Received request to create organization", slog.String("organization_name", req.Name))

	newOrganization, err := h.organizationService.CreateOrganization(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to create organization")
		return
	}

	logger.Info("Organization created successfully", slog.String("organization_id", newOrganization.OrganizationID))
	c.JSON(http.StatusCreated, dto.ToOrganizationResponse(newOrganization))
}

// getOrganization godoc
// @Summary Get an organization by ID
// @Description Retrieves details for an organization the caller belongs to.
// @Tags organizations
// @Produce  json
// @Param   organization_id path string true "Organization ID"
// @Success 200 {object} dto.OrganizationResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Organization not found"
// @Failure 500 {object} map[string]string "Failed to retrieve organization"
// @Security BearerAuth
// @Router /organizations/{organization_id} [get]
func (h *organizationHandler) getOrganization(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	organizationID := c.Param("organization_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	organization, err := h.organizationService.GetOrganizationByID(c.Request.Context(), organizationID, userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to retrieve organization")
		return
	}

	c.JSON(http.StatusOK, dto.ToOrganizationResponse(organization))
}

// listMyOrganizations godoc
// @Summary List the caller's organizations
// @Description Retrieves the organizations the authenticated user belongs to.
// @Tags organizations
// @Produce  json
// @Success 200 {object} dto.ListOrganizationsResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list organizations"
// @Security BearerAuth
// @Router /organizations/mine [get]
func (h *organizationHandler) listMyOrganizations(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	organizations, err := h.organizationService.ListMyOrganizations(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list organizations")
		return
	}

	c.JSON(http.StatusOK, dto.ToListOrganizationsResponse(organizations))
}

// updateOrganization godoc
// @Summary Update an organization
// @Description Updates organization details, settings and custom roles (admin only).
// @Tags organizations
// @Accept  json
// @Produce  json
// @Param   organization_id path string true "Organization ID"
// @Param   organization body dto.UpdateOrganizationRequest true "Fields to update"
// @Success 200 {object} dto.OrganizationResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden (caller is not admin)"
// @Failure 404 {object} map[string]string "Organization not found"
// @Failure 500 {object} map[string]string "Failed to update organization"
// @Security BearerAuth
// @Router /organizations/{organization_id} [put]
func (h *organizationHandler) updateOrganization(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	organizationID := c.Param("organization_id")

	var req dto.UpdateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for updateOrganization", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("organization_id", organizationID), slog.String("user_id", userID))
	logger.Info("Received request to update organization")

	updated, err := h.organizationService.UpdateOrganization(c.Request.Context(), organizationID, req, userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to update organization")
		return
	}

	logger.Info("Organization updated successfully")
	c.JSON(http.StatusOK, dto.ToOrganizationResponse(updated))
}

// deactivateOrganization godoc
// @Summary Deactivate an organization
// @Description Marks an organization as inactive (admin only).
// @Tags organizations
// @Param   organization_id path string true "Organization ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden (caller is not admin)"
// @Failure 404 {object} map[string]string "Organization not found"
// @Failure 500 {object} map[string]string "Failed to deactivate organization"
// @Security BearerAuth
// @Router /organizations/{organization_id}/deactivate [post]
func (h *organizationHandler) deactivateOrganization(c *gin.Context) {
	h.setOrganizationStatus(c, false)
}

// activateOrganization godoc
// @Summary Activate an organization
// @Description Marks an organization as active again (admin only).
// @Tags organizations
// @Param   organization_id path string true "Organization ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden (caller is not admin)"
// @Failure 404 {object} map[string]string "Organization not found"
// @Failure 500 {object} map[string]string "Failed to activate organization"
// @Security BearerAuth
// @Router /organizations/{organization_id}/activate [post]
func (h *organizationHandler) activateOrganization(c *gin.Context) {
	h.setOrganizationStatus(c, true)
}

func (h *organizationHandler) setOrganizationStatus(c *gin.Context, active bool) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	organizationID := c.Param("organization_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var err error
	if active {
		err = h.organizationService.ActivateOrganization(c.Request.Context(), organizationID, userID)
	} else {
		err = h.organizationService.DeactivateOrganization(c.Request.Context(), organizationID, userID)
	}
	if err != nil {
		respondWithError(c, logger, err, "Failed to change organization status")
		return
	}

	logger.Info("Organization status changed", slog.String("organization_id", organizationID), slog.Bool("active", active))
	c.Status(http.StatusNoContent)
}
