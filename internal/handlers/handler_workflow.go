package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	portssvc "github.com/FieldOpsLabs/inspection_tracking_app/internal/core/ports/services"
	"github.com/FieldOpsLabs/inspection_tracking_app/internal/dto"
	"github.com/FieldOpsLabs/inspection_tracking_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// workflowHandler handles HTTP requests related to workflow templates.
type workflowHandler struct {
	workflowService portssvc.WorkflowSvcFacade
}

// newWorkflowHandler creates a new workflowHandler.
func newWorkflowHandler(ws portssvc.WorkflowSvcFacade) *workflowHandler {
	return &workflowHandler{
		workflowService: ws,
	}
}

// registerWorkflowRoutes registers workflow routes nested under an organization group.
func registerWorkflowRoutes(rg *gin.RouterGroup, workflowService portssvc.WorkflowSvcFacade) {
	h := newWorkflowHandler(workflowService)

	workflows := rg.Group("/workflows")
	{
		workflows.POST("", h.createWorkflow)
		workflows.GET("", h.listWorkflows)
		workflows.GET("/:workflow_id", h.getWorkflow)
		workflows.PUT("/:workflow_id", h.updateWorkflow)
		workflows.DELETE("/:workflow_id", h.deleteWorkflow)
	}
}

// createWorkflow godoc
// @Summary Create a new workflow
// @Description Creates a new workflow template with ordered steps (admin only).
// @Tags workflows
// @Accept  json
// @Produce  json
// @Param   organization_id path string true "Organization ID"
// @Param   workflow body dto.CreateWorkflowRequest true "Workflow details"
// @Success 201 {object} dto.WorkflowResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden (caller is not admin)"
// @Failure 500 {object} map[string]string "Failed to create workflow"
// @Security BearerAuth
// @Router /organizations/{organization_id}/workflows [post]
func (h *workflowHandler) createWorkflow(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	organizationID := c.Param("organization_id")

	var req dto.CreateWorkflowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createWorkflow", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Creator user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("organization_id", organizationID), slog.String("creator_user_id", creatorUserID))
	logger.Info("Received request to create workflow", slog.String("workflow_name", req.Name))

	newWorkflow, err := h.workflowService.CreateWorkflow(c.Request.Context(), organizationID, req, creatorUserID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to create workflow")
		return
	}

	logger.Info("Workflow created successfully", slog.String("workflow_id", newWorkflow.WorkflowID))
	c.JSON(http.StatusCreated, dto.ToWorkflowResponse(newWorkflow))
}

// listWorkflows godoc
// @Summary List workflows
// @Description Retrieves the workflows of an organization.
// @Tags workflows
// @Produce  json
// @Param   organization_id path string true "Organization ID"
// @Param   limit query int false "Page size" default(20)
// @Param   offset query int false "Offset" default(0)
// @Success 200 {object} dto.ListWorkflowsResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Organization not found or caller not a member"
// @Failure 500 {object} map[string]string "Failed to list workflows"
// @Security BearerAuth
// @Router /organizations/{organization_id}/workflows [get]
func (h *workflowHandler) listWorkflows(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	organizationID := c.Param("organization_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	workflows, err := h.workflowService.ListWorkflows(c.Request.Context(), organizationID, userID, limit, offset)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list workflows")
		return
	}

	c.JSON(http.StatusOK, dto.ToListWorkflowsResponse(workflows))
}

// getWorkflow godoc
// @Summary Get a workflow by ID
// @Description Retrieves a workflow template with its steps and auto-approval rules.
// @Tags workflows
// @Produce  json
// @Param   organization_id path string true "Organization ID"
// @Param   workflow_id path string true "Workflow ID"
// @Success 200 {object} dto.WorkflowResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Workflow not found"
// @Failure 500 {object} map[string]string "Failed to retrieve workflow"
// @Security BearerAuth
// @Router /organizations/{organization_id}/workflows/{workflow_id} [get]
func (h *workflowHandler) getWorkflow(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	organizationID := c.Param("organization_id")
	workflowID := c.Param("workflow_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	workflow, err := h.workflowService.GetWorkflowByID(c.Request.Context(), organizationID, workflowID, userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to retrieve workflow")
		return
	}

	c.JSON(http.StatusOK, dto.ToWorkflowResponse(workflow))
}

// updateWorkflow godoc
// @Summary Update a workflow
// @Description Updates a workflow template (admin only). Providing steps replaces the sequence wholesale.
// @Tags workflows
// @Accept  json
// @Produce  json
// @Param   organization_id path string true "Organization ID"
// @Param   workflow_id path string true "Workflow ID"
// @Param   workflow body dto.UpdateWorkflowRequest true "Fields to update"
// @Success 200 {object} dto.WorkflowResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden (caller is not admin)"
// @Failure 404 {object} map[string]string "Workflow not found"
// @Failure 500 {object} map[string]string "Failed to update workflow"
// @Security BearerAuth
// @Router /organizations/{organization_id}/workflows/{workflow_id} [put]
func (h *workflowHandler) updateWorkflow(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	organizationID := c.Param("organization_id")
	workflowID := c.Param("workflow_id")

	var req dto.UpdateWorkflowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for updateWorkflow", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("workflow_id", workflowID), slog.String("user_id", userID))
	logger.Info("Received request to update workflow")

	updated, err := h.workflowService.UpdateWorkflow(c.Request.Context(), organizationID, workflowID, req, userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to update workflow")
		return
	}

	logger.Info("Workflow updated successfully")
	c.JSON(http.StatusOK, dto.ToWorkflowResponse(updated))
}

// deleteWorkflow godoc
// @Summary Delete a workflow
// @Description Soft deletes a workflow template (admin only). Existing inspections keep referencing it.
// @Tags workflows
// @Param   organization_id path string true "Organization ID"
// @Param   workflow_id path string true "Workflow ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden (caller is not admin)"
// @Failure 404 {object} map[string]string "Workflow not found"
// @Failure 500 {object} map[string]string "Failed to delete workflow"
// @Security BearerAuth
// @Router /organizations/{organization_id}/workflows/{workflow_id} [delete]
func (h *workflowHandler) deleteWorkflow(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	organizationID := c.Param("organization_id")
	workflowID := c.Param("workflow_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("workflow_id", workflowID), slog.String("user_id", userID))
	logger.Info("Received request to delete workflow")

	if err := h.workflowService.DeleteWorkflow(c.Request.Context(), organizationID, workflowID, userID); err != nil {
		respondWithError(c, logger, err, "Failed to delete workflow")
		return
	}

	logger.Info("Workflow deleted successfully")
	c.Status(http.StatusNoContent)
}
