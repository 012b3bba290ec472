package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/FieldOpsLabs/inspection_tracking_app/internal/core/domain"
	portssvc "github.com/FieldOpsLabs/inspection_tracking_app/internal/core/ports/services"
	"github.com/FieldOpsLabs/inspection_tracking_app/internal/dto"
	"github.com/FieldOpsLabs/inspection_tracking_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// inspectionHandler handles HTTP requests related to inspections.
type inspectionHandler struct {
	inspectionService portssvc.InspectionSvcFacade
}

// newInspectionHandler creates a new inspectionHandler.
func newInspectionHandler(is portssvc.InspectionSvcFacade) *inspectionHandler {
	return &inspectionHandler{
		inspectionService: is,
	}
}

// RegisterInspectionRoutes registers inspection routes nested under an organization group.
func RegisterInspectionRoutes(rg *gin.RouterGroup, inspectionService portssvc.InspectionSvcFacade) {
	h := newInspectionHandler(inspectionService)

	inspections := rg.Group("/inspections")
	{
		inspections.POST("", h.submitInspection)
		inspections.GET("", h.listInspections)
		inspections.POST("/bulk-approve", h.bulkApproveInspections)
		inspections.GET("/:inspection_id", h.getInspection)
		inspections.POST("/:inspection_id/approve", h.approveInspection)
		inspections.POST("/:inspection_id/reject", h.rejectInspection)
	}
}

// registerMyInspectionRoutes registers the caller-scoped inspection listing.
func registerMyInspectionRoutes(rg *gin.RouterGroup, inspectionService portssvc.InspectionSvcFacade) {
	h := newInspectionHandler(inspectionService)
	rg.GET("/inspections/mine", h.listMyInspections)
}

// submitInspection godoc
// @Summary Submit a completed inspection
// @Description Validates the filled checklist against its workflow, evaluates auto-approval and persists the inspection.
// @Tags inspections
// @Accept  json
// @Produce  json
// @Param   organization_id path string true "Organization ID"
// @Param   inspection body dto.CreateInspectionRequest true "Completed inspection"
// @Success 201 {object} dto.InspectionResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden (caller is not an inspector)"
// @Failure 404 {object} map[string]string "Workflow not found"
// @Failure 500 {object} map[string]string "Failed to submit inspection"
// @Security BearerAuth
// @Router /organizations/{organization_id}/inspections [post]
func (h *inspectionHandler) submitInspection(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	organizationID := c.Param("organization_id")

	var req dto.CreateInspectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for submitInspection", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	inspectorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Inspector user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("organization_id", organizationID), slog.String("inspector_id", inspectorID), slog.String("workflow_id", req.WorkflowID))
	logger.Info("Received inspection submission")

	inspection, err := h.inspectionService.SubmitInspection(c.Request.Context(), organizationID, req, inspectorID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to submit inspection")
		return
	}

	logger.Info("Inspection submitted", slog.String("inspection_id", inspection.InspectionID), slog.String("status", string(inspection.Status)))
	c.JSON(http.StatusCreated, dto.ToInspectionResponse(inspection))
}

// getInspection godoc
// @Summary Get an inspection by ID
// @Description Retrieves an inspection with its filled steps and approver entries.
// @Tags inspections
// @Produce  json
// @Param   organization_id path string true "Organization ID"
// @Param   inspection_id path string true "Inspection ID"
// @Success 200 {object} dto.InspectionResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Inspection not found"
// @Failure 500 {object} map[string]string "Failed to retrieve inspection"
// @Security BearerAuth
// @Router /organizations/{organization_id}/inspections/{inspection_id} [get]
func (h *inspectionHandler) getInspection(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	organizationID := c.Param("organization_id")
	inspectionID := c.Param("inspection_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	inspection, err := h.inspectionService.GetInspectionByID(c.Request.Context(), organizationID, inspectionID, userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to retrieve inspection")
		return
	}

	c.JSON(http.StatusOK, dto.ToInspectionResponse(inspection))
}

// listInspections godoc
// @Summary List inspections
// @Description Retrieves a page of an organization's inspections, newest inspection date first.
// @Tags inspections
// @Produce  json
// @Param   organization_id path string true "Organization ID"
// @Param   status query string false "Filter by status" Enums(pending, approved, rejected, auto-approved, pending-bulk)
// @Param   workflowID query string false "Filter by workflow"
// @Param   limit query int false "Page size" default(20)
// @Param   pageToken query string false "Opaque page token from a previous response"
// @Success 200 {object} dto.ListInspectionsResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Organization not found or caller not a member"
// @Failure 500 {object} map[string]string "Failed to list inspections"
// @Security BearerAuth
// @Router /organizations/{organization_id}/inspections [get]
func (h *inspectionHandler) listInspections(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	organizationID := c.Param("organization_id")

	var params dto.ListInspectionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Invalid query parameters for listInspections", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	inspections, nextToken, err := h.inspectionService.ListInspections(c.Request.Context(), organizationID, params, userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list inspections")
		return
	}

	c.JSON(http.StatusOK, dto.ToListInspectionsResponse(inspections, nextToken))
}

// listMyInspections godoc
// @Summary List the caller's inspections
// @Description Retrieves a page of inspections submitted by the authenticated user.
// @Tags inspections
// @Produce  json
// @Param   limit query int false "Page size" default(20)
// @Param   pageToken query string false "Opaque page token from a previous response"
// @Success 200 {object} dto.ListInspectionsResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list inspections"
// @Security BearerAuth
// @Router /inspections/mine [get]
func (h *inspectionHandler) listMyInspections(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	pageToken := c.Query("pageToken")

	inspections, nextToken, err := h.inspectionService.ListMyInspections(c.Request.Context(), userID, limit, pageToken)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list inspections")
		return
	}

	c.JSON(http.StatusOK, dto.ToListInspectionsResponse(inspections, nextToken))
}

// approveInspection godoc
// @Summary Approve an inspection
// @Description Records an approval decision by an assigned approver.
// @Tags inspections
// @Accept  json
// @Produce  json
// @Param   organization_id path string true "Organization ID"
// @Param   inspection_id path string true "Inspection ID"
// @Param   action body dto.ApprovalActionRequest false "Optional remarks"
// @Success 200 {object} dto.InspectionResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden (caller is not an assigned approver)"
// @Failure 404 {object} map[string]string "Inspection not found"
// @Failure 409 {object} map[string]string "Inspection already decided"
// @Failure 500 {object} map[string]string "Failed to approve inspection"
// @Security BearerAuth
// @Router /organizations/{organization_id}/inspections/{inspection_id}/approve [post]
func (h *inspectionHandler) approveInspection(c *gin.Context) {
	h.decideInspection(c, true)
}

// rejectInspection godoc
// @Summary Reject an inspection
// @Description Records a rejection decision by an assigned approver.
// @Tags inspections
// @Accept  json
// @Produce  json
// @Param   organization_id path string true "Organization ID"
// @Param   inspection_id path string true "Inspection ID"
// @Param   action body dto.ApprovalActionRequest false "Optional remarks"
// @Success 200 {object} dto.InspectionResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden (caller is not an assigned approver)"
// @Failure 404 {object} map[string]string "Inspection not found"
// @Failure 409 {object} map[string]string "Inspection already decided"
// @Failure 500 {object} map[string]string "Failed to reject inspection"
// @Security BearerAuth
// @Router /organizations/{organization_id}/inspections/{inspection_id}/reject [post]
func (h *inspectionHandler) rejectInspection(c *gin.Context) {
	h.decideInspection(c, false)
}

func (h *inspectionHandler) decideInspection(c *gin.Context, approve bool) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	organizationID := c.Param("organization_id")
	inspectionID := c.Param("inspection_id")

	// Body is optional; remarks only
	var req dto.ApprovalActionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.Warn("Failed to bind JSON for inspection decision", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
			return
		}
	}

	approverUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Approver user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("inspection_id", inspectionID), slog.String("approver_id", approverUserID), slog.Bool("approve", approve))
	logger.Info("Received inspection decision")

	var inspection *domain.Inspection
	var err error
	if approve {
		inspection, err = h.inspectionService.ApproveInspection(c.Request.Context(), organizationID, inspectionID, approverUserID, req.Remarks)
	} else {
		inspection, err = h.inspectionService.RejectInspection(c.Request.Context(), organizationID, inspectionID, approverUserID, req.Remarks)
	}
	if err != nil {
		respondWithError(c, logger, err, "Failed to record inspection decision")
		return
	}

	logger.Info("Inspection decision recorded", slog.String("status", string(inspection.Status)))
	c.JSON(http.StatusOK, dto.ToInspectionResponse(inspection))
}

// bulkApproveInspections godoc
// @Summary Bulk approve a batch of inspections
// @Description Approves every pending-bulk inspection in the batch in one action.
// @Tags inspections
// @Accept  json
// @Produce  json
// @Param   organization_id path string true "Organization ID"
// @Param   batch body dto.BulkApproveRequest true "Batch to approve"
// @Success 200 {object} dto.BulkApproveResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden (caller is not an approver)"
// @Failure 404 {object} map[string]string "Batch not found"
// @Failure 500 {object} map[string]string "Failed to bulk approve"
// @Security BearerAuth
// @Router /organizations/{organization_id}/inspections/bulk-approve [post]
func (h *inspectionHandler) bulkApproveInspections(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	organizationID := c.Param("organization_id")

	var req dto.BulkApproveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for bulkApproveInspections", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	approverUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Approver user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("organization_id", organizationID), slog.String("batch_id", req.BatchID), slog.String("approver_id", approverUserID))
	logger.Info("Received bulk approval request")

	count, err := h.inspectionService.BulkApproveInspections(c.Request.Context(), organizationID, req.BatchID, approverUserID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to bulk approve inspections")
		return
	}

	logger.Info("Batch approved", slog.Int("approved_count", count))
	c.JSON(http.StatusOK, dto.BulkApproveResponse{BatchID: req.BatchID, ApprovedCount: count})
}
