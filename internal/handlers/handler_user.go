package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/FieldOpsLabs/inspection_tracking_app/internal/core/ports/services"
	"github.com/FieldOpsLabs/inspection_tracking_app/internal/dto"
	"github.com/FieldOpsLabs/inspection_tracking_app/internal/middleware"

	"github.com/gin-gonic/gin"
)

// userHandler handles HTTP requests related to users.
type userHandler struct {
	userService portssvc.UserSvcFacade
}

// newUserHandler creates a new userHandler.
func newUserHandler(us portssvc.UserSvcFacade) *userHandler {
	return &userHandler{
		userService: us,
	}
}

// registerUserRoutes registers the user-centric routes.
func registerUserRoutes(rg *gin.RouterGroup, userService portssvc.UserSvcFacade) {
	h := newUserHandler(userService)

	users := rg.Group("/users")
	{
		users.GET("/:id", h.getUser)       // Own or same-org member
		users.PUT("/:id", h.updateUser)    // Own or admin
		users.DELETE("/:id", h.deleteUser) // Own or admin
	}
}

// registerOrganizationUserRoutes registers member listing and creation under a
// specific organization.
func registerOrganizationUserRoutes(rg *gin.RouterGroup, userService portssvc.UserSvcFacade) {
	h := newUserHandler(userService)
	rg.GET("/users", h.listUsers)
	rg.POST("/users", h.createOrganizationUser)
}

// getUser godoc
// @Summary Get a user by ID
// @Description Retrieves details for a specific user by their ID
// @Tags users
// @Produce  json
// @Param   id path string true "User ID"
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "User not found"
// @Failure 500 {object} map[string]string "Failed to retrieve user"
// @Security BearerAuth
// @Router /users/{id} [get]
func (h *userHandler) getUser(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID := c.Param("id")

	loggedInUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Logged-in user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	user, err := h.userService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to retrieve user")
		return
	}

	// Users outside the caller's organization are invisible
	if userID != loggedInUserID {
		caller, err := h.userService.GetUserByID(c.Request.Context(), loggedInUserID)
		if err != nil || caller.OrganizationID != user.OrganizationID {
			logger.Warn("User lookup outside caller's organization", slog.String("accessor_id", loggedInUserID), slog.String("target_id", userID))
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
	}

	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// listUsers godoc
// @Summary List users of an organization
// @Description Retrieves the users of an organization (members only).
// @Tags users
// @Produce  json
// @Param   organization_id path string true "Organization ID"
// @Param   limit query int false "Page size" default(20)
// @Param   offset query int false "Offset" default(0)
// @Success 200 {object} dto.ListUsersResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Organization not found or caller not a member"
// @Failure 500 {object} map[string]string "Failed to list users"
// @Security BearerAuth
// @Router /organizations/{organization_id}/users [get]
func (h *userHandler) listUsers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	organizationID := c.Param("organization_id")

	var params dto.ListUsersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Invalid query parameters for listUsers", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	users, err := h.userService.ListUsers(c.Request.Context(), organizationID, userID, params.Limit, params.Offset)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list users")
		return
	}

	c.JSON(http.StatusOK, dto.ToListUsersResponse(users))
}

// createOrganizationUser godoc
// @Summary Create a user within an organization
// @Description Adds a new user to the organization. Requires an organization admin unless the organization allows member invites.
// @Tags users
// @Accept  json
// @Produce  json
// @Param   organization_id path string true "Organization ID"
// @Param   user body dto.CreateUserRequest true "User details"
// @Success 201 {object} dto.UserResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Organization not found or caller not a member"
// @Failure 409 {object} map[string]string "Username already taken"
// @Failure 500 {object} map[string]string "Failed to create user"
// @Security BearerAuth
// @Router /organizations/{organization_id}/users [post]
func (h *userHandler) createOrganizationUser(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	organizationID := c.Param("organization_id")

	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createOrganizationUser", slog.String("error", err.Error()))
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
	logger.Info("Received request to create user in organization")

	created, err := h.userService.CreateUserInOrganization(c.Request.Context(), organizationID, req, creatorUserID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to create user")
		return
	}

	logger.Info("User created in organization", slog.String("user_id", created.UserID))
	c.JSON(http.StatusCreated, dto.ToUserResponse(created))
}

// updateUser godoc
// @Summary Update a user
// @Description Updates a user's details. Users may update themselves; role changes require an organization admin.
// @Tags users
// @Accept  json
// @Produce  json
// @Param   id path string true "User ID"
// @Param   user body dto.UpdateUserRequest true "Fields to update"
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "User not found"
// @Failure 500 {object} map[string]string "Failed to update user"
// @Security BearerAuth
// @Router /users/{id} [put]
func (h *userHandler) updateUser(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID := c.Param("id")

	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for updateUser", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	updaterUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Updater user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("target_user_id", userID), slog.String("updater_user_id", updaterUserID))
	logger.Info("Received request to update user")

	updated, err := h.userService.UpdateUser(c.Request.Context(), userID, req, updaterUserID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to update user")
		return
	}

	logger.Info("User updated successfully")
	c.JSON(http.StatusOK, dto.ToUserResponse(updated))
}

// deleteUser godoc
// @Summary Delete a user
// @Description Soft deletes a user. Users may delete themselves; otherwise requires an organization admin.
// @Tags users
// @Param   id path string true "User ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "User not found"
// @Failure 500 {object} map[string]string "Failed to delete user"
// @Security BearerAuth
// @Router /users/{id} [delete]
func (h *userHandler) deleteUser(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID := c.Param("id")

	deleterUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Deleter user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("target_user_id", userID), slog.String("deleter_user_id", deleterUserID))
	logger.Info("Received request to delete user")

	if err := h.userService.DeleteUser(c.Request.Context(), userID, deleterUserID); err != nil {
		respondWithError(c, logger, err, "Failed to delete user")
		return
	}

	logger.Info("User deleted successfully")
	c.Status(http.StatusNoContent)
}
