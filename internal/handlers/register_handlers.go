package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/FieldOpsLabs/inspection_tracking_app/cmd/docs"
	"github.com/FieldOpsLabs/inspection_tracking_app/internal/apperrors"
	portssvc "github.com/FieldOpsLabs/inspection_tracking_app/internal/core/ports/services"
	"github.com/FieldOpsLabs/inspection_tracking_app/internal/middleware"
	"github.com/FieldOpsLabs/inspection_tracking_app/internal/platform/config"
	"github.com/FieldOpsLabs/inspection_tracking_app/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	registerCustomValidators()

	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})
	r.GET("/", getHome)

	// Register public authentication routes
	registerAuthRoutes(r, cfg, services)

	// Setup API v1 routes with Auth Middleware, passing service interfaces
	setupAPIV1Routes(r, cfg, services)

	// Swagger routes (typically public or conditionally available)
	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	// Apply AuthMiddleware to the entire v1 group
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))

	// Delegate route registration to specific handlers, passing required services
	registerUserRoutes(v1, services.User)
	registerOrganizationRoutes(v1, services.Organization, services.Workflow, services.Inspection, services.User)
	registerMyInspectionRoutes(v1, services.Inspection)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	// Swagger setup
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

// registerCustomValidators wires domain-specific binding validators into gin.
// "dateonly" accepts plain calendar dates in YYYY-MM-DD form.
func registerCustomValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("dateonly", func(fl validator.FieldLevel) bool {
			_, err := utils.ParseDateOnly(fl.Field().String())
			return err == nil
		})
	}
}

// respondWithError translates service-layer errors into HTTP responses.
// Sentinel matches take precedence so callers get stable status codes
// regardless of which layer produced the error.
func respondWithError(c *gin.Context, logger *slog.Logger, err error, defaultMsg string) {
	var appErr *apperrors.AppError
	message := defaultMsg
	if errors.As(err, &appErr) && appErr.Message != "" {
		message = appErr.Message
	}
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": message})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": message})
	case errors.Is(err, apperrors.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": message})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": message})
	case errors.Is(err, apperrors.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": message})
	default:
		logger.Error(defaultMsg, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": defaultMsg})
	}
}
