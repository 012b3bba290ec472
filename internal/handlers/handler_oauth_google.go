package handlers

import (
	"log/slog"
	"net/http"

	"github.com/FieldOpsLabs/inspection_tracking_app/internal/core/domain"
	portssvc "github.com/FieldOpsLabs/inspection_tracking_app/internal/core/ports/services"
	"github.com/FieldOpsLabs/inspection_tracking_app/internal/dto"
	"github.com/FieldOpsLabs/inspection_tracking_app/internal/middleware"
	"github.com/FieldOpsLabs/inspection_tracking_app/internal/platform/config"
	"github.com/FieldOpsLabs/inspection_tracking_app/internal/utils"
	"github.com/gin-gonic/gin"
)

const oauthStateCookieName = "oauth_state"

// GoogleOAuthHandler handles the Google sign-in flow. It redirects the browser
// to Google's consent page and turns the callback code into application tokens.
type GoogleOAuthHandler struct {
	googleOAuthService portssvc.GoogleOAuthHandlerSvcFacade
	userService        portssvc.UserSvcFacade
	authHandler        *AuthHandler
	cfg                *config.Config
}

// NewGoogleOAuthHandler creates a new instance of GoogleOAuthHandler.
func NewGoogleOAuthHandler(
	googleOAuthService portssvc.GoogleOAuthHandlerSvcFacade,
	userService portssvc.UserSvcFacade,
	authHandler *AuthHandler,
	cfg *config.Config,
) *GoogleOAuthHandler {
	return &GoogleOAuthHandler{
		googleOAuthService: googleOAuthService,
		userService:        userService,
		authHandler:        authHandler,
		cfg:                cfg,
	}
}

// registerGoogleOAuthRoutes registers the Google OAuth routes under the auth group.
func registerGoogleOAuthRoutes(rg *gin.RouterGroup, cfg *config.Config, services *portssvc.ServiceContainer) {
	h := NewGoogleOAuthHandler(
		services.GoogleOAuthHandler,
		services.User,
		NewAuthHandler(services.User, services.TokenService, cfg),
		cfg,
	)
	googleRoutes := rg.Group("/google")
	{
		googleRoutes.GET("/login", h.RedirectToGoogle)
		googleRoutes.GET("/callback", h.CallbackGoogle)
	}
}

// RedirectToGoogle godoc
// @Summary Start Google sign-in
// @Description Redirects the browser to Google's consent page with a CSRF state cookie.
// @Tags oauth
// @Success 307
// @Failure 500 {object} ErrorResponse
// @Router /auth/google/login [get]
func (h *GoogleOAuthHandler) RedirectToGoogle(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	state, err := utils.GenerateSecureRandomString(16)
	if err != nil {
		logger.Error("Failed to generate OAuth state", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to start Google sign-in"})
		return
	}

	// Short-lived state cookie, validated on callback
	c.SetCookie(oauthStateCookieName, state, 600, "/", "", h.cfg.IsProduction, true)
	c.Redirect(http.StatusTemporaryRedirect, h.googleOAuthService.GetAuthCodeURL(state))
}

// CallbackGoogle godoc
// @Summary Google sign-in callback
// @Description Exchanges the authorization code for a validated Google identity, provisions the user, and returns application tokens.
// @Tags oauth
// @Produce json
// @Param code query string true "Authorization code"
// @Param state query string true "CSRF state"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/google/callback [get]
func (h *GoogleOAuthHandler) CallbackGoogle(c *gin.Context) {
	ctx := c.Request.Context()
	logger := middleware.GetLoggerFromCtx(ctx)

	stateCookie, err := c.Cookie(oauthStateCookieName)
	if err != nil || stateCookie == "" || stateCookie != c.Query("state") {
		logger.Warn("OAuth state mismatch on Google callback")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid OAuth state"})
		return
	}
	c.SetCookie(oauthStateCookieName, "", -1, "/", "", h.cfg.IsProduction, true)

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Authorization code is required"})
		return
	}

	userInfo, err := h.googleOAuthService.ExchangeCodeForUserInfo(ctx, code)
	if err != nil {
		logger.Error("Failed to exchange authorization code with Google", slog.String("error", err.Error()))
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Failed to verify Google identity"})
		return
	}
	if !userInfo.EmailVerified {
		logger.Warn("Google account email not verified", slog.String("google_user_id", userInfo.ProviderUserID))
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Google account email is not verified"})
		return
	}

	user, err := h.userService.FindOrCreateUserByProvider(ctx, string(domain.ProviderGoogle), userInfo.ProviderUserID, userInfo.Email, userInfo.Name)
	if err != nil {
		respondWithError(c, logger, err, "Failed to process Google sign-in")
		return
	}
	logger.Info("User processed via Google OAuth", slog.String("user_id", user.UserID), slog.String("email", user.Email))

	accessToken, expiresAt, err := h.authHandler.tokenService.GenerateAccessToken(ctx, user)
	if err != nil {
		logger.Error("Failed to generate access token", slog.String("error", err.Error()), slog.String("user_id", user.UserID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to generate token"})
		return
	}
	if err := h.authHandler.issueRefreshToken(c, user); err != nil {
		logger.Error("Failed to issue refresh token", slog.String("error", err.Error()), slog.String("user_id", user.UserID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{
		Token:     accessToken,
		ExpiresAt: expiresAt,
		User:      dto.ToUserResponse(user),
	})
}
