package services

import (
	"context"
	"time"

	"github.com/FieldOpsLabs/inspection_tracking_app/internal/core/domain"
)

// TokenSvcFacade defines access and refresh token operations.
type TokenSvcFacade interface {
	// GenerateAccessToken creates a signed JWT access token for the user,
	// returning the token and its expiry time.
	GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error)

	// GenerateRefreshToken creates a new opaque refresh token for the user,
	// returning the raw token and its expiry time. The caller is responsible
	// for storing its hash via the user service.
	GenerateRefreshToken(ctx context.Context, user *domain.User) (string, time.Time, error)

	// ValidateAndParseRefreshToken validates a raw refresh token against the
	// stored hash and expiry for the user and returns the user on success.
	ValidateAndParseRefreshToken(ctx context.Context, userID string, refreshTokenString string) (*domain.User, error)
}

// GoogleUserInfo is the identity extracted from a validated Google ID token.
type GoogleUserInfo struct {
	ProviderUserID string
	Email          string
	EmailVerified  bool
	Name           string
}

// GoogleOAuthHandlerSvcFacade defines the Google sign-in flow.
type GoogleOAuthHandlerSvcFacade interface {
	// GetAuthCodeURL builds the Google consent page URL for the given state.
	GetAuthCodeURL(state string) string

	// ExchangeCodeForUserInfo exchanges an authorization code for a validated
	// ID token and returns the identity it asserts.
	ExchangeCodeForUserInfo(ctx context.Context, code string) (*GoogleUserInfo, error)
}
