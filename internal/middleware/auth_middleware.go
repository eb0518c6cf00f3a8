package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	appauth "github.com/aarjjun/EventSync/internal/app/auth"
	"github.com/aarjjun/EventSync/internal/app/models"
	"github.com/aarjjun/EventSync/internal/app/models/dto"
	"github.com/aarjjun/EventSync/internal/pkg/auth"
	"github.com/gin-gonic/gin"
)

// Context keys set by the auth middleware
const (
	UserIDKey   = "userID"
	EmailKey    = "email"
	IdentityKey = "identity"
)

// RetryAfterSeconds is sent with 503 responses while the identity is still resolving
const RetryAfterSeconds = "1"

// IdentityResolver turns an authenticated subject into an Identity
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, userID string) appauth.Identity
}

// AuthMiddleware for authentication and authorization
type AuthMiddleware struct {
	jwtService *auth.JWTService
	resolver   IdentityResolver
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService, resolver IdentityResolver) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		resolver:   resolver,
	}
}

// JWTAuth validates the bearer token when one is present.
// Requests without a token pass through anonymously and are handled by Guard.
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")

		// Browsers cannot set headers on websocket upgrades
		if authHeader == "" {
			if queryToken := c.Query("token"); queryToken != "" {
				authHeader = "Bearer " + queryToken
			}
		}

		if authHeader == "" {
			c.Next()
			return
		}

		tokenString, err := auth.ExtractBearerToken(strings.Trim(authHeader, "\"'"))
		if err != nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
			errorDetail = errorDetail.WithDetails("Invalid token format")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail).WithRedirect(appauth.EntryPoint))
			return
		}

		claims, err := m.jwtService.ValidateAndExtractClaims(tokenString)
		if err != nil {
			errorCode := dto.ErrorCodeInvalidToken
			errorDetails := "Invalid token"
			if errors.Is(err, auth.ErrExpiredToken) {
				errorCode = dto.ErrorCodeExpiredToken
				errorDetails = "Token has expired"
			}

			errorDetail := dto.NewErrorDetail(errorCode, "Authentication failed")
			errorDetail = errorDetail.WithDetails(errorDetails)
			errorDetail = errorDetail.WithSeverity(dto.ErrorSeverityError)
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail).WithRedirect(appauth.EntryPoint))
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(EmailKey, claims.Email)

		c.Next()
	}
}

// Guard admits the request only when the caller is authenticated and,
// if required is non-nil, holds exactly that role. The role is read from
// the users table on every request.
func (m *AuthMiddleware) Guard(required *models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := m.resolver.ResolveIdentity(c.Request.Context(), c.GetString(UserIDKey))

		switch appauth.Evaluate(identity, required) {
		case appauth.DecisionPending:
			c.Header("Retry-After", RetryAfterSeconds)
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeIdentityPending, "Identity is still being resolved")
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, dto.NewErrorResponse(errorDetail))
			return
		case appauth.DecisionRedirect:
			redirect(c, identity)
			return
		case appauth.DecisionAllow:
			c.Set(IdentityKey, identity)
			c.Next()
		}
	}
}

// RequireReviewer is Guard restricted to the "hod" role
func (m *AuthMiddleware) RequireReviewer() gin.HandlerFunc {
	role := models.RoleReviewer
	return m.Guard(&role)
}

// RequireAuthenticated is Guard without a role requirement
func (m *AuthMiddleware) RequireAuthenticated() gin.HandlerFunc {
	return m.Guard(nil)
}

func redirect(c *gin.Context, identity appauth.Identity) {
	if wantsHTML(c.Request) {
		c.Redirect(http.StatusFound, appauth.EntryPoint)
		c.Abort()
		return
	}

	if !identity.Authenticated {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail).WithRedirect(appauth.EntryPoint))
		return
	}

	errorDetail := dto.NewErrorDetail(dto.ErrorCodeForbidden, "Access denied")
	errorDetail = errorDetail.WithDetails("You don't have sufficient permissions for this operation")
	c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(errorDetail).WithRedirect(appauth.EntryPoint))
}

// wantsHTML reports whether the client is a browser navigation rather than an API call
func wantsHTML(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "text/html") && !strings.Contains(accept, "application/json")
}

// IdentityFrom returns the identity stored by Guard
func IdentityFrom(c *gin.Context) appauth.Identity {
	if v, ok := c.Get(IdentityKey); ok {
		if identity, ok := v.(appauth.Identity); ok {
			return identity
		}
	}
	return appauth.Identity{}
}
