package middleware

import (
	"errors"
	"net/http"

	appauth "github.com/aarjjun/EventSync/internal/app/auth"
	"github.com/aarjjun/EventSync/internal/app/models/dto"
	"github.com/aarjjun/EventSync/internal/pkg/apperrors"
	"github.com/aarjjun/EventSync/internal/pkg/auth"
	"github.com/gin-gonic/gin"
)

// HandleAPIError maps service errors onto the standard error envelope
func HandleAPIError(c *gin.Context, err error) {
	status, detail := classify(err)

	resp := dto.NewErrorResponse(detail)
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		resp = resp.WithRedirect(appauth.EntryPoint)
	case http.StatusServiceUnavailable:
		c.Header("Retry-After", RetryAfterSeconds)
	}

	c.AbortWithStatusJSON(status, resp)
}

func classify(err error) (int, *dto.ErrorDetail) {
	var custom *apperrors.CustomError
	hasCustom := errors.As(err, &custom)

	switch {
	case errors.Is(err, apperrors.ErrValidationFailed):
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Validation failed")
		if hasCustom {
			detail = detail.WithDetails(custom.Message)
			if field, ok := custom.Details["field"].(string); ok {
				detail = detail.WithField(field)
			}
		}
		return http.StatusBadRequest, detail
	case errors.Is(err, apperrors.ErrInvalidStatus):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, err.Error())
	case apperrors.Is(err, apperrors.ErrEventNotFound, apperrors.ErrUserNotFound):
		return http.StatusNotFound, dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Resource not found").WithDetails(err.Error())
	case errors.Is(err, apperrors.ErrPermissionDenied):
		detail := dto.NewErrorDetail(dto.ErrorCodeForbidden, "Permission denied")
		if hasCustom {
			detail = detail.WithDetails(custom.Message)
		}
		return http.StatusForbidden, detail
	case errors.Is(err, apperrors.ErrUnauthenticated):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
	case errors.Is(err, apperrors.ErrIdentityNotResolved):
		return http.StatusServiceUnavailable, dto.NewErrorDetail(dto.ErrorCodeIdentityPending, "Identity is still being resolved")
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeInvalidCredentials, "Invalid credentials")
	case errors.Is(err, auth.ErrExpiredToken):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeExpiredToken, "Token expired")
	case apperrors.Is(err, auth.ErrInvalidToken, auth.ErrInvalidFormat):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Invalid token")
	case errors.Is(err, apperrors.ErrEmailAlreadyExists):
		return http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, "Email already exists")
	case errors.Is(err, apperrors.ErrSubmissionInProgress):
		return http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeConflict, "A submission from this form is already in progress")
	case errors.Is(err, apperrors.ErrDatabase):
		return http.StatusInternalServerError, dto.NewErrorDetail(dto.ErrorCodeDatabaseError, "Database error")
	default:
		return http.StatusInternalServerError, dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")
	}
}
