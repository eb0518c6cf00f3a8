package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/aarjjun/EventSync/internal/app/models"
	"github.com/aarjjun/EventSync/internal/pkg/apperrors"
	"github.com/aarjjun/EventSync/internal/pkg/logger"
)

// RoleLookup reads the current role of a user
type RoleLookup interface {
	GetRole(ctx context.Context, userID string) (models.Role, error)
}

// AuthorizationService resolves identities and checks role permissions
type AuthorizationService struct {
	roles RoleLookup
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(roles RoleLookup) *AuthorizationService {
	return &AuthorizationService{roles: roles}
}

// ResolveIdentity builds the identity of an authenticated token subject.
// A subject without a user row is unauthenticated; a failed lookup leaves the identity loading.
func (s *AuthorizationService) ResolveIdentity(ctx context.Context, userID string) Identity {
	if userID == "" {
		return Identity{}
	}

	role, err := s.roles.GetRole(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return Identity{UserID: userID}
		}
		logger.Warn().Err(err).Str("userID", userID).Msg("Role lookup failed, identity not resolved")
		return Identity{UserID: userID, Loading: true}
	}

	return Identity{UserID: userID, Role: role, Authenticated: true}
}

// ValidateReviewer returns ErrPermissionDenied unless the identity may change event statuses
func ValidateReviewer(id Identity) error {
	if id.Loading {
		return apperrors.ErrIdentityNotResolved
	}
	if !id.Authenticated {
		return apperrors.ErrUnauthenticated
	}
	if !id.Role.CanReview() {
		return apperrors.NewForbiddenError(fmt.Sprintf("role %s cannot review events", id.Role))
	}
	return nil
}

// ValidateSubmitter returns an error unless the identity may create events
func ValidateSubmitter(id Identity) error {
	if id.Loading {
		return apperrors.ErrIdentityNotResolved
	}
	if !id.Authenticated {
		return apperrors.ErrUnauthenticated
	}
	if !id.Role.CanSubmit() {
		return apperrors.NewForbiddenError(fmt.Sprintf("role %s cannot submit events", id.Role))
	}
	return nil
}
