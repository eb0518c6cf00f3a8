package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/aarjjun/EventSync/internal/app/models"
	"github.com/aarjjun/EventSync/internal/pkg/apperrors"
	"github.com/stretchr/testify/assert"
)

func rolePtr(r models.Role) *models.Role { return &r }

func TestEvaluate(t *testing.T) {
	reviewer := Identity{UserID: "u-1", Role: models.RoleReviewer, Authenticated: true}
	submitter := Identity{UserID: "u-2", Role: models.RoleSubmitter, Authenticated: true}

	tests := []struct {
		name     string
		identity Identity
		required *models.Role
		want     Decision
	}{
		{"loading wins over everything", Identity{UserID: "u-1", Loading: true}, nil, DecisionPending},
		{"no user", Identity{}, nil, DecisionRedirect},
		{"token subject without profile", Identity{UserID: "ghost"}, nil, DecisionRedirect},
		{"any role allowed", submitter, nil, DecisionAllow},
		{"required role matches", reviewer, rolePtr(models.RoleReviewer), DecisionAllow},
		{"required role mismatch", submitter, rolePtr(models.RoleReviewer), DecisionRedirect},
		{"reviewer on submitter-only view", reviewer, rolePtr(models.RoleSubmitter), DecisionRedirect},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Evaluate(tt.identity, tt.required))
		})
	}
}

type stubRoles struct {
	role models.Role
	err  error
}

func (s stubRoles) GetRole(context.Context, string) (models.Role, error) { return s.role, s.err }

func TestResolveIdentity(t *testing.T) {
	ctx := context.Background()

	id := NewAuthorizationService(stubRoles{role: models.RoleReviewer}).ResolveIdentity(ctx, "u-1")
	assert.Equal(t, Identity{UserID: "u-1", Role: models.RoleReviewer, Authenticated: true}, id)

	id = NewAuthorizationService(stubRoles{err: apperrors.ErrUserNotFound}).ResolveIdentity(ctx, "u-1")
	assert.False(t, id.Authenticated)
	assert.False(t, id.Loading)

	id = NewAuthorizationService(stubRoles{err: errors.New("pool exhausted")}).ResolveIdentity(ctx, "u-1")
	assert.True(t, id.Loading)
	assert.Equal(t, DecisionPending, Evaluate(id, nil))

	assert.Equal(t, Identity{}, NewAuthorizationService(stubRoles{}).ResolveIdentity(ctx, ""))
}

func TestValidateReviewer(t *testing.T) {
	assert.NoError(t, ValidateReviewer(Identity{UserID: "u", Role: models.RoleReviewer, Authenticated: true}))
	err := ValidateReviewer(Identity{UserID: "u", Role: models.RoleSubmitter, Authenticated: true})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	assert.EqualError(t, err, "role rep cannot review events")
	assert.ErrorIs(t, ValidateReviewer(Identity{}), apperrors.ErrUnauthenticated)
	assert.ErrorIs(t, ValidateReviewer(Identity{Loading: true}), apperrors.ErrIdentityNotResolved)
}

func TestValidateSubmitter(t *testing.T) {
	assert.NoError(t, ValidateSubmitter(Identity{UserID: "u", Role: models.RoleSubmitter, Authenticated: true}))
	assert.NoError(t, ValidateSubmitter(Identity{UserID: "u", Role: models.RoleReviewer, Authenticated: true}))
	assert.ErrorIs(t, ValidateSubmitter(Identity{UserID: "u", Role: models.Role(9), Authenticated: true}), apperrors.ErrPermissionDenied)
}
