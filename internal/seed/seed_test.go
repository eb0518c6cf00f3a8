package seed

import (
	"context"
	"testing"

	"github.com/aarjjun/EventSync/internal/app/models"
	"github.com/aarjjun/EventSync/internal/pkg/apperrors"
	"github.com/aarjjun/EventSync/internal/pkg/auth"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryUsers struct {
	users []models.User
}

func (m *memoryUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for i := range m.users {
		if m.users[i].Email == email {
			return &m.users[i], nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (m *memoryUsers) Create(_ context.Context, u *models.User) error {
	u.ID = "seeded"
	m.users = append(m.users, *u)
	return nil
}

func TestCreateDefaultData_CreatesReviewerOnce(t *testing.T) {
	users := &memoryUsers{}
	account := ReviewerAccount{Email: "HOD@eventsync.local", Password: "change-me-now"}

	require.NoError(t, CreateDefaultData(context.Background(), users, account, zerolog.Nop()))
	require.NoError(t, CreateDefaultData(context.Background(), users, account, zerolog.Nop()))

	require.Len(t, users.users, 1)
	hod := users.users[0]
	assert.Equal(t, "hod@eventsync.local", hod.Email)
	assert.Equal(t, models.RoleReviewer, hod.Role)
	assert.Equal(t, DefaultReviewerName, hod.FullName)
	assert.True(t, auth.CheckPassword(hod.Password, "change-me-now"))
}

func TestCreateDefaultData_SkipsWithoutPassword(t *testing.T) {
	users := &memoryUsers{}

	require.NoError(t, CreateDefaultData(context.Background(), users, ReviewerAccount{Email: "hod@eventsync.local"}, zerolog.Nop()))
	assert.Empty(t, users.users)
}
