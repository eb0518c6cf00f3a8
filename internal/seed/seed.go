package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aarjjun/EventSync/internal/app/models"
	"github.com/aarjjun/EventSync/internal/pkg/apperrors"
	"github.com/aarjjun/EventSync/internal/pkg/auth"
	"github.com/rs/zerolog"
)

// UserStore is the subset of the user repository the seeder needs
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, u *models.User) error
}

// ReviewerAccount describes the default head-of-department login
type ReviewerAccount struct {
	Email    string
	Password string
	FullName string
}

// DefaultReviewerName is used when no name is configured
const DefaultReviewerName = "Head of Department"

// CreateDefaultData makes sure a reviewer ("hod") account exists.
// Registration only creates submitters, so this is the only way a reviewer is provisioned.
func CreateDefaultData(ctx context.Context, users UserStore, reviewer ReviewerAccount, lgr zerolog.Logger) error {
	email := strings.ToLower(strings.TrimSpace(reviewer.Email))
	if email == "" {
		lgr.Info().Msg("No reviewer email configured, skipping default reviewer")
		return nil
	}

	lgr.Info().Str("email", email).Msg("Checking/Creating default reviewer account...")

	existing, err := users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.Role != models.RoleReviewer {
			lgr.Warn().Str("email", email).Str("role", existing.Role.String()).Msg("Default reviewer email belongs to a non-reviewer account")
		}
		return nil
	case !errors.Is(err, apperrors.ErrUserNotFound):
		lgr.Error().Err(err).Msg("Error checking if default reviewer exists")
		return err
	}

	if reviewer.Password == "" {
		lgr.Warn().Str("email", email).Msg("No reviewer password configured, default reviewer not created")
		return nil
	}

	hashedPassword, err := auth.HashPassword(reviewer.Password)
	if err != nil {
		lgr.Error().Err(err).Msg("Error hashing reviewer password")
		return fmt.Errorf("hash reviewer password: %w", err)
	}

	name := reviewer.FullName
	if name == "" {
		name = DefaultReviewerName
	}

	user := &models.User{
		Email:    email,
		Password: hashedPassword,
		FullName: name,
		Role:     models.RoleReviewer,
	}
	if err := users.Create(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			return nil
		}
		lgr.Error().Err(err).Msg("Error creating default reviewer")
		return err
	}

	lgr.Info().Str("userID", user.ID).Str("email", email).Msg("Default reviewer account created")
	return nil
}
