package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/aarjjun/EventSync/internal/app/models"
	"github.com/aarjjun/EventSync/internal/pkg/apperrors"
	"github.com/aarjjun/EventSync/internal/pkg/dberrors"
	"github.com/aarjjun/EventSync/internal/pkg/logger"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var userColumns = []string{"id", "email", "password", "full_name", "role", "created_at", "updated_at"}

// UserRepository handles user database operations
type UserRepository struct {
	db DBTX
	sb squirrel.StatementBuilderType
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{
		db: db,
		sb: statementBuilder(),
	}
}

func scanUser(row scanner) (*models.User, error) {
	u := &models.User{}
	var role string
	if err := row.Scan(&u.ID, &u.Email, &u.Password, &u.FullName, &role, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	parsed, err := models.ParseRole(role)
	if err != nil {
		return nil, err
	}
	u.Role = parsed
	return u, nil
}

// Create stores a new user; emails are stored lower-cased
func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))

	sql, args, err := r.sb.Insert("users").
		Columns("id", "email", "password", "full_name", "role").
		Values(u.ID, u.Email, u.Password, u.FullName, u.Role.String()).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create user SQL")
		return fmt.Errorf("failed to build create user query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&u.CreatedAt, &u.UpdatedAt); err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrEmailAlreadyExists
		}
		logger.Error().Err(err).Str("email", u.Email).Msg("Error executing create user query")
		return fmt.Errorf("%w: create user: %v", apperrors.ErrDatabase, err)
	}
	return nil
}

func (r *UserRepository) getOne(ctx context.Context, where squirrel.Eq) (*models.User, error) {
	sql, args, err := r.sb.Select(userColumns...).From("users").Where(where).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get user query: %w", err)
	}

	u, err := scanUser(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || dberrors.IsInvalidTextRepresentation(err) {
			return nil, apperrors.ErrUserNotFound
		}
		logger.Error().Err(err).Msg("Error scanning user row")
		return nil, fmt.Errorf("%w: get user: %v", apperrors.ErrDatabase, err)
	}
	return u, nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, squirrel.Eq{"email": strings.ToLower(strings.TrimSpace(email))})
}

// GetRole resolves the current role of a user; it is read on every guarded request
func (r *UserRepository) GetRole(ctx context.Context, id string) (models.Role, error) {
	sql, args, err := r.sb.Select("role").From("users").Where(squirrel.Eq{"id": id}).Limit(1).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build get role query: %w", err)
	}

	var role string
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&role); err != nil {
		if errors.Is(err, pgx.ErrNoRows) || dberrors.IsInvalidTextRepresentation(err) {
			return 0, apperrors.ErrUserNotFound
		}
		return 0, fmt.Errorf("%w: get role: %v", apperrors.ErrDatabase, err)
	}
	return models.ParseRole(role)
}
