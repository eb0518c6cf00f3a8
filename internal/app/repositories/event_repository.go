package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/aarjjun/EventSync/internal/app/models"
	"github.com/aarjjun/EventSync/internal/pkg/apperrors"
	"github.com/aarjjun/EventSync/internal/pkg/dberrors"
	"github.com/aarjjun/EventSync/internal/pkg/logger"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var eventColumns = []string{
	"id", "title", "community", "type", "description",
	"datetime", "end_datetime", "suggested_datetime", "suggestion_reason",
	"poster_url", "status", "created_by", "created_at", "updated_at",
}

// EventRepository handles event database operations
type EventRepository struct {
	db  DBTX
	sb  squirrel.StatementBuilderType
	now func() time.Time
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(db DBTX) *EventRepository {
	return &EventRepository{
		db:  db,
		sb:  statementBuilder(),
		now: time.Now,
	}
}

func scanEvent(row scanner) (*models.Event, error) {
	e := &models.Event{}
	var status string
	err := row.Scan(
		&e.ID, &e.Title, &e.Community, &e.Type, &e.Description,
		&e.Datetime, &e.EndDatetime, &e.SuggestedDatetime, &e.SuggestionReason,
		&e.PosterURL, &status, &e.CreatedBy, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.Status = models.EventStatus(status)
	return e, nil
}

// Insert stores a new event. The id is assigned here when empty; created_at and updated_at come back from the database.
func (r *EventRepository) Insert(ctx context.Context, e *models.Event) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}

	sql, args, err := r.sb.Insert("events").
		Columns("id", "title", "community", "type", "description", "datetime",
			"end_datetime", "suggested_datetime", "suggestion_reason",
			"poster_url", "status", "created_by").
		Values(e.ID, e.Title, e.Community, e.Type, e.Description, e.Datetime.UTC(),
			e.EndDatetime, e.SuggestedDatetime, e.SuggestionReason,
			e.PosterURL, string(e.Status), e.CreatedBy).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building insert event SQL")
		return fmt.Errorf("failed to build insert event query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&e.CreatedAt, &e.UpdatedAt); err != nil {
		switch {
		case dberrors.IsCheckViolation(err):
			return fmt.Errorf("%w: %s", apperrors.ErrInvalidStatus, e.Status)
		case dberrors.IsForeignKeyViolation(err):
			return fmt.Errorf("%w: unknown submitter", apperrors.ErrUserNotFound)
		}
		logger.Error().Err(err).Str("title", e.Title).Msg("Error executing insert event query")
		return fmt.Errorf("%w: insert event: %v", apperrors.ErrDatabase, err)
	}

	return nil
}

// UpdateStatus overwrites the status of one event. Only status and updated_at change.
func (r *EventRepository) UpdateStatus(ctx context.Context, id string, status models.EventStatus) error {
	sql, args, err := r.sb.Update("events").
		Set("status", string(status)).
		Set("updated_at", r.now().UTC()).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update event status SQL")
		return fmt.Errorf("failed to build update event status query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		switch {
		case dberrors.IsCheckViolation(err):
			return fmt.Errorf("%w: %s", apperrors.ErrInvalidStatus, status)
		case dberrors.IsInvalidTextRepresentation(err):
			return apperrors.ErrEventNotFound
		}
		logger.Error().Err(err).Str("eventID", id).Msg("Error executing update event status query")
		return fmt.Errorf("%w: update event status: %v", apperrors.ErrDatabase, err)
	}

	if tag.RowsAffected() == 0 {
		return apperrors.ErrEventNotFound
	}
	return nil
}

// GetByID retrieves a single event
func (r *EventRepository) GetByID(ctx context.Context, id string) (*models.Event, error) {
	sql, args, err := r.sb.Select(eventColumns...).
		From("events").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get event by ID SQL")
		return nil, fmt.Errorf("failed to build get event query: %w", err)
	}

	e, err := scanEvent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || dberrors.IsInvalidTextRepresentation(err) {
			return nil, apperrors.ErrEventNotFound
		}
		logger.Error().Err(err).Str("eventID", id).Msg("Error scanning event row")
		return nil, fmt.Errorf("%w: get event: %v", apperrors.ErrDatabase, err)
	}
	return e, nil
}

// List returns events ordered by start time, narrowed by the filter
func (r *EventRepository) List(ctx context.Context, filter models.EventFilter) ([]models.Event, error) {
	q := r.sb.Select(eventColumns...).From("events")
	if filter.Status != nil {
		q = q.Where(squirrel.Eq{"status": string(*filter.Status)})
	}
	if filter.From != nil {
		q = q.Where(squirrel.GtOrEq{"datetime": filter.From.UTC()})
	}

	sql, args, err := q.OrderBy("datetime ASC", "created_at ASC").ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list events SQL")
		return nil, fmt.Errorf("failed to build list events query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list events query")
		return nil, fmt.Errorf("%w: list events: %v", apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	events := []models.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning event row")
			return nil, fmt.Errorf("%w: scan event: %v", apperrors.ErrDatabase, err)
		}
		events = append(events, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate events: %v", apperrors.ErrDatabase, err)
	}

	return events, nil
}
