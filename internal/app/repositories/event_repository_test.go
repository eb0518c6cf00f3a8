package repositories

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/aarjjun/EventSync/internal/app/models"
	"github.com/aarjjun/EventSync/internal/pkg/apperrors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const selectEventSQL = "SELECT id, title, community, type, description, datetime, end_datetime, " +
	"suggested_datetime, suggestion_reason, poster_url, status, created_by, created_at, updated_at FROM events"

func newEventRepo(t *testing.T) (*EventRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewEventRepository(mock), mock
}

func eventRows() *pgxmock.Rows {
	return pgxmock.NewRows(eventColumns)
}

func anyArgs(n int) []interface{} {
	args := make([]interface{}, n)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}

func TestEventRepository_Insert(t *testing.T) {
	repo, mock := newEventRepo(t)
	created := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	at := time.Date(2026, 3, 16, 18, 30, 0, 0, time.UTC)

	e := &models.Event{
		Title:     "Hack Night",
		Community: "TinkerHub",
		Type:      "Technical",
		Datetime:  at,
		Status:    models.StatusPending,
		CreatedBy: "5f1c7a2e-8d5b-4f57-9a0e-0c3b7f3f9e11",
	}

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO events (id,title,community,type,description,datetime,")).
		WithArgs(pgxmock.AnyArg(), "Hack Night", "TinkerHub", "Technical", "", at,
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			"pending", "5f1c7a2e-8d5b-4f57-9a0e-0c3b7f3f9e11").
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(created, created))

	require.NoError(t, repo.Insert(context.Background(), e))
	assert.NotEmpty(t, e.ID)
	assert.Equal(t, created, e.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepository_InsertCheckViolation(t *testing.T) {
	repo, mock := newEventRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO events")).
		WithArgs(anyArgs(12)...).
		WillReturnError(&pgconn.PgError{Code: "23514"})

	err := repo.Insert(context.Background(), &models.Event{Status: "archived"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepository_InsertDatabaseError(t *testing.T) {
	repo, mock := newEventRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO events")).
		WithArgs(anyArgs(12)...).
		WillReturnError(errors.New("connection reset"))

	err := repo.Insert(context.Background(), &models.Event{Status: models.StatusPending})
	assert.ErrorIs(t, err, apperrors.ErrDatabase)
	assert.NotErrorIs(t, err, apperrors.ErrInvalidStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepository_UpdateStatusTouchesOnlyStatus(t *testing.T) {
	repo, mock := newEventRepo(t)
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return now }

	mock.ExpectExec(regexp.QuoteMeta("UPDATE events SET status = $1, updated_at = $2 WHERE id = $3")).
		WithArgs("approved", now, "e-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, repo.UpdateStatus(context.Background(), "e-1", models.StatusApproved))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepository_UpdateStatusNotFound(t *testing.T) {
	repo, mock := newEventRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE events")).
		WithArgs("rejected", pgxmock.AnyArg(), "missing").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.UpdateStatus(context.Background(), "missing", models.StatusRejected)
	assert.ErrorIs(t, err, apperrors.ErrEventNotFound)
}

func TestEventRepository_GetByID(t *testing.T) {
	repo, mock := newEventRepo(t)
	at := time.Date(2026, 4, 10, 9, 0, 0, 0, time.UTC)
	poster := "http://localhost:8080/uploads/event-posters/u/1.png"

	mock.ExpectQuery(regexp.QuoteMeta(selectEventSQL + " WHERE id = $1 LIMIT 1")).
		WithArgs("e-1").
		WillReturnRows(eventRows().AddRow(
			"e-1", "Robotics", "IEEE", "Competition", "Line follower",
			at, nil, nil, nil,
			&poster, "approved", "u-1", at, at,
		))

	e, err := repo.GetByID(context.Background(), "e-1")
	require.NoError(t, err)
	assert.Equal(t, "Robotics", e.Title)
	assert.Equal(t, models.StatusApproved, e.Status)
	require.NotNil(t, e.PosterURL)
	assert.Equal(t, poster, *e.PosterURL)
	assert.Nil(t, e.EndDatetime)
}

func TestEventRepository_GetByIDNotFound(t *testing.T) {
	repo, mock := newEventRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(selectEventSQL)).
		WithArgs("nope").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "nope")
	assert.ErrorIs(t, err, apperrors.ErrEventNotFound)
}

func TestEventRepository_ListWithFilters(t *testing.T) {
	repo, mock := newEventRepo(t)
	from := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	status := models.StatusPending
	at := from.Add(time.Hour)

	mock.ExpectQuery(regexp.QuoteMeta(selectEventSQL + " WHERE status = $1 AND datetime >= $2 ORDER BY datetime ASC, created_at ASC")).
		WithArgs("pending", from).
		WillReturnRows(eventRows().
			AddRow("e-1", "A", "IEEE", "Seminar", "", at, nil, nil, nil, nil, "pending", "u-1", at, at).
			AddRow("e-2", "B", "NSS", "Cultural", "", at.Add(time.Hour), nil, nil, nil, nil, "pending", "u-2", at, at))

	events, err := repo.List(context.Background(), models.EventFilter{Status: &status, From: &from})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "e-1", events[0].ID)
	assert.Equal(t, "B", events[1].Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepository_ListEmpty(t *testing.T) {
	repo, mock := newEventRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(selectEventSQL + " ORDER BY datetime ASC")).
		WillReturnRows(eventRows())

	events, err := repo.List(context.Background(), models.EventFilter{})
	require.NoError(t, err)
	assert.NotNil(t, events)
	assert.Empty(t, events)
}
