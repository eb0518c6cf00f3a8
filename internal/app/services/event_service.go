package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aarjjun/EventSync/internal/app/auth"
	"github.com/aarjjun/EventSync/internal/app/models"
	"github.com/aarjjun/EventSync/internal/app/models/dto"
	"github.com/aarjjun/EventSync/internal/pkg/apperrors"
	"github.com/aarjjun/EventSync/internal/pkg/email"
	"github.com/aarjjun/EventSync/internal/pkg/eventform"
	"github.com/aarjjun/EventSync/internal/pkg/filestorage"
	"github.com/aarjjun/EventSync/internal/pkg/lock"
	"github.com/aarjjun/EventSync/internal/pkg/metrics"
	"github.com/aarjjun/EventSync/internal/pkg/websocket"
	"github.com/rs/zerolog"
)

// Toast texts shown to the acting user
const (
	toastSuccessTitle      = "Success"
	toastErrorTitle        = "Error"
	submitSuccessMessage   = "Event submitted successfully!"
	submitFailureMessage   = "Failed to create event"
	statusFailureMessage   = "Failed to update event status"
	statusSuccessMessageFm = "Event %s successfully!"
)

const statusEmailTimeout = 30 * time.Second

// EventService implements event submission and review
type EventService struct {
	events   EventStore
	users    UserStore
	storage  filestorage.ObjectStorage
	guard    lock.Guard
	notifier Notifier
	mailer   email.EmailService
	location *time.Location
	logger   zerolog.Logger
	now      func() time.Time
}

// NewEventService creates a new EventService
func NewEventService(
	events EventStore,
	users UserStore,
	storage filestorage.ObjectStorage,
	guard lock.Guard,
	notifier Notifier,
	mailer email.EmailService,
	location *time.Location,
	logger zerolog.Logger,
) *EventService {
	if location == nil {
		location = time.UTC
	}
	return &EventService{
		events:   events,
		users:    users,
		storage:  storage,
		guard:    guard,
		notifier: notifier,
		mailer:   mailer,
		location: location,
		logger:   logger,
		now:      time.Now,
	}
}

// Submit creates a pending event from a form draft.
// It returns eventform.ErrIncompleteDraft without side effects when the date or time is missing.
func (s *EventService) Submit(ctx context.Context, id auth.Identity, formID string, draft eventform.Draft, poster *Poster) (*models.Event, error) {
	if err := auth.ValidateSubmitter(id); err != nil {
		return nil, err
	}

	key := lock.SubmissionKey(id.UserID, formID)
	token, err := s.guard.Acquire(ctx, key)
	if err != nil {
		if errors.Is(err, lock.ErrHeld) {
			metrics.EventSubmissions.WithLabelValues(metrics.OutcomeSkipped).Inc()
			return nil, apperrors.ErrSubmissionInProgress
		}
		s.logger.Error().Err(err).Str("key", key).Msg("Failed to acquire submission guard")
		return nil, fmt.Errorf("acquire submission guard: %w", err)
	}
	defer func() {
		if err := s.guard.Release(context.WithoutCancel(ctx), key, token); err != nil {
			s.logger.Warn().Err(err).Str("key", key).Msg("Failed to release submission guard")
		}
	}()

	resolved, err := draft.Resolve(s.location)
	if err != nil {
		if errors.Is(err, eventform.ErrIncompleteDraft) {
			metrics.EventSubmissions.WithLabelValues(metrics.OutcomeSkipped).Inc()
			return nil, err
		}
		metrics.EventSubmissions.WithLabelValues(metrics.OutcomeFailure).Inc()
		return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed, err.Error())
	}

	var posterURL *string
	if poster != nil && poster.Body != nil {
		posterURL = s.UploadPoster(ctx, id.UserID, poster.Filename, poster.Body)
	}

	event := &models.Event{
		Title:       resolved.Title,
		Community:   resolved.Community,
		Type:        resolved.Type,
		Description: resolved.Description,
		Datetime:    resolved.Datetime.UTC(),
		PosterURL:   posterURL,
		Status:      models.StatusPending,
		CreatedBy:   id.UserID,
	}

	if err := s.events.Insert(ctx, event); err != nil {
		s.logger.Error().Err(err).Str("userID", id.UserID).Msg("Failed to create event")
		metrics.EventSubmissions.WithLabelValues(metrics.OutcomeFailure).Inc()
		s.notifier.SendToUser(id.UserID, websocket.ErrorToast(toastErrorTitle, submitFailureMessage))
		return nil, err
	}

	s.logger.Info().
		Str("eventID", event.ID).
		Str("userID", id.UserID).
		Bool("poster", posterURL != nil).
		Msg("Event submitted")
	metrics.EventSubmissions.WithLabelValues(metrics.OutcomeSuccess).Inc()
	s.notifier.SendToUser(id.UserID, websocket.SuccessToast(toastSuccessTitle, submitSuccessMessage))
	s.notifier.Broadcast(websocket.Refresh())

	return event, nil
}

// UploadPoster stores a poster under {userID}/{unix millis}.{ext} and returns its public URL.
// Any storage failure is logged and yields nil.
func (s *EventService) UploadPoster(ctx context.Context, userID, filename string, r io.Reader) *string {
	objectPath := fmt.Sprintf("%s/%d.%s", userID, s.now().UnixMilli(), posterExtension(filename))

	if err := s.storage.Upload(ctx, objectPath, r); err != nil {
		s.logger.Error().Err(err).Str("path", objectPath).Msg("Error uploading poster")
		metrics.PosterUploads.WithLabelValues(metrics.OutcomeFailure).Inc()
		return nil
	}

	metrics.PosterUploads.WithLabelValues(metrics.OutcomeSuccess).Inc()
	url := s.storage.PublicURL(objectPath)
	return &url
}

// posterExtension returns the text after the last dot, or the whole name when there is none
func posterExtension(filename string) string {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i+1:]
	}
	return name
}

// UpdateStatus writes a reviewer decision. The last write wins; writing the current value is accepted.
func (s *EventService) UpdateStatus(ctx context.Context, id auth.Identity, eventID string, status models.EventStatus) (*models.Event, error) {
	if err := auth.ValidateReviewer(id); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, apperrors.NewValidationError("status", "status must be one of pending, approved, rejected")
	}

	if err := s.events.UpdateStatus(ctx, eventID, status); err != nil {
		s.logger.Error().Err(err).Str("eventID", eventID).Str("status", string(status)).Msg("Failed to update event status")
		metrics.StatusTransitions.WithLabelValues(string(status), metrics.OutcomeFailure).Inc()
		s.notifier.SendToUser(id.UserID, websocket.ErrorToast(toastErrorTitle, statusFailureMessage))
		return nil, err
	}

	metrics.StatusTransitions.WithLabelValues(string(status), metrics.OutcomeSuccess).Inc()
	s.notifier.SendToUser(id.UserID, websocket.SuccessToast(toastSuccessTitle, fmt.Sprintf(statusSuccessMessageFm, status)))
	s.notifier.Broadcast(websocket.Refresh())

	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		s.logger.Warn().Err(err).Str("eventID", eventID).Msg("Status updated but event could not be reloaded")
		return &models.Event{ID: eventID, Status: status}, nil
	}

	s.logger.Info().
		Str("eventID", eventID).
		Str("status", string(status)).
		Str("reviewerID", id.UserID).
		Msg("Event status updated")

	go s.emailSubmitter(context.WithoutCancel(ctx), *event)

	return event, nil
}

// emailSubmitter tells the submitter about the new status; failures are only logged
func (s *EventService) emailSubmitter(ctx context.Context, event models.Event) {
	if s.mailer == nil || event.CreatedBy == "" {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, statusEmailTimeout)
	defer cancel()

	submitter, err := s.users.GetByID(ctx, event.CreatedBy)
	if err != nil {
		s.logger.Warn().Err(err).Str("eventID", event.ID).Msg("Could not load submitter for status email")
		return
	}
	if err := s.mailer.SendStatusChangeEmail(submitter.Email, submitter.FullName, event.Title, string(event.Status)); err != nil {
		s.logger.Warn().Err(err).Str("eventID", event.ID).Msg("Status email not delivered")
	}
}

// reviewActions lists the dialog buttons in display order
var reviewActions = []dto.ReviewAction{
	{Label: "Approve", Status: models.StatusApproved},
	{Label: "Reject", Status: models.StatusRejected},
	{Label: "Mark Pending", Status: models.StatusPending},
}

// ReviewView returns an event with the actions available to the caller
func (s *EventService) ReviewView(ctx context.Context, id auth.Identity, eventID string) (*dto.ReviewResponse, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return &dto.ReviewResponse{Event: event, Actions: ActionsFor(id, event)}, nil
}

// ActionsFor returns the review actions of an event; only reviewers get any
func ActionsFor(id auth.Identity, event *models.Event) []dto.ReviewAction {
	actions := []dto.ReviewAction{}
	if !id.Authenticated || !id.Role.CanReview() {
		return actions
	}
	for _, a := range reviewActions {
		a.Disabled = event.Status == a.Status
		actions = append(actions, a)
	}
	return actions
}

// List returns events ordered by start time; upcoming keeps only those at or after now
func (s *EventService) List(ctx context.Context, status *models.EventStatus, upcoming bool) ([]models.Event, error) {
	filter := models.EventFilter{Status: status}
	if upcoming {
		now := s.now()
		filter.From = &now
	}
	return s.events.List(ctx, filter)
}
