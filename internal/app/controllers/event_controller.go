package controllers

import (
	"context"
	"errors"
	"net/http"

	appauth "github.com/aarjjun/EventSync/internal/app/auth"
	"github.com/aarjjun/EventSync/internal/app/models"
	"github.com/aarjjun/EventSync/internal/app/models/dto"
	"github.com/aarjjun/EventSync/internal/app/services"
	"github.com/aarjjun/EventSync/internal/middleware"
	"github.com/aarjjun/EventSync/internal/pkg/eventform"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// defaultFormID keys the submission guard when the client does not name its form
const defaultFormID = "default"

// EventService is the event logic used by EventController
type EventService interface {
	Submit(ctx context.Context, id appauth.Identity, formID string, draft eventform.Draft, poster *services.Poster) (*models.Event, error)
	UpdateStatus(ctx context.Context, id appauth.Identity, eventID string, status models.EventStatus) (*models.Event, error)
	ReviewView(ctx context.Context, id appauth.Identity, eventID string) (*dto.ReviewResponse, error)
	List(ctx context.Context, status *models.EventStatus, upcoming bool) ([]models.Event, error)
}

// EventController handles event submission and review
type EventController struct {
	eventService EventService
	logger       zerolog.Logger
}

// NewEventController creates a new EventController
func NewEventController(eventService EventService, logger zerolog.Logger) *EventController {
	return &EventController{
		eventService: eventService,
		logger:       logger,
	}
}

// List returns events ordered by start time
// @Summary List events
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param status query string false "pending, approved or rejected"
// @Param upcoming query bool false "only events starting now or later"
// @Success 200 {object} dto.APIResponse{data=dto.EventListResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid filter"
// @Router /events [get]
func (c *EventController) List(ctx *gin.Context) {
	var query dto.ListEventsQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	var status *models.EventStatus
	if query.Status != "" {
		parsed, err := models.ParseEventStatus(query.Status)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
				dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, err.Error()).WithField("status")))
			return
		}
		status = &parsed
	}

	events, err := c.eventService.List(ctx.Request.Context(), status, query.Upcoming)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.EventListResponse{Events: events, Total: len(events)}, ""))
}

// Get returns one event with the review actions available to the caller
// @Summary Get event
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 200 {object} dto.APIResponse{data=dto.ReviewResponse}
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Router /events/{id} [get]
func (c *EventController) Get(ctx *gin.Context) {
	view, err := c.eventService.ReviewView(ctx.Request.Context(), middleware.IdentityFrom(ctx), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(view, ""))
}

// Create submits a new event
// @Summary Submit event
// @Description Creates a pending event. A form without date or time is ignored with 204.
// @Tags events
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param title formData string true "Title"
// @Param community formData string true "Community or Other"
// @Param customCommunity formData string false "Community when Other is selected"
// @Param type formData string true "Type or Other"
// @Param customType formData string false "Type when Other is selected"
// @Param description formData string false "Description"
// @Param date formData string true "YYYY-MM-DD"
// @Param time formData string true "hh:mm"
// @Param ampm formData string false "AM or PM"
// @Param formId formData string false "Client form instance"
// @Param poster formData file false "Poster image"
// @Success 201 {object} dto.APIResponse{data=models.Event}
// @Success 204 "Incomplete form, nothing created"
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 409 {object} dto.ErrorResponse "Submission already in progress"
// @Failure 500 {object} dto.ErrorResponse "Failed to create event"
// @Router /events [post]
func (c *EventController) Create(ctx *gin.Context) {
	var form dto.SubmitEventForm
	if err := ctx.ShouldBind(&form); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid event submission payload")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	var poster *services.Poster
	if form.Poster != nil {
		file, err := form.Poster.Open()
		if err != nil {
			// Treated like a failed upload: the event is still created without a poster
			c.logger.Error().Err(err).Str("filename", form.Poster.Filename).Msg("Error opening poster upload")
		} else {
			defer file.Close()
			poster = &services.Poster{Filename: form.Poster.Filename, Body: file}
		}
	}

	formID := form.FormID
	if formID == "" {
		formID = defaultFormID
	}

	event, err := c.eventService.Submit(ctx.Request.Context(), middleware.IdentityFrom(ctx), formID, form.Draft(), poster)
	if err != nil {
		if errors.Is(err, eventform.ErrIncompleteDraft) {
			ctx.Status(http.StatusNoContent)
			return
		}
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(event, "Event submitted successfully!"))
}

// UpdateStatus approves, rejects or resets an event
// @Summary Update event status
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Param request body dto.UpdateStatusRequest true "New status"
// @Success 200 {object} dto.APIResponse{data=models.Event}
// @Failure 400 {object} dto.ErrorResponse "Invalid status"
// @Failure 403 {object} dto.ErrorResponse "Reviewer role required"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Router /events/{id}/status [patch]
func (c *EventController) UpdateStatus(ctx *gin.Context) {
	var req dto.UpdateStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	status, err := models.ParseEventStatus(req.Status)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, err.Error()).WithField("status")))
		return
	}

	event, err := c.eventService.UpdateStatus(ctx.Request.Context(), middleware.IdentityFrom(ctx), ctx.Param("id"), status)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(event, "Event "+string(status)+" successfully!"))
}
