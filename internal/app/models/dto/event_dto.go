package dto

import (
	"mime/multipart"

	"github.com/aarjjun/EventSync/internal/app/models"
	"github.com/aarjjun/EventSync/internal/pkg/eventform"
)

// SubmitEventForm is the multipart body of POST /events
type SubmitEventForm struct {
	FormID          string                `form:"formId" binding:"omitempty,max=64"`
	Title           string                `form:"title" binding:"max=200"`
	Community       string                `form:"community" binding:"max=100"`
	CustomCommunity string                `form:"customCommunity" binding:"max=100"`
	Type            string                `form:"type" binding:"max=100"`
	CustomType      string                `form:"customType" binding:"max=100"`
	Description     string                `form:"description" binding:"max=5000"`
	Date            string                `form:"date"`
	Time            string                `form:"time"`
	AmPm            string                `form:"ampm" binding:"omitempty,oneof=AM PM am pm"`
	Poster          *multipart.FileHeader `form:"poster" swaggerignore:"true"`
}

// Draft replays the submitted fields onto a fresh form draft
func (f SubmitEventForm) Draft() eventform.Draft {
	changes := []eventform.Change{
		{Field: eventform.FieldTitle, Value: f.Title},
		{Field: eventform.FieldCommunity, Value: f.Community},
		{Field: eventform.FieldCustomCommunity, Value: f.CustomCommunity},
		{Field: eventform.FieldType, Value: f.Type},
		{Field: eventform.FieldCustomType, Value: f.CustomType},
		{Field: eventform.FieldDescription, Value: f.Description},
		{Field: eventform.FieldDate, Value: f.Date},
		{Field: eventform.FieldTime, Value: f.Time},
	}
	if f.AmPm != "" {
		changes = append(changes, eventform.Change{Field: eventform.FieldMeridiem, Value: f.AmPm})
	}
	return eventform.NewDraft().Reduce(changes...)
}

// UpdateStatusRequest is the body of PATCH /events/:id/status
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending approved rejected" example:"approved"`
}

// ListEventsQuery filters GET /events
type ListEventsQuery struct {
	Status   string `form:"status" binding:"omitempty,oneof=pending approved rejected"`
	Upcoming bool   `form:"upcoming"`
}

// ReportQuery holds the export options of the report endpoints
type ReportQuery struct {
	Layout   string `form:"layout" binding:"omitempty,oneof=list calendar"`
	Upcoming bool   `form:"upcoming"`
}

// ReviewAction is one button of the review dialog
type ReviewAction struct {
	Label    string             `json:"label" example:"Approve"`
	Status   models.EventStatus `json:"status" example:"approved"`
	Disabled bool               `json:"disabled"`
}

// ReviewResponse is an event together with the actions the caller may take on it
type ReviewResponse struct {
	Event   *models.Event  `json:"event"`
	Actions []ReviewAction `json:"actions"`
}

// EventListResponse wraps the events returned by GET /events
type EventListResponse struct {
	Events []models.Event `json:"events"`
	Total  int            `json:"total"`
}
