package models

import (
	"fmt"
	"strings"
	"time"
)

// EventStatus is the review outcome of an event
type EventStatus string

const (
	StatusPending  EventStatus = "pending"
	StatusApproved EventStatus = "approved"
	StatusRejected EventStatus = "rejected"
)

// EventStatuses lists every valid status in display order
var EventStatuses = []EventStatus{StatusApproved, StatusRejected, StatusPending}

// ParseEventStatus converts a raw string into an EventStatus
func ParseEventStatus(s string) (EventStatus, error) {
	switch status := EventStatus(strings.ToLower(strings.TrimSpace(s))); status {
	case StatusPending, StatusApproved, StatusRejected:
		return status, nil
	default:
		return "", fmt.Errorf("unknown event status %q", s)
	}
}

// Valid reports whether the status is one of the known values
func (s EventStatus) Valid() bool {
	_, err := ParseEventStatus(string(s))
	return err == nil
}

// Known communities offered by the submission form
var Communities = []string{"IEEE", "TinkerHub", "CoreAI", "GDSC", "NSS"}

// Known event types offered by the submission form
var EventTypes = []string{"Workshop", "Seminar", "Conference", "Competition", "Cultural", "Technical"}

// OtherOption is the selection value that enables the free-text override
const OtherOption = "Other"

// Event represents a submitted event based on the 'events' table
type Event struct {
	ID                string      `json:"id" db:"id"`
	Title             string      `json:"title" db:"title"`
	Community         string      `json:"community" db:"community"`
	Type              string      `json:"type" db:"type"`
	Description       string      `json:"description" db:"description"`
	Datetime          time.Time   `json:"datetime" db:"datetime"`
	EndDatetime       *time.Time  `json:"endDatetime,omitempty" db:"end_datetime"`
	SuggestedDatetime *time.Time  `json:"suggestedDatetime,omitempty" db:"suggested_datetime"`
	SuggestionReason  *string     `json:"suggestionReason,omitempty" db:"suggestion_reason"`
	PosterURL         *string     `json:"posterUrl" db:"poster_url"`
	Status            EventStatus `json:"status" db:"status"`
	CreatedBy         string      `json:"createdBy" db:"created_by"`
	CreatedAt         time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt         time.Time   `json:"updatedAt" db:"updated_at"`
}

// EventFilter narrows a select-many query
type EventFilter struct {
	Status *EventStatus
	// From keeps only events whose datetime is at or after this instant
	From *time.Time
}
