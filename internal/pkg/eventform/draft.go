// Package eventform holds the submission form state as an immutable draft
// and resolves it into the fields persisted for a new event.
package eventform

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aarjjun/EventSync/internal/app/models"
)

// Meridiem is the AM/PM half of a 12-hour time
type Meridiem string

const (
	AM Meridiem = "AM"
	PM Meridiem = "PM"
)

// Field names a draft field targeted by a Change
type Field string

const (
	FieldTitle           Field = "title"
	FieldCommunity       Field = "community"
	FieldCustomCommunity Field = "customCommunity"
	FieldType            Field = "type"
	FieldCustomType      Field = "customType"
	FieldDescription     Field = "description"
	FieldDate            Field = "date"
	FieldTime            Field = "time"
	FieldMeridiem        Field = "ampm"
)

// DateLayout is the accepted format of the date field
const DateLayout = "2006-01-02"

var (
	// ErrIncompleteDraft means the date or time is missing; submitting is a no-op
	ErrIncompleteDraft = errors.New("draft is missing date or time")
	// ErrInvalidDraft wraps every validation failure of a complete draft
	ErrInvalidDraft = errors.New("invalid event draft")
)

// Draft is the submission form state. Apply never mutates the receiver.
type Draft struct {
	Title           string
	Community       string
	CustomCommunity string
	Type            string
	CustomType      string
	Description     string
	Date            string
	Time            string
	Meridiem        Meridiem
}

// Change sets one field of a draft
type Change struct {
	Field Field
	Value string
}

// NewDraft returns an empty draft with the meridiem defaulted to AM
func NewDraft() Draft {
	return Draft{Meridiem: AM}
}

// Apply returns a copy of d with the change applied. Unknown fields are ignored.
func (d Draft) Apply(c Change) Draft {
	next := d
	switch c.Field {
	case FieldTitle:
		next.Title = c.Value
	case FieldCommunity:
		next.Community = c.Value
	case FieldCustomCommunity:
		next.CustomCommunity = c.Value
	case FieldType:
		next.Type = c.Value
	case FieldCustomType:
		next.CustomType = c.Value
	case FieldDescription:
		next.Description = c.Value
	case FieldDate:
		next.Date = c.Value
	case FieldTime:
		next.Time = c.Value
	case FieldMeridiem:
		next.Meridiem = Meridiem(strings.ToUpper(strings.TrimSpace(c.Value)))
	}
	return next
}

// Reduce folds a sequence of changes over d
func (d Draft) Reduce(changes ...Change) Draft {
	for _, c := range changes {
		d = d.Apply(c)
	}
	return d
}

// Resolved is a draft turned into storable values
type Resolved struct {
	Title       string
	Community   string
	Type        string
	Description string
	Datetime    time.Time
}

// Resolve validates the draft and combines its schedule fields in loc.
// It returns ErrIncompleteDraft when the date or the time is missing.
func (d Draft) Resolve(loc *time.Location) (Resolved, error) {
	if strings.TrimSpace(d.Date) == "" || strings.TrimSpace(d.Time) == "" {
		return Resolved{}, ErrIncompleteDraft
	}
	if loc == nil {
		loc = time.UTC
	}

	title := strings.TrimSpace(d.Title)
	if title == "" {
		return Resolved{}, fmt.Errorf("%w: title is required", ErrInvalidDraft)
	}

	community := ResolveOther(d.Community, d.CustomCommunity)
	if community == "" {
		return Resolved{}, fmt.Errorf("%w: community is required", ErrInvalidDraft)
	}

	eventType := ResolveOther(d.Type, d.CustomType)
	if eventType == "" {
		return Resolved{}, fmt.Errorf("%w: type is required", ErrInvalidDraft)
	}

	at, err := CombineDateTime(d.Date, d.Time, d.Meridiem, loc)
	if err != nil {
		return Resolved{}, err
	}

	return Resolved{
		Title:       title,
		Community:   community,
		Type:        eventType,
		Description: d.Description,
		Datetime:    at,
	}, nil
}

// ResolveOther returns custom when selected is the "Other" option
func ResolveOther(selected, custom string) string {
	if selected == models.OtherOption {
		return strings.TrimSpace(custom)
	}
	return strings.TrimSpace(selected)
}

// To24Hour converts a 12-hour clock hour (1-12) to a 24-hour hour (0-23)
func To24Hour(hour int, m Meridiem) (int, error) {
	if hour < 1 || hour > 12 {
		return 0, fmt.Errorf("%w: hour %d out of range 1-12", ErrInvalidDraft, hour)
	}
	switch m {
	case AM:
		if hour == 12 {
			return 0, nil
		}
		return hour, nil
	case PM:
		if hour == 12 {
			return 12, nil
		}
		return hour + 12, nil
	default:
		return 0, fmt.Errorf("%w: meridiem must be AM or PM, got %q", ErrInvalidDraft, m)
	}
}

// CombineDateTime merges a YYYY-MM-DD date with an hh:mm 12-hour time
func CombineDateTime(date, clock string, m Meridiem, loc *time.Location) (time.Time, error) {
	day, err := time.ParseInLocation(DateLayout, strings.TrimSpace(date), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidDraft)
	}

	parts := strings.Split(strings.TrimSpace(clock), ":")
	if len(parts) != 2 {
		return time.Time{}, fmt.Errorf("%w: time must be hh:mm", ErrInvalidDraft)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid hour %q", ErrInvalidDraft, parts[0])
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return time.Time{}, fmt.Errorf("%w: invalid minutes %q", ErrInvalidDraft, parts[1])
	}

	hour24, err := To24Hour(hour, m)
	if err != nil {
		return time.Time{}, err
	}

	return time.Date(day.Year(), day.Month(), day.Day(), hour24, minute, 0, 0, loc), nil
}
