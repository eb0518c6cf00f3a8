package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/aarjjun/EventSync/internal/app/models"
)

// Layout selects how months are rendered in the paginated document
type Layout int

const (
	// LayoutList renders every month of the window as cards, with a placeholder for empty months
	LayoutList Layout = iota
	// LayoutCalendar skips empty months and draws a calendar grid before the cards
	LayoutCalendar
)

func (l Layout) String() string {
	switch l {
	case LayoutCalendar:
		return "calendar"
	default:
		return "list"
	}
}

// ParseLayout accepts "list" or "calendar"; empty means list
func ParseLayout(s string) (Layout, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "list":
		return LayoutList, nil
	case "calendar":
		return LayoutCalendar, nil
	default:
		return LayoutList, fmt.Errorf("unknown report layout %q", s)
	}
}

// WindowMonths is the number of calendar months covered, starting with the current one
const WindowMonths = 6

// LocaleLayout formats timestamps the way en-US locale strings look
const LocaleLayout = "1/2/2006, 3:04:05 PM"

const (
	DefaultTitle    = "EventSync TocH"
	DefaultSubtitle = "Event Management Report"
	DefaultFooter   = "EventSync TocH - Event Management System"
)

// Options controls both report artifacts
type Options struct {
	Now          time.Time
	Location     *time.Location
	UpcomingOnly bool
	Layout       Layout
	Title        string
	Subtitle     string
	Footer       string
	Geometry     PageGeometry
}

func (o Options) withDefaults() Options {
	if o.Location == nil {
		o.Location = time.UTC
	}
	if o.Now.IsZero() {
		o.Now = time.Now()
	}
	if o.Title == "" {
		o.Title = DefaultTitle
	}
	if o.Subtitle == "" {
		o.Subtitle = DefaultSubtitle
	}
	if o.Footer == "" {
		o.Footer = DefaultFooter
	}
	if o.Geometry == (PageGeometry{}) {
		o.Geometry = A4
	}
	return o
}

// IsUpcoming is the single upcoming policy: an event is upcoming when it starts at or after now
func IsUpcoming(e models.Event, now time.Time) bool {
	return !e.Datetime.Before(now)
}

// Select returns the events a report covers, keeping input order
func Select(events []models.Event, opts Options) []models.Event {
	if !opts.UpcomingOnly {
		return events
	}
	out := make([]models.Event, 0, len(events))
	for _, e := range events {
		if IsUpcoming(e, opts.Now) {
			out = append(out, e)
		}
	}
	return out
}

// FormatTimestamp renders t as a locale string in loc
func FormatTimestamp(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(LocaleLayout)
}

func formatOptional(t *time.Time, loc *time.Location) string {
	if t == nil {
		return ""
	}
	return FormatTimestamp(*t, loc)
}
