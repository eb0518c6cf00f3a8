package report

import (
	"sort"
	"strconv"
	"time"

	"github.com/aarjjun/EventSync/internal/app/models"
)

// BlockKind identifies what a block draws
type BlockKind int

const (
	BlockHeader BlockKind = iota
	BlockMeta
	BlockSummary
	BlockMonthTitle
	BlockEmptyMonth
	BlockCalendar
	BlockCard
)

// EmptyMonthText is shown for months without events in the list layout
const EmptyMonthText = "No events scheduled"

// StatusCount is one entry of the status summary
type StatusCount struct {
	Status models.EventStatus
	Count  int
}

// CalendarMonth is a Sunday-first month grid with event counts per day
type CalendarMonth struct {
	Start time.Time
	// Weeks holds day-of-month numbers, 0 for cells outside the month
	Weeks  [][7]int
	Counts map[int]int
}

// Card is one event detail card; Index is 1-based across the document
type Card struct {
	Index int
	Event models.Event
}

// Block is a positioned piece of page content
type Block struct {
	Kind   BlockKind
	Y      float64
	Height float64

	Text     string
	Lines    []string
	Summary  []StatusCount
	Calendar *CalendarMonth
	Card     *Card
}

// Page is one page of blocks in drawing order
type Page struct {
	Number int
	Blocks []Block
}

// Document is a fully laid out report ready to render
type Document struct {
	Title    string
	Subtitle string
	Footer   string
	Geometry PageGeometry
	Location *time.Location
	Pages    []Page
}

// MonthSection groups the events of one calendar month of the window
type MonthSection struct {
	Start  time.Time
	Label  string
	Events []models.Event
}

// Months splits events into the window of WindowMonths calendar months starting with the month of now.
// Events outside the window are dropped; each section is sorted by start time.
func Months(events []models.Event, now time.Time, loc *time.Location) []MonthSection {
	local := now.In(loc)
	first := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, loc)

	sections := make([]MonthSection, WindowMonths)
	for i := range sections {
		start := first.AddDate(0, i, 0)
		sections[i] = MonthSection{Start: start, Label: start.Format("January 2006")}
	}
	end := first.AddDate(0, WindowMonths, 0)

	for _, e := range events {
		t := e.Datetime.In(loc)
		if t.Before(first) || !t.Before(end) {
			continue
		}
		idx := (t.Year()-first.Year())*12 + int(t.Month()) - int(first.Month())
		sections[idx].Events = append(sections[idx].Events, e)
	}

	for i := range sections {
		evs := sections[i].Events
		sort.SliceStable(evs, func(a, b int) bool { return evs[a].Datetime.Before(evs[b].Datetime) })
	}
	return sections
}

// Summarize counts events per status in EventStatuses order
func Summarize(events []models.Event) []StatusCount {
	counts := make(map[models.EventStatus]int, len(models.EventStatuses))
	for _, e := range events {
		counts[e.Status]++
	}
	out := make([]StatusCount, 0, len(models.EventStatuses))
	for _, s := range models.EventStatuses {
		out = append(out, StatusCount{Status: s, Count: counts[s]})
	}
	return out
}

// NewCalendarMonth builds the grid for the month starting at start
func NewCalendarMonth(start time.Time, events []models.Event, loc *time.Location) *CalendarMonth {
	daysInMonth := start.AddDate(0, 1, -1).Day()
	offset := int(start.Weekday())

	cal := &CalendarMonth{Start: start, Counts: make(map[int]int)}
	var week [7]int
	for day := 1; day <= daysInMonth; day++ {
		col := (offset + day - 1) % 7
		week[col] = day
		if col == 6 || day == daysInMonth {
			cal.Weeks = append(cal.Weeks, week)
			week = [7]int{}
		}
	}
	for _, e := range events {
		cal.Counts[e.Datetime.In(loc).Day()]++
	}
	return cal
}

type planner struct {
	g     PageGeometry
	pages []Page
	y     float64
}

func (p *planner) newPage() {
	p.pages = append(p.pages, Page{Number: len(p.pages) + 1})
	p.y = p.g.Margin
}

// place puts the blocks on the current page when they fit together, otherwise on a fresh page
func (p *planner) place(blocks ...Block) {
	need := 0.0
	for i, b := range blocks {
		need += b.Height
		if i > 0 {
			need += p.g.SectionGap
		}
	}
	if p.y+need > p.g.ContentBottom() && p.y > p.g.Margin {
		p.newPage()
	}

	page := &p.pages[len(p.pages)-1]
	for _, b := range blocks {
		b.Y = p.y
		page.Blocks = append(page.Blocks, b)
		p.y += b.Height + p.g.SectionGap
	}
}

// Plan lays out the paginated report. The header, metadata and status summary open the first page,
// followed by one section per month of the window rendered according to opts.Layout.
func Plan(events []models.Event, opts Options) Document {
	opts = opts.withDefaults()
	g := opts.Geometry
	selected := Select(events, opts)

	p := &planner{g: g}
	p.newPage()

	p.pages[0].Blocks = append(p.pages[0].Blocks, Block{
		Kind:   BlockHeader,
		Y:      0,
		Height: g.HeaderHeight,
		Text:   opts.Title,
		Lines:  []string{opts.Subtitle},
	})
	p.y = g.HeaderHeight + g.Margin

	p.place(Block{
		Kind:   BlockMeta,
		Height: 2 * g.LineHeight,
		Lines: []string{
			"Generated on: " + opts.Now.In(opts.Location).Format("1/2/2006"),
			"Total Events: " + strconv.Itoa(len(selected)),
		},
	})
	p.place(Block{
		Kind:    BlockSummary,
		Height:  2 * g.LineHeight,
		Text:    "Status Summary:",
		Summary: Summarize(selected),
	})

	index := 0
	for _, month := range Months(selected, opts.Now, opts.Location) {
		title := Block{Kind: BlockMonthTitle, Height: g.MonthTitleHeight, Text: month.Label}

		switch opts.Layout {
		case LayoutCalendar:
			if len(month.Events) == 0 {
				continue
			}
			cal := NewCalendarMonth(month.Start, month.Events, opts.Location)
			p.place(title, Block{
				Kind:     BlockCalendar,
				Height:   g.LineHeight + float64(len(cal.Weeks))*g.CalendarCellHeight,
				Calendar: cal,
			})
		case LayoutList:
			if len(month.Events) == 0 {
				p.place(title, Block{Kind: BlockEmptyMonth, Height: g.LineHeight, Text: EmptyMonthText})
				continue
			}
			index++
			p.place(title, cardBlock(g, index, month.Events[0]))
			month.Events = month.Events[1:]
		}

		for _, e := range month.Events {
			index++
			p.place(cardBlock(g, index, e))
		}
	}

	return Document{
		Title:    opts.Title,
		Subtitle: opts.Subtitle,
		Footer:   opts.Footer,
		Geometry: g,
		Location: opts.Location,
		Pages:    p.pages,
	}
}

func cardBlock(g PageGeometry, index int, e models.Event) Block {
	return Block{Kind: BlockCard, Height: g.CardHeight, Card: &Card{Index: index, Event: e}}
}

// Cards returns every card of the document in order
func (d Document) Cards() []Card {
	var out []Card
	for _, page := range d.Pages {
		for _, b := range page.Blocks {
			if b.Kind == BlockCard {
				out = append(out, *b.Card)
			}
		}
	}
	return out
}
