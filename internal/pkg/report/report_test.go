package report

import (
	"bytes"
	"fmt"
	"testing"
	"time"

	"github.com/aarjjun/EventSync/internal/app/models"
	"github.com/go-pdf/fpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func event(title string, at time.Time, status models.EventStatus) models.Event {
	return models.Event{
		ID:        title,
		Title:     title,
		Community: "IEEE",
		Type:      "Workshop",
		Datetime:  at,
		Status:    status,
	}
}

func allBlocks(doc Document) []Block {
	var out []Block
	for _, p := range doc.Pages {
		out = append(out, p.Blocks...)
	}
	return out
}

func TestRows_HackNightExample(t *testing.T) {
	tomorrow := time.Date(2026, 3, 16, 18, 30, 0, 0, time.UTC)
	rows := Rows([]models.Event{event("Hack Night", tomorrow, models.StatusPending)}, Options{Now: testNow})

	require.Len(t, rows, 1)
	assert.Equal(t, "Hack Night", rows[0].EventName)
	assert.Equal(t, "PENDING", rows[0].Status)
	assert.Equal(t, "3/16/2026, 6:30:00 PM", rows[0].Start)
	assert.Empty(t, rows[0].End)
}

func TestRows_UpcomingFilterCounts(t *testing.T) {
	events := []models.Event{
		event("past", testNow.Add(-time.Hour), models.StatusApproved),
		event("exactly now", testNow, models.StatusPending),
		event("future", testNow.Add(24*time.Hour), models.StatusRejected),
	}

	assert.Len(t, Rows(events, Options{Now: testNow}), 3)

	upcoming := Rows(events, Options{Now: testNow, UpcomingOnly: true})
	require.Len(t, upcoming, 2)
	assert.Equal(t, "exactly now", upcoming[0].EventName)
	assert.Equal(t, "future", upcoming[1].EventName)
}

func TestRows_OptionalColumnsInLocation(t *testing.T) {
	ist, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	start := time.Date(2026, 4, 1, 4, 30, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)
	suggested := start.Add(48 * time.Hour)
	reason := "Hall booked"

	e := event("Seminar", start, models.StatusRejected)
	e.EndDatetime = &end
	e.SuggestedDatetime = &suggested
	e.SuggestionReason = &reason
	e.Description = "Talk on RF design"

	rows := Rows([]models.Event{e}, Options{Now: testNow, Location: ist})
	require.Len(t, rows, 1)
	assert.Equal(t, "4/1/2026, 10:00:00 AM", rows[0].Start)
	assert.Equal(t, "4/1/2026, 12:00:00 PM", rows[0].End)
	assert.Equal(t, "4/3/2026, 10:00:00 AM", rows[0].Suggested)
	assert.Equal(t, "Hall booked", rows[0].SuggestionReason)
	assert.Equal(t, "REJECTED", rows[0].Status)
}

func TestWriteWorkbook_ReadBack(t *testing.T) {
	events := []models.Event{
		event("Hack Night", testNow.Add(30*time.Hour), models.StatusPending),
		event("Robotics", testNow.Add(72*time.Hour), models.StatusApproved),
	}
	events[1].Description = "Line follower contest"

	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(&buf, Rows(events, Options{Now: testNow})))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetName}, f.GetSheetList())

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, Columns, rows[0])
	assert.Equal(t, "Hack Night", rows[1][0])
	assert.Equal(t, "PENDING", rows[1][5])
	assert.Equal(t, "APPROVED", rows[2][5])
	assert.Equal(t, "Line follower contest", rows[2][6])
}

func TestMonths_WindowGrouping(t *testing.T) {
	april := time.Date(2026, 4, 10, 9, 0, 0, 0, time.UTC)
	june := time.Date(2026, 6, 20, 17, 0, 0, 0, time.UTC)
	november := time.Date(2026, 11, 5, 10, 0, 0, 0, time.UTC)

	sections := Months([]models.Event{
		event("june", june, models.StatusPending),
		event("far", november, models.StatusPending),
		event("april", april, models.StatusApproved),
	}, testNow, time.UTC)

	require.Len(t, sections, WindowMonths)
	assert.Equal(t, "March 2026", sections[0].Label)
	assert.Equal(t, "August 2026", sections[5].Label)

	require.Len(t, sections[1].Events, 1)
	assert.Equal(t, "april", sections[1].Events[0].Title)
	require.Len(t, sections[3].Events, 1)
	assert.Equal(t, "june", sections[3].Events[0].Title)

	total := 0
	for _, s := range sections {
		total += len(s.Events)
	}
	assert.Equal(t, 2, total)
}

func TestPlan_ListLayout(t *testing.T) {
	events := []models.Event{
		event("april", time.Date(2026, 4, 10, 9, 0, 0, 0, time.UTC), models.StatusApproved),
		event("june", time.Date(2026, 6, 20, 17, 0, 0, 0, time.UTC), models.StatusPending),
		event("far", time.Date(2026, 11, 5, 10, 0, 0, 0, time.UTC), models.StatusRejected),
	}

	doc := Plan(events, Options{Now: testNow, Layout: LayoutList})
	blocks := allBlocks(doc)

	require.NotEmpty(t, blocks)
	assert.Equal(t, BlockHeader, blocks[0].Kind)
	assert.Equal(t, DefaultTitle, blocks[0].Text)
	assert.Equal(t, BlockMeta, blocks[1].Kind)
	assert.Contains(t, blocks[1].Lines, "Total Events: 3")
	assert.Equal(t, BlockSummary, blocks[2].Kind)

	cardMonth := map[string]string{}
	var titles []string
	empties := 0
	current := ""
	for _, b := range blocks {
		switch b.Kind {
		case BlockMonthTitle:
			current = b.Text
			titles = append(titles, b.Text)
		case BlockEmptyMonth:
			empties++
			assert.Equal(t, EmptyMonthText, b.Text)
		case BlockCard:
			cardMonth[b.Card.Event.Title] = current
		}
	}

	assert.Len(t, titles, WindowMonths)
	assert.Equal(t, 4, empties)
	assert.Equal(t, map[string]string{"april": "April 2026", "june": "June 2026"}, cardMonth)
}

func TestPlan_CalendarLayoutSkipsEmptyMonths(t *testing.T) {
	events := []models.Event{
		event("a", time.Date(2026, 4, 10, 9, 0, 0, 0, time.UTC), models.StatusApproved),
		event("b", time.Date(2026, 4, 10, 15, 0, 0, 0, time.UTC), models.StatusPending),
		event("c", time.Date(2026, 6, 2, 15, 0, 0, 0, time.UTC), models.StatusPending),
	}

	blocks := allBlocks(Plan(events, Options{Now: testNow, Layout: LayoutCalendar}))

	var titles []string
	var calendars []*CalendarMonth
	for i, b := range blocks {
		switch b.Kind {
		case BlockMonthTitle:
			titles = append(titles, b.Text)
			require.Less(t, i+1, len(blocks))
			assert.Equal(t, BlockCalendar, blocks[i+1].Kind)
		case BlockCalendar:
			calendars = append(calendars, b.Calendar)
		case BlockEmptyMonth:
			t.Fatalf("calendar layout must not emit empty months")
		}
	}

	assert.Equal(t, []string{"April 2026", "June 2026"}, titles)
	require.Len(t, calendars, 2)
	assert.Equal(t, 2, calendars[0].Counts[10])
	assert.Equal(t, 1, calendars[1].Counts[2])
}

func TestPlan_PageBreaks(t *testing.T) {
	var events []models.Event
	for i := 0; i < 30; i++ {
		at := time.Date(2026, 4, 1+i%28, 10, 0, 0, 0, time.UTC)
		events = append(events, event(fmt.Sprintf("event %02d", i), at, models.StatusPending))
	}

	doc := Plan(events, Options{Now: testNow, Layout: LayoutList})
	g := doc.Geometry

	require.Greater(t, len(doc.Pages), 1)
	for _, page := range doc.Pages {
		require.NotEmpty(t, page.Blocks)
		for _, b := range page.Blocks {
			assert.LessOrEqual(t, b.Y+b.Height, g.ContentBottom(), "page %d block %v", page.Number, b.Kind)
		}
		if page.Number > 1 {
			assert.Equal(t, g.Margin, page.Blocks[0].Y)
		}
	}

	cards := doc.Cards()
	require.Len(t, cards, 30)
	for i, c := range cards {
		assert.Equal(t, i+1, c.Index)
	}
}

func TestPlan_UpcomingOnly(t *testing.T) {
	events := []models.Event{
		event("earlier this month", time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC), models.StatusApproved),
		event("later this month", time.Date(2026, 3, 20, 9, 0, 0, 0, time.UTC), models.StatusApproved),
	}

	all := Plan(events, Options{Now: testNow}).Cards()
	upcoming := Plan(events, Options{Now: testNow, UpcomingOnly: true}).Cards()

	assert.Len(t, all, 2)
	require.Len(t, upcoming, 1)
	assert.Equal(t, "later this month", upcoming[0].Event.Title)
}

func TestNewCalendarMonth(t *testing.T) {
	feb := NewCalendarMonth(time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), nil, time.UTC)
	require.Len(t, feb.Weeks, 4)
	assert.Equal(t, [7]int{1, 2, 3, 4, 5, 6, 7}, feb.Weeks[0])
	assert.Equal(t, [7]int{22, 23, 24, 25, 26, 27, 28}, feb.Weeks[3])

	apr := NewCalendarMonth(time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), nil, time.UTC)
	require.Len(t, apr.Weeks, 5)
	assert.Equal(t, [7]int{0, 0, 0, 1, 2, 3, 4}, apr.Weeks[0])
	assert.Equal(t, [7]int{26, 27, 28, 29, 30, 0, 0}, apr.Weeks[4])
}

func TestSummarize(t *testing.T) {
	got := Summarize([]models.Event{
		{Status: models.StatusPending},
		{Status: models.StatusApproved},
		{Status: models.StatusPending},
	})
	assert.Equal(t, []StatusCount{
		{Status: models.StatusApproved, Count: 1},
		{Status: models.StatusRejected, Count: 0},
		{Status: models.StatusPending, Count: 2},
	}, got)
}

func TestStatusColor(t *testing.T) {
	assert.Equal(t, RGB{34, 197, 94}, StatusColor(models.StatusApproved))
	assert.Equal(t, RGB{239, 68, 68}, StatusColor(models.StatusRejected))
	assert.Equal(t, RGB{234, 179, 8}, StatusColor(models.StatusPending))
}

func TestParseLayout(t *testing.T) {
	l, err := ParseLayout("Calendar")
	require.NoError(t, err)
	assert.Equal(t, LayoutCalendar, l)

	l, err = ParseLayout("")
	require.NoError(t, err)
	assert.Equal(t, LayoutList, l)

	_, err = ParseLayout("grid")
	assert.Error(t, err)
}

func TestRenderPDF(t *testing.T) {
	events := []models.Event{
		event("Hack Night", time.Date(2026, 3, 16, 18, 30, 0, 0, time.UTC), models.StatusPending),
		event("Café meetup", time.Date(2026, 5, 2, 11, 0, 0, 0, time.UTC), models.StatusApproved),
	}
	events[0].Description = "Overnight build session with mentors from the IEEE student branch and TinkerHub."

	for _, layout := range []Layout{LayoutList, LayoutCalendar} {
		t.Run(layout.String(), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, RenderPDF(&buf, Plan(events, Options{Now: testNow, Layout: layout})))
			assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
			assert.Greater(t, buf.Len(), 500)
		})
	}
}

func TestRenderPDF_NonASCIIText(t *testing.T) {
	events := []models.Event{
		event("Café Night", time.Date(2026, 3, 20, 19, 0, 0, 0, time.UTC), models.StatusApproved),
		event("Tech Fest — 2025", time.Date(2026, 4, 2, 9, 0, 0, 0, time.UTC), models.StatusRejected),
		event("Ñandú coding dojo with a title long enough to wrap across the card width 東京", time.Date(2026, 4, 9, 9, 0, 0, 0, time.UTC), models.StatusPending),
	}
	events[0].Description = "Résumé clinic"
	events[1].Community = "TinkerHub – Kochi"
	events[2].Description = "Straße “quoted” text, emoji 🎉 and kana カタカナ"

	for _, layout := range []Layout{LayoutList, LayoutCalendar} {
		t.Run(layout.String(), func(t *testing.T) {
			var buf bytes.Buffer
			require.NotPanics(t, func() {
				require.NoError(t, RenderPDF(&buf, Plan(events, Options{Now: testNow, Layout: layout})))
			})
			assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
		})
	}
}

func TestRendererWrap_EncodesForCoreFonts(t *testing.T) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	r := &renderer{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	r.font("B", 13)

	assert.Equal(t, []string{"Tech Fest \x97 2025 Caf\xe9"}, r.wrap("Tech Fest — 2025 Café", 200))
	assert.Equal(t, []string{"R\xe9sum\xe9", "clinic"}, r.wrap("Résumé clinic", 30))
	// characters outside cp1252 are replaced, one byte each
	assert.Equal(t, []string{"Tokyo .."}, r.wrap("Tokyo 東京", 200))
}
