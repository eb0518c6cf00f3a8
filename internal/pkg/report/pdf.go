package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/aarjjun/EventSync/internal/app/models"
	"github.com/go-pdf/fpdf"
)

// RGB is a drawing colour
type RGB struct{ R, G, B int }

var (
	colorHeader   = RGB{59, 130, 246}
	colorBody     = RGB{33, 37, 41}
	colorCard     = RGB{248, 250, 252}
	colorMuted    = RGB{107, 114, 128}
	colorGrid     = RGB{226, 232, 240}
	colorWhite    = RGB{255, 255, 255}
	colorApproved = RGB{34, 197, 94}
	colorRejected = RGB{239, 68, 68}
	colorPending  = RGB{234, 179, 8}
)

// StatusColor returns the badge colour of a status
func StatusColor(s models.EventStatus) RGB {
	switch s {
	case models.StatusApproved:
		return colorApproved
	case models.StatusRejected:
		return colorRejected
	default:
		return colorPending
	}
}

var weekdays = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

type renderer struct {
	pdf *fpdf.Fpdf
	doc Document
	g   PageGeometry
	tr  func(string) string
}

func (r *renderer) fill(c RGB) { r.pdf.SetFillColor(c.R, c.G, c.B) }
func (r *renderer) text(c RGB) { r.pdf.SetTextColor(c.R, c.G, c.B) }
func (r *renderer) draw(c RGB) { r.pdf.SetDrawColor(c.R, c.G, c.B) }
func (r *renderer) font(style string, size float64) {
	r.pdf.SetFont("Helvetica", style, size)
}

// wrap splits s into lines no wider than w, each already encoded for the core fonts.
// SplitText indexes the font width table by rune, so the cp1252 bytes are widened to
// runes for the split and narrowed back afterwards.
func (r *renderer) wrap(s string, w float64) []string {
	encoded := r.tr(s)
	wide := make([]rune, len(encoded))
	for i := 0; i < len(encoded); i++ {
		wide[i] = rune(encoded[i])
	}

	lines := r.pdf.SplitText(string(wide), w)
	for i, line := range lines {
		narrow := make([]byte, 0, len(line))
		for _, c := range line {
			narrow = append(narrow, byte(c))
		}
		lines[i] = string(narrow)
	}
	return lines
}

// RenderPDF draws doc and writes the PDF bytes to w.
// Footers are stamped after all pages exist so the total page count is known.
func RenderPDF(w io.Writer, doc Document) error {
	g := doc.Geometry
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: g.Width, Ht: g.Height},
	})
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(g.Margin, g.Margin, g.Margin)
	pdf.SetTitle(doc.Title, true)

	r := &renderer{pdf: pdf, doc: doc, g: g, tr: pdf.UnicodeTranslatorFromDescriptor("")}

	for _, page := range doc.Pages {
		pdf.AddPage()
		for _, b := range page.Blocks {
			r.block(b)
		}
	}

	total := pdf.PageCount()
	for i := 1; i <= total; i++ {
		pdf.SetPage(i)
		r.footer(i, total)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}

func (r *renderer) block(b Block) {
	switch b.Kind {
	case BlockHeader:
		r.header(b)
	case BlockMeta:
		r.meta(b)
	case BlockSummary:
		r.summary(b)
	case BlockMonthTitle:
		r.font("B", 16)
		r.text(colorHeader)
		r.pdf.Text(r.g.Margin, b.Y+b.Height-3, r.tr(b.Text))
		r.draw(colorHeader)
		r.pdf.Line(r.g.Margin, b.Y+b.Height, r.g.Width-r.g.Margin, b.Y+b.Height)
	case BlockEmptyMonth:
		r.font("I", 11)
		r.text(colorMuted)
		r.pdf.Text(r.g.Margin+5, b.Y+r.g.LineHeight-2, r.tr(b.Text))
	case BlockCalendar:
		r.calendar(b)
	case BlockCard:
		r.card(b)
	}
}

func (r *renderer) header(b Block) {
	r.fill(colorHeader)
	r.pdf.Rect(0, 0, r.g.Width, b.Height, "F")

	r.text(colorWhite)
	r.font("B", 24)
	r.pdf.SetXY(0, b.Height*0.25)
	r.pdf.CellFormat(r.g.Width, 10, r.tr(b.Text), "", 1, "C", false, 0, "")
	if len(b.Lines) > 0 {
		r.font("", 14)
		r.pdf.SetXY(0, b.Height*0.55)
		r.pdf.CellFormat(r.g.Width, 8, r.tr(b.Lines[0]), "", 1, "C", false, 0, "")
	}
}

func (r *renderer) meta(b Block) {
	r.text(colorBody)
	r.font("", 12)
	for i, line := range b.Lines {
		r.pdf.Text(r.g.Margin, b.Y+float64(i+1)*r.g.LineHeight-2, r.tr(line))
	}
}

func (r *renderer) summary(b Block) {
	r.text(colorBody)
	r.font("B", 12)
	r.pdf.Text(r.g.Margin, b.Y+r.g.LineHeight-2, r.tr(b.Text))

	r.font("", 12)
	step := r.g.ContentWidth() / float64(len(models.EventStatuses))
	for i, sc := range b.Summary {
		r.text(StatusColor(sc.Status))
		label := strings.ToUpper(string(sc.Status)) + ": " + strconv.Itoa(sc.Count)
		r.pdf.Text(r.g.Margin+float64(i)*step, b.Y+2*r.g.LineHeight-2, r.tr(label))
	}
	r.text(colorBody)
}

func (r *renderer) calendar(b Block) {
	cal := b.Calendar
	cellW := r.g.ContentWidth() / 7
	x0 := r.g.Margin

	r.font("B", 9)
	r.text(colorMuted)
	for i, name := range weekdays {
		r.pdf.SetXY(x0+float64(i)*cellW, b.Y)
		r.pdf.CellFormat(cellW, r.g.LineHeight, name, "", 0, "C", false, 0, "")
	}

	r.draw(colorGrid)
	y := b.Y + r.g.LineHeight
	for _, week := range cal.Weeks {
		for col, day := range week {
			x := x0 + float64(col)*cellW
			r.pdf.Rect(x, y, cellW, r.g.CalendarCellHeight, "D")
			if day == 0 {
				continue
			}
			r.font("", 8)
			r.text(colorBody)
			r.pdf.Text(x+1.5, y+3.5, strconv.Itoa(day))

			if n := cal.Counts[day]; n > 0 {
				radius := r.g.CalendarCellHeight / 4
				cx, cy := x+cellW/2, y+r.g.CalendarCellHeight/2+1
				r.fill(colorHeader)
				r.pdf.Circle(cx, cy, radius, "F")
				r.font("B", 8)
				r.text(colorWhite)
				label := strconv.Itoa(n)
				r.pdf.Text(cx-r.pdf.GetStringWidth(label)/2, cy+1.2, label)
			}
		}
		y += r.g.CalendarCellHeight
	}
	r.text(colorBody)
}

func (r *renderer) card(b Block) {
	c := b.Card
	e := c.Event
	x := r.g.Margin
	w := r.g.ContentWidth()
	lh := r.g.LineHeight * 0.75

	r.fill(colorCard)
	r.pdf.Rect(x, b.Y, w, b.Height, "F")

	// title
	r.text(colorBody)
	r.font("B", 13)
	titleLines := r.wrap(e.Title, w-75)
	title := ""
	if len(titleLines) > 0 {
		title = titleLines[0]
	}
	r.pdf.Text(x+4, b.Y+9, strconv.Itoa(c.Index)+".")
	r.pdf.Text(x+14, b.Y+9, title)

	// status badge
	badge := StatusColor(e.Status)
	r.fill(badge)
	r.pdf.Rect(x+w-50, b.Y+3, 46, 9, "F")
	r.text(colorWhite)
	r.font("B", 9)
	r.pdf.SetXY(x+w-50, b.Y+3)
	r.pdf.CellFormat(46, 9, strings.ToUpper(string(e.Status)), "", 0, "C", false, 0, "")

	// details
	r.text(colorBody)
	r.font("", 10)
	y := b.Y + 9 + lh + 2
	details := []string{
		"Date: " + FormatTimestamp(e.Datetime, r.doc.Location),
		"Community: " + e.Community,
		"Type: " + e.Type,
	}
	for _, line := range details {
		r.pdf.Text(x+14, y, r.tr(line))
		y += lh
	}
	if e.Description != "" {
		desc := r.wrap("Description: "+e.Description, w-20)
		if len(desc) > 2 {
			desc = desc[:2]
		}
		for _, line := range desc {
			r.pdf.Text(x+14, y, line)
			y += lh
		}
	}
}

func (r *renderer) footer(page, total int) {
	r.font("", 8)
	r.text(colorMuted)
	y := r.g.FooterY()

	label := fmt.Sprintf("Page %d of %d", page, total)
	r.pdf.Text(r.g.Width-r.g.Margin-r.pdf.GetStringWidth(label), y, label)
	r.pdf.Text(r.g.Margin, y, r.tr(r.doc.Footer))
}
