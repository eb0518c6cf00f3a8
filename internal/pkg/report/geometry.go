package report

// PageGeometry holds every measurement the planner uses, in millimetres
type PageGeometry struct {
	Width              float64
	Height             float64
	Margin             float64
	HeaderHeight       float64
	LineHeight         float64
	MonthTitleHeight   float64
	CardHeight         float64
	CalendarCellHeight float64
	FooterOffset       float64
	SectionGap         float64
}

// A4 is the default portrait page
var A4 = PageGeometry{
	Width:              210,
	Height:             297,
	Margin:             20,
	HeaderHeight:       40,
	LineHeight:         8,
	MonthTitleHeight:   12,
	CardHeight:         46,
	CalendarCellHeight: 12,
	FooterOffset:       10,
	SectionGap:         6,
}

// ContentWidth is the printable width between the side margins
func (g PageGeometry) ContentWidth() float64 {
	return g.Width - 2*g.Margin
}

// ContentBottom is the lowest y a block may reach before the footer area
func (g PageGeometry) ContentBottom() float64 {
	return g.Height - g.FooterOffset - g.Margin
}

// FooterY is the baseline of the page footer
func (g PageGeometry) FooterY() float64 {
	return g.Height - g.FooterOffset
}
