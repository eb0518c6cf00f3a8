package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/aarjjun/EventSync/internal/app/models"
	"github.com/xuri/excelize/v2"
)

// SheetName is the single worksheet of the exported workbook
const SheetName = "Events"

// Columns are the header cells of the tabular export, in order
var Columns = []string{
	"Event Name",
	"Community",
	"Type",
	"Start Date & Time",
	"End Date & Time",
	"Status",
	"Description",
	"Suggested Date & Time",
	"Suggestion Reason",
}

// Row is one exported event
type Row struct {
	EventName        string
	Community        string
	Type             string
	Start            string
	End              string
	Status           string
	Description      string
	Suggested        string
	SuggestionReason string
}

func (r Row) values() []interface{} {
	return []interface{}{
		r.EventName, r.Community, r.Type, r.Start, r.End,
		r.Status, r.Description, r.Suggested, r.SuggestionReason,
	}
}

// Rows converts events to export rows, keeping input order.
// With opts.UpcomingOnly only events starting at or after opts.Now are kept.
func Rows(events []models.Event, opts Options) []Row {
	opts = opts.withDefaults()
	selected := Select(events, opts)

	rows := make([]Row, 0, len(selected))
	for _, e := range selected {
		reason := ""
		if e.SuggestionReason != nil {
			reason = *e.SuggestionReason
		}
		rows = append(rows, Row{
			EventName:        e.Title,
			Community:        e.Community,
			Type:             e.Type,
			Start:            FormatTimestamp(e.Datetime, opts.Location),
			End:              formatOptional(e.EndDatetime, opts.Location),
			Status:           strings.ToUpper(string(e.Status)),
			Description:      e.Description,
			Suggested:        formatOptional(e.SuggestedDatetime, opts.Location),
			SuggestionReason: reason,
		})
	}
	return rows
}

// WriteWorkbook writes rows as an xlsx workbook with a single Events sheet
func WriteWorkbook(w io.Writer, rows []Row) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]interface{}, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	lastCol, err := excelize.ColumnNumberToName(len(Columns))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetName, "A1", lastCol+"1", bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}
	if err := f.SetColWidth(SheetName, "A", lastCol, 22); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := row.values()
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
