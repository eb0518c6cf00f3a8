package services

import (
	"bytes"
	"context"
	"time"

	"github.com/aarjjun/EventSync/internal/app/models"
	"github.com/aarjjun/EventSync/internal/pkg/metrics"
	"github.com/aarjjun/EventSync/internal/pkg/report"
	"github.com/rs/zerolog"
)

// Report file names offered to the browser
const (
	PDFReportFilename   = "eventsync-report.pdf"
	ExcelReportFilename = "eventsync-report.xlsx"
)

// ReportSettings configures the report header and the timezone of printed dates
type ReportSettings struct {
	Title    string
	Subtitle string
	Location *time.Location
}

// ReportService renders exports from a snapshot of all events
type ReportService struct {
	events   EventStore
	settings ReportSettings
	logger   zerolog.Logger
	now      func() time.Time
}

// NewReportService creates a new ReportService
func NewReportService(events EventStore, settings ReportSettings, logger zerolog.Logger) *ReportService {
	return &ReportService{
		events:   events,
		settings: settings,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *ReportService) options(layout report.Layout, upcoming bool) report.Options {
	return report.Options{
		Now:          s.now(),
		Location:     s.settings.Location,
		UpcomingOnly: upcoming,
		Layout:       layout,
		Title:        s.settings.Title,
		Subtitle:     s.settings.Subtitle,
	}
}

func (s *ReportService) snapshot(ctx context.Context) ([]models.Event, error) {
	events, err := s.events.List(ctx, models.EventFilter{})
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to load events for report")
		return nil, err
	}
	return events, nil
}

// PDF renders the paginated report
func (s *ReportService) PDF(ctx context.Context, layout report.Layout, upcoming bool) ([]byte, error) {
	events, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	doc := report.Plan(events, s.options(layout, upcoming))

	var buf bytes.Buffer
	if err := report.RenderPDF(&buf, doc); err != nil {
		s.logger.Error().Err(err).Str("layout", layout.String()).Msg("Failed to render PDF report")
		return nil, err
	}

	metrics.ReportExports.WithLabelValues("pdf").Inc()
	s.logger.Info().
		Int("events", len(events)).
		Int("pages", len(doc.Pages)).
		Str("layout", layout.String()).
		Msg("PDF report generated")
	return buf.Bytes(), nil
}

// Workbook renders the single-sheet Excel export
func (s *ReportService) Workbook(ctx context.Context, upcoming bool) ([]byte, error) {
	events, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	rows := report.Rows(events, s.options(report.LayoutList, upcoming))

	var buf bytes.Buffer
	if err := report.WriteWorkbook(&buf, rows); err != nil {
		s.logger.Error().Err(err).Msg("Failed to write Excel report")
		return nil, err
	}

	metrics.ReportExports.WithLabelValues("xlsx").Inc()
	s.logger.Info().Int("rows", len(rows)).Msg("Excel report generated")
	return buf.Bytes(), nil
}
