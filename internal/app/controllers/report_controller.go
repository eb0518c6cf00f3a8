package controllers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/aarjjun/EventSync/internal/app/models/dto"
	"github.com/aarjjun/EventSync/internal/app/services"
	"github.com/aarjjun/EventSync/internal/middleware"
	"github.com/aarjjun/EventSync/internal/pkg/report"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Content types of the report downloads
const (
	pdfContentType  = "application/pdf"
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// ReportService renders event exports
type ReportService interface {
	PDF(ctx context.Context, layout report.Layout, upcoming bool) ([]byte, error)
	Workbook(ctx context.Context, upcoming bool) ([]byte, error)
}

// ReportController serves report downloads
type ReportController struct {
	reportService ReportService
	logger        zerolog.Logger
}

// NewReportController creates a new ReportController
func NewReportController(reportService ReportService, logger zerolog.Logger) *ReportController {
	return &ReportController{
		reportService: reportService,
		logger:        logger,
	}
}

// PDF downloads the paginated event report
// @Summary Export events as PDF
// @Tags reports
// @Produce application/pdf
// @Security BearerAuth
// @Param layout query string false "list or calendar"
// @Param upcoming query bool false "only events starting now or later"
// @Success 200 {file} file
// @Failure 400 {object} dto.ErrorResponse "Unknown layout"
// @Failure 500 {object} dto.ErrorResponse "Rendering failed"
// @Router /reports/events.pdf [get]
func (c *ReportController) PDF(ctx *gin.Context) {
	var query dto.ReportQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	layout, err := report.ParseLayout(query.Layout)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, err.Error()).WithField("layout")))
		return
	}

	body, err := c.reportService.PDF(ctx.Request.Context(), layout, query.Upcoming)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	attachment(ctx, services.PDFReportFilename, pdfContentType, body)
}

// Workbook downloads the Excel export
// @Summary Export events as Excel
// @Tags reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param upcoming query bool false "only events starting now or later"
// @Success 200 {file} file
// @Failure 500 {object} dto.ErrorResponse "Rendering failed"
// @Router /reports/events.xlsx [get]
func (c *ReportController) Workbook(ctx *gin.Context) {
	var query dto.ReportQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	body, err := c.reportService.Workbook(ctx.Request.Context(), query.Upcoming)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	attachment(ctx, services.ExcelReportFilename, xlsxContentType, body)
}

func attachment(ctx *gin.Context, filename, contentType string, body []byte) {
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	ctx.Data(http.StatusOK, contentType, body)
}
