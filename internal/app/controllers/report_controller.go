package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/evrenos-dev/vaxtrack/internal/app/models"
	"github.com/evrenos-dev/vaxtrack/internal/app/models/dto"
	"github.com/evrenos-dev/vaxtrack/internal/app/services"
	"github.com/evrenos-dev/vaxtrack/internal/middleware"
	"github.com/evrenos-dev/vaxtrack/internal/pkg/apperrors"
	"github.com/evrenos-dev/vaxtrack/internal/pkg/helpers"
)

// ReportController handles report and dashboard endpoints
type ReportController struct {
	reportService *services.ReportService
	driveService  *services.DriveService
}

// NewReportController creates a new ReportController
func NewReportController(reportService *services.ReportService, driveService *services.DriveService) *ReportController {
	return &ReportController{
		reportService: reportService,
		driveService:  driveService,
	}
}

// parseReportFilter reads the shared report query parameters
func parseReportFilter(ctx *gin.Context) (models.ReportFilter, error) {
	var filter models.ReportFilter

	if vaccine := ctx.Query("vaccine"); vaccine != "" {
		filter.VaccineName = &vaccine
	}
	if class := ctx.Query("class"); class != "" {
		filter.ClassName = &class
	}
	if from := ctx.Query("from"); from != "" {
		date, err := helpers.ParseDate(from)
		if err != nil {
			return filter, apperrors.NewValidationError("from must be in YYYY-MM-DD format")
		}
		filter.StartDate = &date
	}
	if to := ctx.Query("to"); to != "" {
		date, err := helpers.ParseDate(to)
		if err != nil {
			return filter, apperrors.NewValidationError("to must be in YYYY-MM-DD format")
		}
		filter.EndDate = &date
	}

	return filter, nil
}

// GetVaccinationReport handles the JSON vaccination report
// @Summary Vaccination report
// @Description Returns vaccination records joined with student and drive data, filterable by vaccine, class and date range
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param vaccine query string false "Filter by vaccine name"
// @Param class query string false "Filter by class name"
// @Param from query string false "Earliest vaccination date (YYYY-MM-DD)"
// @Param to query string false "Latest vaccination date (YYYY-MM-DD)"
// @Success 200 {object} dto.APIResponse{data=dto.VaccinationReportResponse} "Report generated"
// @Router /reports/vaccinations [get]
func (c *ReportController) GetVaccinationReport(ctx *gin.Context) {
	filter, err := parseReportFilter(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	report, err := c.reportService.VaccinationReport(ctx, filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(report))
}

// DownloadVaccinationReport handles the CSV report download
// @Summary Download vaccination report as CSV
// @Tags reports
// @Produce text/csv
// @Security BearerAuth
// @Param vaccine query string false "Filter by vaccine name"
// @Param class query string false "Filter by class name"
// @Param from query string false "Earliest vaccination date (YYYY-MM-DD)"
// @Param to query string false "Latest vaccination date (YYYY-MM-DD)"
// @Success 200 {string} string "CSV content"
// @Router /reports/vaccinations/download [get]
func (c *ReportController) DownloadVaccinationReport(ctx *gin.Context) {
	filter, err := parseReportFilter(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Header("Content-Type", "text/csv")
	ctx.Header("Content-Disposition", "attachment; filename="+services.ReportFileName())

	if err := c.reportService.WriteVaccinationReportCSV(ctx, filter, ctx.Writer); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
}

// GetFilterOptions handles listing the available report filter values
// @Summary Report filter options
// @Description Returns the distinct vaccine and class names available for filtering
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse "Filter options retrieved"
// @Router /reports/filters [get]
func (c *ReportController) GetFilterOptions(ctx *gin.Context) {
	vaccines, classes, err := c.reportService.FilterOptions(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(gin.H{
		"vaccines": vaccines,
		"classes":  classes,
	}))
}

// GetDashboardStats handles the dashboard aggregate counters
// @Summary Dashboard statistics
// @Description Returns student, vaccination and drive counters for the dashboard
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.DashboardStatsResponse} "Statistics retrieved"
// @Router /dashboard/stats [get]
func (c *ReportController) GetDashboardStats(ctx *gin.Context) {
	stats, err := c.reportService.DashboardStats(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(stats))
}

// GetUpcomingDrives handles the upcoming drives dashboard view
// @Summary Upcoming vaccination drives
// @Description Returns drives scheduled within the next 30 days
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.UpcomingDrivesResponse} "Upcoming drives retrieved"
// @Router /dashboard/upcoming-drives [get]
func (c *ReportController) GetUpcomingDrives(ctx *gin.Context) {
	drives, err := c.driveService.UpcomingDrives(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.UpcomingDrivesResponse{
		Drives: dto.FromDrives(drives),
	}))
}
