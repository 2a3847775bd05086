package services

import (
	"context"
	"fmt"
	"io"
	"math"

	"github.com/evrenos-dev/vaxtrack/internal/app/models"
	"github.com/evrenos-dev/vaxtrack/internal/app/models/dto"
	"github.com/evrenos-dev/vaxtrack/internal/pkg/csvutil"
	"github.com/evrenos-dev/vaxtrack/internal/pkg/helpers"
)

// reportCSVHeader is the column order of the downloadable report
var reportCSVHeader = []string{"student_id", "student_name", "class", "section", "vaccine", "date", "status"}

// ReportStore is the persistence contract required by ReportService
type ReportStore interface {
	VaccinationReport(ctx context.Context, filter models.ReportFilter) ([]*models.ReportEntry, error)
	DistinctVaccines(ctx context.Context) ([]string, error)
	DistinctClasses(ctx context.Context) ([]string, error)
	Stats(ctx context.Context) (*models.DashboardStats, error)
}

// ReportService produces vaccination reports and dashboard aggregates
type ReportService struct {
	reports ReportStore
}

// NewReportService creates a new report service instance
func NewReportService(reports ReportStore) *ReportService {
	return &ReportService{
		reports: reports,
	}
}

// VaccinationReport builds the filtered vaccination report
func (s *ReportService) VaccinationReport(ctx context.Context, filter models.ReportFilter) (*dto.VaccinationReportResponse, error) {
	entries, err := s.reports.VaccinationReport(ctx, filter)
	if err != nil {
		return nil, err
	}

	response := &dto.VaccinationReportResponse{
		Count:   len(entries),
		Records: make([]dto.VaccinationReportRow, 0, len(entries)),
	}
	for _, entry := range entries {
		response.Records = append(response.Records, dto.VaccinationReportRow{
			RecordID:        entry.RecordID,
			StudentID:       entry.StudentID,
			StudentName:     entry.StudentName,
			ClassName:       entry.ClassName,
			Section:         entry.Section,
			VaccineName:     entry.VaccineName,
			VaccinationDate: entry.Date.Format(helpers.DateFormat),
			Status:          string(entry.Status),
		})
	}

	return response, nil
}

// WriteVaccinationReportCSV streams the filtered report as CSV
func (s *ReportService) WriteVaccinationReportCSV(ctx context.Context, filter models.ReportFilter, w io.Writer) error {
	entries, err := s.reports.VaccinationReport(ctx, filter)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, []string{
			entry.StudentID,
			entry.StudentName,
			entry.ClassName,
			entry.Section,
			entry.VaccineName,
			entry.Date.Format(helpers.DateFormat),
			string(entry.Status),
		})
	}

	return csvutil.Write(w, reportCSVHeader, rows)
}

// FilterOptions returns the values available for report filtering
func (s *ReportService) FilterOptions(ctx context.Context) (vaccines, classes []string, err error) {
	vaccines, err = s.reports.DistinctVaccines(ctx)
	if err != nil {
		return nil, nil, err
	}

	classes, err = s.reports.DistinctClasses(ctx)
	if err != nil {
		return nil, nil, err
	}

	return vaccines, classes, nil
}

// DashboardStats computes the aggregate counters for the dashboard
func (s *ReportService) DashboardStats(ctx context.Context) (*dto.DashboardStatsResponse, error) {
	stats, err := s.reports.Stats(ctx)
	if err != nil {
		return nil, err
	}

	var percentage float64
	if stats.TotalStudents > 0 {
		percentage = float64(stats.VaccinatedStudents) / float64(stats.TotalStudents) * 100
		percentage = math.Round(percentage*100) / 100
	}

	return &dto.DashboardStatsResponse{
		TotalStudents:         stats.TotalStudents,
		VaccinatedStudents:    stats.VaccinatedStudents,
		VaccinationPercentage: percentage,
		TotalDrives:           stats.TotalDrives,
		CompletedDrives:       stats.CompletedDrives,
	}, nil
}

// ReportFileName returns the attachment name for a CSV download
func ReportFileName() string {
	return fmt.Sprintf("vaccination_report_%s.csv", helpers.Today().Format(helpers.DateFormat))
}
