package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/evrenos-dev/vaxtrack/internal/app/models"
)

// ReportRepository handles read-only aggregate queries for reports and
// the dashboard. All cross-entity data is resolved through explicit joins
// on foreign keys.
type ReportRepository struct {
	db *pgxpool.Pool
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *pgxpool.Pool) *ReportRepository {
	return &ReportRepository{
		db: db,
	}
}

// VaccinationReport retrieves report entries matching the filter,
// ordered by vaccination date descending
func (r *ReportRepository) VaccinationReport(ctx context.Context, filter models.ReportFilter) ([]*models.ReportEntry, error) {
	query := `
		SELECT r.id, s.student_id, s.name, s.class_name, s.section, d.vaccine_name, r.date, r.status
		FROM vaccination_records r
		JOIN students s ON s.id = r.student_id
		JOIN vaccination_drives d ON d.id = r.drive_id
		WHERE ($1::text IS NULL OR d.vaccine_name = $1)
		  AND ($2::text IS NULL OR s.class_name = $2)
		  AND ($3::date IS NULL OR r.date >= $3)
		  AND ($4::date IS NULL OR r.date <= $4)
		ORDER BY r.date DESC, r.id DESC
	`

	rows, err := r.db.Query(ctx, query, filter.VaccineName, filter.ClassName, filter.StartDate, filter.EndDate)
	if err != nil {
		return nil, fmt.Errorf("error querying vaccination report: %w", err)
	}
	defer rows.Close()

	var entries []*models.ReportEntry
	for rows.Next() {
		var entry models.ReportEntry
		if err := rows.Scan(
			&entry.RecordID,
			&entry.StudentID,
			&entry.StudentName,
			&entry.ClassName,
			&entry.Section,
			&entry.VaccineName,
			&entry.Date,
			&entry.Status,
		); err != nil {
			return nil, err
		}
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

// DistinctVaccines returns the distinct vaccine names across all drives
func (r *ReportRepository) DistinctVaccines(ctx context.Context) ([]string, error) {
	return r.queryStrings(ctx, `SELECT DISTINCT vaccine_name FROM vaccination_drives ORDER BY vaccine_name`)
}

// DistinctClasses returns the distinct class names across all students
func (r *ReportRepository) DistinctClasses(ctx context.Context) ([]string, error) {
	return r.queryStrings(ctx, `SELECT DISTINCT class_name FROM students ORDER BY class_name`)
}

// Stats computes the dashboard counters
func (r *ReportRepository) Stats(ctx context.Context) (*models.DashboardStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM students),
			(SELECT COUNT(DISTINCT student_id) FROM vaccination_records),
			(SELECT COUNT(*) FROM vaccination_drives),
			(SELECT COUNT(*) FROM vaccination_drives WHERE status = $1)
	`

	var stats models.DashboardStats
	err := r.db.QueryRow(ctx, query, models.DriveStatusCompleted).Scan(
		&stats.TotalStudents,
		&stats.VaccinatedStudents,
		&stats.TotalDrives,
		&stats.CompletedDrives,
	)
	if err != nil {
		return nil, fmt.Errorf("error computing dashboard stats: %w", err)
	}

	return &stats, nil
}

func (r *ReportRepository) queryStrings(ctx context.Context, query string) ([]string, error) {
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying distinct values: %w", err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return nil, err
		}
		values = append(values, value)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return values, nil
}
