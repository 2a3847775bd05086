package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/evrenos-dev/vaxtrack/internal/app/models"
	"github.com/evrenos-dev/vaxtrack/internal/db"
	"github.com/evrenos-dev/vaxtrack/internal/pkg/apperrors"
	"github.com/evrenos-dev/vaxtrack/internal/pkg/dberrors"
)

// RecordRepository handles database operations for vaccination records.
// It is the only component that mutates a drive's used_doses counter.
type RecordRepository struct {
	db *pgxpool.Pool
}

// NewRecordRepository creates a new record repository
func NewRecordRepository(db *pgxpool.Pool) *RecordRepository {
	return &RecordRepository{
		db: db,
	}
}

// Create inserts a vaccination record and increments the owning drive's
// used_doses counter in a single transaction. The drive row is locked for
// the duration, so the capacity, eligibility and uniqueness checks are
// evaluated against a stable view: two concurrent creations against a
// drive with one remaining dose cannot both pass the capacity check.
func (r *RecordRepository) Create(ctx context.Context, record *models.VaccinationRecord) error {
	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		var drive models.VaccinationDrive
		err := tx.QueryRow(ctx, `
			SELECT id, available_doses, used_doses, applicable_classes, status
			FROM vaccination_drives
			WHERE id = $1
			FOR UPDATE
		`, record.DriveID).Scan(
			&drive.ID,
			&drive.AvailableDoses,
			&drive.UsedDoses,
			&drive.ApplicableClasses,
			&drive.Status,
		)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrDriveNotFound
			}
			return fmt.Errorf("error locking drive: %w", err)
		}

		var className string
		err = tx.QueryRow(ctx, `SELECT class_name FROM students WHERE id = $1`, record.StudentID).Scan(&className)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrStudentNotFound
			}
			return fmt.Errorf("error resolving student: %w", err)
		}

		if drive.UsedDoses >= drive.AvailableDoses {
			return apperrors.ErrNoDosesAvailable
		}

		if !drive.AppliesToClass(className) {
			return apperrors.ErrClassNotApplicable
		}

		var exists bool
		err = tx.QueryRow(ctx, `
			SELECT EXISTS(SELECT 1 FROM vaccination_records WHERE student_id = $1 AND drive_id = $2)
		`, record.StudentID, record.DriveID).Scan(&exists)
		if err != nil {
			return fmt.Errorf("error checking existing record: %w", err)
		}
		if exists {
			return apperrors.ErrStudentAlreadyVaccinated
		}

		err = tx.QueryRow(ctx, `
			INSERT INTO vaccination_records (student_id, drive_id, date, status)
			VALUES ($1, $2, $3, $4)
			RETURNING id, created_at, updated_at
		`, record.StudentID, record.DriveID, record.Date, record.Status).Scan(
			&record.ID, &record.CreatedAt, &record.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("error inserting record: %w", err)
		}

		_, err = tx.Exec(ctx, `
			UPDATE vaccination_drives SET used_doses = used_doses + 1, updated_at = NOW() WHERE id = $1
		`, record.DriveID)
		if err != nil {
			return fmt.Errorf("error incrementing used doses: %w", err)
		}

		return nil
	})

	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "vaccination_records_student_id_drive_id_key") {
			return apperrors.ErrStudentAlreadyVaccinated
		}
		return err
	}

	return nil
}

// Delete removes a record and decrements the owning drive's used_doses
// counter, floored at zero, in a single transaction.
func (r *RecordRepository) Delete(ctx context.Context, id int64) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		var driveID int64
		err := tx.QueryRow(ctx, `SELECT drive_id FROM vaccination_records WHERE id = $1`, id).Scan(&driveID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrRecordNotFound
			}
			return fmt.Errorf("error resolving record: %w", err)
		}

		_, err = tx.Exec(ctx, `
			UPDATE vaccination_drives
			SET used_doses = GREATEST(used_doses - 1, 0), updated_at = NOW()
			WHERE id = $1
		`, driveID)
		if err != nil {
			return fmt.Errorf("error decrementing used doses: %w", err)
		}

		if _, err := tx.Exec(ctx, `DELETE FROM vaccination_records WHERE id = $1`, id); err != nil {
			return fmt.Errorf("error deleting record: %w", err)
		}

		return nil
	})
}

// GetByID retrieves a record with joined student and vaccine names
func (r *RecordRepository) GetByID(ctx context.Context, id int64) (*models.VaccinationRecord, error) {
	query := `
		SELECT r.id, r.student_id, r.drive_id, r.date, r.status, r.created_at, r.updated_at,
		       s.name, d.vaccine_name
		FROM vaccination_records r
		JOIN students s ON s.id = r.student_id
		JOIN vaccination_drives d ON d.id = r.drive_id
		WHERE r.id = $1
	`

	var record models.VaccinationRecord
	err := r.db.QueryRow(ctx, query, id).Scan(
		&record.ID,
		&record.StudentID,
		&record.DriveID,
		&record.Date,
		&record.Status,
		&record.CreatedAt,
		&record.UpdatedAt,
		&record.StudentName,
		&record.VaccineName,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrRecordNotFound
		}
		return nil, fmt.Errorf("error retrieving record: %w", err)
	}

	return &record, nil
}

// List retrieves records matching the filter with joined display names,
// ordered by date descending
func (r *RecordRepository) List(ctx context.Context, filter models.RecordFilter) ([]*models.VaccinationRecord, error) {
	query := `
		SELECT r.id, r.student_id, r.drive_id, r.date, r.status, r.created_at, r.updated_at,
		       s.name, d.vaccine_name
		FROM vaccination_records r
		JOIN students s ON s.id = r.student_id
		JOIN vaccination_drives d ON d.id = r.drive_id
		WHERE ($1::bigint IS NULL OR r.student_id = $1)
		  AND ($2::bigint IS NULL OR r.drive_id = $2)
		ORDER BY r.date DESC, r.id DESC
	`

	rows, err := r.db.Query(ctx, query, filter.StudentID, filter.DriveID)
	if err != nil {
		return nil, fmt.Errorf("error listing records: %w", err)
	}
	defer rows.Close()

	var records []*models.VaccinationRecord
	for rows.Next() {
		var record models.VaccinationRecord
		if err := rows.Scan(
			&record.ID,
			&record.StudentID,
			&record.DriveID,
			&record.Date,
			&record.Status,
			&record.CreatedAt,
			&record.UpdatedAt,
			&record.StudentName,
			&record.VaccineName,
		); err != nil {
			return nil, err
		}
		records = append(records, &record)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}
