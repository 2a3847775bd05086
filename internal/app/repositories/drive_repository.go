package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/evrenos-dev/vaxtrack/internal/app/models"
	"github.com/evrenos-dev/vaxtrack/internal/pkg/apperrors"
	"github.com/evrenos-dev/vaxtrack/internal/pkg/dberrors"
)

// DriveRepository handles database operations for vaccination drives
type DriveRepository struct {
	db *pgxpool.Pool
}

// NewDriveRepository creates a new drive repository
func NewDriveRepository(db *pgxpool.Pool) *DriveRepository {
	return &DriveRepository{
		db: db,
	}
}

// Create inserts a new drive. used_doses always starts at zero.
func (r *DriveRepository) Create(ctx context.Context, drive *models.VaccinationDrive) error {
	query := `
		INSERT INTO vaccination_drives (vaccine_name, date, available_doses, used_doses, applicable_classes, status)
		VALUES ($1, $2, $3, 0, $4, $5)
		RETURNING id, used_doses, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		drive.VaccineName,
		drive.Date,
		drive.AvailableDoses,
		drive.ApplicableClasses,
		drive.Status,
	).Scan(&drive.ID, &drive.UsedDoses, &drive.CreatedAt, &drive.UpdatedAt)

	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "uq_vaccination_drives_active_date") {
			return apperrors.ErrDriveDateTaken
		}
		return fmt.Errorf("error creating vaccination drive: %w", err)
	}

	return nil
}

// GetByID retrieves a drive by ID
func (r *DriveRepository) GetByID(ctx context.Context, id int64) (*models.VaccinationDrive, error) {
	query := `
		SELECT id, vaccine_name, date, available_doses, used_doses, applicable_classes, status, created_at, updated_at
		FROM vaccination_drives
		WHERE id = $1
	`

	var drive models.VaccinationDrive
	err := r.db.QueryRow(ctx, query, id).Scan(
		&drive.ID,
		&drive.VaccineName,
		&drive.Date,
		&drive.AvailableDoses,
		&drive.UsedDoses,
		&drive.ApplicableClasses,
		&drive.Status,
		&drive.CreatedAt,
		&drive.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrDriveNotFound
		}
		return nil, fmt.Errorf("error retrieving vaccination drive: %w", err)
	}

	return &drive, nil
}

// ExistsOnDate reports whether a non-cancelled drive other than excludeID
// is already scheduled on the given calendar date.
func (r *DriveRepository) ExistsOnDate(ctx context.Context, date time.Time, excludeID int64) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM vaccination_drives
			WHERE date = $1 AND status <> $2 AND id <> $3
		)
	`

	var exists bool
	err := r.db.QueryRow(ctx, query, date, models.DriveStatusCancelled, excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking drive date: %w", err)
	}

	return exists, nil
}

// Update mutates a drive's editable fields. The used_doses counter is owned
// by the record ledger and is deliberately not part of this statement.
func (r *DriveRepository) Update(ctx context.Context, drive *models.VaccinationDrive) error {
	query := `
		UPDATE vaccination_drives
		SET vaccine_name = $1, date = $2, available_doses = $3, applicable_classes = $4, status = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING updated_at
	`

	err := r.db.QueryRow(ctx, query,
		drive.VaccineName,
		drive.Date,
		drive.AvailableDoses,
		drive.ApplicableClasses,
		drive.Status,
		drive.ID,
	).Scan(&drive.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrDriveNotFound
		}
		if dberrors.IsDuplicateConstraintError(err, "uq_vaccination_drives_active_date") {
			return apperrors.ErrDriveDateTaken
		}
		return fmt.Errorf("error updating vaccination drive: %w", err)
	}

	return nil
}

// UpdateStatus sets only the drive status, used by the status reconciler
func (r *DriveRepository) UpdateStatus(ctx context.Context, id int64, status models.DriveStatus) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE vaccination_drives SET status = $1, updated_at = NOW() WHERE id = $2`,
		status, id)
	if err != nil {
		return fmt.Errorf("error updating drive status: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperrors.ErrDriveNotFound
	}

	return nil
}

// Delete removes a drive
func (r *DriveRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM vaccination_drives WHERE id = $1`, id)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err, "vaccination_records_drive_id_fkey") {
			return apperrors.ErrDriveHasRecords
		}
		return fmt.Errorf("error deleting vaccination drive: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperrors.ErrDriveNotFound
	}

	return nil
}

// List retrieves drives matching the filter ordered by date descending,
// with total count for pagination
func (r *DriveRepository) List(ctx context.Context, filter models.DriveFilter) ([]*models.VaccinationDrive, int64, error) {
	where := ""
	args := []interface{}{}

	if filter.Status != nil {
		where = `WHERE status = $1`
		args = append(args, *filter.Status)
	}

	countQuery := `SELECT COUNT(*) FROM vaccination_drives ` + where

	var total int64
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting drives: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, vaccine_name, date, available_doses, used_doses, applicable_classes, status, created_at, updated_at
		FROM vaccination_drives
		%s
		ORDER BY date DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)+1, len(args)+2)
	args = append(args, filter.Limit, filter.Offset)

	return r.queryDrives(ctx, query, args, &total)
}

// ListNonCancelled retrieves every drive the reconciler may touch
func (r *DriveRepository) ListNonCancelled(ctx context.Context) ([]*models.VaccinationDrive, error) {
	query := `
		SELECT id, vaccine_name, date, available_doses, used_doses, applicable_classes, status, created_at, updated_at
		FROM vaccination_drives
		WHERE status <> $1
		ORDER BY date
	`

	drives, _, err := r.queryDrives(ctx, query, []interface{}{models.DriveStatusCancelled}, nil)
	return drives, err
}

// ListScheduledBetween retrieves scheduled drives within the date range,
// ordered by date ascending
func (r *DriveRepository) ListScheduledBetween(ctx context.Context, from, to time.Time) ([]*models.VaccinationDrive, error) {
	query := `
		SELECT id, vaccine_name, date, available_doses, used_doses, applicable_classes, status, created_at, updated_at
		FROM vaccination_drives
		WHERE date >= $1 AND date <= $2 AND status = $3
		ORDER BY date
	`

	drives, _, err := r.queryDrives(ctx, query, []interface{}{from, to, models.DriveStatusScheduled}, nil)
	return drives, err
}

// CountRecords returns the number of vaccination records referencing the drive
func (r *DriveRepository) CountRecords(ctx context.Context, driveID int64) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM vaccination_records WHERE drive_id = $1`, driveID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting drive records: %w", err)
	}
	return count, nil
}

func (r *DriveRepository) queryDrives(ctx context.Context, query string, args []interface{}, total *int64) ([]*models.VaccinationDrive, int64, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing drives: %w", err)
	}
	defer rows.Close()

	var drives []*models.VaccinationDrive
	for rows.Next() {
		var drive models.VaccinationDrive
		if err := rows.Scan(
			&drive.ID,
			&drive.VaccineName,
			&drive.Date,
			&drive.AvailableDoses,
			&drive.UsedDoses,
			&drive.ApplicableClasses,
			&drive.Status,
			&drive.CreatedAt,
			&drive.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		drives = append(drives, &drive)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var count int64
	if total != nil {
		count = *total
	}
	return drives, count, nil
}
