package services

import (
	"context"
	"strings"
	"time"

	"github.com/evrenos-dev/vaxtrack/internal/app/models"
	"github.com/evrenos-dev/vaxtrack/internal/pkg/apperrors"
	"github.com/evrenos-dev/vaxtrack/internal/pkg/helpers"
	"github.com/evrenos-dev/vaxtrack/internal/pkg/logger"
	"github.com/evrenos-dev/vaxtrack/internal/pkg/validation"
)

// UpcomingWindowDays is how far ahead the upcoming-drives view looks
const UpcomingWindowDays = 30

// DriveStore is the persistence contract required by DriveService
type DriveStore interface {
	Create(ctx context.Context, drive *models.VaccinationDrive) error
	GetByID(ctx context.Context, id int64) (*models.VaccinationDrive, error)
	ExistsOnDate(ctx context.Context, date time.Time, excludeID int64) (bool, error)
	Update(ctx context.Context, drive *models.VaccinationDrive) error
	UpdateStatus(ctx context.Context, id int64, status models.DriveStatus) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter models.DriveFilter) ([]*models.VaccinationDrive, int64, error)
	ListNonCancelled(ctx context.Context) ([]*models.VaccinationDrive, error)
	ListScheduledBetween(ctx context.Context, from, to time.Time) ([]*models.VaccinationDrive, error)
	CountRecords(ctx context.Context, driveID int64) (int64, error)
}

// DriveUpdate carries the mutable fields of a drive for partial updates.
// Nil fields are left unchanged.
type DriveUpdate struct {
	VaccineName       *string
	Date              *time.Time
	AvailableDoses    *int
	ApplicableClasses *[]string
	Status            *models.DriveStatus
}

// DriveService handles vaccination drive scheduling operations
type DriveService struct {
	drives DriveStore
}

// NewDriveService creates a new drive service instance
func NewDriveService(drives DriveStore) *DriveService {
	return &DriveService{
		drives: drives,
	}
}

// validateClasses checks every entry of the applicable class set
func validateClasses(classes []string) error {
	for _, class := range classes {
		if !validation.IsValidClassName(strings.TrimSpace(class)) {
			return apperrors.NewValidationError("unknown class name: " + class)
		}
	}
	return nil
}

// checkLeadTime enforces the minimum scheduling notice for a drive date
func checkLeadTime(date time.Time) error {
	earliest := helpers.Today().AddDate(0, 0, models.MinimumLeadDays)
	if date.Before(earliest) {
		return apperrors.ErrDriveLeadTime
	}
	return nil
}

// checkDateAvailable rejects dates already taken by another active drive
func (s *DriveService) checkDateAvailable(ctx context.Context, date time.Time, excludeID int64) error {
	taken, err := s.drives.ExistsOnDate(ctx, date, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return apperrors.ErrDriveDateTaken
	}
	return nil
}

// CreateDrive schedules a new vaccination drive. The date must be at least
// MinimumLeadDays in the future and free of other non-cancelled drives.
func (s *DriveService) CreateDrive(ctx context.Context, vaccineName string, date time.Time, availableDoses int, applicableClasses []string) (*models.VaccinationDrive, error) {
	if strings.TrimSpace(vaccineName) == "" {
		return nil, apperrors.NewValidationError("vaccine name cannot be empty")
	}
	if availableDoses <= 0 {
		return nil, apperrors.NewValidationError("available doses must be positive")
	}
	if err := validateClasses(applicableClasses); err != nil {
		return nil, err
	}

	date = helpers.TruncateToDay(date)
	if err := checkLeadTime(date); err != nil {
		return nil, err
	}
	if err := s.checkDateAvailable(ctx, date, 0); err != nil {
		return nil, err
	}

	if applicableClasses == nil {
		applicableClasses = []string{}
	}

	drive := &models.VaccinationDrive{
		VaccineName:       strings.TrimSpace(vaccineName),
		Date:              date,
		AvailableDoses:    availableDoses,
		ApplicableClasses: applicableClasses,
		Status:            models.DriveStatusScheduled,
	}

	if err := s.drives.Create(ctx, drive); err != nil {
		return nil, err
	}

	return drive, nil
}

// GetDrive retrieves a vaccination drive by ID
func (s *DriveService) GetDrive(ctx context.Context, id int64) (*models.VaccinationDrive, error) {
	return s.drives.GetByID(ctx, id)
}

// UpdateDrive applies a partial update to a drive. Drives whose date has
// already passed are frozen and reject every edit. Moving the date re-runs
// the lead-time and uniqueness checks against the new date.
func (s *DriveService) UpdateDrive(ctx context.Context, id int64, update DriveUpdate) (*models.VaccinationDrive, error) {
	drive, err := s.drives.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Past drives are immutable regardless of which fields the update touches
	if drive.Date.Before(helpers.Today()) {
		return nil, apperrors.ErrDriveInPast
	}

	if update.Date != nil {
		newDate := helpers.TruncateToDay(*update.Date)
		if !helpers.SameDay(newDate, drive.Date) {
			if err := checkLeadTime(newDate); err != nil {
				return nil, err
			}
			if err := s.checkDateAvailable(ctx, newDate, drive.ID); err != nil {
				return nil, err
			}
			drive.Date = newDate
		}
	}

	if update.VaccineName != nil {
		if strings.TrimSpace(*update.VaccineName) == "" {
			return nil, apperrors.NewValidationError("vaccine name cannot be empty")
		}
		drive.VaccineName = strings.TrimSpace(*update.VaccineName)
	}

	if update.AvailableDoses != nil {
		if *update.AvailableDoses <= 0 {
			return nil, apperrors.NewValidationError("available doses must be positive")
		}
		if *update.AvailableDoses < drive.UsedDoses {
			return nil, apperrors.NewValidationError("available doses cannot drop below doses already used")
		}
		drive.AvailableDoses = *update.AvailableDoses
	}

	if update.ApplicableClasses != nil {
		if err := validateClasses(*update.ApplicableClasses); err != nil {
			return nil, err
		}
		drive.ApplicableClasses = *update.ApplicableClasses
	}

	if update.Status != nil {
		if !update.Status.IsValid() {
			return nil, apperrors.NewValidationError("invalid drive status")
		}
		drive.Status = *update.Status
	}

	if err := s.drives.Update(ctx, drive); err != nil {
		return nil, err
	}

	return drive, nil
}

// DeleteDrive removes a drive. Past drives and drives with vaccination
// records cannot be deleted.
func (s *DriveService) DeleteDrive(ctx context.Context, id int64) error {
	drive, err := s.drives.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if drive.Date.Before(helpers.Today()) {
		return apperrors.ErrDriveInPast
	}

	count, err := s.drives.CountRecords(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperrors.ErrDriveHasRecords
	}

	return s.drives.Delete(ctx, id)
}

// ListDrives retrieves drives with optional status filtering and pagination
func (s *DriveService) ListDrives(ctx context.Context, status *models.DriveStatus, offset uint64, limit int) ([]*models.VaccinationDrive, int64, error) {
	if status != nil && !status.IsValid() {
		return nil, 0, apperrors.NewValidationError("invalid drive status")
	}

	return s.drives.List(ctx, models.DriveFilter{
		Status: status,
		Offset: offset,
		Limit:  limit,
	})
}

// UpcomingDrives returns scheduled drives within the next UpcomingWindowDays
func (s *DriveService) UpcomingDrives(ctx context.Context) ([]*models.VaccinationDrive, error) {
	today := helpers.Today()
	return s.drives.ListScheduledBetween(ctx, today, today.AddDate(0, 0, UpcomingWindowDays))
}

// reconciledStatus computes the status a drive should hold relative to today.
// Cancelled drives are terminal and never move.
func reconciledStatus(drive *models.VaccinationDrive, today time.Time) models.DriveStatus {
	if drive.Status == models.DriveStatusCancelled {
		return models.DriveStatusCancelled
	}
	if drive.Date.Before(today) && drive.Status == models.DriveStatusScheduled {
		return models.DriveStatusCompleted
	}
	if drive.Date.After(today) && drive.Status == models.DriveStatusCompleted {
		return models.DriveStatusScheduled
	}
	return drive.Status
}

// ReconcileDrive aligns a single drive's status with its date
func (s *DriveService) ReconcileDrive(ctx context.Context, id int64) (*models.VaccinationDrive, error) {
	drive, err := s.drives.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if want := reconciledStatus(drive, helpers.Today()); want != drive.Status {
		if err := s.drives.UpdateStatus(ctx, drive.ID, want); err != nil {
			return nil, err
		}
		drive.Status = want
	}

	return drive, nil
}

// ReconcileStatuses sweeps all non-cancelled drives and aligns their
// statuses with their dates. It returns the number of drives changed.
func (s *DriveService) ReconcileStatuses(ctx context.Context) (int, error) {
	drives, err := s.drives.ListNonCancelled(ctx)
	if err != nil {
		return 0, err
	}

	today := helpers.Today()
	changed := 0
	for _, drive := range drives {
		want := reconciledStatus(drive, today)
		if want == drive.Status {
			continue
		}
		if err := s.drives.UpdateStatus(ctx, drive.ID, want); err != nil {
			logger.Error().Err(err).Int64("driveId", drive.ID).Msg("Failed to reconcile drive status")
			continue
		}
		changed++
	}

	return changed, nil
}
