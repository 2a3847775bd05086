package services

import (
	"context"
	"time"

	"github.com/evrenos-dev/vaxtrack/internal/app/models"
	"github.com/evrenos-dev/vaxtrack/internal/pkg/apperrors"
	"github.com/evrenos-dev/vaxtrack/internal/pkg/helpers"
)

// RecordStore is the persistence contract required by RecordService.
// Create must atomically re-check capacity, class eligibility and the
// (student, drive) uniqueness constraint, and increment the drive's dose
// counter; Delete must decrement it.
type RecordStore interface {
	Create(ctx context.Context, record *models.VaccinationRecord) error
	GetByID(ctx context.Context, id int64) (*models.VaccinationRecord, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter models.RecordFilter) ([]*models.VaccinationRecord, error)
}

// RecordService handles the vaccination record ledger
type RecordService struct {
	records  RecordStore
	students StudentStore
	drives   DriveStore
}

// NewRecordService creates a new record service instance
func NewRecordService(records RecordStore, students StudentStore, drives DriveStore) *RecordService {
	return &RecordService{
		records:  records,
		students: students,
		drives:   drives,
	}
}

// CreateRecord marks a student as vaccinated in a drive. The student and
// drive are resolved first so a missing reference is reported before any
// capacity or eligibility failure; the store then repeats the capacity,
// eligibility and uniqueness checks atomically while consuming a dose.
func (s *RecordService) CreateRecord(ctx context.Context, studentID, driveID int64, date *time.Time, status *models.RecordStatus) (*models.VaccinationRecord, error) {
	student, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}

	drive, err := s.drives.GetByID(ctx, driveID)
	if err != nil {
		return nil, err
	}

	// Fail fast on state visible without the lock; the store re-checks
	// everything inside its transaction, so these are not authoritative.
	if drive.RemainingDoses() <= 0 {
		return nil, apperrors.ErrNoDosesAvailable
	}
	if !drive.AppliesToClass(student.ClassName) {
		return nil, apperrors.ErrClassNotApplicable
	}

	record := &models.VaccinationRecord{
		StudentID: student.ID,
		DriveID:   drive.ID,
		Date:      helpers.Today(),
		Status:    models.RecordStatusCompleted,
	}
	if date != nil {
		record.Date = helpers.TruncateToDay(*date)
	}
	if status != nil {
		if *status != models.RecordStatusCompleted && *status != models.RecordStatusPending {
			return nil, apperrors.NewValidationError("invalid record status")
		}
		record.Status = *status
	}

	if err := s.records.Create(ctx, record); err != nil {
		return nil, err
	}

	record.StudentName = student.Name
	record.VaccineName = drive.VaccineName

	return record, nil
}

// GetRecord retrieves a vaccination record by ID
func (s *RecordService) GetRecord(ctx context.Context, id int64) (*models.VaccinationRecord, error) {
	return s.records.GetByID(ctx, id)
}

// DeleteRecord removes a vaccination record and releases its dose back to
// the drive's capacity.
func (s *RecordService) DeleteRecord(ctx context.Context, id int64) error {
	return s.records.Delete(ctx, id)
}

// ListRecords retrieves records, optionally filtered by student or drive
func (s *RecordService) ListRecords(ctx context.Context, studentID, driveID *int64) ([]*models.VaccinationRecord, error) {
	return s.records.List(ctx, models.RecordFilter{
		StudentID: studentID,
		DriveID:   driveID,
	})
}
