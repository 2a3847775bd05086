package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/evrenos-dev/vaxtrack/internal/app/models"
	"github.com/evrenos-dev/vaxtrack/internal/pkg/apperrors"
	"github.com/evrenos-dev/vaxtrack/internal/pkg/helpers"
)

type DriveServiceTestSuite struct {
	suite.Suite
	stores  *memStores
	service *DriveService
	ctx     context.Context
}

func TestDriveServiceTestSuite(t *testing.T) {
	suite.Run(t, new(DriveServiceTestSuite))
}

func (s *DriveServiceTestSuite) SetupTest() {
	s.stores = newMemStores()
	s.service = NewDriveService(&memDriveStore{s: s.stores})
	s.ctx = context.Background()
}

// seedDrive inserts a drive directly into the backing store, bypassing the
// scheduling rules. Tests use it to plant past or completed drives.
func (s *DriveServiceTestSuite) seedDrive(date time.Time, status models.DriveStatus, available, used int) *models.VaccinationDrive {
	s.stores.mu.Lock()
	defer s.stores.mu.Unlock()

	s.stores.nextDriveID++
	drive := &models.VaccinationDrive{
		ID:                s.stores.nextDriveID,
		VaccineName:       "Measles Vaccine",
		Date:              helpers.TruncateToDay(date),
		AvailableDoses:    available,
		UsedDoses:         used,
		ApplicableClasses: []string{},
		Status:            status,
	}
	s.stores.drives[drive.ID] = drive
	return drive
}

func (s *DriveServiceTestSuite) futureDate(days int) time.Time {
	return helpers.Today().AddDate(0, 0, days)
}

func (s *DriveServiceTestSuite) TestCreateDrive() {
	drive, err := s.service.CreateDrive(s.ctx, "HPV Vaccine", s.futureDate(20), 50, []string{"5", "6"})
	s.Require().NoError(err)
	s.NotZero(drive.ID)
	s.Equal(models.DriveStatusScheduled, drive.Status)
	s.Equal(0, drive.UsedDoses)
	s.Equal(50, drive.AvailableDoses)
}

func (s *DriveServiceTestSuite) TestCreateDriveRejectsShortNotice() {
	_, err := s.service.CreateDrive(s.ctx, "HPV Vaccine", s.futureDate(models.MinimumLeadDays-1), 50, nil)
	s.Require().ErrorIs(err, apperrors.ErrDriveLeadTime)

	// Exactly the minimum notice is allowed
	_, err = s.service.CreateDrive(s.ctx, "HPV Vaccine", s.futureDate(models.MinimumLeadDays), 50, nil)
	s.NoError(err)
}

func (s *DriveServiceTestSuite) TestCreateDriveRejectsTakenDate() {
	date := s.futureDate(30)
	_, err := s.service.CreateDrive(s.ctx, "HPV Vaccine", date, 50, nil)
	s.Require().NoError(err)

	_, err = s.service.CreateDrive(s.ctx, "Polio Vaccine", date, 30, nil)
	s.ErrorIs(err, apperrors.ErrDriveDateTaken)
}

func (s *DriveServiceTestSuite) TestCancelledDriveFreesItsDate() {
	date := s.futureDate(30)
	first, err := s.service.CreateDrive(s.ctx, "HPV Vaccine", date, 50, nil)
	s.Require().NoError(err)

	cancelled := models.DriveStatusCancelled
	_, err = s.service.UpdateDrive(s.ctx, first.ID, DriveUpdate{Status: &cancelled})
	s.Require().NoError(err)

	_, err = s.service.CreateDrive(s.ctx, "Polio Vaccine", date, 30, nil)
	s.NoError(err)
}

func (s *DriveServiceTestSuite) TestCreateDriveValidation() {
	_, err := s.service.CreateDrive(s.ctx, "  ", s.futureDate(20), 50, nil)
	s.ErrorIs(err, apperrors.ErrValidationFailed)

	_, err = s.service.CreateDrive(s.ctx, "HPV Vaccine", s.futureDate(20), 0, nil)
	s.ErrorIs(err, apperrors.ErrValidationFailed)

	_, err = s.service.CreateDrive(s.ctx, "HPV Vaccine", s.futureDate(20), 50, []string{"13"})
	s.ErrorIs(err, apperrors.ErrValidationFailed)
}

func (s *DriveServiceTestSuite) TestUpdateDrive() {
	drive, err := s.service.CreateDrive(s.ctx, "HPV Vaccine", s.futureDate(20), 50, nil)
	s.Require().NoError(err)

	name := "HPV Vaccine (Dose 2)"
	doses := 80
	updated, err := s.service.UpdateDrive(s.ctx, drive.ID, DriveUpdate{VaccineName: &name, AvailableDoses: &doses})
	s.Require().NoError(err)
	s.Equal(name, updated.VaccineName)
	s.Equal(80, updated.AvailableDoses)
}

func (s *DriveServiceTestSuite) TestUpdatePastDriveRejected() {
	drive := s.seedDrive(helpers.Today().AddDate(0, 0, -5), models.DriveStatusCompleted, 50, 10)

	name := "Renamed"
	_, err := s.service.UpdateDrive(s.ctx, drive.ID, DriveUpdate{VaccineName: &name})
	s.ErrorIs(err, apperrors.ErrDriveInPast)
}

func (s *DriveServiceTestSuite) TestUpdateDriveDateChange() {
	drive, err := s.service.CreateDrive(s.ctx, "HPV Vaccine", s.futureDate(20), 50, nil)
	s.Require().NoError(err)
	other, err := s.service.CreateDrive(s.ctx, "Polio Vaccine", s.futureDate(25), 30, nil)
	s.Require().NoError(err)

	// Moving onto another drive's date is rejected
	taken := other.Date
	_, err = s.service.UpdateDrive(s.ctx, drive.ID, DriveUpdate{Date: &taken})
	s.ErrorIs(err, apperrors.ErrDriveDateTaken)

	// A new date must also satisfy the minimum notice
	tooSoon := s.futureDate(5)
	_, err = s.service.UpdateDrive(s.ctx, drive.ID, DriveUpdate{Date: &tooSoon})
	s.ErrorIs(err, apperrors.ErrDriveLeadTime)

	// Re-submitting the drive's own date is not a change and passes
	same := drive.Date
	_, err = s.service.UpdateDrive(s.ctx, drive.ID, DriveUpdate{Date: &same})
	s.NoError(err)
}

func (s *DriveServiceTestSuite) TestUpdateDriveCannotShrinkBelowUsed() {
	drive := s.seedDrive(s.futureDate(20), models.DriveStatusScheduled, 50, 30)

	doses := 20
	_, err := s.service.UpdateDrive(s.ctx, drive.ID, DriveUpdate{AvailableDoses: &doses})
	s.ErrorIs(err, apperrors.ErrValidationFailed)
}

func (s *DriveServiceTestSuite) TestDeleteDrive() {
	drive, err := s.service.CreateDrive(s.ctx, "HPV Vaccine", s.futureDate(20), 50, nil)
	s.Require().NoError(err)

	s.Require().NoError(s.service.DeleteDrive(s.ctx, drive.ID))

	_, err = s.service.GetDrive(s.ctx, drive.ID)
	s.ErrorIs(err, apperrors.ErrDriveNotFound)
}

func (s *DriveServiceTestSuite) TestDeletePastDriveRejected() {
	drive := s.seedDrive(helpers.Today().AddDate(0, 0, -1), models.DriveStatusCompleted, 50, 0)

	err := s.service.DeleteDrive(s.ctx, drive.ID)
	s.ErrorIs(err, apperrors.ErrDriveInPast)
}

func (s *DriveServiceTestSuite) TestListDrivesByStatus() {
	s.seedDrive(s.futureDate(20), models.DriveStatusScheduled, 50, 0)
	s.seedDrive(s.futureDate(21), models.DriveStatusCancelled, 50, 0)
	s.seedDrive(helpers.Today().AddDate(0, 0, -10), models.DriveStatusCompleted, 50, 50)

	scheduled := models.DriveStatusScheduled
	drives, total, err := s.service.ListDrives(s.ctx, &scheduled, 0, 10)
	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Len(drives, 1)

	drives, total, err = s.service.ListDrives(s.ctx, nil, 0, 10)
	s.Require().NoError(err)
	s.Equal(int64(3), total)
	s.Len(drives, 3)
}

func (s *DriveServiceTestSuite) TestUpcomingDrives() {
	inside := s.seedDrive(s.futureDate(10), models.DriveStatusScheduled, 50, 0)
	s.seedDrive(s.futureDate(45), models.DriveStatusScheduled, 50, 0)
	s.seedDrive(s.futureDate(12), models.DriveStatusCancelled, 50, 0)

	drives, err := s.service.UpcomingDrives(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(drives, 1)
	s.Equal(inside.ID, drives[0].ID)
}

func (s *DriveServiceTestSuite) TestReconcileStatuses() {
	pastScheduled := s.seedDrive(helpers.Today().AddDate(0, 0, -3), models.DriveStatusScheduled, 50, 0)
	futureCompleted := s.seedDrive(s.futureDate(20), models.DriveStatusCompleted, 50, 0)
	cancelled := s.seedDrive(helpers.Today().AddDate(0, 0, -7), models.DriveStatusCancelled, 50, 0)
	untouched := s.seedDrive(s.futureDate(25), models.DriveStatusScheduled, 50, 0)

	changed, err := s.service.ReconcileStatuses(s.ctx)
	s.Require().NoError(err)
	s.Equal(2, changed)

	drive, err := s.service.GetDrive(s.ctx, pastScheduled.ID)
	s.Require().NoError(err)
	s.Equal(models.DriveStatusCompleted, drive.Status)

	drive, err = s.service.GetDrive(s.ctx, futureCompleted.ID)
	s.Require().NoError(err)
	s.Equal(models.DriveStatusScheduled, drive.Status)

	drive, err = s.service.GetDrive(s.ctx, cancelled.ID)
	s.Require().NoError(err)
	s.Equal(models.DriveStatusCancelled, drive.Status)

	drive, err = s.service.GetDrive(s.ctx, untouched.ID)
	s.Require().NoError(err)
	s.Equal(models.DriveStatusScheduled, drive.Status)
}

func (s *DriveServiceTestSuite) TestReconcileStatusesIsIdempotent() {
	s.seedDrive(helpers.Today().AddDate(0, 0, -3), models.DriveStatusScheduled, 50, 0)

	changed, err := s.service.ReconcileStatuses(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, changed)

	changed, err = s.service.ReconcileStatuses(s.ctx)
	s.Require().NoError(err)
	s.Equal(0, changed)
}

func (s *DriveServiceTestSuite) TestReconcileDriveNotFound() {
	_, err := s.service.ReconcileDrive(s.ctx, 999)
	s.ErrorIs(err, apperrors.ErrDriveNotFound)
}
